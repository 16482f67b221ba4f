// Package route derives the logical page state of the portal from a URL and
// builds URLs for navigation. Page state is a pure function of the query
// string (with a fragment fallback kept for old bookmarks), so the browser
// back/forward history and server-side rendering agree by construction.
package route

import (
	"net/url"
	"strings"
)

// Page names the logical pages of the portal.
type Page string

const (
	PageHome     Page = "home"
	PageSchedule Page = "schedule"
	PageCatalog  Page = "education"
	PageApply    Page = "apply"
	PageConfirm  Page = "confirm"
	PageFAQ      Page = "faq"
	PageContact  Page = "contact"
	PagePrivacy  Page = "privacy"
)

const (
	paramPage   = "page"
	paramDetail = "detail"
)

var validPages = map[Page]struct{}{
	PageHome:     {},
	PageSchedule: {},
	PageCatalog:  {},
	PageApply:    {},
	PageConfirm:  {},
	PageFAQ:      {},
	PageContact:  {},
	PagePrivacy:  {},
}

// Valid reports whether p is a member of the page enumeration.
func Valid(p Page) bool {
	_, ok := validPages[p]
	return ok
}

// State is the parsed route: the page plus an optional detail identifier.
// Detail is opaque here; it addresses one course group on the catalog page.
type State struct {
	Page   Page
	Detail string
}

// Overlay returns the overlay state implied by the route. The overlay is
// never tracked separately: it is recomputed from Detail every time, so a
// URL without detail always means closed.
func (s State) Overlay() OverlayState {
	if s.Detail == "" {
		return OverlayState{}
	}
	return OverlayState{Open: true, ID: s.Detail}
}

// OverlayState is the explicit open/closed state of the course detail view.
type OverlayState struct {
	Open bool
	ID   string
}

// Parse computes the route state from a URL. The "page" query parameter
// wins; the fragment is a fallback; anything unrecognized silently maps to
// home. Never returns an error: an invalid page is a navigation default,
// not a failure.
func Parse(u *url.URL) State {
	query := u.Query()

	page := Page(strings.TrimSpace(query.Get(paramPage)))
	if page == "" {
		page = Page(strings.TrimSpace(u.Fragment))
	}
	if !Valid(page) {
		page = PageHome
	}

	return State{
		Page:   page,
		Detail: query.Get(paramDetail),
	}
}

// Navigate builds the URL for a page (and optional detail) on top of the
// current location. The page is mirrored into the fragment for old
// hash-based links. The second return value reports whether the result
// differs from current; callers only push history or redirect when it does.
func Navigate(current *url.URL, page Page, detail string) (*url.URL, bool) {
	if !Valid(page) {
		page = PageHome
	}

	next := *current
	query := next.Query()
	query.Set(paramPage, string(page))
	if detail != "" {
		query.Set(paramDetail, detail)
	} else {
		query.Del(paramDetail)
	}
	next.RawQuery = query.Encode()
	next.Fragment = string(page)

	changed := next.String() != current.String()
	return &next, changed
}
