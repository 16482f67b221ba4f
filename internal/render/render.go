// Package render produces the server-rendered pages of the portal from the
// catalog and route state.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"go.uber.org/zap"

	"github.com/sbskhp/edu-portal-api/internal/models"
	"github.com/sbskhp/edu-portal-api/internal/route"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

// PageData carries everything a page template may need. Handlers fill only
// what the requested page uses; templates tolerate empty collections by
// rendering their empty states.
type PageData struct {
	State        route.State
	Groups       []models.CourseGroup
	OpenCourses  []models.CourseRound
	FAQs         []models.FAQEntry
	Companies    []models.Company
	Detail       *models.CourseGroup
	StatusFilter models.CourseStatus
}

// FilteredGroups applies the catalog status filter for display. The filter
// never mutates Groups: clearing it must restore the full catalog without a
// refetch.
func (d PageData) FilteredGroups() []models.CourseGroup {
	if d.StatusFilter == "" {
		return d.Groups
	}
	filtered := make([]models.CourseGroup, 0, len(d.Groups))
	for _, g := range d.Groups {
		if g.DisplayStatus == d.StatusFilter {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// Renderer executes page templates.
type Renderer struct {
	tmpl   *template.Template
	logger *zap.Logger
}

// New parses the embedded templates.
func New(logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := template.New("portal").Funcs(template.FuncMap{
		"pageURL": func(page route.Page) string {
			return fmt.Sprintf("/?page=%s", page)
		},
		"detailURL": func(id string) string {
			return fmt.Sprintf("/?page=%s&detail=%s", route.PageCatalog, id)
		},
	}).ParseFS(templatesFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, logger: logger}, nil
}

// Render writes the page for the given data. The template executes into a
// buffer first so a mid-template failure never leaves a half-written
// response body.
func (r *Renderer) Render(w io.Writer, data PageData) error {
	if !route.Valid(data.State.Page) {
		data.State.Page = route.PageHome
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, string(data.State.Page), data); err != nil {
		r.logger.Error("render page failed", zap.String("page", string(data.State.Page)), zap.Error(err))
		return fmt.Errorf("render %s: %w", data.State.Page, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
