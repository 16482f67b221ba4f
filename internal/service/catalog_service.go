package service

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sbskhp/edu-portal-api/internal/dto"
	"github.com/sbskhp/edu-portal-api/internal/models"
)

type sheetFetcher interface {
	Fetch(ctx context.Context, sheet string) ([]dto.SheetRecord, error)
}

// CatalogService serves the read-only collections: course rounds, FAQ
// entries and partner companies. Each collection is fetched from the
// upstream sheet once and memoized until Refresh; concurrent first reads
// share a single upstream request. A failed fetch is logged and surfaces
// as an empty collection so pages render their empty states instead of
// erroring, and the slot stays unfilled so the next read retries.
type CatalogService struct {
	sheets sheetFetcher
	logger *zap.Logger

	flight singleflight.Group

	mu        sync.RWMutex
	courses   []models.CourseRound
	faqs      []models.FAQEntry
	companies []models.Company
	loaded    map[string]bool
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(sheets sheetFetcher, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		sheets: sheets,
		logger: logger,
		loaded: make(map[string]bool),
	}
}

// Courses returns all course rounds, image URLs already normalized.
func (s *CatalogService) Courses(ctx context.Context) []models.CourseRound {
	s.mu.RLock()
	if s.loaded[dto.SheetEducation] {
		cached := s.courses
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	result, err, _ := s.flight.Do(dto.SheetEducation, func() (interface{}, error) {
		records, err := s.sheets.Fetch(ctx, dto.SheetEducation)
		if err != nil {
			return nil, err
		}
		rounds := make([]models.CourseRound, 0, len(records))
		for _, rec := range records {
			round := dto.CourseRoundFromRecord(rec)
			round.Image = NormalizeImageURL(round.Image)
			rounds = append(rounds, round)
		}
		s.mu.Lock()
		s.courses = rounds
		s.loaded[dto.SheetEducation] = true
		s.mu.Unlock()
		return rounds, nil
	})
	if err != nil {
		s.logger.Warn("course fetch failed", zap.Error(err))
		return []models.CourseRound{}
	}
	return result.([]models.CourseRound)
}

// Groups returns the course rounds folded into display groups.
func (s *CatalogService) Groups(ctx context.Context) []models.CourseGroup {
	return GroupRounds(s.Courses(ctx))
}

// Group resolves a single course group by round id.
func (s *CatalogService) Group(ctx context.Context, id string) (models.CourseGroup, bool) {
	return FindGroup(s.Groups(ctx), id)
}

// OpenCourses returns the rounds currently accepting applications.
func (s *CatalogService) OpenCourses(ctx context.Context) []models.CourseRound {
	var open []models.CourseRound
	for _, round := range s.Courses(ctx) {
		if round.Open() {
			open = append(open, round)
		}
	}
	return open
}

// FAQs returns the FAQ entries.
func (s *CatalogService) FAQs(ctx context.Context) []models.FAQEntry {
	s.mu.RLock()
	if s.loaded[dto.SheetFAQ] {
		cached := s.faqs
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	result, err, _ := s.flight.Do(dto.SheetFAQ, func() (interface{}, error) {
		records, err := s.sheets.Fetch(ctx, dto.SheetFAQ)
		if err != nil {
			return nil, err
		}
		entries := make([]models.FAQEntry, 0, len(records))
		for _, rec := range records {
			entry := dto.FAQEntryFromRecord(rec)
			if entry.Question == "" {
				continue
			}
			entries = append(entries, entry)
		}
		s.mu.Lock()
		s.faqs = entries
		s.loaded[dto.SheetFAQ] = true
		s.mu.Unlock()
		return entries, nil
	})
	if err != nil {
		s.logger.Warn("faq fetch failed", zap.Error(err))
		return []models.FAQEntry{}
	}
	return result.([]models.FAQEntry)
}

// Companies returns the partner company list.
func (s *CatalogService) Companies(ctx context.Context) []models.Company {
	s.mu.RLock()
	if s.loaded[dto.SheetCompanies] {
		cached := s.companies
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	result, err, _ := s.flight.Do(dto.SheetCompanies, func() (interface{}, error) {
		records, err := s.sheets.Fetch(ctx, dto.SheetCompanies)
		if err != nil {
			return nil, err
		}
		companies := make([]models.Company, 0, len(records))
		for _, rec := range records {
			company := dto.CompanyFromRecord(rec)
			if company.Name == "" {
				continue
			}
			companies = append(companies, company)
		}
		s.mu.Lock()
		s.companies = companies
		s.loaded[dto.SheetCompanies] = true
		s.mu.Unlock()
		return companies, nil
	})
	if err != nil {
		s.logger.Warn("company fetch failed", zap.Error(err))
		return []models.Company{}
	}
	return result.([]models.Company)
}

// Refresh drops every memoized collection so the next read hits the
// upstream sheet again. Staff call this after editing the spreadsheet.
func (s *CatalogService) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = nil
	s.faqs = nil
	s.companies = nil
	s.loaded = make(map[string]bool)
}

// NormalizeImageURL rewrites Google Drive share links into a directly
// embeddable image URL. Both link shapes staff paste are handled:
// .../file/d/<id>/view and ...?id=<id>. Anything else passes through
// untouched.
func NormalizeImageURL(raw string) string {
	if raw == "" || !strings.Contains(raw, "drive.google.com") {
		return raw
	}

	if i := strings.Index(raw, "/file/d/"); i >= 0 {
		rest := raw[i+len("/file/d/"):]
		if j := strings.IndexAny(rest, "/?"); j >= 0 {
			rest = rest[:j]
		}
		if rest != "" {
			return "https://lh3.googleusercontent.com/u/0/d/" + rest
		}
	}

	if u, err := url.Parse(raw); err == nil {
		if id := u.Query().Get("id"); id != "" {
			return "https://lh3.googleusercontent.com/u/0/d/" + id
		}
	}
	return raw
}
