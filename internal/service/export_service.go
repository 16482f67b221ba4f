package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sbskhp/edu-portal-api/internal/dto"
	"github.com/sbskhp/edu-portal-api/internal/models"
	appErrors "github.com/sbskhp/edu-portal-api/pkg/errors"
	"github.com/sbskhp/edu-portal-api/pkg/export"
)

// ExportFormat enumerates the supported roster export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult bundles the rendered bytes with response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders application rosters for download. Column headers
// match the legacy sheet so exported files line up with what staff are
// used to.
type ExportService struct {
	apps   applicationRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(apps applicationRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		apps:   apps,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// Applications exports the applications matching the filter.
func (s *ExportService) Applications(ctx context.Context, filter models.ApplicationFilter, format ExportFormat) (*ExportResult, error) {
	filter.Page = 1
	filter.PageSize = 100
	var all []models.Application
	for {
		batch, total, err := s.apps.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications for export")
		}
		all = append(all, batch...)
		if len(all) >= total || len(batch) == 0 {
			break
		}
		filter.Page++
	}

	dataset := applicationsDataset(all)
	stamp := time.Now().Format("20060102")

	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv; charset=utf-8",
			Filename:    fmt.Sprintf("applications-%s.csv", stamp),
		}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, "Applications")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("applications-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func applicationsDataset(apps []models.Application) export.Dataset {
	headers := dto.ApplicationSheetHeaders()
	rows := make([]map[string]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, dto.LegacyApplicationRecord(app))
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
