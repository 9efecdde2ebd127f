package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/trade"
)

// ExportService handles export records. Exports never move stock.
type ExportService struct {
	exportRepo trade.ExportRepository
	saleRepo   trade.SaleRepository
}

// NewExportService creates a new ExportService
func NewExportService(exportRepo trade.ExportRepository, saleRepo trade.SaleRepository) *ExportService {
	return &ExportService{exportRepo: exportRepo, saleRepo: saleRepo}
}

// Create records an export for an existing sale
func (s *ExportService) Create(ctx context.Context, req CreateExportRequest) (*ExportResponse, error) {
	if _, err := s.saleRepo.FindByID(ctx, req.SaleID); err != nil {
		return nil, err
	}

	date, err := parseDate("export_date", req.ExportDate)
	if err != nil {
		return nil, err
	}
	export, err := trade.NewExport(req.SaleID, date, req.DestinationCountry)
	if err != nil {
		return nil, err
	}

	if err := s.exportRepo.Save(ctx, export); err != nil {
		return nil, err
	}

	response := ToExportResponse(export)
	return &response, nil
}

// GetByID retrieves an export by ID
func (s *ExportService) GetByID(ctx context.Context, exportID uuid.UUID) (*ExportResponse, error) {
	export, err := s.exportRepo.FindByID(ctx, exportID)
	if err != nil {
		return nil, err
	}

	response := ToExportResponse(export)
	return &response, nil
}

// List retrieves a list of exports with filtering and pagination
func (s *ExportService) List(ctx context.Context, filter SaleRecordFilter) ([]ExportResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.SaleID != "" {
		domainFilter.Filters["sale_id"] = filter.SaleID
	}

	exports, err := s.exportRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.exportRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ExportResponse, len(exports))
	for i := range exports {
		responses[i] = ToExportResponse(&exports[i])
	}
	return responses, total, nil
}

// Update replaces the export's date and destination
func (s *ExportService) Update(ctx context.Context, exportID uuid.UUID, req UpdateExportRequest) (*ExportResponse, error) {
	export, err := s.exportRepo.FindByID(ctx, exportID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate("export_date", req.ExportDate)
	if err != nil {
		return nil, err
	}
	if err := export.Update(date, req.DestinationCountry); err != nil {
		return nil, err
	}

	if err := s.exportRepo.Save(ctx, export); err != nil {
		return nil, err
	}

	response := ToExportResponse(export)
	return &response, nil
}

// Delete removes an export
func (s *ExportService) Delete(ctx context.Context, exportID uuid.UUID) error {
	return s.exportRepo.Delete(ctx, exportID)
}
