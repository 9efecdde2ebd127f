package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/catalog"
	"github.com/inventario/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ReturnService handles sale returns
type ReturnService struct {
	txScope    TransactionScope
	returnRepo trade.ReturnRepository
	logger     *zap.Logger
}

// NewReturnService creates a new ReturnService
func NewReturnService(txScope TransactionScope, returnRepo trade.ReturnRepository, logger *zap.Logger) *ReturnService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReturnService{txScope: txScope, returnRepo: returnRepo, logger: logger}
}

// Create records a return and puts every unreturned sale quantity back into
// stock in the same transaction. A sale can be reversed only once; a second
// return fails with an invalid-state error.
func (s *ReturnService) Create(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	date, err := parseDate("return_date", req.ReturnDate)
	if err != nil {
		return nil, err
	}

	var created *trade.Return
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.Sales().FindByIDForUpdate(ctx, req.SaleID)
		if err != nil {
			return err
		}

		ret, err := trade.NewReturn(sale.ID, date, req.Reason)
		if err != nil {
			return err
		}
		moves, err := sale.ReturnRemaining()
		if err != nil {
			return err
		}

		if err := repos.Returns().Save(ctx, ret); err != nil {
			return err
		}
		if err := repos.Sales().SaveReturnedQuantities(ctx, sale); err != nil {
			return err
		}
		if err := catalog.Apply(ctx, repos.Stock(), moves); err != nil {
			return err
		}

		created = ret
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Return created",
		zap.String("return_id", created.ID.String()),
		zap.String("sale_id", created.SaleID.String()))

	response := ToReturnResponse(created)
	return &response, nil
}

// GetByID retrieves a return by ID
func (s *ReturnService) GetByID(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// List retrieves a list of returns with filtering and pagination
func (s *ReturnService) List(ctx context.Context, filter SaleRecordFilter) ([]ReturnResponse, int64, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.SaleID != "" {
		domainFilter.Filters["sale_id"] = filter.SaleID
	}

	returns, err := s.returnRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.returnRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReturnResponse, len(returns))
	for i := range returns {
		responses[i] = ToReturnResponse(&returns[i])
	}
	return responses, total, nil
}

// Update replaces the return's date and reason. Stock is not touched.
func (s *ReturnService) Update(ctx context.Context, returnID uuid.UUID, req UpdateReturnRequest) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate("return_date", req.ReturnDate)
	if err != nil {
		return nil, err
	}
	if err := ret.Update(date, req.Reason); err != nil {
		return nil, err
	}

	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// Delete removes a return record. Stock is not touched.
func (s *ReturnService) Delete(ctx context.Context, returnID uuid.UUID) error {
	return s.returnRepo.Delete(ctx, returnID)
}
