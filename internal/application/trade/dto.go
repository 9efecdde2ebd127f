package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/inventario/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Line DTOs
// =============================================================================

// LineRequest is one product line in an order or sale request
type LineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"required"`
}

// LineResponse represents a product line in API responses
type LineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// SaleLineResponse is a sale line with its returned quantity
type SaleLineResponse struct {
	LineResponse
	ReturnedQuantity int `json:"returned_quantity"`
}

func toLineInputs(lines []LineRequest) []trade.LineInput {
	inputs := make([]trade.LineInput, len(lines))
	for i, l := range lines {
		inputs[i] = trade.LineInput{ProductID: l.ProductID, Quantity: l.Quantity}
		if l.UnitPrice != nil {
			inputs[i].UnitPrice = *l.UnitPrice
		}
	}
	return inputs
}

// =============================================================================
// Order DTOs
// =============================================================================

// CreateOrderRequest represents a request to create an order with its lines
type CreateOrderRequest struct {
	Client    string           `json:"client" binding:"required,min=1,max=255"`
	OrderedAt *time.Time       `json:"ordered_at"`
	Total     *decimal.Decimal `json:"total"`
	Lines     []LineRequest    `json:"lines" binding:"omitempty,dive"`
}

// UpdateOrderRequest replaces an order's client, lines and total and may move
// its statuses
type UpdateOrderRequest struct {
	Client        string           `json:"client" binding:"required,min=1,max=255"`
	OrderedAt     *time.Time       `json:"ordered_at"`
	Total         *decimal.Decimal `json:"total"`
	Lines         []LineRequest    `json:"lines" binding:"omitempty,dive"`
	Status        string           `json:"status" binding:"omitempty,oneof=pending completed cancelled"`
	PaymentStatus string           `json:"payment_status" binding:"omitempty,oneof=pending paid failed refunded"`
}

// PaymentStatusRequest carries the target payment status
type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=pending paid failed refunded"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderedAt     time.Time       `json:"ordered_at"`
	Client        string          `json:"client"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Lines         []LineResponse  `json:"lines"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderListFilter represents filter options for order list
type OrderListFilter struct {
	Search        string `form:"search"`
	Status        string `form:"status" binding:"omitempty,oneof=pending completed cancelled"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending paid failed refunded"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		OrderedAt:     o.OrderedAt,
		Client:        o.Client,
		Total:         o.Total,
		Status:        o.Status.String(),
		PaymentStatus: o.PaymentStatus.String(),
		Lines:         make([]LineResponse, len(o.Lines)),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for i, l := range o.Lines {
		resp.Lines[i] = LineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Amount:    l.Amount(),
		}
		if l.Product != nil {
			resp.Lines[i].ProductName = l.Product.Name
		}
	}
	return resp
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

// =============================================================================
// Sale DTOs
// =============================================================================

// CreateSaleRequest represents a request to record a sale for a completed order
type CreateSaleRequest struct {
	OrderID uuid.UUID     `json:"order_id" binding:"required"`
	Client  string        `json:"client" binding:"max=255"`
	SoldAt  *time.Time    `json:"sold_at"`
	Lines   []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateSaleRequest replaces a sale's client and lines
type UpdateSaleRequest struct {
	Client string        `json:"client" binding:"required,min=1,max=255"`
	SoldAt *time.Time    `json:"sold_at"`
	Lines  []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID        uuid.UUID          `json:"id"`
	OrderID   uuid.UUID          `json:"order_id"`
	SoldAt    time.Time          `json:"sold_at"`
	Client    string             `json:"client"`
	Total     decimal.Decimal    `json:"total"`
	Lines     []SaleLineResponse `json:"lines"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// SaleListFilter represents filter options for sale list
type SaleListFilter struct {
	Search   string `form:"search"`
	OrderID  string `form:"order_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SalesReportRequest carries the inclusive date range of a sales report
type SalesReportRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// SalesReportResponse is the amount and number of sales in a date range
type SalesReportResponse struct {
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	TotalAmount decimal.Decimal `json:"total_sales_amount"`
	SalesCount  int64           `json:"total_sales_count"`
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *trade.Sale) SaleResponse {
	resp := SaleResponse{
		ID:        s.ID,
		OrderID:   s.OrderID,
		SoldAt:    s.SoldAt,
		Client:    s.Client,
		Total:     s.Total,
		Lines:     make([]SaleLineResponse, len(s.Lines)),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for i, l := range s.Lines {
		resp.Lines[i] = SaleLineResponse{
			LineResponse: LineResponse{
				ID:        l.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				Amount:    l.Amount(),
			},
			ReturnedQuantity: l.ReturnedQuantity,
		}
		if l.Product != nil {
			resp.Lines[i].ProductName = l.Product.Name
		}
	}
	return resp
}

// ToSaleResponses converts a slice of domain Sales
func ToSaleResponses(sales []trade.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses
}

// =============================================================================
// Export and Return DTOs
// =============================================================================

// CreateExportRequest represents a request to record an export
type CreateExportRequest struct {
	SaleID             uuid.UUID `json:"sale_id" binding:"required"`
	ExportDate         string    `json:"export_date" binding:"required,datetime=2006-01-02"`
	DestinationCountry string    `json:"destination_country" binding:"required,min=1,max=100"`
}

// UpdateExportRequest replaces an export's descriptive fields
type UpdateExportRequest struct {
	ExportDate         string `json:"export_date" binding:"required,datetime=2006-01-02"`
	DestinationCountry string `json:"destination_country" binding:"required,min=1,max=100"`
}

// ExportResponse represents an export in API responses
type ExportResponse struct {
	ID                 uuid.UUID `json:"id"`
	SaleID             uuid.UUID `json:"sale_id"`
	ExportDate         string    `json:"export_date"`
	DestinationCountry string    `json:"destination_country"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CreateReturnRequest represents a request to record a return
type CreateReturnRequest struct {
	SaleID     uuid.UUID `json:"sale_id" binding:"required"`
	ReturnDate string    `json:"return_date" binding:"required,datetime=2006-01-02"`
	Reason     string    `json:"reason" binding:"required,min=1"`
}

// UpdateReturnRequest replaces a return's descriptive fields
type UpdateReturnRequest struct {
	ReturnDate string `json:"return_date" binding:"required,datetime=2006-01-02"`
	Reason     string `json:"reason" binding:"required,min=1"`
}

// ReturnResponse represents a return in API responses
type ReturnResponse struct {
	ID         uuid.UUID `json:"id"`
	SaleID     uuid.UUID `json:"sale_id"`
	ReturnDate string    `json:"return_date"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SaleRecordFilter filters exports or returns by sale
type SaleRecordFilter struct {
	Search   string `form:"search"`
	SaleID   string `form:"sale_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToExportResponse converts a domain Export to ExportResponse
func ToExportResponse(e *trade.Export) ExportResponse {
	return ExportResponse{
		ID:                 e.ID,
		SaleID:             e.SaleID,
		ExportDate:         e.ExportDate.Format(time.DateOnly),
		DestinationCountry: e.DestinationCountry,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

// ToReturnResponse converts a domain Return to ReturnResponse
func ToReturnResponse(r *trade.Return) ReturnResponse {
	return ReturnResponse{
		ID:         r.ID,
		SaleID:     r.SaleID,
		ReturnDate: r.ReturnDate.Format(time.DateOnly),
		Reason:     r.Reason,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// =============================================================================
// Helpers
// =============================================================================

func listFilter(page, pageSize int, orderBy, orderDir, search string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	f.Search = search
	return f
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, value, time.UTC)
	if err != nil {
		return time.Time{}, shared.InvalidInput(field + " must use the YYYY-MM-DD format")
	}
	return t, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
