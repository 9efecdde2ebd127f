package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/catalog"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleLine is a product line on a sale. ReturnedQuantity tracks how much of
// the line has already been put back into stock by returns.
type SaleLine struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey"`
	SaleID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Product          *catalog.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity         int              `gorm:"not null"`
	UnitPrice        decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	ReturnedQuantity int              `gorm:"not null"`
	Position         int              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "sale_lines"
}

// Amount returns quantity times unit price
func (l SaleLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Unreturned returns the quantity not yet reversed by a return
func (l SaleLine) Unreturned() int {
	return l.Quantity - l.ReturnedQuantity
}

// Sale records goods sold against exactly one completed order
type Sale struct {
	shared.BaseEntity
	SoldAt  time.Time       `gorm:"not null;index"`
	Client  string          `gorm:"type:varchar(255);not null;index"`
	Total   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	OrderID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Order   *Order          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Lines   []SaleLine      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a sale for a completed order. An empty client falls back
// to the order's client.
func NewSale(order *Order, client string, soldAt time.Time, lines []LineInput) (*Sale, error) {
	if order == nil {
		return nil, shared.NotFound("Order")
	}
	if !order.IsCompleted() {
		return nil, shared.InvalidState("Sales can only be created for completed orders")
	}
	if client == "" {
		client = order.Client
	}
	if soldAt.IsZero() {
		soldAt = time.Now()
	}
	s := &Sale{
		BaseEntity: shared.NewBaseEntity(),
		SoldAt:     soldAt.UTC(),
		OrderID:    order.ID,
	}
	if err := s.Revise(client, lines); err != nil {
		return nil, err
	}
	return s, nil
}

// Revise replaces the client and the full line set and recomputes the total.
// It carries no stock effect; only creation and returns move stock.
func (s *Sale) Revise(client string, lines []LineInput) error {
	if client == "" {
		return shared.NewDomainError("INVALID_CLIENT", "Client cannot be empty")
	}
	if len(client) > 255 {
		return shared.NewDomainError("INVALID_CLIENT", "Client cannot exceed 255 characters")
	}
	if len(lines) == 0 {
		return shared.NewDomainError("INVALID_LINES", "A sale needs at least one line")
	}
	if err := validateLines(lines); err != nil {
		return err
	}

	// returned units stay with their product so a revision cannot reopen them
	returned := make(map[uuid.UUID]int, len(s.Lines))
	for _, line := range s.Lines {
		returned[line.ProductID] += line.ReturnedQuantity
	}

	s.Client = client
	s.Lines = make([]SaleLine, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		carried := min(returned[l.ProductID], l.Quantity)
		returned[l.ProductID] -= carried
		s.Lines[i] = SaleLine{
			ID:               uuid.New(),
			SaleID:           s.ID,
			ProductID:        l.ProductID,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice.Round(2),
			ReturnedQuantity: carried,
			Position:         i,
		}
		total = total.Add(s.Lines[i].Amount())
	}
	s.Total = total
	s.Touch()
	return nil
}

// StockDecrements returns one negative movement per line in line order
func (s *Sale) StockDecrements() []catalog.StockMovement {
	moves := make([]catalog.StockMovement, len(s.Lines))
	for i, l := range s.Lines {
		moves[i] = catalog.StockMovement{ProductID: l.ProductID, Delta: -l.Quantity}
	}
	return moves
}

// ReturnRemaining marks every line as fully returned and returns the
// positive movements needed to put the unreturned quantities back. It fails
// with an invalid-state error when nothing is left to return.
func (s *Sale) ReturnRemaining() ([]catalog.StockMovement, error) {
	moves := make([]catalog.StockMovement, 0, len(s.Lines))
	for i := range s.Lines {
		left := s.Lines[i].Unreturned()
		if left <= 0 {
			continue
		}
		moves = append(moves, catalog.StockMovement{ProductID: s.Lines[i].ProductID, Delta: left})
		s.Lines[i].ReturnedQuantity = s.Lines[i].Quantity
	}
	if len(moves) == 0 {
		return nil, shared.InvalidState("Sale has already been fully returned")
	}
	return moves, nil
}
