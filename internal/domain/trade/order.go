package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/catalog"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderLine is a product line on an order
type OrderLine struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Product   *catalog.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int              `gorm:"not null"`
	UnitPrice decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	Position  int              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// Amount returns quantity times unit price
func (l OrderLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is a purchase order placed by a client.
// Lines are owned by the order and replaced as a whole on revision.
type Order struct {
	shared.BaseEntity
	OrderedAt     time.Time       `gorm:"not null;index"`
	Client        string          `gorm:"type:varchar(255);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;index"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null"`
	Lines         []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order with its lines. When total is nil it is
// derived from the lines.
func NewOrder(client string, orderedAt time.Time, lines []LineInput, total *decimal.Decimal) (*Order, error) {
	if orderedAt.IsZero() {
		orderedAt = time.Now()
	}
	o := &Order{
		BaseEntity:    shared.NewBaseEntity(),
		OrderedAt:     orderedAt.UTC(),
		Status:        OrderStatusPending,
		PaymentStatus: PaymentStatusPending,
	}
	if err := o.Revise(client, lines, total); err != nil {
		return nil, err
	}
	return o, nil
}

// Revise replaces the client, the full line set and the total
func (o *Order) Revise(client string, lines []LineInput, total *decimal.Decimal) error {
	if client == "" {
		return shared.NewDomainError("INVALID_CLIENT", "Client cannot be empty")
	}
	if len(client) > 255 {
		return shared.NewDomainError("INVALID_CLIENT", "Client cannot exceed 255 characters")
	}
	if err := validateLines(lines); err != nil {
		return err
	}
	if total != nil && total.IsNegative() {
		return shared.NewDomainError("INVALID_TOTAL", "Total cannot be negative")
	}

	o.Client = client
	o.Lines = make([]OrderLine, len(lines))
	for i, l := range lines {
		o.Lines[i] = OrderLine{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.Round(2),
			Position:  i,
		}
	}
	if total != nil {
		o.Total = total.Round(2)
	} else {
		o.Total = o.LinesTotal()
	}
	o.Touch()
	return nil
}

// LinesTotal returns the sum of line amounts
func (o *Order) LinesTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

// TransitionTo moves the order to target if the transition is allowed
func (o *Order) TransitionTo(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.InvalidState("Cannot change order status from " + o.Status.String() + " to " + target.String())
	}
	if o.Status != target {
		o.Status = target
		o.Touch()
	}
	return nil
}

// Complete marks the order as completed. Completing twice is a no-op.
func (o *Order) Complete() error {
	return o.TransitionTo(OrderStatusCompleted)
}

// IsCompleted reports whether the order has been completed
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// SetPaymentStatus moves the payment status to target if allowed
func (o *Order) SetPaymentStatus(target PaymentStatus) error {
	if !o.PaymentStatus.CanTransitionTo(target) {
		return shared.InvalidState("Cannot change payment status from " + o.PaymentStatus.String() + " to " + target.String())
	}
	if o.PaymentStatus != target {
		o.PaymentStatus = target
		o.Touch()
	}
	return nil
}
