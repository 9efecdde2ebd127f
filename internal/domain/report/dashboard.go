package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopLimit is the number of entries in the top products and clients lists
const TopLimit = 5

// SaleFact is one sale inside a window together with the cost of the
// order it was raised from (sum of that order's line quantity x unit price).
type SaleFact struct {
	SoldAt    time.Time
	Total     decimal.Decimal
	OrderCost decimal.Decimal
}

// MonthlyBucket aggregates sales and profit for one calendar month
type MonthlyBucket struct {
	Month  time.Time       `json:"month"`
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
}

// TopProduct is a product ranked by quantity sold
type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
}

// TopClient is a client ranked by amount bought
type TopClient struct {
	Client string          `json:"client"`
	Total  decimal.Decimal `json:"total"`
}

// SalesTotals is the amount and number of sales in a window
type SalesTotals struct {
	Amount decimal.Decimal
	Count  int64
}

// Dashboard is the full reporting output for one window
type Dashboard struct {
	Window         Window
	TotalProducts  int64
	TotalSales     decimal.Decimal
	SalesCount     int64
	TotalOrders    int64
	InventoryValue decimal.Decimal
	Monthly        []MonthlyBucket
	TopProducts    []TopProduct
	TopClients     []TopClient
	NetProfit      decimal.Decimal
	SalesGrowth    decimal.Decimal
}

// BucketByMonth groups facts by UTC calendar month of SoldAt, in ascending
// month order. Profit per bucket is sales minus linked order cost.
func BucketByMonth(facts []SaleFact) []MonthlyBucket {
	byMonth := make(map[time.Time]*MonthlyBucket)
	for _, f := range facts {
		t := f.SoldAt.UTC()
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		b, ok := byMonth[month]
		if !ok {
			b = &MonthlyBucket{Month: month, Sales: decimal.Zero, Profit: decimal.Zero}
			byMonth[month] = b
		}
		b.Sales = b.Sales.Add(f.Total)
		b.Profit = b.Profit.Add(f.Total.Sub(f.OrderCost))
	}

	buckets := make([]MonthlyBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Month.Before(buckets[j].Month)
	})
	return buckets
}

// NetProfit sums the profit of every bucket
func NetProfit(buckets []MonthlyBucket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.Profit)
	}
	return total
}

// SalesGrowth returns the percentage change from the first bucket's sales to
// the last one's. It is zero with fewer than two buckets or when the first
// bucket has no sales.
func SalesGrowth(buckets []MonthlyBucket) decimal.Decimal {
	if len(buckets) < 2 {
		return decimal.Zero
	}
	first := buckets[0].Sales
	if !first.IsPositive() {
		return decimal.Zero
	}
	last := buckets[len(buckets)-1].Sales
	return last.Sub(first).Div(first).Mul(decimal.NewFromInt(100)).Round(2)
}
