package persistence

import (
	"strings"

	"github.com/inventario/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

var (
	ProductSortFields = map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"name": true, "quantity": true, "sale_price": true, "purchase_price": true, "status": true,
	}
	WarehouseSortFields = map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"name": true, "location": true, "capacity": true, "type": true,
	}
	SupplierSortFields = map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"name": true, "contact": true, "email": true,
	}
	OrderSortFields = map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"ordered_at": true, "client": true, "total": true, "status": true, "payment_status": true,
	}
	SaleSortFields = map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"sold_at": true, "client": true, "total": true,
	}
	ExportSortFields = map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"export_date": true, "destination_country": true,
	}
	ReturnSortFields = map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"return_date": true,
	}
)

// paginate applies whitelisted ordering and the filter's page window
func paginate(query *gorm.DB, filter shared.Filter, sortFields map[string]bool) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern; callers compare against LOWER(column)
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
