package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inventario/backend/internal/domain/catalog"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/inventario/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Warehouse").
		Preload("Suppliers", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Suppliers.Supplier")
}

// FindByID finds a product by ID with its warehouse and suppliers
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.withRelations(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Product")
	}
	return &product, nil
}

// FindAll lists products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := paginate(r.applyFilter(r.withRelations(ctx).Model(&catalog.Product{}), filter), filter, ProductSortFields)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter).Count(&count).Error
	return count, err
}

// FindLowStock returns products with quantity <= threshold ordered by id
func (r *GormProductRepository) FindLowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	var products []catalog.Product
	err := r.withRelations(ctx).
		Where("quantity <= ?", threshold).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

// CountLowStock counts products with quantity <= threshold
func (r *GormProductRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("quantity <= ?", threshold).
		Count(&count).Error
	return count, err
}

// FindByWarehouse returns the products assigned to a warehouse
func (r *GormProductRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]catalog.Product, error) {
	var products []catalog.Product
	err := r.withRelations(ctx).
		Where("warehouse_id = ?", warehouseID).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

// ExistingIDs returns the subset of ids that belong to stored products
func (r *GormProductRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uuid.UUID
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

// AdjustStock adds delta to the stored quantity in a single UPDATE
func (r *GormProductRepository) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", productID).
		UpdateColumns(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Product")
	}
	return nil
}

// Create inserts the product and its supplier links
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return translateError(err, "Product")
		}
		return insertSupplierLinks(tx, product)
	})
}

// Update writes every attribute except quantity and replaces the supplier links
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&catalog.Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]any{
				"name":            product.Name,
				"description":     product.Description,
				"purchase_price":  product.PurchasePrice,
				"sale_price":      product.SalePrice,
				"warehouse_id":    product.WarehouseID,
				"status":          product.Status,
				"export_eligible": product.ExportEligible,
				"export_deadline": product.ExportDeadline,
				"updated_at":      product.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("Product")
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&catalog.ProductSupplier{}).Error; err != nil {
			return err
		}
		return insertSupplierLinks(tx, product)
	})
}

// Delete removes the product together with its supplier links and every
// order and sale line that references it
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []any{&catalog.ProductSupplier{}, &trade.OrderLine{}, &trade.SaleLine{}} {
			if err := tx.Where("product_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("Product")
		}
		return nil
	})
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			if value == nil {
				query = query.Where("warehouse_id IS NULL")
			} else {
				query = query.Where("warehouse_id = ?", value)
			}
		case "export_eligible":
			query = query.Where("export_eligible = ?", value)
		}
	}
	return query
}

func insertSupplierLinks(tx *gorm.DB, product *catalog.Product) error {
	if len(product.Suppliers) == 0 {
		return nil
	}
	for i := range product.Suppliers {
		product.Suppliers[i].ProductID = product.ID
	}
	if err := tx.Omit(clause.Associations).Create(&product.Suppliers).Error; err != nil {
		return translateError(err, "Product supplier")
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
