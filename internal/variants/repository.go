package variants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

// AttributeKeyConstraint names the per-product attribute-set uniqueness index.
const AttributeKeyConstraint = "variants_product_attribute_key"

// Repository persists variant rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	var row models.Variant
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByProduct returns the product's variants in creation order.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Variant, error) {
	var rows []models.Variant
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, row *models.Variant) (*models.Variant, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) Update(ctx context.Context, row *models.Variant) (*models.Variant, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes one variant; a missing row yields gorm.ErrRecordNotFound.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Variant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AttributeKeyTaken reports whether another variant of the product already uses
// the attribute set. excludeID skips the variant being updated.
func (r *Repository) AttributeKeyTaken(ctx context.Context, productID uuid.UUID, key string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("product_id = ? AND attribute_key = ?", productID, key)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ProductExists reports whether the parent product row exists.
func (r *Repository) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SyncHasVariants sets the product's has_variants flag from its variant count.
func (r *Repository) SyncHasVariants(ctx context.Context, productID uuid.UUID) error {
	var count int64
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.Variant{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("has_variants", count > 0).Error
}
