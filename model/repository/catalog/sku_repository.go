package catalog

import (
	"errors"

	"gorm.io/gorm"

	catalogEntity "wholesale.GO/model/entity/catalog"
)

type SKURepository struct {
	db *gorm.DB
}

func NewSKURepository(db *gorm.DB) *SKURepository {
	return &SKURepository{db: db}
}

// FindByID returns the SKU for a tenant, or nil if absent.
func (r *SKURepository) FindByID(tenantID, skuID uint) (*catalogEntity.SKU, error) {
	var sku catalogEntity.SKU
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, skuID).First(&sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sku, nil
}

// FindByIDs returns the tenant's SKUs keyed by id.
func (r *SKURepository) FindByIDs(tenantID uint, ids []uint) (map[uint]catalogEntity.SKU, error) {
	if len(ids) == 0 {
		return map[uint]catalogEntity.SKU{}, nil
	}
	var skus []catalogEntity.SKU
	if err := r.db.Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&skus).Error; err != nil {
		return nil, err
	}
	result := make(map[uint]catalogEntity.SKU, len(skus))
	for _, s := range skus {
		result[s.ID] = s
	}
	return result, nil
}

// Search matches SKUs by code or name substring. Used as the fallback when
// Elasticsearch is not configured.
func (r *SKURepository) Search(tenantID uint, query string, limit int) ([]catalogEntity.SKU, error) {
	if limit <= 0 {
		limit = 20
	}
	var skus []catalogEntity.SKU
	like := "%" + query + "%"
	err := r.db.Where("tenant_id = ? AND (code LIKE ? OR name LIKE ?)", tenantID, like, like).
		Order("code ASC").
		Limit(limit).
		Find(&skus).Error
	return skus, err
}
