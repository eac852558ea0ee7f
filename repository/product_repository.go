package repository

import (
	"gorm.io/gorm"

	"leadhub/models"
)

// ProductRepository implements services.ProductStore on Postgres via GORM.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Insert(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *ProductRepository) UpdateFields(id uint, fields map[string]interface{}) (*models.Product, error) {
	result := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// ToggleActive flips the flag inside the database so two concurrent toggles
// serialize there instead of losing one update.
func (r *ProductRepository) ToggleActive(id uint) (*models.Product, error) {
	result := r.db.Model(&models.Product{}).
		Where("id = ?", id).
		Update("active", gorm.Expr("NOT active"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

func (r *ProductRepository) ActiveFlags() ([]bool, error) {
	var flags []bool
	if err := r.db.Model(&models.Product{}).Pluck("active", &flags).Error; err != nil {
		return nil, err
	}
	return flags, nil
}
