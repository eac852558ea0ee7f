package services

import (
	"github.com/sirupsen/logrus"

	"leadhub/models"
)

// ProductStore is the persistence surface the products service depends on.
type ProductStore interface {
	List() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Insert(product *models.Product) error
	UpdateFields(id uint, fields map[string]interface{}) (*models.Product, error)
	// ToggleActive flips the active flag in a single backend statement and
	// returns the resulting row.
	ToggleActive(id uint) (*models.Product, error)
	ActiveFlags() ([]bool, error)
}

// ProductCreate carries the fields accepted when registering an offering.
type ProductCreate struct {
	Nome               string
	DescricaoDetalhada string
	PromptConsultivo   string
	Active             *bool
}

// ProductUpdate carries a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Nome               *string
	DescricaoDetalhada *string
	PromptConsultivo   *string
	Active             *bool
}

// ProductsService handles the product catalog. The catalog is small and
// low-traffic, so reads go straight to the store with no cache layer.
type ProductsService struct {
	store ProductStore
	log   *logrus.Entry
}

func NewProductsService(store ProductStore, log *logrus.Entry) *ProductsService {
	return &ProductsService{store: store, log: log}
}

// GetProducts lists the whole catalog, newest first.
func (s *ProductsService) GetProducts() ([]models.Product, error) {
	products, err := s.store.List()
	if err != nil {
		s.log.WithError(err).Error("failed to list products")
		return nil, err
	}
	return products, nil
}

// GetProductByID fetches a single product.
func (s *ProductsService) GetProductByID(id uint) (*models.Product, error) {
	product, err := s.store.GetByID(id)
	if err != nil {
		s.log.WithError(err).WithField("product_id", id).Error("failed to fetch product")
		return nil, err
	}
	return product, nil
}

// CreateProduct registers a new offering. New products default to active.
func (s *ProductsService) CreateProduct(input ProductCreate) (*models.Product, error) {
	product := &models.Product{
		Nome:               input.Nome,
		DescricaoDetalhada: input.DescricaoDetalhada,
		PromptConsultivo:   input.PromptConsultivo,
		Active:             true,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.store.Insert(product); err != nil {
		s.log.WithError(err).Error("failed to create product")
		return nil, err
	}

	s.log.WithField("product_id", product.ID).Info("product created")
	return product, nil
}

// UpdateProduct applies only the fields present in the partial payload.
func (s *ProductsService) UpdateProduct(id uint, input ProductUpdate) (*models.Product, error) {
	fields := map[string]interface{}{}
	if input.Nome != nil {
		fields["nome"] = *input.Nome
	}
	if input.DescricaoDetalhada != nil {
		fields["descricao_detalhada"] = *input.DescricaoDetalhada
	}
	if input.PromptConsultivo != nil {
		fields["prompt_consultivo"] = *input.PromptConsultivo
	}
	if input.Active != nil {
		fields["active"] = *input.Active
	}

	if len(fields) == 0 {
		return s.store.GetByID(id)
	}

	product, err := s.store.UpdateFields(id, fields)
	if err != nil {
		s.log.WithError(err).WithField("product_id", id).Error("failed to update product")
		return nil, err
	}
	return product, nil
}

// ToggleProductStatus flips the active flag. The flip happens in one
// backend statement, so concurrent togglers cannot lose each other's
// update.
func (s *ProductsService) ToggleProductStatus(id uint) (*models.Product, error) {
	product, err := s.store.ToggleActive(id)
	if err != nil {
		s.log.WithError(err).WithField("product_id", id).Error("failed to toggle product status")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"product_id": id,
		"active":     product.Active,
	}).Info("product status toggled")
	return product, nil
}

// GetProductsStats counts products by their active flag.
func (s *ProductsService) GetProductsStats() (*models.ProductStats, error) {
	flags, err := s.store.ActiveFlags()
	if err != nil {
		s.log.WithError(err).Error("failed to fetch product stats")
		return nil, err
	}

	stats := &models.ProductStats{Total: len(flags)}
	for _, active := range flags {
		if active {
			stats.Ativos++
		} else {
			stats.Inativos++
		}
	}
	return stats, nil
}
