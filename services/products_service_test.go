package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"leadhub/models"
)

// mockProductStore implements ProductStore for service tests.
type mockProductStore struct {
	mock.Mock
}

func (m *mockProductStore) List() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockProductStore) GetByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductStore) Insert(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *mockProductStore) UpdateFields(id uint, fields map[string]interface{}) (*models.Product, error) {
	args := m.Called(id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductStore) ToggleActive(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductStore) ActiveFlags() ([]bool, error) {
	args := m.Called()
	return args.Get(0).([]bool), args.Error(1)
}

func newProductsService(store *mockProductStore) *ProductsService {
	return NewProductsService(store, testLogEntry())
}

func TestCreateProductDefaultsToActive(t *testing.T) {
	store := new(mockProductStore)
	svc := newProductsService(store)

	store.On("Insert", mock.MatchedBy(func(p *models.Product) bool {
		return p.Active
	})).Return(nil).Once()

	product, err := svc.CreateProduct(ProductCreate{
		Nome:               "Consultoria",
		DescricaoDetalhada: "descricao",
		PromptConsultivo:   "prompt",
	})

	require.NoError(t, err)
	assert.True(t, product.Active)
	store.AssertExpectations(t)
}

func TestCreateProductHonorsExplicitInactive(t *testing.T) {
	store := new(mockProductStore)
	svc := newProductsService(store)

	store.On("Insert", mock.MatchedBy(func(p *models.Product) bool {
		return !p.Active
	})).Return(nil).Once()

	inactive := false
	product, err := svc.CreateProduct(ProductCreate{Nome: "Rascunho", Active: &inactive})

	require.NoError(t, err)
	assert.False(t, product.Active)
	store.AssertExpectations(t)
}

func TestUpdateProductOnlySendsProvidedFields(t *testing.T) {
	store := new(mockProductStore)
	svc := newProductsService(store)

	nome := "Novo Nome"
	store.On("UpdateFields", uint(4), map[string]interface{}{"nome": "Novo Nome"}).
		Return(&models.Product{ID: 4, Nome: "Novo Nome", Active: true}, nil).Once()

	product, err := svc.UpdateProduct(4, ProductUpdate{Nome: &nome})

	require.NoError(t, err)
	assert.Equal(t, "Novo Nome", product.Nome)
	store.AssertExpectations(t)
}

func TestUpdateProductWithEmptyPayloadReadsCurrentRow(t *testing.T) {
	store := new(mockProductStore)
	svc := newProductsService(store)

	store.On("GetByID", uint(4)).Return(&models.Product{ID: 4, Nome: "Atual"}, nil).Once()

	product, err := svc.UpdateProduct(4, ProductUpdate{})

	require.NoError(t, err)
	assert.Equal(t, "Atual", product.Nome)
	store.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

func TestToggleProductStatusRoundTrip(t *testing.T) {
	store := new(mockProductStore)
	svc := newProductsService(store)

	store.On("ToggleActive", uint(1)).Return(&models.Product{ID: 1, Active: false}, nil).Once()
	store.On("ToggleActive", uint(1)).Return(&models.Product{ID: 1, Active: true}, nil).Once()
	store.On("ActiveFlags").Return([]bool{false, true}, nil).Once()
	store.On("ActiveFlags").Return([]bool{true, true}, nil).Once()

	product, err := svc.ToggleProductStatus(1)
	require.NoError(t, err)
	assert.False(t, product.Active)

	stats, err := svc.GetProductsStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Ativos)
	assert.Equal(t, 1, stats.Inativos)

	product, err = svc.ToggleProductStatus(1)
	require.NoError(t, err)
	assert.True(t, product.Active)

	stats, err = svc.GetProductsStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Ativos)
	assert.Equal(t, 0, stats.Inativos)

	store.AssertExpectations(t)
}

func TestGetProductsStatsCountsFlags(t *testing.T) {
	store := new(mockProductStore)
	svc := newProductsService(store)

	store.On("ActiveFlags").Return([]bool{true, true, false}, nil).Once()

	stats, err := svc.GetProductsStats()

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Ativos)
	assert.Equal(t, 1, stats.Inativos)
}
