package services

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"leadhub/models"
)

func testLogEntry() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// mockLeadStore implements LeadStore for service tests.
type mockLeadStore struct {
	mock.Mock
}

func (m *mockLeadStore) ListActive(offset, limit int) ([]models.Lead, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]models.Lead), args.Get(1).(int64), args.Error(2)
}

func (m *mockLeadStore) GetByID(id uint) (*models.Lead, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *mockLeadStore) FindActiveMatches(email, instagram, website string, excludeID uint) ([]models.Lead, error) {
	args := m.Called(email, instagram, website, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lead), args.Error(1)
}

func (m *mockLeadStore) Insert(lead *models.Lead) error {
	args := m.Called(lead)
	return args.Error(0)
}

func (m *mockLeadStore) UpdateFields(id uint, fields map[string]interface{}) (*models.Lead, error) {
	args := m.Called(id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *mockLeadStore) Deactivate(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockLeadStore) SearchActive(term string, limit int) ([]models.Lead, error) {
	args := m.Called(term, limit)
	return args.Get(0).([]models.Lead), args.Error(1)
}

func (m *mockLeadStore) ActiveStatuses() ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockLeadStore) ListActiveByStatus(status string) ([]models.Lead, error) {
	args := m.Called(status)
	return args.Get(0).([]models.Lead), args.Error(1)
}

func newLeadsService(store *mockLeadStore) *LeadsService {
	return NewLeadsService(store, NewCacheManager(), testLogEntry())
}

func TestCheckDuplicatesBlankInputsShortCircuit(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	result := svc.CheckDuplicates("", "  ", "", 0)

	assert.False(t, result.IsDuplicate)
	store.AssertNotCalled(t, "FindActiveMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckDuplicatesFieldPrecedence(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	// The match collides on both instagram and email; email wins.
	existing := models.Lead{ID: 3, Nome: "Padaria Silva", Email: "a@x.com", Instagram: "@padaria"}
	store.On("FindActiveMatches", "a@x.com", "@padaria", "", uint(0)).
		Return([]models.Lead{existing}, nil).Once()

	result := svc.CheckDuplicates("a@x.com", "@padaria", "", 0)

	require.True(t, result.IsDuplicate)
	assert.Equal(t, "email", result.Field)
	assert.Equal(t, "Padaria Silva", result.ExistingLead.Nome)
}

func TestCheckDuplicatesExcludesOwnID(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	store.On("FindActiveMatches", "a@x.com", "", "", uint(3)).
		Return([]models.Lead{}, nil).Once()

	result := svc.CheckDuplicates("a@x.com", "", "", 3)

	assert.False(t, result.IsDuplicate)
	store.AssertExpectations(t)
}

func TestCheckDuplicatesQueryFailureReportsNotDuplicate(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	store.On("FindActiveMatches", "a@x.com", "", "", uint(0)).
		Return(nil, errors.New("backend down")).Once()

	result := svc.CheckDuplicates("a@x.com", "", "", 0)

	assert.False(t, result.IsDuplicate)
}

func TestCreateLeadRejectsDuplicateWithoutInsert(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	existing := models.Lead{ID: 1, Nome: "Padaria Silva", Email: "a@x.com"}
	store.On("FindActiveMatches", "a@x.com", "", "", uint(0)).
		Return([]models.Lead{existing}, nil).Once()

	_, err := svc.CreateLead(LeadCreate{Nome: "Outra Padaria", Email: "a@x.com", Telefone: "11 99999-0000"})

	var dup *DuplicateLeadError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
	assert.Contains(t, dup.Error(), "Padaria Silva")
	store.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestCreateLeadDefaults(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	store.On("FindActiveMatches", "a@x.com", "", "", uint(0)).
		Return([]models.Lead{}, nil).Once()
	store.On("Insert", mock.MatchedBy(func(lead *models.Lead) bool {
		return lead.Status == models.StatusNenhum && lead.Active == models.LeadActiveYes
	})).Return(nil).Once()

	lead, err := svc.CreateLead(LeadCreate{Nome: "Padaria Silva", Email: "a@x.com", Telefone: "11 99999-0000"})

	require.NoError(t, err)
	assert.Equal(t, models.LeadActiveYes, lead.Active)
	store.AssertExpectations(t)
}

// The full lifecycle the dashboard depends on: a colliding create is
// rejected until the original lead is soft-deleted, then succeeds.
func TestCreateDuplicateThenSoftDeleteScenario(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	leadA := models.Lead{ID: 1, Nome: "Lead A", Email: "a@x.com", Active: models.LeadActiveYes}

	// Lead A creation: no collision yet.
	store.On("FindActiveMatches", "a@x.com", "", "", uint(0)).
		Return([]models.Lead{}, nil).Once()
	store.On("Insert", mock.Anything).Return(nil).Once()
	_, err := svc.CreateLead(LeadCreate{Nome: "Lead A", Email: "a@x.com", Telefone: "11 98888-0000"})
	require.NoError(t, err)

	// Lead B with the same email is rejected, naming A.
	store.On("FindActiveMatches", "a@x.com", "", "", uint(0)).
		Return([]models.Lead{leadA}, nil).Once()
	_, err = svc.CreateLead(LeadCreate{Nome: "Lead B", Email: "a@x.com", Telefone: "11 97777-0000"})
	var dup *DuplicateLeadError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
	assert.Equal(t, "Lead A", dup.Nome)

	// Soft-delete A; it drops out of duplicate comparisons.
	store.On("Deactivate", uint(1)).Return(nil).Once()
	require.NoError(t, svc.DeleteLead(1))

	store.On("FindActiveMatches", "a@x.com", "", "", uint(0)).
		Return([]models.Lead{}, nil).Once()
	store.On("Insert", mock.Anything).Return(nil).Once()
	_, err = svc.CreateLead(LeadCreate{Nome: "Lead B", Email: "a@x.com", Telefone: "11 97777-0000"})
	require.NoError(t, err)

	store.AssertExpectations(t)
}

func TestGetLeadsServesSecondCallFromCache(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	store.On("ListActive", 0, 50).
		Return([]models.Lead{{ID: 1, Nome: "Lead A"}}, int64(1), nil).Once()

	first, err := svc.GetLeads(1, 50)
	require.NoError(t, err)
	second, err := svc.GetLeads(1, 50)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	store.AssertExpectations(t)
}

func TestDeleteLeadInvalidatesListings(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	store.On("ListActive", 0, 50).
		Return([]models.Lead{{ID: 1}}, int64(1), nil).Twice()
	store.On("Deactivate", uint(1)).Return(nil).Once()

	_, err := svc.GetLeads(1, 50)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLead(1))

	// Listing must refetch after the mutation.
	_, err = svc.GetLeads(1, 50)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestDeletedLeadStillFetchableByID(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	inactive := &models.Lead{ID: 1, Nome: "Lead A", Active: models.LeadActiveNo}
	store.On("Deactivate", uint(1)).Return(nil).Once()
	store.On("GetByID", uint(1)).Return(inactive, nil).Once()

	require.NoError(t, svc.DeleteLead(1))

	lead, err := svc.GetLeadByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.LeadActiveNo, lead.Active)
}

func TestUpdateLeadSkipsDuplicateCheckWithoutContactFields(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	nome := "Novo Nome"
	store.On("UpdateFields", uint(5), map[string]interface{}{"nome": "Novo Nome"}).
		Return(&models.Lead{ID: 5, Nome: "Novo Nome"}, nil).Once()

	lead, err := svc.UpdateLead(5, LeadUpdate{Nome: &nome})

	require.NoError(t, err)
	assert.Equal(t, "Novo Nome", lead.Nome)
	store.AssertNotCalled(t, "FindActiveMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateLeadRunsDuplicateCheckOnContactFields(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	email := "b@x.com"
	existing := models.Lead{ID: 9, Nome: "Outro Lead", Email: "b@x.com"}
	store.On("FindActiveMatches", "b@x.com", "", "", uint(5)).
		Return([]models.Lead{existing}, nil).Once()

	_, err := svc.UpdateLead(5, LeadUpdate{Email: &email})

	var dup *DuplicateLeadError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Outro Lead", dup.Nome)
	store.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

func TestSearchLeadsCachesByNormalizedTerm(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	store.On("SearchActive", mock.Anything, searchResultLimit).
		Return([]models.Lead{{ID: 1, Nome: "Padaria Silva"}}, nil).Once()

	_, err := svc.SearchLeads("  Padaria ")
	require.NoError(t, err)

	// Same term after normalization, so the store is not hit again.
	_, err = svc.SearchLeads("padaria")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestGetLeadsStatsCountsBuckets(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	store.On("ActiveStatuses").Return([]string{
		models.StatusSemRetorno,
		models.StatusSemRetorno,
		models.StatusTalvez,
		models.StatusMuitoInteressado,
		models.StatusNenhum,
	}, nil).Once()

	stats, err := svc.GetLeadsStats()

	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.SemRetorno)
	assert.Equal(t, 1, stats.Talvez)
	assert.Equal(t, 1, stats.MuitoInteressado)
	assert.Equal(t, 0, stats.MedioInteresse)
}

func TestGetLeadsByStatusCachesPerStatus(t *testing.T) {
	store := new(mockLeadStore)
	svc := newLeadsService(store)

	store.On("ListActiveByStatus", models.StatusTalvez).
		Return([]models.Lead{{ID: 2}}, nil).Once()
	store.On("ListActiveByStatus", models.StatusOcupado).
		Return([]models.Lead{}, nil).Once()

	_, err := svc.GetLeadsByStatus(models.StatusTalvez)
	require.NoError(t, err)
	_, err = svc.GetLeadsByStatus(models.StatusTalvez)
	require.NoError(t, err)
	_, err = svc.GetLeadsByStatus(models.StatusOcupado)
	require.NoError(t, err)

	store.AssertExpectations(t)
}
