package services

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"leadhub/models"
)

// Cache TTLs in minutes, per read path. Listings are cached briefly because
// leads are created in rapid sequence during prospecting sessions; the
// duplicate check window is the tightest for the same reason.
const (
	leadsPageTTL      = 2
	leadByIDTTL       = 5
	leadDuplicatesTTL = 1
	leadSearchTTL     = 3
	leadStatsTTL      = 5
	leadsByStatusTTL  = 3
)

// searchResultLimit caps free-text search results.
const searchResultLimit = 50

// LeadStore is the persistence surface the leads service depends on. All
// "Active" variants exclude soft-deleted rows (active = "no") and order by
// creation time descending.
type LeadStore interface {
	ListActive(offset, limit int) ([]models.Lead, int64, error)
	GetByID(id uint) (*models.Lead, error)
	// FindActiveMatches returns active leads whose email, instagram or
	// website exactly equals one of the non-blank arguments, excluding
	// excludeID when non-zero.
	FindActiveMatches(email, instagram, website string, excludeID uint) ([]models.Lead, error)
	Insert(lead *models.Lead) error
	UpdateFields(id uint, fields map[string]interface{}) (*models.Lead, error)
	Deactivate(id uint) error
	SearchActive(term string, limit int) ([]models.Lead, error)
	ActiveStatuses() ([]string, error)
	ListActiveByStatus(status string) ([]models.Lead, error)
}

// DuplicateLeadError rejects a create/update whose contact fields collide
// with an existing active lead.
type DuplicateLeadError struct {
	Field string // email, instagram or website
	Nome  string // display name of the conflicting lead
}

func (e *DuplicateLeadError) Error() string {
	return fmt.Sprintf("a lead with this %s already exists: %s", e.Field, e.Nome)
}

// LeadCreate carries the fields accepted when recording a new lead.
type LeadCreate struct {
	Nome        string
	Email       string
	Telefone    string
	Instagram   string
	Decisor     string
	Endereco    string
	Cidade      string
	Estado      string
	Website     string
	IDProduto   *uint
	Status      string
	Active      string
	Observacoes string
}

// LeadUpdate carries a partial update; nil fields are left untouched.
type LeadUpdate struct {
	Nome        *string
	Email       *string
	Telefone    *string
	Instagram   *string
	Decisor     *string
	Endereco    *string
	Cidade      *string
	Estado      *string
	Website     *string
	IDProduto   *uint
	Status      *string
	Active      *string
	Observacoes *string
}

// LeadsPage is one window of the active-leads listing.
type LeadsPage struct {
	Leads []models.Lead `json:"data"`
	Count int64         `json:"count"`
}

// LeadsService mediates all lead reads and writes, enforcing the duplicate
// rule client-side before delegating persistence to the store.
type LeadsService struct {
	store LeadStore
	cache *CacheManager
	log   *logrus.Entry
}

func NewLeadsService(store LeadStore, cache *CacheManager, log *logrus.Entry) *LeadsService {
	return &LeadsService{store: store, cache: cache, log: log}
}

// GetLeads returns one page of active leads, newest first. Page is 1-indexed.
func (s *LeadsService) GetLeads(page, limit int) (*LeadsPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("leads_page_%d_limit_%d", page, limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*LeadsPage), nil
	}

	leads, count, err := s.store.ListActive((page-1)*limit, limit)
	if err != nil {
		s.log.WithError(err).Error("failed to list leads")
		return nil, err
	}

	result := &LeadsPage{Leads: leads, Count: count}
	s.cache.Set(cacheKey, result, leadsPageTTL)
	return result, nil
}

// GetLeadByID fetches a single lead regardless of its active flag.
func (s *LeadsService) GetLeadByID(id uint) (*models.Lead, error) {
	cacheKey := fmt.Sprintf("lead_%d", id)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*models.Lead), nil
	}

	lead, err := s.store.GetByID(id)
	if err != nil {
		s.log.WithError(err).WithField("lead_id", id).Error("failed to fetch lead")
		return nil, err
	}

	s.cache.Set(cacheKey, lead, leadByIDTTL)
	return lead, nil
}

// CheckDuplicates reports whether any active lead other than excludeID
// carries an exactly matching email, instagram handle or website. Blank
// inputs short-circuit to "not duplicate" without querying. When several
// fields could collide the reported field follows a fixed precedence:
// email, then instagram, then website. A failing backend query also reports
// "not duplicate": the check is advisory and must not block writes on
// transient read errors.
func (s *LeadsService) CheckDuplicates(email, instagram, website string, excludeID uint) models.DuplicateCheckResult {
	email = strings.TrimSpace(email)
	instagram = strings.TrimSpace(instagram)
	website = strings.TrimSpace(website)

	if email == "" && instagram == "" && website == "" {
		return models.DuplicateCheckResult{}
	}

	cacheKey := fmt.Sprintf("duplicates_%s_%s_%s_%d", email, instagram, website, excludeID)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(models.DuplicateCheckResult)
	}

	matches, err := s.store.FindActiveMatches(email, instagram, website, excludeID)
	if err != nil {
		s.log.WithError(err).Warn("duplicate check query failed")
		return models.DuplicateCheckResult{}
	}

	result := models.DuplicateCheckResult{}
	if len(matches) > 0 {
		match := matches[0]
		field := "email"
		switch {
		case email != "" && match.Email == email:
			field = "email"
		case instagram != "" && match.Instagram == instagram:
			field = "instagram"
		case website != "" && match.Website == website:
			field = "website"
		}
		result = models.DuplicateCheckResult{
			IsDuplicate:  true,
			Field:        field,
			ExistingLead: &match,
		}
	}

	s.cache.Set(cacheKey, result, leadDuplicatesTTL)
	return result
}

// CreateLead inserts a new lead after running the duplicate check. On a
// collision it returns a DuplicateLeadError naming the offending field and
// the conflicting lead, and performs no insert.
func (s *LeadsService) CreateLead(input LeadCreate) (*models.Lead, error) {
	if dup := s.CheckDuplicates(input.Email, input.Instagram, input.Website, 0); dup.IsDuplicate {
		return nil, &DuplicateLeadError{Field: dup.Field, Nome: dup.ExistingLead.Nome}
	}

	lead := &models.Lead{
		Nome:        input.Nome,
		Email:       strings.TrimSpace(input.Email),
		Telefone:    input.Telefone,
		Instagram:   strings.TrimSpace(input.Instagram),
		Decisor:     input.Decisor,
		Endereco:    input.Endereco,
		Cidade:      input.Cidade,
		Estado:      input.Estado,
		Website:     strings.TrimSpace(input.Website),
		IDProduto:   input.IDProduto,
		Status:      input.Status,
		Active:      input.Active,
		Observacoes: input.Observacoes,
	}
	if lead.Status == "" {
		lead.Status = models.StatusNenhum
	}
	if lead.Active == "" {
		lead.Active = models.LeadActiveYes
	}

	if err := s.store.Insert(lead); err != nil {
		s.log.WithError(err).Error("failed to create lead")
		return nil, err
	}

	s.invalidateListings()
	s.log.WithField("lead_id", lead.ID).Info("lead created")
	return lead, nil
}

// UpdateLead applies only the fields present in the partial payload. The
// duplicate check runs, excluding the lead itself, only when a contact
// field is part of the update.
func (s *LeadsService) UpdateLead(id uint, input LeadUpdate) (*models.Lead, error) {
	if input.Email != nil || input.Instagram != nil || input.Website != nil {
		dup := s.CheckDuplicates(
			strDeref(input.Email),
			strDeref(input.Instagram),
			strDeref(input.Website),
			id,
		)
		if dup.IsDuplicate {
			return nil, &DuplicateLeadError{Field: dup.Field, Nome: dup.ExistingLead.Nome}
		}
	}

	fields := map[string]interface{}{}
	if input.Nome != nil {
		fields["nome"] = *input.Nome
	}
	if input.Email != nil {
		fields["email"] = strings.TrimSpace(*input.Email)
	}
	if input.Telefone != nil {
		fields["telefone"] = *input.Telefone
	}
	if input.Instagram != nil {
		fields["instagram"] = strings.TrimSpace(*input.Instagram)
	}
	if input.Decisor != nil {
		fields["decisor"] = *input.Decisor
	}
	if input.Endereco != nil {
		fields["endereco"] = *input.Endereco
	}
	if input.Cidade != nil {
		fields["cidade"] = *input.Cidade
	}
	if input.Estado != nil {
		fields["estado"] = *input.Estado
	}
	if input.Website != nil {
		fields["website"] = strings.TrimSpace(*input.Website)
	}
	if input.IDProduto != nil {
		fields["id_produto"] = *input.IDProduto
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.Active != nil {
		fields["active"] = *input.Active
	}
	if input.Observacoes != nil {
		fields["observacoes"] = *input.Observacoes
	}

	if len(fields) == 0 {
		return s.store.GetByID(id)
	}

	lead, err := s.store.UpdateFields(id, fields)
	if err != nil {
		s.log.WithError(err).WithField("lead_id", id).Error("failed to update lead")
		return nil, err
	}

	s.invalidateListings()
	s.cache.Invalidate(fmt.Sprintf("lead_%d", id))
	return lead, nil
}

// DeleteLead soft-deletes: the row stays, flagged inactive, and disappears
// from default listings, search, stats and duplicate comparisons.
func (s *LeadsService) DeleteLead(id uint) error {
	if err := s.store.Deactivate(id); err != nil {
		s.log.WithError(err).WithField("lead_id", id).Error("failed to deactivate lead")
		return err
	}

	s.invalidateListings()
	s.cache.Invalidate(fmt.Sprintf("lead_%d", id))
	s.log.WithField("lead_id", id).Info("lead deactivated")
	return nil
}

// SearchLeads matches the term case-insensitively against name, email,
// phone, instagram, decision-maker and city of active leads.
func (s *LeadsService) SearchLeads(term string) ([]models.Lead, error) {
	normalized := strings.ToLower(strings.TrimSpace(term))
	cacheKey := "search_" + normalized

	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]models.Lead), nil
	}

	leads, err := s.store.SearchActive(term, searchResultLimit)
	if err != nil {
		s.log.WithError(err).Error("failed to search leads")
		return nil, err
	}

	s.cache.Set(cacheKey, leads, leadSearchTTL)
	return leads, nil
}

// GetLeadsStats counts active leads per status bucket.
func (s *LeadsService) GetLeadsStats() (*models.LeadStats, error) {
	const cacheKey = "stats_leads"
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*models.LeadStats), nil
	}

	statuses, err := s.store.ActiveStatuses()
	if err != nil {
		s.log.WithError(err).Error("failed to fetch lead stats")
		return nil, err
	}

	stats := &models.LeadStats{Total: len(statuses)}
	for _, status := range statuses {
		switch status {
		case models.StatusSemRetorno:
			stats.SemRetorno++
		case models.StatusSemInteresse:
			stats.SemInteresse++
		case models.StatusTalvez:
			stats.Talvez++
		case models.StatusMedioInteresse:
			stats.MedioInteresse++
		case models.StatusMuitoInteressado:
			stats.MuitoInteressado++
		}
	}

	s.cache.Set(cacheKey, stats, leadStatsTTL)
	return stats, nil
}

// GetLeadsByStatus lists active leads with an exact status match, newest
// first.
func (s *LeadsService) GetLeadsByStatus(status string) ([]models.Lead, error) {
	cacheKey := "leads_status_" + status
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]models.Lead), nil
	}

	leads, err := s.store.ListActiveByStatus(status)
	if err != nil {
		s.log.WithError(err).WithField("status", status).Error("failed to list leads by status")
		return nil, err
	}

	s.cache.Set(cacheKey, leads, leadsByStatusTTL)
	return leads, nil
}

// ClearCache drops every cached lead read.
func (s *LeadsService) ClearCache() {
	s.cache.Invalidate("")
}

// invalidateListings drops every cache group a lead mutation can stale.
func (s *LeadsService) invalidateListings() {
	s.cache.Invalidate("leads_page")
	s.cache.Invalidate("duplicates")
	s.cache.Invalidate("stats")
	s.cache.Invalidate("search")
	s.cache.Invalidate("leads_status")
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
