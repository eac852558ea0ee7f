package controller

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leadhub/models"
	"leadhub/services"
	"leadhub/utils"
)

type LeadController struct {
	Leads *services.LeadsService
}

func NewLeadController(leads *services.LeadsService) *LeadController {
	return &LeadController{Leads: leads}
}

// GetLeads returns the paginated listing of active leads
func (lc *LeadController) GetLeads(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit > 100 {
		limit = 100
	}

	result, err := lc.Leads.GetLeads(page, limit)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  result.Leads,
		Total: result.Count,
		Page:  page,
		Limit: limit,
	})
}

// GetLead returns a single lead by ID, active or not
func (lc *LeadController) GetLead(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	lead, err := lc.Leads.GetLeadByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	return c.JSON(utils.SuccessResponse(lead))
}

type leadCreateInput struct {
	Nome        string `json:"nome" validate:"required,max=200"`
	Email       string `json:"email" validate:"omitempty,email_format"`
	Telefone    string `json:"telefone" validate:"required,br_phone"`
	Instagram   string `json:"instagram" validate:"omitempty,max=120,instagram_handle"`
	Decisor     string `json:"decisor" validate:"required,max=200"`
	Endereco    string `json:"endereco" validate:"required,max=300"`
	Cidade      string `json:"cidade" validate:"required,max=120"`
	Estado      string `json:"estado" validate:"required,len=2"`
	Website     string `json:"website" validate:"omitempty,max=300"`
	IDProduto   *uint  `json:"id_produto"`
	Status      string `json:"status" validate:"omitempty,oneof=NENHUM 'SEM RETORNO' 'SEM INTERESSE' TALVEZ 'MEDIO INTERESSE' 'MUITO INTERESSADO' OCUPADO"`
	Active      string `json:"active" validate:"omitempty,oneof=yes no"`
	Observacoes string `json:"observacoes" validate:"omitempty,max=1000"`
}

// CreateLead validates the payload and creates a new lead, rejecting
// duplicates of email, instagram or website among active leads
func (lc *LeadController) CreateLead(c *fiber.Ctx) error {
	var input leadCreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	lead, err := lc.Leads.CreateLead(services.LeadCreate{
		Nome:        input.Nome,
		Email:       input.Email,
		Telefone:    input.Telefone,
		Instagram:   input.Instagram,
		Decisor:     input.Decisor,
		Endereco:    input.Endereco,
		Cidade:      input.Cidade,
		Estado:      input.Estado,
		Website:     input.Website,
		IDProduto:   input.IDProduto,
		Status:      input.Status,
		Active:      input.Active,
		Observacoes: input.Observacoes,
	})
	if err != nil {
		var dup *services.DuplicateLeadError
		if errors.As(err, &dup) {
			return utils.ErrorResponse(c, fiber.StatusConflict, dup.Error(), nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(lead))
}

type leadUpdateInput struct {
	Nome        *string `json:"nome" validate:"omitempty,max=200"`
	Email       *string `json:"email" validate:"omitempty,email_format"`
	Telefone    *string `json:"telefone" validate:"omitempty,br_phone"`
	Instagram   *string `json:"instagram" validate:"omitempty,max=120,instagram_handle"`
	Decisor     *string `json:"decisor" validate:"omitempty,max=200"`
	Endereco    *string `json:"endereco" validate:"omitempty,max=300"`
	Cidade      *string `json:"cidade" validate:"omitempty,max=120"`
	Estado      *string `json:"estado" validate:"omitempty,len=2"`
	Website     *string `json:"website" validate:"omitempty,max=300"`
	IDProduto   *uint   `json:"id_produto"`
	Status      *string `json:"status" validate:"omitempty,oneof=NENHUM 'SEM RETORNO' 'SEM INTERESSE' TALVEZ 'MEDIO INTERESSE' 'MUITO INTERESSADO' OCUPADO"`
	Active      *string `json:"active" validate:"omitempty,oneof=yes no"`
	Observacoes *string `json:"observacoes" validate:"omitempty,max=1000"`
}

// UpdateLead applies a partial update; absent fields are left untouched
func (lc *LeadController) UpdateLead(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var input leadUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	lead, err := lc.Leads.UpdateLead(id, services.LeadUpdate{
		Nome:        input.Nome,
		Email:       input.Email,
		Telefone:    input.Telefone,
		Instagram:   input.Instagram,
		Decisor:     input.Decisor,
		Endereco:    input.Endereco,
		Cidade:      input.Cidade,
		Estado:      input.Estado,
		Website:     input.Website,
		IDProduto:   input.IDProduto,
		Status:      input.Status,
		Active:      input.Active,
		Observacoes: input.Observacoes,
	})
	if err != nil {
		var dup *services.DuplicateLeadError
		if errors.As(err, &dup) {
			return utils.ErrorResponse(c, fiber.StatusConflict, dup.Error(), nil)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", err)
	}

	return c.JSON(utils.SuccessResponse(lead))
}

// DeleteLead flips the lead to inactive; the row is never removed
func (lc *LeadController) DeleteLead(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	if err := lc.Leads.DeleteLead(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete lead", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "Lead deactivated successfully",
	}))
}

// SearchLeads runs the free-text search across active leads
func (lc *LeadController) SearchLeads(c *fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Search term is required", nil)
	}

	leads, err := lc.Leads.SearchLeads(term)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to search leads", err)
	}

	return c.JSON(utils.SuccessResponse(leads))
}

// GetLeadsStats returns active-lead counts per status bucket
func (lc *LeadController) GetLeadsStats(c *fiber.Ctx) error {
	stats, err := lc.Leads.GetLeadsStats()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead stats", err)
	}

	return c.JSON(utils.SuccessResponse(stats))
}

// GetLeadsByStatus lists active leads with an exact status match
func (lc *LeadController) GetLeadsByStatus(c *fiber.Ctx) error {
	status, err := url.PathUnescape(c.Params("status"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status", err)
	}

	valid := false
	for _, s := range models.LeadStatuses {
		if s == status {
			valid = true
			break
		}
	}
	if !valid {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown status", nil)
	}

	leads, err := lc.Leads.GetLeadsByStatus(status)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads by status", err)
	}

	return c.JSON(utils.SuccessResponse(leads))
}
