package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leadhub/services"
	"leadhub/utils"
)

type MessageController struct {
	Messages *services.MessagesService
}

func NewMessageController(messages *services.MessagesService) *MessageController {
	return &MessageController{Messages: messages}
}

type messageCreateInput struct {
	IDLead        uint       `json:"id_lead" validate:"required"`
	Mensagem      string     `json:"mensagem" validate:"required"`
	MeioDeContato string     `json:"meio_de_contato" validate:"required,oneof=facebook whatsapp instagram pessoalmente email ligacao"`
	TipoMensagem  string     `json:"tipo_mensagem" validate:"required,oneof='primeiro contato' followup"`
	Identifica    string     `json:"identifica" validate:"required,oneof=Enviada Recebida"`
	DataHora      *time.Time `json:"data_hora"`
}

// CreateMessage records a new outreach event for a lead
func (mc *MessageController) CreateMessage(c *fiber.Ctx) error {
	var input messageCreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	create := services.MessageCreate{
		IDLead:        input.IDLead,
		Mensagem:      input.Mensagem,
		MeioDeContato: input.MeioDeContato,
		TipoMensagem:  input.TipoMensagem,
		Identifica:    input.Identifica,
	}
	if input.DataHora != nil {
		create.DataHora = *input.DataHora
	}

	message, err := mc.Messages.CreateMessage(create)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create message", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(message))
}

// GetAllMessages returns every message joined with lead identity, paginated
func (mc *MessageController) GetAllMessages(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit > 100 {
		limit = 100
	}

	result, err := mc.Messages.GetAllMessages(page, limit)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch messages", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  result.Messages,
		Total: result.Count,
		Page:  page,
		Limit: limit,
	})
}

// GetLeadMessages returns one lead's messages, paginated
func (mc *MessageController) GetLeadMessages(c *fiber.Ctx) error {
	leadID := utils.ParseUint(c.Params("id"))
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}

	result, err := mc.Messages.GetMessagesByLead(leadID, page, limit)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead messages", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  result.Messages,
		Total: result.Count,
		Page:  page,
		Limit: limit,
	})
}

// GetMessage returns a single message by ID
func (mc *MessageController) GetMessage(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	message, err := mc.Messages.GetMessageByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Message not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch message", err)
	}

	return c.JSON(utils.SuccessResponse(message))
}

type messageUpdateInput struct {
	Mensagem      *string    `json:"mensagem"`
	MeioDeContato *string    `json:"meio_de_contato" validate:"omitempty,oneof=facebook whatsapp instagram pessoalmente email ligacao"`
	TipoMensagem  *string    `json:"tipo_mensagem" validate:"omitempty,oneof='primeiro contato' followup"`
	Identifica    *string    `json:"identifica" validate:"omitempty,oneof=Enviada Recebida"`
	DataHora      *time.Time `json:"data_hora"`
}

// UpdateMessage applies a partial update; the owning lead cannot change
func (mc *MessageController) UpdateMessage(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var input messageUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	message, err := mc.Messages.UpdateMessage(id, services.MessageUpdate{
		Mensagem:      input.Mensagem,
		MeioDeContato: input.MeioDeContato,
		TipoMensagem:  input.TipoMensagem,
		Identifica:    input.Identifica,
		DataHora:      input.DataHora,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Message not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update message", err)
	}

	return c.JSON(utils.SuccessResponse(message))
}

// DeleteMessage hard-deletes a message
func (mc *MessageController) DeleteMessage(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	if err := mc.Messages.DeleteMessage(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Message not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete message", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "Message deleted successfully",
	}))
}

// GetMessagesStats returns counts by direction and kind
func (mc *MessageController) GetMessagesStats(c *fiber.Ctx) error {
	stats, err := mc.Messages.GetMessagesStats()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch message stats", err)
	}

	return c.JSON(utils.SuccessResponse(stats))
}

// GetMessagesGrouped returns the lead-partitioned message view
func (mc *MessageController) GetMessagesGrouped(c *fiber.Ctx) error {
	groups, err := mc.Messages.GetMessagesGroupedByLead()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch grouped messages", err)
	}

	return c.JSON(utils.SuccessResponse(groups))
}
