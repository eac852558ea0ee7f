package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"leadhub/services"
	"leadhub/utils"
)

type ProductController struct {
	Products *services.ProductsService
}

func NewProductController(products *services.ProductsService) *ProductController {
	return &ProductController{Products: products}
}

// GetProducts returns the whole catalog
func (pc *ProductController) GetProducts(c *fiber.Ctx) error {
	products, err := pc.Products.GetProducts()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch products", err)
	}

	return c.JSON(utils.SuccessResponse(products))
}

// GetProduct returns a single product by ID
func (pc *ProductController) GetProduct(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	product, err := pc.Products.GetProductByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch product", err)
	}

	return c.JSON(utils.SuccessResponse(product))
}

type productCreateInput struct {
	Nome               string `json:"nome" validate:"required,max=200"`
	DescricaoDetalhada string `json:"descricao_detalhada" validate:"required,min=100"`
	PromptConsultivo   string `json:"prompt_consultivo" validate:"required,min=100"`
	Active             *bool  `json:"active"`
}

// CreateProduct registers a new offering; descriptions must be substantial
func (pc *ProductController) CreateProduct(c *fiber.Ctx) error {
	var input productCreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	product, err := pc.Products.CreateProduct(services.ProductCreate{
		Nome:               input.Nome,
		DescricaoDetalhada: input.DescricaoDetalhada,
		PromptConsultivo:   input.PromptConsultivo,
		Active:             input.Active,
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create product", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(product))
}

type productUpdateInput struct {
	Nome               *string `json:"nome" validate:"omitempty,max=200"`
	DescricaoDetalhada *string `json:"descricao_detalhada" validate:"omitempty,min=100"`
	PromptConsultivo   *string `json:"prompt_consultivo" validate:"omitempty,min=100"`
	Active             *bool   `json:"active"`
}

// UpdateProduct applies a partial update
func (pc *ProductController) UpdateProduct(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var input productUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	product, err := pc.Products.UpdateProduct(id, services.ProductUpdate{
		Nome:               input.Nome,
		DescricaoDetalhada: input.DescricaoDetalhada,
		PromptConsultivo:   input.PromptConsultivo,
		Active:             input.Active,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update product", err)
	}

	return c.JSON(utils.SuccessResponse(product))
}

// ToggleProduct flips the active flag atomically
func (pc *ProductController) ToggleProduct(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	product, err := pc.Products.ToggleProductStatus(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to toggle product status", err)
	}

	return c.JSON(utils.SuccessResponse(product))
}

// GetProductsStats returns total/ativos/inativos counts
func (pc *ProductController) GetProductsStats(c *fiber.Ctx) error {
	stats, err := pc.Products.GetProductsStats()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch product stats", err)
	}

	return c.JSON(utils.SuccessResponse(stats))
}
