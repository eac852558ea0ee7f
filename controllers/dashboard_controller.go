package controller

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"leadhub/models"
	"leadhub/services"
	"leadhub/utils"
)

type DashboardController struct {
	Leads    *services.LeadsService
	Messages *services.MessagesService
	Products *services.ProductsService
}

func NewDashboardController(leads *services.LeadsService, messages *services.MessagesService, products *services.ProductsService) *DashboardController {
	return &DashboardController{
		Leads:    leads,
		Messages: messages,
		Products: products,
	}
}

type DashboardStats struct {
	Leads    *models.LeadStats    `json:"leads"`
	Messages *models.MessageStats `json:"messages"`
	Products *models.ProductStats `json:"products"`
}

// GetDashboardStats aggregates the three stat views. The reads are
// independent, so they run concurrently for latency only; no ordering is
// assumed between them.
func (dc *DashboardController) GetDashboardStats(c *fiber.Ctx) error {
	var stats DashboardStats

	g := new(errgroup.Group)
	g.Go(func() error {
		s, err := dc.Leads.GetLeadsStats()
		stats.Leads = s
		return err
	})
	g.Go(func() error {
		s, err := dc.Messages.GetMessagesStats()
		stats.Messages = s
		return err
	})
	g.Go(func() error {
		s, err := dc.Products.GetProductsStats()
		stats.Products = s
		return err
	})

	if err := g.Wait(); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch dashboard stats", err)
	}

	return c.JSON(utils.SuccessResponse(stats))
}

// ClearCache performs a full manual cache reset across the services
func (dc *DashboardController) ClearCache(c *fiber.Ctx) error {
	dc.Leads.ClearCache()
	dc.Messages.ClearCache()

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "Cache cleared successfully",
	}))
}
