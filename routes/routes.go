package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	controller "leadhub/controllers"
	"leadhub/middleware"
	"leadhub/services"
)

// Deps carries the constructed services the route handlers work against.
type Deps struct {
	Leads    *services.LeadsService
	Messages *services.MessagesService
	Products *services.ProductsService
}

// SetupRoutes registers the API surface.
func SetupRoutes(app *fiber.App, deps Deps) {
	leadController := controller.NewLeadController(deps.Leads)
	messageController := controller.NewMessageController(deps.Messages)
	productController := controller.NewProductController(deps.Products)
	dashboardController := controller.NewDashboardController(deps.Leads, deps.Messages, deps.Products)

	api := app.Group("/api",
		logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}),
		middleware.APIRateLimiter(),
	)

	leads := api.Group("/leads")
	leads.Get("/", leadController.GetLeads)
	leads.Get("/search", leadController.SearchLeads)
	leads.Get("/stats", leadController.GetLeadsStats)
	leads.Get("/status/:status", leadController.GetLeadsByStatus)
	leads.Get("/:id", leadController.GetLead)
	leads.Get("/:id/messages", messageController.GetLeadMessages)
	leads.Post("/", leadController.CreateLead)
	leads.Put("/:id", leadController.UpdateLead)
	leads.Delete("/:id", leadController.DeleteLead)

	messages := api.Group("/messages")
	messages.Get("/", messageController.GetAllMessages)
	messages.Get("/stats", messageController.GetMessagesStats)
	messages.Get("/grouped", messageController.GetMessagesGrouped)
	messages.Get("/:id", messageController.GetMessage)
	messages.Post("/", messageController.CreateMessage)
	messages.Put("/:id", messageController.UpdateMessage)
	messages.Delete("/:id", messageController.DeleteMessage)

	products := api.Group("/products")
	products.Get("/", productController.GetProducts)
	products.Get("/stats", productController.GetProductsStats)
	products.Get("/:id", productController.GetProduct)
	products.Post("/", productController.CreateProduct)
	products.Put("/:id", productController.UpdateProduct)
	products.Patch("/:id/toggle", productController.ToggleProduct)

	api.Get("/dashboard/stats", dashboardController.GetDashboardStats)
	api.Post("/cache/clear", dashboardController.ClearCache)
}
