package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/clinic-console/internal/application/auth"
	"github.com/jhoicas/clinic-console/internal/application/customers"
	"github.com/jhoicas/clinic-console/internal/application/onboarding"
	"github.com/jhoicas/clinic-console/internal/application/products"
	"github.com/jhoicas/clinic-console/internal/application/session"
	"github.com/jhoicas/clinic-console/internal/application/settings"
	"github.com/jhoicas/clinic-console/internal/application/walkin"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Onboarding *onboarding.Service
	Customers  *customers.Service
	Products   *products.Service
	Settings   *settings.Service
	WalkIn     *walkin.Service
	AuthUC     *auth.AuthUseCase
	Sessions   *session.Registry
	JWTSecret  string
	JWTIssuer  string
}

// Router registra las rutas de la consola.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/console")

	// Registro (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/register", authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	sessionHandler := NewSessionHandler(deps.Sessions)
	protected.Post("/session/logout", sessionHandler.Logout)

	// Onboarding: la puerta la consulta cualquier rol; el asistente es solo admin
	onboardingHandler := NewOnboardingHandler(deps.Onboarding, deps.Sessions)
	protected.Get("/onboarding/status", onboardingHandler.Status)
	wizard := protected.Group("/onboarding/wizard", RequireRole(entity.RoleAdmin))
	wizard.Get("/", onboardingHandler.View)
	wizard.Post("/mount", onboardingHandler.Mount)
	wizard.Post("/outlets", onboardingHandler.AddOutlet)
	wizard.Post("/products", onboardingHandler.AddProduct)
	wizard.Get("/products/categories", onboardingHandler.CategoryTemplates)
	wizard.Post("/staff", onboardingHandler.AddStaff)
	wizard.Get("/staff/positions", onboardingHandler.PositionTemplates)
	wizard.Post("/staff/subtab", onboardingHandler.SelectSubTab)
	wizard.Post("/availability", onboardingHandler.AddAvailability)
	wizard.Post("/next", onboardingHandler.Next)
	wizard.Post("/back", onboardingHandler.Back)
	wizard.Post("/complete", onboardingHandler.Complete)
	wizard.Post("/clear", onboardingHandler.ClearAll)

	// Clientes
	customerHandler := NewCustomerHandler(deps.Customers, deps.Sessions)
	cust := protected.Group("/customers")
	cust.Get("/", customerHandler.List)
	cust.Get("/export", RequireRole(entity.RoleAdmin, entity.RoleManager), customerHandler.Export)
	cust.Post("/", customerHandler.Create)
	cust.Get("/undo", customerHandler.PendingUndo)
	cust.Post("/undo", customerHandler.Undo)
	cust.Put("/:id", customerHandler.Update)
	cust.Delete("/:id", customerHandler.Delete)

	// Servicios del catálogo
	productHandler := NewProductHandler(deps.Products, deps.Sessions)
	prod := protected.Group("/products")
	prod.Get("/", productHandler.List)
	prod.Get("/categories", productHandler.Categories)
	manage := prod.Group("/", RequireRole(entity.RoleAdmin, entity.RoleManager))
	manage.Post("/", productHandler.Create)
	manage.Post("/undo", productHandler.Undo)
	manage.Put("/:id", productHandler.Update)
	manage.Delete("/:id", productHandler.Delete)

	// Configuración
	settingsHandler := NewSettingsHandler(deps.Settings)
	set := protected.Group("/settings")
	set.Get("/", settingsHandler.Get)
	set.Post("/security/verify-pin", settingsHandler.VerifyPIN)
	set.Put("/:section", RequireRole(entity.RoleAdmin, entity.RoleManager), settingsHandler.Save)

	// Mostrador walk-in
	walkInHandler := NewWalkInHandler(deps.WalkIn, deps.Sessions)
	walk := protected.Group("/walkin")
	walk.Post("/search", walkInHandler.Search)
	walk.Get("/lookup", walkInHandler.Lookup)
	walk.Post("/reset", walkInHandler.Reset)
	walk.Post("/customers", walkInHandler.CreateCustomer)
	walk.Get("/grid", walkInHandler.Grid)
	walk.Post("/bookings", walkInHandler.Book)
	walk.Get("/bookings/:id/slip", walkInHandler.Slip)
}
