package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.LanguageMiddleware)

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/session", handler.AuthRequired, handler.Session)

	api.Get("/dashboard", handler.AuthRequired, handler.Dashboard)

	units := api.Group("/units", handler.AuthRequired)
	units.Get("", handler.GetUnits)
	units.Post("", handler.CreateUnit)
	units.Get("/overview", handler.UnitsOverview)
	units.Post("/power", handler.BulkSetPower)
	units.Post("/:id/power", handler.ToggleUnitPower)
	units.Delete("/:id", handler.DeleteUnit)
	units.Get("/:id/draft", handler.GetAssignmentDraft)
	units.Put("/:id/draft", handler.SaveAssignmentDraft)
	units.Delete("/:id/draft", handler.ClearAssignmentDraft)
	units.Post("/:id/tenant", handler.AssignTenant)

	tenants := api.Group("/tenants", handler.AuthRequired)
	tenants.Get("", handler.GetTenants)
	tenants.Post("", handler.CreateTenant)
	tenants.Get("/details", handler.TenantDetails)
	tenants.Delete("/:index", handler.DeleteTenant)
	tenants.Post("/:index/power", handler.ToggleTenantPower)
	tenants.Post("/:index/transactions", handler.AddTransaction)
	tenants.Delete("/:index/transactions/:tx", handler.DeleteTransaction)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
	export.Get("/xlsx", handler.ExportXLSX)

	storage := api.Group("/storage", handler.AuthRequired)
	storage.Get("/issues", handler.StorageIssues)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
