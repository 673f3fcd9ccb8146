package router

import (
	"github.com/labstack/echo/v4"

	"projecttracker/internal/cache"
	"projecttracker/internal/database"
	"projecttracker/internal/handler"
	"projecttracker/internal/handler/auth"
	"projecttracker/internal/handler/billing"
	"projecttracker/internal/handler/entries"
	"projecttracker/internal/handler/projects"
	"projecttracker/internal/handler/users"
	"projecttracker/internal/invoice"
	"projecttracker/internal/middleware"
)

// Setup registers all routes and middleware.
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, sender *invoice.Sender) {
	api := e.Group("/api")

	// Health check
	api.GET("/ping", handler.PingHandler(db, rdb))

	// Account creation and login
	api.POST("/auth/signup", auth.SignupHandler(db))
	api.POST("/auth/login", auth.LoginHandler(db))

	// Current user profile
	apiUsersMe := api.Group("/users/me", middleware.RequireAuth)
	apiUsersMe.GET("", users.GetMyUserHandler(db))
	apiUsersMe.PUT("", users.UpdateMyUserHandler(db))
	apiUsersMe.PATCH("/rate", users.UpdateMyRateHandler(db))
	apiUsersMe.PATCH("/password", users.UpdateMyPasswordHandler(db))

	// Employee directory, admin only
	api.GET("/users", users.ListUsersHandler(db), middleware.RequireAdmin)

	// Project board
	apiProjects := api.Group("/projects", middleware.RequireAuth)
	apiProjects.GET("", projects.ListProjectsHandler(db))
	apiProjects.POST("", projects.CreateProjectHandler(db))
	apiProjects.GET("/:id", projects.GetProjectHandler(db))
	apiProjects.PUT("/:id", projects.UpdateProjectHandler(db, rdb))
	apiProjects.PATCH("/:id/status", projects.UpdateProjectStatusHandler(db, rdb))
	apiProjects.DELETE("/:id", projects.DeleteProjectHandler(db, rdb))

	// Time tracking
	apiEntries := api.Group("/entries", middleware.RequireAuth)
	apiEntries.GET("", entries.ListEntriesHandler(db))
	apiEntries.POST("", entries.CreateEntryHandler(db, rdb))
	apiEntries.DELETE("/:id", entries.DeleteEntryHandler(db, rdb))
	apiEntries.GET("/export", entries.ExportEntriesHandler(db))

	// Billing, admin only
	apiBilling := api.Group("/billing", middleware.RequireAdmin)
	apiBilling.GET("", billing.ListBillingHandler(db, rdb))
	apiBilling.GET("/invoices", billing.ListInvoicesHandler(db))
	apiBilling.GET("/:project_id/export", billing.ExportBillingCSVHandler(db))
	apiBilling.POST("/:project_id/send/:provider", billing.SendInvoiceHandler(db, rdb, sender))
}
