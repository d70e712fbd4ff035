package server

import (
	"github.com/labstack/echo/v4"

	"example.com/debt-payoff-planner/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	debtHandler *handlers.DebtHandler,
	scenarioHandler *handlers.ScenarioHandler,
	simulationHandler *handlers.SimulationHandler,
	statsHandler *handlers.StatsHandler,
	adviceHandler *handlers.AdviceHandler,
	notificationHandler *handlers.NotificationHandler,
	adminHandler *handlers.AdminHandler,
	authMiddleware echo.MiddlewareFunc,
	adminMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
	adviceRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, authMiddleware)

	debts := api.Group("/debts", authMiddleware)
	debts.GET("", debtHandler.List)
	debts.POST("", debtHandler.Create)
	debts.POST("/import", debtHandler.ImportCSV)
	debts.GET("/:id", debtHandler.Get)
	debts.PUT("/:id", debtHandler.Update)
	debts.PATCH("/:id/archive", debtHandler.Archive)
	debts.DELETE("/:id", debtHandler.Delete)

	scenarios := api.Group("/scenarios", authMiddleware)
	scenarios.GET("", scenarioHandler.List)
	scenarios.POST("", scenarioHandler.Create)
	scenarios.GET("/:id", scenarioHandler.Get)
	scenarios.PUT("/:id", scenarioHandler.Update)
	scenarios.DELETE("/:id", scenarioHandler.Delete)
	scenarios.POST("/:id/duplicate", scenarioHandler.Duplicate)
	scenarios.POST("/:id/run", scenarioHandler.Run)
	scenarios.GET("/:id/export/json", scenarioHandler.ExportJSON)
	scenarios.GET("/:id/export/csv", scenarioHandler.ExportCSV)

	simulate := api.Group("/simulate", authMiddleware)
	simulate.POST("", simulationHandler.Simulate)
	simulate.POST("/validate", simulationHandler.ValidateBudget)

	stats := api.Group("/stats", authMiddleware)
	stats.GET("/overview", statsHandler.Overview)
	stats.GET("/breakdown", statsHandler.Breakdown)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)

	admin := api.Group("/admin", authMiddleware, adminMiddleware)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/usage", adminHandler.Usage)

	adviceGroup := api.Group("/advice", authMiddleware, adviceRateLimiter)
	adviceGroup.POST("/explain", adviceHandler.Explain)
}
