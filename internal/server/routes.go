package server

import (
	"github.com/alphaf42/keralamla/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Selection routes
	apiRoutes.GET("/districts", routes.GetDistrictsHandler)
	apiRoutes.GET("/districts/:id/constituencies", routes.GetConstituenciesHandler)

	// Profile routes
	apiRoutes.GET("/profile", routes.GetProfileHandler)
	apiRoutes.GET("/gallery", routes.GetGalleryHandler)
	apiRoutes.GET("/geoshapes", routes.GetGeoshapesHandler)

	// Detail overlay routes
	apiRoutes.GET("/detail/entity/:qid", routes.GetEntityDetailHandler)
	apiRoutes.GET("/detail/article", routes.GetArticleDetailHandler)
	apiRoutes.DELETE("/detail", routes.DismissDetailHandler)

	// Preference routes
	apiRoutes.GET("/preferences/theme", routes.GetThemeHandler)
	apiRoutes.PUT("/preferences/theme", routes.SetThemeHandler)
}
