package api

import (
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/sgleason/bizatlas/internal/api/controllers"
	"github.com/sgleason/bizatlas/internal/app"
)

func RegisterRoutes(e *echo.Echo, app *app.Context) {

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			app.Logger.Info("%s %s | %d | %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	reports := &controllers.ReportController{App: app}

	// Overview dashboard
	e.GET("/", reports.Overview)

	// Two-region comparisons, optionally narrowed to a category
	e.GET("/comparisons/:r1/:r2/:x", reports.Compare)
	e.GET("/comparisons/:r1/:r2/:x/:y", reports.CompareCategory)

	// Ranked recommendation tables
	e.GET("/recommender/:region", reports.RegionDistribution)
	e.GET("/recommender/:region/:category", reports.Recommend)
	e.GET("/catrecommender/:category", reports.CategoryDistribution)
	e.GET("/catrecommender/:category/rec", reports.RecommendByCategory)

	// Selector lists
	e.GET("/regions", reports.Regions)
	e.GET("/categories", reports.Categories)
}
