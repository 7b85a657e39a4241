package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/labstack/echo/v5"
	"github.com/sgleason/bizatlas/internal/app"
	"github.com/sgleason/bizatlas/internal/chart"
	"github.com/sgleason/bizatlas/internal/store"
)

const defaultMinReviews = 10

// ReportController maps HTTP requests onto the read-only reporting queries.
// Every handler tolerates an empty database: charts render empty, tables
// come back with zero rows.
type ReportController struct {
	App *app.Context
}

// Overview renders the dashboard page: listing counts per region, rating
// versus black-population percentage, best and worst categories, and a
// random sample scatter sized by review count.
func (ctrl *ReportController) Overview(c *echo.Context) error {
	ctx := c.Request().Context()
	reports := ctrl.App.Reports

	avg, err := reports.OverallAvgRating(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}

	counts, err := reports.RegionCounts(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}
	countLabels := make([]string, len(counts))
	countValues := make([]float64, len(counts))
	for i, rc := range counts {
		countLabels[i] = rc.Region
		countValues[i] = float64(rc.Count)
	}

	ratings, err := reports.AvgRatingByBlackPct(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}
	ratingPoints := make([]chart.Point, len(ratings))
	for i, rr := range ratings {
		ratingPoints[i] = chart.Point{X: rr.BlackPct, Y: rr.Rating}
	}

	categories, err := reports.AvgRatingByCategory(ctx, defaultMinReviews)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}
	catLabels, catValues := headAndTail(categories, 5)

	sample, err := reports.RandomSample(ctx, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}
	samplePoints := make([]chart.Point, len(sample))
	for i, sp := range sample {
		samplePoints[i] = chart.Point{X: sp.BlackPct, Y: sp.Rating, Size: float64(sp.ReviewCount) / 15}
	}

	figures := []components.Charter{
		chart.Bar("Listings by Region", countLabels, countValues),
		chart.Scatter("Rating vs. Black Population Percentage", ratingPoints),
		chart.Bar(fmt.Sprintf("Category Averages (overall avg %.2f)", avg), catLabels, catValues),
		chart.Scatter("Rating vs. Black Population Percentage (size = reviews)", samplePoints),
	}

	return ctrl.renderPage(c, figures...)
}

// headAndTail keeps the n best and n worst categories, the way the source
// dashboard highlighted five good and five bad examples.
func headAndTail(categories []store.CategoryRating, n int) ([]string, []float64) {
	pick := func(from, to int) ([]string, []float64) {
		labels := make([]string, 0, to-from)
		values := make([]float64, 0, to-from)
		for _, cr := range categories[from:to] {
			labels = append(labels, cr.Category)
			values = append(values, cr.Rating)
		}
		return labels, values
	}

	if len(categories) <= 2*n {
		return pick(0, len(categories))
	}

	labels, values := pick(0, n)
	tailLabels, tailValues := pick(len(categories)-n, len(categories))
	return append(labels, tailLabels...), append(values, tailValues...)
}

// Compare charts one variable across two regions.
func (ctrl *ReportController) Compare(c *echo.Context) error {
	points, err := ctrl.App.Reports.CompareRegions(c.Request().Context(),
		c.Param("r1"), c.Param("r2"), c.Param("x"))
	if err != nil {
		if errors.Is(err, store.ErrUnknownVariable) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}

	title := fmt.Sprintf("%s (%s vs. %s)", c.Param("x"), c.Param("r1"), c.Param("r2"))
	return ctrl.renderComparison(c, title, points)
}

// CompareCategory charts one listing variable across two regions, narrowed
// to a single category.
func (ctrl *ReportController) CompareCategory(c *echo.Context) error {
	points, err := ctrl.App.Reports.CompareRegionsByCategory(c.Request().Context(),
		c.Param("r1"), c.Param("r2"), c.Param("x"), c.Param("y"))
	if err != nil {
		if errors.Is(err, store.ErrUnknownVariable) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}

	title := fmt.Sprintf("%s for %s (%s vs. %s)", c.Param("x"), c.Param("y"), c.Param("r1"), c.Param("r2"))
	return ctrl.renderComparison(c, title, points)
}

// RegionDistribution charts the category mix inside one region.
func (ctrl *ReportController) RegionDistribution(c *echo.Context) error {
	counts, err := ctrl.App.Reports.RegionCategoryCounts(c.Request().Context(), c.Param("region"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}
	return ctrl.renderCounts(c, fmt.Sprintf("Count by Category for %s", c.Param("region")), counts)
}

// CategoryDistribution charts which regions one category appears in.
func (ctrl *ReportController) CategoryDistribution(c *echo.Context) error {
	counts, err := ctrl.App.Reports.CategoryRegionCounts(c.Request().Context(), c.Param("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}
	return ctrl.renderCounts(c, fmt.Sprintf("%s Listings by Region", c.Param("category")), counts)
}

// Recommend returns the ranked table for one region and category.
func (ctrl *ReportController) Recommend(c *echo.Context) error {
	minReviews := minReviewsParam(c)

	rows, err := ctrl.App.Reports.Recommend(c.Request().Context(),
		c.Param("region"), c.Param("category"), minReviews)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}

	return c.JSON(http.StatusOK, RecommendationResponse{
		Region:   c.Param("region"),
		Category: c.Param("category"),
		Rows:     toRows(rows),
	})
}

// RecommendByCategory returns the nationwide ranked table for one category.
func (ctrl *ReportController) RecommendByCategory(c *echo.Context) error {
	minReviews := minReviewsParam(c)

	rows, err := ctrl.App.Reports.RecommendByCategory(c.Request().Context(),
		c.Param("category"), minReviews)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}

	return c.JSON(http.StatusOK, RecommendationResponse{
		Category: c.Param("category"),
		Rows:     toRows(rows),
	})
}

// Regions lists the stored region names.
func (ctrl *ReportController) Regions(c *echo.Context) error {
	names, err := ctrl.App.Reports.RegionNames(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}
	return c.JSON(http.StatusOK, NamesResponse{Names: names})
}

// Categories lists the stored listing categories.
func (ctrl *ReportController) Categories(c *echo.Context) error {
	names, err := ctrl.App.Reports.CategoryNames(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report query failed")
	}
	return c.JSON(http.StatusOK, NamesResponse{Names: names})
}

func minReviewsParam(c *echo.Context) int {
	if raw := c.QueryParam("min_reviews"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			return n
		}
	}
	return defaultMinReviews
}

func toRows(recs []store.Recommendation) []RecommendationRow {
	rows := make([]RecommendationRow, len(recs))
	for i, r := range recs {
		rows[i] = RecommendationRow{
			Name:        r.Name,
			City:        r.City,
			Rating:      r.Rating,
			ReviewCount: r.ReviewCount,
		}
	}
	return rows
}

func (ctrl *ReportController) renderComparison(c *echo.Context, title string, points []store.ComparePoint) error {
	labels := make([]string, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Region
		values[i] = p.Value
	}
	return ctrl.renderPage(c, chart.Bar(title, labels, values))
}

func (ctrl *ReportController) renderCounts(c *echo.Context, title string, counts []store.RegionCount) error {
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, rc := range counts {
		labels[i] = rc.Region
		values[i] = float64(rc.Count)
	}
	return ctrl.renderPage(c, chart.Bar(title, labels, values))
}

func (ctrl *ReportController) renderPage(c *echo.Context, figures ...components.Charter) error {
	var buf bytes.Buffer
	if err := chart.RenderPage(&buf, figures...); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "chart rendering failed")
	}
	return c.Blob(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
