package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alphaf42/keralamla/backend/internal/server/middleware"
	"github.com/alphaf42/keralamla/backend/internal/util"
	"github.com/alphaf42/keralamla/backend/pkg/logger"
	"github.com/alphaf42/keralamla/backend/pkg/wiki"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// GetGeoshapesHandler returns the sub-divisions of a constituency with
// their boundary GeoJSON. Sub-divisions whose geoshape cannot be
// fetched are returned without geometry rather than failing the whole
// map.
func GetGeoshapesHandler(c echo.Context) error {
	type getGeoshapesParams struct {
		QID string `query:"qid" validate:"required"`
	}

	type subDivision struct {
		Name        string          `json:"name"`
		EntityID    string          `json:"entity_id"`
		ArticleURL  string          `json:"article_url,omitempty"`
		ArticleLang string          `json:"article_lang,omitempty"`
		GeoJSON     json.RawMessage `json:"geojson,omitempty"`
	}

	type getGeoshapesResponse struct {
		Message      string        `json:"message,omitempty"`
		SubDivisions []subDivision `json:"sub_divisions"`
	}

	params := new(getGeoshapesParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getGeoshapesResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil || !util.IsEntityID(params.QID) {
		return c.JSON(http.StatusBadRequest, getGeoshapesResponse{
			Message: "Invalid request params",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	rows, err := util.RetryWithContext(ctx, 2, func(ctx context.Context) ([]wiki.SubDivisionRow, error) {
		return app.Wiki.SubDivisions(ctx, params.QID)
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, getGeoshapesResponse{
			Message: "Sub-division listing unavailable",
		})
	}

	subDivisions := make([]subDivision, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	for i, row := range rows {
		i, row := i, row
		sd := subDivision{
			Name:     row.Ref.Label,
			EntityID: row.Ref.ID,
		}
		if row.ArticleEN != "" {
			sd.ArticleURL = row.ArticleEN
			sd.ArticleLang = "en"
		} else if row.ArticleML != "" {
			sd.ArticleURL = row.ArticleML
			sd.ArticleLang = "ml"
		}
		subDivisions[i] = sd

		if row.GeoshapeURL == "" {
			continue
		}
		g.Go(func() error {
			shape, err := app.Wiki.Geoshape(gctx, row.GeoshapeURL)
			if err != nil {
				logger.Warn("Geoshape fetch failed", "url", row.GeoshapeURL, "err", err)
				return nil
			}
			subDivisions[i].GeoJSON = shape
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return c.JSON(http.StatusBadGateway, getGeoshapesResponse{
			Message: "Geoshape fetch failed",
		})
	}

	return c.JSON(http.StatusOK, getGeoshapesResponse{SubDivisions: subDivisions})
}
