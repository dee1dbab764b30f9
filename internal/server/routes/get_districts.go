package routes

import (
	"context"
	"net/http"

	"github.com/alphaf42/keralamla/backend/internal/server/middleware"
	"github.com/alphaf42/keralamla/backend/internal/util"
	"github.com/alphaf42/keralamla/backend/pkg/reference"
	"github.com/alphaf42/keralamla/backend/pkg/wiki"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetDistrictsHandler lists Kerala's districts. The bundled table
// answers by default; source=live reads them from the knowledge graph
// instead.
func GetDistrictsHandler(c echo.Context) error {
	type getDistrictsParams struct {
		Source string `query:"source" validate:"omitempty,oneof=static live"`
	}

	type district struct {
		ID    string `json:"id,omitempty"`
		Label string `json:"label"`
	}

	type getDistrictsResponse struct {
		Message   string     `json:"message,omitempty"`
		Districts []district `json:"districts,omitempty"`
	}

	params := new(getDistrictsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getDistrictsResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getDistrictsResponse{
			Message: "Invalid request params",
		})
	}

	if params.Source == "live" {
		ctx := c.Request().Context()
		app := c.(*middleware.AppContext).App

		refs, err := util.RetryWithContext(ctx, 2, func(ctx context.Context) ([]wiki.EntityRef, error) {
			return app.Wiki.Districts(ctx)
		})
		if err != nil {
			return c.JSON(http.StatusBadGateway, getDistrictsResponse{
				Message: "District listing unavailable",
			})
		}

		districts := make([]district, 0, len(refs))
		for _, ref := range refs {
			districts = append(districts, district{ID: ref.ID, Label: ref.Label})
		}
		return c.JSON(http.StatusOK, getDistrictsResponse{Districts: districts})
	}

	names := reference.Districts()
	districts := make([]district, 0, len(names))
	for _, name := range names {
		districts = append(districts, district{Label: name})
	}
	return c.JSON(http.StatusOK, getDistrictsResponse{Districts: districts})
}
