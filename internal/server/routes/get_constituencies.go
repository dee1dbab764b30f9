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

// GetConstituenciesHandler lists the constituencies of one district. A
// Q-key path segment queries the knowledge graph; a plain district name
// reads the bundled table.
func GetConstituenciesHandler(c echo.Context) error {
	type getConstituenciesParams struct {
		ID string `param:"id" validate:"required"`
	}

	type constituency struct {
		ID    string `json:"id,omitempty"`
		Label string `json:"label"`
	}

	type getConstituenciesResponse struct {
		Message        string         `json:"message,omitempty"`
		Constituencies []constituency `json:"constituencies,omitempty"`
	}

	params := new(getConstituenciesParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getConstituenciesResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getConstituenciesResponse{
			Message: "Invalid request params",
		})
	}

	if util.IsEntityID(params.ID) {
		ctx := c.Request().Context()
		app := c.(*middleware.AppContext).App

		refs, err := util.RetryWithContext(ctx, 2, func(ctx context.Context) ([]wiki.EntityRef, error) {
			return app.Wiki.Constituencies(ctx, params.ID)
		})
		if err != nil {
			return c.JSON(http.StatusBadGateway, getConstituenciesResponse{
				Message: "Constituency listing unavailable",
			})
		}

		constituencies := make([]constituency, 0, len(refs))
		for _, ref := range refs {
			constituencies = append(constituencies, constituency{ID: ref.ID, Label: ref.Label})
		}
		return c.JSON(http.StatusOK, getConstituenciesResponse{Constituencies: constituencies})
	}

	names, ok := reference.Constituencies(params.ID)
	if !ok {
		return c.JSON(http.StatusNotFound, getConstituenciesResponse{
			Message: "Unknown district",
		})
	}

	constituencies := make([]constituency, 0, len(names))
	for _, name := range names {
		constituencies = append(constituencies, constituency{Label: name})
	}
	return c.JSON(http.StatusOK, getConstituenciesResponse{Constituencies: constituencies})
}
