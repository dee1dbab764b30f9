package routes

import (
	"context"
	"net/http"

	"github.com/alphaf42/keralamla/backend/internal/server/middleware"
	"github.com/alphaf42/keralamla/backend/internal/util"
	"github.com/alphaf42/keralamla/backend/pkg/wiki"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetGalleryHandler searches Commons for images of a place. The search
// label is stripped of assembly and state qualifiers before querying.
func GetGalleryHandler(c echo.Context) error {
	type getGalleryParams struct {
		Label string `query:"label" validate:"required"`
		Limit int    `query:"limit" validate:"omitempty,min=1,max=24"`
	}

	type getGalleryResponse struct {
		Message string             `json:"message,omitempty"`
		Images  []wiki.ImageResult `json:"images,omitempty"`
	}

	params := new(getGalleryParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getGalleryResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getGalleryResponse{
			Message: "Invalid request params",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	label := util.SanitizeSearchLabel(params.Label)
	images, err := util.RetryWithContext(ctx, 2, func(ctx context.Context) ([]wiki.ImageResult, error) {
		return app.Wiki.SearchImages(ctx, label, params.Limit, 0)
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, getGalleryResponse{
			Message: "Image search unavailable",
		})
	}

	return c.JSON(http.StatusOK, getGalleryResponse{Images: images})
}
