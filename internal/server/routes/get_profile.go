package routes

import (
	"errors"
	"net/http"

	"github.com/alphaf42/keralamla/backend/internal/server/middleware"
	"github.com/alphaf42/keralamla/backend/internal/util"
	"github.com/alphaf42/keralamla/backend/pkg/mla"
	"github.com/alphaf42/keralamla/backend/pkg/wiki"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetProfileHandler resolves the current representative of a
// constituency, addressed either by Q-key (qid) or by plain name
// (name). Each session holds one profile view; a request superseded by
// a newer selection from the same session answers 409 and its result is
// discarded.
func GetProfileHandler(c echo.Context) error {
	type getProfileParams struct {
		QID  string `query:"qid"`
		Name string `query:"name"`
	}

	type getProfileResponse struct {
		Message string               `json:"message,omitempty"`
		Profile *mla.ResolvedProfile `json:"profile,omitempty"`
	}

	params := new(getProfileParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getProfileResponse{
			Message: "Invalid request params",
		})
	}
	if params.QID == "" && params.Name == "" {
		return c.JSON(http.StatusBadRequest, getProfileResponse{
			Message: "Either qid or name is required",
		})
	}
	if params.QID != "" && !util.IsEntityID(params.QID) {
		return c.JSON(http.StatusBadRequest, getProfileResponse{
			Message: "Invalid request params",
		})
	}

	ctx := c.Request().Context()
	cc := c.(*middleware.AppContext)
	app := cc.App

	ref := mla.ConstituencyRef{ID: params.QID, Label: params.Name}
	if ref.ID == "" {
		resolved, err := app.Wiki.ConstituencyByName(ctx, params.Name)
		if errors.Is(err, wiki.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getProfileResponse{
				Message: "Unknown constituency",
			})
		}
		if err != nil {
			return c.JSON(http.StatusBadGateway, getProfileResponse{
				Message: "Constituency lookup unavailable",
			})
		}
		ref.ID = resolved.ID
		if resolved.Label != "" {
			ref.Label = resolved.Label
		}
	}

	cycle := app.View(cc.SessionID).Select(ctx, ref)
	profile, err := cycle.Wait(ctx)
	if cycle.Stale() {
		return c.JSON(http.StatusConflict, getProfileResponse{
			Message: "Selection superseded by a newer one",
		})
	}
	if errors.Is(err, mla.ErrNoRepresentative) {
		return c.JSON(http.StatusNotFound, getProfileResponse{
			Message: "No current representative recorded for this constituency",
		})
	}
	if err != nil {
		return c.JSON(http.StatusBadGateway, getProfileResponse{
			Message: "Profile resolution failed",
		})
	}

	return c.JSON(http.StatusOK, getProfileResponse{Profile: profile})
}
