package routes

import (
	"net/http"

	"github.com/alphaf42/keralamla/backend/internal/server/middleware"
	"github.com/alphaf42/keralamla/backend/internal/util"
	"github.com/alphaf42/keralamla/backend/pkg/mla"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

type detailResponse struct {
	Message string              `json:"message,omitempty"`
	Detail  *mla.OverlayContent `json:"detail,omitempty"`
}

// GetEntityDetailHandler opens the session's detail overlay on a graph
// entity and returns its curated claims. A request superseded by a
// newer overlay target, or by dismissal, answers 409.
func GetEntityDetailHandler(c echo.Context) error {
	type getEntityDetailParams struct {
		QID string `param:"qid" validate:"required"`
	}

	params := new(getEntityDetailParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, detailResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil || !util.IsEntityID(params.QID) {
		return c.JSON(http.StatusBadRequest, detailResponse{
			Message: "Invalid request params",
		})
	}

	return serveDetail(c, mla.Target{Kind: mla.TargetEntity, EntityID: params.QID})
}

// GetArticleDetailHandler opens the session's detail overlay on a
// Wikipedia article.
func GetArticleDetailHandler(c echo.Context) error {
	type getArticleDetailParams struct {
		Lang  string `query:"lang" validate:"omitempty,oneof=en ml"`
		Title string `query:"title" validate:"required"`
	}

	params := new(getArticleDetailParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, detailResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, detailResponse{
			Message: "Invalid request params",
		})
	}

	lang := params.Lang
	if lang == "" {
		lang = "en"
	}
	return serveDetail(c, mla.Target{Kind: mla.TargetArticle, Lang: lang, Title: params.Title})
}

// DismissDetailHandler closes the session's detail overlay. Any fetch
// still in flight is discarded when it lands.
func DismissDetailHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	cc.App.Overlay(cc.SessionID).Dismiss()
	return c.NoContent(http.StatusNoContent)
}

func serveDetail(c echo.Context, target mla.Target) error {
	ctx := c.Request().Context()
	cc := c.(*middleware.AppContext)

	load := cc.App.Overlay(cc.SessionID).Open(ctx, target)
	content, err := load.Wait(ctx)
	if load.Stale() {
		return c.JSON(http.StatusConflict, detailResponse{
			Message: "Detail request superseded",
		})
	}
	if err != nil {
		return c.JSON(http.StatusBadGateway, detailResponse{
			Message: "Detail fetch failed",
		})
	}

	return c.JSON(http.StatusOK, detailResponse{Detail: content})
}
