package routes

import (
	"net/http"

	"github.com/alphaf42/keralamla/backend/internal/prefs"
	"github.com/alphaf42/keralamla/backend/internal/server/middleware"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

type themeResponse struct {
	Message string `json:"message,omitempty"`
	Theme   string `json:"theme,omitempty"`
}

// GetThemeHandler returns the session's display theme.
func GetThemeHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	theme := cc.App.Prefs.Theme(cc.SessionID)
	return c.JSON(http.StatusOK, themeResponse{Theme: string(theme)})
}

// SetThemeHandler records the session's display theme.
func SetThemeHandler(c echo.Context) error {
	type setThemeBody struct {
		Theme string `json:"theme" validate:"required,oneof=light dark"`
	}

	data := new(setThemeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, themeResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, themeResponse{
			Message: "Invalid request body",
		})
	}

	cc := c.(*middleware.AppContext)
	if err := cc.App.Prefs.SetTheme(cc.SessionID, prefs.Theme(data.Theme)); err != nil {
		return c.JSON(http.StatusInternalServerError, themeResponse{
			Message: "Failed to save theme",
		})
	}

	return c.JSON(http.StatusOK, themeResponse{
		Message: "Theme saved",
		Theme:   data.Theme,
	})
}
