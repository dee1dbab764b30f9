package middleware

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/alphaf42/keralamla/backend/internal/prefs"
	"github.com/alphaf42/keralamla/backend/pkg/mla"
	"github.com/alphaf42/keralamla/backend/pkg/wiki"
)

// SessionCookie names the cookie carrying the anonymous session ID.
const SessionCookie = "mla_session"

type App struct {
	Wiki     *wiki.Client
	Resolver *mla.Resolver
	Prefs    *prefs.Store

	mu       sync.Mutex
	views    map[string]*mla.ProfileView
	overlays map[string]*mla.Overlay
}

func NewApp(wikiClient *wiki.Client, resolver *mla.Resolver, prefsStore *prefs.Store) *App {
	return &App{
		Wiki:     wikiClient,
		Resolver: resolver,
		Prefs:    prefsStore,
		views:    make(map[string]*mla.ProfileView),
		overlays: make(map[string]*mla.Overlay),
	}
}

// View returns the session's profile view, creating it on first use.
// Selections from the same session share one view so that an older
// in-flight resolve can never overwrite a newer one.
func (a *App) View(sessionID string) *mla.ProfileView {
	a.mu.Lock()
	defer a.mu.Unlock()

	v, ok := a.views[sessionID]
	if !ok {
		v = mla.NewProfileView(a.Resolver)
		a.views[sessionID] = v
	}
	return v
}

// Overlay returns the session's detail overlay, creating it on first use.
func (a *App) Overlay(sessionID string) *mla.Overlay {
	a.mu.Lock()
	defer a.mu.Unlock()

	o, ok := a.overlays[sessionID]
	if !ok {
		o = mla.NewOverlay(a.Wiki)
		a.overlays[sessionID] = o
	}
	return o
}

type AppContext struct {
	echo.Context
	App       *App
	SessionID string
}

// AppContextMiddleware attaches the shared application state and an
// anonymous session ID to every request. A missing session cookie is
// replaced with a fresh nanoid.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := ""
			if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				id, err := gonanoid.New()
				if err != nil {
					return err
				}
				sessionID = id
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			cc := &AppContext{c, app, sessionID}
			return next(cc)
		}
	}
}
