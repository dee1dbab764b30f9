package server

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "github.com/alphaf42/keralamla/backend/internal/server/middleware"
	"github.com/alphaf42/keralamla/backend/internal/prefs"
	"github.com/alphaf42/keralamla/backend/internal/util"
	"github.com/alphaf42/keralamla/backend/pkg/logger"
	"github.com/alphaf42/keralamla/backend/pkg/mla"
	"github.com/alphaf42/keralamla/backend/pkg/wiki"

	"github.com/go-playground/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

//go:embed static
var staticFiles embed.FS

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// wikiClientParamsFromEnv reads the WIKI_* environment knobs. Empty
// endpoint overrides leave the client on the public Wikimedia endpoints.
func wikiClientParamsFromEnv() wiki.NewClientParams {
	return wiki.NewClientParams{
		SparqlEndpoint:  util.GetEnvString("WIKI_SPARQL_ENDPOINT", ""),
		WikipediaAPI:    util.GetEnvString("WIKI_REST_API", ""),
		WikipediaParse:  util.GetEnvString("WIKI_PARSE_API", ""),
		WikidataAPI:     util.GetEnvString("WIKI_WIKIDATA_API", ""),
		CommonsAPI:      util.GetEnvString("WIKI_COMMONS_API", ""),
		CommonsFilePath: util.GetEnvString("WIKI_COMMONS_FILEPATH", ""),

		UserAgent:             util.GetEnvString("WIKI_USER_AGENT", ""),
		RequestsPerSecond:     util.GetEnvNumeric("WIKI_RATE_LIMIT", 5),
		MaxConcurrentRequests: int64(util.GetEnvNumeric("WIKI_PARALLEL_REQ", 8)),
		FetchTimeout:          time.Duration(util.GetEnvNumeric("WIKI_FETCH_TIMEOUT", 15)) * time.Second,
	}
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wikiClient := wiki.NewClient(wikiClientParamsFromEnv())

	resolver := mla.NewResolver(mla.NewResolverParams{
		Client:     wikiClient,
		MaxRetries: int(util.GetEnvNumeric("WIKI_MAX_RETRIES", 2)),
	})

	prefsStore, err := prefs.New(util.GetEnvString("DATA_DIR", "data"))
	if err != nil {
		logger.Fatal("Failed to open preferences store", "err", err)
	}

	app := mid.NewApp(wikiClient, resolver, prefsStore)

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Error("Request failed", "method", v.Method, "uri", v.URI, "status", v.Status, "err", v.Error)
				return nil
			}
			logger.Info("Request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logger.Fatal("Failed to mount static files", "err", err)
	}
	e.StaticFS("/", static)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
