// Command lookup resolves one constituency's representative from the
// command line and prints the aggregate as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alphaf42/keralamla/backend/internal/util"
	"github.com/alphaf42/keralamla/backend/pkg/logger"
	"github.com/alphaf42/keralamla/backend/pkg/logger/console"
	"github.com/alphaf42/keralamla/backend/pkg/mla"
	"github.com/alphaf42/keralamla/backend/pkg/reference"
	"github.com/alphaf42/keralamla/backend/pkg/wiki"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	var (
		qid          = flag.String("qid", "", "constituency entity key, e.g. Q3595089")
		district     = flag.String("district", "", "district name, used with -constituency")
		constituency = flag.String("constituency", "", "constituency name")
	)
	flag.Parse()

	if *qid == "" && *constituency == "" {
		logger.Fatal("Either -qid or -constituency is required")
	}
	if *district != "" && *constituency != "" && !reference.HasConstituency(*district, *constituency) {
		logger.Fatal("Constituency not found in district", "district", *district, "constituency", *constituency)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := wiki.NewClient(wiki.NewClientParams{
		SparqlEndpoint:  util.GetEnvString("WIKI_SPARQL_ENDPOINT", ""),
		WikipediaAPI:    util.GetEnvString("WIKI_REST_API", ""),
		WikipediaParse:  util.GetEnvString("WIKI_PARSE_API", ""),
		WikidataAPI:     util.GetEnvString("WIKI_WIKIDATA_API", ""),
		CommonsAPI:      util.GetEnvString("WIKI_COMMONS_API", ""),
		CommonsFilePath: util.GetEnvString("WIKI_COMMONS_FILEPATH", ""),

		UserAgent:    util.GetEnvString("WIKI_USER_AGENT", ""),
		FetchTimeout: time.Duration(util.GetEnvNumeric("WIKI_FETCH_TIMEOUT", 15)) * time.Second,
	})

	ref := mla.ConstituencyRef{ID: *qid, Label: *constituency}
	if ref.ID == "" {
		resolved, err := client.ConstituencyByName(ctx, *constituency)
		if err != nil {
			logger.Fatal("Constituency lookup failed", "name", *constituency, "err", err)
		}
		ref.ID = resolved.ID
	}

	resolver := mla.NewResolver(mla.NewResolverParams{Client: client})
	profile, err := resolver.Resolve(ctx, ref)
	if err != nil {
		logger.Fatal("Profile resolution failed", "constituency", ref.ID, "err", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(profile); err != nil {
		logger.Fatal("Failed to encode profile", "err", err)
	}
}
