package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultSparqlEndpoint  = "https://query.wikidata.org/sparql"
	defaultWikipediaAPI    = "https://%s.wikipedia.org/api/rest_v1"
	defaultWikipediaParse  = "https://%s.wikipedia.org/w/api.php"
	defaultWikidataAPI     = "https://www.wikidata.org/w/api.php"
	defaultCommonsAPI      = "https://commons.wikimedia.org/w/api.php"
	defaultCommonsFilePath = "https://commons.wikimedia.org/wiki/Special:FilePath/"

	defaultUserAgent = "KeralaMLAApp/1.0 (https://github.com/alphaf42/keralamla)"
)

// Client talks to the Wikidata SPARQL endpoint, the Wikipedia REST and
// parse APIs, and the Wikimedia Commons API. All methods are safe for
// concurrent use; outbound requests share one rate limiter and one
// concurrency cap so the client stays polite toward Wikimedia.
type Client struct {
	sparqlEndpoint  string
	wikipediaAPI    string
	wikipediaParse  string
	wikidataAPI     string
	commonsAPI      string
	commonsFilePath string

	reqLock *semaphore.Weighted
	limiter *rate.Limiter

	summaryCache   map[string]*Summary
	summaryCacheMu sync.RWMutex
	summaryGroup   singleflight.Group

	httpClient *http.Client
}

// NewClientParams contains configuration options for creating a new Client.
type NewClientParams struct {
	SparqlEndpoint string
	// WikipediaAPI and WikipediaParse are format strings with one %s verb
	// for the language subdomain.
	WikipediaAPI    string
	WikipediaParse  string
	WikidataAPI     string
	CommonsAPI      string
	CommonsFilePath string

	UserAgent string

	// RequestsPerSecond caps the outbound request rate; <= 0 means 5.
	RequestsPerSecond float64
	// MaxConcurrentRequests caps in-flight requests; <= 0 means 8.
	MaxConcurrentRequests int64
	// FetchTimeout bounds each outbound request; <= 0 means 15s.
	FetchTimeout time.Duration
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		// don't overwrite if already set
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewClient creates a Wikimedia client with the given configuration.
// Empty endpoint fields fall back to the public Wikimedia endpoints.
func NewClient(params NewClientParams) *Client {
	sparql := params.SparqlEndpoint
	if sparql == "" {
		sparql = defaultSparqlEndpoint
	}
	wikipediaAPI := params.WikipediaAPI
	if wikipediaAPI == "" {
		wikipediaAPI = defaultWikipediaAPI
	}
	wikipediaParse := params.WikipediaParse
	if wikipediaParse == "" {
		wikipediaParse = defaultWikipediaParse
	}
	wikidata := params.WikidataAPI
	if wikidata == "" {
		wikidata = defaultWikidataAPI
	}
	commons := params.CommonsAPI
	if commons == "" {
		commons = defaultCommonsAPI
	}
	filePath := params.CommonsFilePath
	if filePath == "" {
		filePath = defaultCommonsFilePath
	}
	userAgent := params.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	rps := params.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	timeout := params.FetchTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		sparqlEndpoint:  sparql,
		wikipediaAPI:    wikipediaAPI,
		wikipediaParse:  wikipediaParse,
		wikidataAPI:     wikidata,
		commonsAPI:      commons,
		commonsFilePath: filePath,

		reqLock: semaphore.NewWeighted(maxConcurrent),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),

		summaryCache: make(map[string]*Summary),

		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &headerTransport{
				headers: map[string]string{
					"User-Agent": userAgent,
				},
				rt: http.DefaultTransport,
			},
		},
	}
}

// getJSON performs a rate-limited GET against url and decodes the JSON
// response body into out.
func (c *Client) getJSON(ctx context.Context, url string, accept string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.reqLock.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
