package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client := NewClient(NewClientParams{
		SparqlEndpoint:    ts.URL + "/sparql",
		WikipediaAPI:      ts.URL + "/%s/rest",
		WikipediaParse:    ts.URL + "/%s/parse",
		WikidataAPI:       ts.URL + "/wikidata",
		CommonsAPI:        ts.URL + "/commons",
		CommonsFilePath:   ts.URL + "/filepath/",
		RequestsPerSecond: 1000,
	})
	return client, ts
}

func TestSparql_ParsesBindings(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "" {
			t.Errorf("missing query parameter")
		}
		w.Write([]byte(`{
			"results": {
				"bindings": [
					{
						"item": {"type": "uri", "value": "http://www.wikidata.org/entity/Q1186"},
						"itemLabel": {"type": "literal", "value": "Kerala", "xml:lang": "en"}
					}
				]
			}
		}`))
	}))

	res, err := client.Sparql(context.Background(), "SELECT ?item WHERE {}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Empty() {
		t.Fatal("expected one binding")
	}
	row := res.First()
	if row.Get("item") != "http://www.wikidata.org/entity/Q1186" {
		t.Fatalf("unexpected item value: %q", row.Get("item"))
	}
	if row.Get("itemLabel") != "Kerala" {
		t.Fatalf("unexpected label: %q", row.Get("itemLabel"))
	}
	if row.Has("missing") {
		t.Fatal("Has should be false for unbound variables")
	}
}

func TestSparql_EmptyResultIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": {"bindings": []}}`))
	}))

	res, err := client.Sparql(context.Background(), "SELECT ?item WHERE {}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Empty() {
		t.Fatal("expected empty result set")
	}
	if res.First() != nil {
		t.Fatal("First on empty set should be nil")
	}
}

func TestSparql_TransportFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))

	_, err := client.Sparql(context.Background(), "SELECT ?item WHERE {}")
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestDistricts_MapsRows(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"results": {
				"bindings": [
					{
						"item": {"type": "uri", "value": "http://www.wikidata.org/entity/Q1587"},
						"itemLabel": {"type": "literal", "value": "Kollam district"}
					},
					{
						"item": {"type": "uri", "value": "http://www.wikidata.org/entity/Q1588"},
						"itemLabel": {"type": "literal", "value": "Kottayam district"}
					}
				]
			}
		}`))
	}))

	refs, err := client.Districts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 districts, got %d", len(refs))
	}
	if refs[0].ID != "Q1587" || refs[0].Label != "Kollam district" {
		t.Fatalf("unexpected first district: %+v", refs[0])
	}
}

func TestSummary_CachesAndCollapses(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{
			"title": "Kollam",
			"extract": "Kollam is a city.",
			"extract_html": "<p>Kollam is a city.</p>",
			"thumbnail": {"source": "https://upload.example/thumb.jpg"}
		}`))
	}))

	for i := 0; i < 3; i++ {
		summary, err := client.Summary(context.Background(), "en", "Kollam")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.Extract != "Kollam is a city." {
			t.Fatalf("unexpected extract: %q", summary.Extract)
		}
		if summary.Thumbnail != "https://upload.example/thumb.jpg" {
			t.Fatalf("unexpected thumbnail: %q", summary.Thumbnail)
		}
	}

	if calls.Load() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls.Load())
	}
}

func TestSummary_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.Summary(context.Background(), "en", "Nonexistent_Page")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFullArticle_ParsesMarkup(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "parse" {
			t.Errorf("expected parse action, got %q", r.URL.Query().Get("action"))
		}
		w.Write([]byte(`{
			"parse": {
				"title": "Kollam",
				"displaytitle": "Kollam",
				"text": "<div>article body</div>"
			}
		}`))
	}))

	article, err := client.FullArticle(context.Background(), "en", "Kollam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Title != "Kollam" {
		t.Fatalf("unexpected title: %q", article.Title)
	}
	if article.HTML != "<div>article body</div>" {
		t.Fatalf("unexpected markup: %q", article.HTML)
	}
}

func TestFullArticle_MissingPage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"code": "missingtitle"}}`))
	}))

	_, err := client.FullArticle(context.Background(), "en", "Nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchImages_RankedAndLimited(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"query": {
				"pages": {
					"20": {"index": 2, "title": "File:Two.jpg", "imageinfo": [{"url": "https://upload.example/Two.jpg"}]},
					"10": {"index": 1, "title": "File:One.jpg", "imageinfo": [{"url": "https://upload.example/One.jpg"}]},
					"30": {"index": 3, "title": "File:Three.jpg", "imageinfo": [{"url": "https://upload.example/Three.jpg"}]}
				}
			}
		}`))
	}))

	results, err := client.SearchImages(context.Background(), "Kollam", 2, 400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "File:One.jpg" || results[1].Title != "File:Two.jpg" {
		t.Fatalf("results not in rank order: %+v", results)
	}
	if results[0].ThumbURL == "" {
		t.Fatal("expected a derived thumbnail URL")
	}
}

func TestSearchImages_EmptyResult(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"pages": {}}}`))
	}))

	results, err := client.SearchImages(context.Background(), "Nowhere", 6, 400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestThumbnailURL(t *testing.T) {
	client := NewClient(NewClientParams{})

	got := client.ThumbnailURL("https://upload.wikimedia.org/wikipedia/commons/a/ab/Kollam_beach.jpg", 500)
	want := "https://commons.wikimedia.org/wiki/Special:FilePath/Kollam_beach.jpg?width=500"
	if got != want {
		t.Fatalf("unexpected thumbnail URL: got %q, want %q", got, want)
	}

	if client.ThumbnailURL("", 500) != "" {
		t.Fatal("empty source should produce empty thumbnail")
	}
}

func TestGeoshape_FetchesGeoJSON(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"query": {
				"pages": {
					"123": {"revisions": [{"*": "{\"data\": {\"type\": \"FeatureCollection\"}}"}]}
				}
			}
		}`))
	}))

	raw, err := client.Geoshape(context.Background(), "http://commons.wikimedia.org/data/main/Data:Kerala/Kollam.map")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected raw GeoJSON content")
	}
}

func TestGeoshape_MissingPage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query": {"pages": {"-1": {"missing": ""}}}}`))
	}))

	_, err := client.Geoshape(context.Background(), "http://commons.wikimedia.org/data/main/Data:Nope.map")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGeoshape_RejectsForeignURL(t *testing.T) {
	client := NewClient(NewClientParams{})
	_, err := client.Geoshape(context.Background(), "https://example.com/not-a-geoshape")
	if err == nil {
		t.Fatal("expected error for unrecognized URL")
	}
}
