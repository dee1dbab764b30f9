package mla

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/alphaf42/keralamla/backend/internal/util"
	"github.com/alphaf42/keralamla/backend/pkg/logger"
	"github.com/alphaf42/keralamla/backend/pkg/wiki"

	"github.com/PuerkitoBio/goquery"
)

// OverlayState is the detail overlay's lifecycle state.
type OverlayState string

const (
	OverlayIdle     OverlayState = "idle"
	OverlayLoading  OverlayState = "loading"
	OverlayRendered OverlayState = "rendered"
	OverlayError    OverlayState = "error"
)

// ErrNotRendered is returned when a cross-reference navigation is
// attempted while the overlay has no rendered content.
var ErrNotRendered = errors.New("mla: overlay has no rendered content")

// TargetKind distinguishes the two detail target shapes.
type TargetKind string

const (
	TargetArticle TargetKind = "article"
	TargetEntity  TargetKind = "entity"
)

// Target identifies what the overlay should load: an encyclopedia article
// (language + title) or a graph entity key.
type Target struct {
	Kind     TargetKind
	Lang     string
	Title    string
	EntityID string
}

// OverlayContent is a loaded detail view. Articles carry full markup;
// entities carry the curated claim rows. CrossRefs lists the entity keys
// reachable from the content for in-place navigation.
type OverlayContent struct {
	Target    Target       `json:"target"`
	Title     string       `json:"title"`
	HTML      string       `json:"html,omitempty"`
	Claims    []wiki.Claim `json:"claims,omitempty"`
	CrossRefs []string     `json:"cross_refs,omitempty"`
}

// detailFetcher is the slice of the wiki client the overlay depends on.
type detailFetcher interface {
	FullArticle(ctx context.Context, lang, title string) (*wiki.Article, error)
	EntityClaims(ctx context.Context, entityID string) ([]wiki.Claim, error)
	EntityHTML(ctx context.Context, entityID string) (string, error)
}

// overlayFetchTries bounds transient-failure retries per detail load.
const overlayFetchTries = 2

// The curated subset of relation types shown for entity targets.
var curatedClaimProperties = map[string]bool{
	"instance of": true,
	"located in the administrative territorial entity": true,
	"date of birth":             true,
	"place of birth":            true,
	"inception":                 true,
	"area":                      true,
	"member of political party": true,
	"position held":             true,
}

// Overlay is the recursive on-demand detail viewer. It loads full detail
// for any article or entity reference, follows embedded cross-references
// to other entities without closing, and discards results that arrive
// after dismissal or after a newer load superseded them.
type Overlay struct {
	fetcher detailFetcher

	mu      sync.Mutex
	state   OverlayState
	gen     uint64
	content *OverlayContent
	lastErr error
}

// NewOverlay creates a dismissed overlay over fetcher.
func NewOverlay(fetcher detailFetcher) *Overlay {
	return &Overlay{
		fetcher: fetcher,
		state:   OverlayIdle,
	}
}

// OverlayLoad is one issued detail load. Wait blocks until the fetch
// finishes; Stale reports whether dismissal or a newer load discarded it.
type OverlayLoad struct {
	gen  uint64
	done chan struct{}

	content *OverlayContent
	err     error
	stale   bool
}

// Wait blocks until the load completes or ctx is done.
func (l *OverlayLoad) Wait(ctx context.Context) (*OverlayContent, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.done:
		return l.content, l.err
	}
}

// Stale reports whether the load was discarded. A load still in flight
// is not stale yet; waiters that gave up early see false until the load
// actually finishes.
func (l *OverlayLoad) Stale() bool {
	select {
	case <-l.done:
		return l.stale
	default:
		return false
	}
}

// Open starts loading detail for target, transitioning the overlay to
// Loading and superseding any load still in flight.
func (o *Overlay) Open(ctx context.Context, target Target) *OverlayLoad {
	o.mu.Lock()
	o.gen++
	o.state = OverlayLoading
	o.lastErr = nil
	l := &OverlayLoad{gen: o.gen, done: make(chan struct{})}
	o.mu.Unlock()

	go func() {
		defer close(l.done)

		content, err := o.fetch(ctx, target)

		o.mu.Lock()
		defer o.mu.Unlock()

		if l.gen != o.gen {
			// Dismissed or superseded while in flight; never paint a
			// closed or outdated overlay.
			l.stale = true
			logger.Debug("Discarding stale overlay load")
			return
		}

		if err != nil {
			o.state = OverlayError
			o.lastErr = err
			l.err = err
			return
		}

		o.state = OverlayRendered
		o.content = content
		l.content = content
	}()

	return l
}

// Navigate follows a cross-reference from the rendered content to another
// entity, re-resolving in place. Valid only while content is rendered.
func (o *Overlay) Navigate(ctx context.Context, entityID string) (*OverlayLoad, error) {
	o.mu.Lock()
	if o.state != OverlayRendered {
		o.mu.Unlock()
		return nil, ErrNotRendered
	}
	o.mu.Unlock()

	return o.Open(ctx, Target{Kind: TargetEntity, EntityID: entityID}), nil
}

// Dismiss closes the overlay. In-flight loads are abandoned; their
// results will be discarded on arrival.
func (o *Overlay) Dismiss() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gen++
	o.state = OverlayIdle
	o.content = nil
	o.lastErr = nil
}

// State returns the overlay's current lifecycle state.
func (o *Overlay) State() OverlayState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Content returns the rendered content, or nil outside Rendered.
func (o *Overlay) Content() *OverlayContent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.content
}

// Err returns the failure behind the Error state, or nil.
func (o *Overlay) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

func (o *Overlay) fetch(ctx context.Context, target Target) (*OverlayContent, error) {
	switch target.Kind {
	case TargetEntity:
		claims, pageHTML, err := util.Retry2WithContext(ctx, overlayFetchTries, func(ctx context.Context) ([]wiki.Claim, string, error) {
			claims, err := o.fetcher.EntityClaims(ctx, target.EntityID)
			if err != nil {
				return nil, "", err
			}
			pageHTML, err := o.fetcher.EntityHTML(ctx, target.EntityID)
			if err != nil {
				// The curated rows still render without the page markup.
				logger.Warn("Entity page markup unavailable", "entity", target.EntityID, "err", err)
				pageHTML = ""
			}
			return claims, pageHTML, nil
		})
		if err != nil {
			return nil, err
		}

		curated := make([]wiki.Claim, 0, len(claims))
		crossRefs := make([]string, 0)
		seen := make(map[string]bool)
		for _, claim := range claims {
			if !curatedClaimProperties[strings.ToLower(claim.Property)] {
				continue
			}
			curated = append(curated, claim)
			if id := util.EntityID(claim.ValueURI); id != "" && !seen[id] {
				seen[id] = true
				crossRefs = append(crossRefs, id)
			}
		}
		for _, id := range extractEntityLinks(pageHTML) {
			if id == target.EntityID || seen[id] {
				continue
			}
			seen[id] = true
			crossRefs = append(crossRefs, id)
		}
		return &OverlayContent{
			Target:    target,
			Title:     target.EntityID,
			HTML:      pageHTML,
			Claims:    curated,
			CrossRefs: crossRefs,
		}, nil

	default:
		article, err := util.RetryWithContext(ctx, overlayFetchTries, func(ctx context.Context) (*wiki.Article, error) {
			return o.fetcher.FullArticle(ctx, target.Lang, target.Title)
		})
		if err != nil {
			return nil, err
		}
		return &OverlayContent{
			Target:    target,
			Title:     article.Title,
			HTML:      article.HTML,
			CrossRefs: extractEntityLinks(article.HTML),
		}, nil
	}
}

// extractEntityLinks finds Wikidata entity references in rendered markup.
// Ordinary external links are left for normal navigation; only entity
// links participate in in-place overlay navigation.
func extractEntityLinks(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var refs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, "wikidata.org") {
			return
		}
		id := util.EntityID(href)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		refs = append(refs, id)
	})
	return refs
}
