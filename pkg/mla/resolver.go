package mla

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alphaf42/keralamla/backend/internal/util"
	"github.com/alphaf42/keralamla/backend/pkg/logger"
	"github.com/alphaf42/keralamla/backend/pkg/wiki"

	"golang.org/x/sync/errgroup"
)

// ErrNoRepresentative signals that the graph records no current assembly
// member for the constituency. Terminal for the resolve cycle: there is
// nothing to display.
var ErrNoRepresentative = errors.New("mla: no current representative recorded")

// Resolver orchestrates the dependent lookups for one constituency
// selection: representative and constituency detail first, then the
// fetches gated on their results (biography summaries, gallery,
// sub-divisions).
type Resolver struct {
	client       graphClient
	maxRetries   int
	galleryLimit int
	thumbWidth   int
	now          func() time.Time
}

// NewResolverParams contains configuration options for creating a Resolver.
type NewResolverParams struct {
	Client graphClient

	// MaxRetries bounds attempts per remote fetch; <= 0 means 2.
	MaxRetries int
	// GalleryLimit caps gallery results; <= 0 means 6.
	GalleryLimit int
	// ThumbWidth is the gallery thumbnail width in pixels; <= 0 means 400.
	ThumbWidth int

	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// NewResolver creates a resolver over the given client.
func NewResolver(params NewResolverParams) *Resolver {
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}
	galleryLimit := params.GalleryLimit
	if galleryLimit <= 0 {
		galleryLimit = 6
	}
	thumbWidth := params.ThumbWidth
	if thumbWidth <= 0 {
		thumbWidth = 400
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Resolver{
		client:       params.Client,
		maxRetries:   maxRetries,
		galleryLimit: galleryLimit,
		thumbWidth:   thumbWidth,
		now:          now,
	}
}

// Resolve runs one complete resolve cycle for ref. The representative
// fetch is mandatory: a fetch failure or an empty result aborts the cycle
// (ErrNoRepresentative for the latter). Every other lookup degrades its
// own section on failure and never aborts the cycle.
func (r *Resolver) Resolve(ctx context.Context, ref ConstituencyRef) (*ResolvedProfile, error) {
	var (
		repRes    *wiki.ResultSet
		detailRes *wiki.ResultSet
	)

	// Representative and constituency detail have no dependency on each
	// other and run concurrently. Only the representative failure aborts.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := util.RetryWithContext(gCtx, r.maxRetries, func(ctx context.Context) (*wiki.ResultSet, error) {
			return r.client.Representative(ctx, ref.ID)
		})
		if err != nil {
			return fmt.Errorf("representative lookup failed: %w", err)
		}
		repRes = res
		return nil
	})
	g.Go(func() error {
		res, err := util.RetryWithContext(gCtx, r.maxRetries, func(ctx context.Context) (*wiki.ResultSet, error) {
			return r.client.ConstituencyDetail(ctx, ref.ID)
		})
		if err != nil {
			logger.Warn("Constituency detail lookup failed", "constituency", ref.ID, "err", err)
			return nil
		}
		detailRes = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if repRes.Empty() {
		return nil, ErrNoRepresentative
	}
	repRow := repRes.First()

	var detailRow wiki.Binding
	if !detailRes.Empty() {
		detailRow = detailRes.First()
	}

	// Dependent fetches are independent of one another and must not block
	// on each other; each one degrades only its own display section.
	var (
		repSummary       *wiki.Summary
		repSummaryFailed bool
		conSummary       *wiki.Summary
		conSummaryFailed bool
		gallery          []wiki.ImageResult
		subRows          []wiki.SubDivisionRow
	)

	dg, dgCtx := errgroup.WithContext(ctx)

	if article := repRow.Get("wikipedia"); article != "" {
		dg.Go(func() error {
			title := util.TitleFromArticleURL(article)
			lang := util.LangFromArticleURL(article, "en")
			s, err := util.RetryWithContext(dgCtx, r.maxRetries, func(ctx context.Context) (*wiki.Summary, error) {
				return r.client.Summary(ctx, lang, title)
			})
			if err != nil {
				logger.Debug("Representative summary fetch failed", "title", title, "err", err)
				repSummaryFailed = true
				return nil
			}
			repSummary = s
			return nil
		})
	}

	if detailRow != nil {
		if article := detailRow.Get("wikipedia"); article != "" {
			dg.Go(func() error {
				title := util.TitleFromArticleURL(article)
				lang := util.LangFromArticleURL(article, "en")
				s, err := util.RetryWithContext(dgCtx, r.maxRetries, func(ctx context.Context) (*wiki.Summary, error) {
					return r.client.Summary(ctx, lang, title)
				})
				if err != nil {
					logger.Debug("Constituency summary fetch failed", "title", title, "err", err)
					conSummaryFailed = true
					return nil
				}
				conSummary = s
				return nil
			})
		}
	}

	dg.Go(func() error {
		label := r.galleryLabel(ref, detailRow)
		results, err := util.RetryWithContext(dgCtx, r.maxRetries, func(ctx context.Context) ([]wiki.ImageResult, error) {
			return r.client.SearchImages(ctx, label, r.galleryLimit, r.thumbWidth)
		})
		if err != nil {
			logger.Debug("Gallery search failed", "label", label, "err", err)
			return nil
		}
		gallery = results
		return nil
	})

	dg.Go(func() error {
		rows, err := util.RetryWithContext(dgCtx, r.maxRetries, func(ctx context.Context) ([]wiki.SubDivisionRow, error) {
			return r.client.SubDivisions(ctx, ref.ID)
		})
		if err != nil {
			logger.Debug("Sub-division lookup failed", "constituency", ref.ID, "err", err)
			return nil
		}
		subRows = rows
		return nil
	})

	// Section goroutines swallow their own failures.
	_ = dg.Wait()

	graphThumb := ""
	if image := repRow.Get("image"); image != "" {
		graphThumb = r.client.ThumbnailURL(image, 500)
	}

	profile := assembleProfile(repRow, graphThumb, repSummary, repSummaryFailed, r.now())
	detail := assembleDetail(detailRow, ref.ID, conSummary, conSummaryFailed)

	subs := make([]SubDivision, 0, len(subRows))
	for _, row := range subRows {
		subs = append(subs, assembleSubDivision(row))
	}

	resolved := &ResolvedProfile{
		Constituency:   ref,
		Representative: profile,
		Detail:         detail,
		SubDivisions:   subs,
		Gallery:        assembleGallery(gallery),
		ResolvedAt:     r.now(),
	}

	if resolved.Constituency.Label == "" && detail != nil {
		resolved.Constituency.Label = detail.Label
	}

	return resolved, nil
}

// galleryLabel derives the media search label: the sanitized display
// label when the user picked one, otherwise the constituency's own label
// from the graph (deep-link flow).
func (r *Resolver) galleryLabel(ref ConstituencyRef, detailRow wiki.Binding) string {
	label := ref.Label
	if label == "" && detailRow != nil {
		label = detailRow.Get("itemLabel")
	}
	return util.SanitizeSearchLabel(label)
}
