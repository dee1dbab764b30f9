package mla

import (
	"context"
	"time"

	"github.com/alphaf42/keralamla/backend/pkg/wiki"
)

// ConstituencyRef identifies a selected constituency: an opaque graph
// entity key plus the display label the user picked. The label may be
// empty when the selection came from a deep link.
type ConstituencyRef struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// BiographyState records why a biography extract may be absent, so the
// display can distinguish a missing article link from a failed fetch.
type BiographyState string

const (
	BiographyPresent     BiographyState = "present"
	BiographyNoLink      BiographyState = "no_link"
	BiographyFetchFailed BiographyState = "fetch_failed"
)

// Biography is an encyclopedia extract with its availability state.
// HTML is preferred over Text when both are present.
type Biography struct {
	State BiographyState `json:"state"`
	HTML  string         `json:"html,omitempty"`
	Text  string         `json:"text,omitempty"`
}

// Profile is the display-ready record for a constituency's current
// representative. Optional biographical fields are empty strings when the
// graph holds no fact; the display hides those rows.
type Profile struct {
	Name  string `json:"name"`
	Party string `json:"party"`

	ImageURL string `json:"image_url"`

	DateOfBirth  string `json:"date_of_birth,omitempty"`
	Age          int    `json:"age,omitempty"`
	PlaceOfBirth string `json:"place_of_birth,omitempty"`
	Occupation   string `json:"occupation,omitempty"`
	Education    string `json:"education,omitempty"`
	Degrees      string `json:"degrees,omitempty"`
	Languages    string `json:"languages,omitempty"`
	Residence    string `json:"residence,omitempty"`

	EntityID   string `json:"entity_id"`
	EntityURI  string `json:"entity_uri"`
	ArticleURL string `json:"article_url,omitempty"`
	// MobileArticleURL is the overlay-friendly rewrite of ArticleURL.
	MobileArticleURL string `json:"mobile_article_url,omitempty"`

	Biography Biography `json:"biography"`
}

// ConstituencyDetail carries the constituency's own facts. A nil detail
// means the graph had no record; each empty field hides its display row.
type ConstituencyDetail struct {
	Label         string `json:"label"`
	District      string `json:"district,omitempty"`
	InceptionYear int    `json:"inception_year,omitempty"`
	// AreaDisplay is the formatted quantity with unit, e.g. "2,491 km²".
	AreaDisplay string `json:"area_display,omitempty"`

	EntityID   string `json:"entity_id"`
	ArticleURL string `json:"article_url,omitempty"`

	Summary Biography `json:"summary"`
}

// SubDivision is a panchayat or ward contained in the constituency. The
// article reference prefers the English encyclopedia; when only the
// Malayalam article exists, ArticleLang marks the fallback.
type SubDivision struct {
	Name        string `json:"name"`
	EntityID    string `json:"entity_id"`
	ArticleURL  string `json:"article_url,omitempty"`
	ArticleLang string `json:"article_lang,omitempty"`
	GeoshapeURL string `json:"geoshape_url,omitempty"`
}

// GalleryImage is one width-constrained gallery rendering.
type GalleryImage struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url"`
}

// ResolvedProfile is the aggregate produced by one resolve cycle. It is
// constructed fresh per cycle and fully replaces any prior profile.
type ResolvedProfile struct {
	Constituency   ConstituencyRef     `json:"constituency"`
	Representative *Profile            `json:"representative"`
	Detail         *ConstituencyDetail `json:"detail,omitempty"`
	SubDivisions   []SubDivision       `json:"sub_divisions"`
	Gallery        []GalleryImage      `json:"gallery"`
	ResolvedAt     time.Time           `json:"resolved_at"`
}

// graphClient is the slice of the wiki client the resolver depends on.
type graphClient interface {
	Representative(ctx context.Context, constituencyID string) (*wiki.ResultSet, error)
	ConstituencyDetail(ctx context.Context, constituencyID string) (*wiki.ResultSet, error)
	SubDivisions(ctx context.Context, constituencyID string) ([]wiki.SubDivisionRow, error)
	SearchImages(ctx context.Context, label string, limit, thumbWidth int) ([]wiki.ImageResult, error)
	Summary(ctx context.Context, lang, title string) (*wiki.Summary, error)
	ThumbnailURL(fileURL string, width int) string
}
