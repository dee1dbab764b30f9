package mla

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alphaf42/keralamla/backend/internal/util"
	"github.com/alphaf42/keralamla/backend/pkg/wiki"
)

// PlaceholderPortraitURL is the generic portrait shown when neither the
// graph nor the encyclopedia supplies an image.
const PlaceholderPortraitURL = "https://upload.wikimedia.org/wikipedia/commons/8/89/Portrait_Placeholder.png"

const defaultParty = "N/A"

// assembleProfile merges the representative query row and its optional
// summary into a display-ready profile. Pure: all remote data arrives as
// arguments, now supplies the wall clock for the age computation, and
// graphThumb is the pre-derived thumbnail of the graph-supplied image.
func assembleProfile(row wiki.Binding, graphThumb string, summary *wiki.Summary, summaryFailed bool, now time.Time) *Profile {
	p := &Profile{
		Name:         row.Get("mlaLabel"),
		Party:        defaultParty,
		PlaceOfBirth: row.Get("pobLabel"),
		Occupation:   row.Get("occupationLabel"),
		Education:    row.Get("educationLabel"),
		Degrees:      row.Get("degrees"),
		Residence:    row.Get("residenceLabel"),
		EntityURI:    row.Get("mla"),
		EntityID:     util.EntityID(row.Get("mla")),
	}

	if party := row.Get("partyLabel"); party != "" {
		p.Party = party
	}

	// The grouped languages join falls back to the single native language
	// fact when no spoken-language facts exist.
	if langs := row.Get("languages"); langs != "" {
		p.Languages = langs
	} else {
		p.Languages = row.Get("nativeLangLabel")
	}

	if dob, ok := parseGraphDate(row.Get("dob")); ok {
		p.DateOfBirth = dob.Format("2 January 2006")
		p.Age = ageAt(dob, now)
	}

	// Image fallback chain: graph image, encyclopedia thumbnail, placeholder.
	switch {
	case graphThumb != "":
		p.ImageURL = graphThumb
	case summary != nil && summary.Thumbnail != "":
		p.ImageURL = summary.Thumbnail
	default:
		p.ImageURL = PlaceholderPortraitURL
	}

	if article := row.Get("wikipedia"); article != "" {
		p.ArticleURL = article
		p.MobileArticleURL = util.MobileArticleURL(article)
	}

	p.Biography = assembleBiography(p.ArticleURL != "", summary, summaryFailed)

	return p
}

// assembleBiography applies the extract fallback rules: HTML preferred
// over plain text; absence distinguishes a missing article link from a
// failed fetch.
func assembleBiography(hasLink bool, summary *wiki.Summary, fetchFailed bool) Biography {
	if !hasLink {
		return Biography{State: BiographyNoLink}
	}
	if fetchFailed || summary == nil {
		return Biography{State: BiographyFetchFailed}
	}
	return Biography{
		State: BiographyPresent,
		HTML:  summary.ExtractHTML,
		Text:  summary.Extract,
	}
}

// assembleDetail merges the constituency detail row and its optional
// summary. Returns nil when the graph had no record at all.
func assembleDetail(row wiki.Binding, constituencyID string, summary *wiki.Summary, summaryFailed bool) *ConstituencyDetail {
	if row == nil {
		return nil
	}

	d := &ConstituencyDetail{
		Label:    row.Get("itemLabel"),
		District: row.Get("districtLabel"),
		EntityID: constituencyID,
	}

	if inception, ok := parseGraphDate(row.Get("inception")); ok {
		d.InceptionYear = inception.Year()
	}

	if area := row.Get("area"); area != "" {
		if km2, err := strconv.ParseFloat(area, 64); err == nil {
			d.AreaDisplay = fmt.Sprintf("%s km²", formatThousands(km2))
		}
	}

	d.ArticleURL = row.Get("wikipedia")
	d.Summary = assembleBiography(d.ArticleURL != "", summary, summaryFailed)

	return d
}

// assembleSubDivision picks the article reference for a sub-division:
// English when available, otherwise the Malayalam article with a visible
// language marker.
func assembleSubDivision(row wiki.SubDivisionRow) SubDivision {
	s := SubDivision{
		Name:        row.Ref.Label,
		EntityID:    row.Ref.ID,
		GeoshapeURL: row.GeoshapeURL,
	}
	switch {
	case row.ArticleEN != "":
		s.ArticleURL = row.ArticleEN
		s.ArticleLang = "en"
	case row.ArticleML != "":
		s.ArticleURL = row.ArticleML
		s.ArticleLang = "ml"
	}
	return s
}

func assembleGallery(results []wiki.ImageResult) []GalleryImage {
	gallery := make([]GalleryImage, 0, len(results))
	for _, r := range results {
		gallery = append(gallery, GalleryImage{
			Title:    r.Title,
			URL:      r.URL,
			ThumbURL: r.ThumbURL,
		})
	}
	return gallery
}

// ageAt computes whole years between dob and now, decrementing when the
// anniversary has not yet occurred in the current year.
func ageAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// parseGraphDate parses an xsd:dateTime literal from the graph, e.g.
// "1953-04-01T00:00:00Z".
func parseGraphDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// Some date facts omit the time part.
		t, err = time.Parse("2006-01-02", value)
		if err != nil {
			return time.Time{}, false
		}
	}
	return t, true
}

// formatThousands renders a quantity with comma digit grouping, keeping a
// single decimal only when the value is not whole.
func formatThousands(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	// Round to one decimal up front so the fraction can carry into the
	// whole part.
	v = math.Round(v*10) / 10

	whole := math.Floor(v)
	frac := v - whole

	digits := strconv.FormatFloat(whole, 'f', 0, 64)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := b.String()
	if frac >= 0.05 {
		out += strconv.FormatFloat(frac, 'f', 1, 64)[1:]
	}
	if neg {
		out = "-" + out
	}
	return out
}
