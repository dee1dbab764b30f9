package mla

import (
	"testing"
	"time"

	"github.com/alphaf42/keralamla/backend/pkg/wiki"
)

func literal(v string) wiki.Value {
	return wiki.Value{Type: "literal", Value: v}
}

func uri(v string) wiki.Value {
	return wiki.Value{Type: "uri", Value: v}
}

func TestAgeAt_AnniversaryBoundary(t *testing.T) {
	dob := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{
			name: "day before anniversary",
			now:  time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
			want: 23,
		},
		{
			name: "on anniversary",
			now:  time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			want: 24,
		},
		{
			name: "after anniversary",
			now:  time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
			want: 24,
		},
		{
			name: "earlier month",
			now:  time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
			want: 23,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ageAt(dob, tt.now)
			if got != tt.want {
				t.Fatalf("unexpected age: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAssembleProfile_PartyFallback(t *testing.T) {
	row := wiki.Binding{
		"mla":      uri("http://www.wikidata.org/entity/Q123"),
		"mlaLabel": literal("Some Member"),
	}

	p := assembleProfile(row, "", nil, false, time.Now())
	if p.Party != "N/A" {
		t.Fatalf("expected party fallback N/A, got %q", p.Party)
	}

	row["partyLabel"] = literal("Communist Party of India (Marxist)")
	p = assembleProfile(row, "", nil, false, time.Now())
	if p.Party != "Communist Party of India (Marxist)" {
		t.Fatalf("present party must not be overwritten, got %q", p.Party)
	}
}

func TestAssembleProfile_ImageFallbackChain(t *testing.T) {
	row := wiki.Binding{
		"mla":      uri("http://www.wikidata.org/entity/Q123"),
		"mlaLabel": literal("Some Member"),
	}

	// No graph image, no summary: placeholder.
	p := assembleProfile(row, "", nil, false, time.Now())
	if p.ImageURL != PlaceholderPortraitURL {
		t.Fatalf("expected placeholder, got %q", p.ImageURL)
	}

	// No graph image, summary thumbnail present.
	summary := &wiki.Summary{Thumbnail: "https://upload.example/thumb.jpg"}
	p = assembleProfile(row, "", summary, false, time.Now())
	if p.ImageURL != "https://upload.example/thumb.jpg" {
		t.Fatalf("expected summary thumbnail, got %q", p.ImageURL)
	}

	// Graph image wins over everything.
	p = assembleProfile(row, "https://commons.example/graph.jpg?width=500", summary, false, time.Now())
	if p.ImageURL != "https://commons.example/graph.jpg?width=500" {
		t.Fatalf("expected graph image, got %q", p.ImageURL)
	}
}

func TestAssembleProfile_LanguagesFallback(t *testing.T) {
	row := wiki.Binding{
		"mla":             uri("http://www.wikidata.org/entity/Q123"),
		"mlaLabel":        literal("Some Member"),
		"nativeLangLabel": literal("Malayalam"),
	}

	p := assembleProfile(row, "", nil, false, time.Now())
	if p.Languages != "Malayalam" {
		t.Fatalf("expected native language fallback, got %q", p.Languages)
	}

	row["languages"] = literal("Malayalam, English")
	p = assembleProfile(row, "", nil, false, time.Now())
	if p.Languages != "Malayalam, English" {
		t.Fatalf("expected joined languages, got %q", p.Languages)
	}
}

func TestAssembleProfile_DOBAndAge(t *testing.T) {
	row := wiki.Binding{
		"mla":      uri("http://www.wikidata.org/entity/Q123"),
		"mlaLabel": literal("Some Member"),
		"dob":      literal("2000-06-15T00:00:00Z"),
	}

	now := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	p := assembleProfile(row, "", nil, false, now)
	if p.DateOfBirth != "15 June 2000" {
		t.Fatalf("unexpected formatted date: %q", p.DateOfBirth)
	}
	if p.Age != 23 {
		t.Fatalf("unexpected age: %d", p.Age)
	}
}

func TestAssembleBiography_States(t *testing.T) {
	noLink := assembleBiography(false, nil, false)
	if noLink.State != BiographyNoLink {
		t.Fatalf("expected no_link state, got %q", noLink.State)
	}

	failed := assembleBiography(true, nil, true)
	if failed.State != BiographyFetchFailed {
		t.Fatalf("expected fetch_failed state, got %q", failed.State)
	}

	present := assembleBiography(true, &wiki.Summary{
		Extract:     "plain",
		ExtractHTML: "<p>rich</p>",
	}, false)
	if present.State != BiographyPresent {
		t.Fatalf("expected present state, got %q", present.State)
	}
	if present.HTML != "<p>rich</p>" || present.Text != "plain" {
		t.Fatalf("unexpected biography content: %+v", present)
	}
}

func TestAssembleDetail_AreaAndInception(t *testing.T) {
	row := wiki.Binding{
		"itemLabel":     literal("Kottarakkara"),
		"districtLabel": literal("Kollam district"),
		"inception":     literal("1953-01-01T00:00:00Z"),
		"area":          literal("2491.4"),
	}

	d := assembleDetail(row, "Q3595089", nil, false)
	if d == nil {
		t.Fatal("expected detail")
	}
	if d.InceptionYear != 1953 {
		t.Fatalf("unexpected inception year: %d", d.InceptionYear)
	}
	if d.AreaDisplay != "2,491.4 km²" {
		t.Fatalf("unexpected area display: %q", d.AreaDisplay)
	}
	if d.District != "Kollam district" {
		t.Fatalf("unexpected district: %q", d.District)
	}
}

func TestAssembleDetail_NilRow(t *testing.T) {
	if assembleDetail(nil, "Q1", nil, false) != nil {
		t.Fatal("nil row must produce nil detail")
	}
}

func TestAssembleDetail_MissingFieldsStayEmpty(t *testing.T) {
	row := wiki.Binding{
		"itemLabel": literal("Kottarakkara"),
	}

	d := assembleDetail(row, "Q3595089", nil, false)
	if d.InceptionYear != 0 {
		t.Fatalf("expected zero inception year, got %d", d.InceptionYear)
	}
	if d.AreaDisplay != "" {
		t.Fatalf("expected empty area, got %q", d.AreaDisplay)
	}
	if d.Summary.State != BiographyNoLink {
		t.Fatalf("expected no_link summary state, got %q", d.Summary.State)
	}
}

func TestAssembleSubDivision_LanguageFallback(t *testing.T) {
	en := assembleSubDivision(wiki.SubDivisionRow{
		Ref:       wiki.EntityRef{ID: "Q100", Label: "Some Panchayat"},
		ArticleEN: "https://en.wikipedia.org/wiki/Some_Panchayat",
		ArticleML: "https://ml.wikipedia.org/wiki/Some_Panchayat",
	})
	if en.ArticleLang != "en" {
		t.Fatalf("expected primary language link, got %q", en.ArticleLang)
	}
	if en.ArticleURL != "https://en.wikipedia.org/wiki/Some_Panchayat" {
		t.Fatalf("unexpected article URL: %q", en.ArticleURL)
	}

	ml := assembleSubDivision(wiki.SubDivisionRow{
		Ref:       wiki.EntityRef{ID: "Q101", Label: "Other Panchayat"},
		ArticleML: "https://ml.wikipedia.org/wiki/Other_Panchayat",
	})
	if ml.ArticleLang != "ml" {
		t.Fatalf("expected secondary language marker, got %q", ml.ArticleLang)
	}
	if ml.ArticleURL != "https://ml.wikipedia.org/wiki/Other_Panchayat" {
		t.Fatalf("unexpected article URL: %q", ml.ArticleURL)
	}

	none := assembleSubDivision(wiki.SubDivisionRow{
		Ref: wiki.EntityRef{ID: "Q102", Label: "Unlinked Panchayat"},
	})
	if none.ArticleURL != "" || none.ArticleLang != "" {
		t.Fatalf("expected no article reference, got %+v", none)
	}
}

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{name: "small", input: 42, want: "42"},
		{name: "grouped", input: 2491, want: "2,491"},
		{name: "grouped with fraction", input: 2491.4, want: "2,491.4"},
		{name: "millions", input: 1234567, want: "1,234,567"},
		{name: "whole float", input: 1000.0, want: "1,000"},
		{name: "fraction rounds down", input: 12.34, want: "12.3"},
		{name: "fraction carries into whole part", input: 999.96, want: "1,000"},
		{name: "fraction carries across grouping", input: 1999.99, want: "2,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatThousands(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected format: got %q, want %q", got, tt.want)
			}
		})
	}
}
