package wiki

import (
	"context"
	"fmt"
	"strings"
)

// Wikidata entity and property keys used by the fixed query shapes.
const (
	keralaEntity            = "Q1186"      // Kerala
	districtClass           = "Q1149652"   // district of India
	constituencyClass       = "Q54375461"  // Kerala Legislative Assembly constituency
	currentAssemblyPosition = "Q106684477" // member of the 15th Kerala Legislative Assembly
)

// EntityRef is one graph entity with its display label.
type EntityRef struct {
	ID    string `json:"id"`
	URI   string `json:"uri"`
	Label string `json:"label"`
}

func refFromBinding(b Binding, itemVar, labelVar string) EntityRef {
	uri := b.Get(itemVar)
	id := uri
	if idx := strings.LastIndex(uri, "/"); idx != -1 {
		id = uri[idx+1:]
	}
	return EntityRef{
		ID:    id,
		URI:   uri,
		Label: b.Get(labelVar),
	}
}

// Districts lists Kerala's districts from the graph, ordered by label.
func (c *Client) Districts(ctx context.Context) ([]EntityRef, error) {
	query := fmt.Sprintf(`
		SELECT ?item ?itemLabel WHERE {
			?item wdt:P31 wd:%s;
			      wdt:P131 wd:%s.
			SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
		} ORDER BY ?itemLabel`, districtClass, keralaEntity)

	res, err := c.Sparql(ctx, query)
	if err != nil {
		return nil, err
	}

	refs := make([]EntityRef, 0, len(res.Bindings))
	for _, b := range res.Bindings {
		refs = append(refs, refFromBinding(b, "item", "itemLabel"))
	}
	return refs, nil
}

// Constituencies lists the assembly constituencies located in a district.
func (c *Client) Constituencies(ctx context.Context, districtID string) ([]EntityRef, error) {
	query := fmt.Sprintf(`
		SELECT ?item ?itemLabel WHERE {
			?item wdt:P31 wd:%s;
			      wdt:P131 wd:%s.
			SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
		} ORDER BY ?itemLabel`, constituencyClass, districtID)

	res, err := c.Sparql(ctx, query)
	if err != nil {
		return nil, err
	}

	refs := make([]EntityRef, 0, len(res.Bindings))
	for _, b := range res.Bindings {
		refs = append(refs, refFromBinding(b, "item", "itemLabel"))
	}
	return refs, nil
}

// ConstituencyByName resolves a constituency by its plain name, matching
// the graph's "<name> Assembly constituency" English label. Returns
// ErrNotFound when no constituency carries that label.
func (c *Client) ConstituencyByName(ctx context.Context, name string) (*EntityRef, error) {
	query := fmt.Sprintf(`
		SELECT ?item ?itemLabel WHERE {
			?item wdt:P31 wd:%s;
			      rdfs:label %q@en.
			SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
		} LIMIT 1`, constituencyClass, name+" Assembly constituency")

	res, err := c.Sparql(ctx, query)
	if err != nil {
		return nil, err
	}
	if res.Empty() {
		return nil, ErrNotFound
	}
	ref := refFromBinding(res.Bindings[0], "item", "itemLabel")
	return &ref, nil
}

// Representative returns the row for the constituency's current assembly
// member, or an empty set when none is recorded. The position-held
// statement must carry no end date (the incumbent filter); when the data
// anomalously holds several open statements, the most recently started
// term wins.
func (c *Client) Representative(ctx context.Context, constituencyID string) (*ResultSet, error) {
	query := fmt.Sprintf(`
		SELECT ?mla ?mlaLabel ?image ?partyLabel ?wikipedia ?dob ?pobLabel ?occupationLabel ?educationLabel ?residenceLabel ?nativeLangLabel ?start
		       (GROUP_CONCAT(DISTINCT ?langLabel; SEPARATOR=", ") AS ?languages)
		       (GROUP_CONCAT(DISTINCT ?degreeLabel; SEPARATOR=", ") AS ?degrees)
		WHERE {
			?mla p:P39 ?statement.
			?statement ps:P39 wd:%s;
			           pq:P768 wd:%s.
			FILTER NOT EXISTS { ?statement pq:P582 ?endTime. }
			OPTIONAL { ?statement pq:P580 ?start. }
			OPTIONAL { ?mla wdt:P18 ?image. }
			OPTIONAL { ?mla wdt:P102 ?party. }
			OPTIONAL { ?mla wdt:P569 ?dob. }
			OPTIONAL { ?mla wdt:P19 ?pob. }
			OPTIONAL { ?mla wdt:P106 ?occupation. }
			OPTIONAL { ?mla wdt:P69 ?education. }
			OPTIONAL { ?mla wdt:P551 ?residence. }
			OPTIONAL { ?mla wdt:P103 ?nativeLang. }
			OPTIONAL { ?mla wdt:P1412 ?lang. }
			OPTIONAL { ?mla wdt:P512 ?degree. }
			OPTIONAL {
				?wikipedia schema:about ?mla;
				           schema:isPartOf <https://en.wikipedia.org/>.
			}
			SERVICE wikibase:label {
				bd:serviceParam wikibase:language "en".
				?mla rdfs:label ?mlaLabel.
				?party rdfs:label ?partyLabel.
				?pob rdfs:label ?pobLabel.
				?occupation rdfs:label ?occupationLabel.
				?education rdfs:label ?educationLabel.
				?residence rdfs:label ?residenceLabel.
				?nativeLang rdfs:label ?nativeLangLabel.
				?lang rdfs:label ?langLabel.
				?degree rdfs:label ?degreeLabel.
			}
		}
		GROUP BY ?mla ?mlaLabel ?image ?partyLabel ?wikipedia ?dob ?pobLabel ?occupationLabel ?educationLabel ?residenceLabel ?nativeLangLabel ?start
		ORDER BY DESC(?start)
		LIMIT 1`, currentAssemblyPosition, constituencyID)

	return c.Sparql(ctx, query)
}

// ConstituencyDetail returns the constituency's own facts (district,
// inception, area, image, article reference), or an empty set when the
// graph has no record.
func (c *Client) ConstituencyDetail(ctx context.Context, constituencyID string) (*ResultSet, error) {
	query := fmt.Sprintf(`
		SELECT ?itemLabel ?image ?inception ?area ?districtLabel ?wikipedia WHERE {
			BIND(wd:%s as ?item)
			OPTIONAL { ?item wdt:P18 ?image. }
			OPTIONAL { ?item wdt:P571 ?inception. }
			OPTIONAL { ?item wdt:P2046 ?area. }
			OPTIONAL { ?item wdt:P131 ?district. }
			OPTIONAL {
				?wikipedia schema:about ?item;
				           schema:isPartOf <https://en.wikipedia.org/>.
			}
			SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
		} LIMIT 1`, constituencyID)

	return c.Sparql(ctx, query)
}

// SubDivisionRow is one panchayat or ward located inside a constituency,
// with its geoshape and article references in English and Malayalam.
type SubDivisionRow struct {
	Ref         EntityRef `json:"ref"`
	GeoshapeURL string    `json:"geoshape_url"`
	ArticleEN   string    `json:"article_en,omitempty"`
	ArticleML   string    `json:"article_ml,omitempty"`
}

// SubDivisions enumerates the sub-divisions of a constituency along with
// their geoshape data URLs. An empty list is a valid response.
func (c *Client) SubDivisions(ctx context.Context, constituencyID string) ([]SubDivisionRow, error) {
	query := fmt.Sprintf(`
		SELECT ?item ?itemLabel ?geoshape ?wikipedia ?wikipediaML WHERE {
			?item wdt:P7938 wd:%s.
			?item wdt:P3896 ?geoshape.
			OPTIONAL {
				?wikipedia schema:about ?item;
				           schema:isPartOf <https://en.wikipedia.org/>.
			}
			OPTIONAL {
				?wikipediaML schema:about ?item;
				             schema:isPartOf <https://ml.wikipedia.org/>.
			}
			SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
		}`, constituencyID)

	res, err := c.Sparql(ctx, query)
	if err != nil {
		return nil, err
	}

	rows := make([]SubDivisionRow, 0, len(res.Bindings))
	for _, b := range res.Bindings {
		rows = append(rows, SubDivisionRow{
			Ref:         refFromBinding(b, "item", "itemLabel"),
			GeoshapeURL: b.Get("geoshape"),
			ArticleEN:   b.Get("wikipedia"),
			ArticleML:   b.Get("wikipediaML"),
		})
	}
	return rows, nil
}

// Claim is one label/value row of an entity's direct claims.
type Claim struct {
	Property string `json:"property"`
	Value    string `json:"value"`
	ValueURI string `json:"value_uri,omitempty"`
}

// EntityClaims returns an entity's direct claims as label/value rows,
// ordered by property number. Entity-typed values resolve to their
// English label when one exists, otherwise to the raw value.
func (c *Client) EntityClaims(ctx context.Context, entityID string) ([]Claim, error) {
	query := fmt.Sprintf(`
		SELECT ?wdLabel ?ooLabel ?o
		WHERE {
			VALUES (?s) { (wd:%s) }
			?s ?wdt ?o .
			?wd wikibase:directClaim ?wdt .
			?wd rdfs:label ?wdLabel .
			OPTIONAL {
				?o rdfs:label ?oLabel .
				FILTER (lang(?oLabel) = "en")
			}
			FILTER (lang(?wdLabel) = "en")
			BIND (COALESCE(?oLabel, ?o) AS ?ooLabel)
		}
		ORDER BY xsd:integer(STRAFTER(STR(?wd), "http://www.wikidata.org/entity/P"))`, entityID)

	res, err := c.Sparql(ctx, query)
	if err != nil {
		return nil, err
	}

	claims := make([]Claim, 0, len(res.Bindings))
	for _, b := range res.Bindings {
		claim := Claim{
			Property: b.Get("wdLabel"),
			Value:    b.Get("ooLabel"),
		}
		if v, ok := b["o"]; ok && v.Type == "uri" {
			claim.ValueURI = v.Value
		}
		claims = append(claims, claim)
	}
	return claims, nil
}
