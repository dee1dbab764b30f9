package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// ErrNotFound signals that the remote service has no record for the
// requested page or entity. Callers treat it like an empty result, not
// like a transport failure.
var ErrNotFound = errors.New("wiki: not found")

// Value is a single typed cell in a SPARQL result row. Type is "uri",
// "literal" or "bnode"; typed literals carry a Datatype such as
// xsd:dateTime or xsd:decimal.
type Value struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Binding maps result variable names to their values for one row.
type Binding map[string]Value

// Has reports whether the row bound a value for the named variable.
func (b Binding) Has(name string) bool {
	_, ok := b[name]
	return ok
}

// Get returns the string value bound to name, or "" when absent.
func (b Binding) Get(name string) string {
	v, ok := b[name]
	if !ok {
		return ""
	}
	return v.Value
}

// ResultSet is an ordered list of result rows. An empty set is a valid,
// non-error response.
type ResultSet struct {
	Bindings []Binding
}

// Empty reports whether the result set contains no rows.
func (r *ResultSet) Empty() bool {
	return r == nil || len(r.Bindings) == 0
}

// First returns the first row, or nil when the set is empty.
func (r *ResultSet) First() Binding {
	if r.Empty() {
		return nil
	}
	return r.Bindings[0]
}

type sparqlResponse struct {
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Sparql executes a SPARQL query against the configured endpoint and
// returns the parsed result rows.
func (c *Client) Sparql(ctx context.Context, query string) (*ResultSet, error) {
	u := fmt.Sprintf("%s?query=%s&format=json", c.sparqlEndpoint, url.QueryEscape(query))

	var parsed sparqlResponse
	if err := c.getJSON(ctx, u, "application/sparql-results+json", &parsed); err != nil {
		return nil, fmt.Errorf("sparql query failed: %w", err)
	}

	return &ResultSet{Bindings: parsed.Results.Bindings}, nil
}
