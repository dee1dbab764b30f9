package wiki

import (
	"context"
	"fmt"
	"net/url"
)

// Summary is the lead extract of a Wikipedia article.
type Summary struct {
	Title       string
	Extract     string
	ExtractHTML string
	Thumbnail   string
}

type restSummaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ExtractHTML string `json:"extract_html"`
	Thumbnail   struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// Summary fetches the article summary for title in the given language via
// the Wikipedia REST API. Results are cached; concurrent fetches for the
// same article are collapsed into one request.
func (c *Client) Summary(ctx context.Context, lang, title string) (*Summary, error) {
	key := lang + "/" + title

	c.summaryCacheMu.RLock()
	if cached, ok := c.summaryCache[key]; ok {
		c.summaryCacheMu.RUnlock()
		return cached, nil
	}
	c.summaryCacheMu.RUnlock()

	result, err, _ := c.summaryGroup.Do(key, func() (any, error) {
		c.summaryCacheMu.RLock()
		if cached, ok := c.summaryCache[key]; ok {
			c.summaryCacheMu.RUnlock()
			return cached, nil
		}
		c.summaryCacheMu.RUnlock()

		base := fmt.Sprintf(c.wikipediaAPI, lang)
		u := fmt.Sprintf("%s/page/summary/%s", base, url.PathEscape(title))

		var parsed restSummaryResponse
		if err := c.getJSON(ctx, u, "", &parsed); err != nil {
			return nil, fmt.Errorf("summary fetch for %q failed: %w", title, err)
		}

		summary := &Summary{
			Title:       parsed.Title,
			Extract:     parsed.Extract,
			ExtractHTML: parsed.ExtractHTML,
			Thumbnail:   parsed.Thumbnail.Source,
		}

		c.summaryCacheMu.Lock()
		c.summaryCache[key] = summary
		c.summaryCacheMu.Unlock()

		return summary, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Summary), nil
}

// Article is the full rendered markup of a Wikipedia article.
type Article struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

type parseResponse struct {
	Parse struct {
		Title        string `json:"title"`
		DisplayTitle string `json:"displaytitle"`
		Text         string `json:"text"`
	} `json:"parse"`
}

// FullArticle fetches the complete rendered article markup for title in the
// given language via the MediaWiki parse API.
func (c *Client) FullArticle(ctx context.Context, lang, title string) (*Article, error) {
	base := fmt.Sprintf(c.wikipediaParse, lang)
	u := fmt.Sprintf("%s?action=parse&page=%s&format=json&formatversion=2&prop=text|displaytitle",
		base, url.QueryEscape(title))

	var parsed parseResponse
	if err := c.getJSON(ctx, u, "", &parsed); err != nil {
		return nil, fmt.Errorf("article fetch for %q failed: %w", title, err)
	}
	if parsed.Parse.Text == "" {
		return nil, ErrNotFound
	}

	articleTitle := parsed.Parse.DisplayTitle
	if articleTitle == "" {
		articleTitle = parsed.Parse.Title
	}
	return &Article{
		Title: articleTitle,
		HTML:  parsed.Parse.Text,
	}, nil
}

// EntityHTML fetches the rendered entity page markup for a Wikidata entity
// key via the Wikidata parse API.
func (c *Client) EntityHTML(ctx context.Context, entityID string) (string, error) {
	u := fmt.Sprintf("%s?action=parse&formatversion=2&page=%s&prop=text&format=json",
		c.wikidataAPI, url.QueryEscape(entityID))

	var parsed parseResponse
	if err := c.getJSON(ctx, u, "", &parsed); err != nil {
		return "", fmt.Errorf("entity page fetch for %q failed: %w", entityID, err)
	}
	if parsed.Parse.Text == "" {
		return "", ErrNotFound
	}
	return parsed.Parse.Text, nil
}
