package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ImageResult is one ranked hit from a Commons full-text media search.
type ImageResult struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url"`
}

type commonsSearchResponse struct {
	Query struct {
		Pages map[string]struct {
			Index     int    `json:"index"`
			Title     string `json:"title"`
			ImageInfo []struct {
				URL string `json:"url"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

// SearchImages runs a full-text file search on Commons for label and
// returns up to limit ranked results with thumbnails rendered at
// thumbWidth pixels. An empty slice is a valid response.
func (c *Client) SearchImages(ctx context.Context, label string, limit, thumbWidth int) ([]ImageResult, error) {
	if limit <= 0 {
		limit = 6
	}
	if thumbWidth <= 0 {
		thumbWidth = 400
	}

	u := fmt.Sprintf("%s?action=query&generator=search&gsrsearch=%s&gsrnamespace=6&gsrlimit=%d&prop=imageinfo&iiprop=url&format=json",
		c.commonsAPI, url.QueryEscape("File:"+label), limit)

	var parsed commonsSearchResponse
	if err := c.getJSON(ctx, u, "", &parsed); err != nil {
		return nil, fmt.Errorf("commons search for %q failed: %w", label, err)
	}

	results := make([]ImageResult, 0, len(parsed.Query.Pages))
	for _, page := range parsed.Query.Pages {
		if len(page.ImageInfo) == 0 {
			continue
		}
		fileURL := page.ImageInfo[0].URL
		results = append(results, ImageResult{
			Title:    page.Title,
			URL:      fileURL,
			ThumbURL: c.ThumbnailURL(fileURL, thumbWidth),
		})
	}
	// The pages map is unordered; index carries the search ranking.
	sort.Slice(results, func(i, j int) bool {
		return pageIndex(parsed, results[i].Title) < pageIndex(parsed, results[j].Title)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func pageIndex(resp commonsSearchResponse, title string) int {
	for _, page := range resp.Query.Pages {
		if page.Title == title {
			return page.Index
		}
	}
	return 0
}

// ThumbnailURL derives a width-constrained rendering of a Commons file URL
// via Special:FilePath. Returns "" for an empty source URL.
func (c *Client) ThumbnailURL(fileURL string, width int) string {
	if fileURL == "" {
		return ""
	}
	fileName := fileURL
	if idx := strings.LastIndex(fileURL, "/"); idx != -1 {
		fileName = fileURL[idx+1:]
	}
	return fmt.Sprintf("%s%s?width=%d", c.commonsFilePath, fileName, width)
}

type geoshapeResponse struct {
	Query struct {
		Pages map[string]struct {
			Revisions []struct {
				Content string `json:"*"`
			} `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

// Geoshape fetches the GeoJSON content behind a Commons geoshape data URL
// such as http://commons.wikimedia.org/data/main/Data:Kerala/Kollam.map.
// The raw map document is returned undecoded; rendering is the caller's
// concern.
func (c *Client) Geoshape(ctx context.Context, geoshapeURL string) (json.RawMessage, error) {
	idx := strings.Index(geoshapeURL, "/data/main/")
	if idx == -1 {
		return nil, fmt.Errorf("unrecognized geoshape url %q", geoshapeURL)
	}
	title := geoshapeURL[idx+len("/data/main/"):]
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}

	u := fmt.Sprintf("%s?action=query&format=json&prop=revisions&rvprop=content&titles=%s",
		c.commonsAPI, url.QueryEscape(title))

	var parsed geoshapeResponse
	if err := c.getJSON(ctx, u, "", &parsed); err != nil {
		return nil, fmt.Errorf("geoshape fetch for %q failed: %w", title, err)
	}

	for id, page := range parsed.Query.Pages {
		if id == "-1" || len(page.Revisions) == 0 {
			continue
		}
		content := page.Revisions[0].Content
		if !json.Valid([]byte(content)) {
			return nil, fmt.Errorf("geoshape %q is not valid JSON", title)
		}
		return json.RawMessage(content), nil
	}
	return nil, ErrNotFound
}
