package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

// ErrNoVolume is returned when the ISBN matches nothing.
var ErrNoVolume = errors.New("no volume found")

type volumesResp struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title               string   `json:"title"`
			Subtitle            string   `json:"subtitle"`
			Authors             []string `json:"authors"`
			Publisher           string   `json:"publisher"`
			PublishedDate       string   `json:"publishedDate"`
			Description         string   `json:"description"`
			Categories          []string `json:"categories"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// BookMetadata is what the book form can be prefilled with.
type BookMetadata struct {
	Title       string
	Authors     []string
	Publisher   string
	PublishDate string
	ISBN        string
	Summary     string
	Categories  []string
}

// MetadataClient looks books up in the Google Books volumes API.
type MetadataClient struct {
	base   string
	client *http.Client
}

// NewMetadataClient talks to base, or to Google Books when base is empty.
func NewMetadataClient(base string) *MetadataClient {
	if base == "" {
		base = googleBooksBase
	}
	// short timeout so a hung lookup doesn't hold the form
	return &MetadataClient{base: base, client: &http.Client{Timeout: 10 * time.Second}}
}

// LookupISBN accepts ISBNs with or without hyphens.
func (c *MetadataClient) LookupISBN(ctx context.Context, isbn string) (*BookMetadata, error) {
	isbn = strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	if isbn == "" {
		return nil, errors.New("isbn is required")
	}
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "google books")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("google books returned %d", resp.StatusCode)
	}
	var data volumesResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errors.Wrap(err, "decode volumes")
	}
	if data.TotalItems == 0 || len(data.Items) == 0 {
		return nil, errors.Wrapf(ErrNoVolume, "isbn %s", isbn)
	}

	vi := data.Items[0].VolumeInfo
	meta := &BookMetadata{
		Title:       vi.Title,
		Authors:     vi.Authors,
		Publisher:   vi.Publisher,
		PublishDate: vi.PublishedDate,
		Categories:  vi.Categories,
		Summary:     strings.TrimSpace(vi.Description),
		ISBN:        isbn,
	}
	if vi.Subtitle != "" {
		meta.Title += ": " + vi.Subtitle
	}
	// prefer ISBN-13 over whatever was typed
	for _, id := range vi.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			meta.ISBN = id.Identifier
			break
		}
	}
	return meta, nil
}
