package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataClient_LookupISBN(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems":1,"items":[{"volumeInfo":{
			"title":"Dune","subtitle":"Deluxe Edition","authors":["Frank Herbert"],
			"description":"  Desert planet.  ",
			"industryIdentifiers":[{"type":"ISBN_10","identifier":"0441013597"},{"type":"ISBN_13","identifier":"9780441013593"}]}}]}`))
	}))
	defer srv.Close()

	meta, err := NewMetadataClient(srv.URL).LookupISBN(context.Background(), "0-441-01359-7")
	require.NoError(t, err)
	assert.Equal(t, "isbn:0441013597", gotQuery)
	assert.Equal(t, "Dune: Deluxe Edition", meta.Title)
	assert.Equal(t, "Desert planet.", meta.Summary)
	assert.Equal(t, "9780441013593", meta.ISBN)
	assert.Equal(t, []string{"Frank Herbert"}, meta.Authors)
}

func TestMetadataClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		noVol  bool
		msg    string
	}{
		{"no volume", http.StatusOK, `{"totalItems":0}`, true, "no volume found"},
		{"upstream error", http.StatusServiceUnavailable, ``, false, "google books returned 503"},
		{"bad json", http.StatusOK, `{`, false, "decode volumes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewMetadataClient(srv.URL).LookupISBN(context.Background(), "123")
			require.Error(t, err)
			assert.Equal(t, tt.noVol, errors.Is(err, ErrNoVolume))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := NewMetadataClient("http://unused").LookupISBN(context.Background(), " - ")
	assert.Error(t, err)
}
