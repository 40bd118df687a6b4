package musicbrainz_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juho05/harmonia-server/musicbrainz"
	"github.com/juho05/harmonia-server/util"
)

func TestSearchRecording(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recording", r.URL.Path)
		assert.Equal(t, `recording:"One More Time" AND artist:"Daft Punk"`, r.URL.Query().Get("query"))
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		fmt.Fprint(w, `{"recordings":[{"title":"One More Time","artist-credit":[{"name":"Daft Punk"}],"releases":[{"title":"Discovery"}]}]}`)
	}))
	defer server.Close()

	client := musicbrainz.NewClient(server.URL)
	rec, err := client.SearchRecording(t.Context(), "One More Time", util.ToPtr("Daft Punk"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "One More Time", rec.Title)
	assert.Equal(t, "Daft Punk", rec.Artist())
	assert.Equal(t, "Discovery", rec.Release())
}

func TestSearchRecordingWithoutArtist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `recording:"One More Time"`, r.URL.Query().Get("query"))
		fmt.Fprint(w, `{"recordings":[]}`)
	}))
	defer server.Close()

	client := musicbrainz.NewClient(server.URL)
	rec, err := client.SearchRecording(t.Context(), "One More Time", nil)
	require.NoError(t, err)
	assert.Nil(t, rec)
}
