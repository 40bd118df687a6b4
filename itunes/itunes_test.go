package itunes_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juho05/harmonia-server/itunes"
)

func TestSearchSong(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Daft Punk One More Time", r.URL.Query().Get("term"))
		assert.Equal(t, "song", r.URL.Query().Get("entity"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"resultCount":1,"results":[{"trackName":"One More Time","artistName":"Daft Punk","collectionName":"Discovery","artworkUrl100":"https://img.example/a/100x100bb.jpg"}]}`)
	}))
	defer server.Close()

	client := itunes.NewClient(server.URL)
	track, err := client.SearchSong(t.Context(), "Daft Punk One More Time")
	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "One More Time", track.TrackName)
	assert.Equal(t, "Daft Punk", track.ArtistName)
	assert.Equal(t, "Discovery", track.CollectionName)
}

func TestSearchSongNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resultCount":0,"results":[]}`)
	}))
	defer server.Close()

	client := itunes.NewClient(server.URL)
	track, err := client.SearchSong(t.Context(), "nothing matches this")
	require.NoError(t, err)
	assert.Nil(t, track)
}

func TestSearchArtistAlbumsClampsLimit(t *testing.T) {
	var gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		assert.Equal(t, "album", r.URL.Query().Get("entity"))
		assert.Equal(t, "artistTerm", r.URL.Query().Get("attribute"))
		fmt.Fprint(w, `{"resultCount":0,"results":[]}`)
	}))
	defer server.Close()

	client := itunes.NewClient(server.URL)

	_, err := client.SearchArtistAlbums(t.Context(), "Daft Punk", 500)
	require.NoError(t, err)
	assert.Equal(t, "100", gotLimit)

	_, err = client.SearchArtistAlbums(t.Context(), "Daft Punk", 0)
	require.NoError(t, err)
	assert.Equal(t, "1", gotLimit)
}

func TestUpgradeArtworkURL(t *testing.T) {
	assert.Equal(t,
		"https://img.example/a/600x600bb.jpg",
		itunes.UpgradeArtworkURL("https://img.example/a/100x100bb.jpg"))
	assert.Equal(t, "https://img.example/a/cover.jpg", itunes.UpgradeArtworkURL("https://img.example/a/cover.jpg"))
}
