package lrclib_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juho05/harmonia-server/lrclib"
)

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get", r.URL.Path)
		assert.Equal(t, "Daft Punk", r.URL.Query().Get("artist_name"))
		assert.Equal(t, "One More Time", r.URL.Query().Get("track_name"))
		assert.Equal(t, "Discovery", r.URL.Query().Get("album_name"))
		assert.Equal(t, "320", r.URL.Query().Get("duration"))
		fmt.Fprint(w, `{"trackName":"One More Time","artistName":"Daft Punk","albumName":"Discovery","duration":320,"plainLyrics":"One more time...","syncedLyrics":"[00:00.40]One more time..."}`)
	}))
	defer server.Close()

	client := lrclib.NewClient(server.URL)
	lyrics, err := client.Get(t.Context(), "Daft Punk", "One More Time", "Discovery", 320)
	require.NoError(t, err)
	require.NotNil(t, lyrics)
	assert.True(t, lyrics.HasSynced())
	assert.True(t, lyrics.HasPlain())
	assert.Equal(t, "[00:00.40]One more time...", *lyrics.SyncedLyrics)
}

func TestGetOmitsEmptyParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("album_name"))
		assert.False(t, r.URL.Query().Has("duration"))
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := lrclib.NewClient(server.URL)
	lyrics, err := client.Get(t.Context(), "Daft Punk", "One More Time", "", 0)
	require.NoError(t, err)
	assert.Nil(t, lyrics)
}

func TestHasSyncedIgnoresWhitespace(t *testing.T) {
	empty := "  \n"
	lyrics := lrclib.Lyrics{SyncedLyrics: &empty}
	assert.False(t, lyrics.HasSynced())
	assert.False(t, lyrics.HasPlain())
}
