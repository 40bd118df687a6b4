package metadata

import (
	"context"
	"strings"

	"github.com/juho05/harmonia-server/itunes"
	"github.com/juho05/harmonia-server/musicbrainz"
)

// Result is a provider match for a library item. Empty fields mean the
// provider had no value for them.
type Result struct {
	Title      string
	Artist     string
	Album      string
	ArtworkURL string

	// Source is set by the enricher to the name of the provider that
	// produced the result.
	Source string
}

func (r Result) empty() bool {
	return r.Title == "" && r.Artist == "" && r.Album == "" && r.ArtworkURL == ""
}

// Provider looks up metadata for a song. Implementations return nil
// without error when nothing matches.
type Provider interface {
	Name() string
	Search(ctx context.Context, title string, artist *string) (*Result, error)
}

// ITunesProvider adapts the iTunes Search API.
type ITunesProvider struct {
	Client *itunes.Client
}

func (p ITunesProvider) Name() string {
	return "itunes"
}

func (p ITunesProvider) Search(ctx context.Context, title string, artist *string) (*Result, error) {
	term := title
	if artist != nil {
		term = strings.TrimSpace(*artist + " " + title)
	}
	track, err := p.Client.SearchSong(ctx, term)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, nil
	}
	return &Result{
		Title:      track.TrackName,
		Artist:     track.ArtistName,
		Album:      track.CollectionName,
		ArtworkURL: itunes.UpgradeArtworkURL(track.ArtworkURL100),
	}, nil
}

// MusicBrainzProvider adapts the MusicBrainz web service. It never yields
// artwork.
type MusicBrainzProvider struct {
	Client *musicbrainz.Client
}

func (p MusicBrainzProvider) Name() string {
	return "musicbrainz"
}

func (p MusicBrainzProvider) Search(ctx context.Context, title string, artist *string) (*Result, error) {
	recording, err := p.Client.SearchRecording(ctx, title, artist)
	if err != nil {
		return nil, err
	}
	if recording == nil {
		return nil, nil
	}
	return &Result{
		Title:  recording.Title,
		Artist: recording.Artist(),
		Album:  recording.Release(),
	}, nil
}
