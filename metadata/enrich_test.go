package metadata

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	harmonia "github.com/juho05/harmonia-server"
	"github.com/juho05/harmonia-server/repos"
	"github.com/juho05/harmonia-server/repos/mockdb"
	"github.com/juho05/harmonia-server/script"
	"github.com/juho05/harmonia-server/util"
)

type fakeProvider struct {
	name   string
	search func(ctx context.Context, title string, artist *string) (*Result, error)
}

func (p fakeProvider) Name() string { return p.name }
func (p fakeProvider) Search(ctx context.Context, title string, artist *string) (*Result, error) {
	return p.search(ctx, title, artist)
}

type fetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

func testItem() *repos.Item {
	return &repos.Item{
		ID:       "it_test00000001",
		Path:     "/music/track01.mp3",
		Title:    "track01",
		Artist:   "未知艺术家",
		Album:    "Unknown Album",
		Duration: repos.DurationMS(200 * time.Second),
	}
}

func newTestEnricher(t *testing.T, db *mockdb.DB, providers ...Provider) *Enricher {
	t.Helper()
	store, err := NewArtworkStore(t.TempDir())
	require.NoError(t, err)
	e := NewEnricher(db, store, script.Passthrough{}, providers...)
	e.fetcher = fetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte("image-bytes"), nil
	})
	return e
}

func collectUpdates(item *repos.Item, updates *[]repos.UpdateItemParams) *mockdb.DB {
	var mu sync.Mutex
	return &mockdb.DB{
		ItemRepository: mockdb.ItemRepository{
			FindByIDMock: func(ctx context.Context, id string) (*repos.Item, error) {
				return item, nil
			},
			UpdateMock: func(ctx context.Context, id string, params repos.UpdateItemParams) error {
				mu.Lock()
				defer mu.Unlock()
				*updates = append(*updates, params)
				return nil
			},
		},
		SettingRepository: mockdb.SettingRepository{},
	}
}

func TestEnrichFillsUnknownFields(t *testing.T) {
	item := testItem()
	var updates []repos.UpdateItemParams
	db := collectUpdates(item, &updates)

	provider := fakeProvider{name: "itunes", search: func(ctx context.Context, title string, artist *string) (*Result, error) {
		assert.Equal(t, "track01", title)
		assert.Nil(t, artist)
		return &Result{
			Title:      "One More Time",
			Artist:     "Daft Punk",
			Album:      "Discovery",
			ArtworkURL: "https://img.example/600x600bb.jpg",
		}, nil
	}}

	e := newTestEnricher(t, db, provider)
	e.Enrich(t.Context(), item.ID, harmonia.ReasonImportFile)

	require.Len(t, updates, 2)
	// first update records the attempt before the search
	assert.True(t, updates[0].LastMetadataAttemptAt.HasValue())
	assert.False(t, updates[0].Title.HasValue())

	final := updates[1]
	assert.Equal(t, "One More Time", final.Title.GetOrZero())
	assert.Equal(t, "Daft Punk", final.Artist.GetOrZero())
	assert.Equal(t, "Discovery", final.Album.GetOrZero())
	assert.True(t, final.HasArtwork.GetOrZero())
	assert.Equal(t, "https://img.example/600x600bb.jpg", *final.ArtworkURL.GetOrZero())
	assert.Equal(t, "itunes", *final.MetadataSource.GetOrZero())
	assert.True(t, final.LastEnrichedAt.HasValue())
	assert.True(t, e.store.Exists(item.ID))
}

func TestEnrichKeepsDissimilarTrustedValues(t *testing.T) {
	item := testItem()
	item.Title = "One More Time"
	item.Artist = "Real Artist"
	item.Album = "Discovery"

	var updates []repos.UpdateItemParams
	db := collectUpdates(item, &updates)

	provider := fakeProvider{name: "itunes", search: func(ctx context.Context, title string, artist *string) (*Result, error) {
		require.NotNil(t, artist)
		assert.Equal(t, "Real Artist", *artist)
		return &Result{Title: "One More Time", Artist: "Real Artist Band", Album: "Discovery"}, nil
	}}

	e := newTestEnricher(t, db, provider)
	e.Enrich(t.Context(), item.ID, harmonia.ReasonPlayback)

	// only the attempt stamp gets written
	require.Len(t, updates, 1)
	assert.True(t, updates[0].LastMetadataAttemptAt.HasValue())
	assert.False(t, updates[0].Artist.HasValue())
}

func TestEnrichSkipsCompleteItems(t *testing.T) {
	item := testItem()
	item.Title = "One More Time"
	item.Artist = "Daft Punk"
	item.Album = "Discovery"
	item.HasArtwork = true

	var updates []repos.UpdateItemParams
	db := collectUpdates(item, &updates)

	searched := false
	provider := fakeProvider{name: "itunes", search: func(ctx context.Context, title string, artist *string) (*Result, error) {
		searched = true
		return nil, nil
	}}

	e := newTestEnricher(t, db, provider)
	e.Enrich(t.Context(), item.ID, harmonia.ReasonPlayback)

	assert.False(t, searched)
	assert.Empty(t, updates)
}

func TestEnrichRespectsCacheInterval(t *testing.T) {
	item := testItem()
	item.LastMetadataAttemptAt = util.ToPtr(time.Now().Add(-time.Hour))

	var updates []repos.UpdateItemParams
	db := collectUpdates(item, &updates)

	searched := false
	provider := fakeProvider{name: "itunes", search: func(ctx context.Context, title string, artist *string) (*Result, error) {
		searched = true
		return nil, nil
	}}

	e := newTestEnricher(t, db, provider)
	e.Enrich(t.Context(), item.ID, harmonia.ReasonPlayback)

	assert.False(t, searched)
	assert.Empty(t, updates)

	// manual requests bypass the interval
	e.Enrich(t.Context(), item.ID, harmonia.ReasonManual)
	assert.True(t, searched)
	require.Len(t, updates, 1)
	assert.True(t, updates[0].LastMetadataAttemptAt.HasValue())
}

func TestEnrichRecordsArtworkURLWithoutEnrichmentStamp(t *testing.T) {
	item := testItem()
	item.Title = "One More Time"
	item.Artist = "Daft Punk"
	item.Album = "Discovery"

	var updates []repos.UpdateItemParams
	db := collectUpdates(item, &updates)

	provider := fakeProvider{name: "itunes", search: func(ctx context.Context, title string, artist *string) (*Result, error) {
		return &Result{
			Title:      "One More Time",
			Artist:     "Daft Punk",
			Album:      "Discovery",
			ArtworkURL: "https://img.example/600x600bb.jpg",
		}, nil
	}}

	e := newTestEnricher(t, db, provider)
	e.fetcher = fetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		return nil, assert.AnError
	})
	e.Enrich(t.Context(), item.ID, harmonia.ReasonImportFile)

	require.Len(t, updates, 2)
	// the URL memo is written so a later run can retry the download,
	// but it does not count as an enrichment
	final := updates[1]
	assert.Equal(t, "https://img.example/600x600bb.jpg", *final.ArtworkURL.GetOrZero())
	assert.False(t, final.HasArtwork.HasValue())
	assert.False(t, final.LastEnrichedAt.HasValue())
	assert.False(t, final.MetadataSource.HasValue())
}

func TestEnrichStampsAttemptWithoutMatch(t *testing.T) {
	item := testItem()
	var updates []repos.UpdateItemParams
	db := collectUpdates(item, &updates)

	provider := fakeProvider{name: "itunes", search: func(ctx context.Context, title string, artist *string) (*Result, error) {
		return nil, nil
	}}

	e := newTestEnricher(t, db, provider)
	e.Enrich(t.Context(), item.ID, harmonia.ReasonImportFile)

	require.Len(t, updates, 1)
	assert.True(t, updates[0].LastMetadataAttemptAt.HasValue())
	assert.False(t, updates[0].LastEnrichedAt.HasValue())
}

func TestEnrichFallsBackToNextProvider(t *testing.T) {
	item := testItem()
	var updates []repos.UpdateItemParams
	db := collectUpdates(item, &updates)

	failing := fakeProvider{name: "itunes", search: func(ctx context.Context, title string, artist *string) (*Result, error) {
		return nil, assert.AnError
	}}
	working := fakeProvider{name: "musicbrainz", search: func(ctx context.Context, title string, artist *string) (*Result, error) {
		return &Result{Title: "One More Time", Artist: "Daft Punk"}, nil
	}}

	e := newTestEnricher(t, db, failing, working)
	e.Enrich(t.Context(), item.ID, harmonia.ReasonImportFile)

	require.Len(t, updates, 2)
	assert.Equal(t, "musicbrainz", *updates[1].MetadataSource.GetOrZero())
}

func TestEnrichCoalescesConcurrentRequests(t *testing.T) {
	item := testItem()

	var searches atomic.Int32
	release := make(chan struct{})
	provider := fakeProvider{name: "itunes", search: func(ctx context.Context, title string, artist *string) (*Result, error) {
		searches.Add(1)
		<-release
		return nil, nil
	}}

	var updates []repos.UpdateItemParams
	db := collectUpdates(item, &updates)

	e := newTestEnricher(t, db, provider)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Enrich(context.Background(), item.ID, harmonia.ReasonManual)
		}()
	}
	// let all goroutines reach the coalescer before releasing the search
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), searches.Load())
}

func TestEnrichConvertsTraditionalResults(t *testing.T) {
	item := testItem()
	var updates []repos.UpdateItemParams
	db := collectUpdates(item, &updates)

	provider := fakeProvider{name: "itunes", search: func(ctx context.Context, title string, artist *string) (*Result, error) {
		return &Result{Title: "愛樂"}, nil
	}}

	store, err := NewArtworkStore(t.TempDir())
	require.NoError(t, err)
	normalizer := script.Table{ToSimp: map[rune]rune{'愛': '爱', '樂': '乐'}}
	e := NewEnricher(db, store, normalizer, provider)

	e.Enrich(t.Context(), item.ID, harmonia.ReasonImportFile)

	require.Len(t, updates, 2)
	assert.Equal(t, "爱乐", updates[1].Title.GetOrZero())
}
