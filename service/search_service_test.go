package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
)

type fakeSocietyFetcher struct {
	mu      sync.Mutex
	pages   map[string][]models.Society
	err     error
	calls   []string
	blockOn map[string]chan struct{}
}

func societyKey(query string, page int) string {
	return fmt.Sprintf("%s/%d", query, page)
}

func (f *fakeSocietyFetcher) FetchSocieties(ctx context.Context, query string, page int) ([]models.Society, error) {
	key := societyKey(query, page)
	f.mu.Lock()
	f.calls = append(f.calls, key)
	block := f.blockOn[key]
	err := f.err
	rows := f.pages[key]
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func societies(names ...string) []models.Society {
	out := make([]models.Society, 0, len(names))
	for _, name := range names {
		out = append(out, models.Society{ID: "id-" + name, Name: name})
	}
	return out
}

func TestSearchSetTextRestartsFromPageOne(t *testing.T) {
	fetch := &fakeSocietyFetcher{pages: map[string][]models.Society{
		societyKey("gr", 1):   societies("Green Meadows", "Green Park"),
		societyKey("gree", 1): societies("Green Meadows"),
	}}
	var forwarded []string
	search := NewSocietySearch(fetch, func(text string) { forwarded = append(forwarded, text) }, logger.NewNop())
	ctx := context.Background()

	search.SetText(ctx, "gr")
	assert.Len(t, search.Results(), 2)
	assert.True(t, search.IsOpen())

	search.SetText(ctx, "gree")
	assert.Len(t, search.Results(), 1)
	assert.Equal(t, []string{"gr", "gree"}, forwarded, "raw text forwards on every change")
}

func TestSearchFocusLoadsUnfilteredFirstPage(t *testing.T) {
	fetch := &fakeSocietyFetcher{pages: map[string][]models.Society{
		societyKey("", 1): societies("Green Meadows", "Sobha One"),
	}}
	search := NewSocietySearch(fetch, nil, logger.NewNop())

	search.Focus(context.Background())
	assert.Len(t, search.Results(), 2)
	assert.True(t, search.IsOpen())
	assert.Empty(t, search.Text())
}

func TestSearchMoreAppendsUntilEmptyPage(t *testing.T) {
	fetch := &fakeSocietyFetcher{pages: map[string][]models.Society{
		societyKey("so", 1): societies("Sobha One", "Sobha Two"),
		societyKey("so", 2): societies("Sobha Three"),
		// page 3 is absent: an empty page ends the list
	}}
	search := NewSocietySearch(fetch, nil, logger.NewNop())
	ctx := context.Background()

	search.SetText(ctx, "so")
	search.More(ctx)
	assert.Len(t, search.Results(), 3)
	assert.True(t, search.HasMore())

	search.More(ctx)
	assert.Len(t, search.Results(), 3)
	assert.False(t, search.HasMore(), "empty page marks the end")

	before := len(fetch.calls)
	search.More(ctx)
	assert.Len(t, fetch.calls, before, "no fetch after the end of the list")
}

func TestSearchLatestRestartWins(t *testing.T) {
	block := make(chan struct{})
	fetch := &fakeSocietyFetcher{
		pages: map[string][]models.Society{
			societyKey("ac", 1):  societies("Acme Stale", "Acme Old"),
			societyKey("ace", 1): societies("Ace Residency"),
		},
		blockOn: map[string]chan struct{}{societyKey("ac", 1): block},
	}
	search := NewSocietySearch(fetch, nil, logger.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		search.SetText(ctx, "ac") // blocks inside the fetch
	}()

	require.Eventually(t, func() bool {
		fetch.mu.Lock()
		defer fetch.mu.Unlock()
		return len(fetch.calls) == 1
	}, time.Second, 5*time.Millisecond)

	search.SetText(ctx, "ace") // completes first
	close(block)               // stale response arrives late
	wg.Wait()

	names := search.Results()
	require.Len(t, names, 1)
	assert.Equal(t, "Ace Residency", names[0].Name, "stale response must be discarded")
	assert.Equal(t, "ace", search.Text())
}

func TestSearchSelectAdoptsNameAndCloses(t *testing.T) {
	fetch := &fakeSocietyFetcher{pages: map[string][]models.Society{
		societyKey("gr", 1): societies("Green Meadows"),
	}}
	var forwarded []string
	search := NewSocietySearch(fetch, func(text string) { forwarded = append(forwarded, text) }, logger.NewNop())
	ctx := context.Background()

	search.SetText(ctx, "gr")
	picked := search.Results()[0]
	search.Select(picked)

	assert.False(t, search.IsOpen())
	assert.Empty(t, search.Results())
	assert.Equal(t, "Green Meadows", search.Text())
	assert.Equal(t, []string{"gr", "Green Meadows"}, forwarded)
}

func TestSearchFetchErrorKeepsResults(t *testing.T) {
	fetch := &fakeSocietyFetcher{pages: map[string][]models.Society{
		societyKey("gr", 1): societies("Green Meadows"),
	}}
	search := NewSocietySearch(fetch, nil, logger.NewNop())
	ctx := context.Background()

	search.SetText(ctx, "gr")
	require.Len(t, search.Results(), 1)

	fetch.mu.Lock()
	fetch.err = errors.New("network down")
	fetch.mu.Unlock()

	search.More(ctx)
	assert.Len(t, search.Results(), 1, "failed page leaves the list unchanged")
	assert.True(t, search.HasMore(), "a failure is not the end of the list")
}

func TestSearchEmptyTextClosesWithoutClearing(t *testing.T) {
	fetch := &fakeSocietyFetcher{pages: map[string][]models.Society{
		societyKey("gr", 1): societies("Green Meadows"),
	}}
	search := NewSocietySearch(fetch, nil, logger.NewNop())
	ctx := context.Background()

	search.SetText(ctx, "gr")
	before := len(fetch.calls)

	search.SetText(ctx, "")
	assert.False(t, search.IsOpen())
	assert.Len(t, search.Results(), 1, "previous results survive an empty query")
	assert.Len(t, fetch.calls, before, "empty query never hits the network")
}

func TestSearchResetClearsEverything(t *testing.T) {
	fetch := &fakeSocietyFetcher{pages: map[string][]models.Society{
		societyKey("gr", 1): societies("Green Meadows"),
	}}
	search := NewSocietySearch(fetch, nil, logger.NewNop())

	search.SetText(context.Background(), "gr")
	search.Reset()

	assert.False(t, search.IsOpen())
	assert.Empty(t, search.Results())
	assert.Empty(t, search.Text())
}
