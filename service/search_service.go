package service

import (
	"context"
	"sync"

	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
)

// SocietyFetcher is the remote collaborator behind the typeahead.
type SocietyFetcher interface {
	FetchSocieties(ctx context.Context, query string, page int) ([]models.Society, error)
}

// SocietySearch is the incremental search dropdown. Focus and text changes
// restart pagination from page 1, reaching the end of the list appends the
// next page. A generation counter makes the latest restart win: responses
// from an older restart are discarded.
type SocietySearch struct {
	mu      sync.Mutex
	fetch   SocietyFetcher
	log     logger.ILogger
	onValue func(text string)

	text    string
	page    int
	results []models.Society
	open    bool
	hasMore bool
	loading bool
	gen     uint64
}

func NewSocietySearch(fetch SocietyFetcher, onValue func(text string), log logger.ILogger) *SocietySearch {
	return &SocietySearch{
		fetch:   fetch,
		log:     log,
		onValue: onValue,
		page:    1,
		hasMore: true,
	}
}

// Focus restarts pagination with the current text, including the empty
// query (an unfiltered first page).
func (s *SocietySearch) Focus(ctx context.Context) {
	s.restart(ctx)
}

// SetText forwards the raw text upward regardless of fetch outcome, then
// restarts pagination. The empty string closes the dropdown but keeps the
// previous results to avoid a "no results" flash mid-edit.
func (s *SocietySearch) SetText(ctx context.Context, text string) {
	s.mu.Lock()
	s.text = text
	if text == "" {
		s.open = false
		s.mu.Unlock()
		if s.onValue != nil {
			s.onValue(text)
		}
		return
	}
	s.mu.Unlock()

	if s.onValue != nil {
		s.onValue(text)
	}
	s.restart(ctx)
}

func (s *SocietySearch) restart(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	query := s.text
	s.page = 1
	s.hasMore = true
	s.loading = true
	s.mu.Unlock()

	rows, err := s.fetch.FetchSocieties(ctx, query, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// A newer restart or reset superseded this response.
		return
	}
	s.loading = false
	if err != nil {
		s.log.Error("society search failed", logger.Error(err), logger.String("query", query))
		return
	}
	s.results = rows
	s.open = true
	s.hasMore = len(rows) > 0
}

// More appends the next page. Skipped while a fetch is in flight or after
// an empty page ended the list; duplicates are not filtered here, the
// server does not repeat rows within one query.
func (s *SocietySearch) More(ctx context.Context) {
	s.mu.Lock()
	if s.loading || !s.hasMore || !s.open {
		s.mu.Unlock()
		return
	}
	gen := s.gen
	query := s.text
	next := s.page + 1
	s.loading = true
	s.mu.Unlock()

	rows, err := s.fetch.FetchSocieties(ctx, query, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.loading = false
	if err != nil {
		s.log.Error("society search page failed", logger.Error(err), logger.String("query", query), logger.Int("page", next))
		return
	}
	if len(rows) == 0 {
		s.hasMore = false
		return
	}
	s.results = append(s.results, rows...)
	s.page = next
}

// Select adopts the item's display name as the text, forwards it, closes
// the dropdown and drops the backing list. The next focus restarts clean.
func (s *SocietySearch) Select(item models.Society) {
	s.mu.Lock()
	s.gen++
	s.text = item.Name
	s.results = nil
	s.open = false
	s.page = 1
	s.hasMore = true
	s.loading = false
	s.mu.Unlock()

	if s.onValue != nil {
		s.onValue(item.Name)
	}
}

// Reset clears everything and collapses the dropdown immediately.
func (s *SocietySearch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.text = ""
	s.results = nil
	s.open = false
	s.page = 1
	s.hasMore = true
	s.loading = false
}

func (s *SocietySearch) Results() []models.Society {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Society, len(s.results))
	copy(out, s.results)
	return out
}

func (s *SocietySearch) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *SocietySearch) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

func (s *SocietySearch) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}
