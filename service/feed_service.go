package service

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"promoterbot/pkg/logger"
	"promoterbot/pkg/models"
)

type Scope string

const (
	ScopeToday Scope = "today"
	ScopeAll   Scope = "all"
)

type EntryPage struct {
	Items      []models.Entry
	TotalCount int
}

// EntryFetcher is the remote collaborator behind the dashboard feed.
type EntryFetcher interface {
	FetchPage(ctx context.Context, scope Scope, page int) (EntryPage, error)
}

// FeedKeys are the session values a load cannot run without.
type FeedKeys struct {
	PromoterID    string
	ActivityLocID string
}

func (k FeedKeys) resolved() bool {
	return k.PromoterID != "" && k.ActivityLocID != ""
}

// EntryFeed accumulates the dashboard entry lists, one independent cursor
// per scope. Pages merge without duplicating entry IDs; the server's
// reported total count is the only source of truth for "has more". At most
// one fetch per scope is in flight at a time, a load issued meanwhile is
// dropped, not queued.
type EntryFeed struct {
	mu      sync.Mutex
	fetch   EntryFetcher
	log     logger.ILogger
	keys    FeedKeys
	pending map[Scope]bool
	scopes  map[Scope]*scopeState
}

type scopeState struct {
	page       int
	items      []models.Entry
	seen       map[string]struct{}
	totalCount int
	loaded     bool
	loading    bool
}

func NewEntryFeed(fetch EntryFetcher, log logger.ILogger) *EntryFeed {
	return &EntryFeed{
		fetch:   fetch,
		log:     log,
		pending: make(map[Scope]bool),
		scopes: map[Scope]*scopeState{
			ScopeToday: {seen: make(map[string]struct{})},
			ScopeAll:   {seen: make(map[string]struct{})},
		},
	}
}

// Bind provides the session keys. Loads requested before the keys resolve
// are recorded and re-attempted by Flush.
func (f *EntryFeed) Bind(keys FeedKeys) {
	f.mu.Lock()
	f.keys = keys
	f.mu.Unlock()
}

// Flush re-attempts loads that were dropped for missing keys.
func (f *EntryFeed) Flush(ctx context.Context) error {
	f.mu.Lock()
	var scopes []Scope
	for scope := range f.pending {
		scopes = append(scopes, scope)
	}
	f.mu.Unlock()

	for _, scope := range scopes {
		if err := f.Refresh(ctx, scope); err != nil {
			return err
		}
	}
	return nil
}

// Refresh fetches page 1 of a scope and replaces its accumulated list.
// Loading is lazy: the bot calls Refresh the first time a tab is shown.
func (f *EntryFeed) Refresh(ctx context.Context, scope Scope) error {
	f.mu.Lock()
	st, ok := f.scopes[scope]
	if !ok {
		f.mu.Unlock()
		return errors.Errorf("unknown feed scope %q", scope)
	}
	if !f.keys.resolved() {
		f.pending[scope] = true
		f.mu.Unlock()
		return nil
	}
	if st.loading {
		f.mu.Unlock()
		return nil
	}
	st.loading = true
	f.mu.Unlock()

	page, err := f.fetch.FetchPage(ctx, scope, 1)

	f.mu.Lock()
	defer f.mu.Unlock()
	st.loading = false
	if err != nil {
		return errors.Wrap(err, "failed to load entries")
	}

	st.items = nil
	st.seen = make(map[string]struct{})
	appendUnique(st, page.Items)
	st.page = 1
	st.totalCount = page.TotalCount
	st.loaded = true
	delete(f.pending, scope)
	return nil
}

// LoadMore fetches the next page of a scope and appends entries not already
// present. The cursor only advances on success, so a failed load is
// retryable by calling LoadMore again.
func (f *EntryFeed) LoadMore(ctx context.Context, scope Scope) error {
	f.mu.Lock()
	st, ok := f.scopes[scope]
	if !ok {
		f.mu.Unlock()
		return errors.Errorf("unknown feed scope %q", scope)
	}
	if !f.keys.resolved() {
		f.pending[scope] = true
		f.mu.Unlock()
		return nil
	}
	if !st.loaded {
		f.mu.Unlock()
		return f.Refresh(ctx, scope)
	}
	if st.loading {
		f.mu.Unlock()
		return nil
	}
	if st.totalCount <= len(st.items) {
		f.mu.Unlock()
		return nil
	}
	next := st.page + 1
	st.loading = true
	f.mu.Unlock()

	page, err := f.fetch.FetchPage(ctx, scope, next)

	f.mu.Lock()
	defer f.mu.Unlock()
	st.loading = false
	if err != nil {
		return errors.Wrap(err, "failed to load more entries")
	}

	appendUnique(st, page.Items)
	st.page = next
	st.totalCount = page.TotalCount
	return nil
}

func appendUnique(st *scopeState, items []models.Entry) {
	for _, item := range items {
		if _, dup := st.seen[item.ID]; dup {
			continue
		}
		st.seen[item.ID] = struct{}{}
		st.items = append(st.items, item)
	}
}

func (f *EntryFeed) Items(scope Scope) []models.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.scopes[scope]
	out := make([]models.Entry, len(st.items))
	copy(out, st.items)
	return out
}

func (f *EntryFeed) HasMore(scope Scope) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.scopes[scope]
	return st.totalCount > len(st.items)
}

func (f *EntryFeed) TotalCount(scope Scope) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scopes[scope].totalCount
}

func (f *EntryFeed) Loaded(scope Scope) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scopes[scope].loaded
}
