package catalog

import (
	"context"
	"sync"
)

// State tracks what a listing consumer should render. Zero matches is
// Success with an empty page; Loading means no result is on screen yet,
// Updating means a previous page is still showing while a refinement is
// in flight.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateUpdating
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateUpdating:
		return "updating"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Fetcher is satisfied by *Store.
type Fetcher interface {
	FindPage(ctx context.Context, f FilterState) (*Page, error)
}

// Loader coordinates listing fetches for one consumer. Each Refine
// cancels whatever fetch is still in flight; a superseded response is
// discarded even if it arrives after the newer one, so a slow early
// request can never overwrite newer state. Failures keep the previous
// page and filters on screen so the user can retry; nothing retries
// automatically.
type Loader struct {
	fetcher Fetcher

	mu      sync.Mutex
	state   State
	page    *Page
	err     error
	filters FilterState
	gen     int
	cancel  context.CancelFunc
}

func NewLoader(f Fetcher) *Loader {
	return &Loader{fetcher: f, state: StateIdle}
}

// Refine applies a filter/sort/page change. The returned channel closes
// when this particular fetch has settled (applied or discarded).
func (l *Loader) Refine(ctx context.Context, f FilterState) <-chan struct{} {
	l.mu.Lock()

	if l.cancel != nil {
		l.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	l.gen++
	gen := l.gen
	l.filters = f
	if l.page != nil {
		l.state = StateUpdating
	} else {
		l.state = StateLoading
	}
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		page, err := l.fetcher.FindPage(fctx, f)

		l.mu.Lock()
		defer l.mu.Unlock()
		if gen != l.gen {
			return // superseded while in flight
		}
		l.cancel = nil
		if err != nil {
			l.state = StateError
			l.err = err
			return
		}
		l.state = StateSuccess
		l.page = page
		l.err = nil
	}()
	return done
}

// Retry re-runs the last requested filters. Retries are always
// user-initiated.
func (l *Loader) Retry(ctx context.Context) <-chan struct{} {
	l.mu.Lock()
	f := l.filters
	l.mu.Unlock()
	return l.Refine(ctx, f)
}

// Snapshot returns the current render state: the page is the last
// successful one even while updating or after an error.
func (l *Loader) Snapshot() (State, *Page, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.page, l.err
}

// Filters returns the most recently requested filter state.
func (l *Loader) Filters() FilterState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters
}
