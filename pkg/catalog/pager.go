package catalog

import (
	"context"
	"sync"
)

// DefaultPageSize is the page size used when the caller does not specify one.
const DefaultPageSize = 10

// ItemLister is the subset of Service a Pager needs.
type ItemLister interface {
	ListItems(ctx context.Context, cursor *Cursor, pageSize int) (*Page, error)
}

// Pager owns the cursor state for one listing session. The cursor is never
// process-global: parallel sessions each construct their own Pager, and a
// session resets by calling FirstPage again.
//
// Within a session, successive NextPage calls return items with created_at
// non-increasing relative to the last item of the previous page, assuming
// no concurrent inserts reorder rows ahead of the cursor. Inserts ahead of
// an in-progress cursor may re-show or skip boundary items; that is a
// documented limitation, not compensated for here.
type Pager struct {
	lister   ItemLister
	pageSize int

	mu        sync.Mutex
	cursor    *Cursor
	exhausted bool
}

// PagerOption configures a Pager.
type PagerOption func(*Pager)

// WithPageSize sets the page size for every page the Pager fetches.
func WithPageSize(n int) PagerOption {
	return func(p *Pager) {
		if n > 0 {
			p.pageSize = n
		}
	}
}

// NewPager creates a pagination session over the given lister.
func NewPager(lister ItemLister, opts ...PagerOption) *Pager {
	p := &Pager{
		lister:   lister,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FirstPage fetches the first page, discarding any prior cursor state. On
// failure the session is reset: previously accumulated state is gone and
// the caller should treat the listing as terminally failed until FirstPage
// succeeds again.
func (p *Pager) FirstPage(ctx context.Context) (*Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cursor = nil
	p.exhausted = false

	page, err := p.lister.ListItems(ctx, nil, p.pageSize)
	if err != nil {
		return nil, err
	}
	p.advance(page)
	return page, nil
}

// NextPage fetches the page after the last one returned. On failure the
// stored cursor is left intact, so already-fetched rows stay valid and the
// caller can retry NextPage as-is. An empty page marks the session
// exhausted.
func (p *Pager) NextPage(ctx context.Context) (*Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cursor == nil && !p.exhausted {
		// No page fetched yet; behave like FirstPage.
		page, err := p.lister.ListItems(ctx, nil, p.pageSize)
		if err != nil {
			return nil, err
		}
		p.advance(page)
		return page, nil
	}
	if p.exhausted {
		return &Page{HasMore: false}, nil
	}

	page, err := p.lister.ListItems(ctx, p.cursor, p.pageSize)
	if err != nil {
		return nil, err
	}
	p.advance(page)
	return page, nil
}

// HasMore reports whether the session expects further rows. Like
// Page.HasMore it is a heuristic: one extra NextPage call may be needed to
// observe the terminal empty page.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.exhausted
}

func (p *Pager) advance(page *Page) {
	if len(page.Items) == 0 {
		p.exhausted = true
		return
	}
	p.cursor = page.NextCursor
	if !page.HasMore {
		p.exhausted = true
	}
}
