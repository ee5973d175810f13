package adminlist

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"
)

const DefaultDebounce = 300 * time.Millisecond

var ErrNothingSelected = errors.New("no rows selected")

// Meta mirrors the pagination block of a list response
type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

// Result is one {data, meta} list response
type Result[T any] struct {
	Data []T  `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

type Fetcher[T any] interface {
	Fetch(ctx context.Context, s State) (Result[T], error)
}

type Deleter interface {
	Delete(ctx context.Context, id uint) error
	DeleteMany(ctx context.Context, ids []uint) error
}

// Confirmer asks the operator before destructive actions
type Confirmer interface {
	Confirm(message string) bool
}

// Notifier shows non-blocking toasts
type Notifier interface {
	Success(message string)
	Error(message string)
}

type Config[T any] struct {
	Fetcher   Fetcher[T]
	Deleter   Deleter
	Confirmer Confirmer // nil approves every delete
	Notifier  Notifier
	IDOf      func(T) uint
	Debounce  time.Duration
	URLSync   func(query string)
	Noun      string // used in confirmations, e.g. "categories"
}

// Controller holds the state of one list screen. Each fetch is tagged with
// a sequence number and only the newest response is applied.
type Controller[T any] struct {
	cfg Config[T]

	mu       sync.Mutex
	ctx      context.Context
	state    State
	rows     []T
	meta     *Meta
	selected map[uint]bool
	loading  bool
	seq      uint64
	timer    *time.Timer
}

func New[T any](cfg Config[T]) *Controller[T] {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Noun == "" {
		cfg.Noun = "items"
	}
	return &Controller[T]{
		cfg:      cfg,
		ctx:      context.Background(),
		state:    State{Page: 1},
		selected: map[uint]bool{},
	}
}

// Mount reads the initial state from the URL and loads the first page
func (c *Controller[T]) Mount(ctx context.Context, query url.Values) error {
	c.mu.Lock()
	c.ctx = ctx
	c.state = ParseState(query)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetSearch applies the term to the URL at once and fetches after the
// debounce delay; a newer keystroke restarts the delay.
func (c *Controller[T]) SetSearch(term string) {
	c.mu.Lock()
	c.state.Search = term
	c.state.Page = 1
	c.selected = map[uint]bool{}
	query := c.state.Encode()
	if c.timer != nil {
		c.timer.Stop()
	}
	ctx := c.ctx
	c.timer = time.AfterFunc(c.cfg.Debounce, func() {
		c.Refresh(ctx)
	})
	c.mu.Unlock()

	c.sync(query)
}

func (c *Controller[T]) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.state.Page = page
	c.selected = map[uint]bool{}
	query := c.state.Encode()
	c.mu.Unlock()

	c.sync(query)
	return c.Refresh(ctx)
}

// ToggleSort cycles the column and returns to the first page
func (c *Controller[T]) ToggleSort(ctx context.Context, field string) error {
	c.mu.Lock()
	c.state.Sort = NextSort(c.state.Sort, field)
	c.state.Page = 1
	c.selected = map[uint]bool{}
	query := c.state.Encode()
	c.mu.Unlock()

	c.sync(query)
	return c.Refresh(ctx)
}

// Refresh fetches the current state. A failed fetch keeps the rows on
// screen and reports through the Notifier.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	state := c.state
	c.loading = true
	c.mu.Unlock()

	res, err := c.cfg.Fetcher.Fetch(ctx, state)

	c.mu.Lock()
	if seq != c.seq {
		// superseded by a newer fetch
		c.mu.Unlock()
		return nil
	}
	c.loading = false
	if err == nil {
		c.rows = res.Data
		c.meta = res.Meta
	}
	c.mu.Unlock()

	if err != nil {
		c.notifyError(err)
	}
	return err
}

func (c *Controller[T]) Toggle(id uint, checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if checked {
		c.selected[id] = true
	} else {
		delete(c.selected, id)
	}
}

// SelectAll selects or clears every row on the current page
func (c *Controller[T]) SelectAll(checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = map[uint]bool{}
	if !checked || c.cfg.IDOf == nil {
		return
	}
	for _, row := range c.rows {
		c.selected[c.cfg.IDOf(row)] = true
	}
}

func (c *Controller[T]) IsSelected(id uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected[id]
}

// Selected returns the selected ids that are on screen, in page order.
// Ids no longer visible are never reported, so a bulk delete only touches
// rows the operator can see.
func (c *Controller[T]) Selected() []uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]uint, 0, len(c.selected))
	if c.cfg.IDOf == nil {
		return ids
	}
	for _, row := range c.rows {
		if id := c.cfg.IDOf(row); c.selected[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// DeleteSelected bulk-deletes the selection after confirmation, then shows
// page 1. The selection is cleared whether or not the delete succeeds.
func (c *Controller[T]) DeleteSelected(ctx context.Context) error {
	ids := c.Selected()
	if len(ids) == 0 {
		return ErrNothingSelected
	}
	if !c.confirm("Are you sure you want to delete the selected " + c.cfg.Noun + "?") {
		return nil
	}

	err := c.cfg.Deleter.DeleteMany(ctx, ids)

	c.mu.Lock()
	c.selected = map[uint]bool{}
	c.mu.Unlock()

	if err != nil {
		c.notifyError(err)
		return err
	}
	if c.cfg.Notifier != nil {
		c.cfg.Notifier.Success(c.cfg.Noun + " deleted")
	}
	return c.SetPage(ctx, 1)
}

// Delete removes one row after confirmation and shows page 1
func (c *Controller[T]) Delete(ctx context.Context, id uint) error {
	if !c.confirm("Are you sure you want to delete this item?") {
		return nil
	}
	if err := c.cfg.Deleter.Delete(ctx, id); err != nil {
		c.notifyError(err)
		return err
	}
	c.Toggle(id, false)
	return c.SetPage(ctx, 1)
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.rows...)
}

func (c *Controller[T]) Meta() *Meta {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta
}

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Close stops a pending debounced search
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Controller[T]) sync(query string) {
	if c.cfg.URLSync != nil {
		c.cfg.URLSync(query)
	}
}

func (c *Controller[T]) confirm(message string) bool {
	return c.cfg.Confirmer == nil || c.cfg.Confirmer.Confirm(message)
}

func (c *Controller[T]) notifyError(err error) {
	if c.cfg.Notifier != nil {
		c.cfg.Notifier.Error(err.Error())
	}
}
