// Package pagination turns a filter and page parameters into a bounded,
// ordered slice of records plus the metadata a client needs to walk the rest.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Sort orders accepted in Request.Order.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Response headers written to a Sink.
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderTotalPages = "X-Total-Pages"
	HeaderPage       = "X-Page"
	HeaderPerPage    = "X-Per-Page"
)

var (
	// ErrInvalidSort is returned when Request.Sort names a field the source cannot order by.
	ErrInvalidSort = errors.New("invalid sort field")

	// ErrInvalidOrder is returned when Request.Order is neither asc nor desc.
	ErrInvalidOrder = errors.New("invalid sort order")

	// ErrPageOutOfRange is returned when Request.Page is so large that its offset overflows.
	ErrPageOutOfRange = errors.New("page out of range")
)

// Request carries the caller's paging parameters. Zero values select defaults.
type Request struct {
	Page   int    `json:"page"   validate:"omitempty,min=1"`
	Limit  int    `json:"limit"  validate:"omitempty,min=1"`
	Search string `json:"search" validate:"omitempty,max=200"`
	Sort   string `json:"sort"   validate:"omitempty,max=50"`
	Order  string `json:"order"  validate:"omitempty,oneof=asc desc"`
}

// Window is the normalized slice a Source is asked for.
type Window struct {
	Offset int
	Limit  int
	Sort   string
	Desc   bool
}

// Page is one page of results.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Sink receives page metadata as response headers. http.Header satisfies it.
type Sink interface {
	Set(key, value string)
}

// Source is anything that can count and window records matching a filter of type F.
type Source[T any, F any] interface {
	Count(ctx context.Context, filter F) (int64, error)
	List(ctx context.Context, filter F, window Window) ([]T, error)
}

// Config bounds what a Paginator will hand to its Source.
type Config struct {
	DefaultLimit int
	MaxLimit     int
	DefaultSort  string
	SortFields   []string
}

// Paginator pages over a single Source.
type Paginator[T any, F any] struct {
	source Source[T, F]
	cfg    Config
}

// New creates a Paginator. Non-positive limits fall back to 10 and 100.
func New[T any, F any](source Source[T, F], cfg Config) *Paginator[T, F] {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	return &Paginator[T, F]{source: source, cfg: cfg}
}

// Paginate counts and lists the records matching filter for the requested page.
// The filter is passed to the source untouched. sink may be nil.
func (p *Paginator[T, F]) Paginate(ctx context.Context, filter F, req Request, sink Sink) (*Page[T], error) {
	window, page, err := p.window(req)
	if err != nil {
		return nil, err
	}

	total, err := p.source.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	items := []T{}
	if int64(window.Offset) < total {
		items, err = p.source.List(ctx, filter, window)
		if err != nil {
			return nil, fmt.Errorf("failed to list records: %w", err)
		}
		if items == nil {
			items = []T{}
		}
	}

	result := &Page[T]{
		Items:      items,
		Page:       page,
		Limit:      window.Limit,
		Total:      total,
		TotalPages: totalPages(total, window.Limit),
	}

	if sink != nil {
		sink.Set(HeaderTotalCount, strconv.FormatInt(result.Total, 10))
		sink.Set(HeaderTotalPages, strconv.Itoa(result.TotalPages))
		sink.Set(HeaderPage, strconv.Itoa(result.Page))
		sink.Set(HeaderPerPage, strconv.Itoa(result.Limit))
	}

	return result, nil
}

func (p *Paginator[T, F]) window(req Request) (Window, int, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	limit := req.Limit
	switch {
	case limit < 1:
		limit = p.cfg.DefaultLimit
	case limit > p.cfg.MaxLimit:
		limit = p.cfg.MaxLimit
	}

	if page-1 > math.MaxInt/limit {
		return Window{}, 0, fmt.Errorf("%w: %d", ErrPageOutOfRange, req.Page)
	}

	sort := strings.TrimSpace(req.Sort)
	if sort == "" {
		sort = p.cfg.DefaultSort
	} else if len(p.cfg.SortFields) > 0 && !slices.Contains(p.cfg.SortFields, sort) {
		return Window{}, 0, fmt.Errorf("%w: %q", ErrInvalidSort, sort)
	}

	var desc bool
	switch strings.ToLower(strings.TrimSpace(req.Order)) {
	case "", OrderDesc:
		desc = true
	case OrderAsc:
		desc = false
	default:
		return Window{}, 0, fmt.Errorf("%w: %q", ErrInvalidOrder, req.Order)
	}

	return Window{
		Offset: (page - 1) * limit,
		Limit:  limit,
		Sort:   sort,
		Desc:   desc,
	}, page, nil
}

func totalPages(total int64, limit int) int {
	if total == 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Map converts the items of a page while keeping its metadata.
func Map[T any, U any](p *Page[T], fn func([]T) []U) *Page[U] {
	items := fn(p.Items)
	if items == nil {
		items = []U{}
	}
	return &Page[U]{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}
