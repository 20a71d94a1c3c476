package paginator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// State tells whether the derived values of a [Paginator] can be trusted.
type State int

const (
	// StateInitial means [Paginator.Process] has never succeeded.
	StateInitial State = iota
	// StateDirty means an input changed after the last [Paginator.Process].
	StateDirty
	// StateCorrect means the derived values match the inputs.
	StateCorrect
)

var (
	// ErrConfig is returned for values outside of their valid domain.
	ErrConfig = errors.New("invalid pagination config")
	// ErrState is returned when an operation is invoked before its prerequisites.
	ErrState = errors.New("invalid pagination state")
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateDirty:
		return "dirty"
	case StateCorrect:
		return "correct"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Paginator represents a single pagination case: an amount of data, the
// number of items per page and the current page number.
//
// The zero value is not usable; create instances with [New].
// A Paginator is not safe for concurrent use.
type Paginator struct {
	elementCount    int
	itemsPerPage    int
	currentPage     int
	pageCount       int
	state           State
	hasElementCount bool
}

// New creates a [Paginator] with the given number of items per page.
func New(itemsPerPage int) (*Paginator, error) {
	p := &Paginator{currentPage: 1}

	err := p.SetItemsPerPage(itemsPerPage)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// MustNew creates a new [Paginator] and panics if there's an error.
func MustNew(itemsPerPage int) *Paginator {
	p, err := New(itemsPerPage)
	if err != nil {
		panic(err)
	}

	return p
}

// SetElementCount sets the number of elements to paginate. It must be called
// at least once before [Paginator.Process].
func (p *Paginator) SetElementCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: element count cannot be negative, got %d", ErrConfig, n)
	}

	p.markDirty()
	p.elementCount = n
	p.hasElementCount = true

	return nil
}

// SetItemsPerPage sets the maximum number of items displayed on one page.
func (p *Paginator) SetItemsPerPage(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: items per page must be greater than or equal 1, got %d", ErrConfig, n)
	}

	p.markDirty()
	p.itemsPerPage = n

	return nil
}

// SetCurrentPage sets the current page number. Values lower than 1 are
// replaced with 1, so input taken directly from a request never fails.
// Use [ParsePageNumber] to normalize raw string input.
func (p *Paginator) SetCurrentPage(n int) {
	if n < 1 {
		n = 1
	}

	p.markDirty()
	p.currentPage = n
}

// SetCurrentPageString sets the current page from raw, untrusted input.
// See [ParsePageNumber].
func (p *Paginator) SetCurrentPageString(raw string) {
	p.SetCurrentPage(ParsePageNumber(raw))
}

// ParsePageNumber normalizes a raw page number, e.g. taken from a URL query.
// It returns the parsed value if raw is a base-10 integer greater than or
// equal 1, and 1 for anything else.
func ParsePageNumber(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}

	for _, r := range raw {
		if r < '0' || r > '9' {
			return 1
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}

	return n
}

// Process computes the page count and clamps the current page to it.
// It returns the [Paginator] itself so calls can be chained.
func (p *Paginator) Process() (*Paginator, error) {
	if !p.hasElementCount {
		return nil, fmt.Errorf("%w: element count is not set", ErrState)
	}

	// Integer ceiling; no floating point involved.
	rest := p.elementCount % p.itemsPerPage
	p.pageCount = (p.elementCount - rest) / p.itemsPerPage
	if rest > 0 {
		p.pageCount++
	}

	if p.currentPage > p.pageCount {
		p.currentPage = p.pageCount
	}

	p.state = StateCorrect

	return p, nil
}

// Offset returns the index of the first element on the current page. Together
// with [Paginator.ItemsPerPage] it can be used to build a LIMIT clause.
//
// Offset does not check the state; the value is only meaningful once the
// [Paginator] is in [StateCorrect].
func (p *Paginator) Offset() int {
	if p.elementCount == 0 {
		return 0
	}

	return (p.currentPage - 1) * p.itemsPerPage
}

func (p *Paginator) ItemsPerPage() int {
	return p.itemsPerPage
}

func (p *Paginator) CurrentPage() int {
	return p.currentPage
}

// ElementCount returns the element count, and whether it was set.
func (p *Paginator) ElementCount() (int, bool) {
	return p.elementCount, p.hasElementCount
}

// PageCount returns the number of pages computed by the last [Paginator.Process].
func (p *Paginator) PageCount() int {
	return p.pageCount
}

func (p *Paginator) State() State {
	return p.state
}

// Snapshot returns an immutable copy of the processed values. It fails with
// [ErrState] unless the [Paginator] is in [StateCorrect].
func (p *Paginator) Snapshot() (Snapshot, error) {
	if p.state != StateCorrect {
		return Snapshot{}, fmt.Errorf("%w: paginator is %s, call Process first", ErrState, p.state)
	}

	return Snapshot{
		ElementCount: p.elementCount,
		ItemsPerPage: p.itemsPerPage,
		CurrentPage:  p.currentPage,
		PageCount:    p.pageCount,
		Offset:       p.Offset(),
	}, nil
}

func (p *Paginator) markDirty() {
	if p.state == StateCorrect {
		p.state = StateDirty
	}
}

// Snapshot is a read-only view of a processed [Paginator].
type Snapshot struct {
	ElementCount int `json:"elementCount" yaml:"elementCount"`
	ItemsPerPage int `json:"itemsPerPage" yaml:"itemsPerPage"`
	CurrentPage  int `json:"currentPage"  yaml:"currentPage"`
	PageCount    int `json:"pageCount"    yaml:"pageCount"`
	Offset       int `json:"offset"       yaml:"offset"`
}

// HasPrevious reports whether a page exists before the current one.
func (s Snapshot) HasPrevious() bool {
	return s.CurrentPage > 1
}

// HasNext reports whether a page exists after the current one.
func (s Snapshot) HasNext() bool {
	return s.CurrentPage < s.PageCount
}
