package decorator

import (
	"github.com/macropower/folio/pkg/pages"
	"github.com/macropower/folio/pkg/provider"
)

// FirstLast wraps the decorated sequence with links to the first and the
// last page. Nothing is added when there is at most one page.
type FirstLast struct {
	link
}

func NewFirstLast() *FirstLast {
	return &FirstLast{link: link{name: "firstLast"}}
}

// SetConfig is a no-op; FirstLast has no options.
func (d *FirstLast) SetConfig(provider.Provider) error {
	return nil
}

func (d *FirstLast) Pages() ([]pages.Descriptor, error) {
	snap, err := d.snapshot()
	if err != nil {
		return nil, err
	}

	inner, err := d.innerPages()
	if err != nil {
		return nil, err
	}

	if snap.PageCount <= 1 {
		return inner, nil
	}

	ds := make([]pages.Descriptor, 0, len(inner)+2)
	ds = append(ds, pages.First(1))
	ds = append(ds, inner...)
	ds = append(ds, pages.Last(snap.PageCount))

	return ds, nil
}
