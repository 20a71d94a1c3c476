package decorator

import (
	"github.com/macropower/folio/pkg/pages"
	"github.com/macropower/folio/pkg/provider"
)

// PrevNext wraps the decorated sequence with "previous" and "next" links.
type PrevNext struct {
	link
}

func NewPrevNext() *PrevNext {
	return &PrevNext{link: link{name: "prevNext"}}
}

// SetConfig is a no-op; PrevNext has no options.
func (d *PrevNext) SetConfig(provider.Provider) error {
	return nil
}

func (d *PrevNext) Pages() ([]pages.Descriptor, error) {
	snap, err := d.snapshot()
	if err != nil {
		return nil, err
	}

	inner, err := d.innerPages()
	if err != nil {
		return nil, err
	}

	ds := make([]pages.Descriptor, 0, len(inner)+2)
	if snap.HasPrevious() {
		ds = append(ds, pages.Previous(snap.CurrentPage-1))
	}

	ds = append(ds, inner...)

	if snap.HasNext() {
		ds = append(ds, pages.Next(snap.CurrentPage+1))
	}

	return ds, nil
}
