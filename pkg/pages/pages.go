// Package pages defines the descriptors produced by pagination decorators.
//
// A [Descriptor] is one instruction for a renderer: a link to a page, the
// current page marker, a directional link or a gap between shown pages.
// Renderers (templates, JSON APIs, terminals) consume a []Descriptor in order.
package pages

import (
	"fmt"
	"strconv"
)

// Kind is the type of a [Descriptor].
type Kind string

const (
	KindPage     Kind = "page"
	KindCurrent  Kind = "current"
	KindFirst    Kind = "first"
	KindLast     Kind = "last"
	KindPrevious Kind = "previous"
	KindNext     Kind = "next"
	KindGap      Kind = "gap"
)

// AllKinds lists every [Kind], in the order renderers usually style them.
var AllKinds = []Kind{
	KindPage,
	KindCurrent,
	KindFirst,
	KindLast,
	KindPrevious,
	KindNext,
	KindGap,
}

// Descriptor is a single entry of a page list.
// Page is zero only for [KindGap].
type Descriptor struct {
	Kind Kind `json:"type"           jsonschema:"title=Type"   yaml:"type"`
	Page int  `json:"page,omitempty" jsonschema:"title=Page"   yaml:"page,omitempty"`
}

func Page(n int) Descriptor {
	return Descriptor{Kind: KindPage, Page: n}
}

func Current(n int) Descriptor {
	return Descriptor{Kind: KindCurrent, Page: n}
}

func First(n int) Descriptor {
	return Descriptor{Kind: KindFirst, Page: n}
}

func Last(n int) Descriptor {
	return Descriptor{Kind: KindLast, Page: n}
}

func Previous(n int) Descriptor {
	return Descriptor{Kind: KindPrevious, Page: n}
}

func Next(n int) Descriptor {
	return Descriptor{Kind: KindNext, Page: n}
}

func Gap() Descriptor {
	return Descriptor{Kind: KindGap}
}

// Numbered reports whether the descriptor is a numbered link within the page
// run, i.e. a [KindPage] or [KindCurrent] entry.
func (d Descriptor) Numbered() bool {
	return d.Kind == KindPage || d.Kind == KindCurrent
}

func (d Descriptor) String() string {
	switch d.Kind {
	case KindGap:
		return "..."
	case KindCurrent:
		return "[" + strconv.Itoa(d.Page) + "]"
	case KindPage:
		return strconv.Itoa(d.Page)
	}

	return fmt.Sprintf("%s(%d)", d.Kind, d.Page)
}

// Bounds returns the lowest and highest page numbers among the numbered
// entries of ds. The last value is false when ds has no numbered entries.
func Bounds(ds []Descriptor) (int, int, bool) {
	var (
		lo, hi int
		found  bool
	)

	for _, d := range ds {
		if !d.Numbered() {
			continue
		}

		if !found || d.Page < lo {
			lo = d.Page
		}
		if !found || d.Page > hi {
			hi = d.Page
		}

		found = true
	}

	return lo, hi, found
}
