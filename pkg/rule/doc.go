// Package rule selects pagination options for a request by using CEL
// (Common Expression Language) expressions.
//
// The expressions have access to the element count and the requested page,
// allowing e.g. a compact decorator chain for very long lists.
package rule
