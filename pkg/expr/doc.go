// Package expr provides CEL (Common Expression Language) functionality
// for evaluating expressions against pagination requests.
//
// CEL expressions have access to variables:
//   - `elementCount` (int): Total number of elements in the list
//   - `page` (int): Requested page number, normalized to at least 1
//   - `rawPage` (string): Requested page as received from the caller
//
// In addition to the CEL math, strings and lists extensions, the
// environment provides:
//   - pageCount(int, int): Number of pages needed for a number of
//     elements with the given page size
package expr
