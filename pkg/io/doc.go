// Package io reads and writes binary trees for twintree.
//
// # Overview
//
// Building trees is the caller's job; this package covers the two formats
// the CLI and the HTTP API accept, so trees can come from files, pipes or
// request bodies.
//
// # Nested JSON Format
//
// Each node is an object with a "value" and optional "left" and "right"
// objects. An omitted or null child is absent:
//
//	{
//	  "value": 2,
//	  "left":  {"value": 1},
//	  "right": {"value": 3}
//	}
//
// [ReadJSON] and [WriteJSON] are generic over the value type, so string or
// float values work the same way as integers. Nesting is bounded by the
// encoding/json decoder's depth limit.
//
// # Level-Order Format
//
// A JSON array lists integer values breadth-first, with null for a missing
// child and trailing nulls omitted:
//
//	[42, 5, 3, 1, 2, null, 5, null, null, null, null, 1, 2]
//
// Children of a null are not listed. [ParseLevelOrder] and [FormatLevelOrder]
// convert between this form and *tree.Node[int]. The walk is iterative, so
// deep trees are fine.
//
// # Import
//
// [ImportFile] and [Read] sniff the first non-space byte: "[" selects the
// level-order reader and "{" the nested reader. Both produce int trees.
//
//	root, err := io.ImportFile("tree.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Malformed input returns an INVALID_FORMAT error from pkg/errors; a missing
// file returns FILE_NOT_FOUND.
package io
