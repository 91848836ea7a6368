// Package reconcile matches items of a content database (the primary set)
// against rows of a spreadsheet (the reference set) when the two share no
// primary key.
//
// Two cascades are available:
//
//   - Name: the trimmed, lower-cased item name is looked up in an index of
//     row names. On a miss the name is scored against every indexed name with
//     a weighted fuzzy ratio and accepted at or above the threshold.
//   - Identifier: a token is read from the item's URL-bearing attributes and
//     looked up in a token index; failing that, a local inventory number is
//     looked up in a local id index.
//
// Every item produces exactly one MatchRecord, in input order, whether or not
// it matched. Indices are built once per run and are read-only afterwards, so
// a Matcher can serve concurrent lookups.
//
// # Usage
//
//	opts := reconcile.DefaultOptions()
//	records, report := reconcile.MergeByIdentifier(items, rows, opts)
//
// Collaborators load the sets through ItemSource and RowSource; LoadSnapshot
// fetches both concurrently and MatcherCache keeps built matchers for
// targeted lookups.
package reconcile
