// Package merge joins the primary set (content database items) with the
// reference set (sheet rows) and publishes the result.
//
// A run loads both sets concurrently, matches every item with the configured
// strategy and writes the merged records and the report to the output
// target. The matcher built by a run is kept in a cache so single item
// lookups reuse its indices.
//
// # Outputs
//
//   - merged.json : One record per item, in source order.
//   - merge_report.json : Counters, unmatched item names and duplicate keys.
//   - notion_raw.json, sheets_raw.json : The loaded sets (dump runs only).
//
// # HTTP Endpoints
//
//   - POST /merge/run : Runs a merge (supports ?strategy=, ?threshold=, ?dump=true).
//   - GET /merge/report : Report of the last run.
//   - POST /merge : Merges items and rows from the request body.
//   - POST /merge/lookup : Matches a single item.
//   - POST /merge/refresh : Drops cached lookup indices.
//   - GET /merge/outputs : Lists the output files.
package merge
