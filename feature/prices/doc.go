// Package prices synchronises collection prices from the reference sheet.
//
// Owned items (see Config.InCollectionProperty) are matched to sheet rows by
// name. Each match yields a Record carrying the object's token, resolved from
// the item, the sheet row or the database by local number, and the parsed yen
// price. Records with both become update actions.
//
// # Flow
//
//   - Plan: load, filter, match, build the plan and write the merged price
//     sheet (Token, Name, Price (JPY)) to the output sink.
//   - Apply: write the planned prices to the objects table. Updates only run
//     when confirmed and not in dry-run mode.
//
// # HTTP Endpoints
//
//   - POST /prices/plan : Returns the plan.
//   - POST /prices/apply : Plans and applies (requires ?confirm=true, supports ?dry_run=true).
package prices
