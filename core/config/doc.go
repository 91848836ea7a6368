// Package config loads the application configuration.
//
// Values come from the process environment, optionally seeded from a .env
// file, with defaults declared on the section structs through `default`
// tags. Nested keys map to upper-case environment names with dots replaced by
// underscores, e.g. match.fuzzy_threshold is MATCH_FUZZY_THRESHOLD. List
// values are comma separated.
//
// # Sections
//
//   - Server: HTTP port, API key, limits and timeouts
//   - Storage: MinIO/S3 credentials and bucket
//   - Log: level and format
//   - Database: collection database (sqlite or mysql)
//   - Match: merge strategy, fuzzy threshold, duplicate policy and field lists
//   - Notion: content database credentials and paging
//   - Sheet: reference sheet source (file, object, URL or published spreadsheet)
//   - Output: where run outputs are written
//   - Prices: price synchronisation settings
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Match.FuzzyThreshold)
package config
