package reconcile

// Item is a primary set record, e.g. a page of a content database.
// Items are owned by the caller; the engine only reads them.
type Item struct {
	// ID is the identifier assigned by the content database.
	ID string `json:"id"`

	// Name is the display name (title) of the item.
	Name string `json:"name"`

	// Attributes holds the typed properties of the item in source order.
	Attributes Attributes `json:"attributes"`

	// SourceURL links back to the item in the content database.
	SourceURL string `json:"url"`

	// Files lists the attachments found in file properties.
	Files []File `json:"files,omitempty"`
}

// File is an attachment of an item.
type File struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// MatchKind is the terminal classification of how an item was matched.
type MatchKind string

const (
	// MatchNone means no reference row was found for the item.
	MatchNone MatchKind = "none"
	// MatchExact means the normalized item name equals an indexed row name.
	MatchExact MatchKind = "exact"
	// MatchFuzzy means the item name scored at or above the fuzzy threshold.
	MatchFuzzy MatchKind = "fuzzy"
	// MatchToken means the extracted token was found in the token index.
	MatchToken MatchKind = "token"
	// MatchLocalID means the extracted local identifier was found in the local id index.
	MatchLocalID MatchKind = "local_id"
)

// Matched reports whether the kind denotes a successful match.
func (k MatchKind) Matched() bool {
	return k != "" && k != MatchNone
}

// MatchKeys carries the identifiers extracted from an item by the identifier
// strategy. They are kept even when the lookup misses.
type MatchKeys struct {
	// Token is the strong identifier extracted from the item, if any.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// LocalID is the local inventory identifier extracted from the item, if any.
	LocalID string `json:"local_id,omitempty" yaml:"local_id,omitempty"`
}

// MatchRecord is the outcome of matching one item. Exactly one record is
// produced per item, in input order.
type MatchRecord struct {
	// Name is the item name as it appears in the source.
	Name string `json:"name"`

	// Item is the matched primary set item.
	Item Item `json:"notion"`

	// Row is the matched reference row, nil when MatchKind is MatchNone.
	Row *Row `json:"sheet"`

	// MatchKind tells how the match was made.
	MatchKind MatchKind `json:"match_kind"`

	// MatchKeys is set by the identifier strategy.
	MatchKeys *MatchKeys `json:"match_keys,omitempty"`

	// Score is the similarity score of a fuzzy match.
	Score float64 `json:"score,omitempty"`
}

// Report aggregates a merge run.
type Report struct {
	// Strategy is the strategy that produced the records.
	Strategy Strategy `json:"strategy" yaml:"strategy"`

	// Totals maps counter names (items, rows, matched_*, unmatched) to counts.
	Totals map[string]int `json:"totals" yaml:"totals"`

	// UnmatchedItemNames lists the names of unmatched items in input order.
	UnmatchedItemNames []string `json:"unmatched_items" yaml:"unmatched_items"`

	// DuplicateKeys lists index keys that more than one reference row produced.
	DuplicateKeys []string `json:"duplicate_keys,omitempty" yaml:"duplicate_keys,omitempty"`
}

// Counter names used in Report.Totals.
const (
	TotalItems          = "items"
	TotalRows           = "rows"
	TotalMatchedExact   = "matched_exact"
	TotalMatchedFuzzy   = "matched_fuzzy"
	TotalMatchedToken   = "matched_token"
	TotalMatchedLocalID = "matched_local_id"
	TotalUnmatched      = "unmatched"
)
