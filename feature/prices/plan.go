package prices

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"collection-merge/core/reconcile"
)

// ActionType is the kind of a planned mutation.
type ActionType string

const ActionUpdatePrice ActionType = "update_price"

// Action is a single planned price update.
type Action struct {
	Type  ActionType `json:"type"`
	Token string     `json:"token"`
	Name  string     `json:"name"`
	Price int        `json:"price"`
}

// Record is the merged view of one item: its token, local number and the
// price found on its sheet row.
type Record struct {
	Name        string              `json:"name"`
	Token       string              `json:"token,omitempty"`
	LocalNumber string              `json:"local_number,omitempty"`
	Price       *int                `json:"price_yen"`
	RawPrice    any                 `json:"sheet_price_raw"`
	MatchKind   reconcile.MatchKind `json:"match_kind"`
}

// Summary counts the outcome of planning.
type Summary struct {
	InCollection        int `json:"in_collection"`
	SheetRows           int `json:"sheet_rows"`
	Records             int `json:"records"`
	Updates             int `json:"updates"`
	SkippedUnmatched    int `json:"skipped_unmatched"`
	SkippedFuzzy        int `json:"skipped_fuzzy"`
	SkippedMissingToken int `json:"skipped_missing_token"`
	SkippedMissingPrice int `json:"skipped_missing_price"`
}

func (Summary) TableHeader() []string { return []string{"Metric", "Count"} }

func (s Summary) TableRows() [][]string {
	rows := [][]string{
		{"in_collection", strconv.Itoa(s.InCollection)},
		{"sheet_rows", strconv.Itoa(s.SheetRows)},
		{"records", strconv.Itoa(s.Records)},
		{"updates", strconv.Itoa(s.Updates)},
		{"skipped_unmatched", strconv.Itoa(s.SkippedUnmatched)},
		{"skipped_fuzzy", strconv.Itoa(s.SkippedFuzzy)},
		{"skipped_missing_token", strconv.Itoa(s.SkippedMissingToken)},
		{"skipped_missing_price", strconv.Itoa(s.SkippedMissingPrice)},
	}
	return rows
}

// Plan holds the merged records and the updates derived from them.
type Plan struct {
	Records []Record `json:"records"`
	Actions []Action `json:"actions"`
	Summary Summary  `json:"summary"`
	// Errors lists token lookups that failed; the affected records are
	// planned without a resolved token.
	Errors []string `json:"errors,omitempty"`
}

// TokenResolver finds the token of an object by its local number.
type TokenResolver interface {
	TokenByLocalNumber(ctx context.Context, localNumber string) (string, error)
}

// PriceUpdater writes a single price.
type PriceUpdater interface {
	UpdatePrice(ctx context.Context, token string, price int) error
}

// BatchUpdater writes many prices at once.
type BatchUpdater interface {
	UpdatePriceBatch(ctx context.Context, actions []Action) error
}

// PlanOptions configures BuildPlan.
type PlanOptions struct {
	// PriceKeys are the sheet headers holding the price.
	PriceKeys []string
	// Match supplies the token and local number field lists.
	Match reconcile.Options
	// AllowFuzzy lets fuzzy name matches contribute a sheet row. When false
	// a fuzzy match is treated as having no row.
	AllowFuzzy bool
}

// ApplyOptions gates ApplyPlan.
type ApplyOptions struct {
	DryRun    bool
	Confirmed bool
}

// BuildPlan derives one record per merge record and an update for every
// matched record that has both a token and a price. The token comes from the
// match keys, then the item, then the sheet row, then the resolver by local
// number. resolver may be nil. Unless opts.AllowFuzzy is set, fuzzy matches
// neither price nor tokenize a record and are counted as skipped_fuzzy.
func BuildPlan(ctx context.Context, records []reconcile.MatchRecord, opts PlanOptions, resolver TokenResolver) *Plan {
	plan := &Plan{
		Records: make([]Record, 0, len(records)),
		Actions: []Action{},
	}

	for _, mr := range records {
		rec := Record{Name: mr.Name, MatchKind: mr.MatchKind}
		fuzzyRejected := mr.MatchKind == reconcile.MatchFuzzy && !opts.AllowFuzzy
		row := mr.Row
		if fuzzyRejected {
			row = nil
		}

		if mr.MatchKeys != nil {
			rec.Token = mr.MatchKeys.Token
			rec.LocalNumber = mr.MatchKeys.LocalID
		}
		if rec.Token == "" {
			if raw, ok := mr.Item.Attributes.Text(opts.Match.ItemTokenFields...); ok {
				rec.Token, _ = reconcile.ExtractToken(raw)
			}
		}
		if rec.Token == "" && row != nil {
			if raw, ok := row.Text(opts.Match.SheetTokenKeys...); ok {
				rec.Token, _ = reconcile.ExtractToken(raw)
			}
		}
		if rec.LocalNumber == "" {
			rec.LocalNumber, _ = mr.Item.Attributes.Text(opts.Match.ItemLocalIDFields...)
		}
		if rec.Token == "" && rec.LocalNumber != "" && resolver != nil {
			token, err := resolver.TokenByLocalNumber(ctx, rec.LocalNumber)
			if err != nil {
				plan.Errors = append(plan.Errors, fmt.Sprintf("local_number=%s: %v", rec.LocalNumber, err))
			}
			rec.Token = token
		}

		if row != nil {
			if raw, ok := row.Lookup(opts.PriceKeys...); ok {
				rec.RawPrice = raw
				if price, ok := ParsePrice(raw); ok {
					rec.Price = &price
				}
			}
		}

		plan.Records = append(plan.Records, rec)

		switch {
		case !mr.MatchKind.Matched():
			plan.Summary.SkippedUnmatched++
		case fuzzyRejected:
			plan.Summary.SkippedFuzzy++
		case rec.Token == "":
			plan.Summary.SkippedMissingToken++
		case rec.Price == nil:
			plan.Summary.SkippedMissingPrice++
		default:
			plan.Actions = append(plan.Actions, Action{
				Type:  ActionUpdatePrice,
				Token: rec.Token,
				Name:  rec.Name,
				Price: *rec.Price,
			})
		}
	}

	plan.Summary.Records = len(plan.Records)
	plan.Summary.Updates = len(plan.Actions)
	return plan
}

// ApplyPlan executes the planned updates and returns how many were written.
// Nothing happens unless opts.Confirmed is set and opts.DryRun is not.
func ApplyPlan(ctx context.Context, updater PriceUpdater, plan *Plan, opts ApplyOptions) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}
	if plan == nil || len(plan.Actions) == 0 {
		return 0, nil
	}
	if updater == nil {
		return 0, errors.New("no price updater configured")
	}

	if batch, ok := updater.(BatchUpdater); ok {
		if err := batch.UpdatePriceBatch(ctx, plan.Actions); err != nil {
			return 0, fmt.Errorf("failed to batch update prices: %w", err)
		}
		return len(plan.Actions), nil
	}

	var errs []error
	for _, a := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return executed, err
		}
		if err := updater.UpdatePrice(ctx, a.Token, a.Price); err != nil {
			errs = append(errs, fmt.Errorf("token=%s: %w", a.Token, err))
			continue
		}
		executed++
	}
	return executed, errors.Join(errs...)
}

// OutputHeader is the header of the merged price sheet.
var OutputHeader = []string{"Token", "Name", "Price (JPY)"}

// OutputRows renders every record as a merged price sheet row. Missing
// tokens and prices are left blank.
func OutputRows(plan *Plan) [][]any {
	rows := make([][]any, 0, len(plan.Records))
	for _, r := range plan.Records {
		var price any = ""
		if r.Price != nil {
			price = *r.Price
		}
		rows = append(rows, []any{r.Token, r.Name, price})
	}
	return rows
}
