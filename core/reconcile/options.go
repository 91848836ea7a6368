package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownStrategy is returned for a strategy name that is not recognized.
	ErrUnknownStrategy = errors.New("unknown match strategy")
	// ErrUnknownPolicy is returned for an overwrite policy name that is not recognized.
	ErrUnknownPolicy = errors.New("unknown duplicate policy")
)

// Strategy selects the matching cascade.
type Strategy string

const (
	// StrategyName matches by exact then fuzzy name.
	StrategyName Strategy = "name"
	// StrategyIdentifier matches by token then local identifier.
	StrategyIdentifier Strategy = "identifier"
)

// ParseStrategy converts a configuration value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyName, "":
		return StrategyName, nil
	case StrategyIdentifier, "id":
		return StrategyIdentifier, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// ParsePolicy converts a configuration value into an OverwritePolicy.
func ParsePolicy(s string) (OverwritePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case PolicyLastWriteWins, "":
		return LastWriteWins, nil
	case PolicyFirstWriteWins:
		return FirstWriteWins, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// DefaultFuzzyThreshold is the minimum WRatio score of an accepted fuzzy match.
const DefaultFuzzyThreshold = 92

// Options configures the matchers. Every list is an ordered set of header or
// field names tried case-insensitively.
type Options struct {
	RowNameKeys       []string
	FuzzyThreshold    float64
	SheetTokenKeys    []string
	SheetLocalIDKeys  []string
	ItemTokenFields   []string
	ItemLocalIDFields []string
	Policy            OverwritePolicy
}

// DefaultOptions returns a fresh Options value with the default candidate lists.
func DefaultOptions() Options {
	return Options{
		RowNameKeys:       []string{"Name", "name", "item", "title"},
		FuzzyThreshold:    DefaultFuzzyThreshold,
		SheetTokenKeys:    []string{"Token", "token", "Collection Token", "Collection URL", "Object URL", "URL", "Id URL", "ID URL"},
		SheetLocalIDKeys:  []string{"Local ID", "Local Number", "Local No", "Collection ID", "Collection Number", "Inventory Number", "Inventory #", "local_id"},
		ItemTokenFields:   []string{"Collection Token", "Collection URL", "Object URL", "Token", "URL", "Object Url", "Id URL", "ID URL"},
		ItemLocalIDFields: []string{"Collection ID", "Local Number", "Local ID", "Collection Number", "Collection Id", "Inventory Number", "Inventory #"},
		Policy:            LastWriteWins,
	}
}

func (o Options) policy() OverwritePolicy {
	if o.Policy == nil {
		return LastWriteWins
	}
	return o.Policy
}

// Fingerprint identifies the options for cache keys.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("%s|%g|%s|%s|%s|%s|%s",
		strings.Join(o.RowNameKeys, ","),
		o.FuzzyThreshold,
		strings.Join(o.SheetTokenKeys, ","),
		strings.Join(o.SheetLocalIDKeys, ","),
		strings.Join(o.ItemTokenFields, ","),
		strings.Join(o.ItemLocalIDFields, ","),
		o.policy().Name(),
	)
}

// Config holds the match settings loaded from the environment.
type Config struct {
	// Strategy is the default matching cascade: name or identifier.
	Strategy string `mapstructure:"strategy" default:"name"`

	// FuzzyThreshold is the minimum score (0-100) of a fuzzy name match.
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold" default:"92"`

	// DuplicatePolicy decides which row an index keeps on key collisions.
	DuplicatePolicy string `mapstructure:"duplicate_policy" default:"last_write_wins"`

	RowNameKeys       []string `mapstructure:"row_name_keys" default:"Name,name,item,title"`
	SheetTokenKeys    []string `mapstructure:"sheet_token_keys" default:"Token,token,Collection Token,Collection URL,Object URL,URL,Id URL,ID URL"`
	SheetLocalIDKeys  []string `mapstructure:"sheet_local_id_keys" default:"Local ID,Local Number,Local No,Collection ID,Collection Number,Inventory Number,Inventory #,local_id"`
	ItemTokenFields   []string `mapstructure:"item_token_fields" default:"Collection Token,Collection URL,Object URL,Token,URL,Object Url,Id URL,ID URL"`
	ItemLocalIDFields []string `mapstructure:"item_local_id_fields" default:"Collection ID,Local Number,Local ID,Collection Number,Collection Id,Inventory Number,Inventory #"`

	// CacheTTLSeconds is how long built matchers are reused by lookups. Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
}

// Options converts the configuration into matcher options. Empty lists fall
// back to the defaults.
func (c Config) Options() (Options, error) {
	opts := DefaultOptions()

	policy, err := ParsePolicy(c.DuplicatePolicy)
	if err != nil {
		return Options{}, err
	}
	opts.Policy = policy

	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		return Options{}, fmt.Errorf("fuzzy threshold %g out of range 0-100", c.FuzzyThreshold)
	}
	if c.FuzzyThreshold > 0 {
		opts.FuzzyThreshold = c.FuzzyThreshold
	}

	override(&opts.RowNameKeys, c.RowNameKeys)
	override(&opts.SheetTokenKeys, c.SheetTokenKeys)
	override(&opts.SheetLocalIDKeys, c.SheetLocalIDKeys)
	override(&opts.ItemTokenFields, c.ItemTokenFields)
	override(&opts.ItemLocalIDFields, c.ItemLocalIDFields)

	return opts, nil
}

// DefaultStrategy parses the configured strategy.
func (c Config) DefaultStrategy() (Strategy, error) {
	return ParseStrategy(c.Strategy)
}

func override(dst *[]string, src []string) {
	var cleaned []string
	for _, s := range src {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) > 0 {
		*dst = cleaned
	}
}
