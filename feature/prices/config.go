package prices

import "time"

// Config holds configuration for price synchronisation.
type Config struct {
	// InCollectionProperty names the item property that marks owned pieces.
	// Empty disables the filter.
	InCollectionProperty string `mapstructure:"in_collection_property" default:"In Collection"`
	// PriceKeys are the sheet headers holding the price, tried in order.
	PriceKeys []string `mapstructure:"price_keys" default:"Price,price,Price (JPY)"`
	// Table is the database table that stores collection objects.
	Table string `mapstructure:"table" default:"objects"`
	// AllowFuzzy lets fuzzy name matches set prices. Off, only exact name
	// matches update the database.
	AllowFuzzy bool `mapstructure:"allow_fuzzy" default:"false"`
	// Worksheet is the title of the merged worksheet written back to the
	// spreadsheet. Empty uses "Merged Prices <yyyymmdd-hhmm>".
	Worksheet string `mapstructure:"worksheet" default:""`
	// Output is the name of the merged price sheet written to the output sink.
	Output string `mapstructure:"output" default:"merged_prices.csv"`
}

func (c Config) priceKeys() []string {
	if len(c.PriceKeys) == 0 {
		return []string{"Price", "price", "Price (JPY)"}
	}
	return c.PriceKeys
}

func (c Config) table() string {
	if c.Table == "" {
		return "objects"
	}
	return c.Table
}

func (c Config) worksheet(now time.Time) string {
	if c.Worksheet != "" {
		return c.Worksheet
	}
	return "Merged Prices " + now.Format("20060102-1504")
}

func (c Config) output() string {
	if c.Output == "" {
		return "merged_prices.csv"
	}
	return c.Output
}
