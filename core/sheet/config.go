package sheet

import "time"

// Config selects where the reference rows are read from. The first
// configured source wins, in field order.
type Config struct {
	// Path is a local CSV file.
	Path string `mapstructure:"path" default:""`
	// Object is a CSV object in the storage bucket.
	Object string `mapstructure:"object" default:""`
	// URL is a CSV document served over HTTP, e.g. a published export link.
	URL string `mapstructure:"url" default:""`
	// SpreadsheetID is a Google Sheets document read through the Sheets API.
	SpreadsheetID string `mapstructure:"spreadsheet_id" default:""`
	// Worksheet is the worksheet title; empty reads the first worksheet.
	Worksheet string `mapstructure:"worksheet" default:""`
	// CredentialsFile is a service account JSON key. It wins over TokenFile.
	CredentialsFile string `mapstructure:"credentials_file" default:""`
	// TokenFile is an authorized user token, or a directory holding
	// token.json or authorized_user.json.
	TokenFile string `mapstructure:"token_file" default:""`
	// Endpoint overrides the Sheets API root.
	Endpoint string `mapstructure:"endpoint" default:""`
	// WriteBack adds the merged price worksheet to SpreadsheetID.
	WriteBack bool `mapstructure:"write_back" default:"true"`
	// TimeoutSeconds bounds HTTP downloads and API calls.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Source kinds reported by Config.Source.
const (
	SourceNone   = ""
	SourcePath   = "path"
	SourceObject = "object"
	SourceURL    = "url"
	SourceSheets = "spreadsheet"
)

// Source returns the kind of the configured source.
func (c Config) Source() string {
	switch {
	case c.Path != "":
		return SourcePath
	case c.Object != "":
		return SourceObject
	case c.URL != "":
		return SourceURL
	case c.SpreadsheetID != "":
		return SourceSheets
	default:
		return SourceNone
	}
}
