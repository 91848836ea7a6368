package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"collection-merge/core/utils"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrNoCredentials is returned when no Google credentials can be found.
var ErrNoCredentials = errors.New("no google credentials configured")

// tokenFileNames are looked up when TokenFile is a directory.
var tokenFileNames = []string{"token.json", "authorized_user.json"}

// userToken is an authorized user token file as written by the Google
// client libraries' OAuth flow.
type userToken struct {
	Type         string `json:"type"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	TokenURI     string `json:"token_uri"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Expiry       string `json:"expiry"`
}

// newService creates a Sheets API client for scope. A service account key
// wins over a user token; without either, application default credentials
// are used.
func newService(ctx context.Context, cfg Config, scope string) (*sheets.Service, error) {
	ts, err := tokenSource(ctx, cfg, scope)
	if err != nil {
		return nil, err
	}

	opts := []option.ClientOption{
		option.WithHTTPClient(&http.Client{
			Timeout:   cfg.timeout(),
			Transport: &oauth2.Transport{Source: ts},
		}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(cfg.Endpoint, "/")+"/"))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return svc, nil
}

func tokenSource(ctx context.Context, cfg Config, scope string) (oauth2.TokenSource, error) {
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(expandHome(cfg.CredentialsFile))
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, scope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credentials file: %w", err)
		}
		return creds.TokenSource, nil
	}

	if path := findTokenFile(cfg.TokenFile); path != "" {
		return userTokenSource(ctx, path, scope)
	}
	if cfg.TokenFile != "" {
		return nil, fmt.Errorf("%w: token file %s not found", ErrNoCredentials, cfg.TokenFile)
	}

	creds, err := google.FindDefaultCredentials(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCredentials, err)
	}
	return creds.TokenSource, nil
}

// userTokenSource reads an authorized user token. Tokens carrying an access
// token are used until they expire and refreshed afterwards.
func userTokenSource(ctx context.Context, path, scope string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var ut userToken
	if err := json.Unmarshal(data, &ut); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}

	if ut.Token == "" && ut.Type == "authorized_user" {
		creds, err := google.CredentialsFromJSON(ctx, data, scope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
		}
		return creds.TokenSource, nil
	}
	if ut.Token == "" && ut.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token file %s holds no token", ErrNoCredentials, path)
	}

	conf := &oauth2.Config{
		ClientID:     ut.ClientID,
		ClientSecret: ut.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{scope},
	}
	if ut.TokenURI != "" {
		conf.Endpoint.TokenURL = ut.TokenURI
	}

	tok := &oauth2.Token{AccessToken: ut.Token, RefreshToken: ut.RefreshToken, TokenType: "Bearer"}
	if expiry, err := time.Parse(time.RFC3339Nano, ut.Expiry); err == nil {
		tok.Expiry = expiry
	} else if ut.RefreshToken != "" {
		// Unknown expiry: refresh on first use.
		tok.Expiry = time.Unix(1, 0)
	}
	return conf.TokenSource(ctx, tok), nil
}

func findTokenFile(hint string) string {
	if hint == "" {
		return ""
	}
	path := expandHome(hint)
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	if !info.IsDir() {
		return path
	}
	for _, name := range tokenFileNames {
		candidate := filepath.Join(path, name)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate
		}
	}
	return ""
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// a1Sheet quotes a worksheet title for use in an A1 range.
func a1Sheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// cellText renders a cell returned by the Values API.
func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case bool:
		if c {
			return "TRUE"
		}
		return "FALSE"
	default:
		return utils.ToString(c)
	}
}
