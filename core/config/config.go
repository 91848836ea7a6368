package config

import (
	"reflect"
	"strings"

	"collection-merge/core/database"
	"collection-merge/core/logger"
	"collection-merge/core/notion"
	"collection-merge/core/output"
	"collection-merge/core/reconcile"
	"collection-merge/core/server"
	"collection-merge/core/sheet"
	"collection-merge/core/storage"
	"collection-merge/feature/prices"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the collection database.
	Database database.Config `mapstructure:"database"`
	// Match configures the merge engine.
	Match reconcile.Config `mapstructure:"match"`
	// Notion configures the primary set source.
	Notion notion.Config `mapstructure:"notion"`
	// Sheet configures the reference set source.
	Sheet sheet.Config `mapstructure:"sheet"`
	// Output selects where run outputs are written.
	Output output.Config `mapstructure:"output"`
	// Prices configures price synchronisation.
	Prices prices.Config `mapstructure:"prices"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. MATCH_FUZZY_THRESHOLD -> match.fuzzy_threshold)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags. List defaults are comma separated.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
