package storage

// Config holds the object storage settings. The bucket serves sheet exports
// (sheet.object) and merge outputs (output.target=storage).
type Config struct {
	// Endpoint is host:port of the S3 compatible service; a scheme is stripped.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket is created on demand by the storage output sink.
	Bucket string `mapstructure:"bucket" default:"collection"`
	// Region is passed to bucket creation; empty uses the server default.
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, TLS handshakes and response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
