package output

// Config selects where run outputs are written.
type Config struct {
	// Target is dir or storage.
	Target string `mapstructure:"target" default:"dir"`
	// Dir is the local output directory for the dir target.
	Dir string `mapstructure:"dir" default:"data"`
	// Prefix is the object key prefix for the storage target.
	Prefix string `mapstructure:"prefix" default:"merge"`
}

const (
	TargetDir     = "dir"
	TargetStorage = "storage"
)
