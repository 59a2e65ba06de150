package types

// Config holds backend selection and parameters for opening a ledger.
type Config struct {
	Backend       string        `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir       string        `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	StrictUpdates bool          `json:"strict_updates" yaml:"strict_updates" mapstructure:"strict_updates"`
	Legacy        LegacyConfig  `json:"legacy" yaml:"legacy" mapstructure:"legacy"`
	Log           LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Metrics       MetricsConfig `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// LegacyConfig selects where the pre-migration record cache lives.
type LegacyConfig struct {
	Backend   string `json:"backend" yaml:"backend" mapstructure:"backend"`
	Key       string `json:"key" yaml:"key" mapstructure:"key"`
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisDB   int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty" mapstructure:"redis_db"`
}

// LogConfig controls the zap logger built by the CLI.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// MetricsConfig controls metrics export. An empty Textfile disables export.
type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty" mapstructure:"textfile"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Supported legacy cache backends.
const (
	LegacyFile   = "file"
	LegacyRedis  = "redis"
	LegacyMemory = "memory"
)

// DefaultLegacyKey is the slot name the mobile app cached records under.
const DefaultLegacyKey = "workRecords"

// Supported log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

var knownBackends = map[string]bool{
	BackendSQLite: true,
}

var knownLegacyBackends = map[string]bool{
	LegacyFile:   true,
	LegacyRedis:  true,
	LegacyMemory: true,
}

var knownLogFormats = map[string]bool{
	LogFormatConsole: true,
	LogFormatJSON:    true,
}

// DefaultConfig returns a Config with every optional field filled in.
// DataDir is left empty; callers resolve it from flags and environment.
func DefaultConfig() Config {
	return Config{
		Backend: BackendSQLite,
		Legacy: LegacyConfig{
			Backend: LegacyFile,
			Key:     DefaultLegacyKey,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: LogFormatConsole,
		},
	}
}

// WithDefaults returns a copy of c with empty optional fields set to their
// defaults. Backend is left alone so Validate still reports it.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Legacy.Backend == "" {
		c.Legacy.Backend = d.Legacy.Backend
	}
	if c.Legacy.Key == "" {
		c.Legacy.Key = d.Legacy.Key
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownLegacyBackends[c.Legacy.Backend] {
		return ErrLegacyBackendUnknown
	}
	if c.Legacy.Key == "" {
		return ErrLegacyKeyEmpty
	}
	if c.Legacy.Backend == LegacyRedis && c.Legacy.RedisAddr == "" {
		return ErrRedisAddrEmpty
	}
	if c.Log.Format != "" && !knownLogFormats[c.Log.Format] {
		return ErrLogFormatUnknown
	}
	return nil
}
