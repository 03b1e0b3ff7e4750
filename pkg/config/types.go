package config

// Store kinds.
const (
	StoreFile    = "file"
	StoreDir     = "dir"
	StoreZip     = "zip"
	StoreSandbox = "sandbox"
	StoreMemory  = "memory"
)

// DefaultStorePath is where file stores live when no path is configured.
const DefaultStorePath = "testdata/fixtures"

// Config is the top-level configuration file.
type Config struct {
	// Mode is one of online, capture, replay or automatic. Empty means replay.
	Mode      string          `json:"mode,omitempty" yaml:"mode,omitempty"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Callbacks CallbacksConfig `json:"callbacks,omitempty" yaml:"callbacks,omitempty"`
	Logging   LoggingConfig   `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// StoreConfig selects the fixture backend.
type StoreConfig struct {
	// Kind is file, dir, zip, sandbox or memory. Empty means file.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Path is the directory (file, dir) or archive (zip).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// App names the sandbox directory.
	App string `json:"app,omitempty" yaml:"app,omitempty"`

	// CaseInsensitive matches fixture names ignoring case (dir only; zip
	// archives always do).
	CaseInsensitive bool `json:"caseInsensitive,omitempty" yaml:"caseInsensitive,omitempty"`
}

// CallbacksConfig configures the callback policy.
type CallbacksConfig struct {
	// FilterSensitive drops common credential parameters. Defaults to true.
	FilterSensitive *bool `json:"filterSensitive,omitempty" yaml:"filterSensitive,omitempty"`

	// SetHeaderDate rewrites stored Date headers on load. Defaults to true.
	SetHeaderDate *bool `json:"setHeaderDate,omitempty" yaml:"setHeaderDate,omitempty"`

	// FilterParameters are additional parameter names to drop.
	FilterParameters []string `json:"filterParameters,omitempty" yaml:"filterParameters,omitempty"`

	// FilterExpression is a boolean expression over name and value; a
	// parameter is dropped when it evaluates to true.
	FilterExpression string `json:"filterExpression,omitempty" yaml:"filterExpression,omitempty"`

	// RedactPaths are JSONPath expressions redacted from captured JSON bodies.
	RedactPaths []string `json:"redactPaths,omitempty" yaml:"redactPaths,omitempty"`

	// RedactValue replaces redacted values. Defaults to redact.DefaultReplacement.
	RedactValue string `json:"redactValue,omitempty" yaml:"redactValue,omitempty"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level     string `json:"level,omitempty" yaml:"level,omitempty"`
	Format    string `json:"format,omitempty" yaml:"format,omitempty"`
	AddSource bool   `json:"addSource,omitempty" yaml:"addSource,omitempty"`
}

// Default returns a replay configuration over DefaultStorePath.
func Default() *Config {
	return &Config{
		Mode: "replay",
		Store: StoreConfig{
			Kind: StoreFile,
			Path: DefaultStorePath,
		},
	}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
