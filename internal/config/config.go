package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "celltrace"

	// DefaultListenAddr is the default HTTP listen address. The service
	// binds to localhost only; evidence data must not be exposed on the
	// network without a deliberate override.
	DefaultListenAddr = "127.0.0.1:8085"

	// DefaultBatchSize is the number of archives accepted per batch
	// ingestion request. Archives beyond this count are rejected so a
	// single upload cannot exhaust disk or memory.
	DefaultBatchSize = 10

	// DefaultConcurrency is the number of archives processed in parallel
	// during batch ingestion. Parsing is CPU-bound and SQLite writes are
	// serialized, so modest parallelism captures most of the benefit.
	DefaultConcurrency = 4

	// DefaultMaxUploadSize limits a single uploaded archive.
	// Full-filesystem extractions are excluded by policy; report archives
	// stay well under this.
	DefaultMaxUploadSize = 2 * 1024 * 1024 * 1024 // 2GB
)

// Config holds all configuration options for the service.
// This struct is populated from the config file, environment variables,
// and CLI flags, then passed through the application via dependency
// injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ServerConfig, IngestConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// ListenAddr is the HTTP server bind address in "host:port" format.
	ListenAddr string

	// StorageRoot is the directory where extracted photos and profile
	// images are stored, organized per case and suspect.
	// Defaults to the XDG data directory.
	StorageRoot string

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// CORSOrigins lists the origins allowed to call the HTTP API from a
	// browser. Empty means same-origin only.
	CORSOrigins []string

	// AdminUsername is the username for the admin login endpoint.
	AdminUsername string

	// AdminPasswordHash is the bcrypt hash of the admin password.
	// The plaintext password is never stored in configuration.
	AdminPasswordHash string

	// WipeKey authorizes the destructive wipe endpoint. When empty the
	// endpoint is disabled entirely.
	WipeKey string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// BatchSize is the maximum number of archives accepted per batch
	// ingestion request.
	BatchSize int

	// Concurrency is the number of archives processed in parallel during
	// batch ingestion.
	Concurrency int

	// MaxUploadSize is the maximum size in bytes of one uploaded archive.
	// Set to 0 to use the default.
	MaxUploadSize int64

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for celltrace.yml in the current
	// directory and then in the XDG config directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., listen address,
// batch limits). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		ListenAddr:    DefaultListenAddr,
		StorageRoot:   filepath.Join(XDGDataDir(), "storage"),
		DBDir:         XDGDataDir(),
		BatchSize:     DefaultBatchSize,
		Concurrency:   DefaultConcurrency,
		MaxUploadSize: DefaultMaxUploadSize,
	}
}

// XDGDataDir returns the XDG data directory for the service.
// On Linux: ~/.local/share/celltrace
// On macOS: ~/Library/Application Support/celltrace
// On Windows: %LOCALAPPDATA%\celltrace
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the service.
// On Linux: ~/.config/celltrace
// On macOS: ~/Library/Application Support/celltrace
// On Windows: %APPDATA%\celltrace
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after flag parsing, before the server or any
// ingestion starts.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return ErrNoListenAddr
	}

	if c.StorageRoot == "" {
		return ErrNoStorageRoot
	}

	// BatchSize must be positive; zero would reject every upload
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// Concurrency must be positive; zero would process nothing
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// MaxUploadSize must be non-negative; 0 means use the default
	if c.MaxUploadSize < 0 {
		return ErrInvalidMaxUploadSize
	}

	// An admin username without a password hash would make the login
	// endpoint unconditionally fail
	if c.AdminUsername != "" && c.AdminPasswordHash == "" {
		return ErrMissingAdminPassword
	}

	return nil
}
