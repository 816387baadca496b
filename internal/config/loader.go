package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = "celltrace.yml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the celltrace.yml configuration file.
// Every field is optional; unset fields keep the built-in defaults.
// Secrets (admin hash, wipe key) are better supplied via environment
// variables, but the file accepts them for single-operator deployments.
type File struct {
	ListenAddr        string   `yaml:"listen_addr,omitempty"`
	StorageRoot       string   `yaml:"storage_root,omitempty"`
	DBDir             string   `yaml:"db_dir,omitempty"`
	CORSOrigins       []string `yaml:"cors_origins,omitempty"`
	AdminUsername     string   `yaml:"admin_username,omitempty"`
	AdminPasswordHash string   `yaml:"admin_password_hash,omitempty"`
	WipeKey           string   `yaml:"wipe_key,omitempty"`
	Verbose           *bool    `yaml:"verbose,omitempty"`
	BatchSize         int      `yaml:"batch_size,omitempty"`
	Concurrency       int      `yaml:"concurrency,omitempty"`
	MaxUploadSize     int64    `yaml:"max_upload_size,omitempty"`
}

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for celltrace.yml in the current directory
// 3. Look for celltrace.yml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check XDG config directory
	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// ApplyFile overlays the non-zero values of a loaded config file onto c.
func (c *Config) ApplyFile(cf *File) {
	if cf == nil {
		return
	}
	if cf.ListenAddr != "" {
		c.ListenAddr = cf.ListenAddr
	}
	if cf.StorageRoot != "" {
		c.StorageRoot = cf.StorageRoot
	}
	if cf.DBDir != "" {
		c.DBDir = cf.DBDir
	}
	if len(cf.CORSOrigins) > 0 {
		c.CORSOrigins = cf.CORSOrigins
	}
	if cf.AdminUsername != "" {
		c.AdminUsername = cf.AdminUsername
	}
	if cf.AdminPasswordHash != "" {
		c.AdminPasswordHash = cf.AdminPasswordHash
	}
	if cf.WipeKey != "" {
		c.WipeKey = cf.WipeKey
	}
	if cf.Verbose != nil {
		c.Verbose = *cf.Verbose
	}
	if cf.BatchSize > 0 {
		c.BatchSize = cf.BatchSize
	}
	if cf.Concurrency > 0 {
		c.Concurrency = cf.Concurrency
	}
	if cf.MaxUploadSize > 0 {
		c.MaxUploadSize = cf.MaxUploadSize
	}
}

// Environment variable names recognized by ApplyEnv.
// Environment overrides take precedence over the config file, so secrets
// can live outside any file checked into a deployment.
const (
	EnvListenAddr        = "CELLTRACE_LISTEN_ADDR"
	EnvStorageRoot       = "CELLTRACE_STORAGE_ROOT"
	EnvDBDir             = "CELLTRACE_DB_DIR"
	EnvCORSOrigins       = "CELLTRACE_CORS_ORIGINS"
	EnvAdminUsername     = "CELLTRACE_ADMIN_USERNAME"
	EnvAdminPasswordHash = "CELLTRACE_ADMIN_PASSWORD_HASH"
	EnvWipeKey           = "CELLTRACE_WIPE_KEY"
	EnvVerbose           = "CELLTRACE_VERBOSE"
	EnvBatchSize         = "CELLTRACE_BATCH_SIZE"
	EnvConcurrency       = "CELLTRACE_CONCURRENCY"
)

// ApplyEnv overlays environment variables onto c. A .env file in the
// current directory is loaded first if present; real environment
// variables win over .env entries per godotenv semantics.
func (c *Config) ApplyEnv() {
	// Missing .env is the common case and not an error.
	_ = godotenv.Load()

	if v := os.Getenv(EnvListenAddr); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv(EnvStorageRoot); v != "" {
		c.StorageRoot = v
	}
	if v := os.Getenv(EnvDBDir); v != "" {
		c.DBDir = v
	}
	if v := os.Getenv(EnvCORSOrigins); v != "" {
		origins := strings.Split(v, ",")
		c.CORSOrigins = c.CORSOrigins[:0]
		for _, origin := range origins {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.CORSOrigins = append(c.CORSOrigins, origin)
			}
		}
	}
	if v := os.Getenv(EnvAdminUsername); v != "" {
		c.AdminUsername = v
	}
	if v := os.Getenv(EnvAdminPasswordHash); v != "" {
		c.AdminPasswordHash = v
	}
	if v := os.Getenv(EnvWipeKey); v != "" {
		c.WipeKey = v
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		if verbose, err := strconv.ParseBool(v); err == nil {
			c.Verbose = verbose
		}
	}
	if v := os.Getenv(EnvBatchSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.BatchSize = n
		}
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Concurrency = n
		}
	}
}

// Load builds the effective configuration: defaults, then the config
// file (if found), then environment variables.
func Load(configPath string) (*Config, error) {
	c := NewConfig()
	c.ConfigFilePath = configPath

	if path := FindConfigFile(configPath); path != "" {
		cf, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		c.ApplyFile(cf)
		c.ConfigFilePath = path
	} else if configPath != "" {
		// An explicitly named file that does not exist is an error;
		// silently ignoring it would hide typos.
		return nil, ErrConfigNotFound
	}

	c.ApplyEnv()
	return c, nil
}
