package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoListenAddr is returned when the HTTP listen address is empty.
	ErrNoListenAddr = errors.New("no listen address: set listen_addr or --listen")

	// ErrNoStorageRoot is returned when the photo storage directory is empty.
	ErrNoStorageRoot = errors.New("no storage root: set storage_root or --storage")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would reject every batch ingestion request.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidConcurrency is returned when the ingestion concurrency is
	// not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxUploadSize is returned when the max upload size is
	// negative. Use 0 to fall back to the default limit.
	ErrInvalidMaxUploadSize = errors.New("invalid max upload size: must be non-negative")

	// ErrMissingAdminPassword is returned when an admin username is set
	// without a matching bcrypt password hash.
	ErrMissingAdminPassword = errors.New("admin username set without admin password hash")
)
