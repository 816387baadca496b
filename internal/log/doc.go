// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard
// slog package.
//
// The service handles two classes of secrets: its own configuration
// (admin password hashes, the wipe key, session tokens) and the evidence
// it ingests (extracted passwords and credentials). Neither may appear
// in log output, because ingestion logs are routinely attached to case
// files and shared between investigators.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//
//	logger.Info("credential stored",
//	    "username", "ana.pop",
//	    "password", "hunter2", // masked before output
//	)
//
//	slog.SetDefault(logger)
package log
