// Package logging configures log/slog for policygen.
//
// Loggers write JSON to stderr and carry module and version attributes.
// Debug level adds the source location of each record.
//
// # Log Levels
//
// Supported log levels (case-insensitive): debug, info (default),
// warn/warning, error. An empty level falls back to the LOG_LEVEL
// environment variable:
//
//	LOG_LEVEL=debug policygen generate --channel stable --namespace foo foo foo-operator
//
// # Usage
//
// The CLI installs the default logger before any command runs:
//
//	logging.SetDefaultStructuredLoggerWithLevel("policygen", version, cmd.String("log-level"))
//
// Library packages (pkg/chart, pkg/values, pkg/validator, pkg/oci) then log
// through the slog default with key/value attributes and never print directly:
//
//	slog.Info("label block inserted",
//	    "file", path,
//	    "section", "managedClusterSets",
//	    "subsection", "managed",
//	)
//
// A record looks like:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "policy chart generated",
//	    "module": "policygen",
//	    "version": "v1.0.0",
//	    "component": "cert-manager"
//	}
package logging
