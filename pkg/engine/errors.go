package engine

import "fmt"

// ConfigurationError reports bad or missing connection parameters, detected
// before any I/O. Retrying without fixing the configuration is pointless.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ConnectionError reports a native connect failure (auth, network, DNS).
// The caller may retry with backoff; this layer does not.
type ConnectionError struct {
	Engine Kind
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Engine.DisplayName(), e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ExecutionError reports a statement failure on an established connection.
// Code carries the engine-native error identifier (SQLSTATE for PostgreSQL,
// error number for SQL Server and MySQL) when the driver exposes one; the
// original driver error remains reachable through errors.As via Unwrap.
type ExecutionError struct {
	Engine Kind
	Op     string // "execute", "begin", "commit", "rollback"
	Code   string
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s on %s failed (code %s): %v", e.Op, e.Engine.DisplayName(), e.Code, e.Err)
	}
	return fmt.Sprintf("%s on %s failed: %v", e.Op, e.Engine.DisplayName(), e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// StateError reports an operation attempted on a closed connection.
// It indicates a caller bug and is always fatal to the current call.
type StateError struct {
	Op string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s called on closed connection", e.Op)
}
