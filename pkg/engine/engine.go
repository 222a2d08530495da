// Package engine provides a uniform transactional interface over
// heterogeneous relational databases (SQL Server, PostgreSQL, MySQL).
//
// Migration scripts write statements once, using `?` parameter markers, and
// select the target engine purely by configuration. The per-engine adapters
// normalize driver differences (connection string format, placeholder syntax,
// error surface) behind one contract; Conn and WithTransaction own the
// transaction lifecycle.
package engine

import (
	"fmt"
	"strings"
)

// Kind identifies a supported database engine.
type Kind string

const (
	SQLServer  Kind = "sqlserver"
	PostgreSQL Kind = "postgresql"
	MySQL      Kind = "mysql"
)

// kindAliases maps accepted configuration spellings to a Kind.
var kindAliases = map[string]Kind{
	"sqlserver":  SQLServer,
	"mssql":      SQLServer,
	"sqlsrv":     SQLServer,
	"postgresql": PostgreSQL,
	"postgres":   PostgreSQL,
	"mysql":      MySQL,
}

// ParseKind converts a configuration selector string into a Kind.
// Matching is case-insensitive and accepts common aliases
// ("mssql" for sqlserver, "postgres" for postgresql).
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", &ConfigurationError{
		Reason: fmt.Sprintf("unsupported engine %q (supported: sqlserver, postgresql, mysql)", s),
	}
}

// DefaultPort returns the conventional port for the engine.
func (k Kind) DefaultPort() int {
	switch k {
	case SQLServer:
		return 1433
	case PostgreSQL:
		return 5432
	case MySQL:
		return 3306
	default:
		return 0
	}
}

// DisplayName returns a human-readable engine name for logs and errors.
func (k Kind) DisplayName() string {
	switch k {
	case SQLServer:
		return "Microsoft SQL Server"
	case PostgreSQL:
		return "PostgreSQL"
	case MySQL:
		return "MySQL"
	default:
		return string(k)
	}
}

// Params holds the resolved connection parameters for one target database.
// It is constructed once from configuration and never mutated; the engine
// core never reads ambient process state.
type Params struct {
	Engine   Kind
	Host     string
	Port     int // 0 means use the engine default
	Database string
	User     string
	Password string

	// Options carries engine-specific driver options (e.g. sslmode, encrypt)
	// passed through to the adapter untouched.
	Options map[string]string
}

// validate checks the parameters before any network attempt.
func (p Params) validate() error {
	if _, ok := kindAliases[string(p.Engine)]; !ok {
		return &ConfigurationError{
			Reason: fmt.Sprintf("unsupported engine %q (supported: sqlserver, postgresql, mysql)", string(p.Engine)),
		}
	}
	var missing []string
	if p.Host == "" {
		missing = append(missing, "host")
	}
	if p.Database == "" {
		missing = append(missing, "database")
	}
	if p.User == "" {
		missing = append(missing, "user")
	}
	if len(missing) > 0 {
		return &ConfigurationError{
			Reason: fmt.Sprintf("missing required connection parameters: %s", strings.Join(missing, ", ")),
		}
	}
	if p.Port < 0 || p.Port > 65535 {
		return &ConfigurationError{Reason: fmt.Sprintf("invalid port: %d", p.Port)}
	}
	return nil
}

// descriptor normalizes the parameters into the form adapters consume,
// injecting the engine default port when none was configured.
func (p Params) descriptor() Descriptor {
	d := Descriptor{
		Host:     p.Host,
		Port:     p.Port,
		Database: p.Database,
		User:     p.User,
		Password: p.Password,
		Options:  p.Options,
	}
	if d.Port == 0 {
		d.Port = p.Engine.DefaultPort()
	}
	return d
}

// Descriptor is the normalized connection descriptor handed to an adapter.
// The port is always resolved; adapters never apply defaults themselves.
type Descriptor struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Options  map[string]string
}

// Option returns the named driver option, or fallback if it is unset.
func (d Descriptor) Option(name, fallback string) string {
	if v, ok := d.Options[name]; ok && v != "" {
		return v
	}
	return fallback
}
