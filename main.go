// sqlbridge executes a SQL script against the configured database inside a
// single transaction: either every statement commits or none do.
//
// Usage:
//
//	sqlbridge script.sql
//	sqlbridge -e "SELECT COUNT(*) FROM users"
//
// Connection settings come from .env, config.yaml, or the environment
// (DB_ENGINE, DB_SERVER, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD). Results of
// row-returning statements are printed as JSON, one document per statement.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/everline-data/sqlbridge/pkg/config"
	"github.com/everline-data/sqlbridge/pkg/engine"
	"github.com/everline-data/sqlbridge/pkg/logging"
	"github.com/everline-data/sqlbridge/pkg/retry"

	_ "github.com/everline-data/sqlbridge/pkg/engine/mssql"
	_ "github.com/everline-data/sqlbridge/pkg/engine/mysql"
	_ "github.com/everline-data/sqlbridge/pkg/engine/postgres"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	statement := flag.String("e", "", "execute a single statement instead of a script file")
	flag.Parse()

	if err := run(*statement, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "sqlbridge: %v\n", err)
		os.Exit(1)
	}
}

func run(statement string, args []string) error {
	var script string
	switch {
	case statement != "" && len(args) > 0:
		return fmt.Errorf("pass either -e or a script file, not both")
	case statement != "":
		script = statement
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		script = string(data)
	default:
		return fmt.Errorf("usage: sqlbridge [-e statement] [script.sql]")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	params, err := cfg.Params()
	if err != nil {
		return err
	}

	stmts := engine.SplitStatements(script)
	if len(stmts) == 0 {
		return fmt.Errorf("script contains no statements")
	}

	logger.Info("running script",
		zap.String("engine", string(params.Engine)),
		zap.String("version", Version),
		zap.Int("statements", len(stmts)))

	ctx := context.Background()

	// A failed transaction rolls back completely, so retrying the whole run
	// on a transient error cannot duplicate work. Output is held back until
	// the transaction commits.
	var results []*engine.Result
	err = retry.DoIfRetryable(ctx, retry.DefaultConfig(), func() error {
		results = results[:0]
		return engine.WithTransaction(ctx, params, logger, func(ctx context.Context, conn *engine.Conn) error {
			for _, stmt := range stmts {
				res, err := conn.Execute(ctx, stmt)
				if err != nil {
					return err
				}
				if len(res.Columns) > 0 {
					results = append(results, res)
				} else {
					logger.Info("statement executed",
						zap.Int64("rows_affected", res.RowsAffected))
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	return nil
}
