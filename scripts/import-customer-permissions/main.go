// import-customer-permissions loads customer permission grants from an Excel
// workbook into the target database.
//
// The workbook has three sheets (Users, Roles, Customers) whose rows are
// positionally aligned; each aligned row grants one role on one customer to
// one user. Inserts are idempotent: a grant that already exists is skipped,
// so the script can be re-run safely. The whole import runs in a single
// transaction and the target engine is selected purely by configuration.
//
// Configuration (from .env, config.yaml, or the environment):
//
//	DB_ENGINE    sqlserver | postgresql | mysql
//	DB_SERVER    database host
//	DB_PORT      optional, engine default when unset
//	DB_NAME      database name
//	DB_USER      login user
//	DB_PASSWORD  login password
//	EXCEL_PATH   path to the workbook
//	LOG_LEVEL    debug | info | warn | error
//
// Usage: go run ./scripts/import-customer-permissions
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/everline-data/sqlbridge/pkg/config"
	"github.com/everline-data/sqlbridge/pkg/engine"
	"github.com/everline-data/sqlbridge/pkg/logging"
	"github.com/everline-data/sqlbridge/pkg/retry"

	_ "github.com/everline-data/sqlbridge/pkg/engine/mssql"
	_ "github.com/everline-data/sqlbridge/pkg/engine/mysql"
	_ "github.com/everline-data/sqlbridge/pkg/engine/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger = logger.With(
		zap.String("migration", "import-customer-permissions"),
		zap.String("run_id", uuid.NewString()))

	params, err := cfg.Params()
	if err != nil {
		return err
	}
	if cfg.ExcelPath == "" {
		return fmt.Errorf("EXCEL_PATH is not set")
	}

	rows, err := ReadWorkbook(cfg.ExcelPath, logger)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		logger.Warn("no data found in workbook, nothing to import")
		return nil
	}

	ctx := context.Background()

	// The import is idempotent and a failed transaction rolls back, so a
	// transient connection drop can safely retry the whole run.
	var stats importStats
	err = retry.DoIfRetryable(ctx, retry.DefaultConfig(), func() error {
		return engine.WithTransaction(ctx, params, logger, func(ctx context.Context, conn *engine.Conn) error {
			var bodyErr error
			stats, bodyErr = importPermissions(ctx, conn, rows, logger)
			return bodyErr
		})
	})
	if err != nil {
		logger.Error("import failed, transaction rolled back", zap.Error(err))
		return err
	}

	logger.Info("import completed",
		zap.Int("rows_processed", len(rows)),
		zap.Int("inserted", stats.Inserted),
		zap.Int("already_present", stats.Skipped),
		zap.Int("unresolved", stats.Failed))
	return nil
}
