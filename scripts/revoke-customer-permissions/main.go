// revoke-customer-permissions removes all customer permission grants for the
// given user emails. The counterpart to import-customer-permissions, used
// when access granted from a stale workbook has to be withdrawn.
//
// All deletions run in a single transaction. By default the script only
// reports what it would delete; pass -dry-run=false to actually delete.
//
// Usage: go run ./scripts/revoke-customer-permissions [-dry-run=false] <email> [email ...]
//
// Database connection: same DB_* environment variables as the import script.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/everline-data/sqlbridge/pkg/apperrors"
	"github.com/everline-data/sqlbridge/pkg/config"
	"github.com/everline-data/sqlbridge/pkg/engine"
	"github.com/everline-data/sqlbridge/pkg/logging"

	_ "github.com/everline-data/sqlbridge/pkg/engine/mssql"
	_ "github.com/everline-data/sqlbridge/pkg/engine/mysql"
	_ "github.com/everline-data/sqlbridge/pkg/engine/postgres"
)

func main() {
	dryRun := flag.Bool("dry-run", true, "report what would be deleted without deleting")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [-dry-run=false] <email> [email ...]\n", os.Args[0])
		os.Exit(1)
	}

	if err := run(*dryRun, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "revoke failed: %v\n", err)
		os.Exit(1)
	}
}

func run(dryRun bool, emails []string) error {
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
		zap.String("migration", "revoke-customer-permissions"),
		zap.String("run_id", uuid.NewString()),
		zap.Bool("dry_run", dryRun))

	params, err := cfg.Params()
	if err != nil {
		return err
	}

	ctx := context.Background()

	var total int64
	err = engine.WithTransaction(ctx, params, logger, func(ctx context.Context, conn *engine.Conn) error {
		for _, email := range emails {
			removed, err := revoke(ctx, conn, email, dryRun)
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("no such user, skipping", zap.String("email", email))
				continue
			}
			if err != nil {
				return fmt.Errorf("revoke %s: %w", email, err)
			}
			logger.Info("permissions revoked",
				zap.String("email", email),
				zap.Int64("grants", removed))
			total += removed
		}
		return nil
	})
	if err != nil {
		logger.Error("revoke failed, transaction rolled back", zap.Error(err))
		return err
	}

	if dryRun {
		logger.Info("dry run complete, nothing deleted; re-run with -dry-run=false",
			zap.Int64("grants_found", total))
	} else {
		logger.Info("revoke completed", zap.Int64("grants_deleted", total))
	}
	return nil
}

// revoke removes the user's grants, or merely counts them in dry-run mode.
func revoke(ctx context.Context, conn *engine.Conn, email string, dryRun bool) (int64, error) {
	res, err := conn.Execute(ctx, "SELECT id FROM users WHERE email = ?", email)
	if err != nil {
		return 0, err
	}
	row, ok := res.First()
	if !ok {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrNotFound, email)
	}
	userID := row[res.Columns[0]]

	if dryRun {
		res, err = conn.Execute(ctx,
			"SELECT COUNT(*) FROM customer_permissions WHERE user_id = ?", userID)
		if err != nil {
			return 0, err
		}
		row, ok = res.First()
		if !ok {
			return 0, nil
		}
		return countValue(row[res.Columns[0]])
	}

	res, err = conn.Execute(ctx,
		"DELETE FROM customer_permissions WHERE user_id = ?", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// countValue normalizes the COUNT(*) value across drivers.
func countValue(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
}
