package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/everline-data/sqlbridge/pkg/apperrors"
	"github.com/everline-data/sqlbridge/pkg/engine"
)

// Workbook layout: three sheets with one data column each, rows positionally
// aligned across sheets. Row 1 is a header on every sheet.
const (
	sheetUsers     = "Users"
	sheetRoles     = "Roles"
	sheetCustomers = "Customers"
)

// PermissionRow is one aligned row across the three sheets.
type PermissionRow struct {
	Email        string
	RoleName     string
	CustomerName string
}

// ReadWorkbook reads the Users/Roles/Customers sheets and combines them into
// aligned rows. When the sheets disagree on length, the extra rows are
// dropped with a warning, matching how the source workbooks are maintained.
func ReadWorkbook(path string, logger *zap.Logger) ([]PermissionRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	users, err := readColumn(f, sheetUsers)
	if err != nil {
		return nil, err
	}
	roles, err := readColumn(f, sheetRoles)
	if err != nil {
		return nil, err
	}
	customers, err := readColumn(f, sheetCustomers)
	if err != nil {
		return nil, err
	}

	n := min(len(users), len(roles), len(customers))
	if len(users) != len(roles) || len(roles) != len(customers) {
		logger.Warn("sheet row counts differ, truncating to shortest",
			zap.Int("users", len(users)),
			zap.Int("roles", len(roles)),
			zap.Int("customers", len(customers)),
			zap.Int("rows_used", n))
	}

	rows := make([]PermissionRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, PermissionRow{
			Email:        users[i],
			RoleName:     roles[i],
			CustomerName: customers[i],
		})
	}

	logger.Info("workbook read", zap.String("path", path), zap.Int("rows", len(rows)))
	return rows, nil
}

// readColumn returns the first column of a sheet, header row skipped, empty
// cells dropped.
func readColumn(f *excelize.File, sheet string) ([]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		var sheetErr excelize.ErrSheetNotExist
		if errors.As(err, &sheetErr) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrMissingSheet, sheet)
		}
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	var values []string
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		values = append(values, row[0])
	}
	return values, nil
}

// importStats summarizes one import run.
type importStats struct {
	Inserted int
	Skipped  int
	Failed   int
}

// importPermissions resolves each row's ids and inserts the permission when
// it does not exist yet. Rows whose natural keys cannot be resolved are
// logged and skipped; statement failures abort the run so the enclosing
// transaction rolls back.
func importPermissions(ctx context.Context, conn *engine.Conn, rows []PermissionRow, logger *zap.Logger) (importStats, error) {
	var stats importStats

	for i, row := range rows {
		rowNum := i + 1

		userID, err := resolveID(ctx, conn, "SELECT id FROM users WHERE email = ?", row.Email)
		if err != nil {
			if skipped := skipUnresolved(logger, rowNum, "user", row.Email, err); skipped {
				stats.Failed++
				continue
			}
			return stats, err
		}

		roleID, err := resolveID(ctx, conn, "SELECT id FROM roles WHERE name = ?", row.RoleName)
		if err != nil {
			if skipped := skipUnresolved(logger, rowNum, "role", row.RoleName, err); skipped {
				stats.Failed++
				continue
			}
			return stats, err
		}

		customerID, err := resolveID(ctx, conn, "SELECT id FROM customers WHERE name = ?", row.CustomerName)
		if err != nil {
			if skipped := skipUnresolved(logger, rowNum, "customer", row.CustomerName, err); skipped {
				stats.Failed++
				continue
			}
			return stats, err
		}

		exists, err := permissionExists(ctx, conn, userID, roleID, customerID)
		if err != nil {
			return stats, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if exists {
			stats.Skipped++
			logger.Debug("permission already exists, skipping",
				zap.Int("row", rowNum), zap.String("email", row.Email))
			continue
		}

		_, err = conn.Execute(ctx,
			"INSERT INTO customer_permissions (user_id, role_id, customer_id, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)",
			userID, roleID, customerID)
		if err != nil {
			return stats, fmt.Errorf("row %d: %w", rowNum, err)
		}

		stats.Inserted++
		logger.Info("permission inserted",
			zap.Int("row", rowNum),
			zap.String("email", row.Email),
			zap.String("role", row.RoleName),
			zap.String("customer", row.CustomerName))
	}

	return stats, nil
}

// skipUnresolved reports whether the error is a missing natural key (logged
// and survivable) as opposed to a statement failure that must abort the run.
func skipUnresolved(logger *zap.Logger, rowNum int, entity, key string, err error) bool {
	if !errors.Is(err, apperrors.ErrNotFound) {
		return false
	}
	logger.Error("skipping row: referenced record not found",
		zap.Int("row", rowNum),
		zap.String("entity", entity),
		zap.String("key", key))
	return true
}

// resolveID looks up a single id by natural key.
func resolveID(ctx context.Context, conn *engine.Conn, query string, key string) (any, error) {
	res, err := conn.Execute(ctx, query, key)
	if err != nil {
		return nil, err
	}
	row, ok := res.First()
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, key)
	}
	return row[res.Columns[0]], nil
}

func permissionExists(ctx context.Context, conn *engine.Conn, userID, roleID, customerID any) (bool, error) {
	res, err := conn.Execute(ctx,
		"SELECT COUNT(*) FROM customer_permissions WHERE user_id = ? AND role_id = ? AND customer_id = ?",
		userID, roleID, customerID)
	if err != nil {
		return false, err
	}
	row, ok := res.First()
	if !ok {
		return false, nil
	}

	count, err := asInt64(row[res.Columns[0]])
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// asInt64 normalizes the COUNT(*) value, which drivers report as different
// numeric (or textual) types.
func asInt64(v any) (int64, error) {
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
