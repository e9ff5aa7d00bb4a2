package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

var levelColumns = []string{"lv", "xp", "level_name", "level_icon", "privileges"}

// SeedReport describes one seeding run.
type SeedReport struct {
	Inserted int64 // Rows actually added by this run
	Total    int   // Rows in the table afterwards
}

// SeedStep identifies a completed stage of SeedLevelTable.
type SeedStep int

const (
	SeedTableReady     SeedStep = iota + 1 // xp_lv exists
	SeedLevelsInserted                     // missing levels inserted
	SeedCounted                            // rows counted
)

// SeedOption configures SeedLevelTable.
type SeedOption func(*seedOptions)

type seedOptions struct {
	progress func(SeedStep, SeedReport)
}

// WithSeedProgress calls fn after each completed stage with the report
// filled in so far.
func WithSeedProgress(fn func(SeedStep, SeedReport)) SeedOption {
	return func(o *seedOptions) {
		o.progress = fn
	}
}

// SeedLevelTable creates xp_lv if needed, inserts any of levels whose lv
// is not present yet, and counts the result. Existing rows are never
// modified, so running it again is a no-op.
func (db *DB) SeedLevelTable(ctx context.Context, levels []Level, opts ...SeedOption) (SeedReport, error) {
	o := seedOptions{progress: func(SeedStep, SeedReport) {}}
	for _, opt := range opts {
		opt(&o)
	}

	var report SeedReport

	if err := db.EnsureLevelTable(ctx); err != nil {
		return report, err
	}
	o.progress(SeedTableReady, report)

	inserted, err := db.InsertLevels(ctx, levels)
	if err != nil {
		return report, err
	}
	report.Inserted = inserted
	o.progress(SeedLevelsInserted, report)

	total, err := db.CountLevels(ctx)
	if err != nil {
		return report, err
	}
	report.Total = total
	o.progress(SeedCounted, report)

	db.logger.Info("level table seeded",
		zap.Int64("inserted", report.Inserted),
		zap.Int("total", report.Total),
	)
	return report, nil
}

// EnsureLevelTable runs CREATE TABLE IF NOT EXISTS for xp_lv.
func (db *DB) EnsureLevelTable(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, db.dialect.CreateLevelTable()); err != nil {
		return fmt.Errorf("create %s table: %w", LevelTable, err)
	}
	db.logger.Debug("level table ensured", zap.String("dialect", string(db.dialect)))
	return nil
}

// InsertLevels inserts levels in one statement, skipping any lv that
// already exists. It returns the number of rows actually inserted.
func (db *DB) InsertLevels(ctx context.Context, levels []Level) (int64, error) {
	if len(levels) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(levels)*len(levelColumns))
	for _, l := range levels {
		privs, err := json.Marshal(l.Privileges)
		if err != nil {
			return 0, fmt.Errorf("encode privileges for level %d: %w", l.Lv, err)
		}
		args = append(args, l.Lv, l.XP, l.LevelName, l.LevelIcon, string(privs))
	}

	query := db.dialect.InsertIgnore(LevelTable, levelColumns, len(levels))

	var inserted int64
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert levels: %w", err)
		}
		inserted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// CountLevels returns the number of rows in xp_lv.
func (db *DB) CountLevels(ctx context.Context) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM " + db.dialect.Quote(LevelTable)
	if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count levels: %w", err)
	}
	return count, nil
}

// ListLevels returns every level ordered by lv.
func (db *DB) ListLevels(ctx context.Context) ([]Level, error) {
	query := fmt.Sprintf("SELECT lv, xp, level_name, level_icon, privileges FROM %s ORDER BY lv",
		db.dialect.Quote(LevelTable))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query levels: %w", err)
	}
	defer rows.Close()

	var levels []Level
	for rows.Next() {
		var l Level
		var privs sql.NullString
		if err := rows.Scan(&l.Lv, &l.XP, &l.LevelName, &l.LevelIcon, &privs); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		if privs.Valid && privs.String != "" {
			if err := json.Unmarshal([]byte(privs.String), &l.Privileges); err != nil {
				return nil, fmt.Errorf("decode privileges for level %d: %w", l.Lv, err)
			}
		}
		levels = append(levels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate levels: %w", err)
	}

	return levels, nil
}
