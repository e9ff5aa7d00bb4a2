package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testDB opens an in-memory SQLite database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	cfg := Config{
		Driver:          string(SQLite),
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	db, err := Open(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// -----------------------------------------------------------------
// Connection tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
	if db.Dialect() != SQLite {
		t.Errorf("Dialect() = %q, want %q", db.Dialect(), SQLite)
	}
}

func TestOpen_CreatesSQLiteDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "catalog.db")

	db, err := Open(DefaultConfig(string(SQLite), path), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	report, err := db.SeedLevelTable(context.Background(), DefaultLevels())
	require.NoError(t, err)
	assert.Equal(t, 9, report.Total)

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file should exist")
}

func TestOpen_SQLiteDirectoryBlocked(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Open(DefaultConfig(string(SQLite), filepath.Join(blocker, "catalog.db")), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create database directory")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(DefaultConfig("oracle", "whatever"), nil)
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("Open() error = %v, want ErrUnsupportedDriver", err)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	require.NoError(t, db.EnsureLevelTable(ctx))

	boom := errors.New("boom")
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO xp_lv (lv, xp) VALUES (1, 0)`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := db.CountLevels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "insert should have been rolled back")
}

// -----------------------------------------------------------------
// Seeding tests
// -----------------------------------------------------------------

func TestSeedLevelTable(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	report, err := db.SeedLevelTable(ctx, DefaultLevels())
	require.NoError(t, err)
	assert.Equal(t, int64(9), report.Inserted)
	assert.Equal(t, 9, report.Total)

	levels, err := db.ListLevels(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 9)
	assert.Equal(t, DefaultLevels(), levels)
}

func TestSeedLevelTable_Idempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.SeedLevelTable(ctx, DefaultLevels())
	require.NoError(t, err)

	report, err := db.SeedLevelTable(ctx, DefaultLevels())
	require.NoError(t, err, "second run must not hit duplicate-key errors")
	assert.Equal(t, int64(0), report.Inserted)
	assert.Equal(t, 9, report.Total)
}

func TestSeedLevelTable_KeepsExistingRows(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	require.NoError(t, db.EnsureLevelTable(ctx))

	// An operator-edited level 3 must survive reseeding.
	_, err := db.ExecContext(ctx,
		`INSERT INTO xp_lv (lv, xp, level_name, level_icon, privileges) VALUES (3, 999, 'custom', '', '{}')`)
	require.NoError(t, err)

	report, err := db.SeedLevelTable(ctx, DefaultLevels())
	require.NoError(t, err)
	assert.Equal(t, int64(8), report.Inserted)
	assert.Equal(t, 9, report.Total)

	levels, err := db.ListLevels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 999, levels[2].XP)
	assert.Equal(t, "custom", levels[2].LevelName)
}

func TestInsertLevels_Empty(t *testing.T) {
	db := testDB(t)
	n, err := db.InsertLevels(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// The MySQL path is checked against the statement shapes it must send.
func TestSeedLevelTable_MySQLStatements(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := New(sqlDB, string(MySQL), zap.NewNop())
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS `xp_lv`")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO `xp_lv` (`lv`, `xp`, `level_name`, `level_icon`, `privileges`) VALUES (?, ?, ?, ?, ?), (?")).
		WillReturnResult(sqlmock.NewResult(9, 9))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM `xp_lv`")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	report, err := db.SeedLevelTable(context.Background(), DefaultLevels())
	require.NoError(t, err)
	assert.Equal(t, int64(9), report.Inserted)
	assert.Equal(t, 9, report.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedLevelTable_MySQLInsertFailureRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := New(sqlDB, string(MySQL), zap.NewNop())
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE").WillReturnError(errors.New("Access denied"))
	mock.ExpectRollback()

	_, err = db.SeedLevelTable(context.Background(), DefaultLevels())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert levels")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedLevelTable_Progress(t *testing.T) {
	db := testDB(t)

	var steps []SeedStep
	var last SeedReport
	report, err := db.SeedLevelTable(context.Background(), DefaultLevels(),
		WithSeedProgress(func(step SeedStep, r SeedReport) {
			steps = append(steps, step)
			last = r
		}))
	require.NoError(t, err)

	assert.Equal(t, []SeedStep{SeedTableReady, SeedLevelsInserted, SeedCounted}, steps)
	assert.Equal(t, report, last)
}

func TestSeedLevelTable_ProgressStopsAtFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := New(sqlDB, string(MySQL), zap.NewNop())
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE").WillReturnError(errors.New("Access denied"))
	mock.ExpectRollback()

	var steps []SeedStep
	_, err = db.SeedLevelTable(context.Background(), DefaultLevels(),
		WithSeedProgress(func(step SeedStep, _ SeedReport) {
			steps = append(steps, step)
		}))
	require.Error(t, err)
	assert.Equal(t, []SeedStep{SeedTableReady}, steps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// -----------------------------------------------------------------
// Dialect tests
// -----------------------------------------------------------------

func TestDialect_InsertIgnore(t *testing.T) {
	cols := []string{"lv", "xp"}

	assert.Equal(t,
		"INSERT IGNORE INTO `xp_lv` (`lv`, `xp`) VALUES (?, ?), (?, ?)",
		MySQL.InsertIgnore("xp_lv", cols, 2))
	assert.Equal(t,
		`INSERT OR IGNORE INTO "xp_lv" ("lv", "xp") VALUES (?, ?)`,
		SQLite.InsertIgnore("xp_lv", cols, 1))
	assert.Equal(t,
		`INSERT INTO "xp_lv" ("lv", "xp") VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING`,
		Postgres.InsertIgnore("xp_lv", cols, 2))
}

func TestDialect_CreateLevelTable(t *testing.T) {
	for _, d := range []Dialect{MySQL, Postgres, SQLite} {
		ddl := d.CreateLevelTable()
		assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS", d)
		assert.Contains(t, strings.ToUpper(ddl), "UNIQUE", d)
	}
}

// -----------------------------------------------------------------
// Seed data tests
// -----------------------------------------------------------------

func TestDefaultLevels(t *testing.T) {
	levels := DefaultLevels()
	require.Len(t, levels, 9)

	for i, l := range levels {
		assert.Equal(t, i+1, l.Lv)
		assert.Len(t, l.Privileges, l.Lv, "level %d privileges", l.Lv)
		assert.Equal(t, "daily_sign", l.Privileges[0])
		if i > 0 {
			assert.Greater(t, l.XP, levels[i-1].XP, "thresholds must increase")
			assert.Equal(t, []string(levels[i-1].Privileges), []string(l.Privileges[:i]))
		}
	}
	assert.Equal(t, "/assets/icon/lv/lv9.png", levels[8].LevelIcon)
	assert.Equal(t, "special_badge", levels[8].Privileges[8])
	assert.Equal(t, 3600, levels[8].XP)
}

func TestPrivileges_JSON(t *testing.T) {
	privs := Privileges{"daily_sign", "comment"}

	data, err := json.Marshal(privs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"daily_sign": true, "comment": true}`, string(data))

	var back Privileges
	require.NoError(t, json.Unmarshal([]byte(`{"daily_sign": true, "comment": false, "upload": true}`), &back))
	assert.Equal(t, Privileges{"daily_sign", "upload"}, back)

	assert.Error(t, json.Unmarshal([]byte(`["daily_sign"]`), &back))
}
