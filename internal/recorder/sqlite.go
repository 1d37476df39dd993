package recorder

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sartorproj/tsdeck/internal/errors"
)

// SQLiteRecorder persists results to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	run    Run
	logger *zap.SugaredLogger
}

// NewSQLiteRecorder opens (or creates) the database, runs migrations and
// registers a new run for command.
func NewSQLiteRecorder(ctx context.Context, dbPath, command string, logger *zap.SugaredLogger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set WAL mode")
	}

	r := &SQLiteRecorder{
		db:     db,
		run:    Run{ID: uuid.New(), StartedAt: time.Now().UTC(), Command: command},
		logger: logger,
	}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, command) VALUES (?,?,?)`,
		r.run.ID.String(), r.run.StartedAt.Unix(), r.run.Command,
	); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "register run")
	}

	logger.Infow("sqlite recorder opened", "path", dbPath, "run", r.run.ID)
	return r, nil
}

func (r *SQLiteRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			command    TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS fits (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL REFERENCES runs(id),
			timestamp INTEGER NOT NULL,
			series    TEXT,
			ord       TEXT,
			seasonal  TEXT,
			nobs      INTEGER,
			loglik    REAL,
			aic       REAL,
			bic       REAL,
			hqic      REAL,
			sigma2    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fits_run ON fits(run_id)`,

		`CREATE TABLE IF NOT EXISTS stationarity_checks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES runs(id),
			timestamp   INTEGER NOT NULL,
			series      TEXT,
			diffs       INTEGER,
			seasonal_diffs INTEGER NOT NULL DEFAULT 0,
			period      INTEGER NOT NULL DEFAULT 0,
			adf_stat    REAL,
			adf_pvalue  REAL,
			kpss_stat   REAL,
			kpss_pvalue REAL,
			alpha       REAL,
			verdict     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stationarity_run ON stationarity_checks(run_id)`,

		`CREATE TABLE IF NOT EXISTS grid_evaluations (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL REFERENCES runs(id),
			criterion TEXT,
			ord       TEXT,
			seasonal  TEXT,
			score     REAL,
			failed    INTEGER,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_grid_run ON grid_evaluations(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return errors.Wrapf(err, "exec %q", s[:40])
		}
	}
	for _, col := range []string{"seasonal_diffs", "period"} {
		if err := r.addColumn(ctx, "stationarity_checks", col, "INTEGER NOT NULL DEFAULT 0"); err != nil {
			return err
		}
	}
	return nil
}

// addColumn upgrades databases created before the column existed.
func (r *SQLiteRecorder) addColumn(ctx context.Context, table, column, decl string) error {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return errors.Wrapf(err, "inspect %s", table)
	}
	if n > 0 {
		return nil
	}
	_, err = r.db.ExecContext(ctx, "ALTER TABLE "+table+" ADD COLUMN "+column+" "+decl)
	return errors.Wrapf(err, "add column %s.%s", table, column)
}

// RunID returns the id of the run registered when the recorder was opened.
func (r *SQLiteRecorder) RunID() uuid.UUID {
	return r.run.ID
}

func (r *SQLiteRecorder) RecordFit(ctx context.Context, rec *FitRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO fits
		(run_id, timestamp, series, ord, seasonal, nobs, loglik, aic, bic, hqic, sigma2)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		r.run.ID.String(), time.Now().Unix(), rec.Column, rec.Order, rec.Seasonal,
		rec.NObs, rec.LogLik, rec.AIC, rec.BIC, rec.HQIC, rec.Sigma2,
	)
	return errors.Wrap(err, "insert fit")
}

func (r *SQLiteRecorder) RecordStationarity(ctx context.Context, rec *StationarityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO stationarity_checks
		(run_id, timestamp, series, diffs, seasonal_diffs, period, adf_stat, adf_pvalue, kpss_stat, kpss_pvalue, alpha, verdict)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.run.ID.String(), time.Now().Unix(), rec.Column, rec.Diffs, rec.SeasonalDiffs, rec.Period,
		rec.ADFStat, rec.ADFPValue, rec.KPSSStat, rec.KPSSPValue, rec.Alpha, rec.Verdict,
	)
	return errors.Wrap(err, "insert stationarity check")
}

// RecordGrid stores every evaluation of one grid search in a single transaction.
func (r *SQLiteRecorder) RecordGrid(ctx context.Context, criterion string, evals []GridEvaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin grid transaction")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO grid_evaluations
		(run_id, criterion, ord, seasonal, score, failed, error)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return errors.Wrap(err, "prepare grid insert")
	}
	defer stmt.Close()

	for _, e := range evals {
		if _, err := stmt.ExecContext(ctx,
			r.run.ID.String(), criterion, e.Order, e.Seasonal, e.Score, e.Failed, e.Error,
		); err != nil {
			return errors.Wrapf(err, "insert grid point %s%s", e.Order, e.Seasonal)
		}
	}

	return errors.Wrap(tx.Commit(), "commit grid evaluations")
}

// BestGridEvaluation returns the lowest-scoring successful evaluation of run.
func (r *SQLiteRecorder) BestGridEvaluation(ctx context.Context, runID uuid.UUID) (*GridEvaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var e GridEvaluation
	var errText sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT ord, seasonal, score, failed, error
		FROM grid_evaluations
		WHERE run_id = ? AND failed = 0
		ORDER BY score ASC, id ASC
		LIMIT 1`, runID.String(),
	).Scan(&e.Order, &e.Seasonal, &e.Score, &e.Failed, &errText)
	if err != nil {
		return nil, errors.Wrap(err, "query best grid evaluation")
	}
	e.Error = errText.String
	return &e, nil
}

// Runs lists recorded runs, newest first.
func (r *SQLiteRecorder) Runs(ctx context.Context) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, `SELECT id, started_at, command FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var id string
		var started int64
		var run Run
		if err := rows.Scan(&id, &started, &run.Command); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		run.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, errors.Wrapf(err, "parse run id %q", id)
		}
		run.StartedAt = time.Unix(started, 0).UTC()
		runs = append(runs, run)
	}
	return runs, errors.Wrap(rows.Err(), "iterate runs")
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
