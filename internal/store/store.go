// Package store persists run results. The default backend is an embedded
// SQLite file; a postgres:// DSN switches to PostgreSQL.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"

	"github.com/cohorttools/cohortsel/internal/cohort"
	"github.com/cohorttools/cohortsel/internal/criteria"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	corpus_dir  TEXT NOT NULL,
	patients    INTEGER NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS decisions (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	patient_id TEXT NOT NULL,
	criterion  TEXT NOT NULL,
	met        BOOLEAN NOT NULL,
	confidence REAL NOT NULL,
	evidence   TEXT NOT NULL,
	strategy   TEXT NOT NULL,
	PRIMARY KEY (run_id, patient_id, criterion)
);
`

// Store writes cohort results to a relational database.
type Store struct {
	db  *sqlx.DB
	log zerolog.Logger
}

// Open connects to the database named by dsn and creates the schema. A
// postgres:// DSN selects the PostgreSQL driver, anything else is treated
// as an SQLite path.
func Open(dsn string, log zerolog.Logger) (*Store, error) {
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "postgres"
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to results database: %w", err)
	}

	if driver == "sqlite" {
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating results schema: %w", err)
	}

	log.Debug().Str("driver", driver).Msg("results store opened")
	return &Store{db: db, log: log}, nil
}

func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Run identifies one persisted selection run.
type Run struct {
	ID         string    `db:"id"`
	CorpusDir  string    `db:"corpus_dir"`
	Patients   int       `db:"patients"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}

// SaveRun stores the result of a run and returns its generated identifier.
func (s *Store) SaveRun(corpusDir string, started time.Time, result cohort.Result) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.Beginx()
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(s.db.Rebind(`INSERT INTO runs (id, corpus_dir, patients, started_at, finished_at) VALUES (?, ?, ?, ?, ?)`),
		runID, corpusDir, len(result), started, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	insert := s.db.Rebind(`INSERT INTO decisions (run_id, patient_id, criterion, met, confidence, evidence, strategy) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for _, patientID := range result.PatientIDs() {
		for _, c := range criteria.All() {
			d, ok := result[patientID][c]
			if !ok {
				continue
			}
			if _, err := tx.Exec(insert, runID, patientID, string(c), d.Met, d.Confidence, d.Evidence, string(d.Strategy)); err != nil {
				return "", fmt.Errorf("inserting decision for patient %s: %w", patientID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}

	s.log.Info().Str("run_id", runID).Int("patients", len(result)).Msg("run persisted")
	return runID, nil
}

// LoadRun reads the run row back.
func (s *Store) LoadRun(runID string) (*Run, error) {
	var r Run
	err := s.db.Get(&r, s.db.Rebind(`SELECT id, corpus_dir, patients, started_at, finished_at FROM runs WHERE id = ?`), runID)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	return &r, nil
}

// CountDecisions returns the number of persisted decisions for a run.
func (s *Store) CountDecisions(runID string) (int, error) {
	var n int
	err := s.db.Get(&n, s.db.Rebind(`SELECT COUNT(*) FROM decisions WHERE run_id = ?`), runID)
	if err != nil {
		return 0, fmt.Errorf("counting decisions for run %s: %w", runID, err)
	}
	return n, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
