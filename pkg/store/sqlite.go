package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/edp1096/toy-machine/pkg/lut"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveLUT(ctx context.Context, name string, rec LUTRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	ref, err := json.Marshal(rec.Ref)
	if err != nil {
		return fmt.Errorf("encode reference %s: %w", name, err)
	}
	created := rec.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO luts (name, ref, created)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			ref = excluded.ref,
			created = excluded.created
	`, name, ref, created.Format(time.RFC3339Nano))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lut_samples WHERE name = ?`, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM lut_phimag WHERE name = ?`, name); err != nil {
		return err
	}

	for k, smp := range rec.Samples {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO lut_samples (name, k, id, iq, phid, phiq)
			VALUES (?, ?, ?, ?, ?, ?)
		`, name, k, smp.Id, smp.Iq, smp.Phid, smp.Phiq)
		if err != nil {
			return err
		}
	}
	for k, p := range rec.PhiMag {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO lut_phimag (name, k, phid, phiq)
			VALUES (?, ?, ?, ?)
		`, name, k, p[0], p[1])
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetLUT(ctx context.Context, name string) (LUTRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return LUTRecord{}, false, err
	}

	var ref []byte
	var created string
	err = db.QueryRowContext(ctx, `SELECT ref, created FROM luts WHERE name = ?`, name).Scan(&ref, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LUTRecord{}, false, nil
		}
		return LUTRecord{}, false, err
	}

	rec := LUTRecord{Name: name}
	if err := json.Unmarshal(ref, &rec.Ref); err != nil {
		return LUTRecord{}, false, fmt.Errorf("decode reference %s: %w", name, err)
	}
	if rec.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return LUTRecord{}, false, fmt.Errorf("decode created %s: %w", name, err)
	}

	rows, err := db.QueryContext(ctx, `SELECT id, iq, phid, phiq FROM lut_samples WHERE name = ? ORDER BY k`, name)
	if err != nil {
		return LUTRecord{}, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var smp lut.Sample
		if err := rows.Scan(&smp.Id, &smp.Iq, &smp.Phid, &smp.Phiq); err != nil {
			return LUTRecord{}, false, err
		}
		rec.Samples = append(rec.Samples, smp)
	}
	if err := rows.Err(); err != nil {
		return LUTRecord{}, false, err
	}

	mags, err := db.QueryContext(ctx, `SELECT phid, phiq FROM lut_phimag WHERE name = ? ORDER BY k`, name)
	if err != nil {
		return LUTRecord{}, false, err
	}
	defer mags.Close()
	for mags.Next() {
		var p [2]float64
		if err := mags.Scan(&p[0], &p[1]); err != nil {
			return LUTRecord{}, false, err
		}
		rec.PhiMag = append(rec.PhiMag, p)
	}
	if err := mags.Err(); err != nil {
		return LUTRecord{}, false, err
	}

	return rec, true, nil
}

func (s *SQLiteStore) ListLUTs(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT name FROM luts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if run.ID == "" {
		return errors.New("run id is required")
	}

	payload, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", run.ID, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, deck, payload, created)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			deck = excluded.deck,
			payload = excluded.payload,
			created = excluded.created
	`, run.ID, run.Kind, run.Deck, payload, run.Created.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunRecord{}, false, err
	}

	run := RunRecord{ID: id}
	var payload []byte
	var created string
	err = db.QueryRowContext(ctx, `SELECT kind, deck, payload, created FROM runs WHERE id = ?`, id).
		Scan(&run.Kind, &run.Deck, &payload, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, err
	}

	if err := json.Unmarshal(payload, &run.Results); err != nil {
		return RunRecord{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	if run.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return RunRecord{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS luts (
			name TEXT PRIMARY KEY,
			ref BLOB NOT NULL,
			created TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS lut_samples (
			name TEXT NOT NULL,
			k INTEGER NOT NULL,
			id REAL NOT NULL,
			iq REAL NOT NULL,
			phid REAL NOT NULL,
			phiq REAL NOT NULL,
			PRIMARY KEY (name, k)
		);
		CREATE TABLE IF NOT EXISTS lut_phimag (
			name TEXT NOT NULL,
			k INTEGER NOT NULL,
			phid REAL NOT NULL,
			phiq REAL NOT NULL,
			PRIMARY KEY (name, k)
		);
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			deck TEXT NOT NULL,
			payload BLOB NOT NULL,
			created TEXT NOT NULL
		);
	`)
	return err
}
