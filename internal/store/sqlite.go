package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pbaille/rep/internal/domain"
	"github.com/pbaille/rep/internal/repertoire"
	"github.com/rs/zerolog"
)

//go:embed schema.sql
var schema string

var (
	ErrNotFound      = errors.New("store: repertoire not found")
	ErrDuplicateName = errors.New("store: repertoire name taken")
	ErrCorruptStore  = errors.New("store: corrupt repertoire")
)

// Store persists repertoires in a SQLite database
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// New opens the database at dbPath and initializes its schema
func New(dbPath string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, log: log.With().Str("component", "store").Logger()}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Exists reports whether a repertoire called name is stored
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM repertoires WHERE name = ?", name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("find repertoire: %w", err)
	}
	return n > 0, nil
}

// List returns the stored repertoire names in alphabetical order
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM repertoires ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list repertoires: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan repertoire: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Create stores a new repertoire
func (s *Store) Create(ctx context.Context, t *repertoire.Tree) error {
	now := time.Now()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO repertoires
				(id, name, player, start_fen, learning_budget, counter_date, counter_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Name, t.Player.String(), t.StartFEN, t.LearningBudget,
			t.Counter.Date.Format(domain.DateLayout), t.Counter.Count, t.CreatedAt, now,
		)
		if err != nil {
			var sqlErr sqlite3.Error
			if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique {
				return fmt.Errorf("%w: %s", ErrDuplicateName, t.Name)
			}
			return fmt.Errorf("insert repertoire: %w", err)
		}
		if err := insertNodes(ctx, tx, t); err != nil {
			return err
		}
		s.log.Info().Str("repertoire", t.Name).Str("id", t.ID).Msg("created")
		return nil
	})
}

// Save replaces the stored tree and metadata of t in one transaction
func (s *Store) Save(ctx context.Context, t *repertoire.Tree) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE repertoires
			SET name = ?, learning_budget = ?, counter_date = ?, counter_count = ?, updated_at = ?
			WHERE id = ?`,
			t.Name, t.LearningBudget, t.Counter.Date.Format(domain.DateLayout), t.Counter.Count, time.Now(), t.ID,
		)
		if err != nil {
			return fmt.Errorf("update repertoire: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("update repertoire: %w", err)
		} else if n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, t.Name)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM nodes WHERE repertoire_id = ?", t.ID); err != nil {
			return fmt.Errorf("clear nodes: %w", err)
		}
		if err := insertNodes(ctx, tx, t); err != nil {
			return err
		}
		s.log.Debug().Str("repertoire", t.Name).Int("nodes", t.Len()).Msg("saved")
		return nil
	})
}

// Open loads the repertoire called name
func (s *Store) Open(ctx context.Context, name string) (*repertoire.Tree, error) {
	var (
		meta        repertoire.Meta
		player      string
		counterDate string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, player, start_fen, learning_budget, counter_date, counter_count, created_at
		FROM repertoires WHERE name = ?`, name,
	).Scan(&meta.ID, &meta.Name, &player, &meta.StartFEN, &meta.LearningBudget,
		&counterDate, &meta.Counter.Count, &meta.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get repertoire: %w", err)
	}

	if meta.Player, err = domain.ParseColor(player); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, name, err)
	}
	if meta.Counter.Date, err = domain.ParseDate(counterDate); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, name, err)
	}

	records, err := s.records(ctx, meta.ID)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	t, err := repertoire.Restore(meta, records)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, name, err)
	}
	s.log.Debug().Str("repertoire", name).Int("nodes", len(records)).Msg("opened")
	return t, nil
}

// Delete removes the repertoire called name and all its positions
func (s *Store) Delete(ctx context.Context, name string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx, "SELECT id FROM repertoires WHERE name = ?", name).Scan(&id)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		if err != nil {
			return fmt.Errorf("get repertoire: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM nodes WHERE repertoire_id = ?", id); err != nil {
			return fmt.Errorf("delete nodes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM repertoires WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete repertoire: %w", err)
		}
		s.log.Info().Str("repertoire", name).Msg("deleted")
		return nil
	})
}

func (s *Store) records(ctx context.Context, id string) ([]repertoire.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, parent, move, player_to_move, status, last_date, due_date
		FROM nodes WHERE repertoire_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()

	var records []repertoire.Record
	for rows.Next() {
		var (
			r                         repertoire.Record
			status, lastDate, dueDate sql.NullString
		)
		if err := rows.Scan(&r.Index, &r.Parent, &r.Move, &r.PlayerToMove, &status, &lastDate, &dueDate); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if status.Valid {
			ts, err := parseTraining(status.String, lastDate.String, dueDate.String)
			if err != nil {
				return nil, fmt.Errorf("%w: node %d: %v", ErrCorruptStore, r.Index, err)
			}
			r.Training = ts
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func parseTraining(status, lastDate, dueDate string) (*domain.TrainingState, error) {
	var (
		ts  domain.TrainingState
		err error
	)
	if err = ts.Status.UnmarshalText([]byte(status)); err != nil {
		return nil, err
	}
	if ts.LastDate, err = domain.ParseDate(lastDate); err != nil {
		return nil, err
	}
	if ts.DueDate, err = domain.ParseDate(dueDate); err != nil {
		return nil, err
	}
	return &ts, nil
}

func insertNodes(ctx context.Context, tx *sql.Tx, t *repertoire.Tree) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (repertoire_id, idx, parent, move, player_to_move, status, last_date, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare node insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range t.Records() {
		var status, lastDate, dueDate any
		if ts := r.Training; ts != nil {
			status = ts.Status.String()
			lastDate = ts.LastDate.Format(domain.DateLayout)
			dueDate = ts.DueDate.Format(domain.DateLayout)
		}
		if _, err := stmt.ExecContext(ctx, t.ID, r.Index, r.Parent, r.Move, r.PlayerToMove, status, lastDate, dueDate); err != nil {
			return fmt.Errorf("insert node %d: %w", r.Index, err)
		}
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
