// Package persistence stores game sessions in SQLite. One row holds
// the ship snapshot; open rifts get their own table so they survive
// restarts with identity intact.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"resona/internal/game"
)

// Store wraps a SQLite connection and implements game.SessionStore.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		seed INTEGER NOT NULL,
		pos_json TEXT NOT NULL,
		drive_json TEXT NOT NULL,
		base_target_json TEXT NOT NULL,
		width REAL NOT NULL,
		max_vel REAL NOT NULL,
		crystals INTEGER NOT NULL,
		crystal_bonus INTEGER NOT NULL,
		view_rot REAL NOT NULL,
		sim_time REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rifts (
		id TEXT PRIMARY KEY,
		pos_json TEXT NOT NULL,
		remaining REAL NOT NULL,
		kind INTEGER NOT NULL
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

type sessionRow struct {
	Seed           int64   `db:"seed"`
	PosJSON        string  `db:"pos_json"`
	DriveJSON      string  `db:"drive_json"`
	BaseTargetJSON string  `db:"base_target_json"`
	Width          float64 `db:"width"`
	MaxVel         float64 `db:"max_vel"`
	Crystals       int     `db:"crystals"`
	CrystalBonus   int     `db:"crystal_bonus"`
	ViewRot        float64 `db:"view_rot"`
	SimTime        float64 `db:"sim_time"`
}

type riftRow struct {
	ID        string  `db:"id"`
	PosJSON   string  `db:"pos_json"`
	Remaining float64 `db:"remaining"`
	Kind      int     `db:"kind"`
}

func vecJSON(v game.Vec5) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func vecFromJSON(s string) (game.Vec5, error) {
	var v game.Vec5
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return game.Vec5{}, fmt.Errorf("decode vector: %w", err)
	}
	return v, nil
}

// Save replaces the stored session wholesale inside one transaction.
func (s *Store) Save(ctx context.Context, st game.SaveState) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO session
		(id, seed, pos_json, drive_json, base_target_json, width, max_vel,
		 crystals, crystal_bonus, view_rot, sim_time)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(st.Seed), vecJSON(st.Pos), vecJSON(st.Drive), vecJSON(st.BaseTarget),
		st.Width, st.MaxVel, st.Crystals, st.CrystalBonus, st.ViewRot, st.SimTime,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM rifts"); err != nil {
		return err
	}
	for _, r := range st.Rifts {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO rifts (id, pos_json, remaining, kind) VALUES (?, ?, ?, ?)",
			r.ID.String(), vecJSON(r.Pos), r.Remaining, int(r.Kind),
		)
		if err != nil {
			return fmt.Errorf("save rift %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Load returns the stored session. A missing row is an expected
// outcome (fresh install), reported via the bool, not an error.
func (s *Store) Load(ctx context.Context) (game.SaveState, bool, error) {
	var row sessionRow
	err := s.conn.GetContext(ctx, &row, "SELECT seed, pos_json, drive_json, base_target_json, width, max_vel, crystals, crystal_bonus, view_rot, sim_time FROM session WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return game.SaveState{}, false, nil
	}
	if err != nil {
		return game.SaveState{}, false, fmt.Errorf("load session: %w", err)
	}

	st := game.SaveState{
		Seed:         uint64(row.Seed),
		Width:        row.Width,
		MaxVel:       row.MaxVel,
		Crystals:     row.Crystals,
		CrystalBonus: row.CrystalBonus,
		ViewRot:      row.ViewRot,
		SimTime:      row.SimTime,
	}
	if st.Pos, err = vecFromJSON(row.PosJSON); err != nil {
		return game.SaveState{}, false, err
	}
	if st.Drive, err = vecFromJSON(row.DriveJSON); err != nil {
		return game.SaveState{}, false, err
	}
	if st.BaseTarget, err = vecFromJSON(row.BaseTargetJSON); err != nil {
		return game.SaveState{}, false, err
	}

	var riftRows []riftRow
	if err := s.conn.SelectContext(ctx, &riftRows, "SELECT id, pos_json, remaining, kind FROM rifts"); err != nil {
		return game.SaveState{}, false, fmt.Errorf("load rifts: %w", err)
	}
	for _, rr := range riftRows {
		id, err := uuid.Parse(rr.ID)
		if err != nil {
			return game.SaveState{}, false, fmt.Errorf("rift id %q: %w", rr.ID, err)
		}
		pos, err := vecFromJSON(rr.PosJSON)
		if err != nil {
			return game.SaveState{}, false, err
		}
		st.Rifts = append(st.Rifts, game.SavedRift{
			ID:        id,
			Pos:       pos,
			Remaining: rr.Remaining,
			Kind:      game.RiftKind(rr.Kind),
		})
	}

	return st, true, nil
}
