package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/guildroster/guild-roster/internal/roster"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

type Entry struct {
	ID      int64
	RunID   string
	TakenAt time.Time
	roster.Report
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "set WAL mode")
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "set busy_timeout")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		guild_id TEXT NOT NULL,
		guild_name TEXT NOT NULL,
		identity TEXT NOT NULL,
		members TEXT NOT NULL,
		taken_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create snapshots table")
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS snapshots_guild_taken ON snapshots(guild_id, taken_at)`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create snapshots index")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, runID string, r roster.Report, takenAt time.Time) error {
	members := r.Members
	if members == nil {
		members = []string{}
	}
	data, err := json.Marshal(members)
	if err != nil {
		return errors.Wrap(err, "encode members")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots(run_id,guild_id,guild_name,identity,members,taken_at) VALUES(?,?,?,?,?,?)`,
		runID, r.GuildID, r.GuildName, r.Identity, string(data), takenAt.UnixMilli(),
	)
	return errors.Wrapf(err, "insert snapshot %s", runID)
}

// Latest returns the newest snapshot for guildID, or nil when there is none.
func (s *Store) Latest(ctx context.Context, guildID string) (*Entry, error) {
	entries, err := s.List(ctx, guildID, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// List returns up to limit snapshots for guildID, newest first.
func (s *Store) List(ctx context.Context, guildID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, guild_id, guild_name, identity, members, taken_at
		 FROM snapshots WHERE guild_id=? ORDER BY taken_at DESC, id DESC LIMIT ?`,
		guildID, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query snapshots")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			members string
			takenAt int64
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.GuildID, &e.GuildName, &e.Identity, &members, &takenAt); err != nil {
			return nil, errors.Wrap(err, "scan snapshot")
		}
		if err := json.Unmarshal([]byte(members), &e.Members); err != nil {
			return nil, errors.Wrapf(err, "decode members of snapshot %d", e.ID)
		}
		e.TakenAt = time.UnixMilli(takenAt)
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "iterate snapshots")
}
