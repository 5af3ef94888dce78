// Package resultlog keeps a local append-only log of past resolution
// results. It is a host-side audit trail for the CLI; the resolution
// engine itself never reads it.
package resultlog

import (
	"context"
	"database/sql"
	"time"

	"binday-backend/lib/timezone"
	"binday-backend/lib/waste"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS resolutions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	authority TEXT NOT NULL,
	address TEXT NOT NULL,
	stream TEXT NOT NULL,
	collection_date INTEGER NOT NULL,
	fetched_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS resolutions_by_authority
	ON resolutions (authority, fetched_at);
`

type Store struct {
	db *sql.DB
}

func Open(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return Store{}, err
	}
	return Store{db: db}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

// Record appends one resolution's populated streams.
func (s Store) Record(ctx context.Context, authority, addr string, result waste.CollectionResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fetchedAt := timezone.Now().Unix()
	for stream, epoch := range result.EpochSeconds() {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO resolutions (authority, address, stream, collection_date, fetched_at)
			 VALUES (?, ?, ?, ?, ?)`,
			authority, addr, stream.String(), epoch, fetchedAt,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Entry is one logged stream date.
type Entry struct {
	Authority      string
	Address        string
	Stream         string
	CollectionDate time.Time
	FetchedAt      time.Time
}

// History returns the most recent entries for an authority, newest
// first.
func (s Store) History(ctx context.Context, authority string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT authority, address, stream, collection_date, fetched_at
		 FROM resolutions
		 WHERE authority = ?
		 ORDER BY fetched_at DESC, id DESC
		 LIMIT ?`,
		authority, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var collectionDate, fetchedAt int64
		err = rows.Scan(&e.Authority, &e.Address, &e.Stream, &collectionDate, &fetchedAt)
		if err != nil {
			return nil, err
		}
		e.CollectionDate = time.Unix(collectionDate, 0).In(timezone.Location)
		e.FetchedAt = time.Unix(fetchedAt, 0).In(timezone.Location)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
