package rasterlink

import (
	"database/sql"
	"time"

	"github.com/bodgit/rasterlink/frame"
	_ "github.com/mattn/go-sqlite3"
)

// FrameDB is an archive of recorded frames.
type FrameDB struct {
	db *sql.DB
}

func NewFrameDB(file string) (*FrameDB, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS frame (id INTEGER PRIMARY KEY NOT NULL, format INTEGER NOT NULL, captured INTEGER NOT NULL, pix BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &FrameDB{
		db: db,
	}, nil
}

func (db *FrameDB) Close() error {
	return db.db.Close()
}

// Add stores f with the time it was captured and returns its sequence
// number.
func (db *FrameDB) Add(f *frame.Frame, captured time.Time) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	result, err := db.db.Exec("INSERT INTO frame (format, captured, pix) VALUES (?, ?, ?)", int(f.Format), captured.UnixNano(), f.Pix)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Length returns the number of frames of the given format.
func (db *FrameDB) Length(format frame.Format) (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM frame WHERE format = ?", int(format)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Each calls fn for every frame of the given format in the order they were
// added, stopping at the first error.
func (db *FrameDB) Each(format frame.Format, fn func(*frame.Frame) error) error {
	rows, err := db.db.Query("SELECT pix FROM frame WHERE format = ? ORDER BY id", int(format))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		f := &frame.Frame{Format: format}
		if err := rows.Scan(&f.Pix); err != nil {
			return err
		}
		if err := f.Validate(); err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return rows.Err()
}
