/*
Package palettedb implements a small SQLite database of named color maps.

Palettes are stored once, keyed by the SHA-1 of their GIF color table
bytes; any number of names may point at the same palette.
*/
package palettedb

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"os"

	"github.com/bodgit/gifalloc"
	"github.com/bodgit/gifalloc/pal"
	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	db *sql.DB
}

// Open opens, creating it if necessary, the palette database in file.
func Open(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS palette (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, bits INTEGER NOT NULL, colors BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, palette_id INTEGER NOT NULL, FOREIGN KEY(palette_id) REFERENCES palette(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) addPalette(cm *gifalloc.ColorMap) (int64, error) {
	b, err := cm.MarshalBinary()
	if err != nil {
		return 0, err
	}
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM palette WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO palette (sha1, bits, colors) VALUES (?, ?, ?)", sha, cm.BitsPerPixel, b)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Put stores cm under name, replacing whatever name pointed at before, and
// returns the palette id.
func (db *DB) Put(name string, cm *gifalloc.ColorMap) (int64, error) {
	id, err := db.addPalette(cm)
	if err != nil {
		return 0, err
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO source (name, palette_id) VALUES (?, ?)", name, id); err != nil {
		return 0, err
	}

	return id, nil
}

// Get returns the color map stored under name, or nil if there is none.
func (db *DB) Get(name string) (*gifalloc.ColorMap, error) {
	var b []byte
	switch err := db.db.QueryRow("SELECT p.colors FROM source AS s JOIN palette AS p ON s.palette_id = p.id WHERE s.name = ?", name).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		cm := new(gifalloc.ColorMap)
		if err := cm.UnmarshalBinary(b); err != nil {
			return nil, fmt.Errorf("palettedb: %q: %w", name, err)
		}
		return cm, nil
	default:
		return nil, err
	}
}

func (db *DB) Names() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM source ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (db *DB) Palettes() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM palette").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ImportPAL stores every palette of a RIFF palette file. A file holding a
// single palette is stored under name, otherwise each is stored as name.N.
// It returns the number of palettes imported.
func (db *DB) ImportPAL(name, file string) (int, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	maps, err := pal.Read(f)
	if err != nil {
		return 0, err
	}

	for i, cm := range maps {
		n := name
		if len(maps) > 1 {
			n = fmt.Sprintf("%s.%d", name, i)
		}
		if _, err := db.Put(n, cm); err != nil {
			return i, err
		}
	}

	return len(maps), nil
}
