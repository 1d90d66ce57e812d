// Package catalog maintains the persistent DICOM object database: a
// relational patient/study/series/instance hierarchy with an on-disk
// object and thumbnail tree alongside it.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"dicomdex/internal/dataset"
	"dicomdex/internal/filestore"
	"dicomdex/internal/thumbnail"

	_ "modernc.org/sqlite"
)

// MemoryDatabase is the path sentinel for an ephemeral in-memory store.
const MemoryDatabase = ":memory:"

// DefaultConnectionName labels handles opened without an explicit name.
const DefaultConnectionName = "dicomdex"

// ErrNotOpen is returned by operations on a closed or never-opened
// handle.
var ErrNotOpen = errors.New("database not open")

// Database is one handle on a DICOM object database. A handle is opened
// once, used from a single goroutine, and explicitly closed. It owns the
// file tree under the database directory and at most one cached header.
type Database struct {
	db       *sql.DB
	name     string
	filename string
	dir      string
	memory   bool

	files     *filestore.Store
	generator thumbnail.Generator
	header    *dataset.Dataset
	observers []func()
	lastErr   string
}

// New returns an unopened handle. Open binds it to a store.
func New() *Database {
	return &Database{}
}

// Open creates or opens the store at path, with MemoryDatabase selecting
// an ephemeral store scoped to the connection name. An empty connection
// name falls back to DefaultConnectionName. Handles sharing a connection
// name in memory mode share the same store. A failed open leaves the
// handle closed with the error available from LastError.
func (d *Database) Open(ctx context.Context, path, connectionName string) error {
	if d.db != nil {
		return fmt.Errorf("database already open")
	}
	if strings.TrimSpace(connectionName) == "" {
		connectionName = DefaultConnectionName
	}

	memory := path == MemoryDatabase

	var driverDSN, filename, dir string
	if memory {
		driverDSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(connectionName))
		filename = MemoryDatabase
	} else {
		abs, err := filepath.Abs(path)
		if err != nil {
			return d.failOpen(fmt.Errorf("resolving database path: %w", err))
		}
		driverDSN = abs
		filename = abs
		dir = filepath.Dir(abs)
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return d.failOpen(fmt.Errorf("opening sqlite database: %w", err))
	}

	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return d.failOpen(fmt.Errorf("pinging sqlite: %w", err))
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return d.failOpen(fmt.Errorf("setting pragma %q: %w", pragma, err))
		}
	}

	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return d.failOpen(err)
	}

	d.db = db
	d.name = connectionName
	d.filename = filename
	d.dir = dir
	d.memory = memory
	d.files = filestore.New(dir)
	d.lastErr = ""

	slog.Debug("dicom database opened", "connection", connectionName, "path", filename, "memory", memory)
	return nil
}

// Close releases the connection. The handle cannot be reused afterwards.
func (d *Database) Close() error {
	if d.db == nil {
		return ErrNotOpen
	}

	err := d.db.Close()
	d.db = nil
	d.header = nil
	if err != nil {
		d.lastErr = err.Error()
		return fmt.Errorf("closing database: %w", err)
	}

	slog.Debug("dicom database closed", "connection", d.name)
	return nil
}

// IsOpen reports whether the handle is bound to a store.
func (d *Database) IsOpen() bool {
	return d.db != nil
}

// IsInMemory reports whether the handle is bound to an ephemeral store.
func (d *Database) IsInMemory() bool {
	return d.memory && d.db != nil
}

// ConnectionName returns the name the handle was opened under.
func (d *Database) ConnectionName() string {
	return d.name
}

// DatabaseFilename returns the store path, or MemoryDatabase for
// ephemeral stores.
func (d *Database) DatabaseFilename() string {
	return d.filename
}

// DatabaseDirectory returns the directory the store file and object
// trees live in, empty for ephemeral stores.
func (d *Database) DatabaseDirectory() string {
	return d.dir
}

// LastError returns the text of the most recent failure, empty when the
// last operation succeeded.
func (d *Database) LastError() string {
	return d.lastErr
}

// ThumbnailGenerator returns the configured generator, nil when none.
func (d *Database) ThumbnailGenerator() thumbnail.Generator {
	return d.generator
}

// SetThumbnailGenerator installs the generator Insert consults when
// asked to produce thumbnails.
func (d *Database) SetThumbnailGenerator(g thumbnail.Generator) {
	d.generator = g
}

func (d *Database) requireOpen() error {
	if d.db == nil {
		d.lastErr = ErrNotOpen.Error()
		return ErrNotOpen
	}
	return nil
}

func (d *Database) failOpen(err error) error {
	d.lastErr = err.Error()
	return err
}
