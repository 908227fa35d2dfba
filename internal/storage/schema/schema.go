// Package schema creates a fresh roster database from a creation script.
//
// The default script is compiled into the binary; a different one can be
// supplied by path. Initialization never touches an existing file: delete
// the database to start over.
package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/aanand-mishra/roster-api/internal/storage"
)

//go:embed create_students.sql
var createScript string

// Options tells Init where the database lives and which script creates it.
type Options struct {
	StoragePath string
	ScriptPath  string // empty means the embedded script
}

// Result reports what Init did.
type Result struct {
	Path    string
	Created bool // false when the file already existed
}

// Script returns the creation script: the file at path, or the embedded
// script when path is empty.
func Script(path string) (string, error) {
	if path == "" {
		return createScript, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("schema.Script: read %s: %w", path, err)
	}
	return string(b), nil
}

// Init creates the database at opts.StoragePath by running the creation
// script inside one transaction.
//
// If the file already exists, Init returns Result{Created: false} and a
// nil error without opening it. The script is read before the file is
// created, so an unreadable script leaves nothing behind; a script that
// fails to run is rolled back and the new file removed.
func Init(ctx context.Context, opts Options) (res Result, err error) {
	res.Path = opts.StoragePath

	if _, err := os.Stat(opts.StoragePath); err == nil {
		return res, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("schema.Init: stat: %w", err)
	}

	script, err := Script(opts.ScriptPath)
	if err != nil {
		return res, fmt.Errorf("schema.Init: %w", err)
	}

	db, err := storage.OpenDB(opts.StoragePath)
	if err != nil {
		return res, fmt.Errorf("schema.Init: %w", err)
	}

	defer func() {
		db.Close()
		if err != nil {
			os.Remove(opts.StoragePath)
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("schema.Init: begin: %w", err)
	}

	if _, err = tx.ExecContext(ctx, script); err != nil {
		tx.Rollback()
		return res, fmt.Errorf("schema.Init: run script: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("schema.Init: commit: %w", err)
	}

	res.Created = true
	return res, nil
}
