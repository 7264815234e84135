/*
 * Copyright (c) 2025 by the CanvasStudio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"canvasstudio/internal/canvas"
	applog "canvasstudio/internal/log"
	"canvasstudio/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores per-library ephemeral data under the library root.
	IndexDirName  = ".cvs"
	IndexFileName = "index.sqlite"

	// indexSchemaVersion tracks the local SQLite schema for the embedded
	// index. Bump on breaking schema changes and add a migration step.
	indexSchemaVersion = 1
)

// IndexPath returns the full path to a library's index database file.
func IndexPath(libraryRoot string) string {
	return filepath.Join(libraryRoot, IndexDirName, IndexFileName)
}

// OpenIndex opens (creating if necessary) the per-library SQLite index,
// enables WAL mode, and ensures the meta/version and templates tables
// exist. The returned *sql.DB is ready for use.
func OpenIndex(libraryRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("catalog"), "index_open").With(
		slog.String("root", libraryRoot),
	)
	if strings.TrimSpace(libraryRoot) == "" {
		return nil, errors.New("library root is required")
	}
	if err := os.MkdirAll(filepath.Join(libraryRoot, IndexDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create %s dir: %w", IndexDirName, err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(IndexPath(libraryRoot)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("index ready", slog.String("path", IndexPath(libraryRoot)))
	return db, nil
}

func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id         INTEGER PRIMARY KEY CHECK(id=1),
			schema     INTEGER NOT NULL,
			app        TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS templates (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			app_type     TEXT NOT NULL,
			category     TEXT,
			aspect_ratio TEXT,
			tags         TEXT,
			updated_at   TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_templates_app ON templates(app_type);`,
		`CREATE INDEX IF NOT EXISTS idx_templates_category ON templates(category);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`,
			indexSchemaVersion, version.String(), now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// UpsertTemplate records or refreshes a template's index row.
func UpsertTemplate(ctx context.Context, db *sql.DB, t *canvas.Template) error {
	if t == nil || strings.TrimSpace(t.ID) == "" {
		return errors.New("template with id is required")
	}
	_, err := db.ExecContext(ctx, `INSERT INTO templates (id, name, app_type, category, aspect_ratio, tags, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, app_type=excluded.app_type, category=excluded.category,
			aspect_ratio=excluded.aspect_ratio, tags=excluded.tags, updated_at=excluded.updated_at`,
		t.ID, t.Name, string(t.AppType), t.Category, t.AspectRatio,
		strings.Join(t.Tags, " "), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert template %s: %w", t.ID, err)
	}
	return nil
}

// DeleteTemplate drops a template's index row. Missing rows are fine.
func DeleteTemplate(ctx context.Context, db *sql.DB, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}

// Reindex rebuilds the index from the library contents. Unreadable
// templates are skipped with a warning so one corrupt file cannot block
// the picker.
func Reindex(ctx context.Context, db *sql.DB, lib *Library) error {
	l := applog.WithOperation(applog.WithComponent("catalog"), "reindex")
	ids, err := lib.List()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM templates`); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	for _, id := range ids {
		t, err := lib.Load(id)
		if err != nil {
			l.Warn("skipping unreadable template", slog.String("template", id), slog.Any("err", err))
			continue
		}
		if err := UpsertTemplate(ctx, db, t); err != nil {
			return err
		}
	}
	l.Info("reindex complete", slog.Int("templates", len(ids)))
	return nil
}

// SearchQuery filters the template index.
type SearchQuery struct {
	Text     string // matched against name and tags, case-insensitive
	AppType  string
	Category string
	Limit    int // 0 means no limit
}

// SearchResult is one row of the template picker listing.
type SearchResult struct {
	ID          string
	Name        string
	AppType     string
	Category    string
	AspectRatio string
	UpdatedAt   time.Time
}

// Search lists index rows matching the query, newest first.
func Search(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(`SELECT id, name, app_type, COALESCE(category,''), COALESCE(aspect_ratio,''), updated_at FROM templates WHERE 1=1`)
	if s := strings.TrimSpace(q.Text); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		b.WriteString(` AND (lower(name) LIKE ? OR lower(COALESCE(tags,'')) LIKE ?)`)
		args = append(args, like, like)
	}
	if s := strings.TrimSpace(q.AppType); s != "" {
		b.WriteString(` AND app_type = ?`)
		args = append(args, s)
	}
	if s := strings.TrimSpace(q.Category); s != "" {
		b.WriteString(` AND category = ?`)
		args = append(args, s)
	}
	b.WriteString(` ORDER BY updated_at DESC, id ASC`)
	if q.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search templates: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var updated string
		if err := rows.Scan(&r.ID, &r.Name, &r.AppType, &r.Category, &r.AspectRatio, &updated); err != nil {
			return nil, err
		}
		r.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, r)
	}
	return out, rows.Err()
}
