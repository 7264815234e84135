/*
 * Copyright (c) 2025 by the CanvasStudio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package catalog persists templates as human-readable JSON documents under
// a library root, with transactional writes, timestamped backups, schema
// validation, and an embedded SQLite index for the template picker.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"canvasstudio/internal/canvas"
)

const (
	TemplatesDirName = "templates"
	BackupsDirName   = "backups"
)

// Library is a template catalog rooted at a directory. Each template lives
// at templates/<id>.json; previous revisions are kept under backups/.
type Library struct {
	Root string
}

// Open prepares a library at root, scaffolding the standard subfolders.
func Open(root string) (*Library, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("library root is required")
	}
	for _, d := range []string{TemplatesDirName, BackupsDirName} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create library dir %s: %w", d, err)
		}
	}
	return &Library{Root: root}, nil
}

// TemplatePath returns the on-disk path of a template document.
func (l *Library) TemplatePath(id string) string {
	return filepath.Join(l.Root, TemplatesDirName, id+".json")
}

// Save validates and writes the template manifest transactionally,
// backing up the previous revision first. Templates without an ID are
// assigned one. Returns the stored value (with the assigned ID).
func (l *Library) Save(t *canvas.Template) (*canvas.Template, error) {
	if t == nil {
		return nil, errors.New("nil template")
	}
	stored := t.Clone()
	if strings.TrimSpace(stored.ID) == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Elements == nil {
		stored.Elements = []canvas.Element{}
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}
	data = append(data, '\n')
	if err := ValidateTemplateJSON(data); err != nil {
		return nil, fmt.Errorf("template %s rejected by schema: %w", stored.ID, err)
	}

	path := l.TemplatePath(stored.ID)
	if _, statErr := os.Stat(path); statErr == nil {
		if err := l.backup(stored.ID, path); err != nil {
			return nil, fmt.Errorf("backup previous revision: %w", err)
		}
	}

	// Transactional write: temp file in the same directory, then rename.
	dir := filepath.Dir(path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", stored.ID, os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		return nil, fmt.Errorf("write temp template: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path) // Windows cannot rename over an existing file
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return nil, fmt.Errorf("replace template: %w", err)
	}
	return stored, nil
}

// Load reads and validates a template by id. A corrupt or missing manifest
// falls back to the latest backup.
func (l *Library) Load(id string) (*canvas.Template, error) {
	path := l.TemplatePath(id)
	t, err := readTemplate(path)
	if err == nil {
		return t, nil
	}
	bt, berr := l.loadLatestBackup(id)
	if berr != nil {
		return nil, fmt.Errorf("load template %s: %w; backup attempt: %v", id, err, berr)
	}
	return bt, nil
}

// List returns the ids of all stored templates, sorted.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.Root, TemplatesDirName))
	if err != nil {
		return nil, fmt.Errorf("read templates dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Remove deletes a template manifest. Backups are kept.
func (l *Library) Remove(id string) error {
	if err := os.Remove(l.TemplatePath(id)); err != nil {
		return fmt.Errorf("remove template %s: %w", id, err)
	}
	return nil
}

func (l *Library) backup(id, path string) error {
	bdir := filepath.Join(l.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return err
	}
	stamp := time.Now().Format("20060102-150405.000")
	return copyFile(path, filepath.Join(bdir, fmt.Sprintf("%s.json.%s.bak", id, stamp)))
}

func (l *Library) loadLatestBackup(id string) (*canvas.Template, error) {
	bdir := filepath.Join(l.Root, BackupsDirName)
	entries, err := os.ReadDir(bdir)
	if err != nil {
		return nil, err
	}
	prefix := id + ".json."
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".bak") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errors.New("no backups")
	}
	// Timestamped names sort lexicographically; last is newest.
	sort.Strings(names)
	return readTemplate(filepath.Join(bdir, names[len(names)-1]))
}

func readTemplate(path string) (*canvas.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateTemplateJSON(data); err != nil {
		return nil, err
	}
	var t canvas.Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &t, nil
}

// writeFileSync writes data and flushes it to disk before returning.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(df, sf)
	return err
}
