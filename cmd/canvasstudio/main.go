/*
 * Copyright (c) 2025 by the CanvasStudio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"canvasstudio/internal/backend"
	"canvasstudio/internal/canvas"
	"canvasstudio/internal/catalog"
	"canvasstudio/internal/config"
	"canvasstudio/internal/crash"
	"canvasstudio/internal/editor"
	applog "canvasstudio/internal/log"
	"canvasstudio/internal/telemetry"
	"canvasstudio/internal/version"
)

func usage() {
	fmt.Println("CanvasStudio — canvas template tooling")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  canvasstudio version|-v|--version           Show version")
	fmt.Println("  canvasstudio validate <file>                 Validate a template document")
	fmt.Println("  canvasstudio resize <file> <w> <h> [out]     Re-layout a template for new canvas dimensions")
	fmt.Println("  canvasstudio lib list <dir>                  List templates in a local library")
	fmt.Println("  canvasstudio lib add <dir> <file>            Import a template document into a library")
	fmt.Println("  canvasstudio lib search <dir> <query>        Search the library index")
	fmt.Println("  canvasstudio push <file>                     Upload a template to the hosted catalog")
	fmt.Println("  canvasstudio pull <id> [out]                 Download a template from the hosted catalog")
	fmt.Println("  canvasstudio serve                           Run the hosted catalog server")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	telemetry.InitDefault()
	var lib *catalog.Library
	defer func() { crash.Recover(lib) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println(version.String())
			return
		case "validate":
			if len(args) < 3 {
				fmt.Println("validate requires <file>")
				usage()
				os.Exit(2)
			}
			data, err := os.ReadFile(args[2])
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := catalog.ValidateTemplateJSON(data); err != nil {
				fmt.Println("Invalid:", err)
				os.Exit(1)
			}
			fmt.Println("OK")
			return
		case "resize":
			if len(args) < 5 {
				fmt.Println("resize requires <file> <w> <h>")
				usage()
				os.Exit(2)
			}
			if err := runResize(l, args[2], args[3], args[4], args[5:]); err != nil {
				l.Error("resize failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "lib":
			if len(args) < 4 {
				usage()
				os.Exit(2)
			}
			h, err := runLib(l, args[2], args[3], args[4:])
			lib = h
			if err != nil {
				l.Error("lib command failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "push", "pull":
			if len(args) < 3 {
				fmt.Printf("%s requires an argument\n", args[1])
				usage()
				os.Exit(2)
			}
			if err := runSync(l, args[1], args[2], args[3:]); err != nil {
				l.Error("sync failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "serve":
			l.Info("starting server", slog.String("version", version.Version))
			if err := backend.Start(); err != nil {
				l.Error("server failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func runResize(l *slog.Logger, file, wArg, hArg string, rest []string) error {
	w, err := strconv.ParseFloat(wArg, 64)
	if err != nil {
		return fmt.Errorf("parse width %q: %w", wArg, err)
	}
	h, err := strconv.ParseFloat(hArg, 64)
	if err != nil {
		return fmt.Errorf("parse height %q: %w", hArg, err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var tpl canvas.Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return fmt.Errorf("parse template %s: %w", file, err)
	}

	store := editor.NewStore()
	store.SelectTemplate(&tpl)
	if !store.SetCanvasDimensions(canvas.Dimensions{Width: w, Height: h}) {
		return fmt.Errorf("dimensions %gx%g rejected", w, h)
	}
	snap := store.Snapshot()

	out, err := json.MarshalIndent(snap.Template, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if len(rest) > 0 && rest[0] != "" {
		if err := os.WriteFile(rest[0], out, 0o644); err != nil {
			return err
		}
		l.Info("resized template written", slog.String("path", rest[0]))
		telemetry.Event("template_resized", map[string]any{"appType": string(snap.Template.AppType)})
		return nil
	}
	_, err = os.Stdout.Write(out)
	return err
}

func runSync(l *slog.Logger, verb, arg string, rest []string) error {
	cfg, token, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("no backend configured; set backend.base_url in config.yaml or %s", config.EnvBackendURL)
	}
	c := backend.NewClient(cfg.Backend.BaseURL, token)
	ctx := context.Background()

	switch verb {
	case "push":
		data, err := os.ReadFile(arg)
		if err != nil {
			return err
		}
		if err := catalog.ValidateTemplateJSON(data); err != nil {
			return err
		}
		var tpl canvas.Template
		if err := json.Unmarshal(data, &tpl); err != nil {
			return err
		}
		if err := c.PushTemplate(ctx, &tpl); err != nil {
			return err
		}
		l.Info("template pushed", slog.String("id", tpl.ID))
		fmt.Println("Pushed", tpl.ID)
		return nil
	case "pull":
		tpl, err := c.GetTemplate(ctx, arg)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(tpl, "", "  ")
		if err != nil {
			return err
		}
		out = append(out, '\n')
		if len(rest) > 0 && rest[0] != "" {
			return os.WriteFile(rest[0], out, 0o644)
		}
		_, err = os.Stdout.Write(out)
		return err
	}
	return fmt.Errorf("unknown sync verb %q", verb)
}

func runLib(l *slog.Logger, sub, dir string, rest []string) (*catalog.Library, error) {
	abs, _ := filepath.Abs(dir)
	lib, err := catalog.Open(abs)
	if err != nil {
		return nil, err
	}
	switch sub {
	case "list":
		ids, err := lib.List()
		if err != nil {
			return lib, err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return lib, nil
	case "add":
		if len(rest) < 1 {
			return lib, fmt.Errorf("lib add requires <file>")
		}
		data, err := os.ReadFile(rest[0])
		if err != nil {
			return lib, err
		}
		var tpl canvas.Template
		if err := json.Unmarshal(data, &tpl); err != nil {
			return lib, fmt.Errorf("parse template %s: %w", rest[0], err)
		}
		stored, err := lib.Save(&tpl)
		if err != nil {
			return lib, err
		}
		db, err := catalog.OpenIndex(abs)
		if err != nil {
			return lib, err
		}
		defer func() { _ = db.Close() }()
		if err := catalog.UpsertTemplate(context.Background(), db, stored); err != nil {
			return lib, err
		}
		l.Info("template imported", slog.String("id", stored.ID))
		fmt.Println(stored.ID)
		return lib, nil
	case "search":
		if len(rest) < 1 {
			return lib, fmt.Errorf("lib search requires <query>")
		}
		db, err := catalog.OpenIndex(abs)
		if err != nil {
			return lib, err
		}
		defer func() { _ = db.Close() }()
		if err := catalog.Reindex(context.Background(), db, lib); err != nil {
			return lib, err
		}
		rows, err := catalog.Search(context.Background(), db, catalog.SearchQuery{Text: rest[0]})
		if err != nil {
			return lib, err
		}
		for _, r := range rows {
			fmt.Printf("%s\t%s\t%s\n", r.ID, r.Name, r.AppType)
		}
		return lib, nil
	default:
		usage()
		return lib, fmt.Errorf("unknown lib command %q", sub)
	}
}
