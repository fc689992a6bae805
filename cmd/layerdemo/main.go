// seehuhn.de/go/layers - a layered image editing core
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command layerdemo runs a set of editing scenarios against a fresh
// document each and writes the exported images, together with a JSON
// manifest describing the resulting layer stacks.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/layers"
	"seehuhn.de/go/layers/config"
	"seehuhn.de/go/layers/layer"
)

func main() {
	configPath := flag.String("config", "", "settings file (YAML)")
	outDir := flag.String("out", "testdata/demo", "output directory")
	verbose := flag.Bool("v", false, "log every history commit")
	flag.Parse()

	if err := run(*configPath, *outDir, *verbose, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "layerdemo:", err)
		os.Exit(1)
	}
}

func run(configPath, outDir string, verbose bool, only []string) error {
	settings := config.Default()
	if configPath != "" {
		var err error
		settings, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	layers.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	names := slices.Sorted(maps.Keys(scenarios))
	if len(only) > 0 {
		for _, name := range only {
			if _, ok := scenarios[name]; !ok {
				return fmt.Errorf("unknown scenario %q", name)
			}
		}
		names = only
	}

	var out struct {
		Scenarios []jsonScenario `json:"scenarios"`
	}
	for _, name := range names {
		doc, err := settings.NewDocument()
		if err != nil {
			return err
		}
		e := layers.New(doc, settings)
		if err := scenarios[name](e); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		file := name + ".png"
		if err := writePNG(e, filepath.Join(outDir, file)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out.Scenarios = append(out.Scenarios, toJSON(name, file, e))
	}

	f, err := os.Create(filepath.Join(outDir, "manifest.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writePNG(e *layers.Editor, fname string) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := png.Encode(f, e.Export()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type jsonScenario struct {
	Name    string      `json:"name"`
	File    string      `json:"file"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	History []string    `json:"history"`
	Layers  []jsonLayer `json:"layers"`
}

type jsonLayer struct {
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	Background bool            `json:"background,omitempty"`
	Visible    bool            `json:"visible"`
	Opacity    float64         `json:"opacity"`
	Blend      layer.BlendMode `json:"blend"`
	Bounds     [4]float64      `json:"bounds"`
	Rotation   float64         `json:"rotation,omitempty"`
}

func toJSON(name, file string, e *layers.Editor) jsonScenario {
	doc, stack := e.Project()
	js := jsonScenario{
		Name:    name,
		File:    file,
		Width:   doc.Width,
		Height:  doc.Height,
		History: e.Labels(),
	}
	for _, l := range stack.All() {
		b := l.Bounds()
		js.Layers = append(js.Layers, jsonLayer{
			Name:       l.Name,
			Kind:       l.Kind.String(),
			Background: l.Background,
			Visible:    l.Visible,
			Opacity:    l.Opacity,
			Blend:      l.Blend,
			Bounds:     [4]float64{b.Left, b.Top, b.Right, b.Bottom},
			Rotation:   l.Rotation,
		})
	}
	return js
}
