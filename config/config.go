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

// Package config holds the editor settings and reads them from YAML files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/draw"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/layers/composite"
	"seehuhn.de/go/layers/document"
)

// ErrInvalid is wrapped by all validation errors.
var ErrInvalid = errors.New("invalid settings")

// Settings configures an editor.
type Settings struct {
	// SnapThreshold is the snap catch radius in screen pixels.
	SnapThreshold float64 `yaml:"snap_threshold"`

	// MoveDeadZone is the displacement, in document units, below which a
	// move gesture leaves no history entry.
	MoveDeadZone float64 `yaml:"move_dead_zone"`

	// ThumbnailSize is the edge length of layer thumbnails in pixels.
	ThumbnailSize int `yaml:"thumbnail_size"`

	// Interpolation selects how pixel layers are resampled: "nearest",
	// "approx-bilinear", "bilinear" or "catmull-rom".
	Interpolation string `yaml:"interpolation"`

	// Flatness is the curve approximation tolerance for shape layers.
	Flatness float64 `yaml:"flatness"`

	DefaultWidth      int    `yaml:"default_width"`
	DefaultHeight     int    `yaml:"default_height"`
	DefaultBackground string `yaml:"default_background"` // transparent | white | #rrggbb

	// Logger receives diagnostic messages. Nil keeps the current logger.
	Logger *slog.Logger `yaml:"-"`
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		SnapThreshold:     8,
		MoveDeadZone:      0.5,
		ThumbnailSize:     64,
		Interpolation:     "bilinear",
		Flatness:          0.25,
		DefaultWidth:      800,
		DefaultHeight:     600,
		DefaultBackground: "white",
	}
}

// Load reads settings from a YAML file. Keys missing from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML settings on top of the defaults and validates the
// result.
func Parse(data []byte) (*Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that all values are usable.
func (s *Settings) Validate() error {
	var errs []error
	if s.SnapThreshold < 0 {
		errs = append(errs, fmt.Errorf("%w: snap_threshold %g is negative", ErrInvalid, s.SnapThreshold))
	}
	if s.MoveDeadZone < 0 {
		errs = append(errs, fmt.Errorf("%w: move_dead_zone %g is negative", ErrInvalid, s.MoveDeadZone))
	}
	if s.ThumbnailSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: thumbnail_size %d must be positive", ErrInvalid, s.ThumbnailSize))
	}
	if _, err := composite.Interpolator(s.Interpolation); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if s.Flatness <= 0 {
		errs = append(errs, fmt.Errorf("%w: flatness %g must be positive", ErrInvalid, s.Flatness))
	}
	if s.DefaultWidth <= 0 || s.DefaultHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: default size %dx%d", ErrInvalid, s.DefaultWidth, s.DefaultHeight))
	}
	if _, _, err := document.ParseBackground(s.DefaultBackground); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// Renderer returns a compositor configured from the settings.
func (s *Settings) Renderer() *composite.Renderer {
	var ip draw.Interpolator
	if s.Interpolation != "" {
		ip, _ = composite.Interpolator(s.Interpolation)
	}
	return &composite.Renderer{Interpolator: ip, Flatness: s.Flatness}
}

// NewDocument returns settings for a new document using the default
// size and background.
func (s *Settings) NewDocument() (*document.Document, error) {
	mode, c, err := document.ParseBackground(s.DefaultBackground)
	if err != nil {
		return nil, err
	}
	return document.New(s.DefaultWidth, s.DefaultHeight, mode, c)
}
