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

package layer

import (
	"errors"
	"fmt"
)

// BlendMode selects how a layer is combined with the layers below it.
// The names follow the canvas composite operations.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over

	// separable blend modes
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion

	// Porter-Duff operators
	BlendSourceAtop
	BlendDestinationIn
	BlendDestinationOut
	BlendXor
	BlendLighter

	numBlendModes
)

var blendNames = [numBlendModes]string{
	BlendNormal:         "normal",
	BlendMultiply:       "multiply",
	BlendScreen:         "screen",
	BlendOverlay:        "overlay",
	BlendDarken:         "darken",
	BlendLighten:        "lighten",
	BlendColorDodge:     "color-dodge",
	BlendColorBurn:      "color-burn",
	BlendHardLight:      "hard-light",
	BlendSoftLight:      "soft-light",
	BlendDifference:     "difference",
	BlendExclusion:      "exclusion",
	BlendSourceAtop:     "source-atop",
	BlendDestinationIn:  "destination-in",
	BlendDestinationOut: "destination-out",
	BlendXor:            "xor",
	BlendLighter:        "lighter",
}

// ErrUnknownBlendMode is returned by ParseBlendMode for unknown names.
var ErrUnknownBlendMode = errors.New("unknown blend mode")

func (m BlendMode) String() string {
	if m < numBlendModes {
		return blendNames[m]
	}
	return fmt.Sprintf("BlendMode(%d)", m)
}

// ParseBlendMode returns the blend mode with the given name.
// "source-over" is accepted as an alias for "normal".
func ParseBlendMode(name string) (BlendMode, error) {
	if name == "source-over" || name == "" {
		return BlendNormal, nil
	}
	for m, n := range blendNames {
		if n == name {
			return BlendMode(m), nil
		}
	}
	return BlendNormal, fmt.Errorf("%w %q", ErrUnknownBlendMode, name)
}

// MarshalText implements [encoding.TextMarshaler].
func (m BlendMode) MarshalText() ([]byte, error) {
	if m >= numBlendModes {
		return nil, fmt.Errorf("%w %d", ErrUnknownBlendMode, m)
	}
	return []byte(blendNames[m]), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *BlendMode) UnmarshalText(text []byte) error {
	v, err := ParseBlendMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
