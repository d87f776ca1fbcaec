package light

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cogentcore.org/core/colors"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrMalformedDescriptor is wrapped by every DecodePreset failure.
var ErrMalformedDescriptor = errors.New("malformed lighting descriptor")

// Descriptor column names.
const (
	ColumnColor    = "color"
	ColumnStrength = "strength"
	ColumnData     = "data"
)

// Record is one data row of a lighting descriptor keyed by header name.
// Columns the row did not reach are absent from the map.
type Record map[string]string

// blank reports whether every field of the record is empty.
func (r Record) blank() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}

// Setting is one validated light row.
type Setting struct {
	// Color is the light color in [0, 1].
	Color [3]float32

	// Strength is the raw descriptor strength before any intensity scale.
	Strength float32

	// Pitch and Yaw are sun angles in degrees; only meaningful when HasAngles is set.
	Pitch, Yaw float32

	// HasAngles reports whether the row carried a data column with two angles.
	HasAngles bool
}

// Preset is a decoded lighting descriptor: row 0 drives the sun and row 1 the ambient fill.
type Preset struct {
	Sun     Setting
	Ambient Setting
}

// ParseDescriptor splits a lighting descriptor into records.
//
// The first line is the header and defines the schema. Every following line is split on
// commas and zipped against the header by position: short rows leave trailing columns
// absent and extra cells are dropped. There is no quoting, so a comma can never appear
// inside a field. Trailing carriage returns and surrounding spaces are trimmed. Empty
// lines still yield (empty) records; DecodePreset skips them.
//
// Parameters:
//   - text: the descriptor contents
//
// Returns:
//   - []Record: one record per line after the header
func ParseDescriptor(text string) []Record {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return nil
	}

	headers := splitFields(lines[0])
	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitFields(line)
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i >= len(values) {
				break
			}
			rec[h] = values[i]
		}
		records = append(records, rec)
	}
	return records
}

func splitFields(line string) []string {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// DecodePreset validates parsed records and turns the first two non-blank rows into a Preset.
// Nothing is returned on failure, so callers can validate before mutating any light.
//
// Parameters:
//   - records: output of ParseDescriptor
//
// Returns:
//   - Preset: the sun and ambient settings
//   - error: an error wrapping ErrMalformedDescriptor
func DecodePreset(records []Record) (Preset, error) {
	rows := make([]Record, 0, 2)
	for _, r := range records {
		if r.blank() {
			continue
		}
		rows = append(rows, r)
	}
	if len(rows) < 2 {
		return Preset{}, fmt.Errorf("%w: need 2 rows, got %d", ErrMalformedDescriptor, len(rows))
	}

	sun, err := decodeSetting(rows[0], 0, true)
	if err != nil {
		return Preset{}, err
	}
	ambient, err := decodeSetting(rows[1], 1, false)
	if err != nil {
		return Preset{}, err
	}
	return Preset{Sun: sun, Ambient: ambient}, nil
}

func decodeSetting(r Record, row int, needAngles bool) (Setting, error) {
	var s Setting

	raw := r[ColumnColor]
	if raw == "" {
		return s, malformed(row, ColumnColor, "missing")
	}
	c, err := colors.FromString(raw)
	if err != nil {
		return s, malformed(row, ColumnColor, err.Error())
	}
	s.Color = [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}

	strength, err := parseFinite(r[ColumnStrength])
	if err != nil {
		return s, malformed(row, ColumnStrength, err.Error())
	}
	if strength < 0 {
		return s, malformed(row, ColumnStrength, "negative")
	}
	s.Strength = strength

	if data, ok := r[ColumnData]; ok && data != "" {
		fields := strings.Fields(data)
		if len(fields) != 2 {
			return s, malformed(row, ColumnData, fmt.Sprintf("want \"pitch yaw\", got %q", data))
		}
		if s.Pitch, err = parseFinite(fields[0]); err != nil {
			return s, malformed(row, ColumnData, err.Error())
		}
		if s.Yaw, err = parseFinite(fields[1]); err != nil {
			return s, malformed(row, ColumnData, err.Error())
		}
		s.HasAngles = true
	}
	if needAngles && !s.HasAngles {
		return s, malformed(row, ColumnData, "missing sun angles")
	}
	return s, nil
}

func parseFinite(v string) (float32, error) {
	if v == "" {
		return 0, errors.New("missing")
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %q", v)
	}
	return float32(f), nil
}

func malformed(row int, column, reason string) error {
	return fmt.Errorf("%w: row %d column %q: %s", ErrMalformedDescriptor, row, column, reason)
}

// Scales maps descriptor strengths to light intensities.
type Scales struct {
	Sun     float32
	Ambient float32
}

// Apply writes the preset into the persistent sun and ambient lights.
// The sun is placed with SunPosition around origin and always casts shadows.
//
// Parameters:
//   - sun: the directional light to update in place
//   - ambient: the ambient light to update in place
//   - origin: the point the sun aims at
//   - scales: strength multipliers
func (p Preset) Apply(sun, ambient Light, origin mgl32.Vec3, scales Scales) {
	placement := SunPosition(p.Sun.Pitch, p.Sun.Yaw, origin)
	sun.SetColor(p.Sun.Color[0], p.Sun.Color[1], p.Sun.Color[2])
	sun.SetIntensity(p.Sun.Strength * scales.Sun)
	sun.SetPosition(placement.Position)
	sun.SetTarget(placement.Target)
	sun.SetCastsShadows(true)

	ambient.SetColor(p.Ambient.Color[0], p.Ambient.Color[1], p.Ambient.Color[2])
	ambient.SetIntensity(p.Ambient.Strength * scales.Ambient)
}
