// Package config holds the settings for an exhibit session and loads them from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
)

var (
	// ErrEmptyCatalog is returned when the configuration lists no exhibits.
	ErrEmptyCatalog = errors.New("config: catalog must contain at least one exhibit")

	// ErrInvalidValue is wrapped by every other validation failure.
	ErrInvalidValue = errors.New("config: invalid value")
)

// Duration is a time.Duration that reads and writes as a Go duration string ("10s", "250ms").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Anchors names the base-scene nodes the session binds to.
type Anchors struct {
	Hologram   string `toml:"hologram"`
	Screen     string `toml:"screen"`
	NextButton string `toml:"next_button"`
	PrevButton string `toml:"prev_button"`
}

// Placement controls where and how large a loaded exhibit is displayed.
type Placement struct {
	// HologramOffset is added to the hologram anchor's world position to get the hologram origin.
	HologramOffset [3]float32 `toml:"hologram_offset"`

	// VerticalCap is the tallest an exhibit may be when height is its largest dimension.
	VerticalCap float32 `toml:"vertical_cap"`

	// LateralCap bounds the largest dimension of every other exhibit.
	LateralCap float32 `toml:"lateral_cap"`
}

// Lighting holds the multipliers applied to descriptor strengths.
type Lighting struct {
	SunIntensityScale     float32 `toml:"sun_intensity_scale"`
	AmbientIntensityScale float32 `toml:"ambient_intensity_scale"`
}

// Preview controls how exhibit renders are prepared for the screen.
type Preview struct {
	// BorderPx is the width of the black outline added to each side of the preview.
	BorderPx int `toml:"border_px"`

	// MaxSize is the largest width or height kept before downscaling. 0 disables downscaling.
	MaxSize int `toml:"max_size"`
}

// Camera describes the viewing rig.
type Camera struct {
	Position    [3]float32 `toml:"position"`
	FovDegrees  float32    `toml:"fov_degrees"`
	Near        float32    `toml:"near"`
	Far         float32    `toml:"far"`
	MaxDistance float32    `toml:"max_distance"`

	// FocusTargets lists scene node names that tween the camera focus onto themselves when clicked.
	FocusTargets []string `toml:"focus_targets"`

	// FocusFrequency and FocusDamping tune the focus spring.
	FocusFrequency float64 `toml:"focus_frequency"`
	FocusDamping   float64 `toml:"focus_damping"`
}

// Config is the full session configuration.
type Config struct {
	// AssetRoot is an http(s) base URL or a local directory holding the scene and models.
	AssetRoot string `toml:"asset_root"`

	// ScenePath is the base scene GLB, relative to AssetRoot.
	ScenePath string `toml:"scene_path"`

	// ModelsDir is the directory, relative to AssetRoot, holding one folder per exhibit.
	ModelsDir string `toml:"models_dir"`

	// Catalog lists exhibit names in navigation order.
	Catalog []string `toml:"catalog"`

	// Workers is the number of pool workers used for concurrent asset loads.
	Workers int `toml:"workers"`

	// FetchTimeout bounds each individual asset fetch.
	FetchTimeout Duration `toml:"fetch_timeout"`

	// CancelSuperseded aborts in-flight fetches when a newer exhibit is requested.
	CancelSuperseded bool `toml:"cancel_superseded"`

	// TickRate is the frame host rate in frames per second.
	TickRate float64 `toml:"tick_rate"`

	// Profiling enables periodic FPS and memory logging.
	Profiling bool `toml:"profiling"`

	Anchors   Anchors   `toml:"anchors"`
	Placement Placement `toml:"placement"`
	Lighting  Lighting  `toml:"lighting"`
	Preview   Preview   `toml:"preview"`
	Camera    Camera    `toml:"camera"`
}

// Default returns the configuration matching the stock exhibit hall.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		AssetRoot:        "public",
		ScenePath:        "assets/Scene.glb",
		ModelsDir:        "models",
		Catalog:          []string{"bunker", "chr_knight"},
		Workers:          4,
		FetchTimeout:     Duration(30 * time.Second),
		CancelSuperseded: true,
		TickRate:         60,
		Anchors: Anchors{
			Hologram:   common.HologramPlateName,
			Screen:     common.ScreenName,
			NextButton: common.NextButtonName,
			PrevButton: common.PrevButtonName,
		},
		Placement: Placement{
			HologramOffset: [3]float32{0, 0.4, 0},
			VerticalCap:    12,
			LateralCap:     6,
		},
		Lighting: Lighting{
			SunIntensityScale:     5,
			AmbientIntensityScale: 1.3,
		},
		Preview: Preview{
			BorderPx: 3,
			MaxSize:  2048,
		},
		Camera: Camera{
			Position:       [3]float32{-1.0246, 6.6416, -9.4488},
			FovDegrees:     70,
			Near:           0.1,
			Far:            10000,
			MaxDistance:    15.5,
			FocusFrequency: 6,
			FocusDamping:   1,
		},
	}
}

// Load reads a TOML file on top of Default and validates the result.
// Keys missing from the file keep their default values.
//
// Parameters:
//   - path: the TOML file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML bytes on top of Default and validates the result.
//
// Parameters:
//   - data: TOML document
//
// Returns:
//   - Config: the merged configuration
//   - error: error if decoding or validation fails
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode renders the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks the invariants the session relies on.
//
// Returns:
//   - error: the first violation found, or nil
func (c Config) Validate() error {
	if len(c.Catalog) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(c.Catalog))
	for _, name := range c.Catalog {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: blank catalog entry", ErrInvalidValue)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate catalog entry %q", ErrInvalidValue, name)
		}
		seen[name] = struct{}{}
	}
	switch {
	case c.AssetRoot == "":
		return fmt.Errorf("%w: asset_root is empty", ErrInvalidValue)
	case c.ScenePath == "":
		return fmt.Errorf("%w: scene_path is empty", ErrInvalidValue)
	case c.Anchors.Hologram == "" || c.Anchors.Screen == "":
		return fmt.Errorf("%w: hologram and screen anchors must be named", ErrInvalidValue)
	case c.Placement.VerticalCap <= 0 || c.Placement.LateralCap <= 0:
		return fmt.Errorf("%w: placement caps must be positive", ErrInvalidValue)
	case c.Lighting.SunIntensityScale < 0 || c.Lighting.AmbientIntensityScale < 0:
		return fmt.Errorf("%w: intensity scales must not be negative", ErrInvalidValue)
	case c.Preview.BorderPx < 0 || c.Preview.MaxSize < 0:
		return fmt.Errorf("%w: preview sizes must not be negative", ErrInvalidValue)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidValue)
	case c.FetchTimeout < 0:
		return fmt.Errorf("%w: fetch_timeout must not be negative", ErrInvalidValue)
	case c.Camera.MaxDistance <= 0:
		return fmt.Errorf("%w: camera max_distance must be positive", ErrInvalidValue)
	}
	return nil
}

// Exhibits returns the catalog as typed exhibit names.
func (c Config) Exhibits() []common.ExhibitName {
	out := make([]common.ExhibitName, len(c.Catalog))
	for i, name := range c.Catalog {
		out[i] = common.ExhibitName(name)
	}
	return out
}

// IsRemote reports whether AssetRoot is an http(s) URL.
func (c Config) IsRemote() bool {
	return strings.HasPrefix(c.AssetRoot, "http://") || strings.HasPrefix(c.AssetRoot, "https://")
}
