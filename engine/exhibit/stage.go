package exhibit

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/light"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/model"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/scene"
)

const (
	// SunLightName names the persistent directional light that follows each exhibit's preset.
	SunLightName = "modelSunLight"

	// AmbientLightName names the persistent ambient light.
	AmbientLightName = "modelAmbientLight"
)

// Stage is the part of the scene that changes per exhibit: the model slot, the screen
// texture and the two persistent lights. Only the frame goroutine may mutate it.
type Stage struct {
	scene   scene.Scene
	sun     light.Light
	ambient light.Light
	asset   *PlacedAsset

	verticalCap float32
	lateralCap  float32
	scales      light.Scales
}

// NewStage creates the sun and ambient lights and registers them with sc.
//
// Parameters:
//   - sc: the base scene
//   - verticalCap, lateralCap: scale limits handed to NormalizeScale
//   - scales: strength multipliers for the lights
//
// Returns:
//   - *Stage: the stage, with an empty model slot
func NewStage(sc scene.Scene, verticalCap, lateralCap float32, scales light.Scales) *Stage {
	origin := sc.HologramOrigin()
	s := &Stage{
		scene: sc,
		sun: light.NewLight(light.LightTypeDirectional,
			light.WithName(SunLightName),
			light.WithTarget(origin),
			light.WithPosition(origin.Add(mgl32.Vec3{0, 0, -1})),
			light.WithCastsShadows(true),
		),
		ambient:     light.NewLight(light.LightTypeAmbient, light.WithName(AmbientLightName)),
		verticalCap: verticalCap,
		lateralCap:  lateralCap,
		scales:      scales,
	}
	sc.AddLight(s.sun)
	sc.AddLight(s.ambient)
	return s
}

// Scene returns the base scene.
func (s *Stage) Scene() scene.Scene {
	return s.scene
}

// Sun returns the persistent directional light.
func (s *Stage) Sun() light.Light {
	return s.sun
}

// Ambient returns the persistent ambient light.
func (s *Stage) Ambient() light.Light {
	return s.ambient
}

// Asset returns the displayed exhibit, or nil before the first model is placed.
func (s *Stage) Asset() *PlacedAsset {
	return s.asset
}

// Place releases the displayed exhibit and attaches m at the hologram origin.
//
// Parameters:
//   - name: the exhibit name
//   - m: the loaded model
//
// Returns:
//   - *PlacedAsset: the newly attached asset
func (s *Stage) Place(name common.ExhibitName, m model.Model) *PlacedAsset {
	if s.asset != nil {
		s.asset.release()
	}
	s.asset = NewPlacedAsset(name, m, s.scene.HologramOrigin(), s.verticalCap, s.lateralCap)
	return s.asset
}

// ShowPreview replaces the screen texture.
func (s *Stage) ShowPreview(img *image.RGBA) {
	s.scene.SetScreenTexture(img)
}

// Light applies a preset to the persistent lights, aiming the sun at the hologram origin.
func (s *Stage) Light(p light.Preset) {
	p.Apply(s.sun, s.ambient, s.scene.HologramOrigin(), s.scales)
}

// Clear releases the displayed exhibit and empties the slot.
func (s *Stage) Clear() {
	if s.asset != nil {
		s.asset.release()
		s.asset = nil
	}
}
