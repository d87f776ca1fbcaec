package scene

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/light"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/model"
)

// ErrMissingAnchor is returned by NewScene when a required anchor node is absent.
var ErrMissingAnchor = errors.New("scene: required anchor missing")

// AnchorRole names a node the session binds behavior to.
type AnchorRole int

const (
	// AnchorHologram is the plate the displayed exhibit hovers above. Required.
	AnchorHologram AnchorRole = iota

	// AnchorScreen receives the exhibit preview render. Required.
	AnchorScreen

	// AnchorNextButton advances the catalog when clicked. Optional.
	AnchorNextButton

	// AnchorPrevButton retreats the catalog when clicked. Optional.
	AnchorPrevButton
)

// String returns a readable name for the role.
func (r AnchorRole) String() string {
	switch r {
	case AnchorHologram:
		return "hologram"
	case AnchorScreen:
		return "screen"
	case AnchorNextButton:
		return "next-button"
	case AnchorPrevButton:
		return "prev-button"
	default:
		return fmt.Sprintf("anchor(%d)", int(r))
	}
}

// Required reports whether the scene cannot be built without this anchor.
func (r AnchorRole) Required() bool {
	return r == AnchorHologram || r == AnchorScreen
}

// HitTarget classifies a picked node.
type HitTarget int

const (
	// HitNone means nothing pickable was hit.
	HitNone HitTarget = iota

	// HitNext is the advance button.
	HitNext

	// HitPrev is the retreat button.
	HitPrev

	// HitOther is any other visible named node.
	HitOther
)

// scene implements the Scene interface.
type scene struct {
	mu sync.RWMutex

	name   string
	base   model.Model
	active bool

	anchorNames map[AnchorRole]string
	anchors     map[AnchorRole]*model.Node

	hologramOffset mgl32.Vec3
	hologramOrigin mgl32.Vec3

	screenTexture *image.RGBA

	lights []light.Light
}

// Scene is the base exhibit hall: the static environment loaded once per session.
//
// The scene resolves a typed anchor registry when it is built and fails fast when a
// required anchor is missing, so no later code has to look nodes up by string. The
// hologram origin is derived once from the hologram anchor and never changes. The
// screen texture and the light registry are the only mutable parts.
type Scene interface {
	// Name returns the scene name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Active reports whether the scene should be rendered.
	//
	// Returns:
	//   - bool: true if active
	Active() bool

	// SetActive toggles rendering of the scene.
	//
	// Parameters:
	//   - active: whether the scene is active
	SetActive(active bool)

	// Model returns the underlying scene graph.
	//
	// Returns:
	//   - model.Model: the base scene model
	Model() model.Model

	// Anchor returns the node bound to role.
	//
	// Parameters:
	//   - role: the anchor role
	//
	// Returns:
	//   - *model.Node: the bound node, or nil
	//   - bool: true if the role is bound
	Anchor(role AnchorRole) (*model.Node, bool)

	// HologramOrigin returns the world-space point exhibits are placed at:
	// the hologram anchor's world position plus the configured offset.
	//
	// Returns:
	//   - mgl32.Vec3: the hologram origin
	HologramOrigin() mgl32.Vec3

	// Pick classifies a hit on the named node. Hidden nodes and unnamed hits are HitNone.
	//
	// Parameters:
	//   - nodeName: the name of the node under the pointer
	//
	// Returns:
	//   - HitTarget: the hit classification
	Pick(nodeName string) HitTarget

	// ScreenTexture returns the texture currently shown on the screen anchor.
	//
	// Returns:
	//   - *image.RGBA: the texture, or nil before the first preview loads
	ScreenTexture() *image.RGBA

	// SetScreenTexture replaces the texture shown on the screen anchor.
	//
	// Parameters:
	//   - img: the new texture
	SetScreenTexture(img *image.RGBA)

	// AddLight registers a light with the scene. Adding the same light twice is a no-op.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// RemoveLight unregisters a light.
	//
	// Parameters:
	//   - l: the light to remove
	RemoveLight(l light.Light)

	// Lights returns a copy of the registered lights.
	//
	// Returns:
	//   - []light.Light: the lights in registration order
	Lights() []light.Light
}

var _ Scene = &scene{}

// NewScene binds a base scene model to its anchors.
//
// Parameters:
//   - name: the scene name
//   - base: the loaded base scene
//   - options: functional options for anchor names, hologram offset and lights
//
// Returns:
//   - Scene: the bound scene
//   - error: an error wrapping ErrMissingAnchor if a required anchor is not in base
func NewScene(name string, base model.Model, options ...SceneBuilderOption) (Scene, error) {
	if base == nil {
		return nil, fmt.Errorf("scene %q: base model is nil", name)
	}

	s := &scene{
		name:   name,
		base:   base,
		active: true,
		anchorNames: map[AnchorRole]string{
			AnchorHologram:   common.HologramPlateName,
			AnchorScreen:     common.ScreenName,
			AnchorNextButton: common.NextButtonName,
			AnchorPrevButton: common.PrevButtonName,
		},
		anchors:        make(map[AnchorRole]*model.Node),
		hologramOffset: mgl32.Vec3{0, 0.4, 0},
	}
	for _, opt := range options {
		opt(s)
	}

	for role, nodeName := range s.anchorNames {
		if nodeName == "" {
			continue
		}
		if n, ok := base.Node(nodeName); ok {
			s.anchors[role] = n
		}
	}
	for _, role := range []AnchorRole{AnchorHologram, AnchorScreen} {
		if _, ok := s.anchors[role]; !ok {
			return nil, fmt.Errorf("%w: %s (node %q) in scene %q", ErrMissingAnchor, role, s.anchorNames[role], name)
		}
	}

	s.hologramOrigin = s.anchors[AnchorHologram].WorldPosition().Add(s.hologramOffset)
	return s, nil
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Model() model.Model {
	return s.base
}

func (s *scene) Anchor(role AnchorRole) (*model.Node, bool) {
	n, ok := s.anchors[role]
	return n, ok
}

func (s *scene) HologramOrigin() mgl32.Vec3 {
	return s.hologramOrigin
}

func (s *scene) Pick(nodeName string) HitTarget {
	if nodeName == "" {
		return HitNone
	}
	n, ok := s.base.Node(nodeName)
	if !ok || !n.Visible {
		return HitNone
	}
	if next, ok := s.anchors[AnchorNextButton]; ok && next == n {
		return HitNext
	}
	if prev, ok := s.anchors[AnchorPrevButton]; ok && prev == n {
		return HitPrev
	}
	return HitOther
}

func (s *scene) ScreenTexture() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screenTexture
}

func (s *scene) SetScreenTexture(img *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenTexture = img
}

func (s *scene) AddLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.lights {
		if existing == l {
			return
		}
	}
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.lights {
		if existing == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return
		}
	}
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}
