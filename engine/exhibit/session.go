package exhibit

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-exhibit/config"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/camera"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/light"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/loader"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/scene"
)

// Session owns everything that changes while the showcase runs: the base scene, the stage,
// the camera, the catalog and the navigation state. HandleClick and Frame must be called
// from the frame goroutine.
type Session struct {
	cfg        config.Config
	scene      scene.Scene
	stage      *Stage
	camera     camera.Camera
	catalog    *Catalog
	controller Controller
	navigator  *Navigator

	logger            *slog.Logger
	controllerOptions []ControllerBuilderOption
	viewport          [2]int
}

// NewSession loads the base scene, binds its anchors, builds the camera rig and the two
// persistent lights, then requests the first exhibit in the catalog.
//
// Parameters:
//   - ctx: parent context for every asset load of the session
//   - cfg: a validated configuration
//   - l: the asset loader
//   - options: functional options
//
// Returns:
//   - *Session: the running session
//   - error: error if the scene cannot be loaded, an anchor is missing or the catalog is invalid
func NewSession(ctx context.Context, cfg config.Config, l loader.Loader, options ...SessionBuilderOption) (*Session, error) {
	s := &Session{cfg: cfg, logger: slog.Default()}
	for _, opt := range options {
		opt(s)
	}

	catalog, err := NewCatalog(cfg.ModelsDir, cfg.Exhibits()...)
	if err != nil {
		return nil, err
	}
	s.catalog = catalog

	base, err := l.LoadModel(ctx, cfg.ScenePath)
	if err != nil {
		return nil, fmt.Errorf("load base scene: %w", err)
	}
	s.scene, err = scene.NewScene(cfg.ScenePath, base,
		scene.WithAnchorName(scene.AnchorHologram, cfg.Anchors.Hologram),
		scene.WithAnchorName(scene.AnchorScreen, cfg.Anchors.Screen),
		scene.WithAnchorName(scene.AnchorNextButton, cfg.Anchors.NextButton),
		scene.WithAnchorName(scene.AnchorPrevButton, cfg.Anchors.PrevButton),
		scene.WithHologramOffset(mgl32.Vec3(cfg.Placement.HologramOffset)),
	)
	if err != nil {
		return nil, err
	}
	origin := s.scene.HologramOrigin()

	s.camera = camera.NewCamera(
		camera.WithPosition(mgl32.Vec3(cfg.Camera.Position)),
		camera.WithTarget(origin),
		camera.WithFov(cfg.Camera.FovDegrees),
		camera.WithClipPlanes(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithDistanceBounds(0, cfg.Camera.MaxDistance),
		camera.WithFocusSpring(cfg.Camera.FocusFrequency, cfg.Camera.FocusDamping),
	)
	if s.viewport[0] > 0 && s.viewport[1] > 0 {
		s.camera.SetAspect(s.viewport[0], s.viewport[1])
	}

	s.stage = NewStage(s.scene, cfg.Placement.VerticalCap, cfg.Placement.LateralCap, light.Scales{
		Sun:     cfg.Lighting.SunIntensityScale,
		Ambient: cfg.Lighting.AmbientIntensityScale,
	})

	ctrlOpts := append([]ControllerBuilderOption{
		WithWorkers(cfg.Workers),
		WithCancelSuperseded(cfg.CancelSuperseded),
		WithLogger(s.logger),
	}, s.controllerOptions...)
	s.controller = NewController(ctx, l, catalog, s.stage, ctrlOpts...)
	s.navigator = NewNavigator(catalog, s.controller)

	s.logger.Info("session started", "scene", cfg.ScenePath, "exhibits", catalog.Len(),
		"origin", fmt.Sprint(origin))
	s.navigator.Reload()
	return s, nil
}

// HandleClick routes a picked node name.
// The next and previous buttons navigate, configured focus targets pull the camera
// focus onto themselves, and everything else is ignored.
//
// Parameters:
//   - nodeName: the name of the node under the pointer
//
// Returns:
//   - scene.HitTarget: what the click resolved to
func (s *Session) HandleClick(nodeName string) scene.HitTarget {
	hit := s.scene.Pick(nodeName)
	switch hit {
	case scene.HitNext:
		s.navigator.Advance()
	case scene.HitPrev:
		s.navigator.Retreat()
	case scene.HitOther:
		if slices.Contains(s.cfg.Camera.FocusTargets, nodeName) {
			if node, ok := s.scene.Model().Node(nodeName); ok {
				s.camera.FocusOn(node.WorldPosition())
			}
		}
	}
	return hit
}

// Frame applies finished loads and steps the camera. It never blocks and never panics.
//
// Parameters:
//   - dt: seconds since the previous frame
func (s *Session) Frame(dt float32) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("frame panicked", "panic", fmt.Sprint(r))
		}
	}()
	s.controller.Pump()
	s.camera.Update(dt)
}

// Wait blocks until every outstanding exhibit request is applied or discarded.
// It applies results itself and so must not run concurrently with Frame.
func (s *Session) Wait(ctx context.Context) error {
	return s.controller.Drain(ctx)
}

// Resize updates the camera aspect ratio.
func (s *Session) Resize(width, height int) {
	s.camera.SetAspect(width, height)
}

func (s *Session) Scene() scene.Scene {
	return s.scene
}

func (s *Session) Stage() *Stage {
	return s.stage
}

func (s *Session) Camera() camera.Camera {
	return s.camera
}

func (s *Session) Catalog() *Catalog {
	return s.catalog
}

func (s *Session) Navigator() *Navigator {
	return s.navigator
}

func (s *Session) Controller() Controller {
	return s.controller
}

// Close stops every in-flight load and releases the displayed exhibit.
func (s *Session) Close() {
	s.controller.Close()
	s.stage.Clear()
}
