package exhibit_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
	"github.com/Carmen-Shannon/oxy-exhibit/config"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/exhibit"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/loader"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/scene"
)

func sessionConfig() config.Config {
	cfg := config.Default()
	cfg.ScenePath = scenePath
	cfg.ModelsDir = modelsDir
	cfg.Catalog = []string{"alpha", "beta"}
	cfg.Camera.FocusTargets = []string{common.ScreenName}
	return cfg
}

func newSession(t *testing.T, cfg config.Config) *exhibit.Session {
	t.Helper()
	l := loader.NewLoader(loader.BackendTypeFS, loader.WithFS(hall()), loader.WithLogger(quietLogger))
	s, err := exhibit.NewSession(context.Background(), cfg, l,
		exhibit.WithSessionLogger(quietLogger),
		exhibit.WithViewport(1280, 720),
	)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func wait(t *testing.T, s *exhibit.Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestSessionShowsFirstExhibit(t *testing.T) {
	s := newSession(t, sessionConfig())
	wait(t, s)

	require.NotNil(t, s.Stage().Asset())
	assert.Equal(t, "alpha", s.Stage().Asset().Name().String())
	assert.Equal(t, s.Scene().HologramOrigin(), s.Camera().Target())
	assert.InDelta(t, 1280.0/720.0, s.Camera().Aspect(), 1e-5)
	assert.Len(t, s.Scene().Lights(), 2)
}

func TestSessionLoggerReachesController(t *testing.T) {
	var buf bytes.Buffer
	l := loader.NewLoader(loader.BackendTypeFS, loader.WithFS(hall()), loader.WithLogger(quietLogger))
	s, err := exhibit.NewSession(context.Background(), sessionConfig(), l,
		exhibit.WithSessionLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		exhibit.WithSessionLogger(nil),
	)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	wait(t, s)

	assert.Contains(t, buf.String(), `msg="session started"`)
	assert.Contains(t, buf.String(), `msg="exhibit displayed" exhibit=alpha`)
}

func TestSessionButtonsNavigate(t *testing.T) {
	s := newSession(t, sessionConfig())
	wait(t, s)

	assert.Equal(t, scene.HitNext, s.HandleClick(common.NextButtonName))
	wait(t, s)
	assert.Equal(t, "beta", s.Stage().Asset().Name().String())

	assert.Equal(t, scene.HitNext, s.HandleClick(common.NextButtonName))
	wait(t, s)
	assert.Equal(t, "alpha", s.Stage().Asset().Name().String())

	assert.Equal(t, scene.HitPrev, s.HandleClick(common.PrevButtonName))
	wait(t, s)
	assert.Equal(t, "beta", s.Stage().Asset().Name().String())
	assert.Equal(t, 1, s.Navigator().Cursor())
}

func TestSessionInertClicks(t *testing.T) {
	s := newSession(t, sessionConfig())
	wait(t, s)
	token, _ := s.Controller().Latest()

	assert.Equal(t, scene.HitNone, s.HandleClick("Monitor"))
	assert.Equal(t, scene.HitNone, s.HandleClick(""))
	assert.Equal(t, scene.HitOther, s.HandleClick("Hall"))

	after, _ := s.Controller().Latest()
	assert.Equal(t, token, after)
	assert.False(t, s.Camera().Focusing())
}

func TestSessionFocusTarget(t *testing.T) {
	s := newSession(t, sessionConfig())
	wait(t, s)

	assert.Equal(t, scene.HitOther, s.HandleClick(common.ScreenName))
	assert.True(t, s.Camera().Focusing())

	for i := 0; i < 1200 && s.Camera().Focusing(); i++ {
		s.Frame(1.0 / 60)
	}
	assert.False(t, s.Camera().Focusing())
	assert.Equal(t, mgl32.Vec3{0, 3, 5}, s.Camera().Target())
}

func TestSessionRejectsBadSetup(t *testing.T) {
	l := loader.NewLoader(loader.BackendTypeFS, loader.WithFS(hall()), loader.WithLogger(quietLogger))

	cfg := sessionConfig()
	cfg.Anchors.Screen = "Billboard"
	_, err := exhibit.NewSession(context.Background(), cfg, l, exhibit.WithSessionLogger(quietLogger))
	assert.ErrorIs(t, err, scene.ErrMissingAnchor)

	cfg = sessionConfig()
	cfg.Catalog = nil
	_, err = exhibit.NewSession(context.Background(), cfg, l, exhibit.WithSessionLogger(quietLogger))
	assert.ErrorIs(t, err, exhibit.ErrEmptyCatalog)

	cfg = sessionConfig()
	cfg.ScenePath = "assets/Missing.glb"
	_, err = exhibit.NewSession(context.Background(), cfg, l, exhibit.WithSessionLogger(quietLogger))
	var te *loader.TransportError
	assert.ErrorAs(t, err, &te)
}
