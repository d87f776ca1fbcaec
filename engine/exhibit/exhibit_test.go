package exhibit_test

import (
	"context"
	"image/color"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/exhibit"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/light"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/loader"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/loader/loadertest"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/scene"
)

const (
	modelsDir = "models"
	scenePath = "assets/Scene.glb"

	// green sun of strength 3 at pitch 0 yaw 90, grey ambient of strength 2
	betaLighting = "color,strength,data\n#00ff00,3,0 90\n#202020,2\n"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// catalogNames lists every exhibit a test may request. A test only adds the bundles it needs.
var catalogNames = []common.ExhibitName{"alpha", "beta", "gamma", "delta", "epsilon"}

// hall returns an asset tree with the base scene and the alpha and beta exhibits.
func hall() fstest.MapFS {
	fsys := fstest.MapFS{scenePath: {Data: loadertest.HallScene()}}
	loadertest.AddExhibit(fsys, modelsDir, "alpha", loadertest.BoxModel(4, 14, 4), loadertest.PNG(4, 4, color.White), loadertest.Lighting)
	loadertest.AddExhibit(fsys, modelsDir, "beta", loadertest.BoxModel(8, 3, 2), loadertest.PNG(6, 2, color.Black), betaLighting)
	return fsys
}

// gatedLoader holds lighting fetches for one exhibit until the gate opens or the request is cancelled.
type gatedLoader struct {
	loader.Loader
	gated     common.ExhibitName
	gate      chan struct{}
	cancelled atomic.Int32
}

func newGatedLoader(fsys fstest.MapFS, gated common.ExhibitName) *gatedLoader {
	return &gatedLoader{
		Loader: loader.NewLoader(loader.BackendTypeFS, loader.WithFS(fsys), loader.WithLogger(quietLogger)),
		gated:  gated,
		gate:   make(chan struct{}),
	}
}

func (g *gatedLoader) LoadText(ctx context.Context, path string) (string, error) {
	if g.gated != "" && strings.Contains(path, "/"+g.gated.String()+"/") {
		select {
		case <-g.gate:
		case <-ctx.Done():
			g.cancelled.Add(1)
			return "", ctx.Err()
		}
	}
	return g.Loader.LoadText(ctx, path)
}

type fixture struct {
	scene       scene.Scene
	stage       *exhibit.Stage
	controller  exhibit.Controller
	loader      *gatedLoader
	mu          sync.Mutex
	transitions []exhibit.Transition
}

func (f *fixture) states() []exhibit.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]exhibit.State, len(f.transitions))
	for i, tr := range f.transitions {
		out[i] = tr.To
	}
	return out
}

func newFixture(t *testing.T, fsys fstest.MapFS, gated common.ExhibitName, opts ...exhibit.ControllerBuilderOption) *fixture {
	t.Helper()
	f := &fixture{loader: newGatedLoader(fsys, gated)}

	base, err := f.loader.LoadModel(context.Background(), scenePath)
	require.NoError(t, err)
	f.scene, err = scene.NewScene("hall", base)
	require.NoError(t, err)
	f.stage = exhibit.NewStage(f.scene, 12, 6, light.Scales{Sun: 5, Ambient: 1.3})

	catalog, err := exhibit.NewCatalog(modelsDir, catalogNames...)
	require.NoError(t, err)

	opts = append([]exhibit.ControllerBuilderOption{
		exhibit.WithLogger(quietLogger),
		exhibit.WithStateObserver(func(tr exhibit.Transition) {
			f.mu.Lock()
			f.transitions = append(f.transitions, tr)
			f.mu.Unlock()
		}),
	}, opts...)
	f.controller = exhibit.NewController(context.Background(), f.loader, catalog, f.stage, opts...)
	t.Cleanup(f.controller.Close)
	return f
}

func drain(t *testing.T, c exhibit.Controller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Drain(ctx))
}
