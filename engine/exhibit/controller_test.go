package exhibit_test

import (
	"bytes"
	"context"
	"image/color"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-exhibit/engine/exhibit"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/loader/loadertest"
)

func TestControllerDisplaysExhibit(t *testing.T) {
	f := newFixture(t, hall(), "")

	token := f.controller.Request("beta")
	assert.Equal(t, exhibit.Token(1), token)
	assert.Equal(t, exhibit.StateLoading, f.controller.State())
	drain(t, f.controller)

	asset := f.stage.Asset()
	require.NotNil(t, asset)
	assert.Equal(t, "beta", asset.Name().String())
	assert.InDelta(t, 6.0/8.0, asset.Scale(), 1e-6)
	assert.InDelta(t, math.Pi, asset.Yaw(), 1e-6)
	assert.Equal(t, f.scene.HologramOrigin(), asset.Position())

	tex := f.scene.ScreenTexture()
	require.NotNil(t, tex)
	assert.Equal(t, 12, tex.Bounds().Dx())
	assert.Equal(t, 8, tex.Bounds().Dy())

	sun := f.stage.Sun()
	assert.InDelta(t, 15, sun.Intensity(), 1e-5)
	assert.Equal(t, [3]float32{0, 1, 0}, sun.Color())
	assert.True(t, sun.CastsShadows())
	assert.Equal(t, f.scene.HologramOrigin(), sun.Target())
	assert.InDelta(t, 0, sun.Position()[0], 1e-5)
	assert.InDelta(t, 2.4, sun.Position()[1], 1e-5)
	assert.InDelta(t, 3, sun.Position()[2], 1e-5)
	assert.InDelta(t, 2.6, f.stage.Ambient().Intensity(), 1e-5)

	assert.Equal(t, exhibit.StateIdle, f.controller.State())
	assert.Equal(t, []exhibit.State{exhibit.StateLoading, exhibit.StateApplying, exhibit.StateIdle}, f.states())
	assert.Zero(t, f.controller.Pending())
}

func TestControllerReleasesPreviousAsset(t *testing.T) {
	f := newFixture(t, hall(), "")

	f.controller.Request("alpha")
	drain(t, f.controller)
	first := f.stage.Asset()
	require.NotNil(t, first)
	assert.InDelta(t, 12.0/14.0, first.Scale(), 1e-6)

	f.controller.Request("beta")
	drain(t, f.controller)
	assert.True(t, first.Released())
	assert.Nil(t, first.Model())
	assert.Equal(t, "beta", f.stage.Asset().Name().String())
}

func TestMissingLightingLeavesStageUntouched(t *testing.T) {
	fsys := hall()
	loadertest.AddExhibit(fsys, modelsDir, "gamma", loadertest.BoxModel(1, 1, 1), loadertest.PNG(2, 2, color.White), "")
	f := newFixture(t, fsys, "")

	f.controller.Request("beta")
	drain(t, f.controller)
	tex := f.scene.ScreenTexture()

	f.controller.Request("gamma")
	drain(t, f.controller)

	assert.Equal(t, "beta", f.stage.Asset().Name().String())
	assert.Same(t, tex, f.scene.ScreenTexture())
	assert.InDelta(t, 15, f.stage.Sun().Intensity(), 1e-5)
	assert.InDelta(t, 2.6, f.stage.Ambient().Intensity(), 1e-5)
	assert.Equal(t, exhibit.StateIdle, f.controller.State())
	assert.Contains(t, f.states(), exhibit.StateFailed)
}

func TestMalformedLightingFailsSwap(t *testing.T) {
	fsys := hall()
	loadertest.AddExhibit(fsys, modelsDir, "gamma", loadertest.BoxModel(1, 1, 1), nil, "color,strength,data\nnot-a-colour,1,0 0\n#ffffff,1\n")
	f := newFixture(t, fsys, "")

	f.controller.Request("beta")
	drain(t, f.controller)
	f.controller.Request("gamma")
	drain(t, f.controller)

	assert.Equal(t, "beta", f.stage.Asset().Name().String())
	assert.Equal(t, [3]float32{0, 1, 0}, f.stage.Sun().Color())

	f.mu.Lock()
	last := f.transitions[len(f.transitions)-2]
	f.mu.Unlock()
	assert.Equal(t, exhibit.StateFailed, last.To)
	assert.Error(t, last.Err)
}

func TestModelFailureKeepsPreviousModel(t *testing.T) {
	fsys := hall()
	loadertest.AddExhibit(fsys, modelsDir, "delta", nil, loadertest.PNG(1, 1, color.White), loadertest.Lighting)
	f := newFixture(t, fsys, "")

	f.controller.Request("beta")
	drain(t, f.controller)
	f.controller.Request("delta")
	drain(t, f.controller)

	assert.Equal(t, "beta", f.stage.Asset().Name().String())
	assert.Equal(t, [3]float32{1, 0, 0}, f.stage.Sun().Color())
	assert.InDelta(t, 10, f.stage.Sun().Intensity(), 1e-5)
	assert.Equal(t, 7, f.scene.ScreenTexture().Bounds().Dx())
	assert.NotContains(t, f.states(), exhibit.StateFailed)
}

func TestPreviewFailureIsNonFatal(t *testing.T) {
	fsys := hall()
	loadertest.AddExhibit(fsys, modelsDir, "epsilon", loadertest.BoxModel(2, 2, 2), nil, loadertest.Lighting)
	f := newFixture(t, fsys, "")

	f.controller.Request("beta")
	drain(t, f.controller)
	tex := f.scene.ScreenTexture()
	f.controller.Request("epsilon")
	drain(t, f.controller)

	assert.Equal(t, "epsilon", f.stage.Asset().Name().String())
	assert.Equal(t, float32(1), f.stage.Asset().Scale())
	assert.Same(t, tex, f.scene.ScreenTexture())
}

func TestUnknownExhibitFails(t *testing.T) {
	f := newFixture(t, hall(), "")
	f.controller.Request("zeta")
	drain(t, f.controller)

	assert.Nil(t, f.stage.Asset())
	assert.Equal(t, []exhibit.State{exhibit.StateLoading, exhibit.StateFailed, exhibit.StateIdle}, f.states())
}

func TestLatestRequestWinsWithCancellation(t *testing.T) {
	f := newFixture(t, hall(), "alpha", exhibit.WithCancelSuperseded(true))

	first := f.controller.Request("alpha")
	second := f.controller.Request("beta")
	assert.Greater(t, second, first)
	drain(t, f.controller)

	assert.Equal(t, "beta", f.stage.Asset().Name().String())
	assert.Equal(t, int32(1), f.loader.cancelled.Load())
	token, name := f.controller.Latest()
	assert.Equal(t, second, token)
	assert.Equal(t, "beta", name.String())
}

func TestLatestRequestWinsWithoutCancellation(t *testing.T) {
	f := newFixture(t, hall(), "alpha", exhibit.WithCancelSuperseded(false))

	f.controller.Request("alpha")
	f.controller.Request("beta")

	require.Eventually(t, func() bool {
		f.controller.Pump()
		a := f.stage.Asset()
		return a != nil && a.Name() == "beta"
	}, 5*time.Second, 5*time.Millisecond)

	// alpha finishes last and must not replace beta
	close(f.loader.gate)
	drain(t, f.controller)

	assert.Equal(t, "beta", f.stage.Asset().Name().String())
	assert.InDelta(t, 15, f.stage.Sun().Intensity(), 1e-5)
	assert.Zero(t, f.loader.cancelled.Load())
}

func TestPumpDoesNotBlock(t *testing.T) {
	f := newFixture(t, hall(), "alpha")
	f.controller.Request("alpha")

	done := make(chan int)
	go func() { done <- f.controller.Pump() }()
	select {
	case n := <-done:
		assert.Zero(t, n)
	case <-time.After(time.Second):
		t.Fatal("Pump blocked on an in-flight load")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.controller.Drain(ctx), context.DeadlineExceeded)
}

func TestRequestAfterClose(t *testing.T) {
	f := newFixture(t, hall(), "")
	f.controller.Close()
	f.controller.Close()

	assert.Zero(t, f.controller.Request("beta"))
	assert.NoError(t, f.controller.Drain(context.Background()))
	assert.Nil(t, f.stage.Asset())
}

func TestControllerEvictsReplacedModel(t *testing.T) {
	f := newFixture(t, hall(), "")
	catalog, err := exhibit.NewCatalog(modelsDir, catalogNames...)
	require.NoError(t, err)
	alpha, err := catalog.Bundle("alpha")
	require.NoError(t, err)
	beta, err := catalog.Bundle("beta")
	require.NoError(t, err)

	f.controller.Request("alpha")
	drain(t, f.controller)
	assert.NotNil(t, f.loader.Get(alpha.Model))

	f.controller.Request("beta")
	drain(t, f.controller)
	assert.Nil(t, f.loader.Get(alpha.Model))
	assert.NotNil(t, f.loader.Get(beta.Model))

	// re-requesting the displayed exhibit keeps its model cached
	f.controller.Request("beta")
	drain(t, f.controller)
	assert.NotNil(t, f.loader.Get(beta.Model))
	assert.Equal(t, "beta", f.stage.Asset().Name().String())
}

func TestPartFailuresUseControllerLogger(t *testing.T) {
	fsys := hall()
	loadertest.AddExhibit(fsys, modelsDir, "epsilon", loadertest.BoxModel(2, 2, 2), nil, loadertest.Lighting)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	f := newFixture(t, fsys, "", exhibit.WithLogger(logger))

	f.controller.Request("epsilon")
	drain(t, f.controller)

	out := buf.String()
	assert.Contains(t, out, `msg="exhibit part not loaded"`)
	assert.Contains(t, out, "exhibit=epsilon")
	assert.Contains(t, out, "part=preview")
	assert.Contains(t, out, "level=WARN")
}
