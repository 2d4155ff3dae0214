package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/overgrown/config"
)

// testConfig returns a fresh copy of the embedded defaults.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

// testContext builds a night-time context with no light and moss damage on.
func testContext(cfg *config.Config, seed int64) *WorldContext {
	return &WorldContext{
		DT:            cfg.Derived.DT32,
		Phase:         PhaseNight,
		DayMultiplier: 1,
		Bounds:        Bounds{Width: cfg.Derived.ScreenW32, Height: cfg.Derived.ScreenH32},
		MossDamage:    true,
		Rng:           rand.New(rand.NewSource(seed)),
	}
}

// grownPoint places a fully grown point with the given radius.
func grownPoint(x, y, r float32) SporePoint {
	return SporePoint{X: x, Y: y, GrowthProgress: 1, BaseSize: r, Alpha: 255}
}

func approx(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}
