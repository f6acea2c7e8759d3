package factory

import (
	"context"
	"time"

	"github.com/BAYRYO/monopoly-rgpd/internal/dependencies/mocks"
	"github.com/BAYRYO/monopoly-rgpd/internal/services/registry"
	"github.com/BAYRYO/monopoly-rgpd/internal/storage/memory"
	"github.com/BAYRYO/monopoly-rgpd/internal/testutil"
)

// TestApp bundles an App with its mocked dependencies for tests
type TestApp struct {
	*App
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MemStorage *memory.Storage
}

// NewTestApp creates a fully wired App over in-memory storage with mocked
// clock and randomness, bootstrapped with the default room
func NewTestApp() (*TestApp, error) {
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()

	app := newWithDependencies(store, clk, rnd, registry.DefaultConfig(), testutil.NopLogger())
	if err := app.Bootstrap(context.Background()); err != nil {
		return nil, err
	}

	return &TestApp{
		App:        app,
		MockClock:  clk,
		MockRandom: rnd,
		MemStorage: store,
	}, nil
}
