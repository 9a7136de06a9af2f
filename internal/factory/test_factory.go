package factory

import (
	"time"

	"github.com/mcoot/nexus/internal/dependencies/mocks"
	"github.com/mcoot/nexus/internal/storage/memory"
	"github.com/mcoot/nexus/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MockGenerator *mocks.MockGenerator
	MemoryStorage *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(Config{})
}

// NewTestAppWithConfig is NewTestApp with service settings from cfg.
// Storage, logger and generator settings in cfg are ignored.
func NewTestAppWithConfig(cfg Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockGenerator := mocks.NewMockGenerator()

	if cfg.PaymentRecipient == "" {
		cfg.PaymentRecipient = "billing@nexus.ia"
	}
	app := newWithDependencies(store, mockClock, mockRandom, mockGenerator, cfg, testutil.NopLogger())

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		MockGenerator: mockGenerator,
		MemoryStorage: store,
	}
}
