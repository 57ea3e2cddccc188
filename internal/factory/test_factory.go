package factory

import (
	"time"

	"github.com/flagvault/flagvault/internal/dependencies/mocks"
	"github.com/flagvault/flagvault/internal/services/auth"
	"github.com/flagvault/flagvault/internal/services/registry"
	"github.com/flagvault/flagvault/internal/storage/memory"
	"github.com/flagvault/flagvault/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
// and the builtin challenge set
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()

	app := newWithDependencies(store, registry.Default(), mockClock, auth.DefaultConfig(), logger)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
