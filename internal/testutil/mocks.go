// Package testutil provides test helpers and mock implementations for the
// interfaces the migrate engine accepts as injected dependencies.
package testutil

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pmclSF/hamlet/pkg/migrate"
)

// MockHooks is a testify mock for migrate.Hooks. Configure expectations with
// .On("OnFileConverted", ...).Return(...). Safe for concurrent calls; the
// embedded mock serializes internally.
type MockHooks struct {
	mock.Mock
}

// OnFileDiscovered mocks the discovery callback.
func (m *MockHooks) OnFileDiscovered(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// OnFileConverted mocks the per-file completion callback.
func (m *MockHooks) OnFileConverted(path string, report migrate.ConversionReport, duration time.Duration) error {
	args := m.Called(path, report, duration)
	return args.Error(0)
}

// OnRunComplete mocks the run completion callback.
func (m *MockHooks) OnRunComplete(report migrate.RunReport) error {
	args := m.Called(report)
	return args.Error(0)
}

// RelaxedHooks is a MockHooks preconfigured to accept any call. Useful when a
// test needs a Hooks instance but makes no assertions about it.
func RelaxedHooks() *MockHooks {
	h := &MockHooks{}
	h.On("OnFileDiscovered", mock.Anything).Return(nil)
	h.On("OnFileConverted", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	h.On("OnRunComplete", mock.Anything).Return(nil)
	return h
}
