package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmclSF/hamlet/pkg/migrate"
)

func TestMockHooksRecordsCalls(t *testing.T) {
	h := &MockHooks{}
	h.On("OnFileDiscovered", "a.js").Return(nil)
	h.On("OnFileConverted", "a.js", migrate.ConversionReport{}, time.Second).Return(nil)
	h.On("OnRunComplete", migrate.RunReport{}).Return(nil)

	require.NoError(t, h.OnFileDiscovered("a.js"))
	require.NoError(t, h.OnFileConverted("a.js", migrate.ConversionReport{}, time.Second))
	require.NoError(t, h.OnRunComplete(migrate.RunReport{}))
	h.AssertExpectations(t)
}

func TestRelaxedHooksAcceptsAnything(t *testing.T) {
	h := RelaxedHooks()
	assert.NoError(t, h.OnFileDiscovered("whatever"))
	assert.NoError(t, h.OnRunComplete(migrate.RunReport{}))
}
