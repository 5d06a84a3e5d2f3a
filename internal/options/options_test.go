package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	capacity int
	packed   bool
	applied  []string
}

func withCapacity(capacity int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if capacity < 1 {
			return errors.New("capacity must be positive")
		}
		c.capacity = capacity
		c.applied = append(c.applied, "capacity")

		return nil
	})
}

func withPacking(enabled bool) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.packed = enabled
		c.applied = append(c.applied, "packing")
	})
}

func TestApply_InOrder(t *testing.T) {
	cfg := &testConfig{}

	err := Apply(cfg, withPacking(true), withCapacity(64))
	require.NoError(t, err)
	require.Equal(t, 64, cfg.capacity)
	require.True(t, cfg.packed)
	require.Equal(t, []string{"packing", "capacity"}, cfg.applied)
}

func TestApply_StopsOnError(t *testing.T) {
	cfg := &testConfig{}

	err := Apply(cfg, withCapacity(-1), withPacking(true))
	require.Error(t, err)
	// The failing option aborts the chain; later options never run.
	require.False(t, cfg.packed)
	require.Empty(t, cfg.applied)
}

func TestApply_NoOptions(t *testing.T) {
	cfg := &testConfig{}
	require.NoError(t, Apply(cfg))
}
