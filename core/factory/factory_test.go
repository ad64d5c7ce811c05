package factory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct{ Floors int }

type sampleConf struct {
	Floors int    `json:"floors"`
	Name   string `json:"name"`
}

func newSampleRegistry(t *testing.T) *Registry[*sample] {
	t.Helper()
	reg := NewRegistry[*sample]()
	require.NoError(t, reg.Register("s", func(conf map[string]any) (*sample, error) {
		var c sampleConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Floors < 0 {
			return nil, errors.New("negative floors")
		}
		return &sample{Floors: c.Floors}, nil
	}))
	return reg
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := newSampleRegistry(t)
	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"floors": 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, inst.Floors)

	// values from env providers arrive as strings
	inst, err = reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"floors": "12"}})
	require.NoError(t, err)
	assert.Equal(t, 12, inst.Floors)
}

// Test duplicate registration and unknown type errors.
func TestRegistry_Errors(t *testing.T) {
	reg := newSampleRegistry(t)
	assert.Error(t, reg.Register("s", func(map[string]any) (*sample, error) { return nil, nil }))
	assert.Error(t, reg.Register("x", nil))

	_, err := reg.Create(ModuleConfig{Type: "y"})
	assert.True(t, errors.Is(err, ErrUnknownModule))

	_, err = reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"floors": -1}})
	assert.ErrorContains(t, err, "create s")
}

func TestRegistry_Types(t *testing.T) {
	reg := newSampleRegistry(t)
	require.NoError(t, reg.Register("a", func(map[string]any) (*sample, error) { return &sample{}, nil }))
	assert.Equal(t, []string{"a", "s"}, reg.Types())
}
