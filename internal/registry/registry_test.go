package registry

import (
	"context"
	"testing"

	"github.com/specialistvlad/casegrid/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context, *model.Case) model.Status { return model.Success }

type twoFuncs struct{}

func (twoFuncs) Register(r *Registry) {
	r.Register("b", ok)
	r.Register("a", ok, "x", "y")
}

func TestRegistry(t *testing.T) {
	t.Run("register and lookup", func(t *testing.T) {
		// --- Arrange ---
		r := New()

		// --- Act ---
		r.RegisterModules(twoFuncs{})

		// --- Assert ---
		fn, found := r.Lookup("a")
		require.True(t, found)
		assert.Equal(t, model.Success, fn(context.Background(), nil))
		_, found = r.Lookup("missing")
		assert.False(t, found)
		assert.Equal(t, []string{"a", "b"}, r.Names())

		entries := r.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "a", entries[0].Name)
		assert.Equal(t, []string{"x", "y"}, entries[0].Params)
	})

	t.Run("duplicate name panics", func(t *testing.T) {
		r := New()
		r.Register("a", ok)
		assert.PanicsWithValue(t, "case function with name 'a' already registered", func() {
			r.Register("a", ok)
		})
	})

	t.Run("nil function panics", func(t *testing.T) {
		assert.Panics(t, func() { New().Register("a", nil) })
	})
}
