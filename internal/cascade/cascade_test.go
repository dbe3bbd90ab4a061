package cascade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixed(name string, v int, ok bool, calls *[]string) Source[int] {
	return Func[int]{Label: name, Fn: func(context.Context) (int, bool) {
		*calls = append(*calls, name)
		return v, ok
	}}
}

func TestFirst(t *testing.T) {
	t.Parallel()

	t.Run("stops at first success", func(t *testing.T) {
		t.Parallel()
		var calls []string
		res, ok := First(context.Background(),
			fixed("a", 0, false, &calls),
			fixed("b", 2, true, &calls),
			fixed("c", 3, true, &calls),
		)
		assert.True(t, ok)
		assert.Equal(t, 2, res.Value)
		assert.Equal(t, "b", res.Source)
		assert.Equal(t, 1, res.Index)
		assert.Equal(t, []string{"a", "b"}, calls)
	})

	t.Run("all decline", func(t *testing.T) {
		t.Parallel()
		var calls []string
		res, ok := First(context.Background(), fixed("a", 0, false, &calls), fixed("b", 0, false, &calls))
		assert.False(t, ok)
		assert.Equal(t, []string{"a", "b"}, calls)
		assert.Equal(t, -1, res.Index)
		assert.Empty(t, res.Source)
	})

	t.Run("no sources", func(t *testing.T) {
		t.Parallel()
		_, ok := First[int](context.Background())
		assert.False(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var calls []string
		_, ok := First(ctx, fixed("a", 1, true, &calls))
		assert.False(t, ok)
		assert.Empty(t, calls)
	})
}
