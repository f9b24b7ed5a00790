package scope

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingProvider struct{}

func (failingProvider) Names() []string { return []string{"broken"} }

func (failingProvider) GetData(context.Context) (map[string]any, error) {
	return nil, errors.New("boom")
}

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	src := map[string]any{"limit": 10, "base": "x"}
	provider := NewStaticProvider(src)
	assert.Equal(t, []string{"base", "limit"}, provider.Names())

	data, err := provider.GetData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, src, data)

	data["limit"] = 99
	src["base"] = "changed"
	again, err := provider.GetData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, again["limit"])
	assert.Equal(t, "x", again["base"])

	empty := NewStaticProvider(nil)
	data, err = empty.GetData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Empty(t, empty.Names())
}

func TestContextProvider(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		provider := NewContextProvider("outer", "user", "now")
		assert.Equal(t, []string{"user", "now"}, provider.Names())

		ctx, err := provider.AddDataToContext(context.Background(), map[string]any{"user": "admin"})
		require.NoError(t, err)
		ctx, err = provider.AddDataToContext(ctx, map[string]any{"now": 5})
		require.NoError(t, err)

		data, err := provider.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"user": "admin", "now": 5}, data)
	})

	t.Run("empty context", func(t *testing.T) {
		provider := NewContextProvider("outer", "user")
		data, err := provider.GetData(context.Background())
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("undeclared name", func(t *testing.T) {
		provider := NewContextProvider("outer", "user")
		_, err := provider.AddDataToContext(context.Background(), map[string]any{"other": 1})
		require.ErrorIs(t, err, ErrUndeclaredName)
	})

	t.Run("undeclared keys are filtered", func(t *testing.T) {
		provider := NewContextProvider("outer", "user")
		ctx := context.WithValue(context.Background(), ContextKey("outer"), map[string]any{"user": 1, "x": 2})
		data, err := provider.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"user": 1}, data)
	})

	t.Run("empty key", func(t *testing.T) {
		provider := NewContextProvider("")
		_, err := provider.GetData(context.Background())
		require.ErrorIs(t, err, ErrEmptyContextKey)
		_, err = provider.AddDataToContext(context.Background(), nil)
		require.ErrorIs(t, err, ErrEmptyContextKey)
	})

	t.Run("wrong type", func(t *testing.T) {
		provider := NewContextProvider("outer", "user")
		ctx := context.WithValue(context.Background(), ContextKey("outer"), "nope")
		_, err := provider.GetData(ctx)
		require.ErrorIs(t, err, ErrInvalidData)
	})
}

func TestCompositeProvider(t *testing.T) {
	t.Parallel()

	ctxProvider := NewContextProvider("outer", "user")
	ctx, err := ctxProvider.AddDataToContext(context.Background(), map[string]any{"user": "bob"})
	require.NoError(t, err)

	composite := NewCompositeProvider(
		NewStaticProvider(map[string]any{"user": "nobody", "limit": 3}),
		nil,
		ctxProvider,
	)
	assert.Equal(t, []string{"limit", "user"}, composite.Names())

	data, err := composite.GetData(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": "bob", "limit": 3}, data)

	_, err = NewCompositeProvider(failingProvider{}).GetData(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider 0")
}

func TestCompositeProviderAddDataToContext(t *testing.T) {
	t.Parallel()

	request := NewContextProvider("request", "user", "path")
	session := NewContextProvider("session", "user", "token")
	composite := NewCompositeProvider(NewStaticProvider(map[string]any{"limit": 3}), request, session)

	ctx, err := composite.AddDataToContext(context.Background(), map[string]any{
		"user":  "ana",
		"path":  "/x",
		"token": "t1",
	})
	require.NoError(t, err)

	data, err := request.GetData(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": "ana", "path": "/x"}, data)
	data, err = session.GetData(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": "ana", "token": "t1"}, data)

	data, err = composite.GetData(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"limit": 3, "user": "ana", "path": "/x", "token": "t1"}, data)

	t.Run("undeclared", func(t *testing.T) {
		t.Parallel()
		base := context.Background()
		got, err := composite.AddDataToContext(base, map[string]any{"user": "ana", "limit": 4})
		require.ErrorIs(t, err, ErrUndeclaredName)
		assert.Contains(t, err.Error(), `"limit"`)
		assert.Equal(t, base, got)
	})
}
