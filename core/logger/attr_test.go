package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofactor/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("attempt", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "attempt", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "0", g[0].Key)
	assert.Equal(t, "2", g[1].Key)
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDuration(t *testing.T) {
	t.Parallel()
	attr := logger.Duration(3 * time.Second)
	assert.Equal(t, "duration", attr.Key)
	assert.Equal(t, 3*time.Second, attr.Value.Duration())
}

func TestElapsed(t *testing.T) {
	t.Parallel()
	attr := logger.Elapsed(time.Now().Add(-time.Second))
	assert.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), time.Second)
}

func TestIdentifiers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "owner_id", logger.OwnerID("user-1").Key)
	assert.True(t, logger.OwnerID("").Equal(slog.Attr{}))

	assert.Equal(t, "attempt_id", logger.AttemptID("a-1").Key)
	assert.True(t, logger.AttemptID("").Equal(slog.Attr{}))

	attr := logger.ID("record_id", 42)
	assert.Equal(t, "record_id", attr.Key)
	assert.True(t, logger.ID("record_id", nil).Equal(slog.Attr{}))
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attr slog.Attr
		key  string
		val  string
	}{
		{logger.Component("twofactor"), "component", "twofactor"},
		{logger.Event("setup_confirmed"), "event", "setup_confirmed"},
		{logger.Action("verify"), "action", "verify"},
		{logger.Method("totp"), "method", "totp"},
		{logger.Result("verified"), "result", "verified"},
		{logger.Reason("invalid code"), "reason", "invalid code"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.key, tt.attr.Key)
		assert.Equal(t, tt.val, tt.attr.Value.String())
	}

	assert.True(t, logger.Method("").Equal(slog.Attr{}))
	assert.True(t, logger.Reason("").Equal(slog.Attr{}))
	assert.Equal(t, int64(7), logger.Count("codes", 7).Value.Int64())
	assert.Equal(t, int64(2), logger.RetryCount(2).Value.Int64())
}
