package ctxutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromCtx(ctx))
}

func TestRequestID_Missing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RequestIDFromCtx(context.Background()))
}

func TestClientIP_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithClientIP(context.Background(), "10.1.2.3")
	assert.Equal(t, "10.1.2.3", ClientIPFromCtx(ctx))
	assert.Empty(t, ClientIPFromCtx(context.Background()))
}

func TestKeysDoNotCollide(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "a")
	ctx = WithClientIP(ctx, "b")
	assert.Equal(t, "a", RequestIDFromCtx(ctx))
	assert.Equal(t, "b", ClientIPFromCtx(ctx))
}
