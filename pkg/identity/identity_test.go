package identity

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	_, ok := Get(context.Background())
	assert.False(t, ok)

	userID := uuid.New()
	id := New(userID, "ann@example.com", MethodClientSecret).
		WithRemoteIP(net.ParseIP("10.0.0.1"))

	got, ok := Get(Set(context.Background(), id))
	require.True(t, ok)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, MethodClientSecret, got.Method)
	assert.Equal(t, "10.0.0.1", got.RemoteIP.String())
}

func TestGetNilIdentity(t *testing.T) {
	_, ok := Get(Set(context.Background(), nil))
	assert.False(t, ok)
}

func TestWithExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	id := New(uuid.New(), "ann@example.com", MethodToken).WithExpiry(exp)

	assert.Equal(t, exp, id.ExpiresAt)
	assert.Equal(t, MethodToken, id.Method)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.7:53211"
	r.Header.Set("X-Forwarded-For", "1.2.3.4")
	assert.Equal(t, "192.168.1.7", ClientIP(r).String())

	r.RemoteAddr = "[::1]:8080"
	assert.Equal(t, "::1", ClientIP(r).String())
}
