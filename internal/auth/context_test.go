package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandforge/pipeline/internal/domain"
)

func newTestContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	return c
}

func TestSetAndGetCaller(t *testing.T) {
	c := newTestContext()
	claims := &domain.CallerClaims{Sub: "user-1", Email: "a@example.com"}

	assert.False(t, IsAuthenticated(c))

	SetCaller(c, claims)

	assert.True(t, IsAuthenticated(c))

	gotClaims, ok := GetCallerClaims(c)
	require.True(t, ok)
	assert.Equal(t, "user-1", gotClaims.Sub)

	id, ok := GetCallerID(c)
	require.True(t, ok)
	assert.Equal(t, "user-1", id)

	caller, ok := GetCaller(c)
	require.True(t, ok)
	assert.Equal(t, "a@example.com", caller.Email)

	assert.Equal(t, "user-1", MustGetCallerID(c))
}

func TestMustGetCallerIDPanicsWhenMissing(t *testing.T) {
	c := newTestContext()
	assert.Panics(t, func() { MustGetCallerID(c) })
}
