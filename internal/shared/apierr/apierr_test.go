package apierr

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailCopiesInsteadOfMutating(t *testing.T) {
	base := NotFound("Order", int64(42))

	enriched := base.WithDetail("hint", "check the id")

	assert.Equal(t, map[string]any{"resource": "Order", "id": int64(42)}, base.Details)
	assert.Equal(t, "check the id", enriched.Details["hint"])
	assert.NotContains(t, base.Details, "hint")
}

func TestNotFoundDetails(t *testing.T) {
	err := NotFound("User", int64(7))

	require.Equal(t, CodeNotFound, err.Code)
	require.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "User not found", err.Message)
	assert.Equal(t, "User", err.Details["resource"])
	assert.Equal(t, int64(7), err.Details["id"])
}
