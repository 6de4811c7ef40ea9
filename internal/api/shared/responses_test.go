package shared

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Words []string `json:"words"`
	}

	t.Run("decodes valid body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"words":["ball"]}`))

		var p payload
		require.NoError(t, DecodeJSON(req, &p))
		assert.Equal(t, []string{"ball"}, p.Words)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"words":[],"bogus":1}`))

		var p payload
		assert.Error(t, DecodeJSON(req, &p))
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"words":[]}{"more":true}`))

		var p payload
		err := DecodeJSON(req, &p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "trailing data")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"words":`))

		var p payload
		assert.Error(t, DecodeJSON(req, &p))
	})
}
