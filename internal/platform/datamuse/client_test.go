package datamuse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelatedWords(t *testing.T) {
	t.Parallel()

	t.Run("sends topic and trigger parameters", func(t *testing.T) {
		t.Parallel()

		var gotQuery map[string][]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"word":"toy","score":100}]`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		words, err := client.RelatedWords(context.Background(), "ball", "play")
		require.NoError(t, err)

		assert.Equal(t, []string{"toy"}, words)
		assert.Equal(t, []string{"ball"}, gotQuery["ml"])
		assert.Equal(t, []string{"play"}, gotQuery["rel_trg"])
		assert.Equal(t, []string{"15"}, gotQuery["max"])
	})

	t.Run("omits trigger when empty", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.False(t, r.URL.Query().Has("rel_trg"))
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		words, err := client.RelatedWords(context.Background(), "ball", "")
		require.NoError(t, err)
		assert.Empty(t, words)
	})

	t.Run("filters multi-word and long candidates", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[
				{"word":"toy"},
				{"word":"beach ball"},
				{"word":"basketballs"},
				{"word":"round"}
			]`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		words, err := client.RelatedWords(context.Background(), "ball", "")
		require.NoError(t, err)

		assert.Equal(t, []string{"toy", "round"}, words)
	})

	t.Run("caps candidates at ten", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[
				{"word":"a"},{"word":"b"},{"word":"c"},{"word":"d"},
				{"word":"e"},{"word":"f"},{"word":"g"},{"word":"h"},
				{"word":"i"},{"word":"j"},{"word":"k"},{"word":"l"}
			]`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		words, err := client.RelatedWords(context.Background(), "ball", "")
		require.NoError(t, err)
		assert.Len(t, words, maxCandidates)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		_, err := client.RelatedWords(context.Background(), "ball", "")
		assert.Error(t, err)
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		_, err := client.RelatedWords(context.Background(), "ball", "")
		assert.Error(t, err)
	})
}
