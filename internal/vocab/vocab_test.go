package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlot(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected Slot
		wantErr  bool
	}{
		{"upper case", "WHO", SlotWho, false},
		{"lower case", "action", SlotAction, false},
		{"mixed case with whitespace", "  Object ", SlotObject, false},
		{"unknown slot", "VERB", "", true},
		{"empty string", "", "", true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			slot, err := ParseSlot(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownSlot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, slot)
		})
	}
}

func TestCandidatesReturnsCopy(t *testing.T) {
	t.Parallel()

	candidates := Candidates(SlotWho)
	require.NotEmpty(t, candidates)

	candidates[0] = "mutated"
	assert.Equal(t, "I", CoreVocabulary[SlotWho][0])
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	t.Run("orders by preference score descending", func(t *testing.T) {
		t.Parallel()

		preferred := map[string]int{"ball": 5, "water": 2}

		suggestions := Suggest(SlotObject, preferred)
		require.Len(t, suggestions, len(CoreVocabulary[SlotObject]))

		assert.Equal(t, "ball", suggestions[0])
		assert.Equal(t, "water", suggestions[1])
	})

	t.Run("ties keep core vocabulary order", func(t *testing.T) {
		t.Parallel()

		suggestions := Suggest(SlotAction, nil)
		assert.Equal(t, CoreVocabulary[SlotAction], suggestions)
	})

	t.Run("preference lookup is case-insensitive against candidates", func(t *testing.T) {
		t.Parallel()

		// "You" in the core vocabulary must match the normalized "you" key.
		preferred := map[string]int{"you": 3}

		suggestions := Suggest(SlotWho, preferred)
		assert.Equal(t, "You", suggestions[0])
	})

	t.Run("unused words follow preferred ones", func(t *testing.T) {
		t.Parallel()

		preferred := map[string]int{"here": 1}

		suggestions := Suggest(SlotLocation, preferred)
		assert.Equal(t, "here", suggestions[0])
		assert.Equal(t, []string{"there", "outside", "in", "on", "now", "later"}, suggestions[1:])
	})
}
