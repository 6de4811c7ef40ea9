// Package vocab holds the slot-typed core vocabulary of the sentence
// builder and the preference-ordered suggestion logic.
package vocab

import (
	"errors"
	"sort"
	"strings"

	"github.com/wordpath/wordpath-api/internal/domain"
)

// Slot identifies one step of the sentence-building wizard.
type Slot string

// The five wizard slots, in step order.
const (
	SlotWho       Slot = "WHO"
	SlotAction    Slot = "ACTION"
	SlotObject    Slot = "OBJECT"
	SlotLocation  Slot = "LOCATION"
	SlotModifiers Slot = "MODIFIERS"
)

// ErrUnknownSlot is returned when a string does not name a wizard slot.
var ErrUnknownSlot = errors.New("unknown slot")

// StepOrder is the order of steps in the wizard.
var StepOrder = []Slot{SlotWho, SlotAction, SlotObject, SlotLocation, SlotModifiers}

// StepLabels maps each slot to its human-readable label.
var StepLabels = map[Slot]string{
	SlotWho:       "Agent (WHO)",
	SlotAction:    "Action",
	SlotObject:    "Patient-object",
	SlotLocation:  "Location",
	SlotModifiers: "Modifiers-feelings",
}

// CoreVocabulary is the baseline word set per slot, before any
// personalization.
var CoreVocabulary = map[Slot][]string{
	SlotWho:       {"I", "You", "We", "They", "Yes", "No"},
	SlotAction:    {"want", "go", "play", "look", "eat", "get", "stop", "like"},
	SlotObject:    {"ball", "toy", "it", "that", "more", "water"},
	SlotLocation:  {"here", "there", "outside", "in", "on", "now", "later"},
	SlotModifiers: {"more", "again", "big", "fast", "good", "bad", "happy", "mad"},
}

// ParseSlot maps a string (case-insensitive) to a Slot.
func ParseSlot(s string) (Slot, error) {
	slot := Slot(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := CoreVocabulary[slot]; !ok {
		return "", ErrUnknownSlot
	}
	return slot, nil
}

// Candidates returns the core vocabulary for a slot.
func Candidates(slot Slot) []string {
	return append([]string(nil), CoreVocabulary[slot]...)
}

// Suggest returns the slot's candidates ordered by the session's preference
// scores, highest first. Words the session has never used keep their core
// vocabulary order after all preferred words; ordering is stable so the
// curated baseline order survives ties.
func Suggest(slot Slot, preferred map[string]int) []string {
	candidates := Candidates(slot)

	sort.SliceStable(candidates, func(i, j int) bool {
		return preferred[domain.NormalizeWord(candidates[i])] >
			preferred[domain.NormalizeWord(candidates[j])]
	})

	return candidates
}
