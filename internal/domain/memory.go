package domain

import (
	"strings"
	"time"
)

// MaxRecentEntries caps the recentGoals and recentUtterances lists.
// Oldest entries are dropped once the cap is reached.
const MaxRecentEntries = 20

// PairDelimiter joins the two words of a combination key. It cannot occur
// inside a normalized word because words are whitespace-tokenized.
const PairDelimiter = "+"

// UserProfile holds informational attributes about the communicator.
// It is written at session creation and never mutated by the engine.
type UserProfile struct {
	AgeRange      string `json:"ageRange,omitempty"`
	LiteracyLevel string `json:"literacyLevel,omitempty"`
	Language      string `json:"language,omitempty"`
}

// DefaultUserProfile returns the profile assigned to new sessions:
// an early-communicator child.
func DefaultUserProfile() *UserProfile {
	return &UserProfile{
		AgeRange:      "3-7",
		LiteracyLevel: "early-communicator",
		Language:      "en",
	}
}

// ProgramContext carries goals and target words extracted from an uploaded
// program document. It is produced by the text-analysis collaborator and
// merged field-by-field on update.
type ProgramContext struct {
	RawText        string   `json:"rawText,omitempty"`
	ExtractedGoals []string `json:"extractedGoals,omitempty"`
	TargetWords    []string `json:"targetWords,omitempty"`
}

// WordStats tracks usage of a single normalized word.
type WordStats struct {
	Count      int       `json:"count"`
	LastUsedAt time.Time `json:"lastUsedAt"`
}

// CombinationStats tracks usage of an ordered two-word combination.
type CombinationStats struct {
	Count int `json:"count"`
}

// MasteryLevel classifies a word's learning progress.
type MasteryLevel string

const (
	MasteryEmerging   MasteryLevel = "emerging"
	MasteryDeveloping MasteryLevel = "developing"
	MasteryMastered   MasteryLevel = "mastered"
)

// Priority returns the sort rank of the level: emerging entries sort first,
// mastered entries last.
func (l MasteryLevel) Priority() int {
	switch l {
	case MasteryDeveloping:
		return 1
	case MasteryMastered:
		return 2
	default:
		return 0
	}
}

// MasteryForecast is one entry of the per-session mastery projection.
// ProjectedMasteryDate is a calendar date (YYYY-MM-DD) and is empty for
// already-mastered words.
type MasteryForecast struct {
	Word                 string       `json:"word"`
	Level                MasteryLevel `json:"level"`
	ProjectedMasteryDate string       `json:"projectedMasteryDate,omitempty"`
}

// SessionMemory is the durable record of one communication session: which
// words and word pairs have been spoken, the rolling preference scores, and
// the derived mastery forecast.
//
// The JSON field names match the stored blob format and must not change;
// records written by earlier versions of the system are read back as-is.
type SessionMemory struct {
	SessionID        string                       `json:"sessionId"`
	UserProfile      *UserProfile                 `json:"userProfile,omitempty"`
	ProgramContext   *ProgramContext              `json:"programContext,omitempty"`
	RecentGoals      []string                     `json:"recentGoals"`
	RecentUtterances []string                     `json:"recentUtterances"`
	PreferredWords   map[string]int               `json:"preferredWords"`
	WordStats        map[string]*WordStats        `json:"wordStats"`
	CombinationStats map[string]*CombinationStats `json:"combinationStats"`
	MasteryForecast  []MasteryForecast            `json:"masteryForecast"`

	// WordOrder records the order in which words first entered WordStats.
	// Map iteration order is not stable, so the forecast tie-break
	// (first-seen wins) needs it persisted explicitly.
	WordOrder []string `json:"wordOrder,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSessionMemory creates an empty record for an unseen session ID with the
// default user profile and both timestamps set to now.
func NewSessionMemory(sessionID string, now time.Time) (*SessionMemory, error) {
	m := &SessionMemory{
		SessionID:        sessionID,
		UserProfile:      DefaultUserProfile(),
		RecentGoals:      []string{},
		RecentUtterances: []string{},
		PreferredWords:   map[string]int{},
		WordStats:        map[string]*WordStats{},
		CombinationStats: map[string]*CombinationStats{},
		MasteryForecast:  []MasteryForecast{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate checks the record's structural invariants.
func (m *SessionMemory) Validate() error {
	if m.SessionID == "" {
		return ErrEmptySessionID
	}

	for word := range m.WordStats {
		if word == "" || word != strings.ToLower(word) {
			return ErrInvalidWordKey
		}
	}

	if len(m.RecentGoals) > MaxRecentEntries || len(m.RecentUtterances) > MaxRecentEntries {
		return ErrRecentOverflow
	}

	return nil
}

// NormalizeWord lowercases and trims a word for use as a stats key.
// Returns the empty string for blank input.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// PairKey builds the combination key for two normalized words, preserving
// spoken order.
func PairKey(first, second string) string {
	return first + PairDelimiter + second
}

// TouchWord increments the usage count and preference score for a word,
// creating the entries on first use. Blank words are ignored. The word is
// normalized before lookup.
func (m *SessionMemory) TouchWord(word string, now time.Time) {
	normalized := NormalizeWord(word)
	if normalized == "" {
		return
	}

	if stats, ok := m.WordStats[normalized]; ok {
		stats.Count++
		stats.LastUsedAt = now
	} else {
		m.WordStats[normalized] = &WordStats{Count: 1, LastUsedAt: now}
		m.WordOrder = append(m.WordOrder, normalized)
	}

	m.PreferredWords[normalized]++
}

// TouchPair increments the combination count for an ordered word pair,
// creating the entry on first use. Both words must already be normalized.
func (m *SessionMemory) TouchPair(first, second string) {
	key := PairKey(first, second)
	if stats, ok := m.CombinationStats[key]; ok {
		stats.Count++
	} else {
		m.CombinationStats[key] = &CombinationStats{Count: 1}
	}
}

// PrependUtterance pushes the raw utterance onto the front of the recent
// list, dropping the oldest entries beyond the cap.
func (m *SessionMemory) PrependUtterance(utterance string) {
	m.RecentUtterances = prependCapped(m.RecentUtterances, []string{utterance})
}

// PrependGoals pushes goals onto the front of the recent-goals list,
// dropping the oldest entries beyond the cap.
func (m *SessionMemory) PrependGoals(goals []string) {
	m.RecentGoals = prependCapped(m.RecentGoals, goals)
}

// TokenizeUtterance splits an utterance into lowercase whitespace-delimited
// tokens, discarding empties.
func TokenizeUtterance(utterance string) []string {
	return strings.Fields(strings.ToLower(utterance))
}

// Clone returns a deep copy of the record. Mutating operations work on a
// clone so that records already handed out to callers stay stable.
func (m *SessionMemory) Clone() *SessionMemory {
	clone := *m

	if m.UserProfile != nil {
		profile := *m.UserProfile
		clone.UserProfile = &profile
	}
	if m.ProgramContext != nil {
		pc := *m.ProgramContext
		pc.ExtractedGoals = cloneStrings(m.ProgramContext.ExtractedGoals)
		pc.TargetWords = cloneStrings(m.ProgramContext.TargetWords)
		clone.ProgramContext = &pc
	}

	clone.RecentGoals = cloneStrings(m.RecentGoals)
	clone.RecentUtterances = cloneStrings(m.RecentUtterances)
	clone.WordOrder = cloneStrings(m.WordOrder)
	if m.MasteryForecast != nil {
		clone.MasteryForecast = make([]MasteryForecast, len(m.MasteryForecast))
		copy(clone.MasteryForecast, m.MasteryForecast)
	}

	clone.PreferredWords = make(map[string]int, len(m.PreferredWords))
	for k, v := range m.PreferredWords {
		clone.PreferredWords[k] = v
	}

	clone.WordStats = make(map[string]*WordStats, len(m.WordStats))
	for k, v := range m.WordStats {
		stats := *v
		clone.WordStats[k] = &stats
	}

	clone.CombinationStats = make(map[string]*CombinationStats, len(m.CombinationStats))
	for k, v := range m.CombinationStats {
		stats := *v
		clone.CombinationStats[k] = &stats
	}

	return &clone
}

// cloneStrings copies a string slice, preserving nil. The stored blob
// distinguishes absent lists from empty ones, so a clone must not change
// which of the two a record carries.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// prependCapped puts additions in front of existing entries and truncates to
// MaxRecentEntries, matching the most-recent-first ordering of the lists.
func prependCapped(existing, additions []string) []string {
	merged := make([]string, 0, len(additions)+len(existing))
	merged = append(merged, additions...)
	merged = append(merged, existing...)
	if len(merged) > MaxRecentEntries {
		merged = merged[:MaxRecentEntries]
	}
	return merged
}
