package domain

// MemoryUpdate is a partial update to a SessionMemory. Each field follows
// exactly one merge rule:
//
//   - RecentGoals, RecentUtterances: prepended to the existing list, which is
//     then capped at MaxRecentEntries.
//   - PreferredWords: shallow key-by-key merge; a provided key replaces the
//     stored score for that word.
//   - ProgramContext: field-by-field merge; provided fields replace the prior
//     value, omitted fields are preserved.
//
// Nil fields are omitted from the update entirely.
type MemoryUpdate struct {
	RecentGoals      []string        `json:"recentGoals,omitempty"`
	RecentUtterances []string        `json:"recentUtterances,omitempty"`
	PreferredWords   map[string]int  `json:"preferredWords,omitempty"`
	ProgramContext   *ProgramContext `json:"programContext,omitempty"`
}

// IsEmpty reports whether the update carries no changes.
func (u MemoryUpdate) IsEmpty() bool {
	return u.RecentGoals == nil &&
		u.RecentUtterances == nil &&
		u.PreferredWords == nil &&
		u.ProgramContext == nil
}

// Apply merges the update into the record in place.
func (u MemoryUpdate) Apply(m *SessionMemory) {
	if u.RecentGoals != nil {
		m.PrependGoals(u.RecentGoals)
	}

	if u.RecentUtterances != nil {
		m.RecentUtterances = prependCapped(m.RecentUtterances, u.RecentUtterances)
	}

	if u.PreferredWords != nil {
		if m.PreferredWords == nil {
			m.PreferredWords = map[string]int{}
		}
		for word, score := range u.PreferredWords {
			m.PreferredWords[NormalizeWord(word)] = score
		}
	}

	if u.ProgramContext != nil {
		if m.ProgramContext == nil {
			m.ProgramContext = &ProgramContext{}
		}
		if u.ProgramContext.RawText != "" {
			m.ProgramContext.RawText = u.ProgramContext.RawText
		}
		if u.ProgramContext.ExtractedGoals != nil {
			m.ProgramContext.ExtractedGoals = append([]string(nil), u.ProgramContext.ExtractedGoals...)
		}
		if u.ProgramContext.TargetWords != nil {
			m.ProgramContext.TargetWords = append([]string(nil), u.ProgramContext.TargetWords...)
		}
	}
}
