// Package program extracts communication goals and target words from
// free-text program documents (e.g. an IEP). The extraction is deterministic
// keyword matching; the result feeds the session memory's program context
// through the standard partial-update merge.
package program

import (
	"regexp"
	"strings"
)

// Result caps keep the extracted context small enough to embed in planner
// prompts.
const (
	maxGoals       = 5
	maxTargetWords = 15
	maxConstraints = 3
	maxWordLength  = 15
)

// goalKeywords mark sentences that state a communication goal.
var goalKeywords = []string{
	"will be able to",
	"will demonstrate",
	"will communicate",
	"will express",
	"will request",
	"will use",
	"goal:",
	"objective:",
}

// constraintKeywords mark sentences that state limitations or accommodations.
var constraintKeywords = []string{
	"avoid",
	"do not",
	"should not",
	"cannot",
	"limitation",
	"accommodation",
}

// targetWordPatterns match explicit vocabulary lists in the document.
var targetWordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)target words?:\s*([^.]+)`),
	regexp.MustCompile(`(?i)vocabulary:\s*([^.]+)`),
	regexp.MustCompile(`(?i)core words?:\s*([^.]+)`),
}

// commonCoreWords is the fallback vocabulary scanned for when the document
// lists no explicit target words.
var commonCoreWords = []string{
	"want", "go", "help", "more", "stop", "yes", "no", "like", "eat", "play",
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Analysis is the extracted program context.
type Analysis struct {
	ExtractedGoals []string `json:"extractedGoals"`
	TargetWords    []string `json:"targetWords"`
	Constraints    []string `json:"constraints"`
}

// Analyze extracts goals, target words, and constraints from raw program
// text. It never fails; an unrecognizable document yields empty lists.
func Analyze(text string) Analysis {
	sentences := sentenceSplit.Split(text, -1)

	return Analysis{
		ExtractedGoals: capList(matchSentences(sentences, goalKeywords), maxGoals),
		TargetWords:    capList(extractTargetWords(text), maxTargetWords),
		Constraints:    capList(matchSentences(sentences, constraintKeywords), maxConstraints),
	}
}

// matchSentences returns trimmed sentences containing any of the keywords,
// matched case-insensitively.
func matchSentences(sentences, keywords []string) []string {
	matched := []string{}
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				if trimmed := strings.TrimSpace(sentence); trimmed != "" {
					matched = append(matched, trimmed)
				}
				break
			}
		}
	}
	return matched
}

// extractTargetWords pulls vocabulary from explicit target-word lists,
// falling back to scanning for common core words when no list is present.
// The result is deduplicated in first-seen order.
func extractTargetWords(text string) []string {
	words := []string{}

	for _, pattern := range targetWordPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			for _, word := range strings.FieldsFunc(match[1], func(r rune) bool {
				return r == ',' || r == ';'
			}) {
				trimmed := strings.TrimSpace(word)
				if trimmed != "" && len(trimmed) < maxWordLength {
					words = append(words, trimmed)
				}
			}
		}
	}

	if len(words) == 0 {
		lower := strings.ToLower(text)
		for _, word := range commonCoreWords {
			if strings.Contains(lower, word) {
				words = append(words, word)
			}
		}
	}

	return dedupe(words)
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	unique := words[:0]
	for _, word := range words {
		key := strings.ToLower(word)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, word)
		}
	}
	return unique
}

// capList truncates a list to at most n entries.
func capList(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
