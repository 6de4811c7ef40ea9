// Package mastery implements the deterministic mastery forecast heuristic:
// a pure function from per-word usage counts to a sorted set of forecast
// entries with projected mastery dates.
package mastery

import (
	"math"
	"sort"
	"time"

	"github.com/wordpath/wordpath-api/internal/domain"
)

// DateFormat is the calendar-date layout used for projected mastery dates.
const DateFormat = "2006-01-02"

// Forecast computes the full mastery projection for the given word stats
// using the default parameters. See ForecastWithParams.
func Forecast(
	stats map[string]*domain.WordStats,
	order []string,
	now time.Time,
) []domain.MasteryForecast {
	return ForecastWithParams(stats, order, now, DefaultParams())
}

// ForecastWithParams computes one forecast entry per word in stats:
//
//   - count > MasteredThreshold: mastered, no projected date.
//   - count ≥ DevelopingThreshold: developing, projected date is now plus
//     ceil((TargetCount−count) × DevelopingDayFactor) days.
//   - otherwise: emerging, projected date is now plus
//     ceil((TargetCount−count) × EmergingDayFactor) days.
//
// Entries are sorted ascending by level (emerging, developing, mastered);
// ties keep the first-seen order given by order. Words present in stats but
// missing from order (records written before the order was tracked) are
// appended in lexicographic order so the result stays deterministic.
//
// The result is recomputed in full on every call; there is no incremental
// state to drift out of sync with the stats.
func ForecastWithParams(
	stats map[string]*domain.WordStats,
	order []string,
	now time.Time,
	params *Params,
) []domain.MasteryForecast {
	forecasts := make([]domain.MasteryForecast, 0, len(stats))

	for _, word := range orderedWords(stats, order) {
		forecasts = append(forecasts, forecastWord(word, stats[word].Count, now, params))
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		return forecasts[i].Level.Priority() < forecasts[j].Level.Priority()
	})

	return forecasts
}

// forecastWord classifies a single word and projects its mastery date.
func forecastWord(word string, count int, now time.Time, params *Params) domain.MasteryForecast {
	entry := domain.MasteryForecast{Word: word}

	switch {
	case count > params.MasteredThreshold:
		entry.Level = domain.MasteryMastered
	case count >= params.DevelopingThreshold:
		entry.Level = domain.MasteryDeveloping
		entry.ProjectedMasteryDate = projectDate(count, params.DevelopingDayFactor, now, params)
	default:
		entry.Level = domain.MasteryEmerging
		entry.ProjectedMasteryDate = projectDate(count, params.EmergingDayFactor, now, params)
	}

	return entry
}

// projectDate computes now + ceil((target−count) × factor) days as a
// calendar date. The rounding rule is ceil, not round; downstream consumers
// depend on the exact dates.
func projectDate(count int, factor float64, now time.Time, params *Params) string {
	days := int(math.Ceil(float64(params.TargetCount-count) * factor))
	return now.AddDate(0, 0, days).Format(DateFormat)
}

// orderedWords returns the stats keys in first-seen order, with any keys
// missing from order appended lexicographically.
func orderedWords(stats map[string]*domain.WordStats, order []string) []string {
	words := make([]string, 0, len(stats))
	seen := make(map[string]bool, len(stats))

	for _, word := range order {
		if _, ok := stats[word]; ok && !seen[word] {
			words = append(words, word)
			seen[word] = true
		}
	}

	if len(words) == len(stats) {
		return words
	}

	rest := make([]string, 0, len(stats)-len(words))
	for word := range stats {
		if !seen[word] {
			rest = append(rest, word)
		}
	}
	sort.Strings(rest)

	return append(words, rest...)
}
