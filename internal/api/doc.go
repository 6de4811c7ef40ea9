// Package api contains the HTTP handlers exposing session memory, mastery
// forecasts, vocabulary suggestions, and program document analysis.
package api
