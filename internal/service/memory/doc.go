// Package memory implements the session memory engine: cache-aside access
// to per-session records, word and combination usage tracking, and the
// mastery forecast projection.
package memory
