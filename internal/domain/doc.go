// Package domain contains the core session memory record and its value
// types, free of persistence and transport concerns.
package domain
