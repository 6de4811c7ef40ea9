// Package store defines persistence interfaces and shared error types used
// by store implementations.
package store
