// Package postgres provides the PostgreSQL implementation of the durable
// session memory store.
package postgres
