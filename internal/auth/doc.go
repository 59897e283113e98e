// Package auth verifies username/password credentials against rows fetched
// from a relational store and answers role and permission membership
// questions for an authenticated Principal.
//
// The package never talks to a database directly: every lookup goes through
// a dbx.Executor, and password hashing is delegated to a hashing.Strategy.
// Verifier, Checker and Provider are immutable once built and safe for
// concurrent use. Every call issues at most one query.
package auth
