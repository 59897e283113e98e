// Package models defines the rows the provisioning layer reads and writes.
package models

import "time"

// User is one row of the users table. PasswordHash and Salt are produced
// by the configured hashing strategy.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	Salt         string
	Roles        []string
	CreatedAt    time.Time
}
