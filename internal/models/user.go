// Package models defines data structures for Folio
package models

import "time"

// User represents a registered account.
type User struct {
	ID           string    `json:"id" badgerhold:"key"`
	Name         string    `json:"name"`
	Email        string    `json:"email" badgerhold:"unique"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
