package domain

import "time"

// Identity is a staff account allowed to work repair tickets.
// Usernames are case-sensitive and immutable once provisioned.
type Identity struct {
	ID          string
	Username    string
	SecretHash  string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
