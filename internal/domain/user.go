package domain

import "time"

// Account is the provider-side credential record behind a UserIdentity.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Metadata     map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity projects the account to the public identity shape.
func (a *Account) Identity() UserIdentity {
	return UserIdentity{ID: a.ID, Email: a.Email}
}
