package domain

import "context"

// User is a row of the legacy user directory. The app is single-user and
// only lists these.
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

type UserRepository interface {
	List(ctx context.Context) ([]*User, error)
}
