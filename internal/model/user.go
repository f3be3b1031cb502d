package model

// User is an account as held by the stub backend.
type User struct {
	UserProfile
	PasswordHash string
}
