package models

import "time"

// User is an account identified by email. UsageCount counts successful
// analyses and never exceeds UsageLimit.
type User struct {
	ID         string
	Email      string
	UsageCount int
	UsageLimit int
	CreatedAt  time.Time
}

// Remaining returns how many analyses the user may still run.
func (u *User) Remaining() int {
	if r := u.UsageLimit - u.UsageCount; r > 0 {
		return r
	}
	return 0
}

// Exhausted reports whether the free tier is used up.
func (u *User) Exhausted() bool {
	return u.UsageCount >= u.UsageLimit
}
