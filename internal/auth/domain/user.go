package domain

import (
	"strconv"
	"time"
)

type User struct {
	ID           int64
	Username     string
	Name         string
	Email        string
	PasswordHash string // argon2id PHC string
	Role         Role
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubjectID is the identifier carried, encrypted, in access tokens.
func (u User) SubjectID() string {
	return strconv.FormatInt(u.ID, 10)
}

// ParseSubjectID is the inverse of User.SubjectID.
func ParseSubjectID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
