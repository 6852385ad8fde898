package domain

import "time"

type Action string

const (
	ActionLogin          Action = "login"
	ActionRefresh        Action = "refresh"
	ActionPasswordChange Action = "password"
	ActionProfileUpdate  Action = "update"
)

// ActivityEntry is one audit record of something a user did.
type ActivityEntry struct {
	ID        string
	UserID    *int64
	Action    Action
	Entity    string
	EntityID  *int64
	ActorName string
	IPAddress string
	UserAgent string
	Metadata  map[string]any
	CreatedAt time.Time
}
