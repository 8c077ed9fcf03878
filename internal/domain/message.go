package domain

import "time"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Turn struct {
	Role      string
	Content   string
	Timestamp time.Time
}
