package domain

// ConversationStore keeps the bounded turn log of every sender.
// Implementations must be safe for concurrent use.
type ConversationStore interface {
	Append(senderID string, turn Turn)
	Snapshot(senderID string) []Turn
}
