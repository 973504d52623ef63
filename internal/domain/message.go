package domain

// Message is one turn entry in a conversation transcript. Assistant
// messages mutate in place while their turn is streaming; user messages
// are immutable once appended.
type Message struct {
	ID        MessageID
	SessionID SessionID
	Sender    Sender
	Text      string
	CreatedAt Timestamp

	// Set only after stream finalization, from trailing directives.
	YouTubeID        string
	ShowSignUpButton bool
}

// Conversation is the ordered transcript of a session plus its loading
// flag and last error. Ordering is append-only; the only whole-sale
// mutations are the explicit resets.
type Conversation struct {
	SessionID SessionID
	Messages  []*Message
	Loading   bool
	LastError string

	// ReEngaged is set once the idle re-engagement turn has fired and
	// clears when the next user message is appended.
	ReEngaged bool
}

// LastMessage returns the newest transcript entry, or nil when empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}
