package domain

import "context"

// Fragment is one incremental piece of assistant output. A transport
// failure mid-stream is delivered as a final Fragment with Err set; a
// clean end of stream closes the channel instead.
type Fragment struct {
	Text string
	Err  error
}

// ChatStreamer defines how the core talks to the hosted chat service.
// StreamReply starts one assistant turn for the given prompt (user text
// or a synthetic system command) and returns the fragment sequence.
// Canceling ctx tells the service to stop producing, best-effort.
type ChatStreamer interface {
	StreamReply(ctx context.Context, prompt string, history []*Message) (<-chan Fragment, error)
}

// AssetStore is the minimal key-blob contract behind the asset cache.
// Get returns ErrAssetNotFound for a missing key; backends signal
// ErrStorageUnavailable when the store itself cannot be used.
type AssetStore interface {
	Put(ctx context.Context, asset *Asset) error
	Get(ctx context.Context, key AssetKey) (*Asset, error)
	Delete(ctx context.Context, key AssetKey) error
}

// AssetFetcher fetches a whole remote resource on cache miss.
type AssetFetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// ArchiveStore persists finalized conversation turns so the operator can
// read them back. Best-effort: callers log failures and move on.
type ArchiveStore interface {
	AppendMessage(ctx context.Context, msg *Message) error
	GetMessagesBySession(ctx context.Context, sessionID SessionID, limit int) ([]*Message, error)
}
