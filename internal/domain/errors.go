package domain

import "errors"

var (
	// ErrStorageUnavailable means the local store could not be opened or
	// a transaction failed. Callers treat it as a cache miss, never fatal.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrAssetNotFound is the explicit "absent" result of AssetStore.Get.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrContentUnavailable means the remote fetch after a cache miss
	// failed; no partial cache write happened.
	ErrContentUnavailable = errors.New("content unavailable")

	// ErrChatTransport covers a chat call failing on initiation or
	// mid-stream. Per-turn and transient.
	ErrChatTransport = errors.New("chat transport error")

	// ErrChatConfig means the chat service could not be initialized at
	// session start. Persistent until the process is reconfigured.
	ErrChatConfig = errors.New("chat not configured")

	ErrSessionNotFound = errors.New("session not found")
)
