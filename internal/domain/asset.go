package domain

// Asset is a named binary document stored under a logical slot key,
// e.g. the "pdf" and "booker" PDF slots. At most one Asset exists per
// key; writing an existing key replaces the whole record.
type Asset struct {
	Key       AssetKey
	Filename  string
	Data      []byte
	CreatedAt Timestamp
}
