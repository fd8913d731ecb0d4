package usecase

import "context"

// Notifier is the best-effort push sender. Failures never affect view
// consistency; callers log and move on.
type Notifier interface {
	SendPush(ctx context.Context, token, title, body string, data map[string]string) error
}

// BlobStore covers the cascade's unconditional file cleanup.
type BlobStore interface {
	DeleteByURL(ctx context.Context, fileURL string) error
	DeleteFolder(ctx context.Context, prefix string) error
}
