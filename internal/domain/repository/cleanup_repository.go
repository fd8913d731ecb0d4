package repository

import "context"

// CleanupRepository performs the batched deletes of the cascade engine.
// Both methods loop over bounded batches; a short batch terminates the
// loop, so fan-out size never grows the call stack.
type CleanupRepository interface {
	// DeleteUserCollection removes every document under
	// users/{userID}/{collection}.
	DeleteUserCollection(ctx context.Context, userID, collection string) error

	// DeleteChatHistory removes the shared message collection for a
	// relationship and the chat document itself.
	DeleteChatHistory(ctx context.Context, pairKey string) error
}
