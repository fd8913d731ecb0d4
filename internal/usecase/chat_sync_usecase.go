package usecase

import (
	"context"
	"sync"
	"time"

	"viewsync/internal/domain/entity"
	"viewsync/internal/domain/repository"
	"viewsync/pkg/logger"
)

// ChatSyncUseCase keeps the two per-viewer chat summary copies of a
// relationship consistent with the ground-truth message collection.
// Every handler is idempotent in final state: recomputation, not deltas,
// so duplicate and out-of-order deliveries converge.
type ChatSyncUseCase struct {
	chatViews repository.ChatViewRepository
	users     repository.UserRepository
	notifier  Notifier
}

func NewChatSyncUseCase(
	chatViews repository.ChatViewRepository,
	users repository.UserRepository,
	notifier Notifier,
) *ChatSyncUseCase {
	return &ChatSyncUseCase{
		chatViews: chatViews,
		users:     users,
		notifier:  notifier,
	}
}

// OnMessageCreated updates the sender-side copy, the receiver-side copy
// (with a fresh unread count) and fires the push notification. The three
// branches are independent single-copy transactions, issued concurrently
// and joined; no branch is contingent on another.
func (uc *ChatSyncUseCase) OnMessageCreated(ctx context.Context, msg *entity.Message) error {
	sender, err := uc.users.GetByID(ctx, msg.SenderID)
	if err != nil {
		return err
	}
	receiver, err := uc.users.GetByID(ctx, msg.ReceiverID)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		if err := uc.chatViews.SyncSummary(ctx, msg.SenderID, receiver, msg, false); err != nil {
			logger.Error("OnMessageCreated: sender view sync failed for %s: %v", msg.SenderID, err)
		}
	}()

	go func() {
		defer wg.Done()
		if err := uc.chatViews.SyncSummary(ctx, msg.ReceiverID, sender, msg, true); err != nil {
			logger.Error("OnMessageCreated: receiver view sync failed for %s: %v", msg.ReceiverID, err)
		}
	}()

	go func() {
		defer wg.Done()
		uc.notify(ctx, sender, receiver, msg)
	}()

	wg.Wait()
	return nil
}

// OnMessageUpdated reacts only to the isRead false -> true transition and
// refreshes the recipient-side counter from ground truth.
func (uc *ChatSyncUseCase) OnMessageUpdated(ctx context.Context, before, after *entity.Message) error {
	if !entity.ReadTransition(before, after) {
		logger.Debug("OnMessageUpdated: no read transition, skipping")
		return nil
	}
	return uc.chatViews.RecomputeUnread(ctx, after)
}

// OnProfileUpdated pushes changed display fields into every counterpart
// copy that mirrors this user. Per-copy failures are logged and the rest
// of the fan-out continues.
func (uc *ChatSyncUseCase) OnProfileUpdated(ctx context.Context, before, after *entity.User) error {
	if !entity.DisplayChanged(before, after) {
		return nil
	}

	counterparts, err := uc.chatViews.ListCounterparts(ctx, after.ID)
	if err != nil {
		return err
	}

	for _, counterpartID := range counterparts {
		if err := uc.chatViews.UpdateCounterpart(ctx, counterpartID, after); err != nil {
			logger.Error("OnProfileUpdated: failed to refresh copy for viewer %s: %v", counterpartID, err)
		}
	}
	return nil
}

// OnPresenceChanged stamps lastSeen on the transition to offline.
func (uc *ChatSyncUseCase) OnPresenceChanged(ctx context.Context, before, after *entity.User) error {
	if !entity.WentOffline(before, after) {
		return nil
	}
	return uc.users.SetLastSeen(ctx, after.ID, time.Now())
}

func (uc *ChatSyncUseCase) notify(ctx context.Context, sender, receiver *entity.User, msg *entity.Message) {
	if receiver.FCMToken == "" {
		return
	}

	data := map[string]string{
		"type":      "new_message",
		"sender_id": msg.SenderID,
		"chat_id":   entity.PairKey(msg.SenderID, msg.ReceiverID),
	}
	if err := uc.notifier.SendPush(ctx, receiver.FCMToken, sender.DisplayName, msg.Text, data); err != nil {
		logger.Warn("OnMessageCreated: push to %s failed: %v", msg.ReceiverID, err)
	}
}
