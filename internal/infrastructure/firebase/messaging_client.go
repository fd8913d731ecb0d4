package firebase

import (
	"context"
	"fmt"

	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

// MessagingClient wraps the FCM sender. Delivery is best-effort by
// contract: callers swallow errors and never retry.
type MessagingClient struct {
	client *messaging.Client
}

func NewMessagingClient(ctx context.Context, app *fbapp.App) (*MessagingClient, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize FCM client: %w", err)
	}
	return &MessagingClient{client: client}, nil
}

func (c *MessagingClient) SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := c.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	return nil
}
