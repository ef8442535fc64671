package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

type callbackPayload struct {
	ChannelID string `json:"channel_id"`
	Message   string `json:"message"`
}

// CallbackTransport POSTs messages to the bot gateway, which owns the
// actual chat delivery. A 4xx response means the channel itself is bad and
// retrying cannot help.
type CallbackTransport struct {
	Address string
	Client  *http.Client
}

func NewCallbackTransport(address string) *CallbackTransport {
	return &CallbackTransport{
		Address: address,
		Client:  http.DefaultClient,
	}
}

func (t *CallbackTransport) Send(ctx context.Context, channelID string, message string) error {
	body, err := json.Marshal(callbackPayload{ChannelID: channelID, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/notifications", t.Address), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("gateway returned status %d: %w", resp.StatusCode, domain.ErrInvalidChannel)
	default:
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
}
