// Package line integrates the LINE Messaging API: pushing notifications,
// parsing the inbound webhook, fetching image content and profiles.
package line

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/notify"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sirupsen/logrus"
)

// Client talks to the LINE Messaging API on behalf of one channel.
type Client struct {
	api  *messaging_api.MessagingApiAPI
	blob *messaging_api.MessagingApiBlobAPI
	log  logrus.FieldLogger
}

// NewClient creates a client authenticated with the channel access token.
func NewClient(accessToken string, httpClient *http.Client, log logrus.FieldLogger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	api, err := messaging_api.NewMessagingApiAPI(accessToken, messaging_api.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE messaging client: %w", err)
	}
	blob, err := messaging_api.NewMessagingApiBlobAPI(accessToken, messaging_api.WithBlobHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE blob client: %w", err)
	}
	return &Client{api: api, blob: blob, log: log}, nil
}

// Push sends msgs to a user, group or room id in a single push request.
func (c *Client) Push(ctx context.Context, to string, msgs []notify.Message) error {
	out, err := render(msgs)
	if err != nil {
		return err
	}
	_, err = c.api.WithContext(ctx).PushMessage(&messaging_api.PushMessageRequest{
		To:       to,
		Messages: out,
	}, "")
	if err != nil {
		return fmt.Errorf("LINE push failed: %w", err)
	}
	return nil
}

// DisplayName looks up the profile name of a user who has added the bot.
func (c *Client) DisplayName(ctx context.Context, userID string) (string, error) {
	profile, err := c.api.WithContext(ctx).GetProfile(userID)
	if err != nil {
		return "", fmt.Errorf("failed to get LINE profile: %w", err)
	}
	return profile.DisplayName, nil
}

// Content downloads the binary content of a message and returns it with a
// file name carrying a matching extension.
func (c *Client) Content(ctx context.Context, messageID string) ([]byte, string, error) {
	resp, err := c.blob.WithContext(ctx).GetMessageContent(messageID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get message content: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxUploadFileBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read message content: %w", err)
	}
	if len(data) > config.MaxUploadFileBytes {
		return nil, "", fmt.Errorf("message content exceeds %d bytes", config.MaxUploadFileBytes)
	}
	return data, messageID + extensionFor(resp.Header.Get("Content-Type")), nil
}

func extensionFor(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return config.DefaultImageExt
	}
}

func render(msgs []notify.Message) ([]messaging_api.MessageInterface, error) {
	out := make([]messaging_api.MessageInterface, 0, len(msgs))
	for _, m := range msgs {
		switch v := m.(type) {
		case notify.Text:
			out = append(out, messaging_api.TextMessage{Text: v.Text})
		case notify.Image:
			preview := v.PreviewURL
			if preview == "" {
				preview = v.URL
			}
			out = append(out, messaging_api.ImageMessage{OriginalContentUrl: v.URL, PreviewImageUrl: preview})
		case notify.Card:
			raw, err := bubbleJSON(v)
			if err != nil {
				return nil, fmt.Errorf("failed to render card: %w", err)
			}
			contents, err := messaging_api.UnmarshalFlexContainer(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to build flex container: %w", err)
			}
			out = append(out, messaging_api.FlexMessage{AltText: v.AltText, Contents: contents})
		default:
			return nil, fmt.Errorf("unsupported message type %T", m)
		}
	}
	return out, nil
}
