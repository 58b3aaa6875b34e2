package storage

import (
	"context"
	"encoding/json"
	"errors"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix = "line:draft:"
	eventKeyPrefix = "line:event:"
)

// SetDraft remembers the latest text a LINE user sent before their photo.
func (s *Service) SetDraft(ctx context.Context, userID, text string) error {
	return s.Redis.Set(ctx, draftKeyPrefix+userID, text, config.DraftTTL).Err()
}

// TakeDraft returns and forgets the pending draft of userID.
func (s *Service) TakeDraft(ctx context.Context, userID string) (string, error) {
	text, err := s.Redis.GetDel(ctx, draftKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (s *Service) MarkWebhookEvent(ctx context.Context, eventID string) (bool, error) {
	return s.Redis.SetNX(ctx, eventKeyPrefix+eventID, 1, config.WebhookDedupeTTL).Result()
}

// PublishComplaintEvent publishes ev to the live feed channel.
func (s *Service) PublishComplaintEvent(ctx context.Context, ev models.ComplaintEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, config.FeedChannel, payload).Err()
}

// SubscribeComplaintEvents subscribes to the live feed channel.
func (s *Service) SubscribeComplaintEvents(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, config.FeedChannel)
}
