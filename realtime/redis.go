// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

const channelPrefix = "board:"

// RedisBroker fans notices out through Redis pub/sub so every server
// instance streams changes made on any other.
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

// DialRedis connects to url and verifies the server answers.
func DialRedis(ctx context.Context, url string) (*RedisBroker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisBroker(client), nil
}

func (b *RedisBroker) Publish(ctx context.Context, notice models.ChangeNotice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to encode notice: %w", err)
	}
	if err := b.client.Publish(ctx, channelName(notice.JobID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notice: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, jobID string) (*Subscription, error) {
	ps := b.client.Subscribe(ctx, channelName(jobID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan models.ChangeNotice, subscriptionBuffer)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			notice, err := decodeNotice(msg.Payload)
			if err != nil {
				slog.Warn("dropping malformed notice", "channel", msg.Channel, "error", err)
				continue
			}
			select {
			case out <- notice:
			default:
			}
		}
	}()

	return &Subscription{
		C: out,
		cancel: func() {
			if err := ps.Close(); err != nil {
				slog.Debug("redis unsubscribe failed", "job_id", jobID, "error", err)
			}
		},
	}, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

func channelName(jobID string) string {
	return channelPrefix + jobID
}

func decodeNotice(payload string) (models.ChangeNotice, error) {
	var notice models.ChangeNotice
	if err := json.Unmarshal([]byte(payload), &notice); err != nil {
		return models.ChangeNotice{}, err
	}
	if notice.JobID == "" {
		return models.ChangeNotice{}, fmt.Errorf("notice without job id")
	}
	return notice, nil
}
