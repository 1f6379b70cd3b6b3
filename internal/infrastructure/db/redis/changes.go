package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

const ChangesChannel = "auth:changes"

// ChangeBus fans auth changes out to every instance over Redis pub/sub.
type ChangeBus struct {
	client  *redis.Client
	channel string
	log     zerolog.Logger
}

func NewChangeBus(client *redis.Client, log zerolog.Logger) *ChangeBus {
	return &ChangeBus{client: client, channel: ChangesChannel, log: log}
}

func (b *ChangeBus) Publish(ctx context.Context, change domain.AuthChange) error {
	raw, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Listen delivers every change received on the channel to handle until ctx is
// cancelled. Malformed payloads are logged and skipped.
func (b *ChangeBus) Listen(ctx context.Context, handle func(domain.AuthChange)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var change domain.AuthChange
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				b.log.Warn().Err(err).Msg("dropping malformed auth change")
				continue
			}
			handle(change)
		}
	}
}
