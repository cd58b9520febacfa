// Package control provides the rule reload control plane.
// A watcher loads rule parameters from a Redis key and subscribes to a
// pub/sub channel; on each update signal it rebuilds the rule table and
// swaps it into the provider wholesale. Batches already in flight keep the
// table reference they fetched at batch start.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ruleflow/runtime/internal/config"
	"github.com/ruleflow/runtime/internal/logger"
	"github.com/ruleflow/runtime/internal/rules"
)

// Watcher keeps a rule provider synchronized with a Redis-hosted rule set.
type Watcher struct {
	client   *redis.Client
	provider *rules.Provider
	key      string
	channel  string
}

// NewWatcher creates a watcher for the given control configuration.
func NewWatcher(cfg *config.ControlConfig, provider *rules.Provider) *Watcher {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	return &Watcher{
		client:   client,
		provider: provider,
		key:      cfg.Key,
		channel:  cfg.Channel,
	}
}

// Start performs an initial load and then listens for update signals until
// the context is cancelled. A missing key or malformed payload keeps the
// current table; reload failures never tear the watcher down.
func (w *Watcher) Start(ctx context.Context) {
	logger.Info("rule watcher starting",
		slog.String("key", w.key),
		slog.String("channel", w.channel),
	)

	w.reload(ctx)

	pubsub := w.client.Subscribe(ctx, w.channel)
	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				logger.Info("rule update signal received",
					slog.String("channel", w.channel),
					slog.String("payload", msg.Payload),
				)
				w.reload(ctx)
			}
		}
	}()
}

// reload fetches the rule parameters and swaps them into the provider.
func (w *Watcher) reload(ctx context.Context) {
	val, err := w.client.Get(ctx, w.key).Result()
	if errors.Is(err, redis.Nil) {
		logger.Warn("no rules found in redis, keeping current table",
			slog.String("key", w.key),
		)
		return
	}
	if err != nil {
		logger.Error("failed to fetch rules",
			slog.String("key", w.key),
			slog.String("error", err.Error()),
		)
		return
	}

	params, err := parseRulePayload(val)
	if err != nil {
		logger.Error("invalid rule payload, keeping current table",
			slog.String("key", w.key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := w.provider.Configure(params); err != nil {
		logger.Error("rule reload rejected, keeping current table",
			slog.String("key", w.key),
			slog.String("error", err.Error()),
		)
		return
	}

	logger.Info("rule table reloaded",
		slog.String("key", w.key),
		slog.Int("rule_count", len(params)),
	)
}

// parseRulePayload decodes the Redis payload: a JSON array of
// "Label=prefix1,prefix2,..." parameter strings.
func parseRulePayload(val string) ([]string, error) {
	var params []string
	if err := json.Unmarshal([]byte(val), &params); err != nil {
		return nil, fmt.Errorf("rule payload must be a JSON array of strings: %w", err)
	}
	return params, nil
}

// Close releases the Redis client.
func (w *Watcher) Close() error {
	return w.client.Close()
}
