// Package dedup is the idempotency guard for event consumers: it records which
// message ids have already had their effects applied, so an at-least-once
// delivery channel yields at-most-once side effects.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Deduplicator stores processing markers in the fast key-value store under
// {domain}:{messageId}. Lookups fail open: if the store is unreachable the
// message counts as unprocessed and the pipeline keeps flowing. Availability
// is deliberately prioritised over strict exactly-once here because the
// guarded effects are best-effort counters, not a ledger of record.
type Deduplicator struct {
	rdb    *redis.Client
	domain string
	ttl    time.Duration
}

// New builds a guard for one consumer domain. The TTL should match or exceed
// the event log's retention period.
func New(rdb *redis.Client, domain string, ttl time.Duration) Deduplicator {
	return Deduplicator{
		rdb:    rdb,
		domain: domain,
		ttl:    ttl,
	}
}

func (d Deduplicator) IsProcessed(ctx context.Context, messageID string) bool {
	processedAt, err := d.rdb.Get(ctx, d.key(messageID)).Result()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		logrus.WithError(err).WithField("message_id", messageID).
			Warn("Dedup lookup failed, allowing processing")
		return false
	}

	logrus.WithFields(logrus.Fields{
		"message_id":   messageID,
		"processed_at": processedAt,
	}).Info("Duplicate message detected")

	return true
}

func (d Deduplicator) MarkProcessed(ctx context.Context, messageID string) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := d.rdb.Set(ctx, d.key(messageID), timestamp, d.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("message_id", messageID).
			Warn("Failed to mark message as processed")
	}
}

// CheckAndMark returns true only on first-time processing. Check and mark are
// two operations, not one: that is safe as long as a single consumer thread
// handles each partition, and leaves a narrow cross-process window between a
// remote IsProcessed and the local MarkProcessed completing.
func (d Deduplicator) CheckAndMark(ctx context.Context, messageID string) bool {
	if d.IsProcessed(ctx, messageID) {
		return false
	}
	d.MarkProcessed(ctx, messageID)
	return true
}

func (d Deduplicator) key(messageID string) string {
	return fmt.Sprintf("%s:%s", d.domain, messageID)
}
