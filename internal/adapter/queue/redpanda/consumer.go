package redpanda

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
	"github.com/fairyhunter13/applicant-scorer/internal/config"
	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

// Recalculator is the use case the consumer drives.
type Recalculator interface {
	Recalculate(ctx context.Context, scope domain.RecalculateScope) (domain.RecalculateReport, error)
}

type groupClient interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitUncommittedOffsets(ctx context.Context) error
	Close()
}

// Consumer applies recalculation messages. Delivery is at least once;
// rescoring is idempotent so redelivery is harmless.
type Consumer struct {
	client groupClient
	recalc Recalculator
	retry  config.RetryConfig
}

// NewConsumer joins groupID on topic. Offsets are committed only after the
// records of a poll have been handled.
func NewConsumer(ctx context.Context, brokers []string, groupID, topic string, recalc Recalculator, retry config.RetryConfig) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("%w: no seed brokers provided", domain.ErrInvalidArgument)
	}
	if groupID == "" {
		return nil, fmt.Errorf("%w: missing consumer group", domain.ErrInvalidArgument)
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.DisableAutoCommit(),
		kgo.SessionTimeout(30*time.Second),
		kgo.FetchMaxWait(5*time.Second),
		kotelHooks(),
	)
	if err != nil {
		return nil, fmt.Errorf("op=redpanda.new_consumer: %w", err)
	}
	if err := createTopicIfNotExists(ctx, client, topic, 3, 1); err != nil {
		slog.Warn("failed to ensure topic", slog.String("topic", topic), slog.Any("error", err))
	}
	return newConsumer(client, recalc, retry), nil
}

func newConsumer(client groupClient, recalc Recalculator, retry config.RetryConfig) *Consumer {
	return &Consumer{client: client, recalc: recalc, retry: retry}
}

// Run polls until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	slog.Info("recalculation consumer started")
	for {
		fetches := c.client.PollFetches(ctx)
		if ctx.Err() != nil || fetches.IsClientClosed() {
			slog.Info("recalculation consumer stopped")
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			slog.Error("fetch error", slog.String("topic", topic), slog.Int("partition", int(partition)), slog.Any("error", err))
		})
		fetches.EachRecord(func(r *kgo.Record) {
			_ = c.handleRecord(ctx, r)
		})
		if err := c.client.CommitUncommittedOffsets(ctx); err != nil && ctx.Err() == nil {
			slog.Error("commit offsets failed", slog.Any("error", err))
		}
	}
}

// Close leaves the group.
func (c *Consumer) Close() { c.client.Close() }

// handleRecord never blocks the partition on a bad message: malformed
// payloads and permanent failures are logged and skipped.
func (c *Consumer) handleRecord(ctx context.Context, r *kgo.Record) error {
	msg, err := decodeMessage(r.Value)
	if err != nil {
		observability.RecalculationConsumed(false)
		slog.Warn("skipping malformed recalculation message",
			slog.Int64("offset", r.Offset),
			slog.Int("partition", int(r.Partition)),
			slog.Any("error", err))
		return nil
	}
	lg := slog.Default().With(slog.String("run_id", msg.RunID))
	ctx = observability.ContextWithLogger(ctx, lg)

	var report domain.RecalculateReport
	op := func() error {
		rep, err := c.recalc.Recalculate(ctx, msg.ScopeOf())
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			lg.Warn("recalculation attempt failed", slog.String("error_code", classifyFailureCode(err)), slog.Any("error", err))
			return err
		}
		report = rep
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(c.backoff(), ctx)); err != nil {
		observability.RecalculationConsumed(false)
		lg.Error("recalculation failed",
			slog.String("scope", msg.Scope),
			slog.String("id", msg.ID),
			slog.String("error_code", classifyFailureCode(err)),
			slog.Any("error", err))
		return err
	}
	observability.RecalculationConsumed(true)
	lg.Info("recalculation applied",
		slog.String("scope", msg.Scope),
		slog.String("id", msg.ID),
		slog.Int("updated", report.Updated),
		slog.Int("failed", len(report.Failed)))
	return nil
}

func (c *Consumer) backoff() backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.retry.InitialDelay
	expo.MaxInterval = c.retry.MaxDelay
	if c.retry.Multiplier > 0 {
		expo.Multiplier = c.retry.Multiplier
	}
	expo.MaxElapsedTime = 0
	retries := c.retry.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithMaxRetries(expo, uint64(retries))
}
