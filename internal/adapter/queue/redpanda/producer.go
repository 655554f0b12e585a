// Package redpanda moves recalculation requests between the API and the
// worker over a Kafka-compatible broker.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

type syncProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Producer implements domain.RecalculationPublisher.
type Producer struct {
	client syncProducer
	topic  string
}

func kotelHooks() kgo.Opt {
	k := kotel.NewKotel(kotel.WithTracer(kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))))
	return kgo.WithHooks(k.Hooks()...)
}

// NewProducer connects to brokers and makes sure topic exists.
func NewProducer(ctx context.Context, brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("%w: no seed brokers provided", domain.ErrInvalidArgument)
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RequestRetries(10),
		kotelHooks(),
	)
	if err != nil {
		return nil, fmt.Errorf("op=redpanda.new_producer: %w", err)
	}
	if err := createTopicIfNotExists(ctx, client, topic, 3, 1); err != nil {
		slog.Warn("failed to ensure topic", slog.String("topic", topic), slog.Any("error", err))
	}
	return &Producer{client: client, topic: topic}, nil
}

// PublishRecalculation writes one message keyed by run id and waits for the
// broker to acknowledge it.
func (p *Producer) PublishRecalculation(ctx domain.Context, runID string, scope domain.RecalculateScope) error {
	b, err := json.Marshal(RecalculationMessage{RunID: runID, Scope: string(scope.Kind), ID: scope.ID})
	if err != nil {
		return fmt.Errorf("op=redpanda.publish: %w", err)
	}
	rec := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(runID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "run_id", Value: []byte(runID)},
			{Key: "scope", Value: []byte(scope.Kind)},
		},
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		observability.RecalculationPublished(false)
		return fmt.Errorf("op=redpanda.publish: %w", err)
	}
	observability.RecalculationPublished(true)
	observability.LoggerFromContext(ctx).Info("recalculation published",
		slog.String("run_id", runID),
		slog.String("scope", string(scope.Kind)),
		slog.String("id", scope.ID))
	return nil
}

// Close closes the underlying client.
func (p *Producer) Close() {
	if p.client != nil {
		p.client.Close()
	}
}
