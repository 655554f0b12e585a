package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
	closed  bool
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.records = append(f.records, rs...)
	out := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		out = append(out, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return out
}

func (f *fakeProducer) Close() { f.closed = true }

func TestProducer_PublishRecalculation(t *testing.T) {
	t.Parallel()
	fp := &fakeProducer{}
	p := &Producer{client: fp, topic: TopicConfigChanges}

	err := p.PublishRecalculation(context.Background(), "run-1", domain.RecalculateScope{Kind: domain.ScopePosition, ID: "pos-1"})
	require.NoError(t, err)
	require.Len(t, fp.records, 1)

	rec := fp.records[0]
	assert.Equal(t, TopicConfigChanges, rec.Topic)
	assert.Equal(t, []byte("run-1"), rec.Key)
	var msg RecalculationMessage
	require.NoError(t, json.Unmarshal(rec.Value, &msg))
	assert.Equal(t, RecalculationMessage{RunID: "run-1", Scope: "position", ID: "pos-1"}, msg)
	assert.Equal(t, domain.RecalculateScope{Kind: domain.ScopePosition, ID: "pos-1"}, msg.ScopeOf())

	p.Close()
	assert.True(t, fp.closed)
}

func TestProducer_PublishError(t *testing.T) {
	t.Parallel()
	p := &Producer{client: &fakeProducer{err: errors.New("broker down")}, topic: TopicConfigChanges}
	err := p.PublishRecalculation(context.Background(), "run-1", domain.RecalculateScope{Kind: domain.ScopeAll})
	assert.ErrorContains(t, err, "op=redpanda.publish")
	assert.ErrorContains(t, err, "broker down")
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	t.Parallel()
	_, err := NewProducer(context.Background(), nil, TopicConfigChanges)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
