package redpanda

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/fairyhunter13/applicant-scorer/internal/config"
	"github.com/fairyhunter13/applicant-scorer/internal/domain"
)

type fakeRecalculator struct {
	mu     sync.Mutex
	scopes []domain.RecalculateScope
	errs   []error
}

func (f *fakeRecalculator) Recalculate(_ context.Context, scope domain.RecalculateScope) (domain.RecalculateReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = append(f.scopes, scope)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return domain.RecalculateReport{}, err
		}
	}
	return domain.RecalculateReport{Updated: 1, Failed: []domain.RecalculateFailure{}}, nil
}

func (f *fakeRecalculator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scopes)
}

func testRetry() config.RetryConfig {
	return config.RetryConfig{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

func record(value string) *kgo.Record {
	return &kgo.Record{Topic: TopicConfigChanges, Value: []byte(value)}
}

func TestHandleRecord_Applies(t *testing.T) {
	t.Parallel()
	rc := &fakeRecalculator{}
	c := newConsumer(nil, rc, testRetry())

	require.NoError(t, c.handleRecord(context.Background(), record(`{"run_id":"r1","scope":"position","id":"pos-1"}`)))
	assert.Equal(t, []domain.RecalculateScope{{Kind: domain.ScopePosition, ID: "pos-1"}}, rc.scopes)
}

func TestHandleRecord_SkipsMalformed(t *testing.T) {
	t.Parallel()
	rc := &fakeRecalculator{}
	c := newConsumer(nil, rc, testRetry())

	assert.NoError(t, c.handleRecord(context.Background(), record(`not json`)))
	assert.Zero(t, rc.calls())
}

func TestHandleRecord_RetriesInfrastructureErrors(t *testing.T) {
	t.Parallel()
	rc := &fakeRecalculator{errs: []error{errors.New("db down"), errors.New("db down"), nil}}
	c := newConsumer(nil, rc, testRetry())

	require.NoError(t, c.handleRecord(context.Background(), record(`{"run_id":"r1","scope":"all"}`)))
	assert.Equal(t, 3, rc.calls())
}

func TestHandleRecord_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()
	boom := errors.New("db down")
	rc := &fakeRecalculator{errs: []error{boom, boom, boom, boom, boom}}
	c := newConsumer(nil, rc, testRetry())

	assert.ErrorIs(t, c.handleRecord(context.Background(), record(`{"run_id":"r1","scope":"all"}`)), boom)
	assert.Equal(t, 4, rc.calls())
}

func TestHandleRecord_PermanentErrorsAreNotRetried(t *testing.T) {
	t.Parallel()
	rc := &fakeRecalculator{errs: []error{fmt.Errorf("%w: bad scope", domain.ErrInvalidArgument)}}
	c := newConsumer(nil, rc, testRetry())

	err := c.handleRecord(context.Background(), record(`{"run_id":"r1","scope":"tenant","id":"x"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, 1, rc.calls())
}

type fakeGroup struct {
	mu      sync.Mutex
	batches []kgo.Fetches
	commits int
	cancel  context.CancelFunc
}

func (f *fakeGroup) PollFetches(ctx context.Context) kgo.Fetches {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.batches) == 0 {
		f.cancel()
		<-ctx.Done()
		return kgo.Fetches{}
	}
	b := f.batches[0]
	f.batches = f.batches[1:]
	return b
}

func (f *fakeGroup) CommitUncommittedOffsets(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits++
	return nil
}

func (f *fakeGroup) Close() {}

func fetchesOf(records ...*kgo.Record) kgo.Fetches {
	return kgo.Fetches{{Topics: []kgo.FetchTopic{{
		Topic:      TopicConfigChanges,
		Partitions: []kgo.FetchPartition{{Partition: 0, Records: records}},
	}}}}
}

func TestConsumer_RunProcessesAndCommits(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	group := &fakeGroup{
		batches: []kgo.Fetches{
			fetchesOf(record(`{"run_id":"r1","scope":"position","id":"p1"}`), record(`garbage`)),
			fetchesOf(record(`{"run_id":"r2","scope":"application","id":"a1"}`)),
		},
		cancel: cancel,
	}
	rc := &fakeRecalculator{}
	c := newConsumer(group, rc, testRetry())

	require.NoError(t, c.Run(ctx))
	assert.Equal(t, 2, rc.calls())
	assert.Equal(t, 2, group.commits)
}

func TestClassifyFailureCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", classifyFailureCode(nil))
	assert.Equal(t, "NOT_FOUND", classifyFailureCode(fmt.Errorf("x: %w", domain.ErrNotFound)))
	assert.Equal(t, "UPSTREAM_TIMEOUT", classifyFailureCode(domain.ErrUpstreamTimeout))
	assert.Equal(t, "INTERNAL", classifyFailureCode(errors.New("boom")))
	assert.False(t, retryable(domain.ErrSchemaInvalid))
	assert.True(t, retryable(errors.New("conn reset")))
}
