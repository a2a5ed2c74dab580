package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/pipeline"
	"code-review-pipeline/internal/store"
	"code-review-pipeline/internal/webhook"
	"code-review-pipeline/internal/webhook/repository/sqlite"
	"code-review-pipeline/pkg/log"
)

type fakePipeline struct {
	pipeline.UseCase
	mu     sync.Mutex
	events []model.Event
	out    pipeline.Outcome
	err    error
}

func (f *fakePipeline) Handle(_ context.Context, ev model.Event) (pipeline.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.out, f.err
}

const body = `{"object_kind":"merge_request","user":{"name":"Alice"},"project":{"id":42,"name":"demo"},
"object_attributes":{"iid":7,"action":"open","source_branch":"feature","target_branch":"main"}}`

func newTestUseCase(t *testing.T, p pipeline.UseCase) webhook.UseCase {
	t.Helper()
	l := log.NewNop()
	return New(sqlite.New(store.NewTestDB(t), l), p, 0, nil, l)
}

func TestReceive_Accepted(t *testing.T) {
	p := &fakePipeline{out: pipeline.Outcome{Status: pipeline.StatusQueued, JobID: "job-1"}}
	uc := newTestUseCase(t, p)
	ctx := context.Background()

	out, err := uc.Receive(ctx, webhook.ReceiveInput{
		Body: []byte(body), DeliveryID: "uuid-1", RequestID: "req-1", RemoteAddr: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, webhook.StatusAccepted, out.Status)
	assert.Equal(t, "job-1", out.JobID)
	require.Len(t, p.events, 1)
	assert.Equal(t, "uuid-1", p.events[0].DeliveryID)
	assert.Equal(t, "10.0.0.1", p.events[0].RemoteAddr)

	w, err := uc.Detail(ctx, out.LogID)
	require.NoError(t, err)
	assert.True(t, w.Processed)
	assert.Equal(t, model.EventMergeRequest, w.EventType)
	assert.Equal(t, int64(42), w.ProjectID)
	assert.Equal(t, int64(7), w.ChangeRef)
	assert.Equal(t, "Alice", w.UserName)
	assert.Equal(t, "feature", w.SourceBranch)
	assert.Equal(t, "req-1", w.RequestID)
	assert.JSONEq(t, body, string(w.Payload))
}

func TestReceive_DuplicateDelivery(t *testing.T) {
	p := &fakePipeline{out: pipeline.Outcome{Status: pipeline.StatusQueued, JobID: "job-1"}}
	uc := newTestUseCase(t, p)
	ctx := context.Background()
	in := webhook.ReceiveInput{Body: []byte(body), DeliveryID: "uuid-1"}

	_, err := uc.Receive(ctx, in)
	require.NoError(t, err)
	out, err := uc.Receive(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, webhook.StatusDuplicate, out.Status)
	assert.Equal(t, model.SkipDuplicate, out.SkipReason)
	assert.Len(t, p.events, 1)

	list, err := uc.List(ctx, webhook.ListInput{SkipReason: model.SkipDuplicate})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestReceive_MalformedIsIgnored(t *testing.T) {
	p := &fakePipeline{}
	uc := newTestUseCase(t, p)
	ctx := context.Background()

	out, err := uc.Receive(ctx, webhook.ReceiveInput{Body: []byte("garbage"), EventHeader: "Merge Request Hook"})
	require.NoError(t, err)
	assert.Equal(t, webhook.StatusIgnored, out.Status)
	assert.Empty(t, p.events)

	w, err := uc.Detail(ctx, out.LogID)
	require.NoError(t, err)
	assert.False(t, w.Processed)
	assert.Contains(t, w.ErrorMessage, "malformed")
}

func TestReceive_IncompleteEventIsAcknowledged(t *testing.T) {
	p := &fakePipeline{out: pipeline.Outcome{Status: pipeline.StatusIgnored, Detail: pipeline.ErrNoChangeRef.Error()}}
	uc := newTestUseCase(t, p)
	ctx := context.Background()
	in := webhook.ReceiveInput{Body: []byte(body), DeliveryID: "uuid-3"}

	out, err := uc.Receive(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, webhook.StatusIgnored, out.Status)

	w, err := uc.Detail(ctx, out.LogID)
	require.NoError(t, err)
	assert.False(t, w.Processed)
	assert.Equal(t, pipeline.ErrNoChangeRef.Error(), w.ErrorMessage)

	out, err = uc.Receive(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, webhook.StatusDuplicate, out.Status, "an acknowledged delivery keeps its id")
}

func TestReceive_SkippedAndCoalesced(t *testing.T) {
	p := &fakePipeline{out: pipeline.Outcome{Status: pipeline.StatusSkipped, SkipReason: model.SkipReviewDisabled}}
	uc := newTestUseCase(t, p)
	ctx := context.Background()

	out, err := uc.Receive(ctx, webhook.ReceiveInput{Body: []byte(body)})
	require.NoError(t, err)
	assert.Equal(t, webhook.StatusSkipped, out.Status)
	w, err := uc.Detail(ctx, out.LogID)
	require.NoError(t, err)
	assert.False(t, w.Processed)
	assert.Equal(t, model.SkipReviewDisabled, w.SkipReason)

	p.out = pipeline.Outcome{Status: pipeline.StatusCoalesced, SkipReason: model.SkipJobInFlight}
	out, err = uc.Receive(ctx, webhook.ReceiveInput{Body: []byte(body)})
	require.NoError(t, err)
	assert.Equal(t, webhook.StatusCoalesced, out.Status)
}

func TestReceive_QueueFullReleasesDelivery(t *testing.T) {
	p := &fakePipeline{out: pipeline.Outcome{Status: pipeline.StatusRejected, JobID: "job-1"}, err: pipeline.ErrQueueFull}
	uc := newTestUseCase(t, p)
	ctx := context.Background()
	in := webhook.ReceiveInput{Body: []byte(body), DeliveryID: "uuid-9"}

	out, err := uc.Receive(ctx, in)
	assert.ErrorIs(t, err, pipeline.ErrQueueFull)
	assert.Equal(t, "job-1", out.JobID)

	w, err := uc.Detail(ctx, out.LogID)
	require.NoError(t, err)
	assert.Equal(t, pipeline.ErrQueueFull.Error(), w.ErrorMessage)

	p.out, p.err = pipeline.Outcome{Status: pipeline.StatusQueued, JobID: "job-1"}, nil
	out, err = uc.Receive(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, webhook.StatusAccepted, out.Status, "a retry after backpressure is processed")
}

func TestListAndPrune(t *testing.T) {
	p := &fakePipeline{out: pipeline.Outcome{Status: pipeline.StatusSkipped, SkipReason: model.SkipNoRuleMatched}}
	uc := newTestUseCase(t, p)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := uc.Receive(ctx, webhook.ReceiveInput{Body: []byte(body)})
		require.NoError(t, err)
	}
	list, err := uc.List(ctx, webhook.ListInput{ProjectID: 42, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Len(t, list.Logs, 2)

	_, err = uc.Detail(ctx, "missing")
	assert.ErrorIs(t, err, webhook.ErrLogNotFound)

	n, err := uc.Prune(ctx, 30)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = uc.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, n)
}
