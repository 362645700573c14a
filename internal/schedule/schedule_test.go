package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	runs []string
	fail map[string]error
}

func (r *recorder) run(_ context.Context, job contract.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, job.Name)
	return r.fail[job.Name]
}

func testJobs() []contract.Job {
	return []contract.Job{
		{Name: "fng-daily", Metric: schema.FNGMetric, InputPath: "fng.json", Spec: "@daily"},
		{Name: "nupl-hourly", Metric: schema.NUPLMetric, InputPath: "nupl.json", Spec: "0 * * * *"},
	}
}

func TestValidateSpec(t *testing.T) {
	for _, spec := range []string{"@daily", "@every 1h", "30 6 * * 1-5", "0 0 1 */3 *"} {
		assert.NoError(t, ValidateSpec(spec), spec)
	}
	for _, spec := range []string{"", "@sometimes", "61 * * * *", "0 0 0 * * *"} {
		assert.Error(t, ValidateSpec(spec), spec)
	}
}

func TestRegister(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(context.Background(), testJobs(), rec.run)
	require.NoError(t, s.Register())
	assert.Len(t, s.Cron.Entries(), 2)

	_, ok := s.NextRun("fng-daily")
	assert.True(t, ok)
	_, ok = s.NextRun("missing")
	assert.False(t, ok)
}

func TestRegisterErrors(t *testing.T) {
	rec := &recorder{}

	s := NewScheduler(context.Background(), nil, rec.run)
	assert.EqualError(t, s.Register(), "no jobs configured")

	jobs := testJobs()
	jobs[1].Spec = "every tuesday"
	s = NewScheduler(context.Background(), jobs, rec.run)
	err := s.Register()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register job nupl-hourly")
}

func TestRunAllNow(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{fail: map[string]error{"fng-daily": boom}}
	s := NewScheduler(context.Background(), testJobs(), rec.run)

	err := s.RunAllNow()
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "job fng-daily")
	assert.Equal(t, []string{"fng-daily", "nupl-hourly"}, rec.runs, "a failing job does not stop the others")
}

func TestServeOnce(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(context.Background(), testJobs(), rec.run)

	require.NoError(t, s.Serve(true))
	assert.Equal(t, []string{"fng-daily", "nupl-hourly"}, rec.runs)
	assert.Empty(t, s.Cron.Entries(), "once mode registers nothing")
}

func TestServeOnceRejectsInvalidSpec(t *testing.T) {
	rec := &recorder{}
	jobs := testJobs()
	jobs[0].Spec = "* *"
	s := NewScheduler(context.Background(), jobs, rec.run)

	assert.Error(t, s.Serve(true))
	assert.Empty(t, rec.runs)
}

func TestServeUntilCanceled(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	jobs := []contract.Job{{Name: "tick", Metric: schema.FNGMetric, Spec: "@every 1s"}}
	s := NewScheduler(ctx, jobs, rec.run)

	done := make(chan error, 1)
	go func() { done <- s.Serve(false) }()

	assert.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.runs) > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestRunJobCanceledContext(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewScheduler(ctx, testJobs(), rec.run)

	assert.ErrorIs(t, s.RunAllNow(), context.Canceled)
	assert.Empty(t, rec.runs)
}
