package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"parcel-dispatch/internal/core/application/usecases/commands"
	"parcel-dispatch/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type expirerMock struct {
	mock.Mock
	calls atomic.Int32
}

func (m *expirerMock) Handle(ctx context.Context, cmd commands.ExpirePlaceholdersCommand) (int, error) {
	m.calls.Add(1)
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

func TestPlaceholderExpiryJob_Run(t *testing.T) {
	t.Run("returns expired count", func(t *testing.T) {
		expirer := &expirerMock{}
		expirer.On("Handle", mock.Anything, mock.AnythingOfType("commands.ExpirePlaceholdersCommand")).Return(3, nil)
		job := jobs.NewPlaceholderExpiryJob(expirer, "", 15*time.Minute, nil)

		assert.Equal(t, 3, job.Run(t.Context()))
		expirer.AssertExpectations(t)
	})

	t.Run("keeps partial count on failure", func(t *testing.T) {
		expirer := &expirerMock{}
		expirer.On("Handle", mock.Anything, mock.Anything).Return(1, errors.New("store offline"))
		job := jobs.NewPlaceholderExpiryJob(expirer, "", 15*time.Minute, nil)

		assert.Equal(t, 1, job.Run(t.Context()))
	})

	t.Run("non-positive ttl never reaches the handler", func(t *testing.T) {
		expirer := &expirerMock{}
		job := jobs.NewPlaceholderExpiryJob(expirer, "", 0, nil)

		assert.Equal(t, 0, job.Run(t.Context()))
		expirer.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestPlaceholderExpiryJob_Schedule(t *testing.T) {
	t.Run("invalid schedule fails to start", func(t *testing.T) {
		job := jobs.NewPlaceholderExpiryJob(&expirerMock{}, "every now and then", time.Minute, nil)

		assert.Error(t, job.Start())
	})

	t.Run("runs on schedule until stopped", func(t *testing.T) {
		expirer := &expirerMock{}
		expirer.On("Handle", mock.Anything, mock.Anything).Return(0, nil)
		job := jobs.NewPlaceholderExpiryJob(expirer, "@every 1s", time.Minute, nil)

		require.NoError(t, job.Start())
		assert.Eventually(t, func() bool { return expirer.calls.Load() > 0 }, 5*time.Second, 50*time.Millisecond)
		job.Stop()

		stopped := expirer.calls.Load()
		time.Sleep(1500 * time.Millisecond)
		assert.Equal(t, stopped, expirer.calls.Load())
	})
}

type fakeJob struct {
	name     string
	startErr error
	log      *[]string
}

func (j fakeJob) Name() string { return j.name }

func (j fakeJob) Start() error {
	if j.startErr != nil {
		return j.startErr
	}
	*j.log = append(*j.log, "start "+j.name)
	return nil
}

func (j fakeJob) Stop() {
	*j.log = append(*j.log, "stop "+j.name)
}

func TestJobManager(t *testing.T) {
	t.Run("starts in order and stops in reverse", func(t *testing.T) {
		var log []string
		manager := jobs.NewJobManager(fakeJob{name: "a", log: &log}, fakeJob{name: "b", log: &log})

		require.NoError(t, manager.StartAll())
		manager.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
	})

	t.Run("rolls back started jobs when one fails", func(t *testing.T) {
		var log []string
		manager := jobs.NewJobManager(
			fakeJob{name: "a", log: &log},
			fakeJob{name: "b", log: &log, startErr: errors.New("boom")},
		)

		err := manager.StartAll()

		require.ErrorContains(t, err, "failed to start b job")
		assert.Equal(t, []string{"start a", "stop a"}, log)
	})
}
