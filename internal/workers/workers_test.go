package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/internal/mock"
)

// fakeWorker tracks Start/Stop calls and records its position in the shared
// call order.
type fakeWorker struct {
	id       int
	order    *[]int
	startErr error
	started  int
	stopped  int
}

func (w *fakeWorker) Start(context.Context) error {
	w.started++
	if w.order != nil {
		*w.order = append(*w.order, w.id)
	}
	return w.startErr
}

func (w *fakeWorker) Stop() error {
	w.stopped++
	if w.order != nil {
		*w.order = append(*w.order, -w.id)
	}
	return nil
}

func TestWorkers_StartAllThenStopInReverse(t *testing.T) {
	var order []int
	w1 := &fakeWorker{id: 1, order: &order}
	w2 := &fakeWorker{id: 2, order: &order}
	w3 := &fakeWorker{id: 3, order: &order}

	ws := New(logger.Nop(), w1, w2, w3)

	require.NoError(t, ws.Start(context.Background()))
	ws.Stop()

	assert.Equal(t, []int{1, 2, 3, -3, -2, -1}, order)
}

func TestWorkers_StartFailureStopsAlreadyStarted(t *testing.T) {
	w1 := &fakeWorker{id: 1}
	w2 := &fakeWorker{id: 2, startErr: errors.New("bind: address already in use")}
	w3 := &fakeWorker{id: 3}

	ws := New(logger.Nop(), w1, w2, w3)

	err := ws.Start(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, w1.stopped)
	assert.Equal(t, 0, w3.started)
}

func TestWorkers_Empty(t *testing.T) {
	ws := New(logger.Nop())

	require.NoError(t, ws.Start(context.Background()))
	ws.Stop()
}

func TestWorkers_StopContinuesPastFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	w1 := mock.NewMockWorker(ctrl)
	w2 := mock.NewMockWorker(ctrl)

	w1.EXPECT().Start(gomock.Any()).Return(nil)
	w2.EXPECT().Start(gomock.Any()).Return(nil)
	w2.EXPECT().Stop().Return(errors.New("connection reset by peer"))
	w1.EXPECT().Stop().Return(nil)

	ws := New(logger.Nop(), w1, w2)

	require.NoError(t, ws.Start(context.Background()))
	ws.Stop()
}

func TestSyncJobWorker_DelegatesWithInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := mock.NewMockSyncJob(ctrl)

	job.EXPECT().Start(gomock.Any(), 45*time.Second)
	job.EXPECT().Stop()

	w := NewSyncJobWorker(job, 45*time.Second)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
}
