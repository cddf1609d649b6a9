package services

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gradesdash/internal/grades"
	"gradesdash/internal/shared/testutil"
	ws "gradesdash/internal/websocket"
)

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, msgType string, data interface{}) {
	m.Called(ctx, msgType, data)
}

func TestRefreshOnceSwapsChangedDataset(t *testing.T) {
	path := testutil.WriteCSV(t, testutil.SampleCSV)
	src := &grades.FileSource{Path: path}
	ctx := context.Background()

	initial, err := grades.Load(ctx, src, grades.LoadOptions{})
	require.NoError(t, err)
	store := grades.NewStore(initial)

	b := &MockBroadcaster{}
	r := NewRefresher(src, store, grades.LoadOptions{}, time.Minute, b, nil, testLogger(t))

	swapped, err := r.RefreshOnce(ctx)
	require.NoError(t, err)
	assert.False(t, swapped, "unchanged content must not swap")
	b.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything, mock.Anything)

	changed := strings.Replace(testutil.SampleCSV, "20,18,19", "10,10,10", 1)
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o644))

	b.On("Broadcast", mock.Anything, ws.TypeDatasetUpdated, mock.MatchedBy(func(u DatasetUpdate) bool {
		return u.Rows == 3 && u.Fingerprint != initial.Fingerprint()
	})).Once()

	swapped, err = r.RefreshOnce(ctx)
	require.NoError(t, err)
	assert.True(t, swapped)
	assert.NotEqual(t, initial.Fingerprint(), store.Current().Fingerprint())
	b.AssertExpectations(t)

	st := r.Status()
	assert.Equal(t, 1, st.Swaps)
	assert.Empty(t, st.LastError)
	assert.False(t, st.LastSwap.IsZero())
}

func TestRefreshOnceKeepsDatasetOnFailure(t *testing.T) {
	store := grades.NewStore(testutil.SampleDataset(t))
	before := store.Current()

	src := &grades.FileSource{Path: t.TempDir() + "/missing.csv"}
	r := NewRefresher(src, store, grades.LoadOptions{}, time.Minute, nil, nil, testLogger(t))

	swapped, err := r.RefreshOnce(context.Background())
	require.Error(t, err)
	assert.False(t, swapped)
	assert.Same(t, before, store.Current())
	assert.NotEmpty(t, r.Status().LastError)
}

func TestRefresherRunDisabled(t *testing.T) {
	r := NewRefresher(&grades.FileSource{}, grades.NewStore(nil), grades.LoadOptions{}, 0, nil, nil, testLogger(t))
	assert.NoError(t, r.Run(context.Background()))
}

func TestRefresherRunStopsOnCancel(t *testing.T) {
	path := testutil.WriteCSV(t, testutil.SampleCSV)
	store := grades.NewStore(nil)
	r := NewRefresher(&grades.FileSource{Path: path}, store, grades.LoadOptions{}, 10*time.Millisecond, nil, nil, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return store.Current() != nil }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}
