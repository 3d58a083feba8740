package supervisor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/starforge/internal/data/pipeline"
	"github.com/zjrosen/starforge/internal/data/registry"
	"github.com/zjrosen/starforge/internal/pubsub"
	"github.com/zjrosen/starforge/internal/supervisor"
	"github.com/zjrosen/starforge/internal/testutil"
)

type memoryRecorder struct {
	mu      sync.Mutex
	reports []supervisor.LoadReport
}

func (r *memoryRecorder) RecordLoad(ctx context.Context, report supervisor.LoadReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return nil
}

func (r *memoryRecorder) all() []supervisor.LoadReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]supervisor.LoadReport(nil), r.reports...)
}

func TestStart_PublishesFirstSnapshot(t *testing.T) {
	base := testutil.NewBasePack(t).WithAllCollections()
	loader := pipeline.NewLoader(base.Dir(), base.ModsRoot(), nil)
	handle := registry.NewHandle()
	recorder := &memoryRecorder{}
	sup := supervisor.New(loader, handle, recorder)

	require.NoError(t, sup.Start(context.Background()))

	snap := handle.Current()
	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.Registry.Weapons().Len())
	assert.Equal(t, supervisor.StateIdle, sup.State())

	reports := recorder.all()
	require.Len(t, reports, 1)
	assert.Equal(t, supervisor.TriggerStartup, reports[0].Trigger)
	assert.Equal(t, supervisor.OutcomePublished, reports[0].Outcome)
}

func TestStart_FailureIsTerminal(t *testing.T) {
	base := testutil.NewBasePack(t).WithAllCollections()
	base.Write("weapons.toml", `[[weapons`)

	loader := pipeline.NewLoader(base.Dir(), base.ModsRoot(), nil)
	handle := registry.NewHandle()
	recorder := &memoryRecorder{}
	sup := supervisor.New(loader, handle, recorder)

	err := sup.Start(context.Background())
	require.Error(t, err)
	assert.Nil(t, handle.Current(), "nothing may be published on startup failure")

	reports := recorder.all()
	require.Len(t, reports, 1)
	assert.Equal(t, supervisor.OutcomeFailed, reports[0].Outcome)
	assert.Positive(t, reports[0].Fatals)
}

func TestRun_ReloadPublishesNewSnapshot(t *testing.T) {
	base := testutil.NewBasePack(t).WithAllCollections()
	loader := pipeline.NewLoader(base.Dir(), base.ModsRoot(), nil)
	handle := registry.NewHandle()
	sup := supervisor.New(loader, handle, nil)

	require.NoError(t, sup.Start(context.Background()))
	first := handle.Current()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := sup.Events().Subscribe(ctx)

	changes := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		sup.Run(ctx, changes)
		close(done)
	}()

	changes <- struct{}{}

	select {
	case event := <-events:
		assert.Equal(t, pubsub.SnapshotPublished, event.Type)
		assert.Equal(t, supervisor.TriggerWatch, event.Payload.Trigger)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for publish event")
	}

	second := handle.Current()
	require.NotNil(t, second)
	assert.NotEqual(t, first.RunID, second.RunID)

	cancel()
	<-done
}

func TestRun_FailedReloadKeepsCurrentSnapshot(t *testing.T) {
	base := testutil.NewBasePack(t).WithAllCollections()
	loader := pipeline.NewLoader(base.Dir(), base.ModsRoot(), nil)
	handle := registry.NewHandle()
	sup := supervisor.New(loader, handle, nil)

	require.NoError(t, sup.Start(context.Background()))
	published := handle.Current()

	// Break the base pack after the first publish.
	base.Write("weapons.toml", `[[weapons`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := sup.Events().Subscribe(ctx)

	changes := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		sup.Run(ctx, changes)
		close(done)
	}()

	changes <- struct{}{}

	select {
	case event := <-events:
		assert.Equal(t, pubsub.ReloadFailed, event.Type)
		assert.Equal(t, supervisor.OutcomeFailed, event.Payload.Outcome)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for failure event")
	}

	assert.Same(t, published, handle.Current(), "old snapshot must survive a failed reload")

	cancel()
	<-done
}

func TestReload_Manual(t *testing.T) {
	base := testutil.NewBasePack(t).WithAllCollections()
	loader := pipeline.NewLoader(base.Dir(), base.ModsRoot(), nil)
	handle := registry.NewHandle()
	recorder := &memoryRecorder{}
	sup := supervisor.New(loader, handle, recorder)

	require.NoError(t, sup.Start(context.Background()))
	require.NoError(t, sup.Reload(context.Background()))

	reports := recorder.all()
	require.Len(t, reports, 2)
	assert.Equal(t, supervisor.TriggerManual, reports[1].Trigger)
}
