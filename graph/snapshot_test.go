package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrouted/kgraph/types"
)

func TestStore_EmptyBeforePublish(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	assert.Nil(t, s.Current())
	assert.Zero(t, s.Generation())
}

func TestStore_GenerationsMonotonic(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)

	first := s.Publish(buildScenarioGraph(t, false))
	second := s.Publish(buildScenarioGraph(t, false))

	assert.Equal(t, uint64(1), first.Generation)
	assert.Equal(t, uint64(2), second.Generation)
	assert.Same(t, second, s.Current())
	assert.Equal(t, uint64(2), s.Generation())
}

func TestStore_OldSnapshotStaysReadable(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	old := s.Publish(buildScenarioGraph(t, false))

	// A rebuild supersedes the snapshot but never mutates it.
	s.Publish(buildScenarioGraph(t, true))

	qc := types.NewContext(countryUS, currUSD)
	res := Check(context.Background(), old.Graph, qc, types.ValueIs(connectorA))
	assert.True(t, res.IsValid())
	assert.NotSame(t, old, s.Current())
}

func TestStore_ConcurrentReaders(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	s.Publish(buildScenarioGraph(t, false))

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				snap := s.Current()
				require.NotNil(t, snap)
				Check(context.Background(), snap.Graph,
					types.NewContext(countryUS, currUSD), types.ValueIs(connectorA))
			}
		}()
	}
	for i := 0; i < 4; i++ {
		s.Publish(buildScenarioGraph(t, true))
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
