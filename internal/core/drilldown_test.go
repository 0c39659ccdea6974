package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExplorer struct {
	mu       sync.Mutex
	seen     []string
	active   int32
	peak     int32
	failName string
}

func (f *fakeExplorer) Explore(ctx context.Context, req ComponentRequest) (*ComponentBreakdown, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if n <= p || atomic.CompareAndSwapInt32(&f.peak, p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.seen = append(f.seen, req.ComponentName)
	f.mu.Unlock()

	if req.ComponentName == f.failName {
		return nil, NewError(KindMalformedOutput, "decode", errors.New("bad json"))
	}
	return &ComponentBreakdown{Name: req.ComponentName, Description: req.Type}, nil
}

func drillFixture() *Blueprint {
	b := &Blueprint{Overview: "x"}
	b.Priorities.P1.Frontend.Components = []Component{
		{Name: "Search", Description: "Find items", Requirements: []string{"Debounce"}},
		{Name: "Filters", Description: "Narrow results"},
	}
	b.Priorities.P1.Backend.Services = []Service{
		{Name: "Index", Description: "Search index", Requirements: []string{"Postgres FTS"}},
		{Name: "Ranker", Description: "Orders results", Requirements: []string{"Scoring"}},
	}
	return b
}

func TestComponentRequests(t *testing.T) {
	items, err := ComponentRequests(drillFixture(), "P1")
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "p1.frontend.components[1]", items[1].Key)
	assert.Equal(t, []string{"Narrow results"}, items[1].Request.Requirements)
	assert.Equal(t, "frontend", items[1].Request.Type)
	assert.Equal(t, "p1.backend.services[0]", items[2].Key)
	assert.Equal(t, "backend", items[2].Request.Type)
	assert.Equal(t, "p1", items[2].Request.Priority)

	_, err = ComponentRequests(drillFixture(), "p9")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestDrillDownPreservesOrderAndCollectsFailures(t *testing.T) {
	explorer := &fakeExplorer{failName: "Index"}

	result, err := DrillDown(context.Background(), explorer, drillFixture(), "p1", 2)
	require.NoError(t, err)
	require.Len(t, result.Items, 4)

	assert.Equal(t, "Search", result.Items[0].Breakdown.Name)
	assert.Equal(t, "Filters", result.Items[1].Breakdown.Name)
	assert.Nil(t, result.Items[2].Breakdown)
	assert.True(t, errors.Is(result.Items[2].Err, ErrMalformedOutput))
	assert.Equal(t, "Ranker", result.Items[3].Breakdown.Name)
	assert.Equal(t, 1, result.Failed())
	assert.Len(t, explorer.seen, 4)
	assert.LessOrEqual(t, atomic.LoadInt32(&explorer.peak), int32(2))
}

func TestDrillDownCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	explorer := &fakeExplorer{}
	result, err := DrillDown(ctx, explorer, drillFixture(), "p1", 0)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Failed())
	assert.Empty(t, explorer.seen)
}

func TestFindComponent(t *testing.T) {
	b := drillFixture()

	item, err := FindComponent(b, "p1", "ranker")
	require.NoError(t, err)
	assert.Equal(t, "p1.backend.services[1]", item.Key)
	assert.Equal(t, "backend", item.Request.Type)

	item, err = FindComponent(b, "p1", "p1.frontend.components[1]")
	require.NoError(t, err)
	assert.Equal(t, "Filters", item.Request.ComponentName)
	assert.Equal(t, []string{"Narrow results"}, item.Request.Requirements)

	_, err = FindComponent(b, "p1", "Checkout")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = FindComponent(b, "p7", "Ranker")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPriorityOfKey(t *testing.T) {
	assert.Equal(t, "p1", PriorityOfKey("p1.backend.services[0]"))
	assert.Equal(t, "p0", PriorityOfKey("p0"))
}
