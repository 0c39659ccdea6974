package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Explorer produces a detailed breakdown of a single component or service.
// This matches service.Service but is defined here to avoid import cycles.
type Explorer interface {
	Explore(ctx context.Context, req ComponentRequest) (*ComponentBreakdown, error)
}

// DefaultDrillDownParallelism bounds concurrent model calls during drill-down.
const DefaultDrillDownParallelism = 3

// ExploredItem is the outcome of exploring one item of a priority level.
type ExploredItem struct {
	Key       string // Structural path of the item, e.g. p0.backend.services[1]
	Request   ComponentRequest
	Breakdown *ComponentBreakdown
	Err       error
}

// DrillDownResult holds per-item outcomes in blueprint order.
type DrillDownResult struct {
	Priority string
	Items    []ExploredItem
}

// Failed returns the number of items that could not be explored.
func (r *DrillDownResult) Failed() int {
	n := 0
	for _, item := range r.Items {
		if item.Err != nil {
			n++
		}
	}
	return n
}

// ComponentRequests returns exploration requests for every component and
// service of a priority level, frontend first.
func ComponentRequests(b *Blueprint, priority string) ([]ExploredItem, error) {
	priority = strings.ToLower(priority)
	level, ok := b.Priorities.Level(priority)
	if !ok {
		return nil, NewError(KindInvalidInput, "drill down", &ValidationError{Field: "priority", Message: "must be p0, p1 or p2"})
	}

	var items []ExploredItem
	for i, c := range level.Frontend.Components {
		items = append(items, ExploredItem{
			Key:     fmt.Sprintf("%s.frontend.components[%d]", priority, i),
			Request: newComponentRequest(c.Name, c.Description, c.Requirements, "frontend", priority),
		})
	}
	for i, s := range level.Backend.Services {
		items = append(items, ExploredItem{
			Key:     fmt.Sprintf("%s.backend.services[%d]", priority, i),
			Request: newComponentRequest(s.Name, s.Description, s.Requirements, "backend", priority),
		})
	}
	return items, nil
}

func newComponentRequest(name, description string, requirements []string, kind, priority string) ComponentRequest {
	reqs := cloneStrings(requirements)
	if len(reqs) == 0 && description != "" {
		reqs = []string{description}
	}
	return ComponentRequest{
		ComponentName: name,
		Description:   description,
		Requirements:  reqs,
		Type:          kind,
		Priority:      priority,
	}
}

// FindComponent returns the exploration request for one item of a priority
// level, matched by structural key or case-insensitive name.
func FindComponent(b *Blueprint, priority, ref string) (ExploredItem, error) {
	items, err := ComponentRequests(b, priority)
	if err != nil {
		return ExploredItem{}, err
	}
	for _, item := range items {
		if item.Key == ref || strings.EqualFold(item.Request.ComponentName, ref) {
			return item, nil
		}
	}
	return ExploredItem{}, NewError(KindInvalidInput, "find component",
		&ValidationError{Field: "component", Message: fmt.Sprintf("no component or service %q in %s", ref, strings.ToLower(priority))})
}

// PriorityOfKey returns the priority prefix of a structural key such as
// p1.backend.services[0].
func PriorityOfKey(key string) string {
	p, _, _ := strings.Cut(key, ".")
	return p
}

// DrillDown explores every component and service of one priority level in
// parallel. A failing item is recorded on its ExploredItem and does not stop
// the others. limit <= 0 uses DefaultDrillDownParallelism.
func DrillDown(ctx context.Context, explorer Explorer, b *Blueprint, priority string, limit int) (*DrillDownResult, error) {
	items, err := ComponentRequests(b, priority)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultDrillDownParallelism
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, limit)

	for i := range items {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}        // Acquire
			defer func() { <-sem }() // Release

			if err := ctx.Err(); err != nil {
				items[idx].Err = err
				return
			}
			breakdown, err := explorer.Explore(ctx, items[idx].Request)
			if err != nil {
				items[idx].Err = fmt.Errorf("%s: %w", items[idx].Request.ComponentName, err)
				return
			}
			items[idx].Breakdown = breakdown
		}(i)
	}

	wg.Wait()

	return &DrillDownResult{Priority: strings.ToLower(priority), Items: items}, nil
}
