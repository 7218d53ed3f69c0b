package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"study-scheduler/internal/model"
	"study-scheduler/internal/schedule"
)

// Detect normalizes the raw items, keeps the kinds that represent real
// scheduling commitments, and returns clusters of transitively
// overlapping intervals within the visible window. Clusters whose every
// pairwise combination the user has ignored are suppressed; a partially
// ignored cluster still surfaces in full.
func (uc *implUseCase) Detect(ctx context.Context, sc model.Scope, input schedule.DetectInput) (schedule.DetectOutput, error) {
	if input.Window.End.Before(input.Window.Start) {
		return schedule.DetectOutput{}, schedule.ErrInvalidWindow
	}

	normalized := uc.Normalize(ctx, input.Items)

	candidates := make([]model.Interval, 0, len(normalized.Intervals))
	for _, iv := range normalized.Intervals {
		// Reminders are advisory and never conflict. Deadline-only
		// tasks were already diverted to the deadline list.
		if iv.Kind == model.KindReminder {
			continue
		}
		if overlapsWindow(iv, input.Window) {
			candidates = append(candidates, iv)
		}
	}

	ignoreSet, err := uc.IgnoredPairs(ctx, sc)
	if err != nil {
		return schedule.DetectOutput{}, fmt.Errorf("failed to load ignored pairs: %w", err)
	}

	clusters := clusterOverlaps(candidates, ignoreSet)

	uc.l.Debugf(ctx, "Detect: user=%s candidates=%d clusters=%d", sc.UserID, len(candidates), len(clusters))

	return schedule.DetectOutput{
		Clusters:  clusters,
		Deadlines: normalized.Deadlines,
		Warnings:  normalized.Warnings,
	}, nil
}

// overlapsWindow is the inclusive visibility test. All-day intervals
// compare calendar-date strings so a timezone boundary cannot drop or
// invent a visible item.
func overlapsWindow(iv model.Interval, w schedule.Window) bool {
	if iv.AllDay {
		return iv.StartDate() <= w.End.Format(dateLayout) && iv.EndDate() >= w.Start.Format(dateLayout)
	}
	return !iv.Start.After(w.End) && !iv.EndOrStart().Before(w.Start)
}

// clusterOverlaps runs a sweep over the start-sorted intervals, keeping
// a set of currently open intervals and unioning every truly
// overlapping pair. Connected components of size >= 2 become clusters,
// which captures transitive overlap: A-B and B-C overlapping puts A, B,
// and C in one cluster even if A and C do not touch.
func clusterOverlaps(intervals []model.Interval, ignoreSet map[string]struct{}) []schedule.ConflictCluster {
	if len(intervals) < 2 {
		return nil
	}

	sorted := make([]model.Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	parent := make([]int, len(sorted))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	type openItem struct {
		idx    int
		effEnd time.Time
	}
	var open []openItem

	for i, iv := range sorted {
		// Evict intervals that can no longer reach this start. The
		// eviction bound over-approximates all-day reach; the actual
		// pair test below is authoritative.
		cutoff := iv.Start
		live := open[:0]
		for _, o := range open {
			if !o.effEnd.Before(cutoff) {
				live = append(live, o)
			}
		}
		open = live

		for _, o := range open {
			// Two slots of the same task share an ID and must not
			// cluster the task with itself.
			if sorted[o.idx].ID == iv.ID {
				continue
			}
			if sorted[o.idx].Overlaps(iv) {
				union(o.idx, i)
			}
		}
		open = append(open, openItem{idx: i, effEnd: effectiveEnd(iv)})
	}

	groups := make(map[int][]model.Interval)
	for i := range sorted {
		root := find(i)
		groups[root] = append(groups[root], sorted[i])
	}

	var clusters []schedule.ConflictCluster
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		if fullyIgnored(members, ignoreSet) {
			continue
		}

		// Display order: highest priority first, then earliest start.
		sort.Slice(members, func(i, j int) bool {
			if members[i].Priority.Rank() != members[j].Priority.Rank() {
				return members[i].Priority.Rank() > members[j].Priority.Rank()
			}
			return members[i].Start.Before(members[j].Start)
		})

		ids := make([]string, len(members))
		for i, m := range members {
			ids[i] = m.ID
		}
		clusters = append(clusters, schedule.ConflictCluster{
			ID:      schedule.ClusterID(ids),
			Members: members,
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		return earliestStart(clusters[i]).Before(earliestStart(clusters[j]))
	})
	return clusters
}

// effectiveEnd is a sweep eviction bound, not an overlap bound. All-day
// intervals get two days of slack so date-string overlaps across UTC
// offsets are never evicted early.
func effectiveEnd(iv model.Interval) time.Time {
	end := iv.EndOrStart()
	if iv.AllDay {
		return end.AddDate(0, 0, 2)
	}
	return end
}

// fullyIgnored reports whether every pairwise combination within the
// cluster is in the ignore set. One live pair keeps the whole cluster
// visible, since resolving it still affects the ignored members.
func fullyIgnored(members []model.Interval, ignoreSet map[string]struct{}) bool {
	if len(ignoreSet) == 0 {
		return false
	}
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if _, ok := ignoreSet[schedule.PairID(members[i].ID, members[j].ID)]; !ok {
				return false
			}
		}
	}
	return true
}

func earliestStart(c schedule.ConflictCluster) time.Time {
	earliest := c.Members[0].Start
	for _, m := range c.Members[1:] {
		if m.Start.Before(earliest) {
			earliest = m.Start
		}
	}
	return earliest
}
