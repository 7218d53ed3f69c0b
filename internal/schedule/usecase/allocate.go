package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"study-scheduler/internal/model"
	"study-scheduler/internal/schedule"
)

// span is a half-open free-time range the allocator carves chunks from.
type span struct {
	start time.Time
	end   time.Time
}

func (s span) minutes() int {
	if s.end.Before(s.start) {
		return 0
	}
	return int(s.end.Sub(s.start).Minutes())
}

// Allocate packs the required duration into free time before the
// deadline. Hard busy windows are never double-booked. Soft windows are
// subtracted too, but when the deadline cannot otherwise be met they
// are given back in the configured relaxation order (school hours
// before sleep by default) and reported to the caller.
func (uc *implUseCase) Allocate(ctx context.Context, sc model.Scope, input schedule.AllocateInput) (schedule.AllocateOutput, error) {
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	if !input.Deadline.After(now) {
		return schedule.AllocateOutput{}, &schedule.AllocationError{
			Reason:          schedule.AllocationDeadlinePassed,
			RequiredMinutes: input.DurationMinutes,
		}
	}
	if input.DurationMinutes <= 0 {
		return schedule.AllocateOutput{}, schedule.ErrInvalidDuration
	}

	bounds := input.Chunks
	if bounds.Min == 0 && bounds.Max == 0 {
		bounds = schedule.DefaultChunkBounds
	}
	if bounds.Min <= 0 || bounds.Max < bounds.Min {
		return schedule.AllocateOutput{}, schedule.ErrInvalidChunkBounds
	}

	var hard, soft []model.BusyWindow
	for _, w := range input.Busy {
		if w.Hard {
			hard = append(hard, w)
		} else {
			soft = append(soft, w)
		}
	}

	free := complement(now, input.Deadline, mergeSpans(clipWindows(hard, now, input.Deadline)))

	gaps, relaxed := uc.applySoftWindows(free, soft, now, input.Deadline, input.DurationMinutes, bounds)

	chunks, remaining := uc.carve(gaps, input.DurationMinutes, bounds)

	intervals := make([]model.Interval, 0, len(chunks))
	for _, c := range chunks {
		end := c.end
		intervals = append(intervals, model.Interval{
			ID:       uuid.NewString(),
			Kind:     model.KindSession,
			Start:    c.start,
			End:      &end,
			Source:   model.SourceManual,
			Priority: priorityOrMedium(input.Priority),
		})
	}

	if remaining > 0 {
		uc.l.Infof(ctx, "Allocate: user=%s required=%dm allocated=%dm (insufficient capacity)",
			sc.UserID, input.DurationMinutes, input.DurationMinutes-remaining)
		return schedule.AllocateOutput{}, &schedule.AllocationError{
			Reason:             schedule.AllocationInsufficientCapacity,
			Partial:            intervals,
			AllocatedMinutes:   input.DurationMinutes - remaining,
			RequiredMinutes:    input.DurationMinutes,
			RelaxedConstraints: relaxed,
		}
	}

	uc.l.Infof(ctx, "Allocate: user=%s required=%dm chunks=%d relaxed=%v",
		sc.UserID, input.DurationMinutes, len(intervals), relaxed)

	return schedule.AllocateOutput{
		Chunks:             intervals,
		AllocatedMinutes:   input.DurationMinutes,
		RelaxedConstraints: relaxed,
	}, nil
}

// applySoftWindows subtracts soft windows from the free gaps. If that
// leaves too little capacity for the request, soft labels are relaxed
// one at a time in uc.cfg.RelaxOrder (labels missing from the order are
// relaxed last) until the capacity fits or nothing is left to give.
func (uc *implUseCase) applySoftWindows(
	free []span,
	soft []model.BusyWindow,
	now, deadline time.Time,
	requiredMinutes int,
	bounds schedule.ChunkBounds,
) ([]span, []string) {
	if len(soft) == 0 {
		return free, nil
	}

	byLabel := make(map[string][]model.BusyWindow)
	for _, w := range soft {
		byLabel[w.Label] = append(byLabel[w.Label], w)
	}

	relaxOrder := make([]string, 0, len(byLabel))
	seen := make(map[string]struct{})
	for _, label := range uc.cfg.RelaxOrder {
		if _, ok := byLabel[label]; ok {
			relaxOrder = append(relaxOrder, label)
			seen[label] = struct{}{}
		}
	}
	rest := make([]string, 0)
	for label := range byLabel {
		if _, ok := seen[label]; !ok {
			rest = append(rest, label)
		}
	}
	sort.Strings(rest)
	relaxOrder = append(relaxOrder, rest...)

	subtractAllBut := func(relaxedSet map[string]struct{}) []span {
		var blocked []model.BusyWindow
		for label, ws := range byLabel {
			if _, ok := relaxedSet[label]; ok {
				continue
			}
			blocked = append(blocked, ws...)
		}
		return subtractSpans(free, mergeSpans(clipWindows(blocked, now, deadline)))
	}

	relaxedSet := make(map[string]struct{})
	gaps := subtractAllBut(relaxedSet)
	if usableMinutes(gaps, bounds.Min) >= requiredMinutes {
		return gaps, nil
	}

	var relaxed []string
	for _, label := range relaxOrder {
		relaxedSet[label] = struct{}{}
		relaxed = append(relaxed, label)
		gaps = subtractAllBut(relaxedSet)
		if usableMinutes(gaps, bounds.Min) >= requiredMinutes {
			break
		}
	}
	return gaps, relaxed
}

// carve walks the gaps chronologically, cutting chunks sized within
// bounds, preferring the largest size that fits the gap and the
// remaining total. When capacity is abundant (more than twice the
// requirement), a first pass spreads the work evenly across days so the
// plan never degenerates into front-loading or single-day cramming.
func (uc *implUseCase) carve(gaps []span, requiredMinutes int, bounds schedule.ChunkBounds) ([]span, int) {
	remaining := requiredMinutes
	var placed []span

	capacity := usableMinutes(gaps, bounds.Min)
	work := splitAtMidnight(gaps, uc.cfg.Timezone)

	if capacity > 2*requiredMinutes {
		days := distinctDays(work, uc.cfg.Timezone)
		if len(days) > 1 {
			budget := (requiredMinutes + len(days) - 1) / len(days)
			remaining = uc.carveDistributed(work, remaining, budget, bounds, &placed)
		}
	}

	if remaining > 0 {
		remaining = uc.carveGreedy(work, remaining, bounds, &placed)
	}
	return placed, remaining
}

// carveDistributed allocates up to a per-day budget. A day may overshoot
// its budget by less than one minimum chunk, never more.
func (uc *implUseCase) carveDistributed(gaps []*span, remaining, dayBudget int, bounds schedule.ChunkBounds, placed *[]span) int {
	dayAlloc := make(map[string]int)
	for _, g := range gaps {
		day := g.start.In(uc.cfg.Timezone).Format(dateLayout)
		for remaining > 0 && dayAlloc[day] < dayBudget {
			want := dayBudget - dayAlloc[day]
			if want < bounds.Min {
				want = bounds.Min
			}
			size := chunkSize(g.minutes(), remaining, want, bounds)
			if size == 0 {
				break
			}
			take(g, size, placed)
			dayAlloc[day] += size
			remaining -= size
		}
		if remaining == 0 {
			break
		}
	}
	return remaining
}

// carveGreedy fills gaps in chronological order until the requirement
// is met or the gaps run out.
func (uc *implUseCase) carveGreedy(gaps []*span, remaining int, bounds schedule.ChunkBounds, placed *[]span) int {
	for _, g := range gaps {
		for remaining > 0 {
			size := chunkSize(g.minutes(), remaining, bounds.Max, bounds)
			if size == 0 {
				break
			}
			take(g, size, placed)
			remaining -= size
		}
		if remaining == 0 {
			break
		}
	}
	return remaining
}

// chunkSize picks the next chunk size: as large as the gap, the
// remaining requirement, the caller's limit, and bounds.Max allow,
// never below bounds.Min. The one exception is a final remainder
// smaller than the minimum, which is placed undersized rather than
// over-allocating.
func chunkSize(gapMinutes, remaining, limit int, bounds schedule.ChunkBounds) int {
	size := bounds.Max
	if limit < size {
		size = limit
	}
	if gapMinutes < size {
		size = gapMinutes
	}
	if remaining < size {
		size = remaining
	}
	if size < bounds.Min {
		if remaining < bounds.Min && gapMinutes >= remaining {
			return remaining
		}
		return 0
	}
	return size
}

func take(g *span, minutes int, placed *[]span) {
	end := g.start.Add(time.Duration(minutes) * time.Minute)
	*placed = append(*placed, span{start: g.start, end: end})
	g.start = end
}

// clipWindows restricts busy windows to [from, to], dropping the ones
// entirely outside.
func clipWindows(windows []model.BusyWindow, from, to time.Time) []span {
	var out []span
	for _, w := range windows {
		start, end := w.Start, w.End
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		if end.After(start) {
			out = append(out, span{start: start, end: end})
		}
	}
	return out
}

// mergeSpans merges overlapping or touching spans into a sorted,
// disjoint list.
func mergeSpans(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}
	sorted := make([]span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start.Before(sorted[j].start) })

	merged := []span{sorted[0]}
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !s.start.After(last.end) {
			if s.end.After(last.end) {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// complement returns the free gaps between merged busy spans inside
// [from, to].
func complement(from, to time.Time, busy []span) []span {
	var gaps []span
	cursor := from
	for _, b := range busy {
		if b.start.After(cursor) {
			gaps = append(gaps, span{start: cursor, end: b.start})
		}
		if b.end.After(cursor) {
			cursor = b.end
		}
	}
	if to.After(cursor) {
		gaps = append(gaps, span{start: cursor, end: to})
	}
	return gaps
}

// subtractSpans removes the merged, sorted blocked spans from each gap.
func subtractSpans(gaps []span, blocked []span) []span {
	var out []span
	for _, g := range gaps {
		pieces := []span{g}
		for _, b := range blocked {
			var next []span
			for _, p := range pieces {
				if b.end.Before(p.start) || b.start.After(p.end) {
					next = append(next, p)
					continue
				}
				if b.start.After(p.start) {
					next = append(next, span{start: p.start, end: b.start})
				}
				if b.end.Before(p.end) {
					next = append(next, span{start: b.end, end: p.end})
				}
			}
			pieces = next
		}
		out = append(out, pieces...)
	}
	return out
}

// usableMinutes counts capacity only in gaps that fit at least one
// minimum-size chunk.
func usableMinutes(gaps []span, minChunk int) int {
	total := 0
	for _, g := range gaps {
		if m := g.minutes(); m >= minChunk {
			total += m
		}
	}
	return total
}

// splitAtMidnight cuts gaps at local day boundaries so per-day
// accounting sees each calendar day separately.
func splitAtMidnight(gaps []span, loc *time.Location) []*span {
	var out []*span
	for _, g := range gaps {
		cursor := g.start
		for {
			local := cursor.In(loc)
			nextMidnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
			if nextMidnight.Before(g.end) {
				out = append(out, &span{start: cursor, end: nextMidnight})
				cursor = nextMidnight
				continue
			}
			out = append(out, &span{start: cursor, end: g.end})
			break
		}
	}
	return out
}

func distinctDays(gaps []*span, loc *time.Location) []string {
	seen := make(map[string]struct{})
	var days []string
	for _, g := range gaps {
		day := g.start.In(loc).Format(dateLayout)
		if _, ok := seen[day]; !ok {
			seen[day] = struct{}{}
			days = append(days, day)
		}
	}
	return days
}
