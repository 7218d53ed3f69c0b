package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"study-scheduler/internal/model"
	"study-scheduler/internal/schedule"
)

// --- Request DTOs ---

type windowReq struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

type detectReq struct {
	Tasks     []schedule.TaskItem     `json:"tasks"`
	Events    []schedule.EventItem    `json:"events"`
	Sessions  []schedule.SessionItem  `json:"sessions"`
	Reminders []schedule.ReminderItem `json:"reminders"`
	Window    windowReq               `json:"window" binding:"required"`
}

func (r detectReq) toInput() schedule.DetectInput {
	return schedule.DetectInput{
		Items: schedule.NormalizeInput{
			Tasks:     r.Tasks,
			Events:    r.Events,
			Sessions:  r.Sessions,
			Reminders: r.Reminders,
		},
		Window: schedule.Window{
			Start: r.Window.Start,
			End:   r.Window.End,
		},
	}
}

func (h *handler) processDetectReq(c *gin.Context) (detectReq, error) {
	var req detectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return detectReq{}, err
	}
	return req, nil
}

type busyWindowReq struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
	Label string    `json:"label"`
}

type allocateReq struct {
	Subject         string          `json:"subject" binding:"required"`
	DurationMinutes int             `json:"duration_minutes" binding:"required"`
	Deadline        time.Time       `json:"deadline" binding:"required"`
	Busy            []busyWindowReq `json:"busy"`
	ChunkMinMinutes int             `json:"chunk_min_minutes"`
	ChunkMaxMinutes int             `json:"chunk_max_minutes"`
	Priority        model.Priority  `json:"priority"`
}

// hardWindows converts the caller-supplied busy ranges. Anything the
// caller already knows about is unavailable time, so hard.
func (r allocateReq) hardWindows() []model.BusyWindow {
	out := make([]model.BusyWindow, 0, len(r.Busy))
	for _, b := range r.Busy {
		out = append(out, model.BusyWindow{
			Start: b.Start,
			End:   b.End,
			Hard:  true,
			Label: b.Label,
		})
	}
	return out
}

func (h *handler) chunkBounds(r allocateReq) schedule.ChunkBounds {
	if r.ChunkMinMinutes == 0 && r.ChunkMaxMinutes == 0 {
		return h.chunks
	}
	return schedule.ChunkBounds{Min: r.ChunkMinMinutes, Max: r.ChunkMaxMinutes}
}

func (h *handler) processAllocateReq(c *gin.Context) (allocateReq, error) {
	var req allocateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return allocateReq{}, err
	}
	return req, nil
}

type saveResolutionReq struct {
	Item1ID string `json:"item1_id" binding:"required"`
	Item2ID string `json:"item2_id" binding:"required"`
	Type    string `json:"type"     binding:"required"`
}

func (r saveResolutionReq) toInput() schedule.SaveResolutionInput {
	return schedule.SaveResolutionInput{
		Item1ID: r.Item1ID,
		Item2ID: r.Item2ID,
		Type:    schedule.ResolutionType(r.Type),
	}
}

func (h *handler) processSaveResolutionReq(c *gin.Context) (saveResolutionReq, error) {
	var req saveResolutionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return saveResolutionReq{}, err
	}
	return req, nil
}

// --- Response DTOs ---

type detectResp struct {
	Clusters  []schedule.ConflictCluster `json:"clusters"`
	Deadlines []schedule.DeadlinePoint   `json:"deadlines"`
	Warnings  []schedule.ParseWarning    `json:"warnings,omitempty"`
}

func (h *handler) newDetectResp(out schedule.DetectOutput) detectResp {
	return detectResp{
		Clusters:  out.Clusters,
		Deadlines: out.Deadlines,
		Warnings:  out.Warnings,
	}
}

type allocateResp struct {
	Allocated          bool             `json:"allocated"`
	Reason             string           `json:"reason,omitempty"`
	Chunks             []model.Interval `json:"chunks"`
	AllocatedMinutes   int              `json:"allocated_minutes"`
	RequiredMinutes    int              `json:"required_minutes,omitempty"`
	RelaxedConstraints []string         `json:"relaxed_constraints,omitempty"`
}

func (h *handler) newAllocateResp(out schedule.AllocateOutput) allocateResp {
	return allocateResp{
		Allocated:          true,
		Chunks:             out.Chunks,
		AllocatedMinutes:   out.AllocatedMinutes,
		RelaxedConstraints: out.RelaxedConstraints,
	}
}

// newAllocateFailureResp surfaces an expected allocation failure with its
// partial result so the caller can offer the user what did fit.
func (h *handler) newAllocateFailureResp(allocErr *schedule.AllocationError) allocateResp {
	chunks := allocErr.Partial
	if chunks == nil {
		chunks = []model.Interval{}
	}
	return allocateResp{
		Allocated:          false,
		Reason:             string(allocErr.Reason),
		Chunks:             chunks,
		AllocatedMinutes:   allocErr.AllocatedMinutes,
		RequiredMinutes:    allocErr.RequiredMinutes,
		RelaxedConstraints: allocErr.RelaxedConstraints,
	}
}

type ignoredResp struct {
	Pairs []string `json:"pairs"`
	Count int      `json:"count"`
}
