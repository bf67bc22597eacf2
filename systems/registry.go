package systems

// SystemInfo describes one stage of a tick for UI display.
type SystemInfo struct {
	ID          string // Perf phase name
	Name        string
	Description string
	Parallel    bool // runs across the worker pool above the parallel threshold
}

// SystemRegistry lists the tick stages in execution order, so the perf
// panel and the perf collector agree on names.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

var tickStages = []SystemInfo{
	{ID: "spawn", Name: "Spawner", Description: "Adds agents at the spawn origin"},
	{ID: "gather", Name: "Gather", Description: "Copies ECS columns into the flock view"},
	{ID: "bucketing", Name: "Bucketing", Description: "Hashes agent snapshots into grid cells", Parallel: true},
	{ID: "flocking", Name: "Flocking", Description: "Steers and integrates every agent", Parallel: true},
	{ID: "apply", Name: "Apply", Description: "Writes the flock view back to ECS"},
	{ID: "telemetry", Name: "Telemetry", Description: "Window stats and CSV output"},
}

// NewSystemRegistry creates a registry with every tick stage.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{byID: make(map[string]SystemInfo, len(tickStages))}
	for _, info := range tickStages {
		r.systems = append(r.systems, info)
		r.byID[info.ID] = info
	}
	return r
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// Name returns the display name for id, or id itself if unknown.
func (r *SystemRegistry) Name(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns the stages in execution order.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}
