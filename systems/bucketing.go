package systems

// BucketRange inserts a snapshot of agents [lo, hi) into the grid under the
// key of each agent's current cell. It only reads the agents.
func BucketRange(grid *SpatialHash, a Agents, lo, hi int) {
	for i := lo; i < hi; i++ {
		pos := a.Positions[i]
		b := &a.Boids[i]
		grid.Insert(KeyFor(pos, b.CellSize), Snapshot{
			Position: pos,
			Velocity: b.Velocity,
		})
	}
}
