package game

import (
	"github.com/pthm-cable/flock/telemetry"
)

// simulationStep runs one tick: spawn, gather ECS columns, run the core
// passes, write the results back.
func (g *Game) simulationStep(dt float32) {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSpawn)
	g.spawnDue(float64(dt))

	g.perfCollector.StartPhase(telemetry.PhaseGather)
	g.gather()

	// The pipeline times its own passes
	g.perfCollector.EndPhase()
	g.lastTick = g.pipeline.Tick(g.view, dt)
	g.perfCollector.RecordPhase(telemetry.PhaseBucketing, g.lastTick.Bucketing)
	g.perfCollector.RecordPhase(telemetry.PhaseFlocking, g.lastTick.Flocking)

	g.perfCollector.StartPhase(telemetry.PhaseApply)
	g.apply()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordHeld(g.lastTick.VelocityHeld, g.lastTick.OrientationHeld)
	g.collector.RecordTick(dt)
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// gather copies every agent's components into the column view.
func (g *Game) gather() {
	g.view.Reset()
	g.entities = g.entities[:0]

	query := g.boidFilter.Query()
	for query.Next() {
		pos, rot, boid := query.Get()
		g.view.Append(pos.Value, rot.Value, *boid)
		g.entities = append(g.entities, query.Entity())
	}
}

// apply writes the updated view back to ECS components.
func (g *Game) apply() {
	for i, e := range g.entities {
		pos := g.posMap.Get(e)
		rot := g.rotMap.Get(e)
		boid := g.boidMap.Get(e)

		if pos == nil || rot == nil || boid == nil {
			continue
		}

		pos.Value = g.view.Positions[i]
		rot.Value = g.view.Rotations[i]
		*boid = g.view.Boids[i]
	}
}

// Biases are the steering weights shared by every agent.
type Biases struct {
	Cohesion   float32
	Separation float32
	Alignment  float32
	Target     float32
}

// Biases returns the weights new agents are spawned with.
func (g *Game) Biases() Biases {
	b := &g.cfg.Boid
	return Biases{
		Cohesion:   float32(b.CohesionBias),
		Separation: float32(b.SeparationBias),
		Alignment:  float32(b.AlignmentBias),
		Target:     float32(b.TargetBias),
	}
}

// SetBiases changes the steering weights of every live agent and of agents
// spawned from now on. Negative weights are clamped to zero.
func (g *Game) SetBiases(b Biases) {
	b.Cohesion = max(b.Cohesion, 0)
	b.Separation = max(b.Separation, 0)
	b.Alignment = max(b.Alignment, 0)
	b.Target = max(b.Target, 0)

	cfg := &g.cfg.Boid
	cfg.CohesionBias = float64(b.Cohesion)
	cfg.SeparationBias = float64(b.Separation)
	cfg.AlignmentBias = float64(b.Alignment)
	cfg.TargetBias = float64(b.Target)

	query := g.boidFilter.Query()
	for query.Next() {
		_, _, boid := query.Get()
		boid.CohesionBias = b.Cohesion
		boid.SeparationBias = b.Separation
		boid.AlignmentBias = b.Alignment
		boid.TargetBias = b.Target
	}
}
