package game

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
)

// Spawner releases agents in periodic bursts until the population cap is reached.
type Spawner struct {
	interval    float64
	perInterval int
	limit       int
	origin      mgl32.Vec3

	elapsed float64
	spawned int
}

// NewSpawner creates a spawner from the spawner config section.
func NewSpawner(cfg *config.SpawnerConfig) *Spawner {
	return &Spawner{
		interval:    cfg.Interval,
		perInterval: cfg.BoidsPerInterval,
		limit:       cfg.BoidsToSpawn,
		origin:      cfg.Origin.Vec(),
	}
}

// Advance moves the spawner clock forward by dt seconds and returns how many
// agents to create now. A burst is boidsPerInterval+1 agents, truncated at the
// cap and never negative; the clock restarts from zero after each burst.
func (s *Spawner) Advance(dt float64) int {
	if s.Done() {
		return 0
	}
	s.elapsed += dt
	if s.elapsed < s.interval {
		return 0
	}
	s.elapsed = 0

	n := max(min(s.perInterval+1, s.limit-s.spawned), 0)
	s.spawned += n
	return n
}

// Spawned returns the number of agents released so far.
func (s *Spawner) Spawned() int {
	return s.spawned
}

// Done reports whether the population cap has been reached.
func (s *Spawner) Done() bool {
	return s.spawned >= s.limit
}

// Origin returns the point every agent spawns at.
func (s *Spawner) Origin() mgl32.Vec3 {
	return s.origin
}

// randomDirection returns a unit vector from a point drawn uniformly inside the unit sphere.
func randomDirection(rng *rand.Rand) mgl32.Vec3 {
	for {
		p := mgl32.Vec3{
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
		}
		l := p.Len()
		if l > 1e-6 && l <= 1 {
			return p.Mul(1 / l)
		}
	}
}

// spawnBoid creates one agent at the spawner origin heading in a random direction at full speed.
func (g *Game) spawnBoid() ecs.Entity {
	cfg := &g.cfg.Boid

	pos := components.Translation{Value: g.spawner.Origin()}
	rot := components.Rotation{Value: mgl32.QuatIdent()}
	boid := components.BoidFromConfig(cfg, randomDirection(g.rng).Mul(float32(cfg.MaxSpeed)))

	return g.boidMapper.NewEntity(&pos, &rot, &boid)
}

// spawnDue creates every agent the spawner releases this tick.
func (g *Game) spawnDue(dt float64) int {
	n := g.spawner.Advance(dt)
	for i := 0; i < n; i++ {
		g.spawnBoid()
	}
	if n > 0 {
		g.collector.RecordSpawned(n)
	}
	return n
}
