package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/config"
	"github.com/pthm-cable/qsoup/policy"
	"github.com/pthm-cable/qsoup/random"
)

// Env carries what every creature operation needs for one call.
type Env struct {
	Cfg  *config.Config
	Rng  random.Source
	View View // nil selects the perception fallback
}

// Agent bundles pointers to one creature's components.
// The pointers are only valid while no entity is created or removed.
type Agent struct {
	Entity  ecs.Entity
	Pos     *components.Position
	Heading *components.Heading
	Body    *components.Body
	C       *components.Creature
}

// Alive reports whether the creature is still live.
func (a *Agent) Alive() bool { return a.Body.Alive }

// Learn applies one TD update with the given reward, bootstrapping from the
// state observed now.
func Learn(env *Env, a *Agent, reward float64) {
	next := ObserveState(env, a)
	a.C.Policy.Update(reward, next, env.Cfg.Learning.Params)
}

// terminalReward is base plus the offspring and lifetime bonuses.
func terminalReward(cfg *config.Config, c *components.Creature, base float64) float64 {
	return base +
		cfg.Learning.OffspringBonus*float64(c.Offspring) +
		cfg.Learning.LifetimeBonus*float64(c.Lifetime)
}

// Starve marks the creature dead from energy exhaustion and delivers its
// terminal update.
func Starve(env *Env, a *Agent) {
	if !a.Body.Alive {
		return
	}
	a.Body.Alive = false
	a.C.Death = components.Starved
	l := env.Cfg.Learning
	Learn(env, a, terminalReward(env.Cfg, a.C, l.StepReward+l.StarveReward))
}

// Eaten marks the creature dead by predation and delivers its terminal update.
func Eaten(env *Env, a *Agent) {
	if !a.Body.Alive {
		return
	}
	a.Body.Alive = false
	a.C.Death = components.Eaten
	Learn(env, a, terminalReward(env.Cfg, a.C, env.Cfg.Learning.EatenReward))
}

// StepCreature advances one live creature by dt seconds: drain energy, learn
// from the previous step, observe, choose, act and reflect off the walls.
func StepCreature(env *Env, a *Agent, dt float32) {
	if !a.Body.Alive {
		return
	}
	cfg := env.Cfg
	c := a.C

	c.Lifetime += dt

	c.Energy -= float32(cfg.Creature.EnergyDrain) * dt
	if c.Energy <= 0 {
		Starve(env, a)
		return
	}

	Learn(env, a, cfg.Learning.StepReward)

	c.Policy.LastState = ObserveState(env, a)
	c.Policy.LastAction = c.Policy.SelectAction(c.Policy.LastState, cfg.Learning.Epsilon, env.Rng)

	turn := float32(cfg.Creature.TurnRate) * dt
	switch c.Policy.LastAction {
	case policy.Forward:
		ux, uy := unitVector(a.Heading.Deg)
		a.Pos.X += ux * c.Genome.Speed * dt
		a.Pos.Y += uy * c.Genome.Speed * dt
	case policy.TurnLeft:
		a.Heading.Deg -= turn
	case policy.TurnRight:
		a.Heading.Deg += turn
	case policy.Stop:
	}

	bounceOffWalls(a, cfg.Derived.WorldW32, cfg.Derived.WorldH32)

	if c.ReproCooldown > 0 {
		c.ReproCooldown -= dt
	}
}

// bounceOffWalls clamps the position into the world and turns the creature around
// if any coordinate was clamped.
func bounceOffWalls(a *Agent, w, h float32) {
	x := clampFloat(a.Pos.X, 0, w)
	y := clampFloat(a.Pos.Y, 0, h)
	if x != a.Pos.X || y != a.Pos.Y {
		a.Pos.X, a.Pos.Y = x, y
		a.Heading.Deg += 180
	}
	a.Heading.Deg = normalizeDegrees(a.Heading.Deg)
}
