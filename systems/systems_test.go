package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/config"
	"github.com/pthm-cable/qsoup/policy"
	"github.com/pthm-cable/qsoup/random"
	"github.com/pthm-cable/qsoup/traits"
)

const frame = float32(1.0 / 60.0)

// fixture holds a small ark world of creatures for exercising systems directly.
// Agents must be fetched after every entity has been added.
type fixture struct {
	world    *ecs.World
	mapper   *ecs.Map4[components.Position, components.Heading, components.Body, components.Creature]
	entities []ecs.Entity
	plants   []*plantStub
}

type plantStub struct {
	pos  components.Position
	body components.Body
}

func newFixture() *fixture {
	w := ecs.NewWorld()
	return &fixture{
		world:  w,
		mapper: ecs.NewMap4[components.Position, components.Heading, components.Body, components.Creature](w),
	}
}

func (f *fixture) add(x, y float32, g traits.Genome, energy float32) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	head := components.Heading{}
	body := components.Body{Kind: components.KindCreature, Radius: 15, Alive: true}
	c := components.Creature{Genome: g, Energy: energy}
	e := f.mapper.NewEntity(&pos, &head, &body, &c)
	f.entities = append(f.entities, e)
	return e
}

func (f *fixture) addPlant(x, y float32) *plantStub {
	p := &plantStub{
		pos:  components.Position{X: x, Y: y},
		body: components.Body{Kind: components.KindPlant, Radius: 10, Alive: true},
	}
	f.plants = append(f.plants, p)
	return p
}

func (f *fixture) agent(e ecs.Entity) *Agent {
	pos, head, body, c := f.mapper.Get(e)
	return &Agent{Entity: e, Pos: pos, Heading: head, Body: body, C: c}
}

func (f *fixture) Scan(fn func(Sighting) bool) {
	for _, e := range f.entities {
		pos, _, body, c := f.mapper.Get(e)
		if !body.Alive {
			continue
		}
		if !fn(Sighting{Entity: e, X: pos.X, Y: pos.Y, Kind: body.Kind, Attack: c.Genome.Attack}) {
			return
		}
	}
	for _, p := range f.plants {
		if !p.body.Alive {
			continue
		}
		if !fn(Sighting{X: p.pos.X, Y: p.pos.Y, Kind: components.KindPlant}) {
			return
		}
	}
}

func testEnv(f *fixture, rng random.Source) *Env {
	return &Env{Cfg: config.Defaults(), Rng: rng, View: f}
}

func soloGenome() traits.Genome {
	return traits.Genome{Speed: 50, Attack: 5, Legs: 2, SenseRange: 100}
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

type neighbour struct {
	x, y, attack float32
}

func TestObserveState(t *testing.T) {
	tests := []struct {
		name   string
		others []neighbour
		plant  bool
		want   policy.State
	}{
		{name: "empty", want: 0},
		{name: "plant in range", plant: true, want: policy.FoodBit},
		{name: "weaker creature", others: []neighbour{{420, 300, 1}}, want: policy.FoodBit},
		{name: "stronger creature", others: []neighbour{{420, 300, 9}}, want: policy.PredatorBit},
		{name: "equal attack is neither", others: []neighbour{{420, 300, 5}}, want: 0},
		{name: "out of range", others: []neighbour{{600, 300, 9}}, want: 0},
		{name: "both", plant: true, others: []neighbour{{380, 300, 9}}, want: policy.FoodBit | policy.PredatorBit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			self := f.add(400, 300, soloGenome(), 60)
			for _, o := range tt.others {
				g := soloGenome()
				g.Attack = o.attack
				f.add(o.x, o.y, g, 60)
			}
			if tt.plant {
				f.addPlant(450, 300)
			}
			env := testEnv(f, random.Constant{F: 0.99})
			if got := ObserveState(env, f.agent(self)); got != tt.want {
				t.Errorf("ObserveState = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestObserveStateBoundaryInclusive(t *testing.T) {
	f := newFixture()
	self := f.add(400, 300, soloGenome(), 60)
	f.addPlant(500, 300) // exactly senseRange away
	env := testEnv(f, random.Constant{F: 0.99})
	if got := ObserveState(env, f.agent(self)); got != policy.FoodBit {
		t.Errorf("plant at sense range: state = %d, want food", got)
	}
}

func TestObserveStateIgnoresDead(t *testing.T) {
	f := newFixture()
	self := f.add(400, 300, soloGenome(), 60)
	g := soloGenome()
	g.Attack = 30
	pred := f.add(410, 300, g, 60)
	f.agent(pred).Body.Alive = false

	env := testEnv(f, random.Constant{F: 0.99})
	if got := ObserveState(env, f.agent(self)); got != 0 {
		t.Errorf("dead predator sensed: state = %d", got)
	}
}

func TestObserveStateFallback(t *testing.T) {
	f := newFixture()
	self := f.add(400, 300, soloGenome(), 60)
	env := testEnv(f, nil)
	env.View = nil

	tests := []struct {
		draw float64
		want policy.State
	}{
		{0.01, policy.FoodBit | policy.PredatorBit},
		{0.06, policy.FoodBit},
		{0.5, 0},
	}
	for _, tt := range tests {
		env.Rng = random.Constant{F: tt.draw}
		if got := ObserveState(env, f.agent(self)); got != tt.want {
			t.Errorf("draw %v: state = %d, want %d", tt.draw, got, tt.want)
		}
	}
}

func TestSoloSurvival(t *testing.T) {
	f := newFixture()
	e := f.add(400, 300, soloGenome(), 60)
	a := f.agent(e)
	env := testEnv(f, rand.New(rand.NewSource(1)))

	for i := 0; i < 200; i++ {
		StepCreature(env, a, frame)
		if !a.Alive() {
			t.Fatalf("died at frame %d", i)
		}
	}

	want := 60 - 200*float64(frame)*0.4
	if !near(float64(a.C.Energy), want, 1e-3) {
		t.Errorf("energy = %v, want %v", a.C.Energy, want)
	}
	if !near(float64(a.C.Lifetime), 200*float64(frame), 1e-3) {
		t.Errorf("lifetime = %v", a.C.Lifetime)
	}
}

func TestStarvation(t *testing.T) {
	f := newFixture()
	e := f.add(400, 300, soloGenome(), 0.001)
	a := f.agent(e)
	env := testEnv(f, random.Constant{F: 0.99})

	StepCreature(env, a, frame)
	if a.Alive() {
		t.Fatal("creature with no energy should starve")
	}
	if a.C.Death != components.Starved {
		t.Errorf("death cause = %v, want starved", a.C.Death)
	}
	// Terminal reward -0.002 - 10 + 0.1*lifetime on Q[0][0] with alpha 0.1.
	want := 0.1 * (-0.002 - 10 + 0.1*float64(frame))
	if !near(a.C.Policy.Q[0][0], want, 1e-6) {
		t.Errorf("Q[0][0] = %v, want %v", a.C.Policy.Q[0][0], want)
	}

	before := *a.C
	StepCreature(env, a, frame)
	if a.C.Lifetime != before.Lifetime || a.C.Policy != before.Policy {
		t.Error("dead creature should not step")
	}
}

func TestStepActions(t *testing.T) {
	tests := []struct {
		name    string
		action  policy.Action
		heading float32
		wantX   float32
		wantY   float32
		wantDeg float32
	}{
		{"forward east", policy.Forward, 0, 400 + 50*frame, 300, 0},
		{"forward south", policy.Forward, 90, 400, 300 + 50*frame, 90},
		{"left", policy.TurnLeft, 90, 400, 300, 90 - 90*frame},
		{"right", policy.TurnRight, 90, 400, 300, 90 + 90*frame},
		{"stop", policy.Stop, 45, 400, 300, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			e := f.add(400, 300, soloGenome(), 60)
			a := f.agent(e)
			a.Heading.Deg = tt.heading
			a.C.Policy.Q[0][tt.action] = 1 // greedy choice in the empty state

			env := testEnv(f, random.Constant{F: 0.99})
			StepCreature(env, a, frame)

			if a.C.Policy.LastAction != tt.action {
				t.Fatalf("action = %v, want %v", a.C.Policy.LastAction, tt.action)
			}
			if !near(float64(a.Pos.X), float64(tt.wantX), 1e-3) || !near(float64(a.Pos.Y), float64(tt.wantY), 1e-3) {
				t.Errorf("pos = (%v, %v), want (%v, %v)", a.Pos.X, a.Pos.Y, tt.wantX, tt.wantY)
			}
			if !near(float64(a.Heading.Deg), float64(tt.wantDeg), 1e-3) {
				t.Errorf("heading = %v, want %v", a.Heading.Deg, tt.wantDeg)
			}
		})
	}
}

func TestWallReflection(t *testing.T) {
	f := newFixture()
	g := soloGenome()
	g.Speed = 200
	e := f.add(799, 300, g, 60)
	a := f.agent(e)
	a.C.Policy.Q[0][policy.Forward] = 1

	env := testEnv(f, random.Constant{F: 0.99})
	StepCreature(env, a, frame)

	if a.Pos.X != 800 {
		t.Errorf("x = %v, want clamped to 800", a.Pos.X)
	}
	if !near(float64(a.Heading.Deg), 180, 1e-4) {
		t.Errorf("heading = %v, want 180", a.Heading.Deg)
	}
}

func TestContainment(t *testing.T) {
	f := newFixture()
	rng := rand.New(rand.NewSource(5))
	var es []ecs.Entity
	for i := 0; i < 10; i++ {
		g := soloGenome()
		g.Speed = 200
		es = append(es, f.add(rng.Float32()*800, rng.Float32()*600, g, 1000))
	}
	env := testEnv(f, rng)
	env.Cfg.Learning.Epsilon = 1 // random walk

	for step := 0; step < 2000; step++ {
		for _, e := range es {
			a := f.agent(e)
			StepCreature(env, a, frame)
			if a.Pos.X < 0 || a.Pos.X > 800 || a.Pos.Y < 0 || a.Pos.Y > 600 {
				t.Fatalf("creature escaped to (%v, %v)", a.Pos.X, a.Pos.Y)
			}
		}
	}
}

func TestCooldownDecrements(t *testing.T) {
	f := newFixture()
	e := f.add(400, 300, soloGenome(), 60)
	a := f.agent(e)
	a.C.ReproCooldown = 1
	env := testEnv(f, random.Constant{F: 0.99})

	StepCreature(env, a, 0.25)
	if !near(float64(a.C.ReproCooldown), 0.75, 1e-6) {
		t.Errorf("cooldown = %v, want 0.75", a.C.ReproCooldown)
	}
}

func TestGraze(t *testing.T) {
	f := newFixture()
	e := f.add(400, 300, soloGenome(), 60)
	plant := f.addPlant(400, 300)
	a := f.agent(e)
	env := testEnv(f, random.Constant{F: 0.99})

	StepCreature(env, a, frame)
	before := a.C.Energy
	Graze(env, a, &plant.body)

	if plant.body.Alive {
		t.Error("plant should be eaten")
	}
	if !near(float64(a.C.Energy), float64(before)+15, 1e-4) {
		t.Errorf("energy = %v, want %v", a.C.Energy, before+15)
	}
	want := 60 - float64(frame)*0.4 + 15
	if !near(float64(a.C.Energy), want, 1e-3) {
		t.Errorf("energy = %v, want %v", a.C.Energy, want)
	}
	if a.C.Policy.Q[a.C.Policy.LastState][a.C.Policy.LastAction] <= 0 {
		t.Error("feeding should reinforce the last action")
	}

	// A dead plant cannot be eaten twice.
	Graze(env, a, &plant.body)
	if !near(float64(a.C.Energy), want, 1e-3) {
		t.Errorf("second graze changed energy to %v", a.C.Energy)
	}
}

func TestPredationWithPoison(t *testing.T) {
	f := newFixture()
	ag := soloGenome()
	ag.Attack = 20
	ag.PoisonResistance = 0.25
	pg := soloGenome()
	pg.Attack = 10
	pg.Poison = true

	attackerE := f.add(400, 300, ag, 60)
	preyE := f.add(410, 300, pg, 60)
	attacker, prey := f.agent(attackerE), f.agent(preyE)
	prey.C.Lifetime = 2
	prey.C.Offspring = 1

	env := testEnv(f, random.Constant{F: 0.99})
	winner, out := Resolve(env, prey, attacker)

	if winner != attacker {
		t.Fatal("stronger creature should win regardless of argument order")
	}
	if out != Poisoned {
		t.Errorf("outcome = %v, want Poisoned", out)
	}
	if prey.Alive() || prey.C.Death != components.Eaten {
		t.Error("prey should be eaten")
	}
	if !near(float64(attacker.C.Energy), 76, 1e-4) {
		t.Errorf("attacker energy = %v, want 76", attacker.C.Energy)
	}
	if !near(attacker.C.Policy.Q[0][0], 1.0, 1e-9) {
		t.Errorf("attacker Q = %v, want 0.1*10", attacker.C.Policy.Q[0][0])
	}
	wantPrey := 0.1 * (-40 + 5*1 + 0.1*2)
	if !near(prey.C.Policy.Q[0][0], wantPrey, 1e-6) {
		t.Errorf("prey Q = %v, want %v", prey.C.Policy.Q[0][0], wantPrey)
	}

	// Already resolved: no double consumption.
	if _, out := Resolve(env, attacker, prey); out != NoContest {
		t.Errorf("second resolve = %v, want NoContest", out)
	}
}

func TestPredationEqualAttack(t *testing.T) {
	f := newFixture()
	a := f.add(400, 300, soloGenome(), 60)
	b := f.add(405, 300, soloGenome(), 60)
	env := testEnv(f, random.Constant{F: 0.99})

	if w, out := Resolve(env, f.agent(a), f.agent(b)); w != nil || out != NoContest {
		t.Errorf("equal attack resolved to %v", out)
	}
}

func TestPoisonCanKillWinner(t *testing.T) {
	f := newFixture()
	ag := soloGenome()
	ag.Attack = 20
	pg := soloGenome()
	pg.Poison = true
	w := f.add(400, 300, ag, 1)
	l := f.add(400, 300, pg, 60)
	env := testEnv(f, random.Constant{F: 0.99})
	env.Cfg.Energy.PoisonDamage = 100

	winner, loser := f.agent(w), f.agent(l)
	if out := Prey(env, winner, loser); out != Fatal {
		t.Fatalf("outcome = %v, want Fatal", out)
	}
	if winner.Alive() || winner.C.Death != components.Starved {
		t.Error("poisoned winner with no energy should starve")
	}
}

func TestCanReproduce(t *testing.T) {
	cfg := config.Defaults()
	tests := []struct {
		energy, cooldown float32
		want             bool
	}{
		{60, 0, true},
		{50, 0, false},
		{50.1, -0.1, true},
		{60, 0.5, false},
	}
	for _, tt := range tests {
		c := components.Creature{Energy: tt.energy, ReproCooldown: tt.cooldown}
		if got := CanReproduce(cfg, &c); got != tt.want {
			t.Errorf("CanReproduce(energy=%v, cooldown=%v) = %v, want %v", tt.energy, tt.cooldown, got, tt.want)
		}
	}
}

func TestReproduceWithSelf(t *testing.T) {
	f := newFixture()
	e := f.add(123, 456, soloGenome(), 60)
	a := f.agent(e)
	a.Body.Color = components.Color{R: 250, G: 2, B: 100, A: 180}
	a.C.Generation = 3

	env := testEnv(f, rand.New(rand.NewSource(8)))
	before := a.C.Energy
	birth := Reproduce(env, a, a)

	if !near(float64(before), float64(a.C.Energy+birth.Creature.Energy), 1e-4) {
		t.Errorf("energy not conserved: %v != %v + %v", before, a.C.Energy, birth.Creature.Energy)
	}
	if !near(float64(birth.Creature.Energy), 36, 1e-4) || !near(float64(a.C.Energy), 24, 1e-4) {
		t.Errorf("split = parent %v child %v, want 24/36", a.C.Energy, birth.Creature.Energy)
	}
	if a.C.Offspring != 1 {
		t.Errorf("offspring = %d, want 1", a.C.Offspring)
	}
	if birth.Creature.Generation != 4 {
		t.Errorf("generation = %d, want 4", birth.Creature.Generation)
	}
	if birth.Pos != *a.Pos {
		t.Errorf("child at %+v, want parent position %+v", birth.Pos, *a.Pos)
	}
	if birth.Color.A != 180 {
		t.Errorf("alpha = %d, want 180", birth.Color.A)
	}
	if d := int(birth.Color.R) - 250; d < -5 || d > 5 {
		t.Errorf("red channel %d outside jitter", birth.Color.R)
	}
	if birth.Color.G > 7 {
		t.Errorf("green channel %d outside jitter", birth.Color.G)
	}
	if birth.Creature.Offspring != 0 || birth.Creature.Lifetime != 0 || birth.Creature.ReproCooldown != 0 {
		t.Errorf("child counters not reset: %+v", birth.Creature)
	}
	if !birth.Creature.Genome.InBounds() {
		t.Errorf("child genome out of bounds: %+v", birth.Creature.Genome)
	}
}

func TestReproduceWithPartner(t *testing.T) {
	f := newFixture()
	ae := f.add(100, 100, soloGenome(), 60)
	be := f.add(110, 100, soloGenome(), 80)
	a, b := f.agent(ae), f.agent(be)
	a.C.Generation = 2
	b.C.Generation = 7
	a.Body.Color = components.Color{R: 255, G: 255, B: 255}
	b.Body.Color = components.Color{R: 255, G: 255, B: 255}

	env := testEnv(f, random.Constant{F: 0.5, I: 10})
	birth := Reproduce(env, a, b)

	if birth.Creature.Generation != 8 {
		t.Errorf("generation = %d, want 8", birth.Creature.Generation)
	}
	if !near(float64(birth.Creature.Energy), 36, 1e-4) || !near(float64(a.C.Energy), 24, 1e-4) {
		t.Errorf("split = parent %v child %v, want 24/36", a.C.Energy, birth.Creature.Energy)
	}
	if b.C.Energy != 80 {
		t.Errorf("partner energy changed to %v", b.C.Energy)
	}
	if a.C.Offspring != 1 || b.C.Offspring != 1 {
		t.Errorf("offspring = %d/%d, want 1/1", a.C.Offspring, b.C.Offspring)
	}
	// I=10 draws +5 jitter on every channel; the clamp keeps it at 255.
	if birth.Color.R != 255 || birth.Color.G != 255 || birth.Color.B != 255 {
		t.Errorf("colour = %+v, want clamped to 255", birth.Color)
	}
}

func TestFounder(t *testing.T) {
	cfg := config.Defaults()
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		b := Founder(cfg, rng)
		if b.Pos.X < 100 || b.Pos.X > 700 || b.Pos.Y < 100 || b.Pos.Y > 500 {
			t.Fatalf("founder at %+v outside spawn area", b.Pos)
		}
		for _, ch := range []uint8{b.Color.R, b.Color.G, b.Color.B} {
			if ch < 100 {
				t.Fatalf("founder channel %d below base", ch)
			}
		}
		if b.Color.A != 180 || b.Creature.Energy != 60 || b.Creature.Generation != 0 {
			t.Fatalf("founder = %+v", b)
		}
	}
}

func TestPlacePlant(t *testing.T) {
	cfg := config.Defaults()
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 500; i++ {
		p := PlacePlant(cfg, rng)
		if p.X < 50 || p.X > 750 || p.Y < 50 || p.Y > 550 {
			t.Fatalf("plant at %+v outside interior", p)
		}
	}
}

func TestRefillCount(t *testing.T) {
	cfg := config.Defaults()
	tests := []struct{ live, want int }{
		{0, 5}, {10, 5}, {14, 5}, {15, 0}, {40, 0},
	}
	for _, tt := range tests {
		if got := RefillCount(cfg, tt.live); got != tt.want {
			t.Errorf("RefillCount(%d) = %d, want %d", tt.live, got, tt.want)
		}
	}
}
