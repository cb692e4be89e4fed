// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/qsoup/policy"
	"github.com/pthm-cable/qsoup/traits"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	World        WorldConfig        `yaml:"world"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Population   PopulationConfig   `yaml:"population"`
	Plants       PlantsConfig       `yaml:"plants"`
	Creature     CreatureConfig     `yaml:"creature"`
	Energy       EnergyConfig       `yaml:"energy"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Learning     LearningConfig     `yaml:"learning"`
	Mutation     traits.Mutation    `yaml:"mutation"`
	Founders     FoundersConfig     `yaml:"founders"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Bookmarks    BookmarksConfig    `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation world dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int `yaml:"height"` // World height in world units (0 = use screen height)
}

// PhysicsConfig holds frame timing parameters.
type PhysicsConfig struct {
	DT    float64 `yaml:"dt"`     // Fixed step used by headless runs
	MaxDT float64 `yaml:"max_dt"` // Upper bound on a rendered frame's dt
}

// PopulationConfig holds the initial population sizes.
type PopulationConfig struct {
	InitialCreatures int `yaml:"initial_creatures"`
	InitialPlants    int `yaml:"initial_plants"`
}

// PlantsConfig holds plant parameters.
type PlantsConfig struct {
	Radius          float64 `yaml:"radius"`
	RefillThreshold int     `yaml:"refill_threshold"` // Refill when live plants drop below this
	RefillBatch     int     `yaml:"refill_batch"`
	Margin          float64 `yaml:"margin"` // Plants spawn in [margin, W-margin] x [margin, H-margin]
	Color           RGBA    `yaml:"color"`
}

// RGBA is an 8-bit colour.
type RGBA struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// CreatureConfig holds per-creature physical parameters.
type CreatureConfig struct {
	Radius        float64 `yaml:"radius"`
	InitialEnergy float64 `yaml:"initial_energy"`
	EnergyDrain   float64 `yaml:"energy_drain"` // Energy lost per second
	TurnRate      float64 `yaml:"turn_rate"`    // Degrees per second
	Alpha         uint8   `yaml:"alpha"`
}

// EnergyConfig holds feeding and combat economics.
type EnergyConfig struct {
	PlantGain    float64 `yaml:"plant_gain"`
	PreyGain     float64 `yaml:"prey_gain"`     // Winner's gain, same for attacker and defender
	PoisonDamage float64 `yaml:"poison_damage"` // Scaled by (1 - resistance)
}

// ReproductionConfig holds reproduction parameters.
type ReproductionConfig struct {
	Threshold     float64 `yaml:"threshold"` // Energy must exceed this
	Cooldown      float64 `yaml:"cooldown"`  // Seconds
	ChildShare    float64 `yaml:"child_share"`
	PartnerChance float64 `yaml:"partner_chance"` // Acceptance probability per eligible peer
	ColorJitter   int     `yaml:"color_jitter"`
}

// LearningConfig holds the Q-learning scalars and reward shape.
type LearningConfig struct {
	policy.Params `yaml:",inline"`

	StepReward     float64 `yaml:"step_reward"`
	StarveReward   float64 `yaml:"starve_reward"`
	EatenReward    float64 `yaml:"eaten_reward"`
	OffspringBonus float64 `yaml:"offspring_bonus"` // Per offspring, added to terminal rewards
	LifetimeBonus  float64 `yaml:"lifetime_bonus"`  // Per second lived, added to terminal rewards
	PlantReward    float64 `yaml:"plant_reward"`
	PreyReward     float64 `yaml:"prey_reward"`

	// Perception fallback when no entity view is available
	FallbackFood     float64 `yaml:"fallback_food"`
	FallbackPredator float64 `yaml:"fallback_predator"`
}

// FoundersConfig describes the initial population.
type FoundersConfig struct {
	traits.FounderRanges `yaml:",inline"`

	SpawnMargin float64 `yaml:"spawn_margin"`
	ColorBase   int     `yaml:"color_base"`
	ColorSpan   int     `yaml:"color_span"` // Channel = base + U{0..span-1}
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of simulated time per window
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PopulationBoom      PopulationBoomConfig      `yaml:"population_boom"`
	GenerationMilestone GenerationMilestoneConfig `yaml:"generation_milestone"`
	StablePopulation    StablePopulationConfig    `yaml:"stable_population"`
}

// PopulationBoomConfig holds population boom detection parameters.
type PopulationBoomConfig struct {
	Multiplier    float64 `yaml:"multiplier"`
	MinPopulation int     `yaml:"min_population"`
}

// GenerationMilestoneConfig holds generation milestone parameters.
type GenerationMilestoneConfig struct {
	Every int `yaml:"every"`
}

// StablePopulationConfig holds stable population detection parameters.
type StablePopulationConfig struct {
	MinPopulation int     `yaml:"min_population"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	WorldW32  float32 // Effective world width as float32
	WorldH32  float32 // Effective world height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)
}

// PlantCapacity is how many plants fit in the spawn interior without overlap.
func (c *Config) PlantCapacity() int {
	w := float64(c.Derived.WorldW32) - 2*c.Plants.Margin
	h := float64(c.Derived.WorldH32) - 2*c.Plants.Margin
	d := 2 * c.Plants.Radius
	if w <= 0 || h <= 0 || d <= 0 {
		return 0
	}
	return int(w/d) * int(h/d)
}

// Validate rejects out-of-range tunables. computeDerived must have run.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	prob := func(name string, p float64) {
		check(p >= 0 && p <= 1, "%s must be in [0,1], got %v", name, p)
	}

	check(c.Derived.WorldW32 > 0 && c.Derived.WorldH32 > 0,
		"world must be positive, got %vx%v", c.Derived.WorldW32, c.Derived.WorldH32)
	check(c.Physics.DT > 0, "physics.dt must be positive, got %v", c.Physics.DT)
	check(c.Physics.MaxDT >= c.Physics.DT, "physics.max_dt must be >= dt")

	check(c.Population.InitialCreatures >= 0, "population.initial_creatures must be >= 0")
	check(c.Population.InitialPlants >= 0, "population.initial_plants must be >= 0")

	check(c.Plants.Radius > 0, "plants.radius must be positive")
	check(c.Plants.RefillBatch >= 0, "plants.refill_batch must be >= 0")
	check(2*c.Plants.Margin < float64(c.Derived.WorldW32) && 2*c.Plants.Margin < float64(c.Derived.WorldH32),
		"plants.margin %v leaves no interior", c.Plants.Margin)
	check(c.Plants.RefillThreshold < c.PlantCapacity(),
		"plants.refill_threshold %d must be below world capacity %d", c.Plants.RefillThreshold, c.PlantCapacity())

	check(c.Creature.Radius > 0, "creature.radius must be positive")
	check(c.Creature.InitialEnergy > 0, "creature.initial_energy must be positive")
	check(c.Creature.EnergyDrain >= 0, "creature.energy_drain must be >= 0")

	check(c.Reproduction.ChildShare > 0 && c.Reproduction.ChildShare < 1,
		"reproduction.child_share must be in (0,1), got %v", c.Reproduction.ChildShare)
	check(c.Reproduction.Cooldown >= 0, "reproduction.cooldown must be >= 0")
	check(c.Reproduction.ColorJitter >= 0, "reproduction.color_jitter must be >= 0")
	prob("reproduction.partner_chance", c.Reproduction.PartnerChance)

	prob("learning.epsilon", c.Learning.Epsilon)
	prob("learning.alpha", c.Learning.Alpha)
	check(c.Learning.Gamma >= 0 && c.Learning.Gamma < 1, "learning.gamma must be in [0,1), got %v", c.Learning.Gamma)
	prob("learning.fallback_food", c.Learning.FallbackFood)
	prob("learning.fallback_predator", c.Learning.FallbackPredator)

	m := c.Mutation
	prob("mutation.speed_rate", m.SpeedRate)
	prob("mutation.attack_rate", m.AttackRate)
	prob("mutation.sense_rate", m.SenseRate)
	prob("mutation.legs_rate", m.LegsRate)
	prob("mutation.poison_flip_rate", m.PoisonFlipRate)
	prob("mutation.resistance_rate", m.ResistanceRate)

	f := c.Founders
	prob("founders.poison_chance", f.PoisonChance)
	check(f.SpeedMin <= f.SpeedMax, "founders speed range is inverted")
	check(f.AttackMin <= f.AttackMax, "founders attack range is inverted")
	check(f.LegsMin >= 1 && f.LegsMin <= f.LegsMax, "founders legs range must be >= 1 and ordered")
	check(f.SenseMin <= f.SenseMax, "founders sense range is inverted")
	check(f.ResistanceMin <= f.ResistanceMax, "founders resistance range is inverted")
	check(f.ColorBase >= 0 && f.ColorSpan > 0 && f.ColorBase+f.ColorSpan <= 256,
		"founders colour range must lie in [0,255]")

	check(c.Telemetry.StatsWindow > 0, "telemetry.stats_window must be positive")

	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
