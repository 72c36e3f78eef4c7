// Package dodger simulates the obstacle dodger arcade game. The player slides
// along the bottom of the field, steered by arrow keys or by a distance
// sensor, while falling obstacles speed up over time.
//
// The simulation is frame based: Step advances one frame. Motion is in
// pixels per frame, the spawn timer counts frames, and elapsed time drives
// the speed ramp and the spawn grace period.
package dodger

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/fwojciec/mindlab"
)

// Field and player geometry in pixels.
const (
	Width        = 400.0
	Height       = 600.0
	PlayerWidth  = 40.0
	PlayerHeight = 16.0
	PlayerSpeed  = 4.0
)

// Tuning.
const (
	spawnIntervalStart = 80 // frames between spawns at score 0
	spawnIntervalMin   = 20
	baseSpeed          = 1.0  // pixels per frame
	speedPerSecond     = 0.03 // added to baseSpeed per elapsed second
	minDistance        = 5.0  // cm, far right
	maxDistance        = 30.0 // cm, far left; further readings are ignored
	smoothBase         = 0.25
)

// Mode selects how the player is steered.
type Mode int

const (
	ModeKeyboard Mode = iota
	ModeDistance
)

// String returns the display name of the mode.
func (m Mode) String() string {
	if m == ModeDistance {
		return "Distance sensor"
	}
	return "Keyboard"
}

// Config controls the game.
type Config struct {
	Mode            Mode
	Sensitivity     int           // 1..5
	Grace           time.Duration // no obstacles before this much play
	DistanceTimeout time.Duration // fall back to keyboard without readings
}

// DefaultConfig returns keyboard mode at sensitivity 2.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeKeyboard,
		Sensitivity:     2,
		Grace:           5 * time.Second,
		DistanceTimeout: 3 * time.Second,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Sensitivity < 1 || c.Sensitivity > 5 {
		return fmt.Errorf("dodger: sensitivity must be between 1 and 5, got %d: %w", c.Sensitivity, mindlab.ErrValidation)
	}
	if c.Grace < 0 || c.DistanceTimeout <= 0 {
		return fmt.Errorf("dodger: invalid timing: %w", mindlab.ErrValidation)
	}
	return nil
}

// Rect is an axis-aligned box; Y grows downward.
type Rect struct {
	X, Y, W, H float64
}

// Overlaps reports whether r and o touch or intersect.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.X+r.W < o.X || r.X > o.X+o.W || r.Y+r.H < o.Y || r.Y > o.Y+o.H)
}

// Obstacle falls at the speed it was spawned with.
type Obstacle struct {
	Rect
	Speed float64
}

// Game is one play session. It is not safe for concurrent use.
type Game struct {
	cfg Config
	rng *rand.Rand

	Player    Rect
	Obstacles []Obstacle
	Score     int
	Elapsed   time.Duration
	Over      bool
	Mode      Mode
	Status    string // last mode change notice

	spawnTimer int
	distance   float64
	hasReading bool
	lastRead   time.Duration
}

// New creates a game ready to play. A nil rng uses a randomly seeded source.
func New(cfg Config, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g := &Game{cfg: cfg, rng: rng, Mode: cfg.Mode}
	g.Reset()
	return g
}

// Reset restarts play without changing the steering mode.
func (g *Game) Reset() {
	g.Player = Rect{X: Width/2 - PlayerWidth/2, Y: Height - 36, W: PlayerWidth, H: PlayerHeight}
	g.Obstacles = nil
	g.Score = 0
	g.Elapsed = 0
	g.Over = false
	g.Status = ""
	g.spawnTimer = 0
	g.lastRead = 0
}

// SetMode switches steering.
func (g *Game) SetMode(m Mode) {
	g.Mode = m
	g.lastRead = g.Elapsed
	g.Status = ""
}

// Sensitivity returns the configured sensitivity.
func (g *Game) Sensitivity() int { return g.cfg.Sensitivity }

// SetSensitivity changes sensitivity, clamped to 1..5.
func (g *Game) SetSensitivity(s int) {
	g.cfg.Sensitivity = min(5, max(1, s))
}

// ObstacleSpeed is the fall speed new obstacles get now.
func (g *Game) ObstacleSpeed() float64 {
	return baseSpeed + g.Elapsed.Seconds()*speedPerSecond
}

// SpawnInterval is the number of frames between spawns at the current score.
func (g *Game) SpawnInterval() int {
	return max(spawnIntervalMin, spawnIntervalStart-g.Score/3)
}

// Move nudges the player one key press left (dir < 0) or right (dir > 0).
// It has no effect outside keyboard mode or after game over.
func (g *Game) Move(dir int) {
	if g.Over || g.Mode != ModeKeyboard || dir == 0 {
		return
	}
	delta := PlayerSpeed * 1.5 * float64(g.cfg.Sensitivity) / 2
	if dir < 0 {
		delta = -delta
	}
	g.Player.X = clamp(g.Player.X+delta, 0, Width-PlayerWidth)
}

// Distance records a sensor reading in centimeters.
func (g *Game) Distance(cm float64) {
	g.distance = cm
	g.hasReading = true
	g.lastRead = g.Elapsed
}

// Step advances the game by one frame that took dt of wall time. It reports
// whether the game is over.
func (g *Game) Step(dt time.Duration) bool {
	if g.Over {
		return true
	}
	g.Elapsed += dt

	if g.Mode == ModeDistance && g.Elapsed-g.lastRead > g.cfg.DistanceTimeout {
		g.Mode = ModeKeyboard
		g.Status = "No distance data, switched to keyboard"
	}

	g.spawnTimer++
	if g.Elapsed >= g.cfg.Grace && g.spawnTimer > g.SpawnInterval() {
		g.spawnTimer = 0
		g.spawn()
	}

	kept := g.Obstacles[:0]
	for _, o := range g.Obstacles {
		o.Y += o.Speed
		if o.Y > Height+o.H {
			g.Score++
			continue
		}
		kept = append(kept, o)
	}
	g.Obstacles = kept

	if g.Mode == ModeDistance && g.hasReading && g.distance <= maxDistance {
		t := clamp((g.distance-minDistance)/(maxDistance-minDistance), 0, 1)
		target := (1 - t) * (Width - PlayerWidth)
		smooth := math.Min(0.9, smoothBase*float64(g.cfg.Sensitivity)/2)
		g.Player.X += (target - g.Player.X) * smooth
	}

	for _, o := range g.Obstacles {
		if g.Player.Overlaps(o.Rect) {
			g.Over = true
			return true
		}
	}
	return false
}

func (g *Game) spawn() {
	w := 20 + g.rng.Float64()*40
	g.Obstacles = append(g.Obstacles, Obstacle{
		Rect:  Rect{X: g.rng.Float64() * (Width - w), Y: -20, W: w, H: 12 + g.rng.Float64()*18},
		Speed: g.ObstacleSpeed(),
	})
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
