// Package engine ties the world, the player and the command interpreters
// into a playable game.
//
// Interaction is modal: the Game keeps a stack of modes and routes each
// input line to the interpreter of the mode on top. Puzzle mode is pushed
// when a puzzle is used or blocks a door, and popped when it is solved,
// ignored or exhausted.
package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tworld/internal/game/character"
	"github.com/cory-johannsen/tworld/internal/game/command"
	"github.com/cory-johannsen/tworld/internal/game/content"
	"github.com/cory-johannsen/tworld/internal/game/dice"
	"github.com/cory-johannsen/tworld/internal/game/entity"
	"github.com/cory-johannsen/tworld/internal/game/factory"
	"github.com/cory-johannsen/tworld/internal/game/item"
	"github.com/cory-johannsen/tworld/internal/game/world"
)

// Mode is an interaction mode.
type Mode int

// Mode values.
const (
	ModeWorld Mode = iota
	ModePuzzle
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModePuzzle {
		return "puzzle"
	}
	return "world"
}

// Store persists games. It is implemented outside this package.
type Store interface {
	Save(g *Game, name string) error
	Load(g *Game, name string) error
}

// Options configures a Game.
type Options struct {
	PlayerName       string
	PlayerHealth     int
	MaxHealth        int
	PlayerAttack     int
	PlayerResistance int
	// AdminName is the player name that unlocks admin commands.
	AdminName string
	// Source supplies randomness; nil uses a cryptographic source.
	Source dice.Source
	// Store backs the save and load commands; nil disables them.
	Store Store
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		PlayerName:   "Player",
		PlayerHealth: 100,
		PlayerAttack: 10,
		AdminName:    "admin",
	}
}

// frame is one entry of the mode stack.
type frame struct {
	mode   Mode
	puzzle *item.Item
	// door is the traversal resumed once puzzle is solved.
	door *world.Door
}

// Game owns the player, the map and the entity factory.
//
// Game is not safe for concurrent use.
type Game struct {
	world   *content.World
	opts    Options
	logger  *zap.Logger
	roller  *dice.Roller
	factory *factory.Factory

	player  *character.Player
	gameMap *world.Map
	running bool
	modes   []frame

	worldCmds  *command.Interpreter
	puzzleCmds *command.Interpreter
}

// New builds a Game from w and starts it.
//
// Precondition: w must be a validated World.
// Postcondition: Returns a running Game positioned in the start room, or an error.
func New(w *content.World, opts Options, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	src := opts.Source
	if src == nil {
		src = dice.NewCryptoSource()
	}
	g := &Game{
		world:   w,
		opts:    opts,
		logger:  logger,
		roller:  dice.NewLoggedRoller(src, logger),
		factory: factory.New(w, logger),
	}
	g.worldCmds = command.NewInterpreter("world", command.MustRegistry(g.worldCommands()), g.IsAdmin, logger)
	g.puzzleCmds = command.NewInterpreter("puzzle", command.MustRegistry(g.puzzleCommands()), g.IsAdmin, logger)
	if err := g.Restart(); err != nil {
		return nil, err
	}
	return g, nil
}

// Restart rebuilds the world from its definitions with a fresh player.
func (g *Game) Restart() error {
	m, err := g.factory.BuildMap()
	if err != nil {
		return fmt.Errorf("building map: %w", err)
	}
	if _, err := m.Start(g.world.Meta.Start, g.roller); err != nil {
		return fmt.Errorf("starting map: %w", err)
	}
	p := character.NewPlayer(entity.NewBase("player", g.opts.PlayerName, ""),
		g.opts.PlayerHealth, g.opts.PlayerAttack, g.opts.PlayerResistance)
	p.MaxHealth = g.opts.MaxHealth
	p.SetHealth(g.opts.PlayerHealth)

	g.Replace(p, m)
	g.running = true
	g.logger.Info("game started",
		zap.String("world", g.world.Meta.Name),
		zap.String("room", m.Current().EID()),
	)
	return nil
}

// Replace swaps in a player and map, resetting the mode stack to world mode.
// Loading a saved game uses it.
func (g *Game) Replace(p *character.Player, m *world.Map) {
	g.player = p
	g.gameMap = m
	g.modes = []frame{{mode: ModeWorld}}
}

// ExecuteLine runs one line in the current mode and returns its output.
// The only error returned wraps command.ErrPlayerDied.
func (g *Game) ExecuteLine(line string) (string, error) {
	out, err := g.interpreter().ExecuteLine(line)
	if err != nil {
		g.logger.Info("player died",
			zap.String("player", g.player.Name()),
			zap.String("room", g.gameMap.Current().EID()),
		)
	}
	return out, err
}

func (g *Game) interpreter() *command.Interpreter {
	if g.Mode() == ModePuzzle {
		return g.puzzleCmds
	}
	return g.worldCmds
}

// Interrupt handles end of input: it leaves puzzle mode, or stops the game
// in world mode.
func (g *Game) Interrupt() {
	if g.Mode() == ModePuzzle {
		g.popMode()
		return
	}
	g.Quit()
}

// Quit stops the game.
func (g *Game) Quit() { g.running = false }

// IsRunning reports whether the game accepts input.
func (g *Game) IsRunning() bool { return g.running }

// PlayerAlive reports whether the player has health left.
func (g *Game) PlayerAlive() bool { return g.player.IsAlive() }

// IsAdmin reports whether the player's name is the admin sentinel.
func (g *Game) IsAdmin() bool {
	return g.opts.AdminName != "" && g.player != nil && g.player.Name() == g.opts.AdminName
}

// Mode returns the active interaction mode.
func (g *Game) Mode() Mode {
	if len(g.modes) == 0 {
		return ModeWorld
	}
	return g.modes[len(g.modes)-1].mode
}

// Prompt returns the input prompt for the active mode.
func (g *Game) Prompt() string {
	if g.Mode() == ModePuzzle {
		return "puzzle> "
	}
	return ": "
}

// Welcome returns the banner shown when a game starts.
func (g *Game) Welcome() string {
	var sb strings.Builder
	sb.WriteString(g.world.Meta.Name)
	if v := g.world.Meta.Version; v != "" {
		sb.WriteString(" v" + v)
	}
	if w := strings.TrimSpace(g.world.Meta.Welcome); w != "" {
		sb.WriteString("\n\n" + w)
	}
	sb.WriteString("\n\n" + g.gameMap.Current().Inspect())
	return sb.String()
}

// Player returns the player.
func (g *Game) Player() *character.Player { return g.player }

// Map returns the room graph.
func (g *Game) Map() *world.Map { return g.gameMap }

// Factory returns the entity factory.
func (g *Game) Factory() *factory.Factory { return g.factory }

// Roller returns the game's dice roller.
func (g *Game) Roller() *dice.Roller { return g.roller }

func (g *Game) pushPuzzle(p *item.Item, door *world.Door) {
	g.modes = append(g.modes, frame{mode: ModePuzzle, puzzle: p, door: door})
}

func (g *Game) popMode() frame {
	if len(g.modes) <= 1 {
		return frame{mode: ModeWorld}
	}
	top := g.modes[len(g.modes)-1]
	g.modes = g.modes[:len(g.modes)-1]
	return top
}

func (g *Game) activePuzzle() *item.Item {
	if len(g.modes) == 0 {
		return nil
	}
	return g.modes[len(g.modes)-1].puzzle
}
