package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/tworld/internal/game/content"
	"github.com/cory-johannsen/tworld/internal/game/dice"
	"github.com/cory-johannsen/tworld/internal/game/engine"
	"github.com/cory-johannsen/tworld/internal/game/entity"
	"github.com/cory-johannsen/tworld/internal/storage/snapshot"
)

const testWorld = `
meta:
  name: Snapshot Keep
  start: rom-a
map: [rom-a, rom-b, rom-c]
definitions:
  rom-a:
    name: Hall
    doors: [dor-ab, dor-ac]
    items: [fod-apple, wpn-sword, cst-box]
  rom-b:
    name: Den
    doors: [dor-ab]
    monsters: [mon-rat]
  rom-c:
    name: Shrine
    doors: [dor-ac]
  dor-ab:
    name: Wooden Door
  dor-ac:
    name: Sealed Door
    puzzle: pzl-riddle
  pzl-riddle:
    name: Riddle
    solutions: [egg]
    attempts: 2
  key-brass:
    name: Brass Key
  cst-box:
    name: Box
    key: key-brass
    items: [fod-apple]
  fod-apple:
    name: Apple
    health: 20
  wpn-sword:
    name: Sword
    damage: 5
  itm-tail:
    name: Rat Tail
    drop_chance: 0.5
  mon-rat:
    name: Rat
    health: 10
    attack: 4
    items: [itm-tail]
`

func newGame(t *testing.T, store engine.Store) *engine.Game {
	t.Helper()
	w, err := content.LoadYAML([]byte(testWorld))
	require.NoError(t, err)
	opts := engine.DefaultOptions()
	opts.PlayerName = "admin"
	opts.PlayerAttack = 15
	opts.Source = &dice.Fixed{Ints: []int{0}, Floats: []float64{0.4}}
	opts.Store = store
	g, err := engine.New(w, opts, nil)
	require.NoError(t, err)
	return g
}

func run(t *testing.T, g *engine.Game, line string) string {
	t.Helper()
	out, err := g.ExecuteLine(line)
	require.NoError(t, err, "line %q", line)
	return out
}

// play drives g through a kill, a pickup, an equip, an opened chest and a
// failed puzzle attempt, ending back in the hall.
func play(t *testing.T, g *engine.Game) {
	t.Helper()
	run(t, g, "take sword")
	run(t, g, "equip sword")
	run(t, g, "take apple")
	run(t, g, "give key-brass")
	run(t, g, "open box")
	run(t, g, "go wooden door")
	require.Contains(t, run(t, g, "attack rat"), "The Rat dies.")
	run(t, g, "take rat tail")
	run(t, g, "go wooden door")
	run(t, g, "go sealed door")
	run(t, g, "solve chicken")
	run(t, g, "ignore")
	require.Equal(t, "rom-a", g.Map().Current().EID())
}

func TestCaptureRestore_RoundTrip(t *testing.T) {
	g := newGame(t, nil)
	play(t, g)
	before := snapshot.Capture(g)

	data, err := snapshot.Marshal(before)
	require.NoError(t, err)
	decoded, err := snapshot.Unmarshal(data)
	require.NoError(t, err)

	fresh := newGame(t, nil)
	require.NoError(t, snapshot.Restore(fresh, decoded))
	after := snapshot.Capture(fresh)
	after.SavedAt = before.SavedAt
	assert.Equal(t, before, after)

	assert.Equal(t, g.Player().UID(), fresh.Player().UID())
	assert.Equal(t, g.Player().Inventory.Names(), fresh.Player().Inventory.Names())
	require.NotNil(t, fresh.Player().Weapon())
	assert.Equal(t, g.Player().Weapon().UID(), fresh.Player().Weapon().UID())
	assert.Equal(t, 20, fresh.Player().AttackValue())
}

func TestRestore_PreservesRoomAndPuzzleState(t *testing.T) {
	g := newGame(t, nil)
	play(t, g)
	snap := snapshot.Capture(g)

	fresh := newGame(t, nil)
	require.NoError(t, snapshot.Restore(fresh, snap))

	var history []string
	for _, r := range fresh.Map().History() {
		history = append(history, r.EID())
	}
	assert.Equal(t, []string{"rom-a", "rom-b", "rom-a"}, history)

	den, _ := fresh.Map().Room("rom-b")
	assert.True(t, den.Visited)
	assert.Empty(t, den.Pool)
	assert.Nil(t, den.Monster)

	hall, _ := fresh.Map().Room("rom-a")
	box, ok := hall.Floor.Get(entity.ByEID("cst-box")).(interface{ Locked() bool })
	require.True(t, ok)
	assert.False(t, box.Locked())
	assert.True(t, hall.Floor.Contains(entity.ByEID("fod-apple")))

	// One attempt was spent before saving.
	run(t, fresh, "go sealed door")
	assert.Contains(t, run(t, fresh, "solve wrong"), "no attempts left")
}

func TestRestore_ActiveMonster(t *testing.T) {
	g := newGame(t, nil)
	run(t, g, "go wooden door")
	rat := g.Map().Current().Monster
	require.NotNil(t, rat)
	rat.Damage(3)

	snap := snapshot.Capture(g)
	fresh := newGame(t, nil)
	require.NoError(t, snapshot.Restore(fresh, snap))

	den := fresh.Map().Current()
	require.NotNil(t, den.Monster)
	assert.Equal(t, rat.UID(), den.Monster.UID())
	assert.Equal(t, rat.Health(), den.Monster.Health())
}

func TestRestore_Rejects(t *testing.T) {
	g := newGame(t, nil)
	good := snapshot.Capture(g)

	bad := *good
	bad.Version = 99
	assert.ErrorIs(t, snapshot.Restore(g, &bad), snapshot.ErrVersion)

	bad = *good
	bad.World = "Elsewhere"
	assert.ErrorIs(t, snapshot.Restore(g, &bad), snapshot.ErrWorldMismatch)

	bad = *good
	bad.History = nil
	assert.ErrorIs(t, snapshot.Restore(g, &bad), snapshot.ErrEmptyHistory)

	bad = *good
	bad.History = []string{"rom-zzz"}
	assert.Error(t, snapshot.Restore(g, &bad))

	// A failed restore leaves the running game alone.
	assert.Equal(t, "rom-a", g.Map().Current().EID())
}

func TestUnmarshal_Garbage(t *testing.T) {
	_, err := snapshot.Unmarshal([]byte("version: [1"))
	assert.Error(t, err)
}

func TestStore_SaveAndLoadCommands(t *testing.T) {
	dir := t.TempDir()
	store := snapshot.NewStore(dir, nil)
	g := newGame(t, store)
	play(t, g)

	assert.Equal(t, `Game saved as "slot1".`, run(t, g, "save slot1"))
	_, err := os.Stat(filepath.Join(dir, "slot1.yaml"))
	require.NoError(t, err)

	run(t, g, "drop sword")
	run(t, g, "go wooden door")
	require.Equal(t, "rom-b", g.Map().Current().EID())

	assert.Contains(t, run(t, g, "load slot1"), `Game "slot1" loaded.`)
	assert.Equal(t, "rom-a", g.Map().Current().EID())
	require.NotNil(t, g.Player().Weapon())
	assert.Equal(t, "Sword", g.Player().Weapon().Name())

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"slot1"}, names)
}

func TestStore_Errors(t *testing.T) {
	store := snapshot.NewStore(t.TempDir(), nil)
	g := newGame(t, store)

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		_, err := store.Path(name)
		assert.ErrorIs(t, err, snapshot.ErrInvalidName, "name %q", name)
	}
	assert.Error(t, store.Load(g, "missing"))
	assert.Contains(t, run(t, g, "load missing"), `Could not load "missing"`)
}
