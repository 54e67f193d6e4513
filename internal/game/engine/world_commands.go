package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tworld/internal/game/character"
	"github.com/cory-johannsen/tworld/internal/game/command"
	"github.com/cory-johannsen/tworld/internal/game/entity"
	"github.com/cory-johannsen/tworld/internal/game/item"
	"github.com/cory-johannsen/tworld/internal/game/world"
)

func (g *Game) worldCommands() []command.Command {
	return []command.Command{
		{Name: "help", Aliases: []string{"?"}, Usage: "[command]", Help: "List commands or describe one", Category: command.CategorySystem, Handle: g.help(func() *command.Interpreter { return g.worldCmds })},
		{Name: "look", Aliases: []string{"l"}, Help: "Describe the current room", Category: command.CategoryWorld, Handle: g.look},
		{Name: "go", Aliases: []string{"move", "walk", "enter"}, Usage: "<door>", Help: "Go through a door", Category: command.CategoryMovement, Handle: g.goThrough},
		{Name: "flee", Aliases: []string{"back", "run"}, Usage: "[rooms]", Help: "Retreat to a previous room", Category: command.CategoryMovement, Handle: g.flee},
		{Name: "take", Aliases: []string{"get", "pickup"}, Usage: "<item>", Help: "Pick up an item from the floor", Category: command.CategoryItems, Handle: g.take},
		{Name: "drop", Usage: "<item>", Help: "Drop a carried item", Category: command.CategoryItems, Handle: g.drop},
		{Name: "inventory", Aliases: []string{"inv", "i"}, Help: "List carried items", Category: command.CategoryItems, Handle: g.inventory},
		{Name: "inspect", Aliases: []string{"examine", "x"}, Usage: "[thing]", Help: "Examine an item, door, monster or the room", Category: command.CategoryWorld, Handle: g.inspect},
		{Name: "equip", Aliases: []string{"wield", "wear"}, Usage: "<item>", Help: "Equip a weapon or armor", Category: command.CategoryItems, Handle: g.equip},
		{Name: "unequip", Aliases: []string{"remove"}, Usage: "<item>", Help: "Unequip an item", Category: command.CategoryItems, Handle: g.unequip},
		{Name: "use", Aliases: []string{"eat"}, Usage: "<item>", Help: "Use an item", Category: command.CategoryItems, Handle: g.use},
		{Name: "open", Usage: "<chest>", Help: "Open a chest", Category: command.CategoryItems, Handle: g.open},
		{Name: "attack", Aliases: []string{"kill", "fight", "hit"}, Usage: "[monster]", Help: "Attack the monster in the room", Category: command.CategoryCombat, Handle: g.attack},
		{Name: "me", Aliases: []string{"status", "stats"}, Help: "Show your health, stats and items", Category: command.CategoryWorld, Handle: g.me},
		{Name: "save", Usage: "[name]", Help: "Save the game", Category: command.CategorySystem, Handle: g.save},
		{Name: "load", Usage: "[name]", Help: "Load a saved game", Category: command.CategorySystem, Handle: g.load},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Leave the game", Category: command.CategorySystem, Handle: g.quit},

		{Name: "give", Usage: "<eid>...", Help: "Create items in your inventory", Category: command.CategoryAdmin, Admin: true, Handle: g.give},
		{Name: "teleport", Aliases: []string{"tp"}, Usage: "<room eid>", Help: "Jump to a room", Category: command.CategoryAdmin, Admin: true, Handle: g.teleport},
		{Name: "heal", Usage: "[amount]", Help: "Restore health", Category: command.CategoryAdmin, Admin: true, Handle: g.heal},
		{Name: "set", Usage: "<health|attack|resistance|max_health> <value>", Help: "Set a player stat", Category: command.CategoryAdmin, Admin: true, Handle: g.set},
	}
}

func (g *Game) help(in func() *command.Interpreter) command.HandlerFunc {
	return func(args []string) (string, error) {
		if len(args) > 0 {
			return in().Help(args[0]), nil
		}
		return in().Help(""), nil
	}
}

func (g *Game) room() *world.Room { return g.gameMap.Current() }

func (g *Game) look(_ []string) (string, error) {
	return g.room().Inspect(), nil
}

func (g *Game) goThrough(args []string) (string, error) {
	if len(args) == 0 {
		return "", command.NewUserError("Go where?")
	}
	name := strings.Join(args, " ")
	room := g.room()
	door := room.Door(name)
	if door == nil {
		return "", command.Userf("There is no door called %q here.", name)
	}
	if m := room.Monster; m != nil {
		out := fmt.Sprintf("The %s blocks your way and strikes you. You lose %d health.", m.Name(), g.strike(m))
		return g.afterHit(out)
	}
	switch door.Gate(g.player.Inventory) {
	case world.GateKey:
		return "", command.Userf("The %s is locked. You need the %s.", door.Name(), door.Key.Name())
	case world.GatePuzzle:
		return g.enterPuzzle(door.Puzzle, door)
	}
	return g.traverse(door)
}

// traverse performs the move once gating has passed.
func (g *Game) traverse(door *world.Door) (string, error) {
	next, err := g.gameMap.Traverse(door.EID(), g.roller)
	switch {
	case errors.Is(err, world.ErrDoorLeadsNowhere):
		return "", command.Userf("The %s doesn't go anywhere.", door.Name())
	case err != nil:
		return "", err
	}
	g.logger.Debug("player moved", zap.String("door", door.EID()), zap.String("room", next.EID()))
	return fmt.Sprintf("You go through the %s.\n\n%s", door.Name(), next.Inspect()), nil
}

func (g *Game) flee(args []string) (string, error) {
	depth := 1
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			depth = n
		}
	}
	room, err := g.gameMap.Flee(depth, g.roller)
	if errors.Is(err, world.ErrCannotFlee) {
		return "", command.NewUserError("There is nowhere to flee to.")
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("You flee back to the %s.\n\n%s", room.Name(), room.Inspect()), nil
}

func (g *Game) take(args []string) (string, error) {
	if len(args) == 0 {
		return "", command.NewUserError("Take what?")
	}
	name := strings.Join(args, " ")
	e := g.room().Floor.Pop(entity.ByName(name))
	if e == nil {
		return "", command.Userf("There is no %s here.", name)
	}
	g.player.Inventory.Add(e)
	return fmt.Sprintf("You pick up the %s.", e.Name()), nil
}

func (g *Game) drop(args []string) (string, error) {
	it, err := g.carried(args, "Drop what?")
	if err != nil {
		return "", err
	}
	if g.player.IsEquipped(it) {
		_ = g.player.Unequip(it)
	}
	g.player.Inventory.Remove(it)
	g.room().Floor.Add(it)
	return fmt.Sprintf("You drop the %s.", it.Name()), nil
}

func (g *Game) inventory(_ []string) (string, error) {
	items := g.player.Inventory.All()
	if len(items) == 0 {
		return "You are carrying nothing.", nil
	}
	var sb strings.Builder
	sb.WriteString("You are carrying:")
	for _, e := range items {
		sb.WriteString("\n- " + e.Name())
		if it, ok := e.(*item.Item); ok && g.player.IsEquipped(it) {
			sb.WriteString(" (equipped)")
		}
	}
	return sb.String(), nil
}

func (g *Game) inspect(args []string) (string, error) {
	if len(args) == 0 {
		return g.room().Inspect(), nil
	}
	name := strings.Join(args, " ")
	room := g.room()
	if strings.EqualFold(name, "me") || strings.EqualFold(name, "self") {
		return g.player.Inspect(), nil
	}
	if e := g.player.Inventory.Get(entity.ByName(name)); e != nil {
		return e.Inspect(), nil
	}
	if e := room.Floor.Get(entity.ByName(name)); e != nil {
		return e.Inspect(), nil
	}
	if d := room.Door(name); d != nil {
		return d.Inspect(), nil
	}
	if m := room.Monster; m != nil && entity.NewInventory(m).Contains(entity.ByName(name)) {
		return m.Inspect(), nil
	}
	return "", command.Userf("You see no %s here.", name)
}

func (g *Game) equip(args []string) (string, error) {
	it, err := g.carried(args, "Equip what?")
	if err != nil {
		return "", err
	}
	if err := g.player.Equip(it); errors.Is(err, character.ErrNotEquippable) {
		return "", command.Userf("You can't equip the %s.", it.Name())
	}
	return fmt.Sprintf("You equip the %s.", it.Name()), nil
}

func (g *Game) unequip(args []string) (string, error) {
	it, err := g.carried(args, "Unequip what?")
	if err != nil {
		return "", err
	}
	if err := g.player.Unequip(it); err != nil {
		return "", command.Userf("The %s is not equipped.", it.Name())
	}
	return fmt.Sprintf("You unequip the %s.", it.Name()), nil
}

func (g *Game) use(args []string) (string, error) {
	it, err := g.carried(args, "Use what?")
	if err != nil {
		return "", err
	}
	out, err := it.Use(g.player, g.player.Inventory)
	switch {
	case errors.Is(err, item.ErrActivatesPuzzle):
		return g.enterPuzzle(it, nil)
	case errors.Is(err, item.ErrNotUsable):
		return "", command.Userf("You can't use the %s.", it.Name())
	case err != nil:
		return "", err
	}
	return out, nil
}

func (g *Game) open(args []string) (string, error) {
	if len(args) == 0 {
		return "", command.NewUserError("Open what?")
	}
	name := strings.Join(args, " ")
	room := g.room()
	e := g.player.Inventory.Get(entity.ByName(name))
	if e == nil {
		e = room.Floor.Get(entity.ByName(name))
	}
	it, ok := e.(*item.Item)
	if !ok {
		return "", command.Userf("There is no %s here.", name)
	}
	err := it.Unlock(g.player.Inventory)
	switch {
	case errors.Is(err, item.ErrNotContainer):
		return "", command.Userf("The %s can't be opened.", it.Name())
	case errors.Is(err, item.ErrLocked):
		return "", command.Userf("The %s is locked. You need the %s.", it.Name(), it.Lock.KeyName)
	case err != nil:
		return "", err
	}
	spilled := it.Contents.Clear()
	if len(spilled) == 0 {
		return fmt.Sprintf("You open the %s. It is empty.", it.Name()), nil
	}
	names := make([]string, 0, len(spilled))
	for _, c := range spilled {
		room.Floor.Add(c)
		names = append(names, c.Name())
	}
	return fmt.Sprintf("You open the %s. Inside you find: %s.", it.Name(), strings.Join(names, ", ")), nil
}

func (g *Game) attack(args []string) (string, error) {
	room := g.room()
	m := room.Monster
	if m == nil {
		return "", command.NewUserError("There is nothing here to fight.")
	}
	if len(args) > 0 {
		name := strings.Join(args, " ")
		if !entity.NewInventory(m).Contains(entity.ByName(name)) {
			return "", command.Userf("There is no %s here.", name)
		}
	}

	before := m.Health()
	g.player.Attack(m)
	out := fmt.Sprintf("You hit the %s for %d damage.", m.Name(), before-m.Health())
	if !m.IsAlive() {
		return out + "\n" + g.slay(room, m), nil
	}

	out += fmt.Sprintf("\nThe %s strikes back. You lose %d health.", m.Name(), g.strike(m))
	return g.afterHit(out)
}

// slay removes a dead monster and drops its loot on the floor.
func (g *Game) slay(room *world.Room, m *character.Monster) string {
	room.RemoveMonster(m)
	drops := m.DroppedItems(g.roller)
	g.logger.Debug("monster slain",
		zap.String("monster", m.EID()),
		zap.String("room", room.EID()),
		zap.Int("drops", len(drops)),
	)
	out := fmt.Sprintf("The %s dies.", m.Name())
	if len(drops) == 0 {
		return out
	}
	names := make([]string, 0, len(drops))
	for _, d := range drops {
		room.Floor.Add(d)
		names = append(names, d.Name())
	}
	return out + " It drops: " + strings.Join(names, ", ") + "."
}

// strike lets m hit the player and returns the health lost.
func (g *Game) strike(m *character.Monster) int {
	before := g.player.Health()
	m.Attack(g.player)
	return before - g.player.Health()
}

// afterHit reports the player's health, or signals death.
func (g *Game) afterHit(out string) (string, error) {
	if !g.player.IsAlive() {
		return out + "\nYou have died.", command.ErrPlayerDied
	}
	return fmt.Sprintf("%s Health is now %d.", out, g.player.Health()), nil
}

func (g *Game) me(_ []string) (string, error) {
	return g.player.Inspect(), nil
}

func (g *Game) save(args []string) (string, error) {
	if g.opts.Store == nil {
		return "", command.NewUserError("Saving is not available.")
	}
	name := saveName(args)
	if err := g.opts.Store.Save(g, name); err != nil {
		return "", command.Userf("Could not save %q: %v", name, err)
	}
	return fmt.Sprintf("Game saved as %q.", name), nil
}

func (g *Game) load(args []string) (string, error) {
	if g.opts.Store == nil {
		return "", command.NewUserError("Loading is not available.")
	}
	name := saveName(args)
	if err := g.opts.Store.Load(g, name); err != nil {
		return "", command.Userf("Could not load %q: %v", name, err)
	}
	return fmt.Sprintf("Game %q loaded.\n\n%s", name, g.room().Inspect()), nil
}

func saveName(args []string) string {
	if len(args) == 0 {
		return "quicksave"
	}
	return args[0]
}

func (g *Game) quit(_ []string) (string, error) {
	g.Quit()
	return "Goodbye.", nil
}

func (g *Game) give(args []string) (string, error) {
	if len(args) == 0 {
		return "", command.NewUserError("Give what?")
	}
	var names []string
	for _, eid := range args {
		it, err := g.factory.CreateItem(eid)
		if err != nil {
			return "", command.Userf("Cannot create %q: %v", eid, err)
		}
		g.player.Inventory.Add(it)
		names = append(names, it.Name())
	}
	return "You receive: " + strings.Join(names, ", ") + ".", nil
}

func (g *Game) teleport(args []string) (string, error) {
	if len(args) == 0 {
		return "", command.NewUserError("Teleport where?")
	}
	room, err := g.gameMap.Teleport(args[0], g.roller)
	if err != nil {
		return "", command.Userf("No room %q on the map.", args[0])
	}
	return room.Inspect(), nil
}

func (g *Game) heal(args []string) (string, error) {
	amount := g.opts.PlayerHealth
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			amount = n
		}
	}
	return fmt.Sprintf("Health is now %d.", g.player.Heal(amount)), nil
}

func (g *Game) set(args []string) (string, error) {
	if len(args) < 2 {
		return "", command.NewUserError("Usage: set <health|attack|resistance|max_health> <value>")
	}
	stat := strings.ToLower(args[0])
	n, err := strconv.Atoi(args[1])
	p := g.player
	switch stat {
	case "health":
		if err == nil {
			p.SetHealth(n)
		}
		return fmt.Sprintf("health = %d", p.Health()), nil
	case "attack":
		if err == nil {
			p.BaseAttack = n
		}
		return fmt.Sprintf("attack = %d", p.BaseAttack), nil
	case "resistance":
		if err == nil {
			p.BaseResistance = n
		}
		return fmt.Sprintf("resistance = %d", p.BaseResistance), nil
	case "max_health":
		if err == nil {
			p.MaxHealth = n
			p.SetHealth(p.Health())
		}
		return fmt.Sprintf("max_health = %d", p.MaxHealth), nil
	}
	return "", command.Userf("Unknown stat %q.", stat)
}

// carried finds a held item by name.
func (g *Game) carried(args []string, prompt string) (*item.Item, error) {
	if len(args) == 0 {
		return nil, command.NewUserError(prompt)
	}
	name := strings.Join(args, " ")
	it, ok := g.player.Inventory.Get(entity.ByName(name)).(*item.Item)
	if !ok {
		return nil, command.Userf("You aren't carrying a %s.", name)
	}
	return it, nil
}
