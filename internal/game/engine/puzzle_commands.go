package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tworld/internal/game/command"
	"github.com/cory-johannsen/tworld/internal/game/item"
	"github.com/cory-johannsen/tworld/internal/game/world"
)

func (g *Game) puzzleCommands() []command.Command {
	return []command.Command{
		{Name: "help", Aliases: []string{"?"}, Usage: "[command]", Help: "List puzzle commands", Category: command.CategorySystem, Handle: g.help(func() *command.Interpreter { return g.puzzleCmds })},
		{Name: "solve", Aliases: []string{"answer"}, Usage: "<answer>", Help: "Offer an answer", Category: command.CategoryPuzzle, Handle: g.solve},
		{Name: "hint", Help: "Ask for a hint", Category: command.CategoryPuzzle, Handle: g.hint},
		{Name: "ignore", Aliases: []string{"leave"}, Help: "Walk away from the puzzle", Category: command.CategoryPuzzle, Handle: g.ignore},
		{Name: "inspect", Aliases: []string{"examine", "x", "look"}, Help: "Read the puzzle again", Category: command.CategoryPuzzle, Handle: g.inspectPuzzle},
		{Name: "solution", Help: "Reveal the accepted answers", Category: command.CategoryAdmin, Admin: true, Handle: g.solution},
	}
}

// enterPuzzle pushes puzzle mode for p. door, when set, is traversed once
// p is solved.
func (g *Game) enterPuzzle(p *item.Item, door *world.Door) (string, error) {
	switch {
	case p.Puzzle.IsSolved():
		if door != nil {
			return g.traverse(door)
		}
		return fmt.Sprintf("You have already solved the %s.", p.Name()), nil
	case p.Puzzle.Exhausted():
		return "", command.Userf("The %s can no longer be solved.", p.Name())
	}
	g.pushPuzzle(p, door)
	g.logger.Debug("puzzle mode entered", zap.String("puzzle", p.EID()))

	var sb strings.Builder
	if door != nil {
		fmt.Fprintf(&sb, "The %s is sealed by a puzzle.\n", door.Name())
	}
	sb.WriteString(p.Inspect())
	sb.WriteString("\n(solve <answer>, hint, or ignore)")
	return sb.String(), nil
}

func (g *Game) solve(args []string) (string, error) {
	p := g.activePuzzle()
	if len(args) == 0 {
		return "", command.NewUserError("Solve with what answer?")
	}
	if !p.Puzzle.Solve(strings.Join(args, " ")) {
		if p.Puzzle.Exhausted() {
			g.popMode()
			return "That is not right. The puzzle falls silent; you have no attempts left.", nil
		}
		out := "That is not right."
		if n, limited := p.Puzzle.Remaining(); limited {
			out += fmt.Sprintf(" %d attempts remaining.", n)
		}
		return out, nil
	}

	top := g.popMode()
	g.logger.Debug("puzzle solved", zap.String("puzzle", p.EID()))
	out := "Correct!"
	if spawned := g.spawnDrops(p); len(spawned) > 0 {
		out += " Something appears: " + strings.Join(spawned, ", ") + "."
	}
	if top.door == nil {
		return out, nil
	}
	more, err := g.traverse(top.door)
	if err != nil {
		return out, err
	}
	return out + "\n" + more, nil
}

// spawnDrops creates the puzzle's reward items on the current room's floor.
func (g *Game) spawnDrops(p *item.Item) []string {
	var names []string
	for _, eid := range p.Puzzle.Drops {
		it, err := g.factory.CreateItem(eid)
		if err != nil {
			g.logger.Warn("puzzle drop not created", zap.String("puzzle", p.EID()), zap.String("eid", eid), zap.Error(err))
			continue
		}
		g.room().Floor.Add(it)
		names = append(names, it.Name())
	}
	return names
}

func (g *Game) hint(_ []string) (string, error) {
	h := g.activePuzzle().Puzzle.Hint()
	if h == "" {
		return "There are no hints for this puzzle.", nil
	}
	return "Hint: " + h, nil
}

func (g *Game) ignore(_ []string) (string, error) {
	g.popMode()
	return "", nil
}

func (g *Game) inspectPuzzle(_ []string) (string, error) {
	return g.activePuzzle().Inspect(), nil
}

func (g *Game) solution(_ []string) (string, error) {
	return "Solutions: " + strings.Join(g.activePuzzle().Puzzle.Solutions(), " | "), nil
}
