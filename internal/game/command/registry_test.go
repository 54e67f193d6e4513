package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func echo(args []string) (string, error) { return "ok", nil }

func testCommands() []Command {
	return []Command{
		{Name: "look", Aliases: []string{"l"}, Help: "Look around", Category: CategoryWorld, Handle: echo},
		{Name: "go", Aliases: []string{"move", "walk"}, Usage: "<door>", Help: "Go through a door", Category: CategoryMovement, Handle: echo},
		{Name: "take", Aliases: []string{"get", "pickup"}, Help: "Pick up an item", Category: CategoryItems, Handle: echo},
		{Name: "teleport", Help: "Jump to a room", Category: CategoryAdmin, Admin: true, Handle: echo},
	}
}

func TestResolve_CanonicalAndAlias(t *testing.T) {
	r := MustRegistry(testCommands())

	cmd, ok := r.Resolve("go")
	require.True(t, ok)
	assert.Equal(t, "go", cmd.Name)

	cmd, ok = r.Resolve("WALK")
	require.True(t, ok)
	assert.Equal(t, "go", cmd.Name)

	_, ok = r.Resolve("dance")
	assert.False(t, ok)
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "test", Handle: echo}, {Name: "TEST", Handle: echo}})
	assert.ErrorContains(t, err, "duplicate command name")
}

func TestNewRegistry_DuplicateAlias(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "test1", Aliases: []string{"t"}, Handle: echo},
		{Name: "test2", Aliases: []string{"t"}, Handle: echo},
	})
	assert.ErrorContains(t, err, "duplicate alias")
}

func TestNewRegistry_AliasShadowsName(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "look", Handle: echo},
		{Name: "examine", Aliases: []string{"look"}, Handle: echo},
	})
	assert.ErrorContains(t, err, "conflicts with command name")
}

func TestNewRegistry_MissingHandler(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "look"}})
	assert.ErrorContains(t, err, "no handler")
}

func TestMustRegistry_Panics(t *testing.T) {
	assert.Panics(t, func() { MustRegistry([]Command{{Name: ""}}) })
}

func TestCommands_Sorted(t *testing.T) {
	var names []string
	for _, c := range MustRegistry(testCommands()).Commands() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"go", "look", "take", "teleport"}, names)
}

func TestCommandsByCategory(t *testing.T) {
	cats := MustRegistry(testCommands()).CommandsByCategory()
	assert.Len(t, cats[CategoryMovement], 1)
	assert.Len(t, cats[CategoryAdmin], 1)
	assert.NotContains(t, cats, CategoryPuzzle)
}

func TestPropertyAllAliasesResolveToCanonical(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := MustRegistry(testCommands())
		cmds := r.Commands()
		cmd := cmds[rapid.IntRange(0, len(cmds)-1).Draw(t, "cmd_idx")]

		resolved, ok := r.Resolve(cmd.Name)
		if !ok || resolved.Name != cmd.Name {
			t.Fatalf("canonical name %q did not resolve to itself", cmd.Name)
		}
		for _, alias := range cmd.Aliases {
			aliasResolved, ok := r.Resolve(alias)
			if !ok || aliasResolved.Name != cmd.Name {
				t.Fatalf("alias %q did not resolve to %q", alias, cmd.Name)
			}
		}
	})
}
