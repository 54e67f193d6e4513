package command

import (
	"strings"
	"unicode"

	"github.com/google/shlex"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining tokens after the command.
	Args []string
	// RawArgs is the raw text after the command.
	RawArgs string
}

// Parse splits a text line into a command and arguments. Arguments honor
// shell-style quoting, so `take "iron key"` yields one argument.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	cmd, rest := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		cmd, rest = line[:i], strings.TrimSpace(line[i:])
	}

	result := ParseResult{Command: strings.ToLower(cmd), RawArgs: rest}
	if rest != "" {
		result.Args = Tokenize(rest)
	}
	return result
}

// hashStandIn replaces '#' while splitting, since shlex treats a word that
// starts with '#' as the start of a comment.
const hashStandIn = '\uE000'

// Tokenize splits s with shell quoting rules, falling back to a plain
// whitespace split when the quoting is unbalanced. '#' is an ordinary
// character.
func Tokenize(s string) []string {
	hasHash := strings.ContainsRune(s, '#') && !strings.ContainsRune(s, hashStandIn)
	in := s
	if hasHash {
		in = strings.ReplaceAll(s, "#", string(hashStandIn))
	}
	tokens, err := shlex.Split(in)
	if err != nil {
		return strings.Fields(s)
	}
	if len(tokens) == 0 {
		return nil
	}
	if hasHash {
		for i, tok := range tokens {
			tokens[i] = strings.ReplaceAll(tok, string(hashStandIn), "#")
		}
	}
	return tokens
}
