// Package command parses one line of interactive input into a command.
package command

import "strings"

// Command words.
const (
	QuitWord  = "quit"
	AbortWord = "-q"
	ImageWord = "image"
)

// Kind is the closed set of interactive commands.
type Kind int

const (
	// Note appends the line as note text.
	Note Kind = iota
	// Quit finalizes the session and exits.
	Quit
	// Abort exits without finalizing (plain-text sessions).
	Abort
	// Image inserts an image (document sessions).
	Image
)

func (k Kind) String() string {
	switch k {
	case Note:
		return "note"
	case Quit:
		return "quit"
	case Abort:
		return "abort"
	case Image:
		return "image"
	default:
		return "unknown"
	}
}

// Set selects which optional commands a session understands. Lines that
// would match a disabled command are notes.
type Set struct {
	Abort  bool
	Images bool
}

// Command is one parsed input line.
type Command struct {
	Kind Kind
	Text string // note text, Note only
	Path string // image path, Image only; may be empty
}

// Parse classifies line. Quit and abort words must match exactly.
func Parse(line string, set Set) Command {
	line = strings.TrimSuffix(line, "\r")
	switch {
	case line == QuitWord:
		return Command{Kind: Quit}
	case set.Abort && line == AbortWord:
		return Command{Kind: Abort}
	case set.Images && line == ImageWord:
		return Command{Kind: Image}
	case set.Images && strings.HasPrefix(line, ImageWord+" "):
		return Command{Kind: Image, Path: strings.TrimSpace(line[len(ImageWord)+1:])}
	default:
		return Command{Kind: Note, Text: line}
	}
}
