package session

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/powerwords/internal/ui"
)

// Prompt labels and messages.
const (
	TitlePrompt       = "Session title: "
	NumberPrompt      = "Session number: "
	InvalidNumberText = "That is not a valid session number."
)

// Prompter asks for the session title and number. It shares its scanner
// with the command loop so no buffered input is lost between them.
type Prompter struct {
	in      *bufio.Scanner
	printer *ui.Printer
}

// NewPrompter creates a Prompter reading from in.
func NewPrompter(in *bufio.Scanner, printer *ui.Printer) *Prompter {
	return &Prompter{in: in, printer: printer}
}

// Title prompts until a non-empty title is entered.
func (p *Prompter) Title() (string, error) {
	for {
		p.printer.Prompt(TitlePrompt)
		line, err := p.read()
		if err != nil {
			return "", err
		}
		if validateTitle(line) == nil {
			return line, nil
		}
	}
}

// Number prompts until an integer is entered.
func (p *Prompter) Number() (int, error) {
	for {
		p.printer.Prompt(NumberPrompt)
		line, err := p.read()
		if err != nil {
			return 0, err
		}
		n, err := parseNumber(line)
		if err != nil {
			p.printer.Error(InvalidNumberText)
			continue
		}
		return n, nil
	}
}

func (p *Prompter) read() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSuffix(p.in.Text(), "\r"), nil
}

func validateTitle(title string) error {
	return validation.Validate(title, validation.Required)
}

func parseNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	var n int
	err := validation.Validate(s,
		validation.Required,
		validation.By(func(value interface{}) error {
			v, err := strconv.Atoi(value.(string))
			if err != nil {
				return errors.New("must be an integer")
			}
			n = v
			return nil
		}),
	)
	return n, err
}
