// Package prompt asks the user for confirmation and input on a terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"

	"tableflip.dev/grid/pkg/aspect"
)

// ErrNotInteractive is returned when a prompt is needed but stdin is not a
// terminal.
var ErrNotInteractive = errors.New("prompt: stdin is not a terminal, pass --yes to confirm")

// ErrDeclined is returned when the user answers no.
var ErrDeclined = errors.New("prompt: cancelled")

// Prompter runs prompts against a pair of streams.
type Prompter struct {
	In  io.ReadCloser
	Out io.WriteCloser
	// Yes answers every confirmation without asking.
	Yes bool
	// Interactive overrides the terminal check when non-nil.
	Interactive *bool
}

// New returns a Prompter on stdin and stdout.
func New(yes bool) *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stdout, Yes: yes}
}

func (p *Prompter) interactive() bool {
	if p.Interactive != nil {
		return *p.Interactive
	}
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// Confirm asks a yes/no question. An empty answer takes def.
func (p *Prompter) Confirm(label string, def bool) error {
	if p.Yes {
		return nil
	}
	if !p.interactive() {
		return ErrNotInteractive
	}

	choices := "y/N"
	if def {
		choices = "Y/n"
	}
	validate := func(input string) error {
		if input == "" {
			return nil
		}
		_, err := ParseBool(input)
		return err
	}
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} : ",
		Valid:   "{{ . | green }} : ",
		Invalid: "{{ . | red }} : ",
		Success: "{{ . | bold }} : ",
	}
	pr := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, choices),
		Templates: templates,
		Validate:  validate,
		Stdin:     p.In,
		Stdout:    p.Out,
	}
	result, err := pr.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return ErrDeclined
		}
		return err
	}
	ok := def
	if result != "" {
		ok, _ = ParseBool(result)
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}

// Text asks for a line of input that passes validate.
func (p *Prompter) Text(label string, validate func(string) error) (string, error) {
	if !p.interactive() {
		return "", ErrNotInteractive
	}
	pr := promptui.Prompt{
		Label:    label,
		Validate: validate,
		Stdin:    p.In,
		Stdout:   p.Out,
	}
	result, err := pr.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", ErrDeclined
		}
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// Aspect lets the user pick one aspect from list.
func (p *Prompter) Aspect(label string, list []aspect.Aspect) (aspect.Aspect, error) {
	if len(list) == 0 {
		return aspect.Aspect{}, errors.New("prompt: no aspects to choose from")
	}
	if !p.interactive() {
		return aspect.Aspect{}, ErrNotInteractive
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ if .Starred }}★ {{ end }}{{ .Name | bold }}",
		Inactive: "   {{ if .Starred }}★ {{ end }}{{ .Name }}",
		Selected: "{{ .Name | bold }}",
	}
	searcher := func(input string, index int) bool {
		name := strings.Replace(strings.ToLower(list[index].Name), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)
		return strings.Contains(name, input)
	}
	sel := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     list,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     p.In,
		Stdout:    p.Out,
	}
	i, _, err := sel.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return aspect.Aspect{}, ErrDeclined
		}
		return aspect.Aspect{}, err
	}
	return list[i], nil
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}
