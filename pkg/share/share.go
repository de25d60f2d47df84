// Package share copies text to the user's clipboard, falling back from the
// system clipboard to an OSC52 terminal sequence and finally to printing the
// text for a manual copy.
package share

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// Method is how the text reached the user.
type Method uint8

const (
	MethodSystem Method = iota
	MethodOSC52
	MethodManual
)

func (m Method) String() string {
	switch m {
	case MethodSystem:
		return "clipboard"
	case MethodOSC52:
		return "terminal clipboard"
	default:
		return "manual copy"
	}
}

// Result reports the method used and, for fallbacks, why the better methods
// failed.
type Result struct {
	Method Method
	Reason error
}

// Sharer runs the fallback chain. The write funcs are swappable for tests.
type Sharer struct {
	WriteSystem func(string) error
	WriteOSC52  func(string) error
	// Out receives the manual copy block.
	Out io.Writer
}

// New returns a Sharer using the real clipboard and /dev/tty.
func New(out io.Writer) *Sharer {
	return &Sharer{
		WriteSystem: clipboard.WriteAll,
		WriteOSC52:  writeOSC52Clipboard,
		Out:         out,
	}
}

// Copy delivers text by the first method that works.
func (s *Sharer) Copy(text string) (Result, error) {
	sysErr := s.WriteSystem(text)
	if sysErr == nil {
		return Result{Method: MethodSystem}, nil
	}
	oscErr := s.WriteOSC52(text)
	if oscErr == nil {
		return Result{Method: MethodOSC52, Reason: humanize(sysErr)}, nil
	}
	reason := combineErrors(sysErr, oscErr)
	if s.Out == nil {
		return Result{Method: MethodManual, Reason: reason}, reason
	}
	if err := writeManual(s.Out, text); err != nil {
		return Result{Method: MethodManual, Reason: reason}, err
	}
	return Result{Method: MethodManual, Reason: reason}, nil
}

const (
	manualBegin = "----- copy the text below -----"
	manualEnd   = "----- end -----"
)

func writeManual(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", manualBegin, strings.TrimRight(text, "\n"), manualEnd)
	return err
}

func writeOSC52Clipboard(text string) error {
	if !shouldAttemptOSC52() {
		return errors.New("OSC52 unavailable for this terminal")
	}
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open /dev/tty: %w", err)
	}
	defer tty.Close()
	return writeOSC52Sequence(tty, text)
}

func writeOSC52Sequence(w io.Writer, text string) error {
	termName := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	switch {
	case os.Getenv("TMUX") != "":
		// tmux setups differ in whether they pass plain sequences through.
		if _, err := osc52.New(text).WriteTo(w); err != nil {
			return err
		}
		_, err := osc52.New(text).Tmux().WriteTo(w)
		return err
	case strings.HasPrefix(termName, "screen"):
		_, err := osc52.New(text).Screen().WriteTo(w)
		return err
	}
	_, err := osc52.New(text).WriteTo(w)
	return err
}

func shouldAttemptOSC52() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("GRID_DISABLE_OSC52"))) {
	case "1", "true", "yes", "on":
		return false
	}
	termName := strings.TrimSpace(os.Getenv("TERM"))
	return termName != "" && !strings.EqualFold(termName, "dumb")
}

func combineErrors(systemErr, oscErr error) error {
	if missingDisplay() {
		return fmt.Errorf("no GUI clipboard available (DISPLAY/WAYLAND_DISPLAY unset); OSC52 fallback failed: %v", humanize(oscErr))
	}
	return fmt.Errorf("system clipboard failed: %v; OSC52 fallback failed: %v", humanize(systemErr), humanize(oscErr))
}

func humanize(err error) error {
	if err == nil {
		return nil
	}
	if strings.TrimSpace(err.Error()) == "exit status 1" {
		if missingDisplay() {
			return errors.New("no GUI clipboard available (DISPLAY/WAYLAND_DISPLAY unset)")
		}
		return errors.New("clipboard helper exited with status 1")
	}
	return err
}

func missingDisplay() bool {
	return strings.TrimSpace(os.Getenv("DISPLAY")) == "" && strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) == ""
}
