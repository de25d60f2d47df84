package prompt

import (
	"errors"
	"testing"

	"tableflip.dev/grid/pkg/aspect"
)

func TestParseBool(t *testing.T) {
	tests := map[string]bool{
		"y": true, "Yes": true, "true": true, "1": true,
		"n": false, "No": false, "false": false, "0": false,
	}
	for in, want := range tests {
		got, err := ParseBool(in)
		if err != nil {
			t.Errorf("ParseBool(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseBool(%q) = %t, want %t", in, got, want)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Error("expected an error for maybe")
	}
}

func TestConfirmYesSkipsPrompt(t *testing.T) {
	no := false
	p := &Prompter{Yes: true, Interactive: &no}
	if err := p.Confirm("Delete?", false); err != nil {
		t.Fatalf("Confirm with --yes: %v", err)
	}
}

func TestNotInteractive(t *testing.T) {
	no := false
	p := &Prompter{Interactive: &no}
	if err := p.Confirm("Delete?", false); !errors.Is(err, ErrNotInteractive) {
		t.Fatalf("Confirm = %v, want ErrNotInteractive", err)
	}
	if _, err := p.Text("Name", nil); !errors.Is(err, ErrNotInteractive) {
		t.Fatalf("Text = %v, want ErrNotInteractive", err)
	}
	if _, err := p.Aspect("Pick", []aspect.Aspect{{ID: "a", Name: "Health"}}); !errors.Is(err, ErrNotInteractive) {
		t.Fatalf("Aspect = %v, want ErrNotInteractive", err)
	}
}

func TestAspectEmptyList(t *testing.T) {
	yes := true
	p := &Prompter{Interactive: &yes}
	if _, err := p.Aspect("Pick", nil); err == nil {
		t.Fatal("expected an error for an empty list")
	}
}
