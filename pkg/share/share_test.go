package share

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCopyFallbackChain(t *testing.T) {
	fail := func(string) error { return errors.New("nope") }
	var got string
	keep := func(s string) error { got = s; return nil }

	tests := map[string]struct {
		system, osc func(string) error
		want        Method
		manual      bool
	}{
		"system": {system: keep, osc: fail, want: MethodSystem},
		"osc52":  {system: fail, osc: keep, want: MethodOSC52},
		"manual": {system: fail, osc: fail, want: MethodManual, manual: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got = ""
			var out bytes.Buffer
			s := &Sharer{WriteSystem: tc.system, WriteOSC52: tc.osc, Out: &out}
			res, err := s.Copy("hello\n")
			if err != nil {
				t.Fatalf("Copy: %v", err)
			}
			if res.Method != tc.want {
				t.Fatalf("method = %v, want %v", res.Method, tc.want)
			}
			if tc.manual {
				want := manualBegin + "\nhello\n" + manualEnd + "\n"
				if out.String() != want {
					t.Fatalf("manual block = %q, want %q", out.String(), want)
				}
				if res.Reason == nil {
					t.Fatal("manual fallback should explain why")
				}
				return
			}
			if got != "hello\n" {
				t.Fatalf("copied %q", got)
			}
		})
	}
}

func TestOSC52Sequence(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")
	var buf bytes.Buffer
	if err := writeOSC52Sequence(&buf, "hi"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\x1b]52;c;") {
		t.Fatalf("sequence = %q", buf.String())
	}
}

func TestShouldAttemptOSC52(t *testing.T) {
	t.Setenv("TERM", "dumb")
	if shouldAttemptOSC52() {
		t.Fatal("dumb terminals cannot take OSC52")
	}
	t.Setenv("TERM", "xterm")
	t.Setenv("GRID_DISABLE_OSC52", "yes")
	if shouldAttemptOSC52() {
		t.Fatal("disabled by environment")
	}
}
