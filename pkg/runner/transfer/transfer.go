// Package transfer imports and exports grid data.
package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/export"
	"tableflip.dev/grid/pkg/merge"
	"tableflip.dev/grid/pkg/printers"
	"tableflip.dev/grid/pkg/prompt"
)

// Stdio is the file name meaning stdin or stdout.
const Stdio = "-"

type Import struct {
	File string
	// Strategy is merge, replace or empty for the default.
	Strategy string

	Service  *app.Service
	Prompter *prompt.Prompter
	Printer  *printers.PrettyPrint
	// Stdin is read when File is "-".
	Stdin io.Reader
}

func (n *Import) Do(ctx context.Context) error {
	data, err := n.read()
	if err != nil {
		return err
	}
	p, res := merge.Decode(data)
	if err := res.Err(); err != nil {
		return err
	}
	for _, pr := range res.Problems {
		n.Printer.Warn("skipped %s", pr)
	}

	n.Printer.ImportPreview(merge.Preview(p))
	if merge.AppMismatch(p) {
		if err := n.Prompter.Confirm(fmt.Sprintf("This file was exported by %q, not %s. Import anyway?", p.App, merge.AppName), false); err != nil {
			return err
		}
	}

	current, err := n.Service.Aspects(ctx)
	if err != nil {
		return err
	}
	strategy, err := merge.ParseStrategy(n.Strategy, len(current) > 0)
	if err != nil {
		return err
	}
	if strategy == merge.StrategyReplace && len(current) > 0 {
		if err := n.Prompter.Confirm(fmt.Sprintf("Replace all %d aspects with the imported data?", len(current)), false); err != nil {
			return err
		}
	}

	report, err := n.Service.Import(ctx, p, strategy)
	if err != nil {
		return err
	}
	n.Printer.ImportReport(strategy, report)
	return nil
}

func (n *Import) read() ([]byte, error) {
	if n.File == Stdio {
		in := n.Stdin
		if in == nil {
			in = os.Stdin
		}
		return io.ReadAll(in)
	}
	data, err := os.ReadFile(n.File)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return data, nil
}

type Export struct {
	// Ref selects one aspect for a text report; empty exports a JSON backup.
	Ref string
	// File is where to write; "-" or empty is stdout and a directory gets
	// the default file name.
	File  string
	Width int
	// Out receives stdout exports; color.Output when nil.
	Out io.Writer

	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *Export) Do(ctx context.Context) error {
	now := n.Service.Now()
	var (
		buf  bytes.Buffer
		name string
	)
	if n.Ref == "" {
		p, err := n.Service.Export(ctx)
		if err != nil {
			return err
		}
		if err := export.JSON(&buf, p); err != nil {
			return err
		}
		name = export.BackupName(now)
	} else {
		a, err := n.Service.Resolve(ctx, n.Ref)
		if err != nil {
			return err
		}
		if err := export.Text(&buf, a, now, n.Width); err != nil {
			return err
		}
		name = export.FileName(a, now)
	}

	if n.File == "" || n.File == Stdio {
		out := n.Out
		if out == nil {
			out = color.Output
		}
		_, err := io.Copy(out, &buf)
		return err
	}
	path := n.File
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, name)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	n.Printer.Info("Wrote %s.", path)
	return nil
}
