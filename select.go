package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log/level"

	"colselect-go/project"
)

var errNoRows = errors.New("source has no rows to project")

// selectCommand projects the first record batch of a table through a plan.
type selectCommand struct {
	e      *env
	source string
	out    string
	plan   planFlags
}

func addSelectCommand(app *kingpin.Application, e *env) {
	cmd := &selectCommand{e: e}
	c := app.Command("select", "Project the first record batch of a table through a plan.")
	c.Arg("source", "Local file or s3://bucket/key.").Required().StringVar(&cmd.source)
	c.Flag("out", "Write the projected batch as an Arrow IPC stream to this file.").Short('o').StringVar(&cmd.out)
	cmd.plan.register(c)
	c.Action(cmd.run)
}

func (cmd *selectCommand) run(_ *kingpin.ParseContext) error {
	r, err := cmd.plan.compile(cmd.e)
	if err != nil {
		return err
	}
	tbl, err := cmd.e.opener().Open(context.Background(), cmd.source)
	if err != nil {
		return err
	}
	defer tbl.Release()
	if tbl.Sample == nil {
		return errNoRows
	}

	rec, err := project.SelectWith(tbl.Sample, r)
	if err != nil {
		return err
	}
	defer rec.Release()

	color.New(color.Bold).Fprintf(os.Stdout, "%s rows\n", humanize.Comma(rec.NumRows()))
	fmt.Fprintln(os.Stdout, rec.Schema())
	if cmd.out == "" {
		return nil
	}

	f, err := os.Create(cmd.out)
	if err != nil {
		return err
	}
	defer f.Close()
	n, err := writeStream(f, rec)
	if err != nil {
		return err
	}
	level.Info(cmd.e.logger).Log("msg", "wrote projection", "file", cmd.out, "size", humanize.Bytes(uint64(n)))
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeStream writes rec as a one batch Arrow IPC stream and returns the
// number of bytes written.
func writeStream(w io.Writer, rec arrow.Record) (int64, error) {
	cw := &countingWriter{w: w}
	wr := ipc.NewWriter(cw, ipc.WithSchema(rec.Schema()))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return cw.n, err
	}
	if err := wr.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}
