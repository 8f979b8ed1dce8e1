package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/go-kit/log/level"

	"colselect-go/columns"
	"colselect-go/plan"
	"colselect-go/schema"
)

var errPlanSource = errors.New("pass exactly one of --plan or --saved")

// planFlags names a plan either by yaml file or by catalog name.
type planFlags struct {
	file  string
	saved string
}

func (p *planFlags) register(c *kingpin.CmdClause) {
	c.Flag("plan", "YAML plan file.").Short('p').StringVar(&p.file)
	c.Flag("saved", "Name of a plan in the catalog.").Short('s').StringVar(&p.saved)
}

func (p *planFlags) load(e *env) (*plan.Node, error) {
	switch {
	case p.file != "" && p.saved == "":
		return plan.DecodeFile(p.file)
	case p.saved != "" && p.file == "":
		cat, err := e.catalog()
		if err != nil {
			return nil, err
		}
		defer cat.Close()
		return cat.Get(p.saved)
	}
	return nil, errPlanSource
}

func (p *planFlags) compile(e *env) (columns.Resolver, error) {
	n, err := p.load(e)
	if err != nil {
		return nil, err
	}
	c, err := e.compiler()
	if err != nil {
		return nil, err
	}
	r, err := c.Compile(n)
	if err != nil {
		return nil, err
	}
	level.Debug(e.logger).Log("msg", "compiled plan", "selection", r.String())
	return r, nil
}

// resolveCommand prints the columns a plan selects from a table.
type resolveCommand struct {
	e      *env
	source string
	plan   planFlags
}

func addResolveCommand(app *kingpin.Application, e *env) {
	cmd := &resolveCommand{e: e}
	c := app.Command("resolve", "Resolve a plan against the schema of a table.")
	c.Arg("source", "Local file or s3://bucket/key.").Required().StringVar(&cmd.source)
	cmd.plan.register(c)
	c.Action(cmd.run)
}

func (cmd *resolveCommand) run(_ *kingpin.ParseContext) error {
	r, err := cmd.plan.compile(cmd.e)
	if err != nil {
		return err
	}
	root, err := cmd.e.opener().OpenTree(context.Background(), cmd.source)
	if err != nil {
		return err
	}
	cols, err := columns.Resolve(r, root)
	if err != nil {
		return err
	}
	color.New(color.Bold).Fprintln(os.Stdout, r.String())
	return printColumns(os.Stdout, cols)
}

func printColumns(w io.Writer, cols []schema.ColumnWithPath) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tKIND\tTYPE")
	for _, c := range cols {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Path, c.Kind(), c.Node.Type())
	}
	return tw.Flush()
}
