package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"colselect-go/schema"
)

// treeCommand prints the schema tree of a table.
type treeCommand struct {
	e      *env
	source string
}

func addTreeCommand(app *kingpin.Application, e *env) {
	cmd := &treeCommand{e: e}
	c := app.Command("tree", "Print the column tree of a table.")
	c.Arg("source", "Local file or s3://bucket/key (.parquet, .arrow, .arrows, .csv).").Required().StringVar(&cmd.source)
	c.Action(cmd.run)
}

func (cmd *treeCommand) run(_ *kingpin.ParseContext) error {
	root, err := cmd.e.opener().OpenTree(context.Background(), cmd.source)
	if err != nil {
		return err
	}
	printTree(os.Stdout, root)
	return nil
}

// printTree writes one line per column. Groups are bold and end in "/",
// frames are cyan and end in "[]" with their nested table indented below.
func printTree(w io.Writer, root *schema.Node) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	var walk func(n *schema.Node, depth int)
	walk = func(n *schema.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		switch n.Kind() {
		case schema.GroupKind:
			bold.Fprintf(w, "%s%s/\n", indent, n.Name())
			for _, c := range n.Children() {
				walk(c, depth+1)
			}
		case schema.FrameKind:
			cyan.Fprintf(w, "%s%s[]\n", indent, n.Name())
			for _, c := range n.Frame().Children() {
				walk(c, depth+1)
			}
		default:
			nullable := ""
			if n.Nullable() {
				nullable = "?"
			}
			fmt.Fprintf(w, "%s%s: %s%s\n", indent, n.Name(), n.Type(), nullable)
		}
	}
	for _, c := range root.Children() {
		walk(c, 0)
	}
}
