package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"

	"colselect-go/catalog"
	"colselect-go/plan"
)

// planCommand manages the saved plans of the catalog.
type planCommand struct {
	e    *env
	name string
	file string
}

func addPlanCommands(app *kingpin.Application, e *env) {
	cmd := &planCommand{e: e}
	pc := app.Command("plan", "Manage saved plans.")

	save := pc.Command("save", "Store a YAML plan under a name.")
	save.Arg("name", "Plan name.").Required().StringVar(&cmd.name)
	save.Arg("file", "YAML plan file.").Required().ExistingFileVar(&cmd.file)
	save.Action(cmd.withCatalog(cmd.save))

	get := pc.Command("get", "Print a saved plan as YAML.")
	get.Arg("name", "Plan name.").Required().StringVar(&cmd.name)
	get.Action(cmd.withCatalog(cmd.get))

	list := cmd.withCatalog(cmd.list)
	pc.Command("list", "List saved plan names.").Action(func(c *kingpin.ParseContext) error {
		// listing must not create an empty catalog file
		if !catalog.Exists(cmd.e.cfg.Catalog.Path) {
			return nil
		}
		return list(c)
	})

	del := pc.Command("delete", "Remove a saved plan.")
	del.Arg("name", "Plan name.").Required().StringVar(&cmd.name)
	del.Action(cmd.withCatalog(cmd.delete))
}

func (cmd *planCommand) withCatalog(fn func(*catalog.Catalog, io.Writer) error) kingpin.Action {
	return func(_ *kingpin.ParseContext) error {
		cat, err := cmd.e.catalog()
		if err != nil {
			return err
		}
		defer cat.Close()
		return fn(cat, os.Stdout)
	}
}

func (cmd *planCommand) save(cat *catalog.Catalog, w io.Writer) error {
	n, err := plan.DecodeFile(cmd.file)
	if err != nil {
		return err
	}
	if err := cat.Put(cmd.name, n); err != nil {
		return err
	}
	level.Info(cmd.e.logger).Log("msg", "plan saved", "name", cmd.name, "catalog", cmd.e.cfg.Catalog.Path)
	fmt.Fprintf(w, "saved %s\n", cmd.name)
	return nil
}

func (cmd *planCommand) get(cat *catalog.Catalog, w io.Writer) error {
	n, err := cat.Get(cmd.name)
	if err != nil {
		return err
	}
	return plan.Encode(w, n)
}

func (cmd *planCommand) list(cat *catalog.Catalog, w io.Writer) error {
	names, err := cat.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

func (cmd *planCommand) delete(cat *catalog.Catalog, w io.Writer) error {
	if err := cat.Delete(cmd.name); err != nil {
		return err
	}
	fmt.Fprintf(w, "deleted %s\n", cmd.name)
	return nil
}
