package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"colselect-go/catalog"
	"colselect-go/config"
	"colselect-go/logging"
	"colselect-go/plan"
	"colselect-go/schema"
	"colselect-go/source"
)

// env is what every command shares once flags are parsed.
type env struct {
	cfg    *config.Config
	logger log.Logger
}

func (e *env) compiler() (plan.Compiler, error) {
	m, err := schema.ParseMatcher(e.cfg.Resolve.TypeMatching)
	if err != nil {
		return plan.Compiler{}, err
	}
	return plan.Compiler{Matcher: m}, nil
}

func (e *env) opener() *source.Opener {
	return source.NewOpener(e.cfg, e.logger)
}

func (e *env) catalog() (*catalog.Catalog, error) {
	return catalog.OpenFromConfig(e.cfg, e.logger)
}

func main() {
	app := newApp(&env{logger: logging.Nop()})
	if _, err := app.Parse(os.Args[1:]); err != nil {
		exitWithErr(err)
	}
}

func newApp(e *env) *kingpin.Application {
	app := kingpin.New("colselect", "Resolve column selections against nested table schemas.")
	app.HelpFlag.Short('h')

	var (
		configFile string
		envFiles   []string
		logLevel   string
	)
	app.Flag("config", "YAML config file.").Short('c').StringVar(&configFile)
	app.Flag("env", "Env files applied after the config file.").StringsVar(&envFiles)
	app.Flag("log.level", "Overrides log.level from the config.").StringVar(&logLevel)
	app.PreAction(func(_ *kingpin.ParseContext) error {
		if configFile != "" {
			if err := config.Decode(configFile); err != nil {
				return err
			}
		}
		if err := config.LoadEnv(envFiles...); err != nil {
			return err
		}
		e.cfg = config.GetConfig()
		if logLevel != "" {
			e.cfg.Log.Level = logLevel
		}
		logger, err := logging.New(e.cfg)
		if err != nil {
			return err
		}
		e.logger = logger
		level.Debug(logger).Log("msg", "config loaded", "file", configFile, "type_matching", e.cfg.Resolve.TypeMatching)
		return nil
	})

	addTreeCommand(app, e)
	addResolveCommand(app, e)
	addSelectCommand(app, e)
	addPlanCommands(app, e)
	return app
}

func exitWithErr(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err.Error())
	os.Exit(1)
}
