package main

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"bean-forge/config"
	"bean-forge/internal/analyze"
	"bean-forge/internal/codegen"
	"bean-forge/internal/match"
)

var stdout io.Writer = os.Stdout

type patternArgs struct {
	Patterns []string `positional-arg-name:"PATTERN" required:"1" description:"Go package patterns"`
}

func load(opts *Options, logger *log.Logger, patterns []string) (*analyze.Graph, error) {
	graph, err := analyze.NewAnalyzer().InDir(opts.Dir).LoadPackages(patterns...)
	if err != nil {
		return nil, err
	}

	logger.Debug("packages analyzed", "packages", len(graph.Packages), "beans", len(graph.Beans))

	return graph, nil
}

type scanCommand struct {
	opts   *Options
	logger *log.Logger

	Args patternArgs `positional-args:"yes"`
}

func (c *scanCommand) Execute([]string) error {
	graph, err := load(c.opts, c.logger, c.Args.Patterns)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)

	for _, bean := range graph.Sorted() {
		pkg := bean.Named.Obj().Pkg()
		fmt.Fprintf(w, "%s\n", bean.ID)

		for _, ctor := range bean.Constructors {
			params := lo.Map(ctor.Params, func(p types.Type, _ int) string { return analyze.TypeString(p, pkg) })
			fmt.Fprintf(w, "  %s(%s)\tconstructor\t\n", ctor.Name, strings.Join(params, ", "))
		}

		for _, p := range bean.Properties {
			fmt.Fprintf(w, "  %s\t%s\t%s %s\n", p.Name, analyze.TypeString(p.Type, pkg), p.Source, access(p))
		}
	}

	return w.Flush()
}

func access(p analyze.PropertyInfo) string {
	switch {
	case p.Readable && p.Writable:
		return "rw"
	case p.Writable:
		return "w"
	default:
		return "r"
	}
}

type genCommand struct {
	opts   *Options
	logger *log.Logger

	Types       []string `short:"t" long:"type" description:"Bean to generate a command for, e.g. store.Order (repeatable, default all)"`
	Output      string   `short:"o" long:"output" default:"./fixtures" description:"Output directory"`
	Package     string   `short:"p" long:"package" default:"fixtures" description:"Package name of the generated code"`
	PackagePath string   `long:"package-path" description:"Import path of the generated package"`

	Args patternArgs `positional-args:"yes"`
}

func (c *genCommand) Execute([]string) error {
	graph, err := load(c.opts, c.logger, c.Args.Patterns)
	if err != nil {
		return err
	}

	beans, err := selectBeans(graph, c.Types)
	if err != nil {
		return err
	}

	gen := codegen.NewGenerator(codegen.Config{
		PackageName: c.Package,
		PackagePath: c.PackagePath,
	})

	files, diags, err := gen.Generate(beans)
	if err != nil {
		return err
	}

	for _, w := range diags.Warnings {
		c.logger.Warn("property left out", "type", w.Type, "property", w.Property, "reason", w.Message)
	}

	if err := codegen.WriteFiles(files, c.Output); err != nil {
		return err
	}

	c.logger.Info("commands generated", "files", len(files), "dir", c.Output)

	return nil
}

func selectBeans(graph *analyze.Graph, names []string) ([]*analyze.BeanInfo, error) {
	if len(names) == 0 {
		return graph.Sorted(), nil
	}

	shorts := lo.Map(graph.Sorted(), func(b *analyze.BeanInfo, _ int) string { return b.ID.Short() })

	var (
		beans []*analyze.BeanInfo
		errs  []error
	)

	for _, name := range names {
		bean, ok := graph.Lookup(name)
		if !ok {
			err := fmt.Errorf("unknown bean %q", name)
			if s := match.Suggest(name, shorts, 3); len(s) > 0 {
				err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(s, ", "))
			}

			errs = append(errs, err)

			continue
		}

		beans = append(beans, bean)
	}

	return beans, errors.Join(errs...)
}

type checkCommand struct {
	opts   *Options
	logger *log.Logger

	EnvFiles []string `short:"e" long:"env-file" description:"Read environment overrides from this file (repeatable)"`

	Args struct {
		Config   string   `positional-arg-name:"CONFIG" required:"yes" description:"Fixture config file"`
		Patterns []string `positional-arg-name:"PATTERN" required:"1" description:"Go package patterns"`
	} `positional-args:"yes"`
}

func (c *checkCommand) Execute([]string) error {
	cfg, err := config.Load(c.Args.Config, c.EnvFiles...)
	if err != nil {
		return err
	}

	graph, err := load(c.opts, c.logger, c.Args.Patterns)
	if err != nil {
		return err
	}

	diags := config.ValidateSources(cfg, graph)
	for _, d := range diags.All() {
		fmt.Fprintln(stdout, d.String())
	}

	if !diags.IsValid() {
		return fmt.Errorf("%s: %d errors, %d warnings", c.Args.Config, len(diags.Errors), len(diags.Warnings))
	}

	c.logger.Info("config is valid", "file", c.Args.Config, "warnings", len(diags.Warnings))

	return nil
}

type migrateCommand struct {
	logger *log.Logger

	EnvFiles []string `short:"e" long:"env-file" description:"Read environment overrides from this file (repeatable)"`

	Args struct {
		Config string `positional-arg-name:"CONFIG" description:"Fixture config file (default $BEANFORGE_CONFIG)"`
	} `positional-args:"yes"`
}

func (c *migrateCommand) Execute([]string) error {
	cfg, err := config.Load(c.Args.Config, c.EnvFiles...)
	if err != nil {
		return err
	}

	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}

	if c.logger.GetLevel() < logger.GetLevel() {
		logger.SetLevel(c.logger.GetLevel())
	}

	s, err := cfg.OpenSaver(context.Background(), logger)
	if err != nil {
		return err
	}

	if s == nil {
		return errors.New("no saver dsn configured")
	}

	defer s.Close()

	logger.Info("saver table ready", "driver", cfg.Saver.Driver, "table", cfg.Saver.Table)

	return nil
}
