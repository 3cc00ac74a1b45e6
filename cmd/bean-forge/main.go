// Package main provides the CLI entrypoint for bean-forge.
//
// bean-forge works on the sources of bean packages:
//   - scan lists beans with their properties and constructors
//   - gen writes typed fluent commands for beans
//   - check validates a fixture config against the analyzed beans
//   - migrate creates the table of the configured SQL saver
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Options are shared by all commands.
type Options struct {
	Verbose bool   `short:"v" long:"verbose" description:"Log debug messages"`
	Dir     string `short:"C" long:"dir" description:"Resolve package patterns in this directory"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts Options

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "bean-forge"})

	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.ShortDescription = "bean-forge"
	parser.LongDescription = "Test fixture tooling for Go beans."
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if opts.Verbose {
			logger.SetLevel(log.DebugLevel)
		}

		if cmd == nil {
			return nil
		}

		return cmd.Execute(args)
	}

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"scan", "List beans", "List the beans of the packages with their properties.", &scanCommand{opts: &opts, logger: logger}},
		{"gen", "Generate commands", "Write typed fluent commands for beans.", &genCommand{opts: &opts, logger: logger}},
		{"check", "Check a config", "Validate a fixture config against the beans of the packages.", &checkCommand{opts: &opts, logger: logger}},
		{"migrate", "Create the saver table", "Connect the configured SQL saver and create its table.", &migrateCommand{logger: logger}},
	}

	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			logger.Error("failed to register command", "command", c.name, "err", err)
			return 2
		}
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) {
			if fe.Type == flags.ErrHelp {
				fmt.Fprintln(stdout, fe.Message)
				return 0
			}

			logger.Error(fe.Message)

			return 2
		}

		logger.Error(err)

		return 1
	}

	return 0
}
