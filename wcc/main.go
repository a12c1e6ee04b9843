// Command wcc compares a real portfolio with a benchmark bought with the same money.
//
// Shell completion is installed with:
//
//	COMP_INSTALL=1 wcc
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/wealth/cmd"
	"github.com/etnz/wealth/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	completion(name).Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// predictors of the flags whose values can be guessed.
var predictors = map[string]complete.Predictor{
	"config": predict.Files("*.toml"),
	"o":      predict.Files("*"),
	"sort":   predict.Set{"value", "invest", "profit"},
}

// completion describes the command line of every subcommand.
func completion(name string) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{"config": predictors["config"]},
	}
	for _, c := range cmd.Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			p, ok := predictors[f.Name]
			switch {
			case ok:
			case isBool(f):
				p = predict.Nothing
			default:
				p = predict.Something
			}
			sub.Flags[f.Name] = p
		})
		root.Sub[c.Name()] = sub
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(append(topics, "*"))
	}
	for _, help := range []string{"help", "flags", "commands"} {
		root.Sub[help] = &complete.Command{}
	}
	return root
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
