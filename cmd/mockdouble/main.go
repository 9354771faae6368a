package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/elefevre/golang-mock-tools/internal/gen"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func main() {
	log.SetFlags(0)

	if err := App().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "mockdouble",
		Usage:     "Generate recording test doubles for Go interfaces",
		ArgsUsage: "[package patterns | interface patterns]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "flag mode: name of the generated double",
			},
			&cli.StringFlag{
				Name:    "destination",
				Aliases: []string{"d"},
				Usage:   "flag mode: file the double is generated into",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot get working directory: %v", err)
	}

	name := c.String("name")
	destination := c.String("destination")

	// Without flags, the arguments are package patterns scanned for
	// marker functions. With flags, they are {package-path}.{Interface}
	// patterns naming what the double implements.
	if name == "" && destination == "" {
		return gen.Generate(c.Context, wd, c.Args().Slice())
	}

	if name == "" || destination == "" {
		return errors.New("name and destination flags are required together in flag mode")
	}

	return gen.GenerateInterface(c.Context, wd, name, destination, c.Args().Slice())
}
