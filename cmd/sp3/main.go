// Command sp3 inspects and manipulates IGS Standard Product 3 files.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gnss-tools/sp3/pkg/sp3"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Version:   "v0.1.0",
		Compiled:  time.Now(),
		HelpName:  "sp3",
		Usage:     "inspect and process SP3 orbit and clock files",
		ArgsUsage: "<file>",
		Commands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "print a header summary",
				ArgsUsage: "<file>",
				Action:    inspectAction,
			},
			{
				Name:      "resolve-dynamics",
				Usage:     "fill in missing velocity and clock drift, then write the result",
				ArgsUsage: "<file> <output>",
				Action:    resolveDynamicsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func inspectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("inspect needs exactly one file", 1)
	}

	rec, err := sp3.OpenGzip(c.Args().Get(0))
	if err != nil {
		return err
	}

	if err := rec.Header.Validate(); err != nil {
		return fmt.Errorf("sp3: invalid header: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "version:       %s\n", rec.Header.Version)
	fmt.Fprintf(c.App.Writer, "data type:     %s\n", rec.Header.DataType)
	fmt.Fprintf(c.App.Writer, "release epoch: %s\n", rec.Header.ReleaseEpoch)
	fmt.Fprintf(c.App.Writer, "agency:        %s\n", rec.Header.Agency)
	fmt.Fprintf(c.App.Writer, "constellation: %s\n", rec.Header.Constellation)
	fmt.Fprintf(c.App.Writer, "orbit type:    %s\n", rec.Header.OrbitType)
	fmt.Fprintf(c.App.Writer, "satellites:    %d\n", len(rec.Header.Satellites))
	fmt.Fprintf(c.App.Writer, "entries:       %d\n", rec.Store.Len())

	return nil
}

func resolveDynamicsAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("resolve-dynamics needs an input and an output file", 1)
	}

	rec, err := sp3.OpenGzip(c.Args().Get(0))
	if err != nil {
		return err
	}

	upgraded := sp3.ResolveDynamicsMut(rec)
	fmt.Fprintf(c.App.Writer, "dynamics upgraded: %t\n", upgraded)

	return sp3.SaveGzip(c.Args().Get(1), rec)
}
