// Command patchgrid inspects WSI patch coordinate sets: it writes the
// coordinate table, estimates the grid pitch and renders the grid.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/patchgrid/internal/version"
)

func main() {
	flag.Usage = func() { printUsage(os.Stderr) }
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	var err error
	switch command {
	case "render":
		err = runRender(args, os.Stdout)
	case "info":
		err = runInfo(args, os.Stdout)
	case "import":
		err = runImport(args, os.Stdout)
	case "runs":
		err = runRuns(args, os.Stdout)
	case "delete":
		err = runDelete(args, os.Stdout)
	case "migrate":
		err = runMigrate(args, os.Stdout)
	case "version":
		fmt.Println(version.String())
	case "help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `patchgrid - patch coordinate grid inspector

Usage: patchgrid <command> [options]

Commands:
  render     Write the coordinate table, estimate the pitch and draw the grid
  info       Print coordinate count, ranges, first entries and pitch
  import     Load a coordinate source into the SQLite store
  runs       List recorded render runs for a slide, or one run by -id
  delete     Remove a slide's coordinates from the SQLite store
  migrate    Manage the store schema (up, down, version)
  version    Show build information
  help       Show this help message

Sources are chosen by extension: .json ("coords" field), .csv (x,y table),
.db/.sqlite (store, optional "#slide" suffix) and .h5/.hdf5 ("coords"
dataset, needs a build with -tags hdf5).

Examples:
  patchgrid render -source slide.h5 -image grid.png -annotate
  patchgrid render -demo -mode rectangles -image demo.svg
  patchgrid render -config config/patchgrid.example.json -dpi 150
  patchgrid import -db coords.db -source slide.json
  patchgrid migrate -db coords.db version`)
}
