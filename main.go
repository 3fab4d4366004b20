// Sanctuary Randomizer generates randomized worlds from declarative Lua
// game data.
// Usage: sanctrando [--version] [--plain] [--check] [--options <file>] [--seed <n>] [--out <dir>] <data_directory>
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Gtaray/sanctuary-randomizer/cli"
	"github.com/Gtaray/sanctuary-randomizer/engine"
	"github.com/Gtaray/sanctuary-randomizer/loader"
	"github.com/Gtaray/sanctuary-randomizer/options"
	"github.com/Gtaray/sanctuary-randomizer/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// itemIDBase is the first client-visible item id. Location ids live in a
// separate range starting at loader.LocationIDBase.
const itemIDBase = 1

func main() {
	plain := false
	check := false
	var dataDir string
	var optionsFile string
	var outDir string
	var seedOverride *int64

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("sanctrando %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--check":
			check = true
		case "--options":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--options requires a file path\n")
				os.Exit(1)
			}
			i++
			optionsFile = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid seed %q\n", args[i])
				os.Exit(1)
			}
			seedOverride = &n
		case "--out":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--out requires a directory\n")
				os.Exit(1)
			}
			i++
			outDir = args[i]
		default:
			if dataDir == "" {
				dataDir = args[i]
			}
		}
	}

	if dataDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: sanctrando [--version] [--plain] [--check] [--options <file>] [--seed <n>] [--out <dir>] <data_directory>\n")
		os.Exit(1)
	}

	opts := options.Default()
	if optionsFile != "" {
		loaded, err := options.Load(optionsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading options: %v\n", err)
			os.Exit(1)
		}
		opts = loaded
	}
	if seedOverride != nil {
		opts.Seed = *seedOverride
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid options: %v\n", err)
		os.Exit(1)
	}

	// Load and compile the Lua game data.
	store, _, err := loader.Load(dataDir, itemIDBase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game data: %v\n", err)
		os.Exit(1)
	}

	if check {
		fmt.Printf("%s: %d items, %d monsters, %d regions, %d locations, %d encounters\n",
			dataDir, len(store.Items), len(store.Monsters), len(store.Regions),
			len(store.Locations), len(store.Encounters))
		return
	}

	gen := engine.New(store, opts)
	var worlds []*engine.World
	for player := 1; player <= opts.Players; player++ {
		w, err := gen.Generate(player)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := gen.Fill(w); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		gen.ResolveHints(w)
		worlds = append(worlds, w)
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, w := range worlds {
			path := filepath.Join(outDir, fmt.Sprintf("player_%d.json", w.Player))
			if err := engine.WritePayload(path, gen.BuildPayload(w)); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
	}

	// Use the plain writer if --plain or stdout is not a terminal.
	if plain || !isTerminal() {
		writer := cli.New(store, opts)
		writer.WriteSummary()
		for _, w := range worlds {
			writer.WriteSpoiler(w)
			writer.WriteEncounters(w)
			writer.WriteHints(w)
		}
		return
	}

	if err := tui.Run(store, opts, worlds); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
