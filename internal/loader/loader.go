// Package loader implements the load_config driver (spec §6): it reads
// the primary configuration file, parses it into a fresh
// ruleset.EngineState, and walks any .load directives the parse
// collected, resolving relative paths against the directory of the
// including file and re-invoking the parser for each (spec §4.B "Load
// directives").
package loader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Danondso/mkhd/internal/parser"
	"github.com/Danondso/mkhd/internal/ruleset"
)

// LoadConfig parses path (and everything it transitively .loads) into a
// brand-new EngineState. On a parse error in the primary file it returns
// the error and a nil state, leaving no active state for the caller to
// adopt (spec §6 "On parse error, leaves no active state"). kc resolves
// characters outside the built-in ASCII table; it may be nil. logger
// receives warnings for load-directive I/O errors, which are
// non-fatal — the state built from the files that did parse is kept.
func LoadConfig(path string, kc parser.KeycodeMap, logger *log.Logger) (*ruleset.EngineState, error) {
	state := ruleset.NewEngineState()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	loads, err := parser.Parse(string(data), path, state, kc)
	if err != nil {
		return nil, err
	}

	loadDirectives(filepath.Dir(path), loads, state, kc, logger)
	return state, nil
}

// loadDirectives resolves and recursively parses every .load directive
// collected from one file. A load directive whose file cannot be opened
// or parsed is a warn-and-skip (spec §7): the partial state already
// built from sibling files is retained.
func loadDirectives(baseDir string, loads []parser.LoadDirective, state *ruleset.EngineState, kc parser.KeycodeMap, logger *log.Logger) {
	for _, ld := range loads {
		childPath := ld.Path
		if !filepath.IsAbs(childPath) {
			childPath = filepath.Join(baseDir, childPath)
		}

		data, err := os.ReadFile(childPath)
		if err != nil {
			logf(logger, "load %s: %v, skipping", childPath, err)
			continue
		}
		childLoads, err := parser.Parse(string(data), childPath, state, kc)
		if err != nil {
			logf(logger, "load %s: %v, skipping", childPath, err)
			continue
		}
		loadDirectives(filepath.Dir(childPath), childLoads, state, kc, logger)
	}
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
