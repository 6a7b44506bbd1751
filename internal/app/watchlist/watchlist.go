// Package watchlist resolves which symbols a batch ingestion run should cover.
package watchlist

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the YAML document read by the ingest command.
//
//	symbols:
//	  - AAPL
//	  - 7203.T
type File struct {
	Symbols []string `yaml:"symbols"`
}

// SymbolLister returns the symbols already tracked in the store.
type SymbolLister interface {
	ListSymbols(ctx context.Context) ([]string, error)
}

// Load parses a watchlist file.
func Load(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse watchlist %s: %w", path, err)
	}
	return clean(f.Symbols), nil
}

// Resolve picks the symbols in priority order: a watchlist file, then
// command-line arguments, then every stock already stored.
func Resolve(ctx context.Context, path string, args []string, stored SymbolLister) ([]string, error) {
	if path != "" {
		return Load(path)
	}
	if len(args) > 0 {
		return clean(args), nil
	}
	symbols, err := stored.ListSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load symbols: %w", err)
	}
	return symbols, nil
}

// clean trims whitespace and drops blanks. Case is preserved.
func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
