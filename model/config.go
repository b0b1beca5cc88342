package model

import (
	"fmt"
	"regexp"
)

// Config holds the options of a single timeline run.
type Config struct {
	// Sectioning
	ChapterPattern    string `json:"chapter_pattern,omitempty"` // Regex splitting the book into chapters, empty splits by paragraphs
	NumSections       int    `json:"num_sections"`              // Target section count when splitting by paragraphs
	DropBlankSections bool   `json:"drop_blank_sections"`       // Remove sections without any text

	// Characters
	Narrator string `json:"narrator,omitempty"` // Real name of a first person narrator ("I")

	// Pruning
	Pruned     bool    `json:"pruned"`
	Percentile float64 `json:"percentile"` // 0-100, characters below this percentile of interaction weight are removed

	// Analysis
	SparseEdges bool `json:"sparse_edges"` // Leave out graph edges for pairs without interactions
	Workers    int  `json:"workers"`     // Sections analysed in parallel

	Quiet bool `json:"quiet"`
}

// DefaultConfig returns the configuration used by the CLI without flags.
func DefaultConfig() Config {
	return Config{
		NumSections: 10,
		Pruned:      true,
		Percentile:  50,
		Workers:     4,
	}
}

// Validate checks the configuration and compiles the chapter pattern.
// It returns nil for the pattern if none is set.
func (c Config) Validate() (*regexp.Regexp, error) {
	if c.Percentile < 0 || c.Percentile > 100 {
		return nil, fmt.Errorf("percentile must be between 0 and 100, got %v", c.Percentile)
	}
	if c.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.ChapterPattern == "" {
		if c.NumSections <= 0 {
			return nil, fmt.Errorf("number of sections must be positive, got %d", c.NumSections)
		}
		return nil, nil
	}

	pattern, err := regexp.Compile(c.ChapterPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid chapter pattern: %w", err)
	}
	return pattern, nil
}
