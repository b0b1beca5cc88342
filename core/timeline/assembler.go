package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/storygraph/core/interaction"
	"github.com/siherrmann/storygraph/helper"
	"github.com/siherrmann/storygraph/model"
)

// BookName turns a title into the book name of a timeline.
func BookName(title string) string {
	return helper.TitleCase(strings.ReplaceAll(title, "_", " "))
}

// FileName returns the name of the analysis file of a title.
func FileName(title string) string {
	return strings.ReplaceAll(title, " ", "_") + "_analysis.json"
}

// Assemble combines the finalized section records and the first interactions into a timeline.
func Assemble(title string, records []model.SectionRecord, metadata *interaction.Metadata) *model.Timeline {
	tl := &model.Timeline{
		Book:                     BookName(title),
		NumSections:              len(records),
		Sections:                 make([]model.SectionRecord, 0, len(records)),
		FirstInteractionsBetween: map[string]map[string]string{},
		FirstInteractionsOverall: map[string]model.FirstInteraction{},
	}

	for _, record := range records {
		if record.Names == nil {
			record.Names = []string{}
		}
		if record.Matrix == nil {
			record.Matrix = [][]float64{}
		}
		tl.Sections = append(tl.Sections, record)
	}

	if metadata != nil {
		c := metadata.Clone()
		tl.FirstInteractionsBetween = c.Between
		tl.FirstInteractionsOverall = c.Overall
	}
	return tl
}

// WriteJSON writes the timeline to dir and returns the file path.
func WriteJSON(dir, title string, tl *model.Timeline) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", helper.NewError("create output directory", err)
	}

	data, err := json.MarshalIndent(tl, "", "  ")
	if err != nil {
		return "", helper.NewError("marshal timeline", err)
	}

	path := filepath.Join(dir, FileName(title))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", helper.NewError("write timeline", fmt.Errorf("%s: %w", path, err))
	}
	return path, nil
}
