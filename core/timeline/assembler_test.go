package timeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/siherrmann/storygraph/core/interaction"
	"github.com/siherrmann/storygraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookName(t *testing.T) {
	assert.Equal(t, "Great Expectations", BookName("great_expectations"))
	assert.Equal(t, "Pride And Prejudice", BookName("pride and prejudice"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Great_Expectations_analysis.json", FileName("Great Expectations"))
}

func TestAssemble(t *testing.T) {
	t.Run("Empty sections serialize as lists", func(t *testing.T) {
		tl := Assemble("book", []model.SectionRecord{{}}, nil)

		assert.Equal(t, 1, tl.NumSections)
		assert.NotNil(t, tl.Sections[0].Names)
		assert.NotNil(t, tl.Sections[0].Matrix)
		assert.NotNil(t, tl.FirstInteractionsBetween)
		assert.NotNil(t, tl.FirstInteractionsOverall)
	})

	t.Run("Metadata is copied", func(t *testing.T) {
		metadata := interaction.NewMetadata()
		metadata.Overall["Harry"] = model.FirstInteraction{With: "Sally", Context: "Harry met Sally."}

		tl := Assemble("book", nil, metadata)
		metadata.Remove("Harry")

		assert.Contains(t, tl.FirstInteractionsOverall, "Harry")
	})
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	tl := Assemble("harry and sally", []model.SectionRecord{{
		Names:  []string{"Harry", "Sally"},
		Matrix: [][]float64{{0, 1}, {1, 0}},
		NetworkStats: model.NetworkStats{
			NodeConnectivity:       1,
			Components:             1,
			MostImportantCharacter: "Sally",
			DegreeOfMIC:            1,
			DegreeCentralityOfMIC:  1,
			AvgDegreeCentrality:    1,
		},
	}}, nil)

	path, err := WriteJSON(filepath.Join(dir, "timelines"), "harry and sally", tl)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "timelines", "harry_and_sally_analysis.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"book\": \"Harry And Sally\"")

	var document map[string]any
	require.NoError(t, json.Unmarshal(data, &document))
	for _, key := range []string{"book", "num_sections", "sections", "first_interactions_between_characters", "first_interactions_overall"} {
		assert.Contains(t, document, key)
	}

	sections := document["sections"].([]any)
	require.Len(t, sections, 1)
	section := sections[0].(map[string]any)
	for _, key := range []string{"names", "matrix", "node_connectivity", "average_clustering", "no_of_cliques", "most_important_character", "degree_of_mic", "degree_centrality_mic", "avg_degree_centrality"} {
		assert.Contains(t, section, key)
	}
	assert.Equal(t, "Sally", section["most_important_character"])
}
