package model

// FirstInteraction is the first sentence a character interacted with anyone in.
type FirstInteraction struct {
	With    string `json:"with"`
	Context string `json:"context"`
}

// NetworkStats are the graph statistics of one section.
type NetworkStats struct {
	NodeConnectivity       float64 `json:"node_connectivity"`
	AverageClustering      float64 `json:"average_clustering"`
	Components             int     `json:"no_of_cliques"`
	MostImportantCharacter string  `json:"most_important_character"`
	DegreeOfMIC            float64 `json:"degree_of_mic"`
	DegreeCentralityOfMIC  float64 `json:"degree_centrality_mic"`
	AvgDegreeCentrality    float64 `json:"avg_degree_centrality"`
}

// SectionRecord is the finalized record of one section.
// Matrix[i][j] belongs to Names[i] and Names[j].
type SectionRecord struct {
	Names  []string    `json:"names"`
	Matrix [][]float64 `json:"matrix"`
	NetworkStats
}

// Timeline is the output document of one run.
type Timeline struct {
	Book                     string                       `json:"book"`
	NumSections              int                          `json:"num_sections"`
	Sections                 []SectionRecord              `json:"sections"`
	FirstInteractionsBetween map[string]map[string]string `json:"first_interactions_between_characters"`
	FirstInteractionsOverall map[string]FirstInteraction  `json:"first_interactions_overall"`
}
