package graph

import (
	"context"
	"fmt"
	"math"

	"github.com/siherrmann/storygraph/model"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"
)

// ScaleFactor multiplies the normalized interaction weights into edge weights.
const ScaleFactor = 10

// AnalyzeFunc computes the network statistics of one section.
// matrix[i][j] belongs to names[i] and names[j].
type AnalyzeFunc func(ctx context.Context, matrix [][]float64, names []string) (*model.NetworkStats, error)

// DefaultAnalyzer creates an analyzer backed by gonum.
// Every pair of characters is connected, pairs without interactions by an edge
// of weight zero. With sparseEdges those pairs get no edge.
func DefaultAnalyzer(sparseEdges bool) AnalyzeFunc {
	return func(ctx context.Context, matrix [][]float64, names []string) (*model.NetworkStats, error) {
		g, err := BuildGraph(matrix, names, sparseEdges)
		if err != nil {
			return nil, err
		}
		return Analyze(ctx, g, names)
	}
}

// BuildGraph builds the weighted undirected interaction graph.
// Node IDs are the indexes into names, the weight of {i, j} is
// (matrix[i][j] + matrix[j][i]) * ScaleFactor.
func BuildGraph(matrix [][]float64, names []string, sparseEdges bool) (*simple.WeightedUndirectedGraph, error) {
	if len(matrix) != len(names) {
		return nil, fmt.Errorf("matrix has %d rows but there are %d names", len(matrix), len(names))
	}
	for i, row := range matrix {
		if len(row) != len(names) {
			return nil, fmt.Errorf("matrix row %d has %d columns but there are %d names", i, len(row), len(names))
		}
	}

	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := range names {
		g.AddNode(simple.Node(int64(i)))
	}
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			weight := (matrix[i][j] + matrix[j][i]) * ScaleFactor
			if weight <= 0 && sparseEdges {
				continue
			}
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(int64(i)), simple.Node(int64(j)), weight))
		}
	}
	return g, nil
}

// Analyze computes the statistics of a graph whose node IDs index into names.
func Analyze(ctx context.Context, g *simple.WeightedUndirectedGraph, names []string) (*model.NetworkStats, error) {
	stats := &model.NetworkStats{}
	n := len(names)
	if n == 0 {
		return stats, nil
	}

	// Degree centrality and most important character
	mic := -1
	var micWeight, centralitySum float64
	for i := range names {
		centrality := degreeCentrality(g, int64(i), n)
		centralitySum += centrality

		w := weightedDegree(g, int64(i))
		if mic == -1 || w > micWeight || (w == micWeight && names[i] > names[mic]) {
			mic, micWeight = i, w
		}
	}
	stats.MostImportantCharacter = names[mic]
	stats.DegreeOfMIC = float64(g.From(int64(mic)).Len())
	stats.DegreeCentralityOfMIC = degreeCentrality(g, int64(mic), n)
	stats.AvgDegreeCentrality = centralitySum / float64(n)

	// Connectivity and clustering per non trivial component
	components := topo.ConnectedComponents(g)
	stats.Components = len(components)

	var connectivity, clustering []float64
	for _, component := range components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(component) < 2 {
			continue
		}
		connectivity = append(connectivity, averageNodeConnectivity(g, component))
		clustering = append(clustering, averageClustering(g, component))
	}
	stats.NodeConnectivity = mean(connectivity)
	stats.AverageClustering = mean(clustering)

	return stats, nil
}

func degreeCentrality(g graph.Undirected, id int64, n int) float64 {
	if n == 1 {
		return 1
	}
	return float64(g.From(id).Len()) / float64(n-1)
}

func weightedDegree(g *simple.WeightedUndirectedGraph, id int64) float64 {
	var sum float64
	neighbors := g.From(id)
	for neighbors.Next() {
		w, _ := g.Weight(id, neighbors.Node().ID())
		sum += w
	}
	return sum
}

// averageNodeConnectivity is the mean local node connectivity over all
// unordered node pairs of a component. Local node connectivity is the max flow
// on the node split digraph where every node has capacity one.
func averageNodeConnectivity(g *simple.WeightedUndirectedGraph, component []graph.Node) float64 {
	// Node i of the component becomes 2i (in) and 2i+1 (out).
	local := make(map[int64]int64, len(component))
	for i, node := range component {
		local[node.ID()] = int64(i)
	}

	split := simple.NewWeightedDirectedGraph(0, 0)
	for i := range component {
		split.AddNode(simple.Node(2 * int64(i)))
		split.AddNode(simple.Node(2*int64(i) + 1))
	}
	for i, node := range component {
		in, out := simple.Node(2*int64(i)), simple.Node(2*int64(i)+1)
		split.SetWeightedEdge(split.NewWeightedEdge(in, out, 1))

		neighbors := g.From(node.ID())
		for neighbors.Next() {
			j := local[neighbors.Node().ID()]
			split.SetWeightedEdge(split.NewWeightedEdge(out, simple.Node(2*j), 1))
		}
	}

	var sum float64
	var pairs int
	for i := range component {
		for j := i + 1; j < len(component); j++ {
			source := simple.Node(2*int64(i) + 1)
			target := simple.Node(2 * int64(j))
			sum += math.Round(network.MaxFlowDinic(split, source, target, -1))
			pairs++
		}
	}
	return sum / float64(pairs)
}

// averageClustering is the mean weighted clustering coefficient of a component.
// The coefficient of u is the geometric mean of the normalized weights of every
// triangle through u, divided by deg(u)(deg(u)-1)/2.
func averageClustering(g *simple.WeightedUndirectedGraph, component []graph.Node) float64 {
	maxWeight := 0.0
	for _, node := range component {
		neighbors := g.From(node.ID())
		for neighbors.Next() {
			w, _ := g.Weight(node.ID(), neighbors.Node().ID())
			maxWeight = math.Max(maxWeight, w)
		}
	}
	if maxWeight == 0 {
		maxWeight = 1
	}
	normalized := func(x, y int64) float64 {
		w, _ := g.Weight(x, y)
		return w / maxWeight
	}

	var sum float64
	for _, node := range component {
		u := node.ID()
		neighbors := graph.NodesOf(g.From(u))
		degree := len(neighbors)
		if degree < 2 {
			continue
		}

		var triangles float64
		for a := 0; a < degree; a++ {
			for b := a + 1; b < degree; b++ {
				v, w := neighbors[a].ID(), neighbors[b].ID()
				if !g.HasEdgeBetween(v, w) {
					continue
				}
				triangles += math.Cbrt(normalized(u, v) * normalized(u, w) * normalized(v, w))
			}
		}
		sum += 2 * triangles / float64(degree*(degree-1))
	}
	return sum / float64(len(component))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
