package atlas

import (
	"github.com/coder/hnsw"

	"github.com/phantomcv/phantom/internal/faces"
)

// HNSW graph parameters, matching the library's recommended defaults.
const (
	graphMaxNeighbors = 16
	// maxCandidates caps the neighbor candidates fetched per element; the
	// epsilon filter below keeps only true neighbors.
	maxCandidates = 64
)

// Group clusters the elements' encodings with DBSCAN (Euclidean metric,
// radius Epsilon, minimum cluster size MinPoints). Neighbor candidates come
// from an HNSW graph and are verified with exact distances, so the result is
// exact up to the candidate cap. Elements that end up in no cluster are
// noise and belong to no group.
//
// On success Clusters maps cluster id to element indices, Groups lists the
// same clusters in id order and Grouped is set.
func (a *Atlas) Group() error {
	n := len(a.Elements)
	if n == 0 {
		a.Clusters = make(map[int][]int)
		a.Groups = [][]int{}
		a.Grouped = true
		return nil
	}

	graph := hnsw.NewGraph[int]()
	graph.M = graphMaxNeighbors
	graph.Ml = 1.0 / float64(graphMaxNeighbors)
	graph.Distance = hnsw.EuclideanDistance
	for i := range a.Elements {
		enc := a.Elements[i].Encoding
		graph.Add(hnsw.MakeNode(i, enc[:]))
	}

	k := maxCandidates
	if k > n {
		k = n
	}
	neighbors := func(i int) []int {
		enc := a.Elements[i].Encoding
		found := graph.Search(enc[:], k)
		out := make([]int, 0, len(found))
		for _, node := range found {
			if node.Key == i {
				continue
			}
			if faces.Compare(a.Elements[i].Encoding, a.Elements[node.Key].Encoding) <= a.Epsilon {
				out = append(out, node.Key)
			}
		}
		return out
	}

	const noise = -1
	labels := make([]int, n)
	for i := range labels {
		labels[i] = noise
	}
	visited := make([]bool, n)
	clusterID := 0

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true
		seed := neighbors(i)
		// The element itself counts towards the density threshold.
		if len(seed)+1 < a.MinPoints {
			continue
		}
		labels[i] = clusterID
		queue := append([]int(nil), seed...)
		for head := 0; head < len(queue); head++ {
			j := queue[head]
			if !visited[j] {
				visited[j] = true
				reach := neighbors(j)
				if len(reach)+1 >= a.MinPoints {
					queue = append(queue, reach...)
				}
			}
			if labels[j] == noise {
				labels[j] = clusterID
			}
		}
		clusterID++
	}

	clusters := make(map[int][]int)
	groups := make([][]int, clusterID)
	for i := range groups {
		groups[i] = []int{}
	}
	for i, label := range labels {
		if label == noise {
			continue
		}
		clusters[label] = append(clusters[label], i)
		groups[label] = append(groups[label], i)
	}

	a.Clusters = clusters
	a.Groups = groups
	a.Grouped = true
	return nil
}
