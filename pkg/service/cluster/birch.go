package cluster

import (
	"math"
	"sort"

	"github.com/secmon-lab/ocdcare/pkg/domain/model"
)

type vector = model.ScreeningFeatures

// subcluster is a clustering feature: point count, linear sum and sum of
// squared norms of its members
type subcluster struct {
	n          int
	linearSum  vector
	squaredSum float64
	centroid   vector
}

func (s *subcluster) add(p vector) {
	s.n++
	for i := range p {
		s.linearSum[i] += p[i]
	}
	s.squaredSum += dot(p, p)
	s.updateCentroid()
}

func (s *subcluster) updateCentroid() {
	for i := range s.linearSum {
		s.centroid[i] = s.linearSum[i] / float64(s.n)
	}
}

// radiusWith returns the squared radius the subcluster would have after
// absorbing p
func (s *subcluster) radiusWith(p vector) float64 {
	n := float64(s.n + 1)
	var c vector
	for i := range p {
		c[i] = (s.linearSum[i] + p[i]) / n
	}
	return (s.squaredSum+dot(p, p))/n - dot(c, c)
}

// buildSubclusters runs the BIRCH absorption phase over points in order.
// Each point joins its nearest subcluster when the merged radius stays
// within threshold, otherwise it starts a new subcluster.
func buildSubclusters(points []vector, threshold float64) []*subcluster {
	limit := threshold * threshold
	var subs []*subcluster

	for _, p := range points {
		nearest := nearestSubcluster(subs, p)
		if nearest >= 0 && subs[nearest].radiusWith(p) <= limit {
			subs[nearest].add(p)
			continue
		}
		s := &subcluster{}
		s.add(p)
		subs = append(subs, s)
	}
	return subs
}

// distinctSubclusters makes one subcluster per distinct point, in order of
// first appearance
func distinctSubclusters(points []vector) []*subcluster {
	index := make(map[vector]int)
	var subs []*subcluster
	for _, p := range points {
		i, ok := index[p]
		if !ok {
			i = len(subs)
			index[p] = i
			subs = append(subs, &subcluster{})
		}
		subs[i].add(p)
	}
	return subs
}

func nearestSubcluster(subs []*subcluster, p vector) int {
	best := -1
	bestDist := math.Inf(1)
	for i, s := range subs {
		if d := squaredDistance(s.centroid, p); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// wardNode is a cluster in the agglomerative hierarchy
type wardNode struct {
	size     float64
	centroid vector
	active   bool
}

type wardMerge struct {
	left, right int
	node        int
	cost        float64
}

func wardCost(a, b *wardNode) float64 {
	return a.size * b.size / (a.size + b.size) * squaredDistance(a.centroid, b.centroid)
}

// wardLabels groups centroids into k clusters by Ward linkage and returns the
// group of each centroid. Groups are numbered by first appearance.
//
// The full dendrogram is built with the nearest-neighbour chain algorithm,
// then the n-k cheapest merges are applied.
func wardLabels(centroids []vector, k int) []int {
	n := len(centroids)
	nodes := make([]*wardNode, n, 2*n)
	for i, c := range centroids {
		nodes[i] = &wardNode{size: 1, centroid: c, active: true}
	}

	merges := make([]wardMerge, 0, n)
	var chain []int
	for len(merges) < n-1 {
		if len(chain) == 0 {
			for i, nd := range nodes {
				if nd.active {
					chain = append(chain, i)
					break
				}
			}
		}

		a := chain[len(chain)-1]
		prev := -1
		bestCost := math.Inf(1)
		if len(chain) >= 2 {
			prev = chain[len(chain)-2]
			bestCost = wardCost(nodes[a], nodes[prev])
		}
		best := prev
		for j, nd := range nodes {
			if j == a || !nd.active {
				continue
			}
			if c := wardCost(nodes[a], nd); c < bestCost {
				best = j
				bestCost = c
			}
		}

		if best != prev {
			chain = append(chain, best)
			continue
		}

		chain = chain[:len(chain)-2]
		left, right := nodes[a], nodes[prev]
		merged := &wardNode{size: left.size + right.size, active: true}
		for i := range merged.centroid {
			merged.centroid[i] = (left.size*left.centroid[i] + right.size*right.centroid[i]) / merged.size
		}
		left.active = false
		right.active = false
		nodes = append(nodes, merged)
		merges = append(merges, wardMerge{left: a, right: prev, node: len(nodes) - 1, cost: bestCost})
	}

	parent := cutDendrogram(merges, len(nodes), n-k)
	root := func(i int) int {
		for parent[i] != i {
			i = parent[i]
		}
		return i
	}

	labels := make([]int, n)
	group := make(map[int]int)
	for i := 0; i < n; i++ {
		r := root(i)
		g, ok := group[r]
		if !ok {
			g = len(group)
			group[r] = g
		}
		labels[i] = g
	}
	return labels
}

// cutDendrogram applies the given number of cheapest merges and returns the parent of every node. merges must be in creation order. A
// merge is never applied before the merges that built its children, even
// when rounding makes its cost lower than theirs.
func cutDendrogram(merges []wardMerge, nodes, cuts int) []int {
	height := make([]float64, nodes)
	for i := range height {
		height[i] = math.Inf(-1)
	}
	ordered := make([]wardMerge, len(merges))
	for i, m := range merges {
		m.cost = max(m.cost, height[m.left], height[m.right])
		height[m.node] = m.cost
		ordered[i] = m
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].cost < ordered[j].cost })

	parent := make([]int, nodes)
	for i := range parent {
		parent[i] = i
	}
	for _, m := range ordered[:cuts] {
		parent[m.left] = m.node
		parent[m.right] = m.node
	}
	return parent
}

func dot(a, b vector) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func squaredDistance(a, b vector) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
