package graph

import "math"

const (
	originValue = 10
	originSize  = 50
	minNodeSize = 25
	maxNodeSize = 40
)

type Node struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Value  int    `json:"value"`
	Image  string `json:"image"`
	Size   int    `json:"size"`
	Origin bool   `json:"origin,omitempty"`
}

type Edge struct {
	ID    string  `json:"id"`
	From  string  `json:"from"`
	To    string  `json:"to"`
	Value int     `json:"value"`
	Width float64 `json:"width"`
}

// View is what a graph widget draws: a star around the origin.
type View struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Render lays out g as nodes and edges. A counterpart's image is the one on
// its first entry.
func Render(g Graph) View {
	v := View{Nodes: []Node{{
		ID:     g.Origin,
		Label:  g.Origin,
		Value:  originValue,
		Image:  g.User.ProfileImageURL,
		Size:   originSize,
		Origin: true,
	}}}
	for _, k := range g.Keys() {
		entries := g.Engagements[k]
		n := len(entries)
		var image string
		if n > 0 {
			image = entries[0].ProfileImage
		}
		v.Nodes = append(v.Nodes, Node{ID: k, Label: k, Value: n, Image: image, Size: NodeSize(n)})
		v.Edges = append(v.Edges, Edge{ID: EdgeID(g.Origin, k), From: g.Origin, To: k, Value: n, Width: EdgeWidth(n)})
	}
	return v
}

func EdgeID(origin, counterpart string) string { return origin + "-" + counterpart }

// NodeSize grows by 2 per interaction within [25, 40].
func NodeSize(n int) int {
	return max(minNodeSize, min(maxNodeSize, minNodeSize+2*n))
}

// EdgeWidth grows logarithmically within [1, 4].
func EdgeWidth(n int) float64 {
	if n <= 0 {
		return 1
	}
	return math.Max(1, math.Min(4, math.Log(float64(n))/2+1))
}

// Delta lists what changed between two views, by id.
type Delta struct {
	AddedNodes   []string `json:"added_nodes"`
	RemovedNodes []string `json:"removed_nodes"`
	AddedEdges   []string `json:"added_edges"`
	RemovedEdges []string `json:"removed_edges"`
}

// Empty reports whether the views were equivalent by id.
func (d Delta) Empty() bool {
	return len(d.AddedNodes)+len(d.RemovedNodes)+len(d.AddedEdges)+len(d.RemovedEdges) == 0
}

func Diff(prev, next View) Delta {
	var d Delta
	d.AddedNodes, d.RemovedNodes = diffIDs(nodeIDs(prev), nodeIDs(next))
	d.AddedEdges, d.RemovedEdges = diffIDs(edgeIDs(prev), edgeIDs(next))
	return d
}

func nodeIDs(v View) []string {
	ids := make([]string, 0, len(v.Nodes))
	for _, n := range v.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func edgeIDs(v View) []string {
	ids := make([]string, 0, len(v.Edges))
	for _, e := range v.Edges {
		ids = append(ids, e.ID)
	}
	return ids
}

// diffIDs keeps the order of next for additions and of prev for removals.
func diffIDs(prev, next []string) (added, removed []string) {
	inPrev := make(map[string]struct{}, len(prev))
	for _, id := range prev {
		inPrev[id] = struct{}{}
	}
	inNext := make(map[string]struct{}, len(next))
	for _, id := range next {
		inNext[id] = struct{}{}
		if _, ok := inPrev[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if _, ok := inNext[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}
