package graph

import (
	"errors"
	"fmt"

	"replygraph/internal/util"
)

var (
	ErrOriginNotRemovable = errors.New("origin node cannot be removed")
	ErrUnknownCommand     = errors.New("unknown graph command")
)

type CommandKind string

const CommandRemoveNodes CommandKind = "remove_nodes"

// Command is a state change requested by a viewer.
type Command struct {
	Kind  CommandKind `json:"kind"`
	Nodes []string    `json:"nodes"`
}

// Apply returns the graph that results from cmd. g is never modified.
func Apply(g Graph, cmd Command) (Graph, error) {
	switch cmd.Kind {
	case CommandRemoveNodes:
		return RemoveNodes(g, cmd.Nodes...)
	default:
		return g, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
}

// RemoveNodes drops counterpart keys and, with them, their edges to the origin.
// The origin is skipped; asking to remove only the origin is an error.
// Unknown keys are ignored.
func RemoveNodes(g Graph, nodes ...string) (Graph, error) {
	drop := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if util.SameHandle(n, g.Origin) {
			continue
		}
		drop[n] = struct{}{}
	}
	if len(nodes) > 0 && len(drop) == 0 {
		return g, ErrOriginNotRemovable
	}

	out := Graph{
		Origin:      g.Origin,
		User:        g.User,
		Engagements: make(map[string][]Entry, len(g.Engagements)),
	}
	for _, k := range g.Keys() {
		if _, gone := drop[k]; gone {
			continue
		}
		out.Engagements[k] = append([]Entry(nil), g.Engagements[k]...)
		out.Order = append(out.Order, k)
	}
	return out, nil
}
