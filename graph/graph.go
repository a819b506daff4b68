// graph/graph.go
package graph

import (
	"fmt"
	"strings"
)

// RouteType is the category of a route and of the ticket that rides it.
type RouteType int

const (
	GroundShort RouteType = iota
	GroundLong
	Rail
	Water
	// Wildcard rides any physical route but may only be used by the
	// fugitive, consuming a wildcard ticket.
	Wildcard
)

// OrdinaryRouteTypes are the physical route categories a board may contain.
// Wildcard is a ticket category, never an edge category.
var OrdinaryRouteTypes = []RouteType{GroundShort, GroundLong, Rail, Water}

func (t RouteType) String() string {
	switch t {
	case GroundShort:
		return "ground_short"
	case GroundLong:
		return "ground_long"
	case Rail:
		return "rail"
	case Water:
		return "water"
	case Wildcard:
		return "wildcard"
	default:
		return fmt.Sprintf("route_type(%d)", int(t))
	}
}

// ParseRouteType maps a wire name back to a RouteType.
func ParseRouteType(s string) (RouteType, bool) {
	switch s {
	case "ground_short":
		return GroundShort, true
	case "ground_long":
		return GroundLong, true
	case "rail":
		return Rail, true
	case "water":
		return Water, true
	case "wildcard":
		return Wildcard, true
	default:
		return 0, false
	}
}

// Route is one typed edge between two stops, as supplied to the builder.
type Route struct {
	A, B int
	Type RouteType
}

type edge struct {
	neighbor int
	kind     RouteType
}

// Graph is the immutable transit board: an arena of stops indexed by id with
// per-stop adjacency lists. It is shared read-only by every room.
type Graph struct {
	adjacency map[int][]edge
}

// MalformedGraphError collects every construction violation so operators can
// fix board data in one pass.
type MalformedGraphError struct {
	Violations []string
}

func (e *MalformedGraphError) Error() string {
	return fmt.Sprintf("malformed graph: %s", strings.Join(e.Violations, "; "))
}

// New builds a graph from stop ids and routes. Both directions of every route
// are stored for O(1) neighbor lookup. Returns a MalformedGraphError listing
// all duplicate stops, dangling endpoints and invalid route types found.
func New(stops []int, routes []Route) (*Graph, error) {
	var violations []string

	adjacency := make(map[int][]edge, len(stops))
	for _, id := range stops {
		if _, dup := adjacency[id]; dup {
			violations = append(violations, fmt.Sprintf("duplicate stop id %d", id))
			continue
		}
		adjacency[id] = nil
	}

	for _, r := range routes {
		ok := true
		if r.Type < GroundShort || r.Type > Water {
			violations = append(violations, fmt.Sprintf("route %d-%d has invalid type %d", r.A, r.B, int(r.Type)))
			ok = false
		}
		if _, exists := adjacency[r.A]; !exists {
			violations = append(violations, fmt.Sprintf("route %d-%d references missing stop %d", r.A, r.B, r.A))
			ok = false
		}
		if _, exists := adjacency[r.B]; !exists {
			violations = append(violations, fmt.Sprintf("route %d-%d references missing stop %d", r.A, r.B, r.B))
			ok = false
		}
		if !ok {
			continue
		}
		adjacency[r.A] = append(adjacency[r.A], edge{neighbor: r.B, kind: r.Type})
		adjacency[r.B] = append(adjacency[r.B], edge{neighbor: r.A, kind: r.Type})
	}

	if len(violations) > 0 {
		return nil, &MalformedGraphError{Violations: violations}
	}
	return &Graph{adjacency: adjacency}, nil
}

// HasStop reports whether the stop id exists on the board.
func (g *Graph) HasStop(id int) bool {
	_, exists := g.adjacency[id]
	return exists
}

// Neighbors returns the stops reachable from the given stop over routes of
// the given type. Wildcard matches any route type.
func (g *Graph) Neighbors(stop int, routeType RouteType) []int {
	edges, exists := g.adjacency[stop]
	if !exists {
		return nil
	}

	seen := make(map[int]bool)
	var result []int
	for _, e := range edges {
		if routeType != Wildcard && e.kind != routeType {
			continue
		}
		if seen[e.neighbor] {
			continue
		}
		seen[e.neighbor] = true
		result = append(result, e.neighbor)
	}
	return result
}

// Connected reports whether a route of the given type directly links the two
// stops. Wildcard matches any route type.
func (g *Graph) Connected(from, to int, routeType RouteType) bool {
	for _, e := range g.adjacency[from] {
		if e.neighbor != to {
			continue
		}
		if routeType == Wildcard || e.kind == routeType {
			return true
		}
	}
	return false
}

// RouteTypesAt returns the set of route types serving a stop.
func (g *Graph) RouteTypesAt(stop int) []RouteType {
	seen := make(map[RouteType]bool)
	var result []RouteType
	for _, e := range g.adjacency[stop] {
		if seen[e.kind] {
			continue
		}
		seen[e.kind] = true
		result = append(result, e.kind)
	}
	return result
}

// Degree returns the number of edges at a stop. Display hinting only, the
// rules never consult it.
func (g *Graph) Degree(stop int) int {
	return len(g.adjacency[stop])
}

// Stops returns every stop id on the board.
func (g *Graph) Stops() []int {
	result := make([]int, 0, len(g.adjacency))
	for id := range g.adjacency {
		result = append(result, id)
	}
	return result
}
