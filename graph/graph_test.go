package graph

import (
	"strings"
	"testing"
)

func TestNew_ValidGraph(t *testing.T) {
	g, err := New([]int{1, 2, 3}, []Route{
		{1, 2, GroundShort},
		{2, 3, Rail},
	})
	if err != nil {
		t.Fatalf("New returned error for a valid graph: %v", err)
	}

	if !g.HasStop(1) || !g.HasStop(3) {
		t.Error("HasStop should report existing stops")
	}
	if g.HasStop(4) {
		t.Error("HasStop should not report a missing stop")
	}
}

func TestNew_CollectsAllViolations(t *testing.T) {
	_, err := New([]int{1, 2, 2}, []Route{
		{1, 9, GroundShort},
		{8, 2, Rail},
	})
	if err == nil {
		t.Fatal("New should fail for a malformed graph")
	}

	malformed, ok := err.(*MalformedGraphError)
	if !ok {
		t.Fatalf("expected MalformedGraphError, got %T", err)
	}

	// One duplicate stop and two dangling endpoints must all be reported.
	if len(malformed.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(malformed.Violations), malformed.Violations)
	}
	if !strings.Contains(err.Error(), "duplicate stop id 2") {
		t.Errorf("error should mention the duplicate stop, got %q", err.Error())
	}
}

func TestNew_InvalidRouteType(t *testing.T) {
	_, err := New([]int{1, 2}, []Route{{1, 2, Wildcard}})
	if err == nil {
		t.Fatal("wildcard must not be a physical edge type")
	}
}

func TestGraph_Neighbors(t *testing.T) {
	g, err := New([]int{1, 2, 3, 4}, []Route{
		{1, 2, GroundShort},
		{1, 3, GroundShort},
		{1, 3, Rail},
		{1, 4, Water},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	short := g.Neighbors(1, GroundShort)
	if len(short) != 2 {
		t.Errorf("expected 2 ground_short neighbors, got %v", short)
	}

	// Stop 3 is reachable by two route types but must appear once per type.
	rail := g.Neighbors(1, Rail)
	if len(rail) != 1 || rail[0] != 3 {
		t.Errorf("expected rail neighbor [3], got %v", rail)
	}

	any := g.Neighbors(1, Wildcard)
	if len(any) != 3 {
		t.Errorf("wildcard should reach every neighbor once, got %v", any)
	}

	if g.Neighbors(99, GroundShort) != nil {
		t.Error("Neighbors of a missing stop should be nil")
	}
}

func TestGraph_ConnectedAndRouteTypes(t *testing.T) {
	g, err := New([]int{1, 2, 3}, []Route{
		{1, 2, GroundShort},
		{2, 3, Water},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !g.Connected(1, 2, GroundShort) {
		t.Error("stops 1 and 2 should be connected by ground_short")
	}
	if !g.Connected(2, 1, GroundShort) {
		t.Error("routes must be stored in both directions")
	}
	if g.Connected(1, 2, Rail) {
		t.Error("stops 1 and 2 are not connected by rail")
	}
	if !g.Connected(2, 3, Wildcard) {
		t.Error("wildcard should match any physical route")
	}

	types := g.RouteTypesAt(2)
	if len(types) != 2 {
		t.Errorf("expected 2 route types at stop 2, got %v", types)
	}

	if g.Degree(2) != 2 {
		t.Errorf("expected degree 2 at stop 2, got %d", g.Degree(2))
	}
}

func TestDefaultBoard(t *testing.T) {
	g, err := DefaultBoard()
	if err != nil {
		t.Fatalf("DefaultBoard failed validation: %v", err)
	}

	for _, id := range FugitiveStarts {
		if !g.HasStop(id) {
			t.Errorf("fugitive start %d missing from board", id)
		}
		for _, p := range PursuerStarts {
			if p == id {
				t.Errorf("start pools must be disjoint, %d appears in both", id)
			}
		}
	}

	// Every stop must be reachable by at least ground-short so nobody spawns
	// on an island.
	for _, id := range g.Stops() {
		if len(g.Neighbors(id, GroundShort)) == 0 {
			t.Errorf("stop %d has no ground_short neighbors", id)
		}
	}
}

func TestParseRouteType(t *testing.T) {
	for _, rt := range []RouteType{GroundShort, GroundLong, Rail, Water, Wildcard} {
		parsed, ok := ParseRouteType(rt.String())
		if !ok || parsed != rt {
			t.Errorf("round trip failed for %v", rt)
		}
	}
	if _, ok := ParseRouteType("zeppelin"); ok {
		t.Error("unknown route type name should not parse")
	}
}
