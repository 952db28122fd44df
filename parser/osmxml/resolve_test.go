package osmxml

import (
	"strings"
	"testing"
)

func TestResolvePointsMatchRefs(t *testing.T) {
	doc := `<osm>
		<node id="1" lat="10.0" lon="20.0"/>
		<node id="2" lat="11.0" lon="21.0"/>
		<node id="3" lat="12.0" lon="22.0"/>
		<way id="100"><nd ref="3"/><nd ref="1"/><nd ref="3"/></way>
	</osm>`

	m, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	way := m.Ways[0]
	if len(way.Points) != len(way.Refs) {
		t.Fatal(way)
	}
	byID := m.NodeIndex()
	for i, ref := range way.Refs {
		node := m.Nodes[byID[ref]]
		if way.Points[i][0] != node.Long || way.Points[i][1] != node.Lat {
			t.Fatal(i, way.Points[i], node)
		}
	}
}

func TestResolveDanglingRef(t *testing.T) {
	doc := `<osm>
		<node id="1" lat="10.0" lon="20.0"/>
		<way id="100"><nd ref="1"/><nd ref="42"/></way>
	</osm>`

	m, err := Parse(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected error for dangling ref")
	}
	dangling, ok := err.(*DanglingRefError)
	if !ok {
		t.Fatalf("expected DanglingRefError, got %T: %v", err, err)
	}
	if dangling.WayID != 100 || dangling.Ref != 42 {
		t.Fatal(dangling)
	}
	if m != nil {
		t.Fatal("no map expected on failure")
	}

	// with SkipDanglingRefs the unresolved ref is dropped from Points
	m, err = Config{SkipDanglingRefs: true}.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	way := m.Ways[0]
	if len(way.Refs) != 2 {
		t.Fatal(way.Refs)
	}
	if len(way.Points) != 1 || way.Points[0][1] != 10.0 {
		t.Fatal(way.Points)
	}
}

func TestResolveDuplicateNodeID(t *testing.T) {
	doc := `<osm>
		<node id="1" lat="10.0" lon="20.0"/>
		<node id="1" lat="50.0" lon="60.0"/>
		<way id="100"><nd ref="1"/></way>
	</osm>`

	m, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	// last occurrence wins
	if p := m.Ways[0].Points[0]; p[0] != 60.0 || p[1] != 50.0 {
		t.Fatal(p)
	}
}

func TestResolveTagFlags(t *testing.T) {
	doc := `<osm>
		<node id="1" lat="0.0" lon="0.0"/>
		<way id="100"><nd ref="1"/><tag k="highway" v="residential"/></way>
		<way id="101"><nd ref="1"/><tag k="building" v="yes"/></way>
		<way id="102"><nd ref="1"/><tag k="waterway" v="stream"/></way>
	</osm>`

	m, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if w := m.Ways[0]; !w.IsHighway || w.IsBuilding {
		t.Fatal(w)
	}
	if w := m.Ways[1]; w.IsHighway || !w.IsBuilding {
		t.Fatal(w)
	}
	if w := m.Ways[2]; w.IsHighway || w.IsBuilding {
		t.Fatal(w)
	}
}
