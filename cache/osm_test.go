package cache

import (
	"math"
	"testing"

	"github.com/mapconv/osmx/element"
)

func mknode(id int64, lat, long float64) element.Node {
	node := element.Node{}
	node.ID = id
	node.Lat = lat
	node.Long = long
	return node
}

func TestNodesCache(t *testing.T) {
	cache := NewOSMCache(t.TempDir())
	if err := cache.Open(); err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	node := mknode(1234, 52.51, 13.41)
	node.Tags = element.Tags{"amenity": "cafe"}
	if err := cache.Nodes.PutNode(&node); err != nil {
		t.Fatal(err)
	}

	got, err := cache.Nodes.GetNode(1234)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 1234 || got.Tags["amenity"] != "cafe" {
		t.Fatal(got)
	}
	// coords are stored as fixed-point ints
	if math.Abs(got.Lat-52.51) > 1e-6 || math.Abs(got.Long-13.41) > 1e-6 {
		t.Fatal(got)
	}

	if _, err := cache.Nodes.GetNode(99); err != NotFound {
		t.Fatal("expected NotFound, got", err)
	}

	if err := cache.Nodes.DeleteNode(1234); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Nodes.GetNode(1234); err != NotFound {
		t.Fatal("expected NotFound after delete, got", err)
	}
}

func TestWaysCacheAndFillWay(t *testing.T) {
	cache := NewOSMCache(t.TempDir())
	if err := cache.Open(); err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	nodes := []element.Node{
		mknode(1, 10.0, 20.0),
		mknode(2, 11.0, 21.0),
	}
	if err := cache.Nodes.PutNodes(nodes); err != nil {
		t.Fatal(err)
	}

	way := element.Way{}
	way.ID = 100
	way.Refs = []int64{1, 2, 1}
	way.Tags = element.Tags{"highway": "primary"}
	if err := cache.Ways.PutWay(&way); err != nil {
		t.Fatal(err)
	}

	got, err := cache.Ways.GetWay(100)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 100 || len(got.Refs) != 3 {
		t.Fatal(got)
	}
	if got.Refs[0] != 1 || got.Refs[1] != 2 || got.Refs[2] != 1 {
		t.Fatal(got.Refs)
	}

	if err := cache.FillWay(got); err != nil {
		t.Fatal(err)
	}
	if len(got.Points) != 3 || !got.IsHighway || got.IsBuilding {
		t.Fatal(got)
	}
	if math.Abs(got.Points[1][0]-21.0) > 1e-6 || math.Abs(got.Points[1][1]-11.0) > 1e-6 {
		t.Fatal(got.Points)
	}

	// way referencing an uncached node
	dangling := element.Way{}
	dangling.ID = 101
	dangling.Refs = []int64{1, 42}
	if err := cache.FillWay(&dangling); err != NotFound {
		t.Fatal("expected NotFound, got", err)
	}
}

func TestRelationsCache(t *testing.T) {
	cache := NewOSMCache(t.TempDir())
	if err := cache.Open(); err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	rel := element.Relation{}
	rel.ID = 7
	rel.Members = []element.Member{
		{ID: 100, Type: element.WayMember, Role: "outer"},
		{ID: 1, Type: element.NodeMember, Role: ""},
	}
	rel.Tags = element.Tags{"type": "multipolygon"}
	if err := cache.Relations.PutRelation(&rel); err != nil {
		t.Fatal(err)
	}

	got, err := cache.Relations.GetRelation(7)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 7 || got.Tags["type"] != "multipolygon" {
		t.Fatal(got)
	}
	if len(got.Members) != 2 {
		t.Fatal(got.Members)
	}
	if m := got.Members[0]; m.ID != 100 || m.Type != element.WayMember || m.Role != "outer" {
		t.Fatal(m)
	}
}

func TestCacheIter(t *testing.T) {
	cache := NewOSMCache(t.TempDir())
	if err := cache.Open(); err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	nodes := []element.Node{
		mknode(3, 1.0, 1.0),
		mknode(1, 2.0, 2.0),
		mknode(2, 3.0, 3.0),
	}
	if err := cache.Nodes.PutNodes(nodes); err != nil {
		t.Fatal(err)
	}

	var ids []int64
	for node := range cache.Nodes.Iter() {
		ids = append(ids, node.ID)
	}
	// iteration is in ID order, not insert order
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Fatal(ids)
	}
}
