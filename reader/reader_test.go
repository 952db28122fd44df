package reader

import (
	"testing"

	"github.com/mapconv/osmx/cache"
)

func TestReadInto(t *testing.T) {
	osmCache := cache.NewOSMCache(t.TempDir())
	if err := osmCache.Open(); err != nil {
		t.Fatal(err)
	}
	defer osmCache.Close()

	if err := ReadInto("testdata/town.osm", osmCache); err != nil {
		t.Fatal(err)
	}

	node, err := osmCache.Nodes.GetNode(3)
	if err != nil {
		t.Fatal(err)
	}
	if node.Tags["highway"] != "crossing" {
		t.Fatal(node)
	}

	way, err := osmCache.Ways.GetWay(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(way.Refs) != 3 {
		t.Fatal(way)
	}
	if err := osmCache.FillWay(way); err != nil {
		t.Fatal(err)
	}
	if len(way.Points) != 3 || !way.IsHighway {
		t.Fatal(way)
	}

	rel, err := osmCache.Relations.GetRelation(20)
	if err != nil {
		t.Fatal(err)
	}
	if len(rel.Members) != 1 || rel.Tags["type"] != "route" {
		t.Fatal(rel)
	}

	if err := ReadInto("testdata/missing.osm", osmCache); err == nil {
		t.Fatal("expected error for missing file")
	}
}
