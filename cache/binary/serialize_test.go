package binary

import (
	"testing"

	"github.com/mapconv/osmx/element"
)

func TestDeltaPackedRefs(t *testing.T) {
	way := &element.Way{}
	way.Refs = []int64{890166659, 890166658, 890166659, 890166660}

	data := MarshalWay(way)
	got, err := UnmarshalWay(data)
	if err != nil {
		t.Fatal(err)
	}
	// order and duplicates survive the delta packing
	if len(got.Refs) != 4 {
		t.Fatal(got.Refs)
	}
	for i, ref := range way.Refs {
		if got.Refs[i] != ref {
			t.Fatal(got.Refs)
		}
	}
	// marshalling must not mutate the input
	if way.Refs[1] != 890166658 {
		t.Fatal(way.Refs)
	}
}

func TestCoordPrecision(t *testing.T) {
	for _, coord := range []float64{0.0, -180.0, 179.9999999, 52.5200081, -13.4} {
		diff := IntToCoord(CoordToInt(coord)) - coord
		if diff > 1e-7 || diff < -1e-7 {
			t.Fatal(coord, diff)
		}
	}
}

func TestUnmarshalTruncated(t *testing.T) {
	way := &element.Way{}
	way.Refs = []int64{1, 2, 3}
	way.Tags = element.Tags{"highway": "primary"}
	data := MarshalWay(way)

	if _, err := UnmarshalWay(data[:len(data)-4]); err == nil {
		t.Fatal("expected error for truncated record")
	}
	if _, err := UnmarshalNode([]byte{}); err == nil {
		t.Fatal("expected error for empty record")
	}
}
