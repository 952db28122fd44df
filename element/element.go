package element

import (
	"fmt"

	geom "github.com/twpayne/go-geom"
)

type Tags map[string]string

func (t *Tags) String() string {
	return fmt.Sprintf("%v", (map[string]string)(*t))
}

type OSMElem struct {
	ID   int64
	Tags Tags
}

type Node struct {
	OSMElem
	Lat  float64
	Long float64
}

// Coord returns the node position as an x/y (long/lat) coordinate.
func (n *Node) Coord() geom.Coord {
	return geom.Coord{n.Long, n.Lat}
}

type Way struct {
	OSMElem
	Refs []int64
	// Points holds the resolved node coordinates for Refs, in the
	// same order. Empty until the map is post-processed.
	Points     []geom.Coord
	IsHighway  bool
	IsBuilding bool
}

func (w *Way) IsClosed() bool {
	return len(w.Refs) >= 4 && w.Refs[0] == w.Refs[len(w.Refs)-1]
}

// Geometry returns the way as a Polygon if the way is closed,
// otherwise as a LineString. Requires resolved Points.
func (w *Way) Geometry() (geom.T, error) {
	if len(w.Points) == 0 {
		return nil, fmt.Errorf("way %d has no resolved points", w.ID)
	}
	flat := make([]float64, 0, len(w.Points)*2)
	for _, p := range w.Points {
		flat = append(flat, p[0], p[1])
	}
	if w.IsClosed() {
		return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}), nil
	}
	return geom.NewLineStringFlat(geom.XY, flat), nil
}

type MemberType string

const (
	NodeMember     MemberType = "node"
	WayMember      MemberType = "way"
	RelationMember MemberType = "relation"
)

// Member references another element by type and ID. Type is copied
// verbatim from the source document and not validated against the
// known member types.
type Member struct {
	ID   int64
	Type MemberType
	Role string
}

type Relation struct {
	OSMElem
	Members []Member
}

// Map holds all elements of a parsed OSM file in document order.
type Map struct {
	Nodes     []Node
	Ways      []Way
	Relations []Relation
}

// NodeIndex returns a node ID to slice position lookup.
// If an ID occurs more than once the last occurrence wins.
func (m *Map) NodeIndex() map[int64]int {
	byID := make(map[int64]int, len(m.Nodes))
	for i := range m.Nodes {
		byID[m.Nodes[i].ID] = i
	}
	return byID
}
