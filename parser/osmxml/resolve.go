package osmxml

import (
	geom "github.com/twpayne/go-geom"

	"github.com/mapconv/osmx/element"
	"github.com/mapconv/osmx/log"
)

// resolve fills the derived way fields: Points through the node ID
// lookup and the tag presence flags. The lookup is built once over
// all nodes, after the document walk is complete.
func (c Config) resolve(m *element.Map) error {
	byID := m.NodeIndex()
	dangling := 0

	for i := range m.Ways {
		way := &m.Ways[i]
		way.Points = make([]geom.Coord, 0, len(way.Refs))
		for _, ref := range way.Refs {
			idx, ok := byID[ref]
			if !ok {
				if c.SkipDanglingRefs {
					dangling++
					continue
				}
				return &DanglingRefError{WayID: way.ID, Ref: ref}
			}
			node := &m.Nodes[idx]
			way.Points = append(way.Points, geom.Coord{node.Long, node.Lat})
		}
		if c.Stats != nil {
			c.Stats.AddCoords(len(way.Points))
		}
		_, way.IsHighway = way.Tags["highway"]
		_, way.IsBuilding = way.Tags["building"]
	}

	if dangling > 0 {
		log.Printf("[warn] dropped %d way references to missing nodes", dangling)
	}
	return nil
}
