// Package reader fills the element cache from an OSM XML file.
package reader

import (
	"time"

	"github.com/mapconv/osmx/cache"
	"github.com/mapconv/osmx/log"
	"github.com/mapconv/osmx/parser/osmxml"
	"github.com/mapconv/osmx/stats"
)

// ReadInto parses the OSM XML file at path and stores all elements
// in the cache. Way refs are kept unresolved, extract boundaries
// often clip away referenced nodes; resolution happens on export
// via cache.FillWay.
func ReadInto(path string, osmCache *cache.OSMCache) error {
	defer log.Step("Reading " + path)()

	progress := stats.NewReporter(time.Second)
	m, err := osmxml.Config{SkipDanglingRefs: true, Stats: progress}.ParseFile(path)
	progress.Stop()
	if err != nil {
		return err
	}

	if err := osmCache.Nodes.PutNodes(m.Nodes); err != nil {
		return err
	}
	if err := osmCache.Ways.PutWays(m.Ways); err != nil {
		return err
	}
	return osmCache.Relations.PutRelations(m.Relations)
}
