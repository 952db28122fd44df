// Package cache stores parsed elements on disk so extracts can be
// exported without re-parsing. Each element kind lives in its own
// Badger store under a shared cache directory, keyed by ID.
package cache

import (
	bin "encoding/binary"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	geom "github.com/twpayne/go-geom"

	"github.com/mapconv/osmx/element"
)

var NotFound = errors.New("not found")

type OSMCache struct {
	dir       string
	Nodes     *NodesCache
	Ways      *WaysCache
	Relations *RelationsCache
	opened    bool
}

func NewOSMCache(dir string) *OSMCache {
	return &OSMCache{dir: dir}
}

func (c *OSMCache) Open() error {
	err := os.MkdirAll(c.dir, 0755)
	if err != nil {
		return err
	}
	c.Nodes, err = newNodesCache(filepath.Join(c.dir, "nodes"))
	if err != nil {
		return err
	}
	c.Ways, err = newWaysCache(filepath.Join(c.dir, "ways"))
	if err != nil {
		c.Close()
		return err
	}
	c.Relations, err = newRelationsCache(filepath.Join(c.dir, "relations"))
	if err != nil {
		c.Close()
		return err
	}
	c.opened = true
	return nil
}

func (c *OSMCache) Close() {
	if c.Nodes != nil {
		c.Nodes.close()
		c.Nodes = nil
	}
	if c.Ways != nil {
		c.Ways.close()
		c.Ways = nil
	}
	if c.Relations != nil {
		c.Relations.close()
		c.Relations = nil
	}
	c.opened = false
}

func (c *OSMCache) Exists() bool {
	if c.opened {
		return true
	}
	for _, name := range []string{"nodes", "ways", "relations"} {
		if _, err := os.Stat(filepath.Join(c.dir, name)); !os.IsNotExist(err) {
			return true
		}
	}
	return false
}

func (c *OSMCache) Remove() error {
	if c.opened {
		c.Close()
	}
	for _, name := range []string{"nodes", "ways", "relations"} {
		if err := os.RemoveAll(filepath.Join(c.dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// FillWay resolves the way refs against the nodes store and fills
// the derived fields, like the parser does for in-memory maps.
// Returns NotFound if a referenced node is not cached.
func (c *OSMCache) FillWay(way *element.Way) error {
	way.Points = make([]geom.Coord, 0, len(way.Refs))
	for _, ref := range way.Refs {
		node, err := c.Nodes.GetNode(ref)
		if err != nil {
			return err
		}
		way.Points = append(way.Points, node.Coord())
	}
	_, way.IsHighway = way.Tags["highway"]
	_, way.IsBuilding = way.Tags["building"]
	return nil
}

type cache struct {
	db *badger.DB
}

func (c *cache) open(path string) error {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return errors.Wrapf(err, "opening cache %s", path)
	}
	c.db = db
	return nil
}

func (c *cache) close() {
	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
}

func (c *cache) get(id int64) ([]byte, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idToKeyBuf(id))
		if err == badger.ErrKeyNotFound {
			return NotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *cache) put(id int64, data []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(idToKeyBuf(id), data)
	})
}

func (c *cache) delete(id int64) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(idToKeyBuf(id))
	})
}

func idToKeyBuf(id int64) []byte {
	b := make([]byte, 8)
	bin.BigEndian.PutUint64(b, uint64(id))
	return b
}

func idFromKeyBuf(buf []byte) int64 {
	return int64(bin.BigEndian.Uint64(buf))
}
