package cache

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/mapconv/osmx/cache/binary"
	"github.com/mapconv/osmx/element"
)

type WaysCache struct {
	cache
}

func newWaysCache(path string) (*WaysCache, error) {
	cache := WaysCache{}
	if err := cache.open(path); err != nil {
		return nil, err
	}
	return &cache, nil
}

func (c *WaysCache) PutWay(way *element.Way) error {
	return c.put(way.ID, binary.MarshalWay(way))
}

func (c *WaysCache) PutWays(ways []element.Way) error {
	return c.db.Update(func(txn *badger.Txn) error {
		for i := range ways {
			data := binary.MarshalWay(&ways[i])
			if err := txn.Set(idToKeyBuf(ways[i].ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *WaysCache) GetWay(id int64) (*element.Way, error) {
	data, err := c.get(id)
	if err != nil {
		return nil, err
	}
	way, err := binary.UnmarshalWay(data)
	if err != nil {
		return nil, err
	}
	way.ID = id
	return way, nil
}

func (c *WaysCache) DeleteWay(id int64) error {
	return c.delete(id)
}

// Iter returns all cached ways in ID order. Points and the tag
// flags are not stored, see FillWay.
func (c *WaysCache) Iter() chan *element.Way {
	ways := make(chan *element.Way, 256)
	go func() {
		defer close(ways)
		c.db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Rewind(); it.Valid(); it.Next() {
				item := it.Item()
				err := item.Value(func(val []byte) error {
					way, err := binary.UnmarshalWay(val)
					if err != nil {
						return err
					}
					way.ID = idFromKeyBuf(item.Key())
					ways <- way
					return nil
				})
				if err != nil {
					panic(err)
				}
			}
			return nil
		})
	}()
	return ways
}
