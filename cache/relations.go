package cache

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/mapconv/osmx/cache/binary"
	"github.com/mapconv/osmx/element"
)

type RelationsCache struct {
	cache
}

func newRelationsCache(path string) (*RelationsCache, error) {
	cache := RelationsCache{}
	if err := cache.open(path); err != nil {
		return nil, err
	}
	return &cache, nil
}

func (c *RelationsCache) PutRelation(rel *element.Relation) error {
	return c.put(rel.ID, binary.MarshalRelation(rel))
}

func (c *RelationsCache) PutRelations(rels []element.Relation) error {
	return c.db.Update(func(txn *badger.Txn) error {
		for i := range rels {
			data := binary.MarshalRelation(&rels[i])
			if err := txn.Set(idToKeyBuf(rels[i].ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *RelationsCache) GetRelation(id int64) (*element.Relation, error) {
	data, err := c.get(id)
	if err != nil {
		return nil, err
	}
	rel, err := binary.UnmarshalRelation(data)
	if err != nil {
		return nil, err
	}
	rel.ID = id
	return rel, nil
}

func (c *RelationsCache) DeleteRelation(id int64) error {
	return c.delete(id)
}

// Iter returns all cached relations in ID order.
func (c *RelationsCache) Iter() chan *element.Relation {
	rels := make(chan *element.Relation, 256)
	go func() {
		defer close(rels)
		c.db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Rewind(); it.Valid(); it.Next() {
				item := it.Item()
				err := item.Value(func(val []byte) error {
					rel, err := binary.UnmarshalRelation(val)
					if err != nil {
						return err
					}
					rel.ID = idFromKeyBuf(item.Key())
					rels <- rel
					return nil
				})
				if err != nil {
					panic(err)
				}
			}
			return nil
		})
	}()
	return rels
}
