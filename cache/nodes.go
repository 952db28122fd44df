package cache

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/mapconv/osmx/cache/binary"
	"github.com/mapconv/osmx/element"
)

type NodesCache struct {
	cache
}

func newNodesCache(path string) (*NodesCache, error) {
	cache := NodesCache{}
	if err := cache.open(path); err != nil {
		return nil, err
	}
	return &cache, nil
}

func (p *NodesCache) PutNode(node *element.Node) error {
	return p.put(node.ID, binary.MarshalNode(node))
}

func (p *NodesCache) PutNodes(nodes []element.Node) error {
	return p.db.Update(func(txn *badger.Txn) error {
		for i := range nodes {
			data := binary.MarshalNode(&nodes[i])
			if err := txn.Set(idToKeyBuf(nodes[i].ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *NodesCache) GetNode(id int64) (*element.Node, error) {
	data, err := p.get(id)
	if err != nil {
		return nil, err
	}
	node, err := binary.UnmarshalNode(data)
	if err != nil {
		return nil, err
	}
	node.ID = id
	return node, nil
}

func (p *NodesCache) DeleteNode(id int64) error {
	return p.delete(id)
}

// Iter returns all cached nodes in ID order.
func (p *NodesCache) Iter() chan *element.Node {
	nodes := make(chan *element.Node, 256)
	go func() {
		defer close(nodes)
		p.db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Rewind(); it.Valid(); it.Next() {
				item := it.Item()
				err := item.Value(func(val []byte) error {
					node, err := binary.UnmarshalNode(val)
					if err != nil {
						return err
					}
					node.ID = idFromKeyBuf(item.Key())
					nodes <- node
					return nil
				})
				if err != nil {
					panic(err)
				}
			}
			return nil
		})
	}()
	return nodes
}
