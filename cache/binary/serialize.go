// Package binary holds the compact encoding for cached elements.
// Coordinates are stored as fixed-point uint32, way refs are
// delta-packed before varint encoding.
package binary

import (
	bin "encoding/binary"

	"github.com/pkg/errors"

	"github.com/mapconv/osmx/element"
)

const coordFactor float64 = 11930464.7083 // ((2<<31)-1)/360.0

func CoordToInt(coord float64) uint32 {
	return uint32((coord + 180.0) * coordFactor)
}

func IntToCoord(coord uint32) float64 {
	return float64(coord)/coordFactor - 180.0
}

func deltaPack(data []int64) {
	if len(data) < 2 {
		return
	}
	lastVal := data[0]
	for i := 1; i < len(data); i++ {
		data[i], lastVal = data[i]-lastVal, data[i]
	}
}

func deltaUnpack(data []int64) {
	if len(data) < 2 {
		return
	}
	for i := 1; i < len(data); i++ {
		data[i] = data[i] + data[i-1]
	}
}

func MarshalNode(node *element.Node) []byte {
	b := make([]byte, 0, 16+16*len(node.Tags))
	b = bin.AppendUvarint(b, uint64(CoordToInt(node.Long)))
	b = bin.AppendUvarint(b, uint64(CoordToInt(node.Lat)))
	return appendTags(b, node.Tags)
}

func UnmarshalNode(data []byte) (*element.Node, error) {
	r := reader{data: data}
	long := r.uvarint()
	lat := r.uvarint()
	tags := r.tags()
	if r.err != nil {
		return nil, r.err
	}
	node := &element.Node{}
	node.Long = IntToCoord(uint32(long))
	node.Lat = IntToCoord(uint32(lat))
	node.Tags = tags
	return node, nil
}

func MarshalWay(way *element.Way) []byte {
	refs := make([]int64, len(way.Refs))
	copy(refs, way.Refs)
	deltaPack(refs)

	b := make([]byte, 0, 8+8*len(refs)+16*len(way.Tags))
	b = bin.AppendUvarint(b, uint64(len(refs)))
	for _, ref := range refs {
		b = bin.AppendVarint(b, ref)
	}
	return appendTags(b, way.Tags)
}

func UnmarshalWay(data []byte) (*element.Way, error) {
	r := reader{data: data}
	n := r.uvarint()
	refs := make([]int64, 0, n)
	for i := uint64(0); i < n; i++ {
		refs = append(refs, r.varint())
	}
	tags := r.tags()
	if r.err != nil {
		return nil, r.err
	}
	deltaUnpack(refs)
	way := &element.Way{}
	if len(refs) > 0 {
		way.Refs = refs
	}
	way.Tags = tags
	return way, nil
}

func MarshalRelation(rel *element.Relation) []byte {
	b := make([]byte, 0, 8+32*len(rel.Members)+16*len(rel.Tags))
	b = bin.AppendUvarint(b, uint64(len(rel.Members)))
	for _, m := range rel.Members {
		b = bin.AppendVarint(b, m.ID)
		b = appendString(b, string(m.Type))
		b = appendString(b, m.Role)
	}
	return appendTags(b, rel.Tags)
}

func UnmarshalRelation(data []byte) (*element.Relation, error) {
	r := reader{data: data}
	n := r.uvarint()
	members := make([]element.Member, 0, n)
	for i := uint64(0); i < n; i++ {
		member := element.Member{}
		member.ID = r.varint()
		member.Type = element.MemberType(r.string())
		member.Role = r.string()
		members = append(members, member)
	}
	tags := r.tags()
	if r.err != nil {
		return nil, r.err
	}
	rel := &element.Relation{}
	if len(members) > 0 {
		rel.Members = members
	}
	rel.Tags = tags
	return rel, nil
}

func appendString(b []byte, s string) []byte {
	b = bin.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendTags(b []byte, tags element.Tags) []byte {
	b = bin.AppendUvarint(b, uint64(len(tags)))
	for k, v := range tags {
		b = appendString(b, k)
		b = appendString(b, v)
	}
	return b
}

var errShortBuffer = errors.New("unexpected end of cache record")

// reader decodes from a cache record, keeping the first error.
// Accessors return zero values after an error.
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := bin.Uvarint(r.data[r.pos:])
	if n <= 0 {
		r.err = errShortBuffer
		return 0
	}
	r.pos += n
	return v
}

func (r *reader) varint() int64 {
	if r.err != nil {
		return 0
	}
	v, n := bin.Varint(r.data[r.pos:])
	if n <= 0 {
		r.err = errShortBuffer
		return 0
	}
	r.pos += n
	return v
}

func (r *reader) string() string {
	n := r.uvarint()
	if r.err != nil {
		return ""
	}
	if r.pos+int(n) > len(r.data) {
		r.err = errShortBuffer
		return ""
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s
}

func (r *reader) tags() element.Tags {
	n := r.uvarint()
	if n == 0 || r.err != nil {
		return nil
	}
	tags := make(element.Tags, n)
	for i := uint64(0); i < n; i++ {
		k := r.string()
		v := r.string()
		if r.err != nil {
			return nil
		}
		tags[k] = v
	}
	return tags
}
