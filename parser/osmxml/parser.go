package osmxml

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mapconv/osmx/element"
	"github.com/mapconv/osmx/log"
	"github.com/mapconv/osmx/stats"
)

// Config controls optional parser behavior. The zero value parses
// strictly: any way reference without a matching node aborts the
// parse with a DanglingRefError.
type Config struct {
	// SkipDanglingRefs drops way references without a matching node
	// from the resolved points instead of failing.
	SkipDanglingRefs bool
	// Stats receives element counts during parsing if set.
	Stats *stats.Statistics
}

// ParseFile parses the OSM XML file at path and returns the map with
// all derived way fields resolved.
func ParseFile(path string) (*element.Map, error) {
	return Config{}.ParseFile(path)
}

// Parse parses an OSM XML document from r, see ParseFile.
func Parse(r io.Reader) (*element.Map, error) {
	return Config{}.Parse(r)
}

func (c Config) ParseFile(path string) (*element.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening OSM file")
	}
	defer f.Close()
	return c.Parse(f)
}

func (c Config) Parse(r io.Reader) (*element.Map, error) {
	m, err := c.parse(r)
	if err != nil {
		return nil, err
	}
	if err := c.resolve(m); err != nil {
		return nil, err
	}
	return m, nil
}

// parse walks the document and dispatches the direct children of the
// osm root. Unknown elements (bounds, etc.) are skipped with their
// whole subtree.
func (c Config) parse(r io.Reader) (*element.Map, error) {
	decoder := xml.NewDecoder(r)
	m := &element.Map{}
	inOsm := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading XML")
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !inOsm {
			if start.Name.Local == "osm" {
				inOsm = true
			} else if err := decoder.Skip(); err != nil {
				return nil, errors.Wrap(err, "reading XML")
			}
			continue
		}
		switch start.Name.Local {
		case "node":
			node, err := parseNode(decoder, start)
			if err != nil {
				return nil, err
			}
			m.Nodes = append(m.Nodes, *node)
			if c.Stats != nil {
				c.Stats.AddNodes(1)
			}
		case "way":
			way, err := parseWay(decoder, start)
			if err != nil {
				return nil, err
			}
			m.Ways = append(m.Ways, *way)
			if c.Stats != nil {
				c.Stats.AddWays(1)
			}
		case "relation":
			rel, err := parseRelation(decoder, start)
			if err != nil {
				return nil, err
			}
			m.Relations = append(m.Relations, *rel)
			if c.Stats != nil {
				c.Stats.AddRelations(1)
			}
		default:
			log.Printf("[debug] ignoring element <%s>", start.Name.Local)
			if err := decoder.Skip(); err != nil {
				return nil, errors.Wrap(err, "reading XML")
			}
		}
	}
	return m, nil
}

func parseNode(d *xml.Decoder, start xml.StartElement) (*element.Node, error) {
	node := &element.Node{}
	var hasID, hasLat, hasLon bool
	for _, attr := range start.Attr {
		var err error
		switch attr.Name.Local {
		case "id":
			node.ID, err = parseID("node", "id", attr.Value)
			hasID = true
		case "lat":
			node.Lat, err = parseFloat("node", "lat", attr.Value)
			hasLat = true
		case "lon":
			node.Long, err = parseFloat("node", "lon", attr.Value)
			hasLon = true
		}
		if err != nil {
			return nil, err
		}
	}
	switch {
	case !hasID:
		return nil, &MissingAttributeError{"node", "id"}
	case !hasLat:
		return nil, &MissingAttributeError{"node", "lat"}
	case !hasLon:
		return nil, &MissingAttributeError{"node", "lon"}
	}

	tags := element.Tags{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, errors.Wrap(err, "reading node")
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if tok.Name.Local == "tag" {
				k, v, err := parseTag(tok)
				if err != nil {
					return nil, err
				}
				tags[k] = v
			}
			if err := d.Skip(); err != nil {
				return nil, errors.Wrap(err, "reading node")
			}
		case xml.EndElement:
			if len(tags) > 0 {
				node.Tags = tags
			}
			return node, nil
		}
	}
}

func parseWay(d *xml.Decoder, start xml.StartElement) (*element.Way, error) {
	way := &element.Way{}
	var hasID bool
	for _, attr := range start.Attr {
		if attr.Name.Local == "id" {
			id, err := parseID("way", "id", attr.Value)
			if err != nil {
				return nil, err
			}
			way.ID = id
			hasID = true
		}
	}
	if !hasID {
		return nil, &MissingAttributeError{"way", "id"}
	}

	tags := element.Tags{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, errors.Wrap(err, "reading way")
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "nd":
				ref, err := parseNd(tok)
				if err != nil {
					return nil, err
				}
				way.Refs = append(way.Refs, ref)
			case "tag":
				k, v, err := parseTag(tok)
				if err != nil {
					return nil, err
				}
				tags[k] = v
			}
			if err := d.Skip(); err != nil {
				return nil, errors.Wrap(err, "reading way")
			}
		case xml.EndElement:
			if len(tags) > 0 {
				way.Tags = tags
			}
			return way, nil
		}
	}
}

func parseRelation(d *xml.Decoder, start xml.StartElement) (*element.Relation, error) {
	rel := &element.Relation{}
	var hasID bool
	for _, attr := range start.Attr {
		if attr.Name.Local == "id" {
			id, err := parseID("relation", "id", attr.Value)
			if err != nil {
				return nil, err
			}
			rel.ID = id
			hasID = true
		}
	}
	if !hasID {
		return nil, &MissingAttributeError{"relation", "id"}
	}

	tags := element.Tags{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, errors.Wrap(err, "reading relation")
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "member":
				member, err := parseMember(tok)
				if err != nil {
					return nil, err
				}
				rel.Members = append(rel.Members, member)
			case "tag":
				k, v, err := parseTag(tok)
				if err != nil {
					return nil, err
				}
				tags[k] = v
			}
			if err := d.Skip(); err != nil {
				return nil, errors.Wrap(err, "reading relation")
			}
		case xml.EndElement:
			if len(tags) > 0 {
				rel.Tags = tags
			}
			return rel, nil
		}
	}
}

func parseTag(start xml.StartElement) (string, string, error) {
	var k, v string
	var hasK, hasV bool
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "k":
			k = attr.Value
			hasK = true
		case "v":
			v = attr.Value
			hasV = true
		}
	}
	if !hasK {
		return "", "", &MissingAttributeError{"tag", "k"}
	}
	if !hasV {
		return "", "", &MissingAttributeError{"tag", "v"}
	}
	return k, v, nil
}

func parseNd(start xml.StartElement) (int64, error) {
	for _, attr := range start.Attr {
		if attr.Name.Local == "ref" {
			return parseID("nd", "ref", attr.Value)
		}
	}
	return 0, &MissingAttributeError{"nd", "ref"}
}

func parseMember(start xml.StartElement) (element.Member, error) {
	member := element.Member{}
	var hasType, hasRef bool
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "type":
			member.Type = element.MemberType(attr.Value)
			hasType = true
		case "ref":
			id, err := parseID("member", "ref", attr.Value)
			if err != nil {
				return member, err
			}
			member.ID = id
			hasRef = true
		case "role":
			// empty roles are common, only a missing ref or type
			// is an error
			member.Role = attr.Value
		}
	}
	if !hasType {
		return member, &MissingAttributeError{"member", "type"}
	}
	if !hasRef {
		return member, &MissingAttributeError{"member", "ref"}
	}
	return member, nil
}

// parseID parses OSM IDs and refs. IDs are non-negative, the parsed
// value is kept as int64 to match the rest of the OSM ecosystem.
func parseID(elem, attr, value string) (int64, error) {
	id, err := strconv.ParseUint(value, 10, 63)
	if err != nil {
		return 0, &MalformedNumberError{elem, attr, value, err}
	}
	return int64(id), nil
}

func parseFloat(elem, attr, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &MalformedNumberError{elem, attr, value, err}
	}
	return v, nil
}
