package osmxml

import "fmt"

// MalformedNumberError reports an attribute that should hold a
// numeric literal but does not parse as one.
type MalformedNumberError struct {
	Element string
	Attr    string
	Value   string
	Err     error
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("malformed number in <%s %s=%q>: %s",
		e.Element, e.Attr, e.Value, e.Err)
}

// MissingAttributeError reports an element that lacks a required
// attribute, e.g. a node without lat or a tag without v.
type MissingAttributeError struct {
	Element string
	Attr    string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("missing attribute %s on <%s>", e.Attr, e.Element)
}

// DanglingRefError reports a way that references a node ID not
// present in the document.
type DanglingRefError struct {
	WayID int64
	Ref   int64
}

func (e *DanglingRefError) Error() string {
	return fmt.Sprintf("way %d references missing node %d", e.WayID, e.Ref)
}
