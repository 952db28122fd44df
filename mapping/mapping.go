// Package mapping assigns parsed ways to named classes based on
// their tag keys. The built-in default carries the two classes the
// map model derives flags for, highway and building. A YAML mapping
// file can define additional classes for export filtering:
//
//	classes:
//	  highway: [highway]
//	  building: [building]
//	  water: [waterway, natural]
package mapping

import (
	"io/ioutil"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/mapconv/osmx/element"
)

type Mapping struct {
	Classes map[string][]string `yaml:"classes"`
}

func Default() *Mapping {
	return &Mapping{Classes: map[string][]string{
		"highway":  {"highway"},
		"building": {"building"},
	}}
}

func FromFile(filename string) (*Mapping, error) {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	m, err := New(b)
	if err != nil {
		return nil, errors.Wrapf(err, "mapping file %s", filename)
	}
	return m, nil
}

func New(b []byte) (*Mapping, error) {
	mapping := Mapping{}
	if err := yaml.Unmarshal(b, &mapping); err != nil {
		return nil, errors.Wrap(err, "parsing mapping")
	}
	if len(mapping.Classes) == 0 {
		return nil, errors.New("mapping defines no classes")
	}
	for name, keys := range mapping.Classes {
		if len(keys) == 0 {
			return nil, errors.Errorf("class %s has no tag keys", name)
		}
	}
	return &mapping, nil
}

// MatchWay reports whether the way tags carry any key of class.
func (m *Mapping) MatchWay(class string, tags element.Tags) bool {
	for _, key := range m.Classes[class] {
		if _, ok := tags[key]; ok {
			return true
		}
	}
	return false
}

// WayClasses returns all classes matching the way tags, sorted by name.
func (m *Mapping) WayClasses(tags element.Tags) []string {
	var result []string
	for name := range m.Classes {
		if m.MatchWay(name, tags) {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

// ClassNames returns all configured class names, sorted.
func (m *Mapping) ClassNames() []string {
	names := make([]string, 0, len(m.Classes))
	for name := range m.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
