// Package catalog holds the static program/semester/subject tree the browser
// navigates. It is loaded once at startup and never mutated afterwards.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SemesterCount is the number of semesters every program exposes.
const SemesterCount = 8

//go:embed default.yaml
var defaultCatalog []byte

var (
	ErrDuplicateProgram = errors.New("duplicate program key")
	ErrInvalidSemester  = errors.New("semester out of range")
	ErrEmptySubject     = errors.New("empty subject name")
)

// Catalog is an ordered set of programs.
type Catalog struct {
	programs []Program
	index    map[string]int
}

// Program is one academic department or track.
type Program struct {
	Key       string          `yaml:"key"`
	Name      string          `yaml:"name"`
	Icon      string          `yaml:"icon"`
	Semesters map[int][]Entry `yaml:"semesters"`
}

// Entry is either a plain subject (Elective false, Name is the subject) or an
// elective group (Name is the group label, Subjects the alternatives in order).
type Entry struct {
	Name     string
	Elective bool
	Subjects []string
}

// Plain builds a plain subject entry.
func Plain(name string) Entry {
	return Entry{Name: name}
}

// ElectiveGroup builds an elective group entry.
func ElectiveGroup(name string, subjects ...string) Entry {
	return Entry{Name: name, Elective: true, Subjects: append([]string(nil), subjects...)}
}

type electiveNode struct {
	Type     string   `yaml:"type"`
	Name     string   `yaml:"name"`
	Subjects []string `yaml:"subjects"`
}

// UnmarshalYAML accepts a bare string for plain subjects and a mapping with
// name/subjects for elective groups.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		*e = Plain(name)
		return nil
	case yaml.MappingNode:
		var raw electiveNode
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Type != "" && raw.Type != "elective" {
			return fmt.Errorf("line %d: unsupported entry type %q", node.Line, raw.Type)
		}
		*e = ElectiveGroup(raw.Name, raw.Subjects...)
		return nil
	default:
		return fmt.Errorf("line %d: subject entry must be a string or a mapping", node.Line)
	}
}

// MarshalYAML mirrors UnmarshalYAML.
func (e Entry) MarshalYAML() (interface{}, error) {
	if !e.Elective {
		return e.Name, nil
	}
	return electiveNode{Type: "elective", Name: e.Name, Subjects: e.Subjects}, nil
}

type file struct {
	Programs []Program `yaml:"programs"`
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file. An empty path yields the bundled catalog.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Programs...)
}

// New validates programs and builds a catalog preserving their order.
func New(programs ...Program) (*Catalog, error) {
	c := &Catalog{
		programs: make([]Program, 0, len(programs)),
		index:    make(map[string]int, len(programs)),
	}
	for _, p := range programs {
		p.Key = strings.TrimSpace(p.Key)
		if p.Key == "" {
			return nil, errors.New("program key is required")
		}
		if _, ok := c.index[p.Key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProgram, p.Key)
		}
		if p.Name == "" {
			p.Name = p.Key
		}
		for sem, entries := range p.Semesters {
			if sem < 1 || sem > SemesterCount {
				return nil, fmt.Errorf("%s: %w: %d", p.Key, ErrInvalidSemester, sem)
			}
			for _, entry := range entries {
				if err := entry.validate(); err != nil {
					return nil, fmt.Errorf("%s semester %d: %w", p.Key, sem, err)
				}
			}
		}
		c.index[p.Key] = len(c.programs)
		c.programs = append(c.programs, p)
	}
	return c, nil
}

func (e Entry) validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptySubject
	}
	if !e.Elective {
		return nil
	}
	for _, name := range e.Subjects {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("elective %q: %w", e.Name, ErrEmptySubject)
		}
	}
	return nil
}

// Programs returns the programs in catalog order.
func (c *Catalog) Programs() []Program {
	out := make([]Program, len(c.programs))
	copy(out, c.programs)
	return out
}

// Program looks up a program by key.
func (c *Catalog) Program(key string) (Program, bool) {
	idx, ok := c.index[key]
	if !ok {
		return Program{}, false
	}
	return c.programs[idx], true
}

// Has reports whether key names a program.
func (c *Catalog) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Entries returns the subject entries for a semester. The second value is false
// when the catalog has no list for that semester.
func (p Program) Entries(semester int) ([]Entry, bool) {
	entries, ok := p.Semesters[semester]
	if !ok {
		return nil, false
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, true
}

// ListedSemesters returns the semesters that have a subject list, ascending.
func (p Program) ListedSemesters() []int {
	sems := make([]int, 0, len(p.Semesters))
	for sem := range p.Semesters {
		sems = append(sems, sem)
	}
	sort.Ints(sems)
	return sems
}
