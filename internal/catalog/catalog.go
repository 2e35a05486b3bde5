package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/hurricane-api/internal/models"
)

// UnknownPriority sorts subjects missing from the catalog last.
const UnknownPriority = 999

//go:embed catalog.yaml
var defaultCatalog []byte

// Entry is one catalog subject.
type Entry struct {
	Name     string             `yaml:"name" json:"name"`
	Priority int                `yaml:"priority" json:"priority"`
	Type     models.SubjectType `yaml:"-" json:"type"`
}

type document struct {
	Graded           []Entry `yaml:"graded"`
	PassFail         []Entry `yaml:"pass_fail"`
	DefaultSelection int     `yaml:"default_graded_selection"`
}

// Catalog resolves subject types and display priorities.
type Catalog struct {
	graded       []Entry
	passFail     []Entry
	index        map[string]Entry
	defaultCount int

	mu       sync.Mutex
	collator *collate.Collator
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog file, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Graded) == 0 {
		return nil, fmt.Errorf("catalog has no graded subjects")
	}

	c := &Catalog{
		index:    make(map[string]Entry, len(doc.Graded)+len(doc.PassFail)),
		collator: collate.New(language.Vietnamese),
	}
	add := func(entries []Entry, typ models.SubjectType) ([]Entry, error) {
		out := make([]Entry, 0, len(entries))
		for _, e := range entries {
			if e.Name == "" {
				return nil, fmt.Errorf("catalog entry without name")
			}
			if _, dup := c.index[e.Name]; dup {
				return nil, fmt.Errorf("duplicate catalog subject %q", e.Name)
			}
			e.Type = typ
			c.index[e.Name] = e
			out = append(out, e)
		}
		return out, nil
	}

	var err error
	if c.graded, err = add(doc.Graded, models.SubjectGraded); err != nil {
		return nil, err
	}
	if c.passFail, err = add(doc.PassFail, models.SubjectPassFail); err != nil {
		return nil, err
	}

	c.defaultCount = doc.DefaultSelection
	if c.defaultCount <= 0 || c.defaultCount > len(c.graded) {
		c.defaultCount = len(c.graded)
	}
	return c, nil
}

// Graded lists the graded subjects in priority order.
func (c *Catalog) Graded() []Entry {
	return sortedEntries(c.graded)
}

// PassFail lists the pass-fail subjects in priority order.
func (c *Catalog) PassFail() []Entry {
	return sortedEntries(c.passFail)
}

// Lookup returns the catalog entry for a subject name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.index[name]
	return e, ok
}

// TypeOf returns the subject type. Names outside the catalog are graded.
func (c *Catalog) TypeOf(name string) models.SubjectType {
	if e, ok := c.index[name]; ok {
		return e.Type
	}
	return models.SubjectGraded
}

// Priority returns the display priority of a subject name.
func (c *Catalog) Priority(name string) int {
	if e, ok := c.index[name]; ok {
		return e.Priority
	}
	return UnknownPriority
}

// DefaultSelection is the preselected subject list for a new profile.
func (c *Catalog) DefaultSelection() []string {
	graded := c.Graded()
	names := make([]string, 0, c.defaultCount+len(c.passFail))
	for _, e := range graded[:c.defaultCount] {
		names = append(names, e.Name)
	}
	for _, e := range c.PassFail() {
		names = append(names, e.Name)
	}
	return names
}

// Sort orders subjects by priority, then by Vietnamese collation of their
// names. The input slice is sorted in place.
func (c *Catalog) Sort(subjects []models.Subject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sort.SliceStable(subjects, func(i, j int) bool {
		pi, pj := c.Priority(subjects[i].Name), c.Priority(subjects[j].Name)
		if pi != pj {
			return pi < pj
		}
		return c.collator.CompareString(subjects[i].Name, subjects[j].Name) < 0
	})
}

func sortedEntries(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}
