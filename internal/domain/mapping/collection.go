package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ---------------------------------------------------------------------------
// Entry / Collection
// ---------------------------------------------------------------------------

// Entry maps one source code to one target identifier.
type Entry struct {
	Source string
	Target string
}

// Collection is an ordered bidirectional dictionary between source codes and
// target identifiers. Source codes are unique; lookups that miss fall back to
// identity resolution and never fail. A Collection is mutated only while a
// merger configures it and is read-only during record processing.
type Collection struct {
	entries  []Entry
	bySource map[string]int
	priority int
}

// NewCollection creates an empty collection with the given merge priority.
func NewCollection(priority int) *Collection {
	return &Collection{
		entries:  make([]Entry, 0),
		bySource: make(map[string]int),
		priority: priority,
	}
}

// Add inserts a source→target entry. Adding an existing source updates its
// target in place, preserving the original insertion position.
func (c *Collection) Add(source, target string) {
	if i, ok := c.bySource[source]; ok {
		c.entries[i].Target = target
		return
	}
	c.bySource[source] = len(c.entries)
	c.entries = append(c.entries, Entry{Source: source, Target: target})
}

// TargetFor resolves the target identifier for a source code. A source with
// no entry resolves to itself.
func (c *Collection) TargetFor(source string) string {
	if i, ok := c.bySource[source]; ok {
		return c.entries[i].Target
	}
	return source
}

// SourceFor resolves the source code for a target identifier. When several
// entries share the target the first by insertion order wins; a target with
// no entry resolves to itself.
func (c *Collection) SourceFor(target string) string {
	for _, e := range c.entries {
		if e.Target == target {
			return e.Source
		}
	}
	return target
}

// HasSource returns true if an explicit entry exists for the source code.
func (c *Collection) HasSource(source string) bool {
	_, ok := c.bySource[source]
	return ok
}

// AllSources returns the source codes in insertion order.
func (c *Collection) AllSources() []string {
	sources := make([]string, len(c.entries))
	for i, e := range c.entries {
		sources[i] = e.Source
	}
	return sources
}

// AllTargets returns the target identifiers in insertion order.
func (c *Collection) AllTargets() []string {
	targets := make([]string, len(c.entries))
	for i, e := range c.entries {
		targets[i] = e.Target
	}
	return targets
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	return len(c.entries)
}

// Priority returns the merge priority. When two collections carry an entry
// for the same source, the higher priority wins.
func (c *Collection) Priority() int {
	return c.priority
}

// IsValid returns true only if every source code and every target identifier
// is non-empty. Collections holding empty strings must be rejected before
// use.
func (c *Collection) IsValid() bool {
	for _, e := range c.entries {
		if e.Source == "" || e.Target == "" {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// ToMap returns the entries as a source→target map, the persisted form of a
// mapping.
func (c *Collection) ToMap() map[string]string {
	m := make(map[string]string, len(c.entries))
	for _, e := range c.entries {
		m[e.Source] = e.Target
	}
	return m
}

// Serialize encodes the collection as JSON. Encoding goes through a map with
// sorted keys, so two collections holding the same entries serialize to
// byte-identical output regardless of insertion order.
func (c *Collection) Serialize() ([]byte, error) {
	return json.Marshal(c.ToMap())
}

// Decode builds a collection from its persisted JSON form. The canonical
// form is an object of source→target pairs. Legacy single-value
// configuration (a bare scalar or null) decodes to the empty mapping.
func Decode(raw []byte, priority int) (*Collection, error) {
	c := NewCollection(priority)
	if len(raw) == 0 {
		return c, nil
	}

	// A JSON null also unmarshals cleanly into the map, leaving it nil; only a
	// real object takes the ordered-pairs path.
	var pairs map[string]string
	if err := json.Unmarshal(raw, &pairs); err == nil && pairs != nil {
		// Rebuild insertion order deterministically from the serialized key
		// order so decode(serialize(x)) round-trips byte-identically.
		ordered, err := orderedKeys(raw)
		if err != nil {
			return nil, fmt.Errorf("mapping: decode: %w", err)
		}
		for _, source := range ordered {
			c.Add(source, pairs[source])
		}
		return c, nil
	}

	var scalar any
	if err := json.Unmarshal(raw, &scalar); err != nil {
		return nil, fmt.Errorf("mapping: decode: %w", err)
	}
	switch scalar.(type) {
	case nil, string, float64, bool:
		// Legacy single-value configuration carries no source→target pair.
		return c, nil
	default:
		return nil, fmt.Errorf("mapping: decode: unsupported mapping form %T", scalar)
	}
}

// orderedKeys extracts the object keys of a JSON document in document order.
func orderedKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		keys = append(keys, key)

		// Skip the value.
		var discard any
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
