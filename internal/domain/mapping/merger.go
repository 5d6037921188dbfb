package mapping

import "errors"

// ErrInvalidMapping indicates a persisted mapping holding empty source codes
// or empty target identifiers.
var ErrInvalidMapping = errors.New("mapping: collection holds empty source or target")

// Warning reports a source entity whose resolved target does not exist on the
// platform side. Warnings are non-fatal: the export proceeds with identity
// fallback for the entry.
type Warning struct {
	Source string
	Target string
}

// Merger reconciles a persisted mapping with the live set of target-side
// entities, producing a complete collection covering every source entity.
type Merger struct{}

// NewMerger creates a Merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Resolve starts from the persisted mapping, adds an identity entry for every
// source entity that has none, and reports as a non-fatal warning every source
// whose resolved target is absent from the live target set.
//
// Resolve is idempotent: merging the same inputs twice yields a collection
// whose serialized form is byte-identical.
func (m *Merger) Resolve(sources []string, targets []string, persisted *Collection) (*Collection, []Warning, error) {
	if persisted == nil {
		persisted = NewCollection(0)
	}
	if !persisted.IsValid() {
		return nil, nil, ErrInvalidMapping
	}

	resolved := NewCollection(persisted.Priority())
	for _, e := range persisted.entries {
		resolved.Add(e.Source, e.Target)
	}
	for _, source := range sources {
		if !resolved.HasSource(source) {
			resolved.Add(source, source)
		}
	}

	known := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		known[t] = struct{}{}
	}

	var warnings []Warning
	for _, source := range sources {
		target := resolved.TargetFor(source)
		if _, ok := known[target]; !ok {
			warnings = append(warnings, Warning{Source: source, Target: target})
		}
	}
	return resolved, warnings, nil
}

// Merge combines several collections into one. For sources present in more
// than one collection the entry from the higher-priority collection wins;
// ties keep the earlier argument's entry. Entry order follows the arguments.
func Merge(collections ...*Collection) *Collection {
	merged := NewCollection(0)
	winner := make(map[string]int)
	for _, c := range collections {
		if c == nil {
			continue
		}
		for _, e := range c.entries {
			if p, ok := winner[e.Source]; ok && p >= c.priority {
				continue
			}
			winner[e.Source] = c.priority
			merged.Add(e.Source, e.Target)
		}
	}
	return merged
}
