package ontology

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Ontology groups skill terms into buckets ("languages", "cloud", ...).
// Buckets only matter for maintaining the file; scoring works off the
// flattened vocabulary.
type Ontology struct {
	buckets map[string][]string
	vocab   []string
}

// Load reads a skills ontology from a JSON file mapping bucket names to
// lists of skill terms.
func Load(path string) (*Ontology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ontology file %q: %w", path, err)
	}

	var buckets map[string][]string
	if err := json.Unmarshal(data, &buckets); err != nil {
		return nil, fmt.Errorf("parsing ontology file %q: %w", path, err)
	}

	return New(buckets), nil
}

// New builds an Ontology from bucket data, deduplicating the vocabulary.
func New(buckets map[string][]string) *Ontology {
	seen := make(map[string]bool)
	var vocab []string
	for _, terms := range buckets {
		for _, term := range terms {
			if term == "" || seen[term] {
				continue
			}
			seen[term] = true
			vocab = append(vocab, term)
		}
	}
	sort.Strings(vocab)

	return &Ontology{buckets: buckets, vocab: vocab}
}

// Vocab returns the sorted, deduplicated list of all skill terms.
func (o *Ontology) Vocab() []string {
	return o.vocab
}

// Buckets returns the bucket names in sorted order.
func (o *Ontology) Buckets() []string {
	names := make([]string, 0, len(o.buckets))
	for name := range o.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
