package model

import (
	"fmt"
	"sort"
)

// Vocabulary is the ordered label set of one categorical field.
// A label's position is its code; position 0 doubles as the fallback code.
type Vocabulary struct {
	field  string
	labels []string
	index  map[string]int
}

// NewVocabulary builds a vocabulary, rejecting duplicate labels
func NewVocabulary(field string, labels []string) (*Vocabulary, error) {
	v := &Vocabulary{
		field:  field,
		labels: make([]string, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	copy(v.labels, labels)

	for i, label := range v.labels {
		if prev, ok := v.index[label]; ok {
			return nil, fmt.Errorf("vocabulary %s: duplicate label %q at positions %d and %d", field, label, prev, i)
		}
		v.index[label] = i
	}
	return v, nil
}

// Field returns the categorical field name
func (v *Vocabulary) Field() string {
	return v.field
}

// Contains reports whether label is a known category
func (v *Vocabulary) Contains(label string) bool {
	_, ok := v.index[label]
	return ok
}

// Index returns the stable code of label
func (v *Vocabulary) Index(label string) (int, bool) {
	i, ok := v.index[label]
	return i, ok
}

// Labels returns a copy of the labels in code order
func (v *Vocabulary) Labels() []string {
	out := make([]string, len(v.labels))
	copy(out, v.labels)
	return out
}

// Len returns the number of known labels
func (v *Vocabulary) Len() int {
	return len(v.labels)
}

// VocabularySet holds the vocabularies of every categorical field.
// It is immutable once built and safe for concurrent reads.
type VocabularySet struct {
	fields map[string]*Vocabulary
}

// NewVocabularySet builds a set from field name → ordered labels
func NewVocabularySet(raw map[string][]string) (*VocabularySet, error) {
	set := &VocabularySet{fields: make(map[string]*Vocabulary, len(raw))}
	for field, labels := range raw {
		v, err := NewVocabulary(field, labels)
		if err != nil {
			return nil, err
		}
		set.fields[field] = v
	}
	return set, nil
}

// Field returns the vocabulary of a categorical field
func (s *VocabularySet) Field(name string) (*Vocabulary, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.fields[name]
	return v, ok
}

// Fields returns the field names in sorted order
func (s *VocabularySet) Fields() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
