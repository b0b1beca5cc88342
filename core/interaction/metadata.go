package interaction

import (
	"maps"
	"slices"

	"github.com/siherrmann/storygraph/model"
)

// Metadata holds the first interactions of a run.
// Entries are written once and never overwritten.
type Metadata struct {
	Between map[string]map[string]string
	Overall map[string]model.FirstInteraction
	// first interaction with every partner, in order of occurrence
	partners map[string][]model.FirstInteraction
}

// NewMetadata returns empty first interaction mappings.
func NewMetadata() *Metadata {
	return &Metadata{
		Between:  map[string]map[string]string{},
		Overall:  map[string]model.FirstInteraction{},
		partners: map[string][]model.FirstInteraction{},
	}
}

// recordBetween stores the context of the first interaction of a with b.
func (m *Metadata) recordBetween(a, b, context string) {
	partners, ok := m.Between[a]
	if !ok {
		partners = map[string]string{}
		m.Between[a] = partners
	}
	if _, ok := partners[b]; !ok {
		partners[b] = context
	}
}

// recordOverall stores the first interaction of a with anyone.
func (m *Metadata) recordOverall(a, with, context string) {
	if _, ok := m.Overall[a]; !ok {
		m.Overall[a] = model.FirstInteraction{With: with, Context: context}
	}
}

// recordPartner appends the first interaction of a with a new partner.
func (m *Metadata) recordPartner(a, with, context string) {
	for _, first := range m.partners[a] {
		if first.With == with {
			return
		}
	}
	m.partners[a] = append(m.partners[a], model.FirstInteraction{With: with, Context: context})
}

// Remove strips characters from both mappings, as keys and as partners.
// Characters left without partners are removed from Between. A remaining
// character whose first overall partner was removed falls back to its first
// interaction with a remaining partner.
func (m *Metadata) Remove(names ...string) {
	for _, name := range names {
		delete(m.Overall, name)
		delete(m.Between, name)
	}
	for character, partners := range m.Between {
		for _, name := range names {
			delete(partners, name)
		}
		if len(partners) == 0 {
			delete(m.Between, character)
		}
	}
	for _, name := range names {
		delete(m.partners, name)
	}
	for character, firsts := range m.partners {
		m.partners[character] = slices.DeleteFunc(firsts, func(f model.FirstInteraction) bool {
			return slices.Contains(names, f.With)
		})
	}
	for character, first := range m.Overall {
		if !slices.Contains(names, first.With) {
			continue
		}
		if firsts := m.partners[character]; len(firsts) > 0 {
			m.Overall[character] = firsts[0]
		} else {
			delete(m.Overall, character)
		}
	}
}

// Clone returns a deep copy of the metadata.
func (m *Metadata) Clone() *Metadata {
	c := &Metadata{
		Between:  make(map[string]map[string]string, len(m.Between)),
		Overall:  maps.Clone(m.Overall),
		partners: make(map[string][]model.FirstInteraction, len(m.partners)),
	}
	for character, partners := range m.Between {
		c.Between[character] = maps.Clone(partners)
	}
	for character, firsts := range m.partners {
		c.partners[character] = slices.Clone(firsts)
	}
	return c
}
