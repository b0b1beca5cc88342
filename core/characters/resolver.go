package characters

import (
	"slices"
	"strings"

	"github.com/siherrmann/storygraph/helper"
)

// NarratorMention is the mention standing in for a first person narrator.
const NarratorMention = "I"

// Resolver pools person mentions into characters and keeps the character
// dictionary of one run. A Resolver must not be shared between runs.
type Resolver struct {
	narrator   string
	dictionary map[string][]string
	previous   []string
}

// NewResolver creates a resolver. If narrator is set the mention "I" resolves to it.
func NewResolver(narrator string) *Resolver {
	r := &Resolver{
		narrator:   narrator,
		dictionary: map[string][]string{},
	}
	if narrator != "" {
		r.dictionary[NarratorMention] = []string{narrator}
	}
	return r
}

// Narrator returns the configured narrator name or an empty string.
func (r *Resolver) Narrator() string {
	return r.narrator
}

// NormalizeMention title cases a mention, removes underscores and strips a
// trailing possessive, so "harry_potter's" becomes "HarryPotter".
func NormalizeMention(mention string) string {
	mention = strings.ReplaceAll(helper.TitleCase(strings.TrimSpace(mention)), "_", "")
	mention = strings.TrimSuffix(mention, "'S")
	mention = strings.TrimSuffix(mention, "’S")
	return mention
}

// Resolve pools the mentions of a section together with the characters of the
// previous section and returns the sorted character list of the section.
// Mentions are expected to be normalized already.
func (r *Resolver) Resolve(mentions []string) []string {
	candidates := make([]string, 0, len(mentions)+len(r.previous))
	candidates = append(candidates, r.previous...)
	for _, m := range mentions {
		if m != "" {
			candidates = append(candidates, m)
		}
	}
	slices.Sort(candidates)
	candidates = slices.Compact(candidates)

	for _, candidate := range candidates {
		var matches []string
		for _, other := range candidates {
			if candidate == other || slices.Contains(nameTokens(other), candidate) {
				matches = append(matches, other)
			}
		}
		r.dictionary[candidate] = mostSpecific(matches)
	}

	r.previous = r.characters()
	return slices.Clone(r.previous)
}

// characters returns every name that is an alias target in the dictionary.
func (r *Resolver) characters() []string {
	var names []string
	for _, aliases := range r.dictionary {
		names = append(names, aliases...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Aliases returns the characters a mention resolves to.
// Unknown mentions resolve to themselves.
func (r *Resolver) Aliases(mention string) []string {
	if aliases, ok := r.dictionary[mention]; ok {
		return aliases
	}
	return []string{mention}
}

// Remove drops characters from the dictionary, both as mentions and as alias targets.
func (r *Resolver) Remove(names ...string) {
	for _, name := range names {
		delete(r.dictionary, name)
	}
	for mention, aliases := range r.dictionary {
		aliases = slices.DeleteFunc(slices.Clone(aliases), func(a string) bool {
			return slices.Contains(names, a)
		})
		if len(aliases) == 0 {
			delete(r.dictionary, mention)
			continue
		}
		r.dictionary[mention] = aliases
	}
	r.previous = slices.DeleteFunc(r.previous, func(p string) bool {
		return slices.Contains(names, p)
	})
}

// Dictionary returns a copy of the mention to alias set mapping.
func (r *Resolver) Dictionary() map[string][]string {
	dictionary := make(map[string][]string, len(r.dictionary))
	for mention, aliases := range r.dictionary {
		dictionary[mention] = slices.Clone(aliases)
	}
	return dictionary
}

func nameTokens(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-'
	})
}

// mostSpecific removes every name contained in another name of the set.
func mostSpecific(names []string) []string {
	var result []string
	for _, name := range names {
		contained := false
		for _, other := range names {
			if other != name && strings.Contains(other, name) {
				contained = true
				break
			}
		}
		if !contained {
			result = append(result, name)
		}
	}
	return result
}
