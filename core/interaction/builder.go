package interaction

import (
	"github.com/siherrmann/storygraph/core/characters"
	"github.com/siherrmann/storygraph/model"
)

// Builder accumulates the interaction matrices of consecutive sections.
// Every section is seeded with the counts of the previous one, so sections
// have to be built in order.
type Builder struct {
	resolver   *characters.Resolver
	prevNames  []string
	prevMatrix Matrix
	metadata   *Metadata
}

// NewBuilder creates a builder using the resolver for character pooling.
func NewBuilder(resolver *characters.Resolver) *Builder {
	return &Builder{
		resolver: resolver,
		metadata: NewMetadata(),
	}
}

// Build resolves the characters of an annotated section and counts their
// co-occurrences per sentence on top of the carried over counts.
func (b *Builder) Build(annotation *model.Annotation) (Matrix, []string) {
	var mentions []string
	for _, person := range annotation.People() {
		mentions = append(mentions, characters.NormalizeMention(person))
	}
	names := b.resolver.Resolve(mentions)

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	m := b.seed(names, index)

	for _, sentence := range annotation.Sentences {
		people := b.sentencePeople(sentence)
		for i := 0; i < len(people); i++ {
			for j := i + 1; j < len(people); j++ {
				b.interact(m, index, people[i], people[j], sentence.Text)
			}
		}
	}

	b.prevNames = names
	b.prevMatrix = m.Clone()
	return m, names
}

// seed copies the previous counts into every alias expanded pair of the new list.
func (b *Builder) seed(names []string, index map[string]int) Matrix {
	m := NewMatrix(len(names))
	for i := 0; i < len(b.prevNames); i++ {
		for j := i + 1; j < len(b.prevNames); j++ {
			for _, first := range b.resolver.Aliases(b.prevNames[i]) {
				for _, second := range b.resolver.Aliases(b.prevNames[j]) {
					x, okX := index[first]
					y, okY := index[second]
					if !okX || !okY || x == y {
						continue
					}
					m[x][y] = b.prevMatrix[i][j]
					m[y][x] = b.prevMatrix[j][i]
				}
			}
		}
	}
	return m
}

// sentencePeople returns the distinct normalized person mentions of a
// sentence, plus the narrator mention if a narrator is set.
func (b *Builder) sentencePeople(sentence model.Sentence) []string {
	var people []string
	seen := map[string]bool{}
	for _, person := range sentence.People() {
		person = characters.NormalizeMention(person)
		if person == "" || seen[person] {
			continue
		}
		seen[person] = true
		people = append(people, person)
	}
	if b.resolver.Narrator() != "" && sentence.HasFirstPerson() && !seen[characters.NarratorMention] {
		people = append(people, characters.NarratorMention)
	}
	return people
}

func (b *Builder) interact(m Matrix, index map[string]int, p1, p2, context string) {
	for _, first := range b.resolver.Aliases(p1) {
		for _, second := range b.resolver.Aliases(p2) {
			x, okX := index[first]
			y, okY := index[second]
			if !okX || !okY || x == y {
				continue
			}

			b.metadata.recordBetween(first, second, context)
			b.metadata.recordPartner(first, second, context)
			b.metadata.recordPartner(second, first, context)
			if m.RowSum(x) == 0 {
				b.metadata.recordOverall(first, second, context)
			}
			if m.RowSum(y) == 0 {
				b.metadata.recordOverall(second, first, context)
			}

			m[x][y]++
			m[y][x]++
		}
	}
}

// Metadata returns a copy of the first interactions recorded so far.
func (b *Builder) Metadata() *Metadata {
	return b.metadata.Clone()
}
