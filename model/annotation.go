package model

// Entity labels produced by the annotators.
const (
	LabelPerson = "PERSON"
)

// Entity is a labeled entity span inside a sentence.
type Entity struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Score float32 `json:"score,omitempty"`
}

// Token is a single word with its part of speech tag (Penn Treebank).
type Token struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

// Sentence is one sentence of a section with its entities and tokens.
type Sentence struct {
	Text     string   `json:"text"`
	Entities []Entity `json:"entities,omitempty"`
	Tokens   []Token  `json:"tokens,omitempty"`
}

// Annotation is the result of running the NLP capability on a section.
type Annotation struct {
	Sentences []Sentence `json:"sentences"`
}

// People returns all PERSON entity texts of the annotation in order of appearance.
func (a *Annotation) People() []string {
	var people []string
	for _, s := range a.Sentences {
		people = append(people, s.People()...)
	}
	return people
}

// People returns the PERSON entity texts of the sentence in order of appearance.
func (s Sentence) People() []string {
	var people []string
	for _, e := range s.Entities {
		if e.Label == LabelPerson {
			people = append(people, e.Text)
		}
	}
	return people
}

// HasFirstPerson reports whether the sentence contains the pronoun "I".
func (s Sentence) HasFirstPerson() bool {
	for _, t := range s.Tokens {
		if t.Text == "I" && t.Tag == "PRP" {
			return true
		}
	}
	return false
}
