package pipeline

import (
	"context"
	"fmt"

	"github.com/jdkato/prose/v2"
	"github.com/siherrmann/storygraph/model"
)

// DefaultAnnotator creates an annotator based on prose.
// prose ships its models with the library, so no download is needed.
// Sentences are segmented on the whole section, entities and tags are
// extracted per sentence so every entity belongs to exactly one sentence.
func DefaultAnnotator() AnnotateFunc {
	return func(ctx context.Context, text string) (*model.Annotation, error) {
		doc, err := prose.NewDocument(
			text,
			prose.WithTagging(false),
			prose.WithExtraction(false),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to segment text: %w", err)
		}

		annotation := &model.Annotation{}
		for _, s := range doc.Sentences() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			sentence, err := annotateSentence(s.Text)
			if err != nil {
				return nil, err
			}
			annotation.Sentences = append(annotation.Sentences, sentence)
		}

		return annotation, nil
	}
}

func annotateSentence(text string) (model.Sentence, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return model.Sentence{}, fmt.Errorf("failed to annotate sentence: %w", err)
	}

	sentence := model.Sentence{Text: text}
	for _, ent := range doc.Entities() {
		sentence.Entities = append(sentence.Entities, model.Entity{
			Text:  ent.Text,
			Label: ent.Label,
		})
	}
	for _, tok := range doc.Tokens() {
		sentence.Tokens = append(sentence.Tokens, model.Token{
			Text: tok.Text,
			Tag:  tok.Tag,
		})
	}

	return sentence, nil
}
