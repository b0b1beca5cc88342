package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/storygraph/helper"
	"github.com/siherrmann/storygraph/model"
)

const (
	nerModelName = "KnightsAnalytics/distilbert-NER"
	nerOnnxFile  = "model.onnx"
	nerBatchSize = 32
)

// NERAnnotator creates an annotator using a NER model.
// Uses distilbert-NER for named entity recognition, PER entities are reported
// as PERSON. The model has no part of speech output, the pronoun "I" is tagged
// PRP by the tokenizer.
// If loading the model fails it is downloaded again once before giving up.
func NERAnnotator() (AnnotateFunc, error) {
	modelPath, err := helper.PrepareModel(nerModelName, nerOnnxFile)
	if err != nil {
		return nil, err
	}

	nerPipeline, err := newNERPipeline(modelPath)
	if err != nil {
		modelPath, err = helper.RefreshModel(nerModelName, nerOnnxFile)
		if err != nil {
			return nil, err
		}
		nerPipeline, err = newNERPipeline(modelPath)
		if err != nil {
			return nil, err
		}
	}

	return func(ctx context.Context, text string) (*model.Annotation, error) {
		sentences := SplitSentences(text)
		annotation := &model.Annotation{}
		if len(sentences) == 0 {
			return annotation, nil
		}

		for start := 0; start < len(sentences); start += nerBatchSize {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			end := min(start+nerBatchSize, len(sentences))
			batch := sentences[start:end]
			result, err := nerPipeline.RunPipeline(batch)
			if err != nil {
				return nil, fmt.Errorf("failed to run NER: %w", err)
			}

			for i, text := range batch {
				sentence := model.Sentence{
					Text:   text,
					Tokens: tokenize(text),
				}
				if i < len(result.Entities) {
					for _, entity := range result.Entities[i] {
						sentence.Entities = append(sentence.Entities, model.Entity{
							Text:  strings.TrimSpace(entity.Word),
							Label: normalizeEntityType(entity.Entity),
							Score: entity.Score,
						})
					}
				}
				annotation.Sentences = append(annotation.Sentences, sentence)
			}
		}

		return annotation, nil
	}, nil
}

func newNERPipeline(modelPath string) (*pipelines.TokenClassificationPipeline, error) {
	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "ner-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}),
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	return nerPipeline, nil
}

// normalizeEntityType removes B- and I- prefixes from NER labels and maps PER to PERSON
func normalizeEntityType(label string) string {
	label = strings.TrimPrefix(label, "B-")
	label = strings.TrimPrefix(label, "I-")
	if label == "PER" {
		return model.LabelPerson
	}
	return label
}

// SplitSentences splits text on sentence ending punctuation followed by a space.
// Sections are single line, so line breaks are free to mark the boundaries.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "! ", "!\n")
	text = strings.ReplaceAll(text, "? ", "?\n")
	text = strings.ReplaceAll(text, ". ", ".\n")

	var sentences []string
	for _, s := range strings.Split(text, "\n") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// tokenize splits a sentence into words, tagging the pronoun "I" as PRP.
func tokenize(sentence string) []model.Token {
	var tokens []model.Token
	for _, word := range strings.FieldsFunc(sentence, isWordSeparator) {
		tag := ""
		if word == "I" {
			tag = "PRP"
		}
		tokens = append(tokens, model.Token{Text: word, Tag: tag})
	}
	return tokens
}

func isWordSeparator(r rune) bool {
	switch r {
	case ' ', '\t', ',', '.', ';', ':', '!', '?', '"', '(', ')', '\'':
		return true
	}
	return false
}
