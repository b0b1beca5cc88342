package pipeline

import (
	"context"
	"fmt"

	"github.com/siherrmann/storygraph/model"
)

// SegmentFunc splits a book into ordered, cleaned sections
type SegmentFunc func(text string) ([]model.Section, error)

// AnnotateFunc runs the NLP capability on a section's text.
// Returns the sentences with their labeled entity spans and part of speech tags.
type AnnotateFunc func(ctx context.Context, text string) (*model.Annotation, error)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)

// Pipeline combines segmentation and annotation functions
type Pipeline struct {
	Segmenter SegmentFunc
	Annotator AnnotateFunc
	Embedder  EmbedFunc // Optional - only used for persisted section embeddings
}

// NewPipeline creates a new processing pipeline
func NewPipeline(segmenter SegmentFunc, annotator AnnotateFunc) *Pipeline {
	return &Pipeline{
		Segmenter: segmenter,
		Annotator: annotator,
	}
}

// SetEmbedder sets the embedding function
func (p *Pipeline) SetEmbedder(embedder EmbedFunc) {
	p.Embedder = embedder
}

// Segment splits the text into sections using the pipeline's segmenter
func (p *Pipeline) Segment(text string) ([]model.Section, error) {
	if p.Segmenter == nil {
		return nil, fmt.Errorf("segmenter not set")
	}
	return p.Segmenter(text)
}

// Annotate annotates one section using the pipeline's annotator
func (p *Pipeline) Annotate(ctx context.Context, section model.Section) (*model.Annotation, error) {
	if p.Annotator == nil {
		return nil, fmt.Errorf("annotator not set")
	}

	annotation, err := p.Annotator(ctx, section.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate section %d: %w", section.Index, err)
	}
	if annotation == nil {
		annotation = &model.Annotation{}
	}
	return annotation, nil
}
