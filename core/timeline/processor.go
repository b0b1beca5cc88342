package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siherrmann/storygraph/core/characters"
	"github.com/siherrmann/storygraph/core/graph"
	"github.com/siherrmann/storygraph/core/interaction"
	"github.com/siherrmann/storygraph/core/pipeline"
	"github.com/siherrmann/storygraph/helper"
	"github.com/siherrmann/storygraph/model"
	"golang.org/x/sync/errgroup"
)

// Processor runs the timeline construction for books.
// Every call to Run owns its own character and matrix state.
type Processor struct {
	Config   model.Config
	Pipeline *pipeline.Pipeline
	Analyze  graph.AnalyzeFunc
	log      *slog.Logger
}

// Result is the timeline of a run together with the sections it was built from.
type Result struct {
	Timeline *model.Timeline
	Sections []model.Section
}

// NewProcessor validates the config and creates a processor using the default
// segmenter and analyzer.
func NewProcessor(config model.Config, annotator pipeline.AnnotateFunc, logger *slog.Logger) (*Processor, error) {
	pattern, err := config.Validate()
	if err != nil {
		return nil, helper.NewError("validate config", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	segmenter := pipeline.DefaultSegmenter(config.NumSections, pattern, config.DropBlankSections)
	return &Processor{
		Config:   config,
		Pipeline: pipeline.NewPipeline(segmenter, annotator),
		Analyze:  graph.DefaultAnalyzer(config.SparseEdges),
		log:      logger,
	}, nil
}

// Run segments the book, builds the interaction matrices section by section
// and finalizes them into a timeline.
func (p *Processor) Run(ctx context.Context, book *model.Book) (*Result, error) {
	if book == nil || strings.TrimSpace(book.Text) == "" {
		return nil, helper.NewError("run timeline", fmt.Errorf("book text is empty"))
	}

	sections, err := p.Pipeline.Segment(book.Text)
	if err != nil {
		return nil, helper.NewError("segment text", err)
	}
	p.log.Info("Finished cleaning and splitting text", slog.String("book", book.Title), slog.Int("sections", len(sections)))

	snapshots, metadata, err := p.accumulate(ctx, sections)
	if err != nil {
		return nil, err
	}

	if p.Config.Pruned {
		removed, err := interaction.Prune(snapshots, metadata, p.Config.Percentile)
		if errors.Is(err, interaction.ErrNoPositiveWeights) {
			p.log.Warn("No interactions found, skipping pruning", slog.String("book", book.Title))
		} else if err != nil {
			return nil, helper.NewError("prune timeline", err)
		} else {
			p.log.Info("Pruned timeline", slog.Float64("percentile", p.Config.Percentile), slog.Any("removed", removed))
		}
	}

	for i := range snapshots {
		snapshots[i].Matrix.Normalize()
		snapshots[i].Matrix, snapshots[i].Names = interaction.SortByWeight(snapshots[i].Matrix, snapshots[i].Names)
	}

	records, err := p.analyze(ctx, snapshots)
	if err != nil {
		return nil, err
	}

	return &Result{
		Timeline: Assemble(book.Title, records, metadata),
		Sections: sections,
	}, nil
}

// accumulate builds the unnormalized matrices in section order.
func (p *Processor) accumulate(ctx context.Context, sections []model.Section) ([]interaction.Snapshot, *interaction.Metadata, error) {
	builder := interaction.NewBuilder(characters.NewResolver(p.Config.Narrator))

	snapshots := make([]interaction.Snapshot, 0, len(sections))
	for _, section := range sections {
		if err := ctx.Err(); err != nil {
			return nil, nil, helper.NewError("run timeline", err)
		}
		p.log.Info("Analysing section", slog.Int("section", section.Index+1), slog.Int("of", len(sections)))

		annotation, err := p.Pipeline.Annotate(ctx, section)
		if err != nil {
			return nil, nil, helper.NewError("annotate section", err)
		}

		m, names := builder.Build(annotation)
		snapshots = append(snapshots, interaction.Snapshot{Names: names, Matrix: m})
	}

	return snapshots, builder.Metadata(), nil
}

// analyze computes the network statistics of the finalized sections in parallel.
func (p *Processor) analyze(ctx context.Context, snapshots []interaction.Snapshot) ([]model.SectionRecord, error) {
	records := make([]model.SectionRecord, len(snapshots))

	g, gctx := errgroup.WithContext(ctx)
	if p.Config.Workers > 0 {
		g.SetLimit(p.Config.Workers)
	}
	for i, snapshot := range snapshots {
		g.Go(func() error {
			stats, err := p.Analyze(gctx, snapshot.Matrix, snapshot.Names)
			if err != nil {
				return helper.NewError(fmt.Sprintf("analyse section %d", i), err)
			}
			records[i] = model.SectionRecord{
				Names:        snapshot.Names,
				Matrix:       snapshot.Matrix,
				NetworkStats: *stats,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}
