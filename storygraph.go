package storygraph

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/siherrmann/storygraph/core/pipeline"
	"github.com/siherrmann/storygraph/core/timeline"
	"github.com/siherrmann/storygraph/database"
	"github.com/siherrmann/storygraph/helper"
	"github.com/siherrmann/storygraph/model"
	loadSql "github.com/siherrmann/storygraph/sql"
)

// Storygraph turns books into character interaction timelines and optionally
// persists them.
type Storygraph struct {
	Config    model.Config
	Pipeline  *pipeline.Pipeline // Annotator and optional embedder
	DB        *helper.Database   // Optional, see ConnectDatabase
	Timelines *database.TimelinesDBHandler
	Sections  *database.SectionsDBHandler
	// Logging
	log *slog.Logger
}

// New creates a Storygraph using the prose annotator.
func New(config model.Config) (*Storygraph, error) {
	if _, err := config.Validate(); err != nil {
		return nil, helper.NewError("validate config", err)
	}

	return &Storygraph{
		Config:   config,
		Pipeline: pipeline.NewPipeline(nil, pipeline.DefaultAnnotator()),
		log:      helper.NewLogger(os.Stdout, config.Quiet),
	}, nil
}

// SetLogger replaces the logger.
func (s *Storygraph) SetLogger(logger *slog.Logger) {
	s.log = logger
}

// SetAnnotator sets the NLP capability used for every section.
func (s *Storygraph) SetAnnotator(annotator pipeline.AnnotateFunc) {
	s.Pipeline.Annotator = annotator
}

// UseNERAnnotator switches to the distilbert-NER model, downloading it if needed.
func (s *Storygraph) UseNERAnnotator() error {
	annotator, err := pipeline.NERAnnotator()
	if err != nil {
		return helper.NewError("create NER annotator", err)
	}
	s.Pipeline.Annotator = annotator
	return nil
}

// SetEmbedder sets the embedder for stored sections and section search.
func (s *Storygraph) SetEmbedder(embedder pipeline.EmbedFunc) {
	s.Pipeline.SetEmbedder(embedder)
}

// UseDefaultEmbedder sets up the all-MiniLM-L6-v2 embedder (384 dimensions).
func (s *Storygraph) UseDefaultEmbedder() error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}
	s.Pipeline.SetEmbedder(embedder)
	return nil
}

// ConnectDatabase connects to PostgreSQL and initializes all handlers.
// embeddingDim has to match the embedder, see pipeline.EmbeddingDim.
func (s *Storygraph) ConnectDatabase(config *helper.DatabaseConfiguration, embeddingDim int) error {
	db := helper.NewDatabase("storygraph", config, s.log)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return helper.NewError("initialize database extensions", err)
	}

	// Timelines first, sections reference them
	// force=false to not reload if functions already exist
	timelines, err := database.NewTimelinesDBHandler(db, false)
	if err != nil {
		return helper.NewError("create timelines handler", err)
	}

	sections, err := database.NewSectionsDBHandler(db, embeddingDim, false)
	if err != nil {
		return helper.NewError("create sections handler", err)
	}

	s.DB = db
	s.Timelines = timelines
	s.Sections = sections
	return nil
}

// Close closes the database connection
func (s *Storygraph) Close() error {
	if s.DB != nil && s.DB.Instance != nil {
		return s.DB.Instance.Close()
	}
	return nil
}

// Process builds the timeline of a book.
func (s *Storygraph) Process(ctx context.Context, book *model.Book) (*timeline.Result, error) {
	processor, err := timeline.NewProcessor(s.Config, s.Pipeline.Annotator, s.log)
	if err != nil {
		return nil, helper.NewError("create processor", err)
	}

	result, err := processor.Run(ctx, book)
	if err != nil {
		return nil, helper.NewError("process book", err)
	}

	s.log.Info("Processed book", slog.String("book", result.Timeline.Book), slog.Int("sections", result.Timeline.NumSections))
	return result, nil
}

// ProcessToFile builds the timeline of a book and writes it as JSON into dir.
// Returns the file path.
func (s *Storygraph) ProcessToFile(ctx context.Context, book *model.Book, dir string) (string, *timeline.Result, error) {
	result, err := s.Process(ctx, book)
	if err != nil {
		return "", nil, err
	}

	path, err := timeline.WriteJSON(dir, book.Title, result.Timeline)
	if err != nil {
		return "", nil, helper.NewError("write timeline", err)
	}

	s.log.Info("Done! Analysis saved", slog.String("path", path))
	return path, result, nil
}

// SaveTimeline stores a timeline and its sections.
// Sections get an embedding if an embedder is set.
// If a section cannot be stored the timeline is deleted again.
func (s *Storygraph) SaveTimeline(ctx context.Context, result *timeline.Result) (*model.StoredTimeline, error) {
	if s.Timelines == nil || s.Sections == nil {
		return nil, helper.NewError("save timeline", fmt.Errorf("database not connected, use ConnectDatabase() first"))
	}
	if result == nil || result.Timeline == nil {
		return nil, helper.NewError("save timeline", fmt.Errorf("timeline is nil"))
	}
	tl := result.Timeline

	config, err := model.NewMetadata(s.Config)
	if err != nil {
		return nil, helper.NewError("save timeline", err)
	}
	firstInteractions, err := model.NewMetadata(map[string]interface{}{
		"between": tl.FirstInteractionsBetween,
		"overall": tl.FirstInteractionsOverall,
	})
	if err != nil {
		return nil, helper.NewError("save timeline", err)
	}

	stored := &model.StoredTimeline{
		Book:              tl.Book,
		NumSections:       tl.NumSections,
		Config:            config,
		FirstInteractions: firstInteractions,
	}
	if err := s.Timelines.InsertTimeline(stored); err != nil {
		return nil, helper.NewError("insert timeline", err)
	}

	s.log.Info("Inserted timeline", slog.String("timeline_id", stored.RID.String()), slog.String("book", stored.Book))

	if err := s.saveSections(ctx, stored, result); err != nil {
		if deleteErr := s.Timelines.DeleteTimeline(stored.RID); deleteErr != nil {
			s.log.Error("Failed to delete incomplete timeline", slog.String("timeline_id", stored.RID.String()), slog.String("error", deleteErr.Error()))
		}
		return nil, err
	}

	return stored, nil
}

// saveSections stores one row per section of the timeline.
func (s *Storygraph) saveSections(ctx context.Context, stored *model.StoredTimeline, result *timeline.Result) error {
	var err error
	for i, record := range result.Timeline.Sections {
		if err := ctx.Err(); err != nil {
			return helper.NewError("save timeline", err)
		}

		section := &model.StoredSection{
			TimelineID:    stored.ID,
			SectionIndex:  i,
			SectionRecord: record,
		}
		if i < len(result.Sections) {
			section.Content = result.Sections[i].Text
		}
		if s.Pipeline.Embedder != nil && section.Content != "" {
			section.Embedding, err = s.Pipeline.Embedder(section.Content)
			if err != nil {
				return helper.NewError(fmt.Sprintf("embed section %d", i), err)
			}
		}

		if err := s.Sections.InsertSection(section); err != nil {
			return helper.NewError(fmt.Sprintf("insert section %d", i), err)
		}
	}
	return nil
}

// SearchSections finds stored sections similar to the query text.
func (s *Storygraph) SearchSections(query string, limit int, threshold float64) ([]*model.StoredSection, error) {
	if s.Sections == nil {
		return nil, helper.NewError("search sections", fmt.Errorf("database not connected, use ConnectDatabase() first"))
	}
	if s.Pipeline.Embedder == nil {
		return nil, helper.NewError("search sections", fmt.Errorf("embedder not set, use SetEmbedder() first"))
	}

	embedding, err := s.Pipeline.Embedder(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}

	return s.Sections.SelectSectionsBySimilarity(embedding, limit, threshold)
}
