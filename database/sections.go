package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/storygraph/helper"
	"github.com/siherrmann/storygraph/model"
	loadSql "github.com/siherrmann/storygraph/sql"
)

// SectionsDBHandlerFunctions defines the interface for Sections database operations.
type SectionsDBHandlerFunctions interface {
	InsertSection(section *model.StoredSection) error
	SelectSectionsByTimeline(timelineRID uuid.UUID) ([]*model.StoredSection, error)
	SelectSectionsBySimilarity(embedding []float32, limit int, threshold float64) ([]*model.StoredSection, error)
	UpdateSectionEmbedding(section *model.StoredSection) error
}

// SectionsDBHandler handles section-related database operations
type SectionsDBHandler struct {
	db *helper.Database
}

// NewSectionsDBHandler creates a new sections database handler.
// The timelines table has to exist already, see NewTimelinesDBHandler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewSectionsDBHandler(db *helper.Database, embeddingDim int, force bool) (*SectionsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	sectionsDbHandler := &SectionsDBHandler{
		db: db,
	}

	err := loadSql.LoadSectionsSql(sectionsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load sections sql", err)
	}

	err = sectionsDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized SectionsDBHandler")

	return sectionsDbHandler, nil
}

// CreateTable creates the 'sections' table with an embedding column of the given dimension.
// If the table already exists, it does not create it again.
func (h *SectionsDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_sections($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing sections table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table sections")

	return nil
}

// InsertSection inserts a new section of a stored timeline
func (h *SectionsDBHandler) InsertSection(section *model.StoredSection) error {
	matrix, stats, err := marshalRecord(section.SectionRecord)
	if err != nil {
		return helper.NewError("marshal section", err)
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_section($1, $2, $3, $4, $5, $6, $7)`,
		section.TimelineID,
		section.SectionIndex,
		section.Content,
		pq.Array(section.Names),
		matrix,
		stats,
		vectorParam(section.Embedding),
	)

	err = scanSection(row, section)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectSectionsByTimeline retrieves all sections of a timeline in order
func (h *SectionsDBHandler) SelectSectionsByTimeline(timelineRID uuid.UUID) ([]*model.StoredSection, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_sections_by_timeline($1)`,
		timelineRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var sections []*model.StoredSection
	for rows.Next() {
		section := &model.StoredSection{}
		err := scanSection(rows, section)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		sections = append(sections, section)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return sections, nil
}

// SelectSectionsBySimilarity performs vector similarity search over all stored sections
func (h *SectionsDBHandler) SelectSectionsBySimilarity(embedding []float32, limit int, threshold float64) ([]*model.StoredSection, error) {
	embeddingVector := pgvector.NewVector(embedding)

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_sections_by_similarity($1, $2, $3)`,
		embeddingVector,
		limit,
		threshold,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.StoredSection
	for rows.Next() {
		section := &model.StoredSection{}
		err := scanSection(rows, section, &section.Similarity)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		results = append(results, section)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

// UpdateSectionEmbedding updates the embedding of a section
func (h *SectionsDBHandler) UpdateSectionEmbedding(section *model.StoredSection) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_section_embedding($1, $2)`,
		section.ID,
		vectorParam(section.Embedding),
	)

	err := scanSection(row, section)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// vectorParam returns NULL for a missing embedding.
func vectorParam(embedding []float32) interface{} {
	if len(embedding) == 0 {
		return nil
	}
	return pgvector.NewVector(embedding)
}

func marshalRecord(record model.SectionRecord) ([]byte, []byte, error) {
	matrix := record.Matrix
	if matrix == nil {
		matrix = [][]float64{}
	}
	matrixJSON, err := json.Marshal(matrix)
	if err != nil {
		return nil, nil, err
	}
	statsJSON, err := json.Marshal(record.NetworkStats)
	if err != nil {
		return nil, nil, err
	}
	return matrixJSON, statsJSON, nil
}

func scanSection(row scanner, section *model.StoredSection, extra ...any) error {
	var matrix, stats []byte
	dest := []any{
		&section.ID,
		&section.TimelineID,
		&section.TimelineRID,
		&section.SectionIndex,
		&section.Content,
		pq.Array(&section.Names),
		&matrix,
		&stats,
		pq.Array(&section.Embedding),
		&section.CreatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(matrix, &section.Matrix); err != nil {
		return helper.NewError("unmarshal matrix", err)
	}
	if err := json.Unmarshal(stats, &section.NetworkStats); err != nil {
		return helper.NewError("unmarshal stats", err)
	}
	return nil
}
