package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/storygraph/helper"
	"github.com/siherrmann/storygraph/model"
	loadSql "github.com/siherrmann/storygraph/sql"
)

// TimelinesDBHandlerFunctions defines the interface for Timelines database operations.
type TimelinesDBHandlerFunctions interface {
	InsertTimeline(timeline *model.StoredTimeline) error
	SelectTimeline(rid uuid.UUID) (*model.StoredTimeline, error)
	SelectAllTimelines(lastCreatedAt *time.Time, limit int) ([]*model.StoredTimeline, error)
	SelectTimelinesByBook(searchTerm string, limit int) ([]*model.StoredTimeline, error)
	DeleteTimeline(rid uuid.UUID) error
}

// TimelinesDBHandler handles timeline-related database operations
type TimelinesDBHandler struct {
	db *helper.Database
}

// NewTimelinesDBHandler creates a new timelines database handler.
// It loads timeline-related SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewTimelinesDBHandler(db *helper.Database, force bool) (*TimelinesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	timelinesDbHandler := &TimelinesDBHandler{
		db: db,
	}

	err := loadSql.LoadTimelinesSql(timelinesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load timelines sql", err)
	}

	err = timelinesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized TimelinesDBHandler")

	return timelinesDbHandler, nil
}

// CreateTable creates the 'timelines' table in the database.
// If the table already exists, it does not create it again.
func (h *TimelinesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_timelines();`)
	if err != nil {
		log.Panicf("error initializing timelines table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table timelines")

	return nil
}

// InsertTimeline inserts a new timeline
func (h *TimelinesDBHandler) InsertTimeline(timeline *model.StoredTimeline) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_timeline($1, $2, $3, $4)`,
		timeline.Book,
		timeline.NumSections,
		timeline.Config,
		timeline.FirstInteractions,
	)

	err := scanTimeline(row, timeline)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectTimeline retrieves a timeline by RID
func (h *TimelinesDBHandler) SelectTimeline(rid uuid.UUID) (*model.StoredTimeline, error) {
	timeline := &model.StoredTimeline{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_timeline($1)`,
		rid,
	)

	err := scanTimeline(row, timeline)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return timeline, nil
}

// SelectAllTimelines retrieves all timelines, newest first, with pagination
func (h *TimelinesDBHandler) SelectAllTimelines(lastCreatedAt *time.Time, limit int) ([]*model.StoredTimeline, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_timelines($1, $2)`,
		lastCreatedAt,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var timelines []*model.StoredTimeline
	for rows.Next() {
		timeline := &model.StoredTimeline{}
		err := scanTimeline(rows, timeline)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		timelines = append(timelines, timeline)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return timelines, nil
}

// SelectTimelinesByBook searches timelines by book name
func (h *TimelinesDBHandler) SelectTimelinesByBook(searchTerm string, limit int) ([]*model.StoredTimeline, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM search_timelines($1, $2)`,
		searchTerm,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var timelines []*model.StoredTimeline
	for rows.Next() {
		timeline := &model.StoredTimeline{}
		err := scanTimeline(rows, timeline)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		timelines = append(timelines, timeline)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return timelines, nil
}

// DeleteTimeline deletes a timeline and its sections by RID
func (h *TimelinesDBHandler) DeleteTimeline(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_timeline($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTimeline(row scanner, timeline *model.StoredTimeline) error {
	return row.Scan(
		&timeline.ID,
		&timeline.RID,
		&timeline.Book,
		&timeline.NumSections,
		&timeline.Config,
		&timeline.FirstInteractions,
		&timeline.CreatedAt,
	)
}
