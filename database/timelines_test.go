package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/storygraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelinesNewTimelinesDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewTimelinesDBHandler", func(t *testing.T) {
		timelinesDbHandler, err := NewTimelinesDBHandler(database, true)
		assert.NoError(t, err, "Expected NewTimelinesDBHandler to not return an error")
		require.NotNil(t, timelinesDbHandler, "Expected NewTimelinesDBHandler to return a non-nil instance")
		require.NotNil(t, timelinesDbHandler.db, "Expected NewTimelinesDBHandler to have a non-nil database instance")
	})

	t.Run("Invalid call NewTimelinesDBHandler with nil database", func(t *testing.T) {
		_, err := NewTimelinesDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating TimelinesDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestTimelinesInsert(t *testing.T) {
	database := initDB(t)

	timelinesDbHandler, err := NewTimelinesDBHandler(database, true)
	require.NoError(t, err, "Expected NewTimelinesDBHandler to not return an error")

	t.Run("Insert timeline", func(t *testing.T) {
		timeline := &model.StoredTimeline{
			Book:        "Great Expectations",
			NumSections: 3,
			Config:      model.Metadata{"percentile": 50.0, "pruned": true},
			FirstInteractions: model.Metadata{
				"overall": map[string]interface{}{"Pip": map[string]interface{}{"with": "Joe", "context": "Pip met Joe."}},
			},
		}

		err := timelinesDbHandler.InsertTimeline(timeline)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.NotEqual(t, uuid.Nil, timeline.RID, "Expected inserted timeline to have a RID")
		assert.NotZero(t, timeline.ID, "Expected inserted timeline to have an ID")
		assert.WithinDuration(t, time.Now(), timeline.CreatedAt, 2*time.Second, "Expected CreatedAt to be set")
		assert.Equal(t, "Great Expectations", timeline.Book, "Expected book to match")
		assert.Equal(t, 50.0, timeline.Config["percentile"], "Expected config to round trip")

		// Cleanup
		timelinesDbHandler.DeleteTimeline(timeline.RID)
	})
}

func TestTimelinesSelect(t *testing.T) {
	database := initDB(t)

	timelinesDbHandler, err := NewTimelinesDBHandler(database, true)
	require.NoError(t, err)

	timeline := &model.StoredTimeline{Book: "Emma", NumSections: 2}
	err = timelinesDbHandler.InsertTimeline(timeline)
	require.NoError(t, err)
	defer timelinesDbHandler.DeleteTimeline(timeline.RID)

	t.Run("Select timeline by RID", func(t *testing.T) {
		retrieved, err := timelinesDbHandler.SelectTimeline(timeline.RID)
		assert.NoError(t, err, "Expected Select to not return an error")
		require.NotNil(t, retrieved)
		assert.Equal(t, timeline.ID, retrieved.ID, "Expected IDs to match")
		assert.Equal(t, "Emma", retrieved.Book, "Expected books to match")
		assert.Equal(t, 2, retrieved.NumSections, "Expected section counts to match")
	})

	t.Run("Select non-existent timeline", func(t *testing.T) {
		_, err := timelinesDbHandler.SelectTimeline(uuid.New())
		assert.Error(t, err, "Expected error for non-existent timeline")
	})
}

func TestTimelinesSelectAll(t *testing.T) {
	database := initDB(t)

	timelinesDbHandler, err := NewTimelinesDBHandler(database, true)
	require.NoError(t, err)

	var rids []uuid.UUID
	for _, book := range []string{"Paging One", "Paging Two", "Paging Three"} {
		timeline := &model.StoredTimeline{Book: book, NumSections: 1}
		require.NoError(t, timelinesDbHandler.InsertTimeline(timeline))
		rids = append(rids, timeline.RID)
		time.Sleep(10 * time.Millisecond)
	}
	defer func() {
		for _, rid := range rids {
			timelinesDbHandler.DeleteTimeline(rid)
		}
	}()

	t.Run("Newest first", func(t *testing.T) {
		timelines, err := timelinesDbHandler.SelectAllTimelines(nil, 2)
		require.NoError(t, err)
		require.Len(t, timelines, 2)
		assert.Equal(t, "Paging Three", timelines[0].Book)
		assert.Equal(t, "Paging Two", timelines[1].Book)
	})

	t.Run("Next page", func(t *testing.T) {
		first, err := timelinesDbHandler.SelectAllTimelines(nil, 2)
		require.NoError(t, err)
		require.Len(t, first, 2)

		next, err := timelinesDbHandler.SelectAllTimelines(&first[1].CreatedAt, 2)
		require.NoError(t, err)
		require.NotEmpty(t, next)
		assert.Equal(t, "Paging One", next[0].Book)
	})
}

func TestTimelinesSelectByBook(t *testing.T) {
	database := initDB(t)

	timelinesDbHandler, err := NewTimelinesDBHandler(database, true)
	require.NoError(t, err)

	timeline := &model.StoredTimeline{Book: "Pride And Prejudice", NumSections: 10}
	require.NoError(t, timelinesDbHandler.InsertTimeline(timeline))
	defer timelinesDbHandler.DeleteTimeline(timeline.RID)

	t.Run("Case insensitive search", func(t *testing.T) {
		timelines, err := timelinesDbHandler.SelectTimelinesByBook("prejudice", 10)
		require.NoError(t, err)
		require.Len(t, timelines, 1)
		assert.Equal(t, timeline.RID, timelines[0].RID)
	})

	t.Run("No match", func(t *testing.T) {
		timelines, err := timelinesDbHandler.SelectTimelinesByBook("moby", 10)
		require.NoError(t, err)
		assert.Empty(t, timelines)
	})
}

func TestTimelinesDelete(t *testing.T) {
	database := initDB(t)

	timelinesDbHandler, err := NewTimelinesDBHandler(database, true)
	require.NoError(t, err)

	timeline := &model.StoredTimeline{Book: "Deleted Book"}
	require.NoError(t, timelinesDbHandler.InsertTimeline(timeline))

	err = timelinesDbHandler.DeleteTimeline(timeline.RID)
	assert.NoError(t, err, "Expected Delete to not return an error")

	_, err = timelinesDbHandler.SelectTimeline(timeline.RID)
	assert.Error(t, err, "Expected deleted timeline to be gone")
}
