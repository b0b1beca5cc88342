package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed timelines.sql
var timelinesSQL string

//go:embed sections.sql
var sectionsSQL string

// Function lists for verification
var TimelinesFunctions = []string{
	"init_timelines",
	"insert_timeline",
	"select_timeline",
	"select_all_timelines",
	"search_timelines",
	"delete_timeline",
}

var SectionsFunctions = []string{
	"init_sections",
	"insert_section",
	"select_sections_by_timeline",
	"select_sections_by_similarity",
	"update_section_embedding",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadTimelinesSql loads timeline-related SQL functions
func LoadTimelinesSql(db *sql.DB, force bool) error {
	return loadSql(db, "timelines", timelinesSQL, TimelinesFunctions, force)
}

// LoadSectionsSql loads section-related SQL functions
func LoadSectionsSql(db *sql.DB, force bool) error {
	return loadSql(db, "sections", sectionsSQL, SectionsFunctions, force)
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadTimelinesSql(db, force); err != nil {
		return err
	}

	if err := LoadSectionsSql(db, force); err != nil {
		return err
	}

	return nil
}

// loadSql executes the script unless all its functions exist already.
func loadSql(db *sql.DB, name string, script string, sqlFunctions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, sqlFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(script)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, sqlFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
