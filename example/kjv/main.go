package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/siherrmann/storygraph"
	"github.com/siherrmann/storygraph/core/pipeline"
	"github.com/siherrmann/storygraph/helper"
	"github.com/siherrmann/storygraph/model"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const kjvRepoURL = "https://raw.githubusercontent.com/arleym/kjv-markdown/master"

// Narrative books with a manageable cast
var kjvBooks = []string{
	"01 - Genesis - KJV.md",
	"08 - Ruth - KJV.md",
	"17 - Esther - KJV.md",
	// "02 - Exodus - KJV.md", "07 - Judges - KJV.md",
	// "09 - 1 Samuel - KJV.md", "10 - 2 Samuel - KJV.md",
	// "27 - Daniel - KJV.md", "32 - Jonah - KJV.md",
}

// startPostgresContainer starts a pgvector container that keeps its data in ./data
// between runs.
func startPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	dataDir := "./data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create data directory: %w", err)
	}
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get absolute path for data directory: %w", err)
	}

	// An initialized data directory only logs the ready message once
	_, err = os.Stat(filepath.Join(absDataDir, "PG_VERSION"))
	waitOccurrences := 2
	if err == nil {
		waitOccurrences = 1
		fmt.Printf("Using existing persistent database in: %s\n", absDataDir)
	} else {
		fmt.Printf("Creating new persistent database in: %s\n", absDataDir)
	}

	pgContainer, err := postgres.Run(
		ctx,
		"pgvector/pgvector:pg17",
		postgres.WithDatabase("database"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(waitOccurrences),
		),
		testcontainers.WithHostConfigModifier(func(hc *container.HostConfig) {
			hc.Mounts = append(hc.Mounts, mount.Mount{
				Type:   mount.TypeBind,
				Source: absDataDir,
				Target: "/var/lib/postgresql/data",
			})
		}),
	)
	if err != nil {
		return nil, "", fmt.Errorf("error starting postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("error getting connection string: %w", err)
	}
	u, err := url.Parse(connStr)
	if err != nil {
		return nil, "", fmt.Errorf("error parsing connection string: %v", err)
	}

	return pgContainer.Terminate, u.Port(), nil
}

func downloadBook(bookName string) (string, error) {
	downloadURL := fmt.Sprintf("%s/%s", kjvRepoURL, url.PathEscape(bookName))
	resp, err := http.Get(downloadURL)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", bookName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: status %d", bookName, resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", bookName, err)
	}
	return string(content), nil
}

func main() {
	teardown, dbPort, err := startPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	config := model.DefaultConfig()
	config.NumSections = 25
	config.Percentile = 75

	s, err := storygraph.New(config)
	if err != nil {
		log.Fatalf("Failed to create storygraph: %v", err)
	}
	defer s.Close()

	fmt.Println("Setting up NER annotator and embedder...")
	if err := s.UseNERAnnotator(); err != nil {
		log.Fatalf("Failed to set up NER annotator: %v", err)
	}
	if err := s.UseDefaultEmbedder(); err != nil {
		log.Fatalf("Failed to set up embedder: %v", err)
	}
	if err := s.ConnectDatabase(dbConfig, pipeline.EmbeddingDim); err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	ctx := context.Background()
	processed, skipped := 0, 0
	for i, bookName := range kjvBooks {
		title := extractBookTitle(bookName)

		existing, err := s.Timelines.SelectTimelinesByBook(title, 1)
		if err == nil && len(existing) > 0 {
			fmt.Printf("Skipping %s (%d/%d) - already processed\n", title, i+1, len(kjvBooks))
			skipped++
			continue
		}

		fmt.Printf("Downloading %s (%d/%d)...\n", bookName, i+1, len(kjvBooks))
		content, err := downloadBook(bookName)
		if err != nil {
			log.Printf("Warning: %v, skipping...", err)
			continue
		}

		book := model.NewBook(title, content)
		book.Source = fmt.Sprintf("kjv/%s", bookName)

		path, result, err := s.ProcessToFile(ctx, book, "timelines")
		if err != nil {
			log.Printf("Warning: failed to process %s: %v, skipping...", title, err)
			continue
		}
		stored, err := s.SaveTimeline(ctx, result)
		if err != nil {
			log.Printf("Warning: failed to store %s: %v", title, err)
			continue
		}

		last := result.Timeline.Sections[len(result.Timeline.Sections)-1]
		fmt.Printf("  ✓ %s: %d sections, %d characters at the end, most important %s\n", title, result.Timeline.NumSections, len(last.Names), last.MostImportantCharacter)
		fmt.Printf("    written to %s, stored as %s\n", path, stored.RID)
		processed++
	}

	fmt.Printf("\n✓ KJV Status:\n")
	fmt.Printf("  - Processed: %d books\n", processed)
	fmt.Printf("  - Skipped (already in DB): %d books\n", skipped)
	fmt.Printf("  - Total: %d books\n\n", len(kjvBooks))

	query := "Who did Ruth follow to Bethlehem?"
	fmt.Printf("Searching: %q\n", query)
	fmt.Println(strings.Repeat("=", 20))

	sections, err := s.SearchSections(query, 3, 0)
	if err != nil {
		log.Fatalf("Search error: %v", err)
	}
	for i, section := range sections {
		fmt.Printf("\n[%d] Similarity: %.4f | Section: %d | Most important: %s\n", i+1, section.Similarity, section.SectionIndex+1, section.MostImportantCharacter)
		fmt.Printf("    Characters: %s\n", strings.Join(section.Names, ", "))

		content := section.Content
		if len(content) > 300 {
			content = content[:300] + "..."
		}
		fmt.Printf("    %s\n", content)
	}

	fmt.Println("\n" + strings.Repeat("=", 20))
	fmt.Println("Search complete!")
}

func extractBookTitle(filename string) string {
	// "01 - Genesis - KJV.md" -> "Genesis"
	parts := strings.Split(filename, " - ")
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSuffix(filename, ".md")
}
