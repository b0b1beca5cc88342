package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/siherrmann/storygraph"
	"github.com/siherrmann/storygraph/core/pipeline"
	"github.com/siherrmann/storygraph/helper"
	"github.com/siherrmann/storygraph/model"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "storygraph",
		Short: "Build character interaction timelines from books",
		Long: `Storygraph splits a book into sections, finds the characters of every
section and how often they appear together in a sentence, and writes
the resulting interaction networks with their statistics as JSON.`,
		Version: version,
	}

	processCmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Build the timeline of a book and write it to <output>/<Title>_analysis.json",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProcess,
	}
	addConfigFlags(processCmd)
	processCmd.Flags().StringP("title", "t", "", "Book title (default: file name or Untitled)")
	processCmd.Flags().String("text", "", "Book text, used when no file is given")
	processCmd.Flags().StringP("output", "o", getEnv("STORYGRAPH_OUTPUT_DIR", defaultOutputDir), "Output directory")
	processCmd.Flags().Bool("ner", false, "Use the distilbert-NER model instead of prose")
	processCmd.Flags().Bool("save", false, "Store the timeline in PostgreSQL (STORYGRAPH_DB_* env)")
	processCmd.Flags().Bool("embed", false, "Store section embeddings for search, requires --save")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find stored sections similar to the query",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}
	searchCmd.Flags().Int("limit", 5, "Maximum number of sections")
	searchCmd.Flags().Float64("threshold", 0, "Minimum cosine similarity")

	listCmd := &cobra.Command{
		Use:   "list [book]",
		Short: "List stored timelines, optionally filtered by book title",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runList,
	}
	listCmd.Flags().Int("limit", 20, "Maximum number of timelines")

	rootCmd.AddCommand(processCmd, searchCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	config, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	book, err := bookFromArgs(cmd, args)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	useNER, _ := cmd.Flags().GetBool("ner")
	save, _ := cmd.Flags().GetBool("save")
	embed, _ := cmd.Flags().GetBool("embed")
	if embed && !save {
		return fmt.Errorf("--embed requires --save")
	}

	s, err := storygraph.New(config)
	if err != nil {
		return err
	}
	defer s.Close()

	if useNER {
		if err := s.UseNERAnnotator(); err != nil {
			return err
		}
	}
	if save {
		if err := connect(s, embed); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, result, err := s.ProcessToFile(ctx, book, output)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)

	if save {
		stored, err := s.SaveTimeline(ctx, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored timeline %s\n", stored.RID)
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	threshold, _ := cmd.Flags().GetFloat64("threshold")

	s, err := storygraph.New(envConfig())
	if err != nil {
		return err
	}
	defer s.Close()
	if err := connect(s, true); err != nil {
		return err
	}

	sections, err := s.SearchSections(strings.Join(args, " "), limit, threshold)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, section := range sections {
		fmt.Fprintf(out, "[%d] %.4f timeline %s section %d: %s\n", i+1, section.Similarity, section.TimelineRID, section.SectionIndex, strings.Join(section.Names, ", "))
		fmt.Fprintf(out, "    %s\n", truncate(section.Content, 300))
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := storygraph.New(envConfig())
	if err != nil {
		return err
	}
	defer s.Close()
	if err := connect(s, false); err != nil {
		return err
	}

	var timelines []*model.StoredTimeline
	if len(args) > 0 {
		timelines, err = s.Timelines.SelectTimelinesByBook(args[0], limit)
	} else {
		timelines, err = s.Timelines.SelectAllTimelines(nil, limit)
	}
	if err != nil {
		return err
	}

	for _, t := range timelines {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-40s %3d sections  %s\n", t.RID, t.Book, t.NumSections, t.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// connect connects the database, with the default embedder if embed is set.
func connect(s *storygraph.Storygraph, embed bool) error {
	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return err
	}
	if embed {
		if err := s.UseDefaultEmbedder(); err != nil {
			return err
		}
	}
	return s.ConnectDatabase(dbConfig, pipeline.EmbeddingDim)
}

func bookFromArgs(cmd *cobra.Command, args []string) (*model.Book, error) {
	title, _ := cmd.Flags().GetString("title")
	if len(args) > 0 {
		return model.NewBookFromFile(args[0], title)
	}

	text, _ := cmd.Flags().GetString("text")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("either a file or --text is required")
	}
	return model.NewBook(title, text), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
