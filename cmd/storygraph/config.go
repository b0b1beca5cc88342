package main

import (
	"os"
	"strconv"

	"github.com/siherrmann/storygraph/model"
	"github.com/spf13/cobra"
)

const defaultOutputDir = "timelines"

// envConfig returns the default config with STORYGRAPH_* overrides applied.
func envConfig() model.Config {
	config := model.DefaultConfig()
	config.NumSections = getEnvInt("STORYGRAPH_SECTIONS", config.NumSections)
	config.Percentile = getEnvFloat("STORYGRAPH_PERCENTILE", config.Percentile)
	config.Narrator = getEnv("STORYGRAPH_NARRATOR", config.Narrator)
	config.Workers = getEnvInt("STORYGRAPH_WORKERS", config.Workers)
	config.Quiet = getEnvBool("STORYGRAPH_QUIET", config.Quiet)
	return config
}

func addConfigFlags(cmd *cobra.Command) {
	config := envConfig()
	flags := cmd.Flags()
	flags.String("chapter-pattern", "", "Regex splitting the text into chapters (default: split by paragraphs)")
	flags.IntP("sections", "n", config.NumSections, "Number of sections when splitting by paragraphs")
	flags.Float64P("percentile", "p", config.Percentile, "Characters below this percentile of interactions are pruned")
	flags.Bool("pruned", config.Pruned, "Prune unimportant characters")
	flags.String("narrator", config.Narrator, "Real name of a first person narrator")
	flags.Bool("sparse-edges", config.SparseEdges, "Leave out graph edges for pairs without interactions")
	flags.Bool("drop-blank", config.DropBlankSections, "Drop sections without text")
	flags.Int("workers", config.Workers, "Sections analysed in parallel")
	flags.BoolP("quiet", "q", config.Quiet, "Only log warnings and errors")
}

// configFromFlags reads the flags added by addConfigFlags.
func configFromFlags(cmd *cobra.Command) (model.Config, error) {
	config := envConfig()
	flags := cmd.Flags()

	var err error
	if config.ChapterPattern, err = flags.GetString("chapter-pattern"); err != nil {
		return config, err
	}
	if config.NumSections, err = flags.GetInt("sections"); err != nil {
		return config, err
	}
	if config.Percentile, err = flags.GetFloat64("percentile"); err != nil {
		return config, err
	}
	if config.Pruned, err = flags.GetBool("pruned"); err != nil {
		return config, err
	}
	if config.Narrator, err = flags.GetString("narrator"); err != nil {
		return config, err
	}
	if config.SparseEdges, err = flags.GetBool("sparse-edges"); err != nil {
		return config, err
	}
	if config.DropBlankSections, err = flags.GetBool("drop-blank"); err != nil {
		return config, err
	}
	if config.Workers, err = flags.GetInt("workers"); err != nil {
		return config, err
	}
	if config.Quiet, err = flags.GetBool("quiet"); err != nil {
		return config, err
	}

	_, err = config.Validate()
	return config, err
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}
