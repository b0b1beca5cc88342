package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/storygraph"
	"github.com/siherrmann/storygraph/model"
)

const sampleContent = `Harry and Sally met at the station. Sally laughed when Harry dropped his ticket.
Later that day Harry Potter told Ron about the strange girl from the station.
Ron and Hermione argued about it for an hour, and Hermione finally went to ask Sally herself.
Sally told Hermione the whole story. Harry listened from the corner while Ron pretended to sleep.
In the evening Harry, Ron and Hermione sat together by the fire.`

func main() {
	config := model.DefaultConfig()
	config.NumSections = 5
	config.Percentile = 25

	s, err := storygraph.New(config)
	if err != nil {
		log.Fatalf("Failed to create storygraph: %v", err)
	}

	fmt.Println("Building timeline...")
	path, result, err := s.ProcessToFile(context.Background(), model.NewBook("the_station", sampleContent), "timelines")
	if err != nil {
		log.Fatalf("Failed to process book: %v", err)
	}
	fmt.Printf("Timeline written to %s\n", path)

	tl := result.Timeline
	for i, section := range tl.Sections {
		fmt.Printf("\n--- Section %d ---\n", i+1)
		fmt.Printf("Characters: %v\n", section.Names)
		fmt.Printf("Most important: %s (degree %.0f)\n", section.MostImportantCharacter, section.DegreeOfMIC)
		fmt.Printf("Clustering: %.4f, Connectivity: %.4f, Components: %d\n", section.AverageClustering, section.NodeConnectivity, section.Components)
	}

	fmt.Println("\nFirst interactions:")
	for name, first := range tl.FirstInteractionsOverall {
		fmt.Printf("  %s with %s: %q\n", name, first.With, first.Context)
	}

	fmt.Println("\nBasic example completed successfully!")
}
