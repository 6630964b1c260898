package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	capsule "github.com/poiesic/capsule"
	"github.com/poiesic/capsule/core"
)

var (
	dbPath  = flag.String("db", "./topics_db", "path to BadgerDB database directory")
	verbose = flag.Bool("v", false, "enable debug logging")
)

// Sample topics spanning several fields so similarity search has something
// interesting to rank.
var topics = []core.Topic{
	{
		Name: "Post-Quantum Cryptography Migration",
		Attributes: core.TopicAttributes{
			Field:           "Computer Science",
			SubField:        "Cryptography",
			SubjectMatter:   "Transitioning deployed systems to lattice-based schemes",
			Relevance:       "Standards bodies have finalized the first algorithm suites",
			PotentialImpact: "Every TLS deployment on the planet needs touching",
			Hotness:         core.HotnessHigh,
		},
	},
	{
		Name: "Solid State Battery Manufacturing",
		Attributes: core.TopicAttributes{
			Field:           "Materials Science",
			SubField:        "Energy Storage",
			SubjectMatter:   "Scaling sulfide electrolyte production beyond lab volumes",
			Relevance:       "Automotive adoption hinges on cost per kilowatt hour",
			PotentialImpact: "Doubles effective electric vehicle range",
			Hotness:         core.HotnessHigh,
		},
	},
	{
		Name: "Ocean Alkalinity Enhancement",
		Attributes: core.TopicAttributes{
			Field:           "Climate Science",
			SubField:        "Carbon Removal",
			SubjectMatter:   "Dissolving minerals at sea to draw down atmospheric carbon",
			Relevance:       "Field trials started in coastal waters this year",
			PotentialImpact: "Gigaton-scale removal if ecological limits hold",
			Hotness:         core.HotnessMedium,
		},
	},
	{
		Name: "Organoid Intelligence",
		Attributes: core.TopicAttributes{
			Field:           "Biology",
			SubField:        "Neuroscience",
			SubjectMatter:   "Brain organoids as living computing substrates",
			Relevance:       "First demonstrations of learned behavior in vitro",
			PotentialImpact: "Raises computing and ethics questions in equal measure",
			Hotness:         core.HotnessMedium,
		},
	},
	{
		Name: "Muon Collider Feasibility",
		Attributes: core.TopicAttributes{
			Field:           "Physics",
			SubField:        "Particle Physics",
			SubjectMatter:   "Cooling muon beams fast enough to collide before decay",
			Relevance:       "Proposed as the successor to existing colliders",
			PotentialImpact: "Probes energy scales otherwise out of reach",
			Hotness:         core.HotnessLow,
		},
	},
	{
		Name: "Ambient Backscatter Networking",
		Attributes: core.TopicAttributes{
			Field:           "Computer Science",
			SubField:        "Wireless Networks",
			SubjectMatter:   "Battery-free devices communicating off reflected radio waves",
			Relevance:       "Enables maintenance-free sensor deployments",
			PotentialImpact: "Trillion-sensor visions stop being a battery problem",
			Hotness:         core.HotnessLow,
		},
	},
}

func main() {
	flag.Parse()

	if *verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	engine, err := capsule.NewEngine(*dbPath)
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	ctx := context.Background()
	result := engine.StoreSelectedTopics(ctx, topics)

	for _, msg := range result.FailedMessages {
		fmt.Fprintln(os.Stderr, msg)
	}
	fmt.Printf("seeded %d of %d topics (status: %s)\n",
		len(result.SuccessfulTopics), len(topics), result.Status)
}
