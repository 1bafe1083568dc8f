package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dd0wney/cluso-modelgraph/pkg/catalog"
	"github.com/dd0wney/cluso-modelgraph/pkg/config"
	"github.com/dd0wney/cluso-modelgraph/pkg/extraction"
	"github.com/dd0wney/cluso-modelgraph/pkg/logging"
	"github.com/dd0wney/cluso-modelgraph/pkg/metrics"
	"github.com/dd0wney/cluso-modelgraph/pkg/network"
	"github.com/dd0wney/cluso-modelgraph/pkg/onnx"
	"github.com/dd0wney/cluso-modelgraph/pkg/stats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "extract":
		runExtract(os.Args[2:])
	case "list":
		runList(os.Args[2:])
	case "show":
		runShow(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		printVersion()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	var (
		configPath  = fs.String("config", "", "Configuration file (YAML)")
		mode        = fs.String("mode", "", "Extraction mode: shallow or deep (overrides config)")
		catalogPath = fs.String("catalog", "", "Catalog database path (overrides config)")
		source      = fs.String("source", "", "Source label for catalogued networks (default: model path)")
	)
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: modelgraph extract [flags] <model.onnx>")
		os.Exit(1)
	}
	modelPath := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Extraction.Mode = *mode
	}
	if *catalogPath != "" {
		cfg.Catalog.Path = *catalogPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *source == "" {
		*source = modelPath
	}

	level := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewJSONLogger(os.Stderr, level).With(logging.Component("extract"))
	reg := metrics.NewRegistry()

	ctx := context.Background()

	model, err := onnx.ParseFile(modelPath)
	if err != nil {
		logger.Error("failed to parse model", logging.Path(modelPath), logging.Error(err))
		os.Exit(1)
	}
	logger.Info("parsed model",
		logging.Path(modelPath),
		logging.Int("functions", len(model.Functions)))

	timer := logging.StartTimer(logger, "extract", logging.Model(modelPath))
	start := time.Now()

	var (
		root       *network.Network
		discovered []*network.Network
	)
	if cfg.Extraction.Mode == "shallow" {
		root, err = extraction.ExtractShallow(model)
	} else {
		root, discovered, err = extraction.ExtractDeep(model, cfg.Extraction.RecurseFunctions)
	}
	if err != nil {
		reg.ExtractionsTotal.WithLabelValues(cfg.Extraction.Mode, "error").Inc()
		timer.EndError(err)
		os.Exit(1)
	}
	reg.ExtractionsTotal.WithLabelValues(cfg.Extraction.Mode, "success").Inc()
	reg.ExtractionDuration.WithLabelValues(cfg.Extraction.Mode).Observe(time.Since(start).Seconds())
	observeNetworks(reg, root, discovered)
	timer.End()
	logger.Info("extraction complete",
		logging.NetworkID(root.ID),
		logging.Networks(1+len(discovered)),
		logging.Vertices(root.VertexCount()),
		logging.Edges(root.EdgeCount()))

	store, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		logger.Error("failed to open catalog", logging.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	all := append([]*network.Network{root}, discovered...)
	if err := store.SaveAll(ctx, *source, all...); err != nil {
		reg.CatalogOperationsTotal.WithLabelValues("save", "error").Inc()
		logger.Error("failed to catalogue networks", logging.Error(err))
		os.Exit(1)
	}
	reg.CatalogOperationsTotal.WithLabelValues("save", "success").Inc()
	logger.Info("catalogued networks",
		logging.Networks(len(all)),
		logging.Path(cfg.Catalog.Path))

	if cfg.Archive.Enabled {
		archiver, err := catalog.NewArchiver(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix, cfg.Archive.Region)
		if err != nil {
			logger.Error("failed to build archiver", logging.Error(err))
			os.Exit(1)
		}
		keys, err := archiver.UploadAll(ctx, all...)
		if err != nil {
			reg.ArchiveUploadsTotal.WithLabelValues("error").Inc()
			logger.Error("failed to archive networks", logging.Error(err))
			os.Exit(1)
		}
		reg.ArchiveUploadsTotal.WithLabelValues("success").Add(float64(len(keys)))
		logger.Info("archived networks", logging.Networks(len(keys)))
	}

	summary := stats.Aggregate(root, discovered)
	printSummary(root, summary)
}

func observeNetworks(reg *metrics.Registry, root *network.Network, discovered []*network.Network) {
	reg.NetworksExtractedTotal.Add(float64(1 + len(discovered)))
	reg.NetworkVertices.Observe(float64(root.VertexCount()))
	reg.NetworkEdges.Observe(float64(root.EdgeCount()))
	for _, n := range discovered {
		reg.NetworkVertices.Observe(float64(n.VertexCount()))
		reg.NetworkEdges.Observe(float64(n.EdgeCount()))
	}
}

func printSummary(root *network.Network, summary stats.Summary) {
	fmt.Printf("network %s\n", root.ID)
	fmt.Printf("  networks:        %d (%d subgraphs, %d function bodies)\n",
		summary.Networks, summary.Subgraphs, summary.FunctionBodies)
	fmt.Printf("  vertices:        %d\n", summary.Vertices)
	fmt.Printf("  edges:           %d\n", summary.Edges)
	for _, op := range summary.TopOperators(10) {
		fmt.Printf("  %-16s %d\n", op, summary.Operators[op])
	}
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	var (
		catalogPath = fs.String("catalog", "modelgraph.db", "Catalog database path")
		source      = fs.String("source", "", "Only list networks from this source")
	)
	fs.Parse(args)

	store, err := catalog.Open(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open catalog: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	records, err := store.List(context.Background(), *source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list catalog: %v\n", err)
		os.Exit(1)
	}

	for _, r := range records {
		kind := "graph"
		if r.IsSubgraph {
			kind = "subgraph"
		} else if r.IsFunctionBody {
			kind = "function"
		}
		fmt.Printf("%s  %-8s  v=%-5d e=%-5d  %s\n",
			r.NetworkID, kind, r.VertexCount, r.EdgeCount, r.Source)
	}
}

func runShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	catalogPath := fs.String("catalog", "modelgraph.db", "Catalog database path")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: modelgraph show [flags] <network-id>")
		os.Exit(1)
	}

	store, err := catalog.Open(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open catalog: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	n, err := store.Load(context.Background(), fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load network: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(n); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode network: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	usage := `modelgraph - extract computation graphs from ONNX models

Usage:
  modelgraph <command> [options]

Available Commands:
  extract     Extract networks from an ONNX model into the catalog
  list        List catalogued networks
  show        Print one catalogued network as JSON
  help        Show this help message
  version     Show version information

Use "modelgraph <command> --help" for more information about a command.
`
	fmt.Print(usage)
}

func printVersion() {
	fmt.Println("modelgraph v1.0.0")
}
