package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"lineplan/config"
	"lineplan/internal/domain/design"
	logs "lineplan/internal/infra/log"
	usecase "lineplan/internal/usecase/design"
)

func newLogger() *slog.Logger {
	cfg := &config.Config{}
	cfg.Env.Log.Level = "info"
	if v := os.Getenv("DESIGNENGINE_LOG_LEVEL"); v != "" {
		cfg.Env.Log.Level = v
	}
	cfg.Env.Log.Pretty = os.Getenv("DESIGNENGINE_LOG_PRETTY") == "true"

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return slog.Default()
	}
	return logger
}

// designengine runs one wiring-design request against a feature batch
// read from a JSON file and prints the ranked result to stdout.
//
// Supported subcommand:
// - run: normalize, route and cost a single request

func main() {
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	runInput := runCmd.String("input", "", "Path to a request JSON file")
	runConfig := runCmd.String("config", "", "Path to a JSON config override (optional)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runSubcommand(ctx, os.Args[1], runCmd, runInput, runConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSubcommand(ctx context.Context, name string, runCmd *flag.FlagSet, input, cfgPath *string) error {
	switch name {
	case "run":
		if err := runCmd.Parse(os.Args[2:]); err != nil {
			return errors.Wrap(err, "failed to parse run flags")
		}
		if *input == "" {
			return errors.New("--input flag is required for run command")
		}
		return handleRun(ctx, *input, *cfgPath)
	default:
		printUsage()
		return errors.New("unknown subcommand")
	}
}

func handleRun(ctx context.Context, inputPath, cfgPath string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrap(err, "failed to read request file")
	}

	var doc requestDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(err, "failed to parse request JSON")
	}

	designCfg := config.DefaultDesignConfig()
	if cfgPath != "" {
		loaded, err := loadDesignConfig(cfgPath)
		if err != nil {
			return errors.Wrap(err, "failed to load config override")
		}
		designCfg = loaded
	}

	orchestrator := usecase.NewOrchestrator(usecase.Params{Config: designCfg, Logger: newLogger()})
	result := orchestrator.Process(ctx, doc.toRequest())

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal result")
	}

	fmt.Println(string(out))
	return nil
}

func loadDesignConfig(path string) (*config.DesignConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := config.DefaultDesignConfig()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printUsage() {
	fmt.Println("Usage: designengine <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run    Run one wiring design request from a JSON file")
	fmt.Println("")
	fmt.Println("Use 'designengine <command> -h' for more information about a command.")
}

// requestDocument is the CLI's plain-coordinate wire format for a
// request. It is translated into design.Request's RawFeature batches,
// which carry typed orb geometry rather than raw coordinate arrays.
type requestDocument struct {
	Consumer struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"consumer"`
	Phase  string  `json:"phase"`
	LoadKW float64 `json:"load_kw"`

	Poles        []map[string]any `json:"poles"`
	Lines        []map[string]any `json:"lines"`
	Transformers []map[string]any `json:"transformers"`
	Roads        []map[string]any `json:"roads"`
	Buildings    []map[string]any `json:"buildings"`
	Railways     []map[string]any `json:"railways"`
	Rivers       []map[string]any `json:"rivers"`
}

func (d requestDocument) toRequest() design.Request {
	return design.Request{
		ConsumerX: d.Consumer.X,
		ConsumerY: d.Consumer.Y,
		Phase:     design.PhaseClass(d.Phase),
		LoadKW:    d.LoadKW,
		Features: design.FeatureBatch{
			Poles:        toRawFeatures(d.Poles),
			Lines:        toRawFeatures(d.Lines),
			Transformers: toRawFeatures(d.Transformers),
			Roads:        toRawFeatures(d.Roads),
			Buildings:    toRawFeatures(d.Buildings),
			Railways:     toRawFeatures(d.Railways),
			Rivers:       toRawFeatures(d.Rivers),
		},
	}
}

// toRawFeatures decodes each record's "GEOM" field, a plain nested
// coordinate array, into the concrete orb geometry type its shape
// implies: a pair of numbers is a point, a list of pairs is a line
// string, and a list of rings is a polygon.
func toRawFeatures(records []map[string]any) []design.RawFeature {
	out := make([]design.RawFeature, 0, len(records))
	for _, rec := range records {
		feature := design.RawFeature{}
		for k, v := range rec {
			if k == "GEOM" {
				if geom, ok := decodeGeometry(v); ok {
					feature["GEOM"] = geom
					continue
				}
			}
			feature[k] = v
		}
		out = append(out, feature)
	}
	return out
}

func decodeGeometry(v any) (any, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil, false
	}

	if pt, ok := asPoint(arr); ok {
		return pt, true
	}

	if nested, ok := arr[0].([]any); ok {
		if _, ok := asPoint(nested); ok {
			return asLineString(arr)
		}
		return asPolygon(arr)
	}

	return nil, false
}

func asPoint(arr []any) (orb.Point, bool) {
	if len(arr) != 2 {
		return orb.Point{}, false
	}
	x, ok1 := toFloat(arr[0])
	y, ok2 := toFloat(arr[1])
	if !ok1 || !ok2 {
		return orb.Point{}, false
	}
	return orb.Point{x, y}, true
}

func asLineString(arr []any) (orb.LineString, bool) {
	out := make(orb.LineString, 0, len(arr))
	for _, item := range arr {
		pair, ok := item.([]any)
		if !ok {
			return nil, false
		}
		pt, ok := asPoint(pair)
		if !ok {
			return nil, false
		}
		out = append(out, pt)
	}
	return out, true
}

func asPolygon(arr []any) (orb.Polygon, bool) {
	out := make(orb.Polygon, 0, len(arr))
	for _, item := range arr {
		ring, ok := item.([]any)
		if !ok {
			return nil, false
		}
		ls, ok := asLineString(ring)
		if !ok {
			return nil, false
		}
		out = append(out, orb.Ring(ls))
	}
	return out, true
}

func toFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
