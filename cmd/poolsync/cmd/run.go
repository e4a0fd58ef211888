package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/swimto/poolsync/internal/config"
	"github.com/swimto/poolsync/internal/sources"
	"github.com/swimto/poolsync/pkg/errors"
	"github.com/swimto/poolsync/pkg/facilities"
	"github.com/swimto/poolsync/pkg/logging"
	"github.com/swimto/poolsync/pkg/pipeline"
	"github.com/swimto/poolsync/pkg/sessions"
)

var runFlags struct {
	facilitiesFile string
	recordsFile    string
	sourceURL      string
	sourceName     string
	output         string
	start          string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full reconciliation pipeline",
	Long: `Run fetches raw program records, reconciles them against the facility
directory, and writes the resulting schedule bundle as JSON.

Records come from either a local file (--records, CSV or JSON by
extension) or an HTTP feed (--source-url).`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.facilitiesFile, "facilities", "f", "", "facility directory YAML file")
	runCmd.Flags().StringVarP(&runFlags.recordsFile, "records", "r", "", "raw program records file (.csv or .json)")
	runCmd.Flags().StringVar(&runFlags.sourceURL, "source-url", "", "fetch records from an HTTP JSON feed")
	runCmd.Flags().StringVar(&runFlags.sourceName, "source-name", "", "provenance label for generated sessions")
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "", "write the result bundle to a file instead of stdout")
	runCmd.Flags().StringVar(&runFlags.start, "start", "", "first day of the generation window (YYYY-MM-DD, default today)")

	runCmd.Flags().Int("weeks", 0, "how many weeks of sessions to generate")
	runCmd.Flags().Bool("optimize", true, "resolve overlapping sessions instead of only reporting them")
	runCmd.Flags().Float64("threshold", 0, "facility match threshold (0, 1]")
	runCmd.Flags().Int("workers", 0, "record processing concurrency")

	for flag, key := range map[string]string{
		"weeks":     config.KeyWeeksAhead,
		"optimize":  config.KeyOptimize,
		"threshold": config.KeyMatchThreshold,
		"workers":   config.KeyWorkers,
	} {
		cobra.CheckErr(viper.BindPFlag(key, runCmd.Flags().Lookup(flag)))
	}
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.Ctx(ctx)

	facilitiesFile := runFlags.facilitiesFile
	if facilitiesFile == "" {
		facilitiesFile = config.FacilitiesFile()
	}
	if err := requireFile(facilitiesFile, "facilities"); err != nil {
		return err
	}

	dir, err := facilities.Load(facilitiesFile)
	if err != nil {
		return err
	}
	log.Info().Int("facilities", len(dir)).Str("file", facilitiesFile).Msg("loaded facility directory")

	src, err := buildSource()
	if err != nil {
		return err
	}

	opts := []pipeline.Option{
		pipeline.WithWeeks(config.WeeksAhead()),
		pipeline.WithOptimize(config.Optimize()),
		pipeline.WithMatchThreshold(config.MatchThreshold()),
		pipeline.WithWorkers(config.Workers()),
	}
	if runFlags.start != "" {
		start, err := sessions.ParseDate(runFlags.start)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		opts = append(opts, pipeline.WithStart(start))
	}
	if runFlags.sourceName != "" {
		opts = append(opts, pipeline.WithSourceName(runFlags.sourceName))
	}

	p, err := pipeline.New(dir, opts...)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, src)
	if err != nil {
		return err
	}

	if err := writeResult(result); err != nil {
		return err
	}

	log.Info().
		Int("sessions", len(result.Sessions)).
		Float64("quality_score", result.Quality.Score).
		Int("conflicts", result.Stats.ConflictsDetected).
		Msg("schedule bundle written")
	return nil
}

func buildSource() (pipeline.Source, error) {
	name := runFlags.sourceName
	sourceURL := runFlags.sourceURL
	if sourceURL == "" {
		sourceURL = config.SourceURL()
	}

	switch {
	case sourceURL != "":
		if name == "" {
			name = "drop-in-feed"
		}
		return sources.NewJSONURLSource(name, sourceURL), nil
	case runFlags.recordsFile != "":
		return fileSource(name, runFlags.recordsFile)
	default:
		return nil, errors.New("either --records or --source-url is required")
	}
}

// fileSource picks the decoder for a local records file by extension.
func fileSource(name, path string) (pipeline.Source, error) {
	if err := requireFile(path, "records"); err != nil {
		return nil, err
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return sources.NewCSVSource(name, path), nil
	case ".json":
		return sources.NewJSONFileSource(name, path), nil
	default:
		return nil, errors.NewValidationError("records", path, "unsupported extension, want .csv or .json")
	}
}

func writeResult(result *pipeline.Result) error {
	out := os.Stdout
	if runFlags.output != "" {
		f, err := os.Create(runFlags.output)
		if err != nil {
			return errors.NewIOError("create", runFlags.output, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return errors.NewIOError("encode", runFlags.output, err)
	}
	return nil
}
