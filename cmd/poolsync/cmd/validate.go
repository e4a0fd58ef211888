package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swimto/poolsync/pkg/classifier"
	"github.com/swimto/poolsync/pkg/facilities"
	"github.com/swimto/poolsync/pkg/logging"
)

var validateFlags struct {
	facilitiesFile string
	recordsFile    string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check input files without running the pipeline",
	Long: `Validate loads the facility directory and, when given, a records file,
and reports what the pipeline would see: facility count, total records,
how many look like swim programs, and how many carry parseable weekly
schedules.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.facilitiesFile, "facilities", "f", "", "facility directory YAML file")
	validateCmd.Flags().StringVarP(&validateFlags.recordsFile, "records", "r", "", "raw program records file (.csv or .json)")
	cobra.CheckErr(validateCmd.MarkFlagRequired("facilities"))
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.Ctx(ctx)

	if err := requireFile(validateFlags.facilitiesFile, "facilities"); err != nil {
		return err
	}
	dir, err := facilities.Load(validateFlags.facilitiesFile)
	if err != nil {
		return err
	}
	fmt.Printf("facilities: %d ok\n", len(dir))

	if validateFlags.recordsFile == "" {
		return nil
	}

	src, err := fileSource("", validateFlags.recordsFile)
	if err != nil {
		return err
	}
	records, err := src.Records(ctx)
	if err != nil {
		return err
	}

	swim, scheduled := 0, 0
	for _, rec := range records {
		if classifier.IsSwimActivity(rec.Title, rec.Category) {
			swim++
		}
		if len(rec.Slots) > 0 {
			scheduled++
		}
	}
	log.Debug().Int("records", len(records)).Int("swim", swim).Msg("validated records file")

	fmt.Printf("records: %d total, %d swim programs, %d with weekly schedules\n",
		len(records), swim, scheduled)
	if swim == 0 {
		fmt.Println("warning: no swim programs detected; a pipeline run would fail")
	}
	return nil
}
