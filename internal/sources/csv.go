// Package sources decodes upstream drop-in program feeds into raw
// program records. Decoders are forgiving about header naming and
// per-row garbage; only an unreadable feed is fatal.
package sources

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/swimto/poolsync/pkg/errors"
	"github.com/swimto/poolsync/pkg/logging"
	"github.com/swimto/poolsync/pkg/programs"
)

// CSVSource reads program records from a CSV export.
type CSVSource struct {
	name string
	path string
}

// NewCSVSource creates a source reading the CSV file at path.
func NewCSVSource(name, path string) *CSVSource {
	return &CSVSource{name: name, path: path}
}

// Name identifies the source.
func (s *CSVSource) Name() string { return s.name }

// Records parses the whole file. Rows that cannot yield a usable record
// are logged and dropped rather than failing the feed.
func (s *CSVSource) Records(ctx context.Context) ([]programs.RawProgramRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.NewSourceError(s.name, errors.NewIOError("open", s.path, err))
	}
	defer f.Close()
	return decodeCSV(ctx, s.name, f)
}

func decodeCSV(ctx context.Context, source string, r io.Reader) ([]programs.RawProgramRecord, error) {
	log := logging.Ctx(ctx)

	cr := csv.NewReader(decodeBOM(r))
	cr.FieldsPerRecord = -1 // ragged exports happen
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.NewSourceError(source, errors.NewParseError("csv", source, "missing header row", err))
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var records []programs.RawProgramRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Warn().Str("source", source).Int("line", line).Err(err).Msg("skipping malformed csv row")
			continue
		}

		fields := make(map[string]string, len(header))
		for i, v := range row {
			if i < len(header) {
				fields[header[i]] = strings.TrimSpace(v)
			}
		}

		rec, ok := recordFromFields(fields, source)
		if !ok {
			log.Debug().Str("source", source).Int("line", line).Msg("row has no title, skipping")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// recordFromFields assembles a record from one row's header-keyed values.
// Different municipal exports disagree on column names, so each field
// probes several spellings.
func recordFromFields(fields map[string]string, source string) (programs.RawProgramRecord, bool) {
	title := programs.Field(fields, "title", "course title", "course_title", "program", "program name", "activity")
	if title == "" {
		return programs.RawProgramRecord{}, false
	}

	rec := programs.RawProgramRecord{
		Title:    title,
		Category: programs.Field(fields, "category", "section", "activity type"),
		CourseID: programs.Field(fields, "course_id", "course id", "courseid", "barcode"),
		Location: programs.LocationRef{
			ID:         programs.Field(fields, "location_id", "location id", "locationid", "facility id"),
			Name:       programs.Field(fields, "location", "location name", "facility", "facility name", "centre"),
			Address:    programs.Field(fields, "address", "street address", "location address"),
			PostalCode: programs.Field(fields, "postal_code", "postal code", "postal"),
		},
		AgeMin: atoiOrZero(programs.Field(fields, "age_min", "min age", "minimum age")),
		AgeMax: atoiOrZero(programs.Field(fields, "age_max", "max age", "maximum age")),
		Source: source,
	}

	schedule := programs.Field(fields, "schedule", "days and times", "date range", "times")
	if schedule == "" {
		// Some exports split day and time into separate columns.
		day := programs.Field(fields, "day", "days", "weekday")
		times := programs.Field(fields, "time", "start time")
		end := programs.Field(fields, "end time")
		if end != "" {
			times = times + " - " + end
		}
		schedule = strings.TrimSpace(day + " " + times)
	}
	rec.Slots = programs.ParseSchedule(schedule)
	return rec, true
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
