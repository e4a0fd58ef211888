package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/swimto/poolsync/pkg/errors"
	"github.com/swimto/poolsync/pkg/logging"
	"github.com/swimto/poolsync/pkg/programs"
)

// feedEntry mirrors one program in the drop-in JSON feed. Location data
// appears either nested or flattened depending on the feed version, so
// both shapes are accepted.
type feedEntry struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	CourseID string `json:"course_id"`

	Location struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Address    string `json:"address"`
		PostalCode string `json:"postal_code"`
	} `json:"location"`
	LocationName string `json:"location_name"`
	Address      string `json:"address"`
	PostalCode   string `json:"postal_code"`

	AgeMin int `json:"age_min"`
	AgeMax int `json:"age_max"`

	Schedule string `json:"schedule"`
	Slots    []struct {
		Day   string `json:"day"`
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"slots"`
}

// JSONSource reads program records from a JSON feed, either a local file
// or an HTTP endpoint.
type JSONSource struct {
	name   string
	path   string
	url    string
	client *http.Client
}

// NewJSONFileSource creates a source reading the JSON file at path.
func NewJSONFileSource(name, path string) *JSONSource {
	return &JSONSource{name: name, path: path}
}

// NewJSONURLSource creates a source fetching the feed over HTTP.
func NewJSONURLSource(name, url string) *JSONSource {
	return &JSONSource{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies the source.
func (s *JSONSource) Name() string { return s.name }

// Records fetches and decodes the feed.
func (s *JSONSource) Records(ctx context.Context) ([]programs.RawProgramRecord, error) {
	var r io.ReadCloser
	switch {
	case s.url != "":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, errors.NewSourceError(s.name, err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, errors.NewSourceError(s.name, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, errors.NewSourceError(s.name, fmt.Errorf("unexpected status %s from %s", resp.Status, s.url))
		}
		r = resp.Body
	default:
		f, err := os.Open(s.path)
		if err != nil {
			return nil, errors.NewSourceError(s.name, errors.NewIOError("open", s.path, err))
		}
		r = f
	}
	defer r.Close()
	return decodeJSON(ctx, s.name, r)
}

func decodeJSON(ctx context.Context, source string, r io.Reader) ([]programs.RawProgramRecord, error) {
	log := logging.Ctx(ctx)

	var entries []feedEntry
	if err := json.NewDecoder(decodeBOM(r)).Decode(&entries); err != nil {
		return nil, errors.NewSourceError(source, errors.NewParseError("json", source, "undecodable feed", err))
	}

	records := make([]programs.RawProgramRecord, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Title) == "" {
			log.Debug().Str("source", source).Int("index", i).Msg("entry has no title, skipping")
			continue
		}
		records = append(records, recordFromEntry(e, source))
	}
	return records, nil
}

func recordFromEntry(e feedEntry, source string) programs.RawProgramRecord {
	loc := programs.LocationRef{
		ID:         e.Location.ID,
		Name:       e.Location.Name,
		Address:    e.Location.Address,
		PostalCode: e.Location.PostalCode,
	}
	if loc.Name == "" {
		loc.Name = e.LocationName
	}
	if loc.Address == "" {
		loc.Address = e.Address
	}
	if loc.PostalCode == "" {
		loc.PostalCode = e.PostalCode
	}

	rec := programs.RawProgramRecord{
		Title:    strings.TrimSpace(e.Title),
		Category: e.Category,
		CourseID: e.CourseID,
		Location: loc,
		AgeMin:   e.AgeMin,
		AgeMax:   e.AgeMax,
		Source:   source,
	}

	for _, slot := range e.Slots {
		days := programs.ParseWeekdays(slot.Day)
		start, errStart := programs.ParseTimeOfDay(slot.Start)
		end, errEnd := programs.ParseTimeOfDay(slot.End)
		if len(days) == 0 || errStart != nil || errEnd != nil {
			continue
		}
		for _, d := range days {
			rec.Slots = append(rec.Slots, programs.WeeklySlot{Day: d, Start: start, End: end})
		}
	}
	if len(rec.Slots) == 0 && e.Schedule != "" {
		rec.Slots = programs.ParseSchedule(e.Schedule)
	}
	return rec
}
