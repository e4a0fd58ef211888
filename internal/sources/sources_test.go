package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swimto/poolsync/pkg/errors"
	"github.com/swimto/poolsync/pkg/programs"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSource(t *testing.T) {
	csvBody := "Title,Category,Location,Address,Postal Code,Schedule,Min Age\n" +
		"Adult Lane Swim,Swimming,High Park Pool,1840 Bloor St W,M6R 1A4,Wed 6:00PM - 8:00PM,18\n" +
		"Leisure Swim,Swimming,Regent Park Aquatic Centre,,,Sat 1:00PM - 3:00PM,\n" +
		",Swimming,No Title Row,,,,\n"

	src := NewCSVSource("city-csv", writeTemp(t, "programs.csv", csvBody))
	assert.Equal(t, "city-csv", src.Name())

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "titleless row must be dropped")

	rec := records[0]
	assert.Equal(t, "Adult Lane Swim", rec.Title)
	assert.Equal(t, "High Park Pool", rec.Location.Name)
	assert.Equal(t, "M6R 1A4", rec.Location.PostalCode)
	assert.Equal(t, 18, rec.AgeMin)
	assert.Equal(t, "city-csv", rec.Source)
	require.Len(t, rec.Slots, 1)
	assert.Equal(t, time.Wednesday, rec.Slots[0].Day)
	assert.Equal(t, programs.NewTimeOfDay(18, 0), rec.Slots[0].Start)
	assert.Equal(t, programs.NewTimeOfDay(20, 0), rec.Slots[0].End)
}

func TestCSVSourceUTF8BOM(t *testing.T) {
	csvBody := "\xEF\xBB\xBFTitle,Location,Schedule\n" +
		"Aquafit,High Park Pool,Mon 9:00AM - 10:00AM\n"

	src := NewCSVSource("city-csv", writeTemp(t, "bom.csv", csvBody))
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Aquafit", records[0].Title, "BOM must not leak into the first header")
}

func TestCSVSourceSplitDayTimeColumns(t *testing.T) {
	csvBody := "Title,Location,Day,Start Time,End Time\n" +
		"Lane Swim,High Park Pool,Friday,7:00AM,9:00AM\n"

	src := NewCSVSource("city-csv", writeTemp(t, "split.csv", csvBody))
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Slots, 1)
	assert.Equal(t, time.Friday, records[0].Slots[0].Day)
	assert.Equal(t, programs.NewTimeOfDay(7, 0), records[0].Slots[0].Start)
	assert.Equal(t, programs.NewTimeOfDay(9, 0), records[0].Slots[0].End)
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource("city-csv", filepath.Join(t.TempDir(), "nope.csv"))
	_, err := src.Records(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
}

const jsonFeed = `[
  {
    "title": "Adult Lane Swim",
    "category": "Swimming",
    "course_id": "C100",
    "location": {"id": "FAC001", "name": "High Park Pool", "postal_code": "M6R 1A4"},
    "age_min": 18,
    "slots": [{"day": "Wednesday", "start": "18:00", "end": "20:00"}]
  },
  {
    "title": "Leisure Swim",
    "location_name": "Regent Park Aquatic Centre",
    "schedule": "Sat/Sun 1:00PM - 3:00PM"
  },
  {"title": "   "}
]`

func TestJSONFileSource(t *testing.T) {
	src := NewJSONFileSource("city-json", writeTemp(t, "feed.json", jsonFeed))
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "blank-title entry must be dropped")

	first := records[0]
	assert.Equal(t, "FAC001", first.Location.ID)
	assert.Equal(t, "High Park Pool", first.Location.Name)
	require.Len(t, first.Slots, 1)
	assert.Equal(t, time.Wednesday, first.Slots[0].Day)

	second := records[1]
	assert.Equal(t, "Regent Park Aquatic Centre", second.Location.Name)
	assert.Len(t, second.Slots, 2, "schedule text expands to one slot per day")
}

func TestJSONURLSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jsonFeed))
	}))
	defer ts.Close()

	src := NewJSONURLSource("city-json", ts.URL)
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestJSONURLSourceBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	src := NewJSONURLSource("city-json", ts.URL)
	_, err := src.Records(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
	assert.True(t, strings.Contains(err.Error(), "503"))
}

func TestJSONSourceGarbageBody(t *testing.T) {
	src := NewJSONFileSource("city-json", writeTemp(t, "bad.json", "not json at all"))
	_, err := src.Records(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
}
