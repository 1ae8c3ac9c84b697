package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Location is the position of a task node on the workflow canvas.
type Location struct {
	TaskCode int64   `json:"taskCode"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// ParseLocations decodes t_ds_process_definition.locations. Entries
// without a taskCode are skipped; an empty column yields no locations.
func ParseLocations(stored string) ([]Location, error) {
	if strings.TrimSpace(stored) == "" || stored == "null" {
		return nil, nil
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stored), &items); err != nil {
		return nil, errors.Wrap(err, "decode locations")
	}

	locations := make([]Location, 0, len(items))
	for i, item := range items {
		raw, ok := item["taskCode"]
		if !ok {
			continue
		}
		var (
			loc Location
			err error
		)
		if loc.TaskCode, err = jsonInt64(raw); err != nil {
			return nil, errors.Wrapf(err, "locations[%d].taskCode", i)
		}
		if loc.X, err = jsonFloat64(item["x"]); err != nil {
			return nil, errors.Wrapf(err, "locations[%d].x", i)
		}
		if loc.Y, err = jsonFloat64(item["y"]); err != nil {
			return nil, errors.Wrapf(err, "locations[%d].y", i)
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

// jsonFloat64 accepts a JSON number or a numeric string.
func jsonFloat64(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, errors.New("missing coordinate")
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.Float64()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func jsonInt64(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.Int64()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// ComplementTimeRange is the date window of a complement (backfill) run.
type ComplementTimeRange struct {
	Start time.Time
	End   time.Time
}

// DefaultComplementTimeRange covers midnight of now's day at both ends.
func DefaultComplementTimeRange(now time.Time) ComplementTimeRange {
	today := Midnight(now)
	return ComplementTimeRange{Start: today, End: today}
}

func (r ComplementTimeRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"complementStartDate": r.Start.Format(TimeLayout),
		"complementEndDate":   r.End.Format(TimeLayout),
	})
}

// Schedule is the timing part of a workflow schedule.
type Schedule struct {
	StartTime  time.Time
	EndTime    time.Time
	Crontab    string
	TimezoneID string
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"startTime":  s.StartTime.Format(TimeLayout),
		"endTime":    s.EndTime.Format(TimeLayout),
		"crontab":    s.Crontab,
		"timezoneId": s.TimezoneID,
	})
}

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
