package schedule

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/gezmi/trailbus/internal/geo"
	"github.com/gezmi/trailbus/internal/models"
)

// The row structs below mirror the GTFS text files exactly, with gocsv
// header tags matching the feed's column names verbatim. Parsing happens
// once at ingestion; everything downstream works with typed values.

type stopRow struct {
	StopID   string `csv:"stop_id"`
	StopName string `csv:"stop_name"`
	StopLat  string `csv:"stop_lat"`
	StopLon  string `csv:"stop_lon"`
}

type routeRow struct {
	RouteID        string `csv:"route_id"`
	AgencyID       string `csv:"agency_id"`
	RouteShortName string `csv:"route_short_name"`
}

type agencyRow struct {
	AgencyID   string `csv:"agency_id"`
	AgencyName string `csv:"agency_name"`
}

type tripRow struct {
	TripID    string `csv:"trip_id"`
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
}

type stopTimeRow struct {
	TripID        string `csv:"trip_id"`
	StopID        string `csv:"stop_id"`
	StopSequence  string `csv:"stop_sequence"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
}

type calendarRow struct {
	ServiceID string `csv:"service_id"`
	Monday    string `csv:"monday"`
	Tuesday   string `csv:"tuesday"`
	Wednesday string `csv:"wednesday"`
	Thursday  string `csv:"thursday"`
	Friday    string `csv:"friday"`
	Saturday  string `csv:"saturday"`
	Sunday    string `csv:"sunday"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
}

type calendarDateRow struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType string `csv:"exception_type"`
}

// RawFeed holds the unfiltered GTFS text-file rows for one feed directory.
// Calendar and CalendarDates may each be empty — feeds sometimes supply
// only one of the two.
type RawFeed struct {
	Stops         []stopRow
	Routes        []routeRow
	Agencies      []agencyRow
	Trips         []tripRow
	StopTimes     []stopTimeRow
	Calendar      []calendarRow
	CalendarDates []calendarDateRow
}

// LoadRawFeed reads the GTFS text files from an already-unzipped directory.
// Acquiring and unpacking the feed archive is an external-collaborator
// concern; this only parses files already on disk.
func LoadRawFeed(dir string) (*RawFeed, error) {
	feed := &RawFeed{}

	readers := []struct {
		file string
		out  interface{}
	}{
		{"stops.txt", &feed.Stops},
		{"routes.txt", &feed.Routes},
		{"agency.txt", &feed.Agencies},
		{"trips.txt", &feed.Trips},
		{"stop_times.txt", &feed.StopTimes},
	}
	for _, r := range readers {
		if err := unmarshalCSVFile(filepath.Join(dir, r.file), r.out); err != nil {
			return nil, fmt.Errorf("loading %s: %w", r.file, err)
		}
	}

	// calendar.txt / calendar_dates.txt are optional.
	_ = unmarshalCSVFile(filepath.Join(dir, "calendar.txt"), &feed.Calendar)
	_ = unmarshalCSVFile(filepath.Join(dir, "calendar_dates.txt"), &feed.CalendarDates)

	return feed, nil
}

func unmarshalCSVFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.UnmarshalFile(f, out)
}

// timeToSeconds parses a GTFS "HH:MM:SS" time string to seconds since
// midnight. GTFS allows hours >= 24 for trips extending past midnight.
func timeToSeconds(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed GTFS time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, err
	}
	return h*3600 + m*60 + sec, nil
}

// ActiveServiceIDs returns the set of service_ids running on date,
// combining calendar.txt's weekly pattern with calendar_dates.txt's
// add/remove exceptions.
func ActiveServiceIDs(feed *RawFeed, date time.Time) (map[string]bool, error) {
	dateInt, err := strconv.Atoi(date.Format("20060102"))
	if err != nil {
		return nil, err
	}
	dayName := strings.ToLower(date.Weekday().String())

	active := map[string]bool{}

	for _, row := range feed.Calendar {
		start, err := strconv.Atoi(row.StartDate)
		if err != nil {
			continue
		}
		end, err := strconv.Atoi(row.EndDate)
		if err != nil {
			continue
		}
		if dateInt < start || dateInt > end {
			continue
		}
		if dayFlag(row, dayName) {
			active[row.ServiceID] = true
		}
	}

	for _, row := range feed.CalendarDates {
		d, err := strconv.Atoi(row.Date)
		if err != nil || d != dateInt {
			continue
		}
		switch row.ExceptionType {
		case "1":
			active[row.ServiceID] = true
		case "2":
			delete(active, row.ServiceID)
		}
	}

	return active, nil
}

func dayFlag(row calendarRow, dayName string) bool {
	var v string
	switch dayName {
	case "monday":
		v = row.Monday
	case "tuesday":
		v = row.Tuesday
	case "wednesday":
		v = row.Wednesday
	case "thursday":
		v = row.Thursday
	case "friday":
		v = row.Friday
	case "saturday":
		v = row.Saturday
	case "sunday":
		v = row.Sunday
	}
	return v == "1"
}

// FilterForDate keeps only the trips (and their stop_times) whose
// service_id is active on date, leaving stops/routes/agency untouched.
func (f *RawFeed) FilterForDate(date time.Time) (*RawFeed, error) {
	active, err := ActiveServiceIDs(f, date)
	if err != nil {
		return nil, err
	}

	filtered := &RawFeed{
		Stops:         f.Stops,
		Routes:        f.Routes,
		Agencies:      f.Agencies,
		Calendar:      f.Calendar,
		CalendarDates: f.CalendarDates,
	}

	activeTrips := map[string]bool{}
	for _, t := range f.Trips {
		if active[t.ServiceID] {
			filtered.Trips = append(filtered.Trips, t)
			activeTrips[t.TripID] = true
		}
	}
	for _, st := range f.StopTimes {
		if activeTrips[st.TripID] {
			filtered.StopTimes = append(filtered.StopTimes, st)
		}
	}
	return filtered, nil
}

// stopsFromRows converts the raw CSV rows into models.Stop, dropping any
// row with an unparseable coordinate.
func stopsFromRows(rows []stopRow) []models.Stop {
	out := make([]models.Stop, 0, len(rows))
	for _, s := range rows {
		lat, err := strconv.ParseFloat(s.StopLat, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(s.StopLon, 64)
		if err != nil {
			continue
		}
		out = append(out, models.Stop{ID: s.StopID, Name: s.StopName, Lat: lat, Lon: lon})
	}
	return out
}

// StopsAsModels returns the feed's stops as models.Stop, for use by
// FindOriginStops and the spatial join.
func (f *RawFeed) StopsAsModels() []models.Stop { return stopsFromRows(f.Stops) }

// FindOriginStops returns stop IDs within radiusM of (lat, lon), nearest
// first. A cheap degree bounding box culls the bulk of the stop list
// before the exact haversine check.
func FindOriginStops(stops []models.Stop, lat, lon, radiusM float64) []models.StopID {
	buf := radiusM / 111_000.0
	type hit struct {
		dist float64
		id   string
	}
	var hits []hit
	for _, s := range stops {
		if s.Lat < lat-buf || s.Lat > lat+buf || s.Lon < lon-buf || s.Lon > lon+buf {
			continue
		}
		d := geo.Haversine(lat, lon, s.Lat, s.Lon)
		if d <= radiusM {
			hits = append(hits, hit{d, s.ID})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	ids := make([]models.StopID, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	return ids
}
