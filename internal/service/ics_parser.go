package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"club-lodging/backend/internal/pricing"
)

// ── ICS holiday calendars ───────────────────────────────────
//
// Turns an iCalendar (RFC 5545) feed of public holidays into one entry per
// calendar day:
//   - SUMMARY names the holiday
//   - DTSTART/DTEND give the days; DTEND is exclusive, a missing DTEND
//     means a single day
//   - RRULE FREQ=YEARLY repeats the event, bounded by COUNT, UNTIL and
//     icsMaxYearlyRepeats; other frequencies count as one occurrence
//   - EXDATE removes single occurrences
//   - the first event naming a day wins
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize      = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout     = 30 * time.Second
	icsMaxEventDays     = 31
	icsMaxYearlyRepeats = 10
)

// parsedHoliday is one calendar day read from a feed.
type parsedHoliday struct {
	Date time.Time
	Name string
}

// FetchICSContent downloads a feed. webcal:// is fetched over https and the
// body is capped at icsMaxFileSize.
func FetchICSContent(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch ics: %w", err)
	}
	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ics: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch ics: HTTP %d", resp.StatusCode)
	}
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseHolidayICS reads every VEVENT of the feed. Events without a name or
// a readable DTSTART are counted in skipped. Days are returned in order.
func ParseHolidayICS(reader io.Reader, loc *time.Location) (days []parsedHoliday, skipped int, err error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidCalendar, err)
	}
	if loc == nil {
		loc = time.UTC
	}

	byDate := make(map[time.Time]string)
	for _, evt := range cal.Events() {
		name, dates, ok := parseHolidayEvent(evt, loc)
		if !ok {
			skipped++
			continue
		}
		for _, d := range dates {
			if _, seen := byDate[d]; !seen {
				byDate[d] = name
			}
		}
	}

	days = make([]parsedHoliday, 0, len(byDate))
	for d, name := range byDate {
		days = append(days, parsedHoliday{Date: d, Name: name})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, skipped, nil
}

func parseHolidayEvent(evt *ics.VEvent, loc *time.Location) (string, []time.Time, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return "", nil, false
	}
	name := strings.TrimSpace(summary.Value)

	start, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return "", nil, false
	}
	span := 1
	if end, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc); err == nil {
		if n := pricing.NightsBetween(pricing.DateOf(start), pricing.DateOf(end)); n > 1 {
			span = min(n, icsMaxEventDays)
		}
	}

	exDates := parseExDates(evt, loc)
	var dates []time.Time
	for _, first := range occurrences(evt, pricing.DateOf(start)) {
		for i := 0; i < span; i++ {
			d := first.AddDate(0, 0, i)
			if !exDates[d] {
				dates = append(dates, d)
			}
		}
	}
	return name, dates, len(dates) > 0
}

// occurrences expands a yearly RRULE from start.
func occurrences(evt *ics.VEvent, start time.Time) []time.Time {
	prop := evt.GetProperty(ics.ComponentPropertyRrule)
	if prop == nil {
		return []time.Time{start}
	}
	rule := parseRRule(prop.Value)
	if rule.freq != "YEARLY" {
		return []time.Time{start}
	}

	limit := icsMaxYearlyRepeats
	if rule.count > 0 && rule.count < limit {
		limit = rule.count
	}
	var result []time.Time
	for i := 0; i < limit; i++ {
		d := start.AddDate(i*rule.interval, 0, 0)
		if !rule.until.IsZero() && d.After(rule.until) {
			break
		}
		result = append(result, d)
	}
	return result
}

type rruleParams struct {
	freq     string
	interval int
	count    int
	until    time.Time
}

// parseRRule reads FREQ, INTERVAL, COUNT and UNTIL, e.g. FREQ=YEARLY;COUNT=5.
func parseRRule(value string) rruleParams {
	r := rruleParams{interval: 1}
	for _, part := range strings.Split(value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToUpper(kv[0]) {
		case "FREQ":
			r.freq = strings.ToUpper(kv[1])
		case "INTERVAL":
			if n, err := strconv.Atoi(kv[1]); err == nil && n > 0 {
				r.interval = n
			}
		case "COUNT":
			if n, err := strconv.Atoi(kv[1]); err == nil {
				r.count = n
			}
		case "UNTIL":
			t, err := time.Parse("20060102T150405Z", kv[1])
			if err != nil {
				t, _ = time.Parse("20060102", kv[1])
			}
			if !t.IsZero() {
				r.until = pricing.DateOf(t)
			}
		}
	}
	return r
}

// parseExDates collects the EXDATE days of evt. A property may list several
// comma separated values.
func parseExDates(evt *ics.VEvent, loc *time.Location) map[time.Time]bool {
	exDates := make(map[time.Time]bool)
	for _, prop := range evt.Properties {
		if prop.IANAToken != string(ics.ComponentPropertyExdate) {
			continue
		}
		for _, v := range strings.Split(prop.Value, ",") {
			if t, err := parseICSValue(strings.TrimSpace(v), "", loc); err == nil {
				exDates[pricing.DateOf(t)] = true
			}
		}
	}
	return exDates
}

// parseICSDateTime reads a DATE or DATE-TIME property of evt in loc.
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}
	return parseICSValue(prop.Value, tzid, loc)
}

func parseICSValue(val, tzid string, loc *time.Location) (time.Time, error) {
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}
	for _, layout := range formats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		switch {
		case strings.HasSuffix(layout, "Z"):
			return t.In(loc), nil
		case layout == "20060102":
			return t, nil
		case tzid != "":
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("unreadable ics date %q", val)
}
