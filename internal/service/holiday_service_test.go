package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"club-lodging/backend/internal/dto"
	"club-lodging/backend/internal/pricing"
)

func setupTestHolidayService(t *testing.T) (HolidayService, *testEnv, *countingInvalidator) {
	t.Helper()
	env := newTestEnv(t)
	cache := &countingInvalidator{}
	svc := NewHolidayService(env.repo, cache, club, env.logger)
	svc.(*holidayService).now = func() time.Time { return testNow }
	return svc, env, cache
}

func icsCalendar(events ...string) string {
	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//Club//Feriados//ES"}
	for _, e := range events {
		lines = append(lines, strings.Split(e, "\n")...)
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

var sampleCalendar = icsCalendar(
	"BEGIN:VEVENT\nUID:1@club\nDTSTART;VALUE=DATE:20260101\nDTEND;VALUE=DATE:20260102\nSUMMARY:Año Nuevo\nRRULE:FREQ=YEARLY;COUNT=2\nEND:VEVENT",
	"BEGIN:VEVENT\nUID:2@club\nDTSTART;VALUE=DATE:20260402\nDTEND;VALUE=DATE:20260404\nSUMMARY:Semana Santa\nEND:VEVENT",
	"BEGIN:VEVENT\nUID:3@club\nDTSTART;VALUE=DATE:20260802\nSUMMARY:Virgen de los Ángeles\nRRULE:FREQ=YEARLY;COUNT=3\nEXDATE;VALUE=DATE:20270802\nEND:VEVENT",
	"BEGIN:VEVENT\nUID:4@club\nDTSTART;VALUE=DATE:20260915\nEND:VEVENT",
)

// ── ICS parsing ──

func TestParseHolidayICS(t *testing.T) {
	days, skipped, err := ParseHolidayICS(strings.NewReader(sampleCalendar), club)
	if err != nil {
		t.Fatalf("ParseHolidayICS: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1 (event without summary)", skipped)
	}

	want := []struct {
		date string
		name string
	}{
		{"2026-01-01", "Año Nuevo"},
		{"2026-04-02", "Semana Santa"},
		{"2026-04-03", "Semana Santa"},
		{"2026-08-02", "Virgen de los Ángeles"},
		{"2027-01-01", "Año Nuevo"},
		{"2028-08-02", "Virgen de los Ángeles"},
	}
	if len(days) != len(want) {
		t.Fatalf("got %d days %+v, want %d", len(days), days, len(want))
	}
	for i, w := range want {
		if days[i].Date.Format(pricing.DateLayout) != w.date || days[i].Name != w.name {
			t.Errorf("day %d = %s %q, want %s %q", i, days[i].Date.Format(pricing.DateLayout), days[i].Name, w.date, w.name)
		}
	}
}

func TestParseRRule(t *testing.T) {
	r := parseRRule("FREQ=YEARLY;INTERVAL=2;COUNT=4;UNTIL=20300101")
	if r.freq != "YEARLY" || r.interval != 2 || r.count != 4 || !r.until.Equal(date("2030-01-01")) {
		t.Errorf("parseRRule = %+v", r)
	}
	if parseRRule("FREQ=YEARLY;INTERVAL=0").interval != 1 {
		t.Error("a zero interval must fall back to 1")
	}
}

// ── registry administration ──

func TestHolidayService_Upsert(t *testing.T) {
	svc, env, cache := setupTestHolidayService(t)

	resp, err := svc.Upsert(context.Background(), &dto.UpsertHolidayRequest{Date: "2025-09-15", Name: "Independencia"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if resp.SeasonType != "holiday" || !resp.IsActive || resp.Date != "2025-09-15" {
		t.Errorf("resp = %+v", resp)
	}
	if cache.calls != 1 {
		t.Errorf("cache invalidations = %d, want 1", cache.calls)
	}

	inactive := false
	resp, err = svc.Upsert(context.Background(), &dto.UpsertHolidayRequest{Date: "2025-09-15", Name: "Día de la Independencia", SeasonType: "high", IsActive: &inactive})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if resp.Name != "Día de la Independencia" || resp.SeasonType != "high" || resp.IsActive {
		t.Errorf("resp = %+v", resp)
	}
	if len(env.holidays.holidays) != 3 {
		t.Errorf("an upsert of the same date must not add a row, have %d", len(env.holidays.holidays))
	}
}

func TestHolidayService_Upsert_Invalid(t *testing.T) {
	svc, _, cache := setupTestHolidayService(t)

	if _, err := svc.Upsert(context.Background(), &dto.UpsertHolidayRequest{Date: "2025-09-15", Name: "x", SeasonType: "summer"}); !errors.Is(err, ErrInvalidSeasonType) {
		t.Errorf("err = %v, want ErrInvalidSeasonType", err)
	}
	if _, err := svc.Upsert(context.Background(), &dto.UpsertHolidayRequest{Date: "15-09-2025", Name: "x"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
	if cache.calls != 0 {
		t.Errorf("failed writes must not invalidate, got %d", cache.calls)
	}
}

func TestHolidayService_Deactivate(t *testing.T) {
	svc, env, cache := setupTestHolidayService(t)

	if err := svc.Deactivate(context.Background(), "2025-07-25"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if env.holidays.holidays[date("2025-07-25")].IsActive {
		t.Error("holiday still active")
	}
	if cache.calls != 1 {
		t.Errorf("cache invalidations = %d, want 1", cache.calls)
	}
	if err := svc.Deactivate(context.Background(), "2025-07-26"); !errors.Is(err, ErrHolidayNotFound) {
		t.Errorf("err = %v, want ErrHolidayNotFound", err)
	}
}

func TestHolidayService_List_DefaultsToCurrentYear(t *testing.T) {
	svc, _, _ := setupTestHolidayService(t)

	list, err := svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Date != "2025-07-25" || list[1].Date != "2025-08-15" {
		t.Errorf("list = %+v", list)
	}
	if list, _ := svc.List(context.Background(), 2024); len(list) != 0 {
		t.Errorf("2024 should be empty, got %+v", list)
	}
}

func TestHolidayService_ImportICS(t *testing.T) {
	svc, env, cache := setupTestHolidayService(t)

	resp, err := svc.ImportICS(context.Background(), strings.NewReader(sampleCalendar), "")
	if err != nil {
		t.Fatalf("ImportICS: %v", err)
	}
	if resp.Imported != 6 || resp.Skipped != 1 || len(resp.Dates) != 6 {
		t.Errorf("resp = %+v", resp)
	}
	h, ok := env.holidays.holidays[date("2026-04-03")]
	if !ok || h.Name != "Semana Santa" || h.SeasonType != "holiday" || !h.IsActive {
		t.Errorf("imported holiday = %+v", h)
	}
	if cache.calls != 1 {
		t.Errorf("cache invalidations = %d, want 1", cache.calls)
	}
}

func TestHolidayService_ImportICS_NothingToImport(t *testing.T) {
	svc, _, _ := setupTestHolidayService(t)

	empty := icsCalendar("BEGIN:VEVENT\nUID:4@club\nDTSTART;VALUE=DATE:20260915\nEND:VEVENT")
	if _, err := svc.ImportICS(context.Background(), strings.NewReader(empty), "holiday"); !errors.Is(err, ErrEmptyCalendarInput) {
		t.Errorf("err = %v, want ErrEmptyCalendarInput", err)
	}
}

func TestHolidayService_ImportICSFromURL(t *testing.T) {
	svc, env, _ := setupTestHolidayService(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feriados.ics" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte(sampleCalendar))
	}))
	defer srv.Close()

	resp, err := svc.ImportICSFromURL(context.Background(), srv.URL+"/feriados.ics", "high")
	if err != nil {
		t.Fatalf("ImportICSFromURL: %v", err)
	}
	if resp.Imported != 6 {
		t.Errorf("imported = %d, want 6", resp.Imported)
	}
	if env.holidays.holidays[date("2026-01-01")].SeasonType != "high" {
		t.Error("season type not applied")
	}

	if _, err := svc.ImportICSFromURL(context.Background(), srv.URL+"/missing.ics", ""); !errors.Is(err, ErrCalendarFetch) {
		t.Errorf("err = %v, want ErrCalendarFetch", err)
	}
}
