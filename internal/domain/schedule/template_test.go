package schedule

import (
	"reflect"
	"testing"
	"time"
)

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestResolveForDateEmptyWeekday(t *testing.T) {
	var tpl WeekTemplate
	tpl[1] = []string{"08:00", "09:00"} // segunda

	// 2026-03-01 é um domingo (weekday 0), sem expediente
	got := ResolveForDate(tpl, nil, "2026-03-01")
	if len(got) != 0 {
		t.Fatalf("esperava grade vazia para dia sem expediente, veio %v", got)
	}
}

func TestResolveForDateInvalidDate(t *testing.T) {
	var tpl WeekTemplate
	tpl[1] = []string{"08:00"}

	for _, date := range []string{"", "2026-13-40", "01/03/2026", "amanhã"} {
		got := ResolveForDate(tpl, nil, date)
		if len(got) != 0 {
			t.Errorf("data %q: esperava grade vazia, veio %v", date, got)
		}
	}
}

func TestResolveForDatePreservesConfiguredOrder(t *testing.T) {
	var tpl WeekTemplate
	// ordem do médico, não cronológica
	tpl[2] = []string{"14:00", "08:00", "10:30"}

	// 2026-03-03 é uma terça (weekday 2)
	got := ResolveForDate(tpl, nil, "2026-03-03")

	want := []TemplateSlot{
		{Time: "14:00"},
		{Time: "08:00"},
		{Time: "10:30"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ordem alterada: got %v, want %v", got, want)
	}
}

func TestResolveForDateSkipsMalformedTimes(t *testing.T) {
	var tpl WeekTemplate
	tpl[2] = []string{"08:00", "25:99", "", "09:00"}

	got := ResolveForDate(tpl, nil, "2026-03-03")

	want := []TemplateSlot{{Time: "08:00"}, {Time: "09:00"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveForDateIsIdempotent(t *testing.T) {
	var tpl WeekTemplate
	tpl[2] = []string{"08:00", "09:00", "10:00"}

	daysOff := []DayOff{
		{Start: utc(2026, 3, 3, 9, 0), End: utc(2026, 3, 3, 9, 0)},
	}

	first := ResolveForDate(tpl, daysOff, "2026-03-03")
	second := ResolveForDate(tpl, daysOff, "2026-03-03")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resoluções divergentes: %v vs %v", first, second)
	}
}

func TestResolveForDateDayOffInterval(t *testing.T) {
	var tpl WeekTemplate
	tpl[2] = []string{"08:00", "09:00", "10:00", "11:00"}

	// intervalo fechado: 09:00 e 10:00 inclusos nas bordas
	daysOff := []DayOff{
		{Start: utc(2026, 3, 3, 9, 0), End: utc(2026, 3, 3, 10, 0)},
	}

	got := ResolveForDate(tpl, daysOff, "2026-03-03")

	want := []TemplateSlot{
		{Time: "08:00"},
		{Time: "09:00", Off: true},
		{Time: "10:00", Off: true},
		{Time: "11:00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveForDateAnyIntervalMatches(t *testing.T) {
	var tpl WeekTemplate
	tpl[2] = []string{"08:00", "09:00"}

	// intervalos sobrepostos: basta um cobrir o horário
	daysOff := []DayOff{
		{Start: utc(2026, 3, 1, 0, 0), End: utc(2026, 3, 2, 23, 59)},
		{Start: utc(2026, 3, 3, 8, 30), End: utc(2026, 3, 3, 9, 30)},
		{Start: utc(2026, 3, 3, 9, 0), End: utc(2026, 3, 3, 9, 0)},
	}

	got := ResolveForDate(tpl, daysOff, "2026-03-03")

	want := []TemplateSlot{
		{Time: "08:00"},
		{Time: "09:00", Off: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveForDateDayOffOutsideDate(t *testing.T) {
	var tpl WeekTemplate
	tpl[2] = []string{"08:00"}

	daysOff := []DayOff{
		{Start: utc(2026, 3, 4, 0, 0), End: utc(2026, 3, 4, 23, 59)},
	}

	got := ResolveForDate(tpl, daysOff, "2026-03-03")
	if got[0].Off {
		t.Fatal("folga de outro dia não deveria afetar a grade")
	}
}
