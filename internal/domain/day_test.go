package domain

import (
	"testing"
	"time"
)

func TestParseDay_RoundTrip(t *testing.T) {
	d, err := ParseDay("2024-01-02")
	if err != nil {
		t.Fatalf("ParseDay failed: %v", err)
	}
	if d.String() != "2024-01-02" {
		t.Errorf("String() = %q, want 2024-01-02", d.String())
	}
	if d.Year() != 2024 || d.Month() != time.January || d.DayOfMonth() != 2 {
		t.Errorf("components = %d-%v-%d", d.Year(), d.Month(), d.DayOfMonth())
	}
}

func TestParseDay_Invalid(t *testing.T) {
	if _, err := ParseDay("02/01/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestAddDays_CrossesMonthAndYear(t *testing.T) {
	d := NewDay(2023, time.December, 31)
	next := d.AddDays(1)
	if next.String() != "2024-01-01" {
		t.Errorf("next = %s, want 2024-01-01", next)
	}
	// Leap day.
	feb28 := NewDay(2024, time.February, 28)
	if feb28.AddDays(1).String() != "2024-02-29" {
		t.Errorf("2024-02-28 + 1 = %s, want 2024-02-29", feb28.AddDays(1))
	}
}

func TestDaysBetween(t *testing.T) {
	a := NewDay(2024, time.January, 1)
	b := NewDay(2024, time.January, 5)
	if got := DaysBetween(a, b); got != 4 {
		t.Errorf("DaysBetween = %d, want 4", got)
	}
	if got := DaysBetween(b, a); got != -4 {
		t.Errorf("reverse DaysBetween = %d, want -4", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("self DaysBetween = %d, want 0", got)
	}
}

func TestStartOfWeek(t *testing.T) {
	// 2024-01-01 is a Monday.
	cases := []struct {
		day  string
		want string
	}{
		{"2024-01-01", "2024-01-01"}, // Monday maps to itself
		{"2024-01-03", "2024-01-01"}, // Wednesday
		{"2024-01-07", "2024-01-01"}, // Sunday belongs to the preceding Monday
		{"2024-01-08", "2024-01-08"}, // next Monday
	}
	for _, c := range cases {
		d, err := ParseDay(c.day)
		if err != nil {
			t.Fatal(err)
		}
		if got := d.StartOfWeek().String(); got != c.want {
			t.Errorf("StartOfWeek(%s) = %s, want %s", c.day, got, c.want)
		}
	}
}

func TestLabels(t *testing.T) {
	d := NewDay(2024, time.March, 5)
	if got := d.ShortLabel(false); got != "5 Mar" {
		t.Errorf("ShortLabel = %q, want %q", got, "5 Mar")
	}
	if got := d.ShortLabel(true); got != "5 Mar '24" {
		t.Errorf("ShortLabel withYear = %q, want %q", got, "5 Mar '24")
	}
	if got := d.FullLabel(); got != "5 March 2024" {
		t.Errorf("FullLabel = %q, want %q", got, "5 March 2024")
	}
	if got := d.MonthShortLabel(); got != "Mar '24" {
		t.Errorf("MonthShortLabel = %q, want %q", got, "Mar '24")
	}
	if got := d.MonthFullLabel(); got != "March 2024" {
		t.Errorf("MonthFullLabel = %q, want %q", got, "March 2024")
	}
}
