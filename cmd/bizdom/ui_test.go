package main

import (
	"testing"
	"time"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 €"},
		{999.6, "1,000 €"},
		{1234567, "1,234,567 €"},
		{-18400, "-18,400 €"},
	}
	for _, tc := range tests {
		if got := money(tc.in); got != tc.want {
			t.Fatalf("money(%v) got=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  short  ", 10); got != "short" {
		t.Fatalf("got=%q", got)
	}
	if got := truncate("Quarterly Report Overhaul", 10); got != "Quarter..." {
		t.Fatalf("got=%q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("got=%q", got)
	}
}

func TestParseHelpers(t *testing.T) {
	if _, err := parseID("0"); err == nil {
		t.Fatalf("zero id should be rejected")
	}
	if id, err := parseID(" 12 "); err != nil || id != 12 {
		t.Fatalf("parseID got=%d err=%v", id, err)
	}
	if _, err := parseAmount("-5"); err == nil {
		t.Fatalf("negative amount should be rejected")
	}
	if d := secondsToDuration(1.5); d != 1500*time.Millisecond {
		t.Fatalf("duration got=%s", d)
	}
}
