package fields

import (
	"reflect"
	"testing"
)

func TestAnalyze_ApplicationNumbers(t *testing.T) {
	got := Analyze("ref 1234567890 and 123456789012345, short 123456789")

	want := []string{"1234567890", "123456789012345"}
	if !reflect.DeepEqual(got[KindApplicationNumbers], want) {
		t.Errorf("application numbers: expected %v, got %v", want, got[KindApplicationNumbers])
	}
}

func TestAnalyze_IPAddresses(t *testing.T) {
	got := Analyze("from 192.168.1.1 to 10.0.0.255")

	want := []string{"192.168.1.1", "10.0.0.255"}
	if !reflect.DeepEqual(got[KindIPAddresses], want) {
		t.Errorf("ip addresses: expected %v, got %v", want, got[KindIPAddresses])
	}
}

// TestAnalyze_LooseIPMatching verifies that out-of-range octets still match.
// The pattern is deliberately permissive and must stay that way.
func TestAnalyze_LooseIPMatching(t *testing.T) {
	got := Analyze("bogus address 999.999.999.999")

	if len(got[KindIPAddresses]) != 1 || got[KindIPAddresses][0] != "999.999.999.999" {
		t.Errorf("expected loose match for 999.999.999.999, got %v", got[KindIPAddresses])
	}
}

func TestAnalyze_Dates(t *testing.T) {
	got := Analyze("issued 2024-01-05, due 31-12-2024")

	want := []string{"2024-01-05", "31-12-2024"}
	if !reflect.DeepEqual(got[KindDates], want) {
		t.Errorf("dates: expected %v, got %v", want, got[KindDates])
	}
}

func TestAnalyze_Times(t *testing.T) {
	got := Analyze("opens 09:30, logged at 10:15:30")

	want := []string{"09:30", "10:15:30"}
	if !reflect.DeepEqual(got[KindTimes], want) {
		t.Errorf("times: expected %v, got %v", want, got[KindTimes])
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	text := "Invoice 1234567890 dated 2024-01-05 from 192.168.1.1 at 10:15"

	first := Analyze(text)
	second := Analyze(text)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated analysis of identical text produced different results")
	}
}

func TestAnalyze_DuplicatesPreservedWithinPage(t *testing.T) {
	got := Analyze("1234567890 then again 1234567890")

	if len(got[KindApplicationNumbers]) != 2 {
		t.Errorf("expected within-page duplicates preserved, got %v", got[KindApplicationNumbers])
	}
}

func TestUnion_DeduplicatesAcrossPages(t *testing.T) {
	page1 := Analyze("Invoice 1234567890 dated 2024-01-05")
	page2 := Analyze("Copy of invoice 1234567890 dated 2024-02-01")

	union := Union([]Extracted{page1, page2})

	want := []string{"1234567890"}
	if !reflect.DeepEqual(union[KindApplicationNumbers], want) {
		t.Errorf("expected deduplicated union %v, got %v", want, union[KindApplicationNumbers])
	}

	wantDates := []string{"2024-01-05", "2024-02-01"}
	if !reflect.DeepEqual(union[KindDates], wantDates) {
		t.Errorf("expected dates %v, got %v", wantDates, union[KindDates])
	}
}

func TestUnion_EmptyInput(t *testing.T) {
	union := Union(nil)

	for _, kind := range Kinds {
		if len(union[kind]) != 0 {
			t.Errorf("expected empty union for %s, got %v", kind, union[kind])
		}
	}
}
