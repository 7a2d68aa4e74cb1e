package normalize

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDate_NativeAndSerial(t *testing.T) {
	t.Parallel()

	in := time.Date(2024, 3, 5, 14, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	got, ok := Date(in)
	if !ok || !got.Equal(day(2024, time.March, 5)) {
		t.Fatalf("native cell: got %v ok=%v", got, ok)
	}

	// Serial 45356 is 2024-03-05 in the 1900 date system.
	got, ok = Date(45356.0)
	if !ok || !got.Equal(day(2024, time.March, 5)) {
		t.Fatalf("serial float: got %v ok=%v", got, ok)
	}
	got, ok = Date("45356")
	if !ok || !got.Equal(day(2024, time.March, 5)) {
		t.Fatalf("serial string: got %v ok=%v", got, ok)
	}

	if _, ok := Date(999.0); ok {
		t.Error("serial below window should not parse")
	}
	if _, ok := Date("100000"); ok {
		t.Error("serial above window should not parse")
	}
}

func TestDate_StringForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05T00:00:00.000Z", day(2024, time.March, 5)},
		{"2024-03-05T03:00:00Z", day(2024, time.March, 5)},
		{"2024-03-05T00:00:00", day(2024, time.March, 5)},
		{"Tue Mar 05 2024 00:00:00 GMT-0300 (Brasilia Standard Time)", day(2024, time.March, 5)},
		{"05/03/2024", day(2024, time.March, 5)},
		{"5/3/2024", day(2024, time.March, 5)},
		{"05-03-2024", day(2024, time.March, 5)},
		{"05.03.2024", day(2024, time.March, 5)},
		{"05/03/24", day(2024, time.March, 5)},
		{"05/03/98", day(1998, time.March, 5)},
		{"05/03/50", day(2050, time.March, 5)},
		{"05/03/51", day(1951, time.March, 5)},
		{"2024-03-05", day(2024, time.March, 5)},
		{"2024-3-5", day(2024, time.March, 5)},
	}
	for _, c := range cases {
		got, ok := Date(c.in)
		if !ok {
			t.Errorf("Date(%q) did not parse", c.in)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("Date(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDate_RejectsRollover(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"31/02/2024", "32/01/2024", "01/13/2024", "00/01/2024", "2024-02-31"} {
		if _, ok := Date(in); ok {
			t.Errorf("Date(%q) should be rejected", in)
		}
	}
}

func TestDate_Junk(t *testing.T) {
	t.Parallel()

	for _, in := range []any{nil, "", "amanhã", "12", "1/2", true} {
		if _, ok := Date(in); ok {
			t.Errorf("Date(%v) should not parse", in)
		}
	}
}
