package geo

import "testing"

func TestHaversineKm(t *testing.T) {
	// Jakarta (-6.2, 106.816) to Bandung (-6.9175, 107.6191) ~ 115-120 km
	d := HaversineKm(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100 || d > 140 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestDistanceToSelf(t *testing.T) {
	c := Coordinates{Lat: 33.4255, Lng: -111.94}
	if d := c.DistanceKm(c); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestParse(t *testing.T) {
	c, ok := Parse("33.43", " -111.94")
	if !ok || c.Lat != 33.43 || c.Lng != -111.94 {
		t.Fatalf("unexpected coordinates: %+v %v", c, ok)
	}
	if _, ok := Parse("", "1"); ok {
		t.Fatalf("expected empty latitude to fail")
	}
	if _, ok := Parse("91", "0"); ok {
		t.Fatalf("expected out of range latitude to fail")
	}
	if _, ok := Parse("0", "abc"); ok {
		t.Fatalf("expected bad longitude to fail")
	}
}

func TestFormatQuery(t *testing.T) {
	if got := FormatQuery(33.42551); got != "33.43" {
		t.Fatalf("unexpected format: %s", got)
	}
	if got := FormatQuery(-111.9); got != "-111.90" {
		t.Fatalf("unexpected format: %s", got)
	}
}
