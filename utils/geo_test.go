package utils

import "testing"

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("36.7525", "3.042")
	if err != nil {
		t.Fatalf("ParsePoint: %v", err)
	}
	if p.Lon() != 3.042 || p.Lat() != 36.7525 {
		t.Fatalf("ParsePoint = %v", p)
	}

	bad := [][2]string{
		{"", "3.0"},
		{"36.7", ""},
		{"abc", "3.0"},
		{"95.0", "3.0"},
		{"36.7", "181.0"},
	}
	for _, c := range bad {
		if _, err := ParsePoint(c[0], c[1]); err == nil {
			t.Errorf("ParsePoint(%q, %q) should fail", c[0], c[1])
		}
	}
}

func TestInServiceArea(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng string
		want     bool
	}{
		{"algiers", "36.7525", "3.042", true},
		{"tamanrasset", "22.785", "5.522", true},
		{"paris", "48.8566", "2.3522", false},
		{"swapped lat lng", "3.042", "36.7525", false},
		{"garbage", "north", "east", false},
		{"empty", "", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := InServiceArea(c.lat, c.lng); got != c.want {
				t.Fatalf("InServiceArea(%s, %s) = %v, want %v", c.lat, c.lng, got, c.want)
			}
		})
	}
}
