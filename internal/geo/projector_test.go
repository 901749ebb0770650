// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package geo

import (
	"math"
	"testing"
)

func TestProjectOrigin(t *testing.T) {
	// The projection origin (126E, 38N) must map onto itself within
	// projection tolerance.
	got := Project(int(126.0*coordScale), int(38.0*coordScale))

	if math.Abs(got.Lat-38.0) > 0.0001 {
		t.Errorf("origin lat = %v, want ~38.0", got.Lat)
	}
	if math.Abs(got.Lng-126.0) > 0.0001 {
		t.Errorf("origin lng = %v, want ~126.0", got.Lng)
	}
}

func TestProjectDeterministic(t *testing.T) {
	cases := [][2]int{
		{1269876543, 375123456},
		{1280000000, 365000000},
		{1245000000, 331234567},
	}

	for _, c := range cases {
		first := Project(c[0], c[1])
		for i := 0; i < 10; i++ {
			if got := Project(c[0], c[1]); got != first {
				t.Fatalf("Project(%d, %d) not deterministic: %v != %v", c[0], c[1], got, first)
			}
		}
	}
}

func TestProjectRoundTripNearIdentity(t *testing.T) {
	// Running a point through the grid and back must land within
	// rounding distance of the original degrees.
	tests := []struct {
		name string
		lng  float64
		lat  float64
	}{
		{"seoul", 126.9780, 37.5665},
		{"busan", 129.0756, 35.1796},
		{"jeju", 126.5312, 33.4996},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Project(int(tc.lng*coordScale), int(tc.lat*coordScale))
			if math.Abs(got.Lat-tc.lat) > 0.001 {
				t.Errorf("lat = %v, want ~%v", got.Lat, tc.lat)
			}
			if math.Abs(got.Lng-tc.lng) > 0.001 {
				t.Errorf("lng = %v, want ~%v", got.Lng, tc.lng)
			}
		})
	}
}

func TestProjectRounding(t *testing.T) {
	got := Project(1269876543, 375123456)

	if got.Lat != round6(got.Lat) {
		t.Errorf("lat %v not rounded to 6 decimal places", got.Lat)
	}
	if got.Lng != round6(got.Lng) {
		t.Errorf("lng %v not rounded to 6 decimal places", got.Lng)
	}
}

func TestNormalizeTheta(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{2 * math.Pi, 0},
	}

	for _, tc := range tests {
		got := normalizeTheta(tc.in)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("normalizeTheta(%v) = %v, want %v", tc.in, got, tc.want)
		}
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("normalizeTheta(%v) = %v out of (-pi, pi]", tc.in, got)
		}
	}
}
