// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package popularity

import "testing"

func TestScoreReferenceValues(t *testing.T) {
	tests := []struct {
		name                    string
		views, bookmarks, share int
		want                    int
	}{
		{"zero engagement", 0, 0, 0, 0},
		{"bookmark saturation", 0, 1000, 0, 100},
		{"view saturation", 10000, 0, 0, 100},
		{"half views", 5000, 0, 0, 50},
		{"over saturation clamps", 1000000, 1000000, 1000000, 100},
		{"mixed small", 100, 5, 0, 2},   // 100 + 50 = 150 -> round(1.5) = 2
		{"bookmarks dominate", 50, 20, 0, 3}, // 50 + 200 = 250 -> round(2.5) = 3
		{"shares", 0, 0, 200, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.views, tc.bookmarks, tc.share); got != tc.want {
				t.Errorf("Score(%d, %d, %d) = %d, want %d",
					tc.views, tc.bookmarks, tc.share, got, tc.want)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	for _, v := range []int{0, 1, 99, 10000, 1 << 20} {
		for _, b := range []int{0, 3, 999, 100000} {
			for _, s := range []int{0, 7, 5000} {
				got := Score(v, b, s)
				if got < 0 || got > 100 {
					t.Fatalf("Score(%d, %d, %d) = %d out of [0, 100]", v, b, s, got)
				}
			}
		}
	}
}

func TestScoreMonotonic(t *testing.T) {
	base := Score(120, 8, 3)

	if got := Score(121, 8, 3); got < base {
		t.Errorf("score decreased when views increased: %d < %d", got, base)
	}
	if got := Score(120, 9, 3); got < base {
		t.Errorf("score decreased when bookmarks increased: %d < %d", got, base)
	}
	if got := Score(120, 8, 4); got < base {
		t.Errorf("score decreased when shares increased: %d < %d", got, base)
	}
}

func TestScoreNegativeTreatedAsZero(t *testing.T) {
	if got := Score(-5, -1, -100); got != 0 {
		t.Errorf("Score with negative counters = %d, want 0", got)
	}
}
