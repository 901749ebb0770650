// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

// Package popularity converts raw engagement counters into a bounded,
// comparable popularity score.
//
// The score is a pure function of the counters: a weighted sum clamped
// against a fixed saturation constant. Because the divisor is fixed
// rather than derived from the dataset, scores are comparable across
// time and across report runs without recalibration.
package popularity

import "math"

// Engagement weights. Bookmarks signal the strongest intent, shares
// next, views the weakest.
const (
	viewWeight     = 1
	bookmarkWeight = 10
	shareWeight    = 5

	// saturation is the raw-score value that maps to 100.
	saturation = 10000
)

// Score converts engagement counters into a popularity score in [0, 100].
// It is monotonically non-decreasing in each argument. Negative inputs
// are treated as zero; counters cannot legitimately go negative.
func Score(viewCount, bookmarkCount, shareCount int) int {
	raw := viewWeight*clampNonNegative(viewCount) +
		bookmarkWeight*clampNonNegative(bookmarkCount) +
		shareWeight*clampNonNegative(shareCount)

	scaled := int(math.Round(float64(raw) / saturation * 100))
	if scaled > 100 {
		return 100
	}
	return scaled
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
