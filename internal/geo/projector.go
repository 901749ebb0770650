// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

// Package geo converts stored fixed-point grid coordinates into standard
// geographic coordinates for map rendering.
//
// Catalog entities carry their position as two integers (degrees scaled
// by 1e7) in a legacy regional Lambert-conformal-conic grid. Project
// runs the point through the conic grid and back to WGS84, which is how
// the upstream map layer expects coordinates. The transform is pure and
// deterministic; coordinates are recomputed on every render, never
// persisted.
package geo

import "math"

// Projection constants. These describe the legacy regional grid and are
// fixed; do not parameterize them.
const (
	earthRadiusKM = 6371.00877 // Earth radius (km)
	gridSpacingKM = 5.0        // grid cell spacing (km)
	stdParallel1  = 30.0       // first standard parallel (deg N)
	stdParallel2  = 60.0       // second standard parallel (deg N)
	originLon     = 126.0      // reference meridian (deg E)
	originLat     = 38.0       // reference parallel of origin (deg N)

	// coordScale is the fixed-point scale of stored coordinates.
	coordScale = 1e7

	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Project converts a stored fixed-point grid coordinate pair into a
// geographic coordinate, rounded to 6 decimal places.
//
// It never fails: any finite input yields a value. Callers are
// responsible for treating absent inputs as "no coordinate available"
// before calling.
func Project(mapX, mapY int) Coordinate {
	lon := float64(mapX) / coordScale * degToRad
	lat := float64(mapY) / coordScale * degToRad

	slat1 := stdParallel1 * degToRad
	slat2 := stdParallel2 * degToRad
	olon := originLon * degToRad
	olat := originLat * degToRad

	re := earthRadiusKM / gridSpacingKM

	// Cone constant and scale factor from the two standard parallels.
	sn := math.Log(math.Cos(slat1)/math.Cos(slat2)) /
		math.Log(math.Tan(math.Pi/4+slat2/2)/math.Tan(math.Pi/4+slat1/2))
	sf := math.Pow(math.Tan(math.Pi/4+slat1/2), sn) * math.Cos(slat1) / sn
	ro := re * sf / math.Pow(math.Tan(math.Pi/4+olat/2), sn)

	// Radial distance and angular offset of the input point on the cone.
	ra := re * sf / math.Pow(math.Tan(math.Pi/4+lat/2), sn)
	theta := normalizeTheta((lon - olon) * sn)

	// Grid-plane position relative to the projection origin.
	xn := ra * math.Sin(theta)
	yn := ro - ra*math.Cos(theta)

	// Back from the grid plane to geographic coordinates.
	outRa := math.Sqrt(xn*xn + (ro-yn)*(ro-yn))
	if sn < 0 {
		outRa = -outRa
	}
	outLat := 2*math.Atan(math.Pow(re*sf/outRa, 1/sn)) - math.Pi/2
	outTheta := math.Atan2(xn, ro-yn)
	outLon := outTheta/sn + olon

	return Coordinate{
		Lat: round6(outLat * radToDeg),
		Lng: round6(outLon * radToDeg),
	}
}

// normalizeTheta wraps an angle into (-pi, pi].
func normalizeTheta(theta float64) float64 {
	for theta > math.Pi {
		theta -= 2 * math.Pi
	}
	for theta <= -math.Pi {
		theta += 2 * math.Pi
	}
	return theta
}

// round6 rounds to 6 decimal places.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
