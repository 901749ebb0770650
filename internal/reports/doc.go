// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

// Package reports assembles composite analytics reports from independent
// statistic subsystems.
//
// A report is one immutable document covering a resolved time period.
// Each category (time series, region/type, performance, cost, user
// behavior, prediction) is produced by its own Source; sources are
// invoked concurrently and each outcome is captured per category, so a
// failing subsystem costs only its own section of the document. The one
// fatal condition is persistence: if the finished document cannot be
// stored, the whole generation fails and nothing is returned.
//
// Sources and the Store are interface-typed dependencies handed to the
// aggregator at construction; the package holds no ambient state.
package reports
