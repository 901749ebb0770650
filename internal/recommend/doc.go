// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

// Package recommend implements the recommendation engine for pet-friendly
// catalog entities.
//
// # Architecture
//
// A single Recommend call produces three parallel ranked lists, each from
// its own strategy:
//
//   - User-based: entities sharing a region or category with the user's
//     pet-friendly bookmarks, bookmarked entities excluded
//   - Region-based: all pet-friendly entities, popularity-ranked, review
//     count as tie-break
//   - Seasonal: entities matching the configured season/category affinity
//     table for the current calendar season
//
// All three rank by the bounded popularity score so lists are comparable
// across requests.
//
// # Design Principles
//
//   - Deterministic: a response is a pure function of the fetched data
//     snapshot and the request
//   - Isolated: strategies run concurrently and one strategy's failure
//     empties only its own list
//   - Injected: all data arrives through the DataProvider interface; the
//     engine holds no ambient state and no cache
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), db, logger)
//	resp, err := engine.Recommend(ctx, recommend.Request{UserID: userID})
//
// # Thread Safety
//
// The engine is safe for concurrent use; it is immutable after creation.
package recommend
