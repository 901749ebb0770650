// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

// Package models defines the domain data structures shared between the
// database layer and the API layer.
package models

// Entity is a catalog item: a tourist site, camping ground, park, or any
// other place the portal lists.
type Entity struct {
	// ID is the stable catalog identifier.
	ID int `json:"id"`

	// Title is the display name.
	Title string `json:"title"`

	// Region is the administrative region the entity belongs to.
	Region string `json:"region"`

	// Category is the entity type (campground, park, beach, ...).
	Category string `json:"category"`

	// Image is the representative image URL, if any.
	Image string `json:"image,omitempty"`

	// PetFriendly marks entities that admit visitors with pets.
	PetFriendly bool `json:"pet_friendly"`

	// MapX and MapY are the stored fixed-point grid coordinates
	// (degrees scaled by 1e7). Zero values mean no coordinate available.
	MapX int `json:"map_x,omitempty"`
	MapY int `json:"map_y,omitempty"`

	// Tags holds free-form classification tags from the content API.
	Tags []string `json:"tags,omitempty"`
}

// EngagementCounters holds the raw engagement counts for one entity.
// The counters are mutated by increment operations elsewhere in the
// system; this core only reads them.
type EngagementCounters struct {
	EntityID      int `json:"entity_id"`
	ViewCount     int `json:"view_count"`
	BookmarkCount int `json:"bookmark_count"`
	ShareCount    int `json:"share_count"`
}

// Review is a user review of a catalog entity. Reviews flagged as
// pet-friendly experiences carry their own pet-specific sub-rating.
type Review struct {
	EntityID int `json:"entity_id"`

	// Rating is the general rating (1-5).
	Rating int `json:"rating"`

	// PetFriendlyExperience marks reviews describing a visit with a pet.
	PetFriendlyExperience bool `json:"pet_friendly_experience"`

	// PetFriendlyRating is the pet-specific sub-rating (1-5). Only
	// meaningful when PetFriendlyExperience is true.
	PetFriendlyRating int `json:"pet_friendly_rating,omitempty"`
}
