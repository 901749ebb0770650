// Pawtrek - Pet-Friendly Travel Analytics and Recommendations
// Copyright 2026 Pawtrek Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pawtrek/pawtrek

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/pawtrek/pawtrek/internal/metrics"
	"github.com/pawtrek/pawtrek/internal/models"
)

// ErrEntityNotFound is returned when an entity lookup misses.
var ErrEntityNotFound = errors.New("entity not found")

// GetEntity returns a single catalog entity by ID.
func (db *DB) GetEntity(ctx context.Context, entityID int) (*models.Entity, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, title, region, category, COALESCE(image, ''),
		       pet_friendly, COALESCE(map_x, 0), COALESCE(map_y, 0), COALESCE(tags, '[]')
		FROM entities
		WHERE id = ?`, entityID)

	entity, err := scanEntity(row)
	metrics.ObserveDBQuery("get_entity", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entity %d: %w", entityID, err)
	}
	return entity, nil
}

// GetPetFriendlyEntities returns all pet-friendly catalog entities.
func (db *DB) GetPetFriendlyEntities(ctx context.Context) ([]models.Entity, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, title, region, category, COALESCE(image, ''),
		       pet_friendly, COALESCE(map_x, 0), COALESCE(map_y, 0), COALESCE(tags, '[]')
		FROM entities
		WHERE pet_friendly
		ORDER BY id`)
	metrics.ObserveDBQuery("get_pet_friendly_entities", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query pet-friendly entities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entities []models.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity row: %w", err)
		}
		entities = append(entities, *entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("entity rows iteration failed: %w", err)
	}
	return entities, nil
}

// GetEngagementCounters returns engagement counters for all entities.
func (db *DB) GetEngagementCounters(ctx context.Context) ([]models.EngagementCounters, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT entity_id, view_count, bookmark_count, share_count
		FROM engagement_counters
		ORDER BY entity_id`)
	metrics.ObserveDBQuery("get_engagement_counters", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query engagement counters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counters []models.EngagementCounters
	for rows.Next() {
		var c models.EngagementCounters
		if err := rows.Scan(&c.EntityID, &c.ViewCount, &c.BookmarkCount, &c.ShareCount); err != nil {
			return nil, fmt.Errorf("failed to scan counter row: %w", err)
		}
		counters = append(counters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counter rows iteration failed: %w", err)
	}
	return counters, nil
}

// GetEngagementCountersFor returns counters for a single entity. Entities
// with no recorded engagement get zero counters rather than an error.
func (db *DB) GetEngagementCountersFor(ctx context.Context, entityID int) (models.EngagementCounters, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	c := models.EngagementCounters{EntityID: entityID}
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		SELECT view_count, bookmark_count, share_count
		FROM engagement_counters
		WHERE entity_id = ?`, entityID).
		Scan(&c.ViewCount, &c.BookmarkCount, &c.ShareCount)
	metrics.ObserveDBQuery("get_engagement_counters_for", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("failed to get counters for entity %d: %w", entityID, err)
	}
	return c, nil
}

// GetReviews returns all reviews ordered by entity.
func (db *DB) GetReviews(ctx context.Context) ([]models.Review, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT entity_id, rating, pet_friendly_experience, COALESCE(pet_friendly_rating, 0)
		FROM reviews
		ORDER BY entity_id`)
	metrics.ObserveDBQuery("get_reviews", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.EntityID, &r.Rating, &r.PetFriendlyExperience, &r.PetFriendlyRating); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("review rows iteration failed: %w", err)
	}
	return reviews, nil
}

// GetUserBookmarks returns the entity IDs bookmarked by a user.
func (db *DB) GetUserBookmarks(ctx context.Context, userID int) ([]int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT entity_id
		FROM bookmarks
		WHERE user_id = ?
		ORDER BY created_at`, userID)
	metrics.ObserveDBQuery("get_user_bookmarks", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks for user %d: %w", userID, err)
	}
	defer func() { _ = rows.Close() }()

	var entityIDs []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		entityIDs = append(entityIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookmark rows iteration failed: %w", err)
	}
	return entityIDs, nil
}

// UpsertEntity inserts or replaces a catalog entity. Used by the
// content API sync path.
func (db *DB) UpsertEntity(ctx context.Context, entity *models.Entity) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tagsJSON, err := json.Marshal(entity.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags for entity %d: %w", entity.ID, err)
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO entities
			(id, title, region, category, image, pet_friendly, map_x, map_y, tags, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		entity.ID, entity.Title, entity.Region, entity.Category, entity.Image,
		entity.PetFriendly, entity.MapX, entity.MapY, string(tagsJSON))
	metrics.ObserveDBQuery("upsert_entity", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert entity %d: %w", entity.ID, err)
	}
	return nil
}

// RecordEngagement adjusts the counters for an entity, creating the row
// when absent. Deltas may be zero.
func (db *DB) RecordEngagement(ctx context.Context, entityID, views, bookmarks, shares int) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO engagement_counters (entity_id, view_count, bookmark_count, share_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (entity_id) DO UPDATE SET
			view_count = view_count + excluded.view_count,
			bookmark_count = bookmark_count + excluded.bookmark_count,
			share_count = share_count + excluded.share_count`,
		entityID, views, bookmarks, shares)
	metrics.ObserveDBQuery("record_engagement", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to record engagement for entity %d: %w", entityID, err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntity(row rowScanner) (*models.Entity, error) {
	var entity models.Entity
	var tagsJSON string
	if err := row.Scan(&entity.ID, &entity.Title, &entity.Region, &entity.Category,
		&entity.Image, &entity.PetFriendly, &entity.MapX, &entity.MapY, &tagsJSON); err != nil {
		return nil, err
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &entity.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for entity %d: %w", entity.ID, err)
		}
	}
	return &entity, nil
}
