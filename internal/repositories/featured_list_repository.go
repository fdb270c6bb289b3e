package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resourcehub/backend/internal/models"
)

type featuredListRepository struct {
	db *sql.DB
}

// NewFeaturedListRepository creates a new featured list repository
func NewFeaturedListRepository(db *sql.DB) *featuredListRepository {
	return &featuredListRepository{
		db: db,
	}
}

const featuredListColumns = "id, title, filter_criteria, is_active, display_order, created_at, updated_at"

func scanFeaturedList(row rowScanner) (*models.FeaturedList, error) {
	var list models.FeaturedList
	var criteria []byte

	err := row.Scan(
		&list.ID,
		&list.Title,
		&criteria,
		&list.IsActive,
		&list.DisplayOrder,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalColumn(criteria, &list.FilterCriteria, "filter_criteria"); err != nil {
		return nil, err
	}
	list.FilterCriteria.Normalize()

	return &list, nil
}

func (r *featuredListRepository) query(ctx context.Context, query string, args ...any) ([]models.FeaturedList, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query featured lists: %w", err)
	}
	defer rows.Close()

	lists := []models.FeaturedList{}
	for rows.Next() {
		list, err := scanFeaturedList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan featured list: %w", err)
		}
		lists = append(lists, *list)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lists, nil
}

// GetAll retrieves every featured list in display order
func (r *featuredListRepository) GetAll(ctx context.Context) ([]models.FeaturedList, error) {
	return r.query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM home_featured_lists
		ORDER BY display_order ASC, created_at ASC
	`, featuredListColumns))
}

// GetActive retrieves up to limit active lists in display order
func (r *featuredListRepository) GetActive(ctx context.Context, limit int) ([]models.FeaturedList, error) {
	return r.query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM home_featured_lists
		WHERE is_active = TRUE
		ORDER BY display_order ASC, created_at ASC
		LIMIT ?
	`, featuredListColumns), limit)
}

// GetByID retrieves a featured list by its ID
func (r *featuredListRepository) GetByID(ctx context.Context, id string) (*models.FeaturedList, error) {
	query := fmt.Sprintf(`SELECT %s FROM home_featured_lists WHERE id = ? LIMIT 1`, featuredListColumns)

	list, err := scanFeaturedList(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("featured list not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get featured list by id: %w", err)
	}

	return list, nil
}

// checkActiveLimit locks the active rows and fails when another list cannot be activated.
// excludeID is not counted so re-saving an already active list passes.
func checkActiveLimit(ctx context.Context, tx *sql.Tx, excludeID string) error {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM home_featured_lists WHERE is_active = TRUE FOR UPDATE`)
	if err != nil {
		return fmt.Errorf("failed to lock active featured lists: %w", err)
	}
	defer rows.Close()

	active := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan active featured list: %w", err)
		}
		if id != excludeID {
			active++
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	if active >= models.MaxActiveFeaturedLists {
		return models.ErrActiveListLimit
	}
	return nil
}

// Create inserts a list at the end of the display order.
// The active limit is checked in the same transaction as the insert.
func (r *featuredListRepository) Create(ctx context.Context, list *models.FeaturedList) error {
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	list.FilterCriteria.Normalize()
	criteria, err := marshalColumn(list.FilterCriteria)
	if err != nil {
		return fmt.Errorf("failed to encode filter criteria: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if list.IsActive {
		if err := checkActiveLimit(ctx, tx, list.ID); err != nil {
			return err
		}
	}

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(display_order), -1) + 1 FROM home_featured_lists`).Scan(&list.DisplayOrder); err != nil {
		return fmt.Errorf("failed to get next display order: %w", err)
	}

	list.CreatedAt = time.Now().UTC()
	list.UpdatedAt = list.CreatedAt

	query := `
		INSERT INTO home_featured_lists (id, title, filter_criteria, is_active, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query, list.ID, list.Title, criteria, list.IsActive, list.DisplayOrder, list.CreatedAt, list.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create featured list: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update rewrites title, criteria and active flag of a list
func (r *featuredListRepository) Update(ctx context.Context, list *models.FeaturedList) error {
	list.FilterCriteria.Normalize()
	criteria, err := marshalColumn(list.FilterCriteria)
	if err != nil {
		return fmt.Errorf("failed to encode filter criteria: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if list.IsActive {
		if err := checkActiveLimit(ctx, tx, list.ID); err != nil {
			return err
		}
	}

	list.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE home_featured_lists
		SET title = ?, filter_criteria = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := tx.ExecContext(ctx, query, list.Title, criteria, list.IsActive, list.UpdatedAt, list.ID)
	if err != nil {
		return fmt.Errorf("failed to update featured list: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("featured list not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete deletes a featured list by ID
func (r *featuredListRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM home_featured_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete featured list: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("featured list not found")
	}

	return nil
}

// Reorder sets display_order of every list in ids to its position, in one transaction.
// Every id must exist, otherwise nothing is changed.
func (r *featuredListRepository) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")

	var found int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM home_featured_lists WHERE id IN (%s)`, placeholders)
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		return fmt.Errorf("failed to check featured lists: %w", err)
	}
	if found != len(ids) {
		return fmt.Errorf("featured list not found")
	}

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE home_featured_lists SET display_order = ? WHERE id = ?`, i, id); err != nil {
			return fmt.Errorf("failed to update display order: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
