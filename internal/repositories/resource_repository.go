package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resourcehub/backend/internal/models"
	"github.com/resourcehub/backend/internal/taxonomy"
)

type resourceRepository struct {
	db *sql.DB
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(db *sql.DB) *resourceRepository {
	return &resourceRepository{
		db: db,
	}
}

// resourceColumns is the select list scanned by scanResource
var resourceColumns = strings.Join(append([]string{
	"id", "user_id", "slug", "title", "short_description", "description",
	"file_url", "file_size", "file_type", "attachments", "external_links",
	"preview_image_url", "additional_images", "target_grades", "resource_types",
	"credit_organization", "credit_other", "copyright_verified", "status", "downloads",
	"created_at", "updated_at",
}, taxonomy.TopicColumns()...), ", ")

// cardColumns is the select list scanned by scanCard
const cardColumns = "id, slug, title, short_description, preview_image_url, resource_types, target_grades, status, downloads, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*models.Resource, error) {
	var (
		res                                      models.Resource
		slug, description, fileURL, fileType     sql.NullString
		creditOrganization, creditOther          sql.NullString
		fileSize                                 sql.NullInt64
		attachments, links, images, grades, kind []byte
		topics                                   = make([][]byte, len(taxonomy.TopicCategories))
	)

	dest := []any{
		&res.ID, &res.UserID, &slug, &res.Title, &res.ShortDescription, &description,
		&fileURL, &fileSize, &fileType, &attachments, &links,
		&res.PreviewImageURL, &images, &grades, &kind,
		&creditOrganization, &creditOther, &res.CopyrightVerified, &res.Status, &res.Downloads,
		&res.CreatedAt, &res.UpdatedAt,
	}
	for i := range topics {
		dest = append(dest, &topics[i])
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	res.Slug = slug.String
	res.Description = description.String
	res.CreditOrganization = creditOrganization.String
	res.CreditOther = creditOther.String
	if fileURL.Valid {
		res.FileURL = &fileURL.String
	}
	if fileSize.Valid {
		res.FileSize = &fileSize.Int64
	}
	if fileType.Valid {
		res.FileType = &fileType.String
	}

	columns := []struct {
		raw  []byte
		dst  any
		name string
	}{
		{attachments, &res.Attachments, "attachments"},
		{links, &res.ExternalLinks, "external_links"},
		{images, &res.AdditionalImages, "additional_images"},
		{grades, &res.TargetGrades, "target_grades"},
		{kind, &res.ResourceTypes, "resource_types"},
	}
	for _, c := range columns {
		if err := unmarshalColumn(c.raw, c.dst, c.name); err != nil {
			return nil, err
		}
	}
	for i, c := range taxonomy.TopicCategories {
		if err := unmarshalColumn(topics[i], res.Topics.Field(c.Key), c.Column); err != nil {
			return nil, err
		}
	}

	res.Attachments = nonNil(res.Attachments)
	res.ExternalLinks = nonNil(res.ExternalLinks)
	res.AdditionalImages = nonNil(res.AdditionalImages)
	res.TargetGrades = nonNil(res.TargetGrades)
	res.ResourceTypes = nonNil(res.ResourceTypes)
	res.Topics.Normalize()

	return &res, nil
}

func scanCard(row rowScanner) (*models.ResourceCard, error) {
	var (
		card          models.ResourceCard
		slug          sql.NullString
		types, grades []byte
	)

	err := row.Scan(
		&card.ID,
		&slug,
		&card.Title,
		&card.ShortDescription,
		&card.PreviewImageURL,
		&types,
		&grades,
		&card.Status,
		&card.Downloads,
		&card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.Slug = slug.String
	if err := unmarshalColumn(types, &card.ResourceTypes, "resource_types"); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(grades, &card.TargetGrades, "target_grades"); err != nil {
		return nil, err
	}
	card.ResourceTypes = nonNil(card.ResourceTypes)
	card.TargetGrades = nonNil(card.TargetGrades)

	return &card, nil
}

func collectCards(rows *sql.Rows) ([]models.ResourceCard, error) {
	cards := []models.ResourceCard{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		cards = append(cards, *card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return cards, nil
}

// contentValues returns the JSON encoded content columns in resourceContentColumns order
func contentValues(res *models.Resource) ([]any, error) {
	jsonValues := []any{
		nonNil(res.Attachments),
		nonNil(res.ExternalLinks),
		nonNil(res.AdditionalImages),
		nonNil(res.TargetGrades),
		nonNil(res.ResourceTypes),
	}
	for _, c := range taxonomy.TopicCategories {
		jsonValues = append(jsonValues, nonNil(*res.Topics.Field(c.Key)))
	}

	encoded := make([]string, len(jsonValues))
	for i, v := range jsonValues {
		s, err := marshalColumn(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode resource: %w", err)
		}
		encoded[i] = s
	}

	values := []any{
		nullString(res.Slug), res.Title, res.ShortDescription, res.Description,
		res.FileURL, res.FileSize, res.FileType,
		encoded[0], encoded[1], res.PreviewImageURL, encoded[2], encoded[3], encoded[4],
		nullString(res.CreditOrganization), nullString(res.CreditOther), res.CopyrightVerified,
	}
	for _, s := range encoded[5:] {
		values = append(values, s)
	}
	return values, nil
}

// resourceContentColumns are the columns written by Create and Update
var resourceContentColumns = append([]string{
	"slug", "title", "short_description", "description",
	"file_url", "file_size", "file_type",
	"attachments", "external_links", "preview_image_url", "additional_images", "target_grades", "resource_types",
	"credit_organization", "credit_other", "copyright_verified",
}, taxonomy.TopicColumns()...)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts a new resource. ID, status, downloads and timestamps are set here.
func (r *resourceRepository) Create(ctx context.Context, res *models.Resource) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	res.Status = models.StatusPending
	res.Downloads = 0
	res.CreatedAt = time.Now().UTC()
	res.UpdatedAt = res.CreatedAt

	values, err := contentValues(res)
	if err != nil {
		return err
	}

	columns := append([]string{"id", "user_id", "status", "downloads", "created_at", "updated_at"}, resourceContentColumns...)
	args := append([]any{res.ID, res.UserID, res.Status, res.Downloads, res.CreatedAt, res.UpdatedAt}, values...)

	query := fmt.Sprintf(`INSERT INTO resources (%s) VALUES (%s)`,
		strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "),
	)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	return nil
}

// Update rewrites the content columns of a resource. Owner, status and downloads are left untouched.
func (r *resourceRepository) Update(ctx context.Context, res *models.Resource) error {
	res.UpdatedAt = time.Now().UTC()

	values, err := contentValues(res)
	if err != nil {
		return err
	}

	sets := make([]string, 0, len(resourceContentColumns)+1)
	for _, col := range resourceContentColumns {
		sets = append(sets, col+" = ?")
	}
	sets = append(sets, "updated_at = ?")

	query := fmt.Sprintf(`UPDATE resources SET %s WHERE id = ?`, strings.Join(sets, ", "))
	args := append(values, res.UpdatedAt, res.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("resource not found")
	}

	return nil
}

// GetByID retrieves a resource by its ID
func (r *resourceRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	query := fmt.Sprintf(`SELECT %s FROM resources WHERE id = ? LIMIT 1`, resourceColumns)

	res, err := scanResource(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resource not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource by id: %w", err)
	}

	return res, nil
}

// GetBySlug retrieves a resource by its slug
func (r *resourceRepository) GetBySlug(ctx context.Context, slug string) (*models.Resource, error) {
	query := fmt.Sprintf(`SELECT %s FROM resources WHERE slug = ? LIMIT 1`, resourceColumns)

	res, err := scanResource(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resource not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource by slug: %w", err)
	}

	return res, nil
}

// ExistsBySlug checks if a resource with the given slug exists
func (r *resourceRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM resources WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}

	return exists, nil
}

// ListByOwner retrieves the resources of a user, newest first
func (r *resourceRepository) ListByOwner(ctx context.Context, userID string) ([]models.ResourceCard, error) {
	query := fmt.Sprintf(`SELECT %s FROM resources WHERE user_id = ? ORDER BY created_at DESC, id ASC`, cardColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

// ListByStatus retrieves a page of resources, optionally restricted to one status, newest first
func (r *resourceRepository) ListByStatus(ctx context.Context, status *models.ResourceStatus, page, count int) ([]models.ResourceCard, error) {
	whereClause := ""
	args := []any{}
	if status != nil {
		whereClause = "WHERE status = ?"
		args = append(args, *status)
	}

	offset, ok := pageOffset(page, count)
	if !ok {
		return []models.ResourceCard{}, nil
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM resources
		%s
		ORDER BY created_at DESC, id ASC
		LIMIT ? OFFSET ?
	`, cardColumns, whereClause)
	args = append(args, count, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

// pageOffset returns the row offset of a 1-based page.
// ok is false when the offset does not fit an int, such a page is past any result.
func pageOffset(page, size int) (offset int, ok bool) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return 0, false
	}
	if page-1 > math.MaxInt/size {
		return 0, false
	}
	return (page - 1) * size, true
}

// CountByStatus counts resources, optionally restricted to one status
func (r *resourceRepository) CountByStatus(ctx context.Context, status *models.ResourceStatus) (int, error) {
	query := `SELECT COUNT(*) FROM resources`
	args := []any{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, *status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}

	return total, nil
}

// Browse retrieves one page of approved resources matching filter
func (r *resourceRepository) Browse(ctx context.Context, filter models.BrowseFilter) ([]models.ResourceCard, error) {
	bq := BuildBrowseQuery(filter)

	offset, ok := pageOffset(filter.Page, filter.PageSize)
	if !ok {
		return []models.ResourceCard{}, nil
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM resources
		WHERE %s
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, cardColumns, bq.Where, bq.OrderBy)
	args := append(bq.Args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to browse resources: %w", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

// CountBrowse counts approved resources matching filter
func (r *resourceRepository) CountBrowse(ctx context.Context, filter models.BrowseFilter) (int, error) {
	bq := BuildBrowseQuery(filter)

	var total int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM resources WHERE %s`, bq.Where)
	if err := r.db.QueryRowContext(ctx, query, bq.Args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}

	return total, nil
}

// IncrementDownloads adds one to the download counter in a single statement
func (r *resourceRepository) IncrementDownloads(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE resources SET downloads = downloads + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment downloads: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("resource not found")
	}

	return nil
}

// UpdateStatus sets the moderation status of a resource
func (r *resourceRepository) UpdateStatus(ctx context.Context, id string, status models.ResourceStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE resources SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update resource status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("resource not found")
	}

	return nil
}

// Delete deletes a resource by ID
func (r *resourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("resource not found")
	}

	return nil
}

// IsURLReferenced reports whether any resource points at url as its image, file or attachment
func (r *resourceRepository) IsURLReferenced(ctx context.Context, url string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM resources
			WHERE preview_image_url = ?
				OR file_url = ?
				OR JSON_CONTAINS(additional_images, JSON_QUOTE(?))
				OR JSON_CONTAINS(attachments, JSON_OBJECT('url', ?))
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, url, url, url, url).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check url reference: %w", err)
	}

	return exists, nil
}
