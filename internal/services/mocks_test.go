package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/resourcehub/backend/internal/models"
	"github.com/resourcehub/backend/internal/storage"
	"github.com/resourcehub/backend/internal/tasks"
	"go.uber.org/zap"
)

// fakeStore is an in-memory object store.
// Puts fail while failures > 0, and always for content equal to failContent.
type fakeStore struct {
	mu          sync.Mutex
	objects     map[string][]byte
	order       []string
	deleted     []string
	puts        int
	failures    int
	failContent string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Put(ctx context.Context, bucket, path string, r io.Reader, contentType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.puts++
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if s.failures > 0 {
		s.failures--
		return 0, errors.New("storage timeout")
	}
	if s.failContent != "" && string(data) == s.failContent {
		return 0, errors.New("storage rejected object")
	}

	key := bucket + "/" + path
	s.objects[key] = data
	s.order = append(s.order, bucket)
	return int64(len(data)), nil
}

func (s *fakeStore) PublicURL(bucket, path string) string {
	return "https://cdn.test/" + bucket + "/" + path
}

func (s *fakeStore) Delete(ctx context.Context, bucket, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, bucket+"/"+path)
	return nil
}

// listingStore is a fakeStore that can enumerate objects
type listingStore struct {
	*fakeStore
	listed  map[string][]storage.Object
	listErr error
}

func (s *listingStore) List(ctx context.Context, bucket string) ([]storage.Object, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listed[bucket], nil
}

// memFile builds an upload whose content can be read any number of times
func memFile(name, contentType, content string) models.UploadFile {
	return models.UploadFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func newTestUploader(store storage.ObjectStore) *attachmentUploader {
	u := NewAttachmentUploader(store, zap.NewNop())
	u.backoff = 0
	return u
}

// memCache is a map backed cache.Cache
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return nil
}

// mockResourceRepository is a mock implementation of the resource repository interfaces
type mockResourceRepository struct {
	resource      *models.Resource
	resources     map[string]*models.Resource
	cards         []models.ResourceCard
	total         int
	takenSlugs    map[string]bool
	err           error
	createErr     error
	updateErr     error
	deleteErr     error
	incrementErr  error
	slugErr       error
	created       *models.Resource
	updated       *models.Resource
	deletedID     string
	statusUpdates []models.ResourceStatus
	lastFilter    models.BrowseFilter
	increments    int
}

func (m *mockResourceRepository) Create(ctx context.Context, res *models.Resource) error {
	if m.createErr != nil {
		return m.createErr
	}
	res.ID = "7d1c6a0e-2b4f-4a51-9b1e-0f3c2d7e8a11"
	res.Status = models.StatusPending
	res.Downloads = 0
	m.created = res
	return nil
}

func (m *mockResourceRepository) Update(ctx context.Context, res *models.Resource) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = res
	return nil
}

func (m *mockResourceRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.resources != nil {
		if res, ok := m.resources[id]; ok {
			return res, nil
		}
		return nil, fmt.Errorf("resource not found")
	}
	if m.resource == nil {
		return nil, fmt.Errorf("resource not found")
	}
	return m.resource, nil
}

func (m *mockResourceRepository) GetBySlug(ctx context.Context, slug string) (*models.Resource, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, res := range m.resources {
		if res.Slug == slug {
			return res, nil
		}
	}
	if m.resource != nil && m.resource.Slug == slug {
		return m.resource, nil
	}
	return nil, fmt.Errorf("resource not found")
}

func (m *mockResourceRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	if m.slugErr != nil {
		return false, m.slugErr
	}
	return m.takenSlugs[slug], nil
}

func (m *mockResourceRepository) ListByOwner(ctx context.Context, userID string) ([]models.ResourceCard, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cards, nil
}

func (m *mockResourceRepository) ListByStatus(ctx context.Context, status *models.ResourceStatus, page, count int) ([]models.ResourceCard, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cards, nil
}

func (m *mockResourceRepository) CountByStatus(ctx context.Context, status *models.ResourceStatus) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

func (m *mockResourceRepository) IncrementDownloads(ctx context.Context, id string) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	m.increments++
	return nil
}

func (m *mockResourceRepository) UpdateStatus(ctx context.Context, id string, status models.ResourceStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

func (m *mockResourceRepository) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

// mockNotifier records enqueued jobs
type mockNotifier struct {
	submitted []tasks.ResourceSubmittedPayload
	moderated []tasks.ResourceModeratedPayload
	contacts  []tasks.ContactMessagePayload
	err       error
}

func (m *mockNotifier) ResourceSubmitted(ctx context.Context, p tasks.ResourceSubmittedPayload) error {
	m.submitted = append(m.submitted, p)
	return m.err
}

func (m *mockNotifier) ResourceModerated(ctx context.Context, p tasks.ResourceModeratedPayload) error {
	m.moderated = append(m.moderated, p)
	return m.err
}

func (m *mockNotifier) ContactMessage(ctx context.Context, p tasks.ContactMessagePayload) error {
	m.contacts = append(m.contacts, p)
	return m.err
}

// mockProfileRepository is a mock implementation of ProfileRepository
type mockProfileRepository struct {
	profile        *models.Profile
	role           models.Role
	emailExists    bool
	usernameExists bool
	err            error
	existsErr      error
	createErr      error
	updateErr      error
	created        *models.Profile
	updated        *models.Profile
	passwordHash   string
}

func (m *mockProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = "4b0c7e52-9d0a-4c8f-a2a4-6f1b2c3d4e5f"
	m.created = p
	return nil
}

func (m *mockProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.profile == nil {
		return nil, fmt.Errorf("profile not found")
	}
	copied := *m.profile
	return &copied, nil
}

func (m *mockProfileRepository) GetByEmailOrUsername(ctx context.Context, login string) (*models.Profile, error) {
	return m.GetByID(ctx, "")
}

func (m *mockProfileRepository) GetRole(ctx context.Context, id string) (models.Role, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.role, nil
}

func (m *mockProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.emailExists, nil
}

func (m *mockProfileRepository) ExistsByUsername(ctx context.Context, username, exceptID string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.usernameExists, nil
}

func (m *mockProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = p
	return nil
}

func (m *mockProfileRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.passwordHash = passwordHash
	return nil
}
