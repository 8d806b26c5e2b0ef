package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"docexchange/internal/errs"
	"docexchange/internal/mail"
	"docexchange/internal/model"
	"docexchange/internal/repository"
	"docexchange/internal/storage"
)

// In-memory collaborators for scenario tests.

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[int64]*model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.Email == u.Email {
			return nil, errs.NewFieldError(errs.ErrDuplicate, "email", "already exist with this field")
		}
	}
	m.nextID++
	cp := *u
	cp.ID = m.nextID
	cp.CreatedAt = time.Now()
	m.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memUsers) FindByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memUsers) FindRole(_ context.Context, id int64) (model.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return "", errs.ErrNotFound
	}
	return u.Role, nil
}

func (m *memUsers) Activate(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.IsActive = true
	return nil
}

func (m *memUsers) TouchLastLogin(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

type memFiles struct {
	mu     sync.Mutex
	nextID int64
	rows   []model.StoredFile
}

func (m *memFiles) NextID(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return m.nextID, nil
}

func (m *memFiles) Create(_ context.Context, f *model.StoredFile) (*model.StoredFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Handle == f.Handle {
			return nil, errs.ErrDuplicateHandle
		}
	}
	m.rows = append(m.rows, *f)
	cp := *f
	return &cp, nil
}

func (m *memFiles) FindByID(_ context.Context, id int64) (*model.StoredFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memFiles) FindByHandle(_ context.Context, h string) (*model.StoredFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Handle == h {
			cp := r
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memFiles) List(_ context.Context, pq repository.PageQuery) (*repository.PageResult[model.StoredFile], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := append([]model.StoredFile(nil), m.rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })
	start := min(pq.Offset, len(sorted))
	end := min(start+pq.Limit, len(sorted))
	return &repository.PageResult[model.StoredFile]{Items: sorted[start:end], Total: len(sorted)}, nil
}

func (m *memFiles) ListAfter(_ context.Context, last *model.StoredFile, limit int) ([]model.StoredFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := append([]model.StoredFile(nil), m.rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })
	page := make([]model.StoredFile, 0, limit)
	for _, r := range sorted {
		if last != nil && r.ID >= last.ID {
			continue
		}
		if len(page) == limit {
			break
		}
		page = append(page, r)
	}
	return page, nil
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return storage.ObjectInfo{Key: key, Size: int64(len(b)), ContentType: opt.ContentType}, nil
}

func (m *memStore) Get(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), storage.ObjectInfo{Key: key, Size: int64(len(b))}, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	return "https://objects.local/" + key + "?X-Amz-Expires=" + expiry.String(), nil
}

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mail.Message{}
	}
	return m.sent[len(m.sent)-1]
}
