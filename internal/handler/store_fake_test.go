package handler

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opsdeck/admin-api/internal/models"
)

// fakeStore is an in-memory service.AdminStore for handler tests.
type fakeStore struct {
	mu     sync.Mutex
	admins []models.Admin
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) seed(admins ...models.Admin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range admins {
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		s.admins = append(s.admins, a)
	}
}

func (s *fakeStore) raw(id primitive.ObjectID) *models.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].ID == id {
			a := s.admins[i]
			return &a
		}
	}
	return nil
}

func noPassword(a models.Admin) models.Admin {
	a.Password = ""
	return a
}

func (s *fakeStore) List(ctx context.Context, skip, limit int64) ([]models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]models.Admin, len(s.admins))
	copy(sorted, s.admins)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if skip >= int64(len(sorted)) {
		return []models.Admin{}, nil
	}
	sorted = sorted[skip:]
	if int64(len(sorted)) > limit {
		sorted = sorted[:limit]
	}

	out := make([]models.Admin, 0, len(sorted))
	for _, a := range sorted {
		out = append(out, noPassword(a))
	}
	return out, nil
}

func (s *fakeStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.admins)), nil
}

func (s *fakeStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].ID == id {
			a := noPassword(s.admins[i])
			return &a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].Email == email {
			a := s.admins[i]
			return &a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeStore) EmailTakenByOther(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].Email == email && s.admins[i].ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) Insert(ctx context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	s.admins = append(s.admins, *admin)
	return nil
}

func (s *fakeStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].ID != id {
			continue
		}
		for k, v := range fields {
			switch k {
			case "email":
				s.admins[i].Email, _ = v.(string)
			case "role":
				s.admins[i].Role, _ = v.(string)
			case "password":
				s.admins[i].Password, _ = v.(string)
			case "removed":
				s.admins[i].Removed, _ = v.(bool)
			case "enabled":
				s.admins[i].Enabled, _ = v.(bool)
			}
		}
		a := noPassword(s.admins[i])
		return &a, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeStore) Search(ctx context.Context, q string, fields []string, limit int64) ([]models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(q)
	out := []models.Admin{}
	for _, a := range s.admins {
		if int64(len(out)) >= limit {
			break
		}
		values := map[string]string{
			"email":   a.Email,
			"name":    a.Name,
			"surname": a.Surname,
			"role":    a.Role,
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(values[f]), needle) {
				out = append(out, noPassword(a))
				break
			}
		}
	}
	return out, nil
}
