package service

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

// memStore is an in-memory AdminStore used by service and handler tests. It
// mirrors the repository contract, including mongo.ErrNoDocuments on misses
// and password-stripped results on reads.
type memStore struct {
	mu     sync.Mutex
	admins []models.Admin
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) seed(admins ...models.Admin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range admins {
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		s.admins = append(s.admins, a)
	}
}

// raw returns the stored document as-is, hash included.
func (s *memStore) raw(id primitive.ObjectID) *models.Admin {
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

func stripPassword(a models.Admin) models.Admin {
	a.Password = ""
	return a
}

func (s *memStore) List(ctx context.Context, skip, limit int64) ([]models.Admin, error) {
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
		out = append(out, stripPassword(a))
	}
	return out, nil
}

func (s *memStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.admins)), nil
}

func (s *memStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].ID == id {
			a := stripPassword(s.admins[i])
			return &a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
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

func (s *memStore) EmailTakenByOther(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].Email == email && s.admins[i].ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Insert(ctx context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	s.admins = append(s.admins, *admin)
	return nil
}

func (s *memStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Admin, error) {
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
		a := stripPassword(s.admins[i])
		return &a, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (s *memStore) Search(ctx context.Context, q string, fields []string, limit int64) ([]models.Admin, error) {
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
				out = append(out, stripPassword(a))
				break
			}
		}
	}
	return out, nil
}
