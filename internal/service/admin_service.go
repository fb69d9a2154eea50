package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/opsdeck/admin-api/internal/models"
	"github.com/opsdeck/admin-api/internal/utils"
)

// AdminStore is the persistence abstraction the admin services operate on.
// The mongo-backed implementation lives in the repository package; tests
// substitute an in-memory one.
type AdminStore interface {
	List(ctx context.Context, skip, limit int64) ([]models.Admin, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	EmailTakenByOther(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error)
	Insert(ctx context.Context, admin *models.Admin) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Admin, error)
	Search(ctx context.Context, q string, fields []string, limit int64) ([]models.Admin, error)
}

// searchLimit caps the number of search matches returned.
const searchLimit = 10

// searchableFields is the allow-list for the search operation. Field names
// outside this set are rejected before any filter is built, so a client can
// never steer the query through arbitrary document paths.
var searchableFields = map[string]bool{
	"email":   true,
	"name":    true,
	"surname": true,
	"role":    true,
}

// CreateAdminRequest is the create operation payload.
type CreateAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Role     string `json:"role"`
	Enabled  bool   `json:"enabled"`
}

// UpdateAdminRequest is the update operation payload. Only email and role are
// applied; any other field in the request body is ignored.
type UpdateAdminRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AdminService implements the admin collection operations.
type AdminService struct {
	store AdminStore
}

// NewAdminService constructs an AdminService.
func NewAdminService(store AdminStore) *AdminService {
	return &AdminService{store: store}
}

// List returns one page of admins, newest first, together with pagination
// metadata. The fetch and the collection count run concurrently. The count is
// over the whole collection, soft-deleted records included.
func (s *AdminService) List(ctx context.Context, page, items int) ([]models.Admin, *utils.Pagination, error) {
	skip := int64(page-1) * int64(items)

	var (
		admins []models.Admin
		count  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		admins, err = s.store.List(gctx, skip, int64(items))
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.store.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	pages := int((count + int64(items) - 1) / int64(items))
	return admins, &utils.Pagination{Page: page, Pages: pages, Count: count}, nil
}

// Get fetches a single admin by ID, password excluded.
func (s *AdminService) Get(ctx context.Context, id string) (*models.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	admin, err := s.store.GetByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// Create persists a new admin. The email-uniqueness check and the insert are
// two separate store calls; concurrent creates with the same email can race,
// matching the behavior this service replaces.
func (s *AdminService) Create(ctx context.Context, req *CreateAdminRequest) (*models.AdminProfile, error) {
	_, err := s.store.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, utils.ErrEmailTaken
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if len(req.Password) < 8 {
		return nil, utils.ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Email:     req.Email,
		Password:  string(hashed),
		Name:      req.Name,
		Surname:   req.Surname,
		Role:      req.Role,
		Enabled:   req.Enabled,
		Removed:   false,
		CreatedAt: time.Now(),
	}
	if err := s.store.Insert(ctx, admin); err != nil {
		return nil, err
	}

	log.Info().Str("admin_id", admin.ID.Hex()).Str("email", admin.Email).Msg("admin created")

	profile := admin.Profile()
	return &profile, nil
}

// Update sets email and role on the identified admin and returns the updated
// record. Fails when a different record already holds the target email.
func (s *AdminService) Update(ctx context.Context, id string, req *UpdateAdminRequest) (*models.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	taken, err := s.store.EmailTakenByOther(ctx, req.Email, oid)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, utils.ErrEmailTaken
	}

	admin, err := s.store.UpdateFields(ctx, oid, bson.M{"email": req.Email, "role": req.Role})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// UpdatePassword hashes and sets a new password on the identified admin.
// There is no old-password confirmation step.
func (s *AdminService) UpdatePassword(ctx context.Context, id, password string) (*models.Admin, error) {
	if len(password) < 8 {
		return nil, utils.ErrPasswordTooShort
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin, err := s.store.UpdateFields(ctx, oid, bson.M{"password": string(hashed)})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("admin_id", id).Msg("admin password updated")
	return admin, nil
}

// Delete soft-deletes the identified admin by setting removed. The document
// stays in the collection and remains readable; repeating the call is a no-op
// that succeeds again.
func (s *AdminService) Delete(ctx context.Context, id string) (*models.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	admin, err := s.store.UpdateFields(ctx, oid, bson.M{"removed": true})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("admin_id", id).Msg("admin soft-deleted")
	return admin, nil
}

// Search returns up to 10 admins matching q as a case-insensitive substring
// in any of the requested fields. Field names are validated against the
// allow-list before any query is built.
func (s *AdminService) Search(ctx context.Context, q string, fields []string) ([]models.Admin, error) {
	if len(fields) == 0 {
		return nil, utils.ErrFieldNotSearchable
	}
	for _, f := range fields {
		if !searchableFields[f] {
			return nil, utils.ErrFieldNotSearchable
		}
	}

	return s.store.Search(ctx, q, fields, searchLimit)
}
