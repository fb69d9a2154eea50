package repository

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/opsdeck/admin-api/internal/models"
)

// excludePassword is the projection applied to every read that leaves the
// service boundary. The hash must never reach a response.
var excludePassword = bson.M{"password": 0}

// AdminRepository provides Admin collection operations over MongoDB.
// It is constructed with an explicit database handle; there is no
// process-global collection lookup.
type AdminRepository struct {
	col *mongo.Collection
}

// NewAdminRepository constructs an AdminRepository bound to the admins collection.
func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{col: db.Collection("admins")}
}

// List returns up to limit admins ordered by creation time descending,
// password excluded. Soft-deleted records are included.
func (r *AdminRepository) List(ctx context.Context, skip, limit int64) ([]models.Admin, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(excludePassword)

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	admins := []models.Admin{}
	if err := cur.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

// Count returns the total number of documents in the collection, including
// soft-deleted ones.
func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// GetByID fetches an admin by ID with the password excluded.
// Returns mongo.ErrNoDocuments when no record matches.
func (r *AdminRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var admin models.Admin
	err := r.col.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(excludePassword)).Decode(&admin)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByEmail fetches an admin by email including the password hash, for
// credential verification and uniqueness checks.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// EmailTakenByOther reports whether a document other than the given ID
// already holds the email.
func (r *AdminRepository) EmailTakenByOther(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{
		"email": email,
		"_id":   bson.M{"$ne": exclude},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Insert persists a new admin and fills in its generated ID.
func (r *AdminRepository) Insert(ctx context.Context, admin *models.Admin) error {
	res, err := r.col.InsertOne(ctx, admin)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		admin.ID = oid
	}
	return nil
}

// UpdateFields sets the given fields on the identified admin and returns the
// updated document with the password excluded. Returns mongo.ErrNoDocuments
// when no record matches.
func (r *AdminRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Admin, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(excludePassword)

	var admin models.Admin
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&admin)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Search returns up to limit admins where any of the given fields contains q
// as a case-insensitive substring. Soft-deleted records are included.
func (r *AdminRepository) Search(ctx context.Context, q string, fields []string, limit int64) ([]models.Admin, error) {
	or := make([]bson.M, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}})
	}

	opts := options.Find().
		SetLimit(limit).
		SetProjection(excludePassword)

	cur, err := r.col.Find(ctx, bson.M{"$or": or}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	admins := []models.Admin{}
	if err := cur.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}
