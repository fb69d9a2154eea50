package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin represents an admin account document.
type Admin struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Surname   string             `bson:"surname,omitempty" json:"surname,omitempty"`
	Role      string             `bson:"role,omitempty" json:"role,omitempty"`
	Enabled   bool               `bson:"enabled" json:"enabled"`
	Removed   bool               `bson:"removed" json:"removed"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// AdminProfile is the reduced field set returned by create and profile.
type AdminProfile struct {
	ID      primitive.ObjectID `json:"_id"`
	Enabled bool               `json:"enabled"`
	Email   string             `json:"email"`
	Name    string             `json:"name"`
	Surname string             `json:"surname"`
}

// Profile projects the admin into its public field subset.
func (a *Admin) Profile() AdminProfile {
	return AdminProfile{
		ID:      a.ID,
		Enabled: a.Enabled,
		Email:   a.Email,
		Name:    a.Name,
		Surname: a.Surname,
	}
}
