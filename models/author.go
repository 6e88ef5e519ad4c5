package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Author struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName   string             `bson:"first_name" json:"firstName"`
	FamilyName  string             `bson:"family_name" json:"familyName"`
	DateOfBirth *time.Time         `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	DateOfDeath *time.Time         `bson:"date_of_death,omitempty" json:"dateOfDeath,omitempty"`
}

// Name is "family, first", or empty when either part is missing.
func (a *Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan renders the birth and death years around " - ", leaving unknown sides blank.
func (a *Author) Lifespan() string {
	s := ""
	if a.DateOfBirth != nil {
		s = strconv.Itoa(a.DateOfBirth.Year())
	}
	s += " - "
	if a.DateOfDeath != nil {
		s += strconv.Itoa(a.DateOfDeath.Year())
	}
	return s
}

func (a *Author) DateOfBirthISO() string { return isoDate(a.DateOfBirth) }

func (a *Author) DateOfDeathISO() string { return isoDate(a.DateOfDeath) }

func (a *Author) URL() string { return CanonicalURL(KindAuthor, a.ID) }
