package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAuthor_Name(t *testing.T) {
	tests := []struct {
		first, family, want string
	}{
		{"Frank", "Herbert", "Herbert, Frank"},
		{"", "Herbert", ""},
		{"Frank", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		a := Author{FirstName: tt.first, FamilyName: tt.family}
		assert.Equal(t, tt.want, a.Name())
	}
}

func TestAuthor_Lifespan(t *testing.T) {
	a := Author{DateOfBirth: date(1920, time.October, 8), DateOfDeath: date(1986, time.February, 11)}
	assert.Equal(t, "1920 - 1986", a.Lifespan())
	assert.Equal(t, "1920-10-08", a.DateOfBirthISO())
	assert.Equal(t, "1986-02-11", a.DateOfDeathISO())

	a.DateOfDeath = nil
	assert.Equal(t, "1920 - ", a.Lifespan())
	assert.Equal(t, "", a.DateOfDeathISO())

	assert.Equal(t, " - ", (&Author{}).Lifespan())
}

func TestCanonicalURL(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("65f1a2b3c4d5e6f708192a3b")
	assert.NoError(t, err)

	assert.Equal(t, "/catalog/author/65f1a2b3c4d5e6f708192a3b", (&Author{ID: id}).URL())
	assert.Equal(t, "/catalog/book/65f1a2b3c4d5e6f708192a3b", (&Book{ID: id}).URL())
	assert.Equal(t, "/catalog/genre/65f1a2b3c4d5e6f708192a3b", (&Genre{ID: id}).URL())
	assert.Equal(t, "/catalog/bookinstance/65f1a2b3c4d5e6f708192a3b", (&BookInstance{ID: id}).URL())
	assert.Equal(t, "/catalog/bookinstances", ListURL(KindBookInstance))
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("Lost").Valid())
	assert.False(t, Status("").Valid())
	assert.Equal(t, StatusMaintenance, DefaultStatus)
}

func TestBookInstance_DueBack(t *testing.T) {
	bi := BookInstance{}
	assert.Equal(t, "", bi.DueBackISO())
	assert.Equal(t, "", bi.DueBackFormatted())

	bi.DueBack = *date(2026, time.March, 5)
	assert.Equal(t, "2026-03-05", bi.DueBackISO())
	assert.Equal(t, "Mar 5, 2026", bi.DueBackFormatted())
}
