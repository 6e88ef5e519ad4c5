package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusAvailable   Status = "Available"
	StatusMaintenance Status = "Maintenance"
	StatusLoaned      Status = "Loaned"
	StatusReserved    Status = "Reserved"
)

// Statuses lists the allowed copy statuses in display order.
var Statuses = []Status{StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved}

const DefaultStatus = StatusMaintenance

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// BookInstance is a physical copy of a book.
type BookInstance struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookID  primitive.ObjectID `bson:"book" json:"book"`
	Imprint string             `bson:"imprint" json:"imprint"`
	Status  Status             `bson:"status" json:"status"`
	DueBack time.Time          `bson:"due_back" json:"dueBack"`
}

func (bi *BookInstance) URL() string { return CanonicalURL(KindBookInstance, bi.ID) }

func (bi *BookInstance) DueBackISO() string {
	if bi.DueBack.IsZero() {
		return ""
	}
	return isoDate(&bi.DueBack)
}

// DueBackFormatted renders the due date like "Jan 2, 2006".
func (bi *BookInstance) DueBackFormatted() string {
	if bi.DueBack.IsZero() {
		return ""
	}
	return bi.DueBack.UTC().Format("Jan 2, 2006")
}

// PopulatedBookInstance carries the referenced book, nil when it no longer resolves.
type PopulatedBookInstance struct {
	BookInstance
	Book *Book
}
