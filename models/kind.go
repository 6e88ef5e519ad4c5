package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind names an entity type as it appears in catalog URLs.
type Kind string

const (
	KindAuthor       Kind = "author"
	KindBook         Kind = "book"
	KindGenre        Kind = "genre"
	KindBookInstance Kind = "bookinstance"
)

const catalogPrefix = "/catalog/"

// CanonicalURL is the detail location of an entity, /catalog/<kind>/<id>.
func CanonicalURL(kind Kind, id primitive.ObjectID) string {
	return catalogPrefix + string(kind) + "/" + id.Hex()
}

// ListURL is the listing location for an entity kind, e.g. /catalog/authors.
func ListURL(kind Kind) string {
	return catalogPrefix + string(kind) + "s"
}

// DateLayout is the yyyy-mm-dd layout used for date inputs.
const DateLayout = "2006-01-02"

func isoDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
