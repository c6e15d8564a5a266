// internal/app/system/search/search.go
package search

import (
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contains builds a filter that matches documents where any of the given
// folded (*_ci) fields contains q. The query is folded the same way the
// stored values are and regex metacharacters are escaped, so user input is
// always matched literally.
//
// It returns nil for a blank query so callers can skip the clause:
//
//	filter := bson.M{"status": models.UserActive}
//	if f := search.Contains(q, "username_ci", "full_name_ci"); f != nil {
//	    filter["$or"] = f["$or"]
//	}
func Contains(q string, fields ...string) bson.M {
	q = strings.TrimSpace(q)
	if q == "" || len(fields) == 0 {
		return nil
	}

	re := primitive.Regex{Pattern: regexp.QuoteMeta(text.Fold(q))}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	return bson.M{"$or": or}
}
