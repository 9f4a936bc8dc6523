// Package store persists finished scorecards.
//
// Backends:
//   - [NullStore]: discards reports (the default)
//   - [FileStore]: one JSON document per report in a directory
//   - [MongoStore]: one MongoDB document per report
//
// Reports are write-only from the pipeline's point of view; nothing in
// pkgscore reads them back during an evaluation.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

// Store saves finished scorecards.
type Store interface {
	Save(ctx context.Context, sc *scorecard.Scorecard) error
	Close() error
}

// Document is the stored form of a scorecard.
type Document struct {
	ID          string           `json:"id" bson:"_id"`
	Owner       string           `json:"owner" bson:"owner"`
	Repo        string           `json:"repo" bson:"repo"`
	EvaluatedAt time.Time        `json:"evaluated_at" bson:"evaluated_at"`
	Defaulted   []string         `json:"defaulted,omitempty" bson:"defaulted,omitempty"`
	Report      scorecard.Report `json:"report" bson:"report"`
}

// NewDocument builds the document for sc with a fresh ID.
func NewDocument(sc *scorecard.Scorecard, now time.Time) Document {
	doc := Document{
		ID:          uuid.NewString(),
		Owner:       sc.Owner,
		Repo:        sc.Repo,
		EvaluatedAt: now.UTC(),
		Report:      sc.Report(),
	}
	for _, m := range sc.Defaulted() {
		doc.Defaulted = append(doc.Defaulted, string(m))
	}
	return doc
}

// NullStore discards every report.
type NullStore struct{}

func (NullStore) Save(context.Context, *scorecard.Scorecard) error { return nil }
func (NullStore) Close() error                                    { return nil }
