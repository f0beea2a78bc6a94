package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

const auditCollection = "gateway_audit"

type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	SessionID   string             `bson:"session_id"`
	Role        string             `bson:"role"`
	Action      string             `bson:"action"`
	DoctorID    string             `bson:"doctor_id,omitempty"`
	Outcome     string             `bson:"outcome"`
	FailureKind string             `bson:"failure_kind,omitempty"`
	At          time.Time          `bson:"at"`
}

// EnsureIndexes creates the lookup indexes used by audit queries.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "doctor_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	doc := mongoAuditEntry{
		SessionID:   entry.SessionID,
		Role:        entry.Role.String(),
		Action:      string(entry.Action),
		DoctorID:    entry.DoctorID,
		Outcome:     entry.Outcome,
		FailureKind: entry.FailureKind,
		At:          entry.At,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListBySession returns the most recent entries of a session, newest first.
func (r *AuditRepository) ListBySession(ctx context.Context, sessionID string, limit int64) ([]domain.AuditEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.coll.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit entries: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAuditEntry
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit entries: %w", err)
	}

	out := make([]domain.AuditEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.AuditEntry{
			SessionID:   d.SessionID,
			Role:        domain.ParseRole(roleTag(d.Role)),
			Action:      domain.ActionKind(d.Action),
			DoctorID:    d.DoctorID,
			Outcome:     d.Outcome,
			FailureKind: d.FailureKind,
			At:          d.At.UTC(),
		})
	}
	return out, nil
}

// roleTag maps the stored role name back to its persisted tag.
func roleTag(name string) string {
	if name == "guest" {
		return ""
	}
	return name
}
