package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

type IncidentRepository struct {
	col *mongo.Collection
}

func NewIncidentRepository(db *mongo.Database) *IncidentRepository {
	return &IncidentRepository{col: db.Collection(collectionIncidents)}
}

// Create inserts a new incident document. A reused idempotency key surfaces
// as domain.ErrDuplicateKey.
func (r *IncidentRepository) Create(ctx context.Context, c *domain.IncidentCase) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) && c.IdempotencyKey != "" {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

func (r *IncidentRepository) FindByID(ctx context.Context, id string) (*domain.IncidentCase, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByIdempotencyKey retrieves a case the reporter already created with key.
func (r *IncidentRepository) FindByIdempotencyKey(ctx context.Context, reporterID, key string) (*domain.IncidentCase, error) {
	return r.findOne(ctx, bson.M{"reporter_id": reporterID, "idempotency_key": key})
}

func (r *IncidentRepository) findOne(ctx context.Context, filter bson.M) (*domain.IncidentCase, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.IncidentCase
	if err := r.col.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIncidentNotFound
		}
		return nil, err
	}
	normalizeIncident(&c)
	return &c, nil
}

// List returns matching cases, newest first.
func (r *IncidentRepository) List(ctx context.Context, f ports.IncidentFilter) ([]domain.IncidentCase, error) {
	filter := bson.M{}
	if f.ReporterID != "" {
		filter["reporter_id"] = f.ReporterID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}))
}

// Update performs a version-checked replace.
func (r *IncidentRepository) Update(ctx context.Context, c *domain.IncidentCase, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID, "version": expectedVersion}, c)
	if err != nil {
		return fmt.Errorf("update incident: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": c.ID})
		if err != nil {
			return fmt.Errorf("update incident: %w", err)
		}
		if n == 0 {
			return domain.ErrIncidentNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// ListLocated returns cases carrying coordinates, optionally narrowed by type
// and creation time.
func (r *IncidentRepository) ListLocated(ctx context.Context, incidentType domain.IncidentType, from, to time.Time) ([]domain.IncidentCase, error) {
	opts := options.Find().SetProjection(bson.M{
		"_id": 1, "incident_type": 1, "coordinates": 1, "created_at": 1,
	})
	return r.find(ctx, locatedFilter(incidentType, from, to), opts)
}

func locatedFilter(incidentType domain.IncidentType, from, to time.Time) bson.M {
	filter := bson.M{"coordinates": bson.M{"$exists": true, "$ne": nil}}
	if incidentType != "" {
		filter["incident_type"] = string(incidentType)
	}
	if created := timeRange(from, to); created != nil {
		filter["created_at"] = created
	}
	return filter
}

func (r *IncidentRepository) CountByStatus(ctx context.Context) (map[domain.IncidentStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count incidents: %w", err)
	}

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode incident counts: %w", err)
	}

	out := make(map[domain.IncidentStatus]int64, len(rows))
	for _, row := range rows {
		out[domain.IncidentStatus(row.Status)] = row.Count
	}
	return out, nil
}

func (r *IncidentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.IncidentCase, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find incidents: %w", err)
	}

	cases := make([]domain.IncidentCase, 0)
	if err := cur.All(ctx, &cases); err != nil {
		return nil, fmt.Errorf("decode incidents: %w", err)
	}
	for i := range cases {
		normalizeIncident(&cases[i])
	}
	return cases, nil
}

// EnsureIndexes creates necessary indexes on the incidents collection.
func (r *IncidentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "reporter_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "incident_type", Value: 1}, {Key: "created_at", Value: 1}}},
		{
			Keys: bson.D{{Key: "reporter_id", Value: 1}, {Key: "idempotency_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{
				"idempotency_key": bson.M{"$type": "string"},
			}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// normalizeIncident restores UTC timestamps and non-nil slices after decoding.
func normalizeIncident(c *domain.IncidentCase) {
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	if c.EvidenceRefs == nil {
		c.EvidenceRefs = []string{}
	}
	if c.Audit == nil {
		c.Audit = []domain.AuditEntry{}
	}
	for i := range c.Audit {
		c.Audit[i].At = c.Audit[i].At.UTC()
	}
}

// timeRange builds an inclusive range filter; nil when both bounds are open.
func timeRange(from, to time.Time) bson.M {
	if from.IsZero() && to.IsZero() {
		return nil
	}
	m := bson.M{}
	if !from.IsZero() {
		m["$gte"] = from
	}
	if !to.IsZero() {
		m["$lte"] = to
	}
	return m
}
