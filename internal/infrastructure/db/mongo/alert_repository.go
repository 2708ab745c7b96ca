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

type AlertRepository struct {
	col *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{col: db.Collection(collectionAlerts)}
}

// Create inserts the alert. The partial unique index on active alerts turns a
// concurrent second trigger into domain.ErrAlreadyActive.
func (r *AlertRepository) Create(ctx context.Context, a *domain.SOSAlert) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyActive
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *AlertRepository) FindByID(ctx context.Context, id string) (*domain.SOSAlert, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AlertRepository) FindActiveByUser(ctx context.Context, userID string) (*domain.SOSAlert, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "status": string(domain.AlertActive)})
}

func (r *AlertRepository) findOne(ctx context.Context, filter bson.M) (*domain.SOSAlert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.SOSAlert
	if err := r.col.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAlertNotFound
		}
		return nil, err
	}
	normalizeAlert(&a)
	return &a, nil
}

// List returns matching alerts, newest first.
func (r *AlertRepository) List(ctx context.Context, f ports.AlertFilter) ([]domain.SOSAlert, error) {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.ActiveOnly {
		filter["status"] = string(domain.AlertActive)
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "triggered_at", Value: -1}, {Key: "_id", Value: 1}}))
}

// Update performs a version-checked replace.
func (r *AlertRepository) Update(ctx context.Context, a *domain.SOSAlert, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID, "version": expectedVersion}, a)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": a.ID})
		if err != nil {
			return fmt.Errorf("update alert: %w", err)
		}
		if n == 0 {
			return domain.ErrAlertNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *AlertRepository) ListTriggeredBetween(ctx context.Context, from, to time.Time) ([]domain.SOSAlert, error) {
	filter := bson.M{"location": bson.M{"$exists": true}}
	if triggered := timeRange(from, to); triggered != nil {
		filter["triggered_at"] = triggered
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1, "location": 1, "triggered_at": 1})
	return r.find(ctx, filter, opts)
}

func (r *AlertRepository) Count(ctx context.Context) (ports.AlertCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return ports.AlertCounts{}, fmt.Errorf("count alerts: %w", err)
	}
	active, err := r.col.CountDocuments(ctx, bson.M{"status": string(domain.AlertActive)})
	if err != nil {
		return ports.AlertCounts{}, fmt.Errorf("count active alerts: %w", err)
	}
	return ports.AlertCounts{Total: total, Active: active}, nil
}

func (r *AlertRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.SOSAlert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find alerts: %w", err)
	}

	alerts := make([]domain.SOSAlert, 0)
	if err := cur.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}
	for i := range alerts {
		normalizeAlert(&alerts[i])
	}
	return alerts, nil
}

// EnsureIndexes creates the alert indexes, including the partial unique index
// that allows at most one active alert per user.
func (r *AlertRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("one_active_alert_per_user").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.AlertActive)}),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "triggered_at", Value: -1}}},
		{Keys: bson.D{{Key: "triggered_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func normalizeAlert(a *domain.SOSAlert) {
	a.TriggeredAt = a.TriggeredAt.UTC()
	if a.DeactivatedAt != nil {
		t := a.DeactivatedAt.UTC()
		a.DeactivatedAt = &t
	}
	if a.NotifiedContactIDs == nil {
		a.NotifiedContactIDs = []string{}
	}
}
