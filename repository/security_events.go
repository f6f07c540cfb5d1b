package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// SecurityEventRepo journals auth anomalies (IP-mismatch rejections).
type SecurityEventRepo struct {
	MongoCollection *mongo.Collection
}

func GetSecurityEventRepo(client *mongo.Client) *SecurityEventRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("SECURITY_EVENTS_COLLECTION", "security_events")
	return &SecurityEventRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *SecurityEventRepo) Insert(event model.SecurityEvent) error {
	timer := utils.TrackOutbound("mongo", "security_event_insert")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if event.EventType == "" || event.ContactID == "" {
		utils.TrackError("security_events", "invalid_event")
		return fmt.Errorf("invalid security event: missing required fields")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, event); err != nil {
		utils.TrackError("security_events", "insert_failed")
		return fmt.Errorf("failed to record security event: %w", err)
	}
	return nil
}

// ListByContact returns the newest events for one contact.
func (r *SecurityEventRepo) ListByContact(contactID string, limit int64) ([]model.SecurityEvent, error) {
	timer := utils.TrackOutbound("mongo", "security_event_list")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"contact_id": contactID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list security events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []model.SecurityEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode security events: %w", err)
	}
	return events, nil
}
