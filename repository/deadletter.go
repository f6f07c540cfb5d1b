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

// DeadLetterRepo journals tracking events that exhausted their delivery
// budget. Purely an operator convenience: nothing replays these.
type DeadLetterRepo struct {
	MongoCollection *mongo.Collection
}

func GetDeadLetterRepo(client *mongo.Client) *DeadLetterRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("DEADLETTER_COLLECTION", "tracking_dead_letters")
	return &DeadLetterRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *DeadLetterRepo) Insert(ev model.TrackingEvent, reason string, attempts int) error {
	timer := utils.TrackOutbound("mongo", "deadletter_insert")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entry := model.DeadLetterEvent{
		Event:     ev,
		Reason:    reason,
		Attempts:  attempts,
		DroppedAt: time.Now(),
	}

	if _, err := r.MongoCollection.InsertOne(ctx, entry); err != nil {
		utils.TrackError("deadletter", "insert_failed")
		return fmt.Errorf("failed to journal dead letter: %w", err)
	}
	return nil
}

// Recent returns the newest dead letters for the ops endpoint.
func (r *DeadLetterRepo) Recent(limit int64) ([]model.DeadLetterEvent, error) {
	timer := utils.TrackOutbound("mongo", "deadletter_list")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "dropped_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.MongoCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list dead letters: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []model.DeadLetterEvent
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode dead letters: %w", err)
	}
	return entries, nil
}
