package calendarRepo

import (
	"context"
	"fmt"
	"time"

	"huddle/database"
	"huddle/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoCalendarRepo stores the busy intervals the calendar collaborator has
// synced for each user. The coordination engine only reads them back when
// building a planner request.
type MongoCalendarRepo struct {
	coll *mongo.Collection
}

func NewMongoCalendarRepo() *MongoCalendarRepo {
	coll := database.Collection("calendar_events")
	repo := &MongoCalendarRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create calendar indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoCalendarRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// ReplaceForUser swaps a user's stored busy intervals for a fresh sync.
func (r *MongoCalendarRepo) ReplaceForUser(userID string, events []models.CalendarEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear events for user %s: %w", userID, err)
	}
	if len(events) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(events))
	for _, ev := range events {
		ev.UserID = userID
		docs = append(docs, ev)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert events for user %s: %w", userID, err)
	}
	return nil
}

// EventsFor returns the stored busy intervals for each of the given users.
// Users with no synced calendar simply have no entry in the result.
func (r *MongoCalendarRepo) EventsFor(userIDs []string) (map[string][]models.CalendarEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar events: %w", err)
	}
	defer cursor.Close(ctx)

	out := make(map[string][]models.CalendarEvent)
	for cursor.Next(ctx) {
		var ev models.CalendarEvent
		if err := cursor.Decode(&ev); err != nil {
			return nil, fmt.Errorf("failed to decode calendar event: %w", err)
		}
		out[ev.UserID] = append(out[ev.UserID], ev)
	}
	return out, cursor.Err()
}
