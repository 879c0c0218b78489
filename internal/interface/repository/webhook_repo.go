package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
)

// MongoWebhookRepository implements the WebhookRepository interface
type MongoWebhookRepository struct {
	collection *mongo.Collection
}

// NewMongoWebhookRepository creates a new MongoDB webhook archive repository
func NewMongoWebhookRepository(db *mongo.Database) repository.WebhookRepository {
	collection := db.Collection("webhookOrders")

	// Create indexes for better performance
	ctx := context.Background()

	eventIDIndex := mongo.IndexModel{
		Keys:    bson.M{"eventId": 1},
		Options: options.Index().SetUnique(true),
	}

	// Compound index for finding unprocessed payloads efficiently
	unprocessedIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "processStatus", Value: 1},
			{Key: "receivedAt", Value: 1},
		},
	}

	// Platform redeliveries arrive with a fresh eventId, so duplicate
	// detection goes through the order id.
	orderIDIndex := mongo.IndexModel{
		Keys: bson.M{"orderId": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		eventIDIndex,
		unprocessedIndex,
		orderIDIndex,
	})

	return &MongoWebhookRepository{collection: collection}
}

// Save archives a raw webhook payload
func (r *MongoWebhookRepository) Save(ctx context.Context, order *entity.WebhookOrder) error {
	if order.ProcessStatus == "" {
		order.ProcessStatus = entity.WebhookStatusPending
	}
	_, err := r.collection.InsertOne(ctx, order)
	return err
}

// FindByEventID finds an archived payload by its event id
func (r *MongoWebhookRepository) FindByEventID(ctx context.Context, eventID string) (*entity.WebhookOrder, error) {
	var order entity.WebhookOrder
	err := r.collection.FindOne(ctx, bson.M{"eventId": eventID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindUnprocessed finds archived payloads that never processed or failed,
// oldest first
func (r *MongoWebhookRepository) FindUnprocessed(ctx context.Context, limit int) ([]*entity.WebhookOrder, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"processStatus": ""},
			{"processStatus": entity.WebhookStatusPending},
			{"processStatus": entity.WebhookStatusFailed},
			{"processStatus": bson.M{"$exists": false}},
		},
	}

	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "receivedAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*entity.WebhookOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Claim conditionally moves a claimable archive into PROCESSING. The filter
// carries the claimable statuses, so under concurrent sweeps only one
// UpdateOne matches and exactly one caller wins.
func (r *MongoWebhookRepository) Claim(ctx context.Context, eventID string) (bool, error) {
	filter := bson.M{
		"eventId": eventID,
		"$or": []bson.M{
			{"processStatus": ""},
			{"processStatus": entity.WebhookStatusPending},
			{"processStatus": entity.WebhookStatusFailed},
			{"processStatus": bson.M{"$exists": false}},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"processStatus":    entity.WebhookStatusProcessing,
			"processStartedAt": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// ResetStale returns archives stuck in PROCESSING since before olderThan
// back to PENDING so a later sweep can reclaim them
func (r *MongoWebhookRepository) ResetStale(ctx context.Context, olderThan time.Time) error {
	filter := bson.M{
		"processStatus": entity.WebhookStatusProcessing,
		"$or": []bson.M{
			{"processStartedAt": bson.M{"$lt": olderThan}},
			{"processStartedAt": bson.M{"$exists": false}},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"processStatus": entity.WebhookStatusPending,
			"errorDetail":   "reset from stale PROCESSING state",
		},
	}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// HasCompletedOrder reports whether an archive for the given platform order
// already completed processing
func (r *MongoWebhookRepository) HasCompletedOrder(ctx context.Context, orderID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{
		"orderId":       orderID,
		"processStatus": entity.WebhookStatusCompleted,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkProcessed records the processing outcome of an archived payload
func (r *MongoWebhookRepository) MarkProcessed(ctx context.Context, eventID, status, errorDetail, trackingCode string) error {
	update := bson.M{
		"$set": bson.M{
			"processStatus": status,
			"processedAt":   time.Now(),
			"errorDetail":   errorDetail,
			"trackingCode":  trackingCode,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"eventId": eventID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}
