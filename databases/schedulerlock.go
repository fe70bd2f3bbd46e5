package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulerLockName = "schedulerlocks"

// SchedulerLockDatabase serializes background jobs across instances. A lock
// document is keyed by job name and carries an owner plus an expiry, so a
// crashed holder never blocks the job forever.
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, jobName, instanceID string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db: db,
	}
}

func (c *schedulerLockDatabase) TryAcquireLock(ctx context.Context, jobName, instanceID string, ttl time.Duration) (bool, error) {
	now := time.Now()
	filter := bson.M{
		"_id": jobName,
		"$or": []bson.M{
			{"expiresAt": bson.M{"$lt": primitive.NewDateTimeFromTime(now)}},
			{"owner": instanceID},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"owner":     instanceID,
			"expiresAt": primitive.NewDateTimeFromTime(now.Add(ttl)),
		},
	}
	opts := options.Update().SetUpsert(true)
	res, err := c.db.Collection(schedulerLockName).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		// A duplicate key on upsert means another instance holds an
		// unexpired lock
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.MatchedCount > 0 || res.UpsertedCount > 0, nil
}

func (c *schedulerLockDatabase) ReleaseLock(ctx context.Context, jobName, instanceID string) error {
	return c.db.Collection(schedulerLockName).DeleteOne(ctx, bson.M{"_id": jobName, "owner": instanceID})
}
