package databases

// go generate: mockery --name TrackedCaseDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quantraven93/court-tracker-api/models"
)

const trackedCaseName = "trackedcases"

// TrackedCaseDatabase contains the methods to use with the tracked case database
type TrackedCaseDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.TrackedCase, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.TrackedCase, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type trackedCaseDatabase struct {
	db DatabaseHelper
}

// NewTrackedCaseDatabase initializes a new instance of tracked case database with the provided db connection
func NewTrackedCaseDatabase(db DatabaseHelper) TrackedCaseDatabase {
	return &trackedCaseDatabase{
		db: db,
	}
}

func (c *trackedCaseDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.TrackedCase, error) {
	trackedCase := &models.TrackedCase{}
	err := c.db.Collection(trackedCaseName).FindOne(ctx, filter, opts...).Decode(&trackedCase)
	if err != nil {
		return nil, err
	}
	return trackedCase, nil
}

func (c *trackedCaseDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.TrackedCase, error) {
	var trackedCases []models.TrackedCase
	curr, err := c.db.Collection(trackedCaseName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &trackedCases)
	if err != nil {
		return nil, err
	}
	return trackedCases, nil
}

func (c *trackedCaseDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(trackedCaseName).CountDocuments(ctx, filter, opts...)
}

func (c *trackedCaseDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(trackedCaseName).InsertOne(ctx, document, opts...)
	return res, err
}

func (c *trackedCaseDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(trackedCaseName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *trackedCaseDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(trackedCaseName).DeleteOne(ctx, filter, opts...)
}
