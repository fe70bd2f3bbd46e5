package databases

// go generate: mockery --name ChangeEventDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quantraven93/court-tracker-api/models"
)

const changeEventName = "changeevents"

// ChangeEventDatabase contains the methods to use with the change event database.
// Events are append-only: there is no update method on purpose.
type ChangeEventDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ChangeEvent, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type changeEventDatabase struct {
	db DatabaseHelper
}

// NewChangeEventDatabase initializes a new instance of change event database with the provided db connection
func NewChangeEventDatabase(db DatabaseHelper) ChangeEventDatabase {
	return &changeEventDatabase{
		db: db,
	}
}

func (c *changeEventDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ChangeEvent, error) {
	var events []models.ChangeEvent
	curr, err := c.db.Collection(changeEventName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (c *changeEventDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(changeEventName).CountDocuments(ctx, filter, opts...)
}

func (c *changeEventDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(changeEventName).InsertOne(ctx, document, opts...)
	return res, err
}
