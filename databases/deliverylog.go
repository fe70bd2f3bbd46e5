package databases

// go generate: mockery --name DeliveryLogDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quantraven93/court-tracker-api/models"
)

const deliveryLogName = "deliverylogs"

// DeliveryLogDatabase contains the methods to use with the delivery log database
type DeliveryLogDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.DeliveryLog, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type deliveryLogDatabase struct {
	db DatabaseHelper
}

// NewDeliveryLogDatabase initializes a new instance of delivery log database with the provided db connection
func NewDeliveryLogDatabase(db DatabaseHelper) DeliveryLogDatabase {
	return &deliveryLogDatabase{
		db: db,
	}
}

func (c *deliveryLogDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.DeliveryLog, error) {
	var logs []models.DeliveryLog
	curr, err := c.db.Collection(deliveryLogName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &logs)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *deliveryLogDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(deliveryLogName).InsertOne(ctx, document, opts...)
	return res, err
}
