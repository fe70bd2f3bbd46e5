package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DeliveryLog holds the structure for the deliverylogs collection in mongo.
// One record is appended per delivery attempt per channel, so every change
// event maps to an observable set of sent/failed outcomes.
type DeliveryLog struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details DeliveryLogDetails `json:"deliveryLog" bson:"deliveryLog"`
	Version int32              `json:"__v" bson:"__v"`
}

// DeliveryLogDetails holds the inner delivery log details
type DeliveryLogDetails struct {
	EventID string `json:"eventID" bson:"eventID"`
	CaseID  string `json:"caseID" bson:"caseID"`
	UserID  string `json:"userID" bson:"userID"`

	// Channel: "email", "telegram"
	Channel string `json:"channel" bson:"channel"`

	// Status: "sent", "failed"
	Status string `json:"status" bson:"status"`
	Error  string `json:"error,omitempty" bson:"error,omitempty"`

	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
