package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User holds the structure for the users collection in mongo. Only the
// fields the notification dispatcher needs are modeled here; account
// management is owned by the front-end service.
type User struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details UserDetails        `json:"user" bson:"user"`
	Version int32              `json:"__v" bson:"__v"`
}

// UserDetails holds the inner user details
type UserDetails struct {
	Name           string `json:"name" bson:"name"`
	Email          string `json:"email" bson:"email"`
	TelegramChatID string `json:"telegramChatID,omitempty" bson:"telegramChatID,omitempty"`

	// Channel toggles
	EmailEnabled    bool `json:"emailEnabled" bson:"emailEnabled"`
	TelegramEnabled bool `json:"telegramEnabled" bson:"telegramEnabled"`
}
