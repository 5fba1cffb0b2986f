package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	UserID   string             `json:"userId" bson:"userId"`
	FullName string             `json:"full_name" bson:"full_name"`
	Email    string             `json:"email" bson:"email"`
	Phone    string             `json:"phone" bson:"phone"`
	Password string             `json:"password,omitempty" bson:"password"`
}
