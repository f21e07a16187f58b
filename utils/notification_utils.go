// utils/notification_utils.go
package utils

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cashtrack/cashtrack_backend/config"
	"github.com/cashtrack/cashtrack_backend/lifecycle"
	"github.com/cashtrack/cashtrack_backend/models"
	ws "github.com/cashtrack/cashtrack_backend/websocket"
)

// SaveNotification persists a notification and pushes it to the recipient's
// live connection if one exists. Offline recipients read it from the bell
// icon later.
func SaveNotification(db *mongo.Client, hub *ws.Hub, userID primitive.ObjectID, message, notifType string, requestID *primitive.ObjectID) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Message:   message,
		Type:      notifType,
		IsRead:    false,
		RequestID: requestID,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := collection.InsertOne(ctx, notification); err != nil {
		return err
	}

	if hub != nil {
		push := ws.Notification{
			Type:    notifType,
			Message: message,
		}
		if requestID != nil {
			push.RequestID = requestID.Hex()
		}
		// Offline recipients are expected, not an error.
		_ = hub.SendToUser(userID, push)
	}
	return nil
}

// EmitNotices delivers a committed transition's notifications. It runs after
// the transaction commits and is strictly best effort: a failed insert is
// logged and skipped, never propagated, because the state change already
// happened.
//
// original and spawn are the post-commit requests; prevPickerID carries the
// picker that a revert just cleared, since the updated record no longer has
// one.
func EmitNotices(db *mongo.Client, hub *ws.Hub, notices []lifecycle.Notice, original, spawn *models.Request, prevPickerID *primitive.ObjectID) {
	for _, notice := range notices {
		target := original
		if notice.OnSpawn {
			if spawn == nil {
				continue
			}
			target = spawn
		}

		userID, ok := resolveAudience(db, notice.To, original, prevPickerID)
		if !ok {
			log.Printf("Could not resolve notification audience %d for request %s", notice.To, original.ID.Hex())
			continue
		}

		requestID := target.ID
		if err := SaveNotification(db, hub, userID, notice.Message, notice.Type, &requestID); err != nil {
			log.Printf("Failed to save notification for user %s: %v", userID.Hex(), err)
		}
	}
}

func resolveAudience(db *mongo.Client, audience lifecycle.Audience, req *models.Request, prevPickerID *primitive.ObjectID) (primitive.ObjectID, bool) {
	switch audience {
	case lifecycle.AudienceOwner:
		return req.CreatedByID, true
	case lifecycle.AudiencePicker:
		if req.PickedByID == nil {
			return primitive.NilObjectID, false
		}
		return *req.PickedByID, true
	case lifecycle.AudiencePrevPicker:
		if prevPickerID == nil {
			return primitive.NilObjectID, false
		}
		return *prevPickerID, true
	case lifecycle.AudienceAdmin:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var admin models.User
		err := config.GetCollection(db, "users").
			FindOne(ctx, bson.M{"role": models.RoleSuperAdmin}).Decode(&admin)
		if err != nil {
			return primitive.NilObjectID, false
		}
		return admin.ID, true
	}
	return primitive.NilObjectID, false
}
