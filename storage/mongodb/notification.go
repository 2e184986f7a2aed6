package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/darasahub/darasa/core/notification"
)

type notificationDoc struct {
	ID           bson.ObjectID  `bson:"_id,omitempty"`
	Title        string         `bson:"title"`
	Message      string         `bson:"message"`
	FromID       *bson.ObjectID `bson:"from,omitempty"`
	FromUsername string         `bson:"fromUsername,omitempty"`
	FromAvatar   string         `bson:"fromAvatar,omitempty"`
	ToID         bson.ObjectID  `bson:"to"`
	Read         bool           `bson:"read"`
	CreatedAt    time.Time      `bson:"createdAt"`
}

func (d notificationDoc) toNotification() notification.Notification {
	n := notification.Notification{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Message:      d.Message,
		FromUsername: d.FromUsername,
		FromAvatar:   d.FromAvatar,
		ToID:         d.ToID.Hex(),
		Read:         d.Read,
		CreatedAt:    d.CreatedAt,
	}
	if d.FromID != nil {
		n.FromID = d.FromID.Hex()
	}
	return n
}

type notificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) notification.Repository {
	return &notificationRepository{coll: db.Collection(notificationsColl)}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	toID, err := oidFromHex(n.ToID, notification.ErrRecipientNotFound)
	if err != nil {
		return notification.Notification{}, err
	}
	doc := notificationDoc{
		Title:        n.Title,
		Message:      n.Message,
		FromUsername: n.FromUsername,
		FromAvatar:   n.FromAvatar,
		ToID:         toID,
		Read:         n.Read,
		CreatedAt:    n.CreatedAt,
	}
	if n.FromID != "" {
		fromID, err := oidFromHex(n.FromID, notification.ErrNotFound)
		if err != nil {
			return notification.Notification{}, err
		}
		doc.FromID = &fromID
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	n.ID = res.InsertedID.(bson.ObjectID).Hex()
	return n, nil
}

func (r *notificationRepository) GetNotificationByID(ctx context.Context, id string) (notification.Notification, error) {
	oid, err := oidFromHex(id, notification.ErrNotFound)
	if err != nil {
		return notification.Notification{}, err
	}
	var doc notificationDoc
	if err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return notification.Notification{}, notification.ErrNotFound
		}
		return notification.Notification{}, errors.Wrap(err, "finding notification")
	}
	return doc.toNotification(), nil
}

func (r *notificationRepository) QueryUserNotifications(ctx context.Context, toID string) ([]notification.Notification, error) {
	oid, err := oidFromHex(toID, notification.ErrNotFound)
	if err != nil {
		return nil, err
	}
	cursor, err := r.coll.Find(ctx, bson.M{"to": oid},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	var docs []notificationDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding notifications")
	}
	res := make([]notification.Notification, len(docs))
	for i, doc := range docs {
		res[i] = doc.toNotification()
	}
	return res, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (notification.Notification, error) {
	oid, err := oidFromHex(id, notification.ErrNotFound)
	if err != nil {
		return notification.Notification{}, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc notificationDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"read": true}}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notification.Notification{}, notification.ErrNotFound
		}
		return notification.Notification{}, errors.Wrap(err, "marking notification read")
	}
	return doc.toNotification(), nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, toID string) error {
	oid, err := oidFromHex(toID, notification.ErrNotFound)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateMany(ctx, bson.M{"to": oid, "read": false}, bson.M{"$set": bson.M{"read": true}})
	return errors.Wrap(err, "marking notifications read")
}
