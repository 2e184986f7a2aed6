package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/darasahub/darasa/core/user"
)

type userDoc struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Username     string        `bson:"username"`
	Email        string        `bson:"email"`
	Role         string        `bson:"role"`
	Avatar       string        `bson:"avatar,omitempty"`
	GoogleID     string        `bson:"googleId,omitempty"`
	PasswordHash []byte        `bson:"passwordHash,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt"`
	LastLogin    time.Time     `bson:"lastLogin"`
}

func (d userDoc) toUser() user.User {
	return user.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		Role:         d.Role,
		Avatar:       d.Avatar,
		GoogleID:     d.GoogleID,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		LastLogin:    d.LastLogin,
	}
}

func newUserDoc(usr user.User) (userDoc, error) {
	doc := userDoc{
		Username:     usr.Username,
		Email:        usr.Email,
		Role:         usr.Role,
		Avatar:       usr.Avatar,
		GoogleID:     usr.GoogleID,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt,
		LastLogin:    usr.LastLogin,
	}
	if usr.ID != "" {
		oid, err := oidFromHex(usr.ID, user.ErrNotFound)
		if err != nil {
			return userDoc{}, err
		}
		doc.ID = oid
	}
	return doc, nil
}

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{coll: db.Collection(usersColl)}
}

func (r *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc, err := newUserDoc(usr)
	if err != nil {
		return user.User{}, err
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	usr.ID = res.InsertedID.(bson.ObjectID).Hex()
	return usr, nil
}

func (r *userRepository) getOne(ctx context.Context, filter bson.M) (user.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return doc.toUser(), nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	oid, err := oidFromHex(id, user.ErrNotFound)
	if err != nil {
		return user.User{}, err
	}
	return r.getOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, bson.M{"email": email})
}

func (r *userRepository) GetUserByGoogleID(ctx context.Context, gid string) (user.User, error) {
	return r.getOne(ctx, bson.M{"googleId": gid})
}

func (r *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	var docs []userDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding users")
	}
	users := make([]user.User, len(docs))
	for i, doc := range docs {
		users[i] = doc.toUser()
	}
	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc, err := newUserDoc(usr)
	if err != nil {
		return user.User{}, err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
