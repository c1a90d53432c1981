package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID                  primitive.ObjectID      `bson:"_id,omitempty"`
	Name                string                  `bson:"name"`
	Email               string                  `bson:"email"`
	PasswordHash        string                  `bson:"password_hash"`
	Verify              domain.UserVerifyStatus `bson:"verify"`
	EmailVerifyToken    string                  `bson:"email_verify_token"`
	ForgotPasswordToken string                  `bson:"forgot_password_token"`
	RestrictedCircle    []primitive.ObjectID    `bson:"restricted_circle,omitempty"`
	CreatedAt           time.Time               `bson:"created_at"`
	UpdatedAt           time.Time               `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	circle := make([]string, 0, len(mu.RestrictedCircle))
	for _, id := range mu.RestrictedCircle {
		circle = append(circle, id.Hex())
	}
	return &domain.User{
		ID:                  mu.ID.Hex(),
		Name:                mu.Name,
		Email:               mu.Email,
		PasswordHash:        mu.PasswordHash,
		Verify:              mu.Verify,
		EmailVerifyToken:    mu.EmailVerifyToken,
		ForgotPasswordToken: mu.ForgotPasswordToken,
		RestrictedCircle:    circle,
		CreatedAt:           mu.CreatedAt,
		UpdatedAt:           mu.UpdatedAt,
	}
}

// Create inserts a new user document. The unique index on email is the
// backstop for registration races; a duplicate insert maps to ErrEmailExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Name:                user.Name,
		Email:               user.Email,
		PasswordHash:        user.PasswordHash,
		Verify:              user.Verify,
		EmailVerifyToken:    user.EmailVerifyToken,
		ForgotPasswordToken: user.ForgotPasswordToken,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// FindByID retrieves a user by hex object id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// FindByEmail retrieves a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// Update applies a partial update; nil fields in upd are left untouched.
func (r *UserRepository) Update(ctx context.Context, id string, upd ports.UserUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	set, err := updateDoc(upd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateReturning applies a partial update and returns the post-update
// document in a single round trip (findOneAndUpdate with ReturnDocument
// After).
func (r *UserRepository) UpdateReturning(ctx context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set, err := updateDoc(upd)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mu mongoUser
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

func updateDoc(upd ports.UserUpdate) (bson.M, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.PasswordHash != nil {
		set["password_hash"] = *upd.PasswordHash
	}
	if upd.Verify != nil {
		set["verify"] = *upd.Verify
	}
	if upd.EmailVerifyToken != nil {
		set["email_verify_token"] = *upd.EmailVerifyToken
	}
	if upd.ForgotPasswordToken != nil {
		set["forgot_password_token"] = *upd.ForgotPasswordToken
	}
	if upd.RestrictedCircle != nil {
		circle := make([]primitive.ObjectID, 0, len(*upd.RestrictedCircle))
		for _, id := range *upd.RestrictedCircle {
			oid, err := primitive.ObjectIDFromHex(id)
			if err != nil {
				return nil, domain.ErrUserNotFound
			}
			circle = append(circle, oid)
		}
		set["restricted_circle"] = circle
	}
	return set, nil
}

// EnsureIndexes creates the unique email index on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
