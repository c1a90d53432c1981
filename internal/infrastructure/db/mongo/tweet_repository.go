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
)

const collectionTweets = "tweets"

type TweetRepository struct {
	col *mongo.Collection
}

func NewTweetRepository(db *mongo.Database) *TweetRepository {
	return &TweetRepository{col: db.Collection(collectionTweets)}
}

type mongoTweet struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	UserID     primitive.ObjectID   `bson:"user_id"`
	Type       domain.TweetType     `bson:"type"`
	Audience   domain.TweetAudience `bson:"audience"`
	Content    string               `bson:"content"`
	ParentID   *primitive.ObjectID  `bson:"parent_id,omitempty"`
	GuestViews int64                `bson:"guest_views"`
	UserViews  int64                `bson:"user_views"`
	CreatedAt  time.Time            `bson:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at"`
}

func (mt *mongoTweet) toDomain() *domain.Tweet {
	t := &domain.Tweet{
		ID:         mt.ID.Hex(),
		UserID:     mt.UserID.Hex(),
		Type:       mt.Type,
		Audience:   mt.Audience,
		Content:    mt.Content,
		GuestViews: mt.GuestViews,
		UserViews:  mt.UserViews,
		CreatedAt:  mt.CreatedAt,
		UpdatedAt:  mt.UpdatedAt,
	}
	if mt.ParentID != nil {
		t.ParentID = mt.ParentID.Hex()
	}
	return t
}

// Create inserts a new tweet document.
func (r *TweetRepository) Create(ctx context.Context, tweet *domain.Tweet) (*domain.Tweet, error) {
	uid, err := primitive.ObjectIDFromHex(tweet.UserID)
	if err != nil {
		return nil, fmt.Errorf("create tweet: invalid user id %q", tweet.UserID)
	}

	doc := mongoTweet{
		UserID:    uid,
		Type:      tweet.Type,
		Audience:  tweet.Audience,
		Content:   tweet.Content,
		CreatedAt: tweet.CreatedAt,
		UpdatedAt: tweet.UpdatedAt,
	}
	if tweet.ParentID != "" {
		pid, err := primitive.ObjectIDFromHex(tweet.ParentID)
		if err != nil {
			return nil, domain.ErrTweetNotFound
		}
		doc.ParentID = &pid
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert tweet: %w", err)
	}

	created := *tweet
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// FindByID retrieves a tweet by hex object id.
func (r *TweetRepository) FindByID(ctx context.Context, id string) (*domain.Tweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTweetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTweet
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTweetNotFound
		}
		return nil, fmt.Errorf("find tweet: %w", err)
	}
	return mt.toDomain(), nil
}

// IncreaseViews atomically bumps the matching view counter and returns the
// updated document.
func (r *TweetRepository) IncreaseViews(ctx context.Context, id string, authenticated bool) (*domain.Tweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTweetNotFound
	}

	field := "guest_views"
	if authenticated {
		field = "user_views"
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$inc": bson.M{field: 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	var mt mongoTweet
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTweetNotFound
		}
		return nil, fmt.Errorf("increase views: %w", err)
	}
	return mt.toDomain(), nil
}

// EnsureIndexes creates the author lookup index on the tweets collection.
func (r *TweetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "parent_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
