package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"financial-advisor/api/logger"
	"financial-advisor/api/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// Store persists one profile document per user. Documents are keyed by
// the user id, so a second profile for the same user is impossible by
// construction.
type Store struct {
	collection *mongo.Collection
}

func NewStore(client *mongo.Client) *Store {
	return &Store{
		collection: client.Database(MongoDatabase).Collection(ProfileCollection),
	}
}

// GetLatest returns the user's profile with TotalMonthlyExpenses
// recomputed. Returns models.ErrProfileNotFound when none exists.
func (s *Store) GetLatest(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}

	profile.ComputeTotals()
	return &profile, nil
}

// Upsert validates the payload, normalizes its expenses and replaces the
// user's whole profile document, creating it when absent. The persisted
// document is returned with its derived total recomputed.
//
// A concurrent first-write race surfaces as models.ErrDuplicateProfile;
// retrying the same call succeeds as a plain replace.
func (s *Store) Upsert(ctx context.Context, userID string, in *models.ProfileInput) (*models.Profile, error) {
	if err := models.ValidateInput(in); err != nil {
		return nil, err
	}

	doc := in.ToProfile(userID, time.Now().UTC())

	opts := options.FindOneAndReplace().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.Profile
	err := s.collection.FindOneAndReplace(ctx, bson.M{"_id": userID}, doc, opts).Decode(&saved)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.Get().Warn("concurrent profile creation race",
				zap.String("user_id", userID))
			return nil, models.ErrDuplicateProfile
		}
		return nil, fmt.Errorf("error upserting profile: %w", err)
	}

	saved.ComputeTotals()
	return &saved, nil
}

// Delete removes the user's profile. Returns models.ErrProfileNotFound
// when there was nothing to delete.
func (s *Store) Delete(ctx context.Context, userID string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("error deleting profile: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrProfileNotFound
	}
	return nil
}

// GetByID fetches a profile by its document id. Profile ids are user
// ids, so this is the cross-user read used by admins; permission checks
// belong to the caller.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return s.GetLatest(ctx, id)
}

// List returns one page of profiles ordered by most recent update,
// with derived totals attached, plus the total document count.
func (s *Store) List(ctx context.Context, page, limit int) ([]models.Profile, int64, error) {
	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("error counting profiles: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "last_updated", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, 0, fmt.Errorf("error decoding profiles: %w", err)
	}
	for i := range profiles {
		profiles[i].ComputeTotals()
	}

	return profiles, total, nil
}
