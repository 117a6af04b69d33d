package auth

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicateID  = errors.New("identifier already registered")
)

type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, userID string) (*domain.User, error)
	FindByRollNumber(ctx context.Context, rollNumber string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string, role domain.Role) (*domain.User, error)
}

type mongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{collection: db.Collection("users")}
}

func (m *mongoUserRepository) Insert(ctx context.Context, user *domain.User) error {
	if _, err := m.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (m *mongoUserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	return m.findOne(ctx, bson.M{"user_id": userID})
}

func (m *mongoUserRepository) FindByRollNumber(ctx context.Context, rollNumber string) (*domain.User, error) {
	return m.findOne(ctx, bson.M{"roll_number": rollNumber, "role": domain.RoleStudent})
}

func (m *mongoUserRepository) FindByEmail(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	return m.findOne(ctx, bson.M{"email": email, "role": role})
}

func (m *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := m.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
