package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamotypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/invobill/invobill/internal/config"
	"github.com/invobill/invobill/internal/domain/user"
	"github.com/invobill/invobill/internal/dynamodb"
	ierr "github.com/invobill/invobill/internal/errors"
	"github.com/invobill/invobill/internal/logger"
	"github.com/invobill/invobill/internal/types"
)

const emailIndex = "email-index"

type userRepository struct {
	client     *dynamodb.Client
	usersTable string
	logger     *logger.Logger
}

func NewUserRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) user.Repository {
	return &userRepository{
		client:     client,
		usersTable: cfg.DynamoDB.UsersTable,
		logger:     logger,
	}
}

type userDocument struct {
	ID           string    `dynamodbav:"id"`
	Name         string    `dynamodbav:"name"`
	Email        string    `dynamodbav:"email"`
	PasswordHash string    `dynamodbav:"password_hash"`
	BusinessName string    `dynamodbav:"business_name"`
	Address      string    `dynamodbav:"address"`
	Phone        string    `dynamodbav:"phone"`
	CreatedAt    time.Time `dynamodbav:"created_at"`
	UpdatedAt    time.Time `dynamodbav:"updated_at"`
}

func toUserDocument(u *user.User) *userDocument {
	return &userDocument{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		BusinessName: u.BusinessName,
		Address:      u.Address,
		Phone:        u.Phone,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromUserDocument(doc *userDocument) *user.User {
	return &user.User{
		ID:           doc.ID,
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		BusinessName: doc.BusinessName,
		Address:      doc.Address,
		Phone:        doc.Phone,
		BaseModel: types.BaseModel{
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		},
	}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	item, err := attributevalue.MarshalMap(toUserDocument(u))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to store user").
			Mark(ierr.ErrDatabase)
	}

	_, err = r.client.DB().PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:           aws.String(r.usersTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var conditionFailed *dynamotypes.ConditionalCheckFailedException
		if ierr.As(err, &conditionFailed) {
			return ierr.NewError("user already exists").
				WithHint("User already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to store user").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*user.User, error) {
	out, err := r.client.DB().GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.usersTable),
		Key: map[string]dynamotypes.AttributeValue{
			"id": &dynamotypes.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load user").
			Mark(ierr.ErrDatabase)
	}

	if out.Item == nil {
		return nil, user.ErrUserNotFound
	}

	var doc userDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read stored user").
			Mark(ierr.ErrDatabase)
	}

	return fromUserDocument(&doc), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	out, err := r.client.DB().Query(ctx, &awsdynamodb.QueryInput{
		TableName:              aws.String(r.usersTable),
		IndexName:              aws.String(emailIndex),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]dynamotypes.AttributeValue{
			":email": &dynamotypes.AttributeValueMemberS{Value: email},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load user").
			Mark(ierr.ErrDatabase)
	}

	if len(out.Items) == 0 {
		return nil, user.ErrUserNotFound
	}

	var doc userDocument
	if err := attributevalue.UnmarshalMap(out.Items[0], &doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read stored user").
			Mark(ierr.ErrDatabase)
	}

	return fromUserDocument(&doc), nil
}
