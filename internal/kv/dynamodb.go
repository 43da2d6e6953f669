package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cockroachdb/errors"

	"github.com/octavehouse/storefront/internal/config"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/logger"
)

// DynamoDBClient implements Client on a single DynamoDB table with
// strongly consistent reads and condition expression based CAS writes.
type DynamoDBClient struct {
	db        *dynamodb.Client
	tableName string
	logger    *logger.Logger
}

type dynamoItem struct {
	PK        string    `dynamodbav:"pk"`
	SK        string    `dynamodbav:"sk"`
	Version   int64     `dynamodbav:"version"`
	Payload   []byte    `dynamodbav:"payload"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// NewDynamoDBClient creates the store client. Returns nil when DynamoDB is
// not in use so fx can wire an alternative client in local mode.
func NewDynamoDBClient(cfg *config.Configuration, log *logger.Logger) (*DynamoDBClient, error) {
	if !cfg.DynamoDB.InUse {
		return nil, nil
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(cfg.DynamoDB.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	db := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
		}
	})

	return &DynamoDBClient{
		db:        db,
		tableName: cfg.DynamoDB.TableName,
		logger:    log,
	}, nil
}

func (c *DynamoDBClient) Get(ctx context.Context, pk, sk string) (*Item, error) {
	out, err := c.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.tableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]ddbtypes.AttributeValue{
			"pk": &ddbtypes.AttributeValueMemberS{Value: pk},
			"sk": &ddbtypes.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("dynamodb get item failed").
			Mark(ierr.ErrDatabase)
	}
	if out.Item == nil {
		return nil, ierr.NewError("item not found").
			WithReportableDetails(map[string]any{"pk": pk, "sk": sk}).
			Mark(ierr.ErrNotFound)
	}

	var di dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &di); err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to unmarshal dynamodb item").
			Mark(ierr.ErrDatabase)
	}
	return di.toItem(), nil
}

func (c *DynamoDBClient) List(ctx context.Context, pk string) ([]*Item, error) {
	var items []*Item
	var startKey map[string]ddbtypes.AttributeValue

	for {
		out, err := c.db.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(c.tableName),
			ConsistentRead:         aws.Bool(true),
			KeyConditionExpression: aws.String("pk = :pk"),
			ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
				":pk": &ddbtypes.AttributeValueMemberS{Value: pk},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, ierr.WithError(err).
				WithMessage("dynamodb query failed").
				Mark(ierr.ErrDatabase)
		}

		for _, raw := range out.Items {
			var di dynamoItem
			if err := attributevalue.UnmarshalMap(raw, &di); err != nil {
				return nil, ierr.WithError(err).
					WithMessage("failed to unmarshal dynamodb item").
					Mark(ierr.ErrDatabase)
			}
			items = append(items, di.toItem())
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return items, nil
}

func (c *DynamoDBClient) Put(ctx context.Context, item *Item) error {
	expected := item.Version

	di := dynamoItem{
		PK:        item.PK,
		SK:        item.SK,
		Version:   expected + 1,
		Payload:   item.Payload,
		UpdatedAt: time.Now().UTC(),
	}
	av, err := attributevalue.MarshalMap(di)
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to marshal dynamodb item").
			Mark(ierr.ErrDatabase)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      av,
	}
	if expected == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(pk)")
	} else {
		input.ConditionExpression = aws.String("version = :expected")
		input.ExpressionAttributeValues = map[string]ddbtypes.AttributeValue{
			":expected": &ddbtypes.AttributeValueMemberN{Value: fmt.Sprintf("%d", expected)},
		}
	}

	if _, err := c.db.PutItem(ctx, input); err != nil {
		var condErr *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ierr.WithError(err).
				WithMessage("conditional write lost the race").
				WithReportableDetails(map[string]any{"pk": item.PK, "sk": item.SK}).
				Mark(ierr.ErrVersionConflict)
		}
		return ierr.WithError(err).
			WithMessage("dynamodb put item failed").
			Mark(ierr.ErrDatabase)
	}

	item.Version = expected + 1
	item.UpdatedAt = di.UpdatedAt
	return nil
}

func (c *DynamoDBClient) Delete(ctx context.Context, pk, sk string) error {
	_, err := c.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]ddbtypes.AttributeValue{
			"pk": &ddbtypes.AttributeValueMemberS{Value: pk},
			"sk": &ddbtypes.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return ierr.WithError(err).
			WithMessage("dynamodb delete item failed").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (di dynamoItem) toItem() *Item {
	return &Item{
		PK:        di.PK,
		SK:        di.SK,
		Version:   di.Version,
		Payload:   di.Payload,
		UpdatedAt: di.UpdatedAt,
	}
}
