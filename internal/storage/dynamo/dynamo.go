package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	appcfg "github.com/boshmah/HealthCommandCenter/internal/config"
	"github.com/boshmah/HealthCommandCenter/internal/storage"
)

// DynamoStorage implements EntryStorage over a DynamoDB single-table design.
// PK/SK are the table's composite primary key; all item data lives alongside.
type DynamoStorage struct {
	client *dynamodb.Client
	table  string
}

// New builds a DynamoDB-backed storage. A custom endpoint plus static
// credentials targets DynamoDB Local; otherwise the default AWS credential
// chain and regional endpoint apply.
func New(ctx context.Context, cfg appcfg.DynamoConfig) (*DynamoStorage, error) {
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("dynamo: table name is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               endpoint,
				SigningRegion:     region,
				HostnameImmutable: true,
			}, nil
		})
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load dynamo config: %w", err)
	}

	return &DynamoStorage{
		client: dynamodb.NewFromConfig(awsCfg),
		table:  cfg.TableName,
	}, nil
}

// foodItem mirrors storage.FoodRecord with the attribute names used in the
// table.
type foodItem struct {
	PK         string  `dynamodbav:"PK"`
	SK         string  `dynamodbav:"SK"`
	EntityType string  `dynamodbav:"entityType"`
	FoodID     string  `dynamodbav:"foodId"`
	UserID     string  `dynamodbav:"userId"`
	Name       string  `dynamodbav:"name"`
	Protein    float64 `dynamodbav:"protein"`
	Carbs      float64 `dynamodbav:"carbs"`
	Fats       float64 `dynamodbav:"fats"`
	Calories   int     `dynamodbav:"calories"`
	Date       string  `dynamodbav:"date"`
	Timestamp  int64   `dynamodbav:"timestamp"`
	CreatedAt  string  `dynamodbav:"createdAt"`
	UpdatedAt  string  `dynamodbav:"updatedAt"`
}

func (d *DynamoStorage) PutIfAbsent(ctx context.Context, rec *storage.FoodRecord) error {
	item, err := attributevalue.MarshalMap(toItem(rec))
	if err != nil {
		return fmt.Errorf("marshal food entry: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return mapWriteError(err, storage.ErrKeyExists, "put food entry")
	}
	return nil
}

func (d *DynamoStorage) QueryPrefix(ctx context.Context, pk, skPrefix string, ascending bool) ([]storage.FoodRecord, error) {
	var recs []storage.FoodRecord
	var startKey map[string]types.AttributeValue

	for {
		out, err := d.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(d.table),
			KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk":     &types.AttributeValueMemberS{Value: pk},
				":prefix": &types.AttributeValueMemberS{Value: skPrefix},
			},
			ScanIndexForward:  aws.Bool(ascending),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			if isThrottled(err) {
				return nil, storage.ErrThrottled
			}
			return nil, fmt.Errorf("query food entries: %w", err)
		}

		var items []foodItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal food entries: %w", err)
		}
		for i := range items {
			recs = append(recs, fromItem(&items[i]))
		}

		if out.LastEvaluatedKey == nil {
			return recs, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (d *DynamoStorage) UpdateFields(ctx context.Context, pk, sk string, upd storage.FieldUpdate) error {
	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.table),
		Key:       itemKey(pk, sk),
		// "name" is a reserved word in DynamoDB expressions.
		UpdateExpression: aws.String("SET #name = :name, protein = :protein, carbs = :carbs, fats = :fats, calories = :calories, updatedAt = :updatedAt"),
		ExpressionAttributeNames: map[string]string{
			"#name": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":      &types.AttributeValueMemberS{Value: upd.Name},
			":protein":   &types.AttributeValueMemberN{Value: formatFloat(upd.Protein)},
			":carbs":     &types.AttributeValueMemberN{Value: formatFloat(upd.Carbs)},
			":fats":      &types.AttributeValueMemberN{Value: formatFloat(upd.Fats)},
			":calories":  &types.AttributeValueMemberN{Value: strconv.Itoa(upd.Calories)},
			":updatedAt": &types.AttributeValueMemberS{Value: upd.UpdatedAt},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		return mapWriteError(err, storage.ErrNotFound, "update food entry")
	}
	return nil
}

func (d *DynamoStorage) Delete(ctx context.Context, pk, sk string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.table),
		Key:       itemKey(pk, sk),
	})
	if err != nil {
		if isThrottled(err) {
			return storage.ErrThrottled
		}
		return fmt.Errorf("delete food entry: %w", err)
	}
	return nil
}

func (d *DynamoStorage) Close() error {
	return nil
}

func itemKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// mapWriteError translates a conditional write failure into onCondition and
// throttling into storage.ErrThrottled; everything else is wrapped.
func mapWriteError(err error, onCondition error, op string) error {
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return onCondition
	}
	if isThrottled(err) {
		return storage.ErrThrottled
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isThrottled(err error) bool {
	var throughputErr *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughputErr) {
		return true
	}
	var limitErr *types.RequestLimitExceeded
	if errors.As(err, &limitErr) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ThrottlingException" {
		return true
	}
	return false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toItem(rec *storage.FoodRecord) *foodItem {
	return &foodItem{
		PK:         rec.PK,
		SK:         rec.SK,
		EntityType: rec.EntityType,
		FoodID:     rec.FoodID,
		UserID:     rec.UserID,
		Name:       rec.Name,
		Protein:    rec.Protein,
		Carbs:      rec.Carbs,
		Fats:       rec.Fats,
		Calories:   rec.Calories,
		Date:       rec.Date,
		Timestamp:  rec.Timestamp,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

func fromItem(item *foodItem) storage.FoodRecord {
	return storage.FoodRecord{
		PK:         item.PK,
		SK:         item.SK,
		EntityType: item.EntityType,
		FoodID:     item.FoodID,
		UserID:     item.UserID,
		Name:       item.Name,
		Protein:    item.Protein,
		Carbs:      item.Carbs,
		Fats:       item.Fats,
		Calories:   item.Calories,
		Date:       item.Date,
		Timestamp:  item.Timestamp,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
