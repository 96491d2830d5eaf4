package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDB caps a transaction at 100 actions.
const maxTransactItems = 100

type DynamoBlobStore struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamoBlobStore(ctx context.Context, devMode bool, dynamodbEndpoint string, tableName string) (*DynamoBlobStore, error) {
	client, err := newDynamoDBClient(ctx, devMode, dynamodbEndpoint)
	if err != nil {
		return nil, err
	}

	tables, err := getTables(client, ctx)
	if err != nil {
		return nil, err
	}

	foundTable := false
	for _, table := range tables {
		if table == tableName {
			foundTable = true
			break
		}
	}
	if !foundTable {
		return nil, fmt.Errorf("given table name '%s' not found in dynamodb", tableName)
	}

	return &DynamoBlobStore{client: client, tableName: tableName}, nil
}

func (dynamoStore *DynamoBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	db, err := getItem[dynamoBlob](dynamoStore, ctx, blobPK(key), blobSK, true)
	if err != nil {
		return nil, err
	}
	return db.Value, nil
}

func (dynamoStore *DynamoBlobStore) Put(ctx context.Context, key string, value []byte) error {
	avMap, err := attributevalue.MarshalMap(blobToDynamo(key, value, time.Now()))
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	_, err = dynamoStore.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(dynamoStore.tableName),
		Item:      avMap,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

func (dynamoStore *DynamoBlobStore) Delete(ctx context.Context, key string) error {
	return deleteItem(dynamoStore, ctx, blobPK(key), blobSK)
}

// PutMany writes all blobs in one TransactWriteItems call.
func (dynamoStore *DynamoBlobStore) PutMany(ctx context.Context, blobs map[string][]byte) error {
	if len(blobs) == 0 {
		return nil
	}
	if len(blobs) > maxTransactItems {
		return fmt.Errorf("put many: %d items exceeds transaction limit of %d", len(blobs), maxTransactItems)
	}

	now := time.Now()
	items := make([]types.TransactWriteItem, 0, len(blobs))
	for key, value := range blobs {
		avMap, err := attributevalue.MarshalMap(blobToDynamo(key, value, now))
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(dynamoStore.tableName),
				Item:      avMap,
			},
		})
	}

	_, err := dynamoStore.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		return fmt.Errorf("TransactWriteItems failed: %w", err)
	}
	return nil
}

func (dynamoStore *DynamoBlobStore) Close() error {
	return nil
}
