package dynamo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/snapnutrient/snapnutrient/domain"
)

// DynamoAPI is the slice of the DynamoDB client the store needs.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// RecordStore is the narrow persistence contract the repositories build on.
// The mutating set and list operations run server side in a single update,
// so concurrent writers never overwrite each other's items, and every
// mutation returns the complete post-update item.
type RecordStore interface {
	Put(ctx context.Context, item map[string]types.AttributeValue) error

	// PutIfAbsent stores the item only if no item with the same value for
	// keyAttr exists yet. Returns domain.ErrConflict otherwise.
	PutIfAbsent(ctx context.Context, item map[string]types.AttributeValue, keyAttr string) error

	// Get returns nil without error when the key has no item.
	Get(ctx context.Context, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error)

	Delete(ctx context.Context, key map[string]types.AttributeValue) error

	// QueryIndexDesc reads one page of the table's secondary index in
	// descending sort-key order. The returned lastKey resumes the next
	// page; nil means the index partition is exhausted.
	QueryIndexDesc(ctx context.Context, keyAttr, keyValue string, limit int32, startKey map[string]types.AttributeValue) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error)

	// QueryRange reads every item of one partition whose sort key falls in
	// [skFrom, skTo], in descending order.
	QueryRange(ctx context.Context, pkAttr, pkValue, skAttr, skFrom, skTo string) ([]map[string]types.AttributeValue, error)

	// AddToSetAndIncr adds member to the item's string set and bumps the
	// counter by one in the same update. Both attributes are created on
	// first use. Returns the updated item.
	AddToSetAndIncr(ctx context.Context, key map[string]types.AttributeValue, setAttr, member, counterAttr string) (map[string]types.AttributeValue, error)

	// RemoveFromSetAndDecr is the inverse of AddToSetAndIncr.
	RemoveFromSetAndDecr(ctx context.Context, key map[string]types.AttributeValue, setAttr, member, counterAttr string) (map[string]types.AttributeValue, error)

	// AppendToList appends element to the item's list attribute, creating
	// the list on first use. Returns the updated item.
	AppendToList(ctx context.Context, key map[string]types.AttributeValue, listAttr string, element types.AttributeValue) (map[string]types.AttributeValue, error)
}

// Store implements RecordStore against one DynamoDB table.
type Store struct {
	api   DynamoAPI
	table string
	index string
}

var _ RecordStore = (*Store)(nil)

// NewStore creates a record store over the given table. index may be empty
// when the table carries no secondary index.
func NewStore(api DynamoAPI, table, index string) *Store {
	return &Store{api: api, table: table, index: index}
}

func (s *Store) Put(ctx context.Context, item map[string]types.AttributeValue) error {
	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return err
}

func (s *Store) PutIfAbsent(ctx context.Context, item map[string]types.AttributeValue, keyAttr string) error {
	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.table),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": keyAttr},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return domain.ErrConflict
	}
	return err
}

func (s *Store) Get(ctx context.Context, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       key,
	})
	if err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (s *Store) Delete(ctx context.Context, key map[string]types.AttributeValue) error {
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       key,
	})
	return err
}

func (s *Store) QueryIndexDesc(ctx context.Context, keyAttr, keyValue string, limit int32, startKey map[string]types.AttributeValue) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	out, err := s.api.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		IndexName:                 aws.String(s.index),
		KeyConditionExpression:    aws.String("#p = :p"),
		ExpressionAttributeNames:  map[string]string{"#p": keyAttr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":p": &types.AttributeValueMemberS{Value: keyValue}},
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(limit),
		ExclusiveStartKey:         startKey,
	})
	if err != nil {
		return nil, nil, err
	}
	return out.Items, out.LastEvaluatedKey, nil
}

func (s *Store) QueryRange(ctx context.Context, pkAttr, pkValue, skAttr, skFrom, skTo string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var lastKey map[string]types.AttributeValue

	for {
		out, err := s.api.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			KeyConditionExpression: aws.String("#p = :p AND #s BETWEEN :from AND :to"),
			ExpressionAttributeNames: map[string]string{
				"#p": pkAttr,
				"#s": skAttr,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":p":    &types.AttributeValueMemberS{Value: pkValue},
				":from": &types.AttributeValueMemberS{Value: skFrom},
				":to":   &types.AttributeValueMemberS{Value: skTo},
			},
			ScanIndexForward:  aws.Bool(false),
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)

		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	return items, nil
}

func (s *Store) AddToSetAndIncr(ctx context.Context, key map[string]types.AttributeValue, setAttr, member, counterAttr string) (map[string]types.AttributeValue, error) {
	return s.update(ctx, key,
		"SET #c = if_not_exists(#c, :zero) + :one ADD #s :member",
		map[string]string{"#c": counterAttr, "#s": setAttr},
		map[string]types.AttributeValue{
			":zero":   &types.AttributeValueMemberN{Value: "0"},
			":one":    &types.AttributeValueMemberN{Value: "1"},
			":member": &types.AttributeValueMemberSS{Value: []string{member}},
		})
}

func (s *Store) RemoveFromSetAndDecr(ctx context.Context, key map[string]types.AttributeValue, setAttr, member, counterAttr string) (map[string]types.AttributeValue, error) {
	return s.update(ctx, key,
		"SET #c = if_not_exists(#c, :zero) - :one DELETE #s :member",
		map[string]string{"#c": counterAttr, "#s": setAttr},
		map[string]types.AttributeValue{
			":zero":   &types.AttributeValueMemberN{Value: "0"},
			":one":    &types.AttributeValueMemberN{Value: "1"},
			":member": &types.AttributeValueMemberSS{Value: []string{member}},
		})
}

func (s *Store) AppendToList(ctx context.Context, key map[string]types.AttributeValue, listAttr string, element types.AttributeValue) (map[string]types.AttributeValue, error) {
	return s.update(ctx, key,
		"SET #l = list_append(if_not_exists(#l, :empty), :element)",
		map[string]string{"#l": listAttr},
		map[string]types.AttributeValue{
			":empty":   &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":element": &types.AttributeValueMemberL{Value: []types.AttributeValue{element}},
		})
}

func (s *Store) update(ctx context.Context, key map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	out, err := s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       key,
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, err
	}
	return out.Attributes, nil
}

// keyToStrings flattens a key whose attributes are all strings, the form
// resume cursors are serialized in.
func keyToStrings(key map[string]types.AttributeValue) map[string]string {
	if key == nil {
		return nil
	}
	flat := make(map[string]string, len(key))
	for name, av := range key {
		if s, ok := av.(*types.AttributeValueMemberS); ok {
			flat[name] = s.Value
		}
	}
	return flat
}

func stringsToKey(flat map[string]string) map[string]types.AttributeValue {
	if flat == nil {
		return nil
	}
	key := make(map[string]types.AttributeValue, len(flat))
	for name, value := range flat {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}
	return key
}
