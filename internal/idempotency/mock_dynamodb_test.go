package idempotency

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// simpleMock is a very small in-memory mock for PutItem/GetItem/UpdateItem used in unit tests.
type simpleMock struct {
	mu    sync.Mutex
	table map[string]map[string]types.AttributeValue
}

func newSimpleMock() *simpleMock {
	return &simpleMock{
		table: map[string]map[string]types.AttributeValue{},
	}
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyAttr := params.Item["idempotency_key"]
	if keyAttr == nil {
		return nil, errors.New("missing key")
	}
	k := keyAttr.(*types.AttributeValueMemberS).Value
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(idempotency_key)" {
		if _, ok := m.table[k]; ok {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyAttr := params.Key["idempotency_key"]
	if keyAttr == nil {
		return nil, errors.New("missing key")
	}
	k := keyAttr.(*types.AttributeValueMemberS).Value
	item, ok := m.table[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *simpleMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyAttr := params.Key["idempotency_key"]
	if keyAttr == nil {
		return nil, errors.New("missing key")
	}
	k := keyAttr.(*types.AttributeValueMemberS).Value
	item, ok := m.table[k]
	if !ok {
		return nil, errors.New("item not found")
	}
	// naive update: copy the placeholders the store's SET expressions use
	if v, ok := params.ExpressionAttributeValues[":rb"]; ok {
		item["response_body"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":rs"]; ok {
		item["response_status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":n"]; ok {
		item["note"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":done"]; ok {
		item["status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":failed"]; ok {
		item["status"] = v
	}
	m.table[k] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *simpleMock) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range params.TransactItems {
		if p := it.Put; p != nil {
			if p.ConditionExpression != nil && *p.ConditionExpression == "attribute_not_exists(idempotency_key)" {
				kattr := p.Item["idempotency_key"]
				if kattr == nil {
					return nil, errors.New("missing key in transact put")
				}
				k := kattr.(*types.AttributeValueMemberS).Value
				if _, ok := m.table[k]; ok {
					return nil, &types.TransactionCanceledException{}
				}
			}
		}
	}
	for _, it := range params.TransactItems {
		if p := it.Put; p != nil {
			if kattr := p.Item["idempotency_key"]; kattr != nil {
				k := kattr.(*types.AttributeValueMemberS).Value
				m.table[k] = p.Item
			}
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}
