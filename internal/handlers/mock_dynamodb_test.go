package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/seramoda/storefront/internal/orders"
)

// mockDynamo backs both the orders and the idempotency table for handler
// tests, evaluating the condition expressions the stores actually use.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	// updateHook, when set, can fail an UpdateItem before it is applied
	updateHook func(table string, params *dyn.UpdateItemInput) error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (m *mockDynamo) ensureTable(tbl string) {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
}

func itemPK(item map[string]types.AttributeValue) (string, error) {
	if v, ok := item["order_id"]; ok {
		return v.(*types.AttributeValueMemberS).Value, nil
	}
	if v, ok := item["idempotency_key"]; ok {
		return v.(*types.AttributeValueMemberS).Value, nil
	}
	return "", errors.New("no primary key in item")
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	pk, err := itemPK(params.Item)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(idempotency_key)" {
		if _, exists := m.tables[table][pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.tables[table][pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	pk, err := itemPK(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.tables[table][pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)
	pk, err := itemPK(params.Key)
	if err != nil {
		return nil, err
	}
	if m.updateHook != nil {
		if err := m.updateHook(table, params); err != nil {
			return nil, err
		}
	}

	item, exists := m.tables[table][pk]
	if !exists {
		if params.ConditionExpression != nil {
			// DynamoDB fails the condition on a missing item, with no old
			// item to return
			return nil, &types.ConditionalCheckFailedException{}
		}
		// unconditional updates upsert
		item = map[string]types.AttributeValue{}
		for k, v := range params.Key {
			item[k] = v
		}
	}

	condFail := func() error {
		e := &types.ConditionalCheckFailedException{}
		if params.ReturnValuesOnConditionCheckFailure == types.ReturnValuesOnConditionCheckFailureAllOld {
			e.Item = item
		}
		return e
	}

	strAttr := func(name string) string {
		if v, ok := item[name].(*types.AttributeValueMemberS); ok {
			return v.Value
		}
		return ""
	}
	exprVal := func(name string) string {
		if v, ok := params.ExpressionAttributeValues[name].(*types.AttributeValueMemberS); ok {
			return v.Value
		}
		return ""
	}

	if params.ConditionExpression != nil {
		switch *params.ConditionExpression {
		case "#s = :expected":
			if strAttr("status") != exprVal(":expected") {
				return nil, condFail()
			}
		case "payment_status = :unpaid":
			if strAttr("payment_status") != exprVal(":unpaid") {
				return nil, condFail()
			}
		case "payment_status = :paid":
			if strAttr("payment_status") != exprVal(":paid") {
				return nil, condFail()
			}
		}
	}

	set := func(attr, placeholder string) {
		if v, ok := params.ExpressionAttributeValues[placeholder]; ok {
			item[attr] = v
		}
	}
	set("updated_at", ":ua")
	set("payment_id", ":pid")
	set("invoice_id", ":inv")
	set("invoice_url", ":invu")
	set("tracking_number", ":trk")
	set("tracking_url", ":trku")
	set("label_url", ":lbl")
	set("status", ":new")
	set("status", ":status")
	set("status", ":preparing")
	set("status", ":done")
	set("status", ":failed")
	set("response_body", ":rb")
	set("response_status", ":rs")
	set("note", ":n")
	if params.ConditionExpression != nil && *params.ConditionExpression == "payment_status = :unpaid" {
		item["payment_status"] = params.ExpressionAttributeValues[":paid"]
	}

	m.tables[table][pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range params.TransactItems {
		if p := it.Put; p != nil {
			if p.ConditionExpression != nil && *p.ConditionExpression == "attribute_not_exists(idempotency_key)" {
				table := *p.TableName
				m.ensureTable(table)
				kattr := p.Item["idempotency_key"]
				if kattr == nil {
					return nil, errors.New("missing idempotency_key in put")
				}
				pk := kattr.(*types.AttributeValueMemberS).Value
				if _, exists := m.tables[table][pk]; exists {
					return nil, &types.TransactionCanceledException{}
				}
			}
		}
	}
	for _, it := range params.TransactItems {
		if p := it.Put; p != nil {
			table := *p.TableName
			m.ensureTable(table)
			pk, err := itemPK(p.Item)
			if err != nil {
				return nil, err
			}
			m.tables[table][pk] = p.Item
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}

func seedOrder(m *mockDynamo, tbl string, o orders.Order) {
	m.ensureTable(tbl)
	item, _ := attributevalue.MarshalMap(o)
	m.tables[tbl][o.OrderID] = item
}
