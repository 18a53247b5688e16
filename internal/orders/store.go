package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/seramoda/storefront/internal/awsx"
)

// ErrStatusMismatch indicates a conditional status transition failed because
// the order was not in the expected state.
var ErrStatusMismatch = errors.New("status mismatch/conditional failed")

// ErrNotFound indicates the order id resolves to no stored order.
var ErrNotFound = errors.New("order not found")

// ErrIdempotencyConflict indicates the creation transaction was canceled
// because the idempotency key already exists.
var ErrIdempotencyConflict = errors.New("idempotency key already exists")

// ErrAlreadyPaid indicates MarkPaid found the order outside the unpaid state.
// The unpaid -> paid transition is forward-only, so this is terminal.
var ErrAlreadyPaid = errors.New("order payment status is not unpaid")

// Store encapsulates operations on the orders table.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// CreateWithIdempotencyTransaction atomically creates:
//   - idempotency record in idempotencyTable (with ConditionExpression attribute_not_exists(idempotency_key))
//   - order record in orders table
//
// It marshals both items and issues a TransactWriteItems call.
// idempotencyItem must be a serializable struct with attribute idempotency_key present.
// order is the Order struct to persist; order.OrderID must be set by caller.
func (s *Store) CreateWithIdempotencyTransaction(ctx context.Context, idempotencyTable string, idempotencyItem interface{}, order Order, ttlWindow time.Duration) error {
	idempMap, err := attributevalue.MarshalMap(idempotencyItem)
	if err != nil {
		return fmt.Errorf("marshal idempotency item: %w", err)
	}
	// ensure idempotency TTL if needed: caller can include expires_at field; if not present, add it
	if _, ok := idempMap["expires_at"]; !ok && ttlWindow > 0 {
		expires := time.Now().Add(ttlWindow).Unix()
		idempMap["expires_at"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expires)}
	}

	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	orderMap, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order item: %w", err)
	}

	transactItems := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           &idempotencyTable,
				Item:                idempMap,
				ConditionExpression: awsString("attribute_not_exists(idempotency_key)"),
			},
		},
		{
			Put: &types.Put{
				TableName: &s.tableName,
				Item:      orderMap,
			},
		},
	}

	input := &dyn.TransactWriteItemsInput{
		TransactItems: transactItems,
	}

	_, err = s.client.TransactWriteItems(ctx, input)
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "TransactionCanceledException" {
			return ErrIdempotencyConflict
		}
		return fmt.Errorf("transact write: %w", err)
	}
	return nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	key := map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// MarkPaid transitions payment_status from unpaid to paid, records the
// provider payment id and advances the lifecycle status to paid. The
// conditional expression enforces the forward-only invariant: a second call
// (duplicate callback) returns ErrAlreadyPaid instead of overwriting.
func (s *Store) MarkPaid(ctx context.Context, orderID, paymentID string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression: awsString("SET payment_status = :paid, #s = :status, payment_id = :pid, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":paid":   &types.AttributeValueMemberS{Value: PaymentPaid},
			":status": &types.AttributeValueMemberS{Value: StatusPaid},
			":pid":    &types.AttributeValueMemberS{Value: paymentID},
			":ua":     &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":unpaid": &types.AttributeValueMemberS{Value: PaymentUnpaid},
		},
		ConditionExpression: awsString("payment_status = :unpaid"),
		// return the old item on conditional failure so a missing order can
		// be told apart from a duplicate callback
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}

	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			if len(cc.Item) == 0 {
				return ErrNotFound
			}
			if ps, ok := cc.Item["payment_status"].(*types.AttributeValueMemberS); ok && ps.Value == PaymentPaid {
				return ErrAlreadyPaid
			}
			return fmt.Errorf("mark paid conditional failed for order %s (payment_status not unpaid or paid): %w", orderID, err)
		}
		return fmt.Errorf("update item (mark paid): %w", err)
	}
	return nil
}

// SaveFulfillment persists the accumulated completion results (invoice,
// tracking, label) in one update and advances the status to preparing. The
// condition requires the order to be paid, which also makes re-driven
// fulfillment runs safe.
func (s *Store) SaveFulfillment(ctx context.Context, orderID string, f Fulfillment) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression: awsString("SET #s = :preparing, payment_id = :pid, invoice_id = :inv, invoice_url = :invu, tracking_number = :trk, tracking_url = :trku, label_url = :lbl, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":preparing": &types.AttributeValueMemberS{Value: StatusPreparing},
			":pid":       &types.AttributeValueMemberS{Value: f.PaymentID},
			":inv":       &types.AttributeValueMemberS{Value: f.InvoiceID},
			":invu":      &types.AttributeValueMemberS{Value: f.InvoiceURL},
			":trk":       &types.AttributeValueMemberS{Value: f.TrackingNumber},
			":trku":      &types.AttributeValueMemberS{Value: f.TrackingURL},
			":lbl":       &types.AttributeValueMemberS{Value: f.LabelURL},
			":ua":        &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":paid":      &types.AttributeValueMemberS{Value: PaymentPaid},
		},
		ConditionExpression: awsString("payment_status = :paid"),
	}

	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrStatusMismatch
		}
		return fmt.Errorf("update item (save fulfillment): %w", err)
	}
	return nil
}

// UpdateStatus conditionally updates the order status from expected -> newStatus.
// Returns nil on success, ErrStatusMismatch if the condition failed.
func (s *Store) UpdateStatus(ctx context.Context, orderID, expectedStatus, newStatus string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: newStatus},
			":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":expected": &types.AttributeValueMemberS{Value: expectedStatus},
		},
		ConditionExpression: awsString("#s = :expected"),
	}

	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrStatusMismatch
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
