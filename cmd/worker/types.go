package main

// WorkerMessage is the payload sent from the callback handler -> SQS -> worker.
type WorkerMessage struct {
	OrderID       string `json:"order_id"`
	Token         string `json:"token"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
