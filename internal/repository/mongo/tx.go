package mongo

import (
	"context"

	"fitquest/expedition-app/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// transactionManager implements repository.TransactionManager on top of
// MongoDB sessions. Repository methods called with the session context join
// the transaction automatically; any error from fn aborts the whole thing.
type transactionManager struct {
	client *mongo.Client
}

// NewTransactionManager creates a TransactionManager backed by the given
// client. Requires a replica-set or sharded deployment (standalone servers
// do not support multi-document transactions).
func NewTransactionManager(client *mongo.Client) repository.TransactionManager {
	return &transactionManager{client: client}
}

func (m *transactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
