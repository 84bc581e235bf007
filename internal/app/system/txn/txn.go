// Package txn wraps multi-document MongoDB transactions with a fallback for
// deployments that don't support them (standalone servers, some DocumentDB
// versions).
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a session transaction when the deployment
// supports it. If starting or committing fails with a "transactions not
// supported" error, fn is re-run once outside a transaction so the operation
// still completes; callers must make the non-transactional path safe on its
// own (unique indexes, idempotent updates).
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates the deployment cannot run
// multi-document transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		// 20: IllegalOperation (standalone), 51: transactions disabled,
		// 263: operation not allowed in transaction.
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "transaction") {
		if strings.Contains(s, "replica set") ||
			strings.Contains(s, "not supported") ||
			strings.Contains(s, "illegal operation") ||
			strings.Contains(s, "session") {
			return true
		}
	}
	if strings.Contains(s, "session") && strings.Contains(s, "not supported") {
		return true
	}
	return false
}
