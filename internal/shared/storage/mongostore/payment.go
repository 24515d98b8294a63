package mongostore

import (
	"context"

	"parcel-api/internal/shared/model"
	"parcel-api/internal/shared/storage"
)

// ============================================================================
// PaymentStore
// ============================================================================

func (s *Store) CreatePayment(ctx context.Context, payment model.Payment) (*storage.InsertResult, error) {
	return insertDoc(ctx, s.col(ColPayments), payment)
}
