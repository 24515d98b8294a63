package mongostore

import (
	"context"

	"parcel-api/internal/shared/model"
	"parcel-api/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// BookingStore
// ============================================================================

func (s *Store) CreateBooking(ctx context.Context, booking model.Booking) (*storage.InsertResult, error) {
	return insertDoc(ctx, s.col(ColBookings), booking)
}

func (s *Store) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return findOneDoc[model.Booking](ctx, s.col(ColBookings), bson.D{{Key: "_id", Value: oid}})
}

func (s *Store) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return findManyDocs[model.Booking](ctx, s.col(ColBookings), bson.D{})
}

func (s *Store) ListBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	return findManyDocs[model.Booking](ctx, s.col(ColBookings), bson.D{{Key: "email", Value: email}})
}

func (s *Store) DeleteBooking(ctx context.Context, id string) (*storage.DeleteResult, error) {
	return deleteByID(ctx, s.col(ColBookings), id)
}
