package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinic-appointment-api/internal/model"
)

// PrescriptionStore keeps prescriptions in MongoDB, separate from the
// relational scheduling data.
type PrescriptionStore struct {
	col *mongo.Collection
}

func NewPrescriptionStore(db *mongo.Database) *PrescriptionStore {
	return &PrescriptionStore{col: db.Collection("prescriptions")}
}

func (s *PrescriptionStore) Create(ctx context.Context, p *model.Prescription) error {
	p.CreatedAt = time.Now().UTC()
	res, err := s.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (s *PrescriptionStore) ByAppointment(ctx context.Context, appointmentID int64) ([]model.Prescription, error) {
	cur, err := s.col.Find(ctx,
		bson.M{"appointment_id": appointmentID},
		options.Find().SetSort(bson.M{"created_at": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.Prescription
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
