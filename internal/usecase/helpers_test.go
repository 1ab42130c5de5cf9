package usecase

import (
	"errors"
	"fmt"
	"testing"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/testutil"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyError(t *testing.T) {
	slot := &pgconn.PgError{Code: "23505", ConstraintName: entity.SlotIndexName}
	businessID := &pgconn.PgError{Code: "23505", ConstraintName: "idx_appointments_unique_id"}

	assert.True(t, isDuplicateKeyError(slot, entity.SlotIndexName))
	assert.True(t, isDuplicateKeyError(fmt.Errorf("insert: %w", slot), entity.SlotIndexName))
	assert.False(t, isDuplicateKeyError(businessID, entity.SlotIndexName))
	assert.False(t, isDuplicateKeyError(&pgconn.PgError{Code: "23503"}, entity.SlotIndexName))
	assert.True(t, isDuplicateKeyError(gorm.ErrDuplicatedKey, "anything"))
	assert.False(t, isDuplicateKeyError(errors.New("boom"), entity.SlotIndexName))
	assert.False(t, isDuplicateKeyError(nil, entity.SlotIndexName))

	assert.True(t, isForeignKeyError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isForeignKeyError(gorm.ErrForeignKeyViolated))
}

// collidingRepository fails the first n creates with a business id collision.
type collidingRepository struct {
	repository.AppointmentRepository
	failures int
	seen     []string
}

func (r *collidingRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	appointment.EnsureBusinessID(appointment.CreatedAt)
	r.seen = append(r.seen, appointment.BusinessID)
	if len(r.seen) <= r.failures {
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_appointments_unique_id"}
	}
	return nil
}

func TestInsertAppointment_RetriesBusinessIDCollision(t *testing.T) {
	db := testutil.NewTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	repo := &collidingRepository{failures: 2}
	require.NoError(t, insertAppointment(tx, repo, &entity.Appointment{}))
	assert.Len(t, repo.seen, 3)
	assert.NotEqual(t, repo.seen[0], repo.seen[1])
}

func TestInsertAppointment_GivesUp(t *testing.T) {
	db := testutil.NewTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	repo := &collidingRepository{failures: businessIDAttempts}
	err := insertAppointment(tx, repo, &entity.Appointment{})
	require.Error(t, err)
	assert.Len(t, repo.seen, businessIDAttempts)
	assert.False(t, isDuplicateKeyError(err, entity.SlotIndexName))
}
