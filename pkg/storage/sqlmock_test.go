package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tackboard/tack/pkg/board"
)

func TestWithTx_BeginFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

	store := NewSQLStore(db)
	err = store.WithTx(context.Background(), func(Store) error {
		t.Fatal("fn must not run when the transaction cannot begin")
		return nil
	})
	assert.ErrorContains(t, err, "failed to begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnWriteFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO invite_deliveries").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	store := NewSQLStore(db)
	err = store.WithTx(context.Background(), func(tx Store) error {
		return tx.RecordDelivery(context.Background(), &DeliveryRecord{
			ResourceKind: board.KindWorkspace,
			ResourceID:   uuid.New(),
			Email:        "x@example.com",
			Status:       DeliveryFailed,
		})
	})
	assert.ErrorContains(t, err, "failed to record delivery")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeDeliveries_ExecFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM invite_deliveries").WillReturnError(errors.New("timeout"))

	store := NewSQLStore(db)
	_, err = store.PurgeDeliveries(context.Background(), time.Now())
	assert.ErrorContains(t, err, "failed to purge deliveries")
	assert.NoError(t, mock.ExpectationsWereMet())
}
