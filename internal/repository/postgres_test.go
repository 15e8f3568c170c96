package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *Store) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	return mock, NewPostgresStore(db)
}

func TestPostgresDeviceRepo_Delete(t *testing.T) {
	mock, store := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "devices" WHERE user_id = $1 AND id = $2`)).
		WithArgs(sqlmock.AnyArg(), "dev-001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Devices.Delete(context.Background(), 1, "dev-001")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeviceRepo_DeleteMissing(t *testing.T) {
	mock, store := setupMockDB(t)

	mock.ExpectExec(`DELETE FROM "devices"`).
		WithArgs(sqlmock.AnyArg(), "dev-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Devices.Delete(context.Background(), 1, "dev-404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeviceRepo_GetMissing(t *testing.T) {
	mock, store := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "devices" WHERE user_id = \$1 AND id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}))

	_, err := store.Devices.Get(context.Background(), 1, "dev-404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeviceRepo_CountByStatus(t *testing.T) {
	mock, store := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("Active", 2).
		AddRow("Offline", 1)
	mock.ExpectQuery(`SELECT status, count\(\*\) AS count FROM "devices" WHERE user_id = \$1 GROUP BY`).
		WillReturnRows(rows)

	counts, err := store.Devices.CountByStatus(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.DeviceStatusActive])
	assert.Equal(t, int64(1), counts[model.DeviceStatusOffline])
	assert.Equal(t, int64(0), counts[model.DeviceStatusStopped])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTripRepo_GetDecodesPath(t *testing.T) {
	mock, store := setupMockDB(t)
	start := time.Date(2023, 10, 27, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "device_id", "start_time", "end_time", "start_address", "end_address", "distance", "path"}).
		AddRow("trip-001", 1, "dev-001", start, start.Add(90*time.Minute), "123 Warehouse St", "456 Distribution Ave", 25.5,
			[]byte(`[{"lat":34.0522,"lng":-118.2437},{"lat":34.06,"lng":-118.25}]`))
	mock.ExpectQuery(`SELECT \* FROM "trips" WHERE user_id = \$1 AND id = \$2`).
		WillReturnRows(rows)

	trip, err := store.Trips.Get(context.Background(), 1, "trip-001")
	require.NoError(t, err)
	require.Len(t, trip.Path, 2)
	assert.Equal(t, 34.0522, trip.Path[0].Lat)
	assert.Equal(t, 90*time.Minute, trip.Duration())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNotificationRepo_ListRecent(t *testing.T) {
	mock, store := setupMockDB(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "user_id", "device_id", "type", "title", "description", "icon", "icon_color", "timestamp"}).
		AddRow(2, 1, "dev-001", "geofence-exit", "Geofence Exit", "Cargo Truck 1 exited Main Warehouse", "MapPin", "text-yellow-500", now).
		AddRow(1, 1, "dev-001", "geofence-enter", "Geofence Entry", "Cargo Truck 1 entered Main Warehouse", "MapPin", "text-green-500", now.Add(-time.Minute))
	mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE user_id = \$1 ORDER BY timestamp DESC LIMIT`).
		WillReturnRows(rows)

	list, err := store.Notifications.ListRecent(context.Background(), 1, model.NotificationListLimit)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, model.NotificationGeofenceExit, list[0].Type)
	assert.Equal(t, model.IconMapPin, list[0].Icon)
	assert.NoError(t, mock.ExpectationsWereMet())
}
