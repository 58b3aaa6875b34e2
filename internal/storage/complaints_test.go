package storage_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var complaintColumns = []string{
	"id", "source", "status", "line_user_id", "line_display_name", "reporter_name", "received_by",
	"phone", "description", "location", "image_before", "image_after", "message", "notified_at",
	"created_at", "updated_at",
}

func setupMockDB(t *testing.T) (*storage.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return storage.NewStorageService(gdb, nil), mock
}

func TestGetComplaintByID(t *testing.T) {
	s, mock := setupMockDB(t)
	id := uuid.NewString()
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(complaintColumns).AddRow(
		id, "LINE", "PENDING", "U123", "Somchai", "", "",
		"", "ไฟถนนดับ", "", "u1,u2", "", "", nil,
		created, created,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "complaints" WHERE id = $1`)).
		WillReturnRows(rows)

	c, err := s.GetComplaintByID(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, models.SourceLine, c.Source)
	assert.Equal(t, models.ImageList{"u1", "u2"}, c.ImageBefore)
	assert.Empty(t, c.ImageAfter)
	assert.Nil(t, c.NotifiedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetComplaintByID_NotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	id := uuid.NewString()

	mock.ExpectQuery(`SELECT \* FROM "complaints"`).WillReturnRows(sqlmock.NewRows(complaintColumns))

	c, err := s.GetComplaintByID(context.Background(), id)

	assert.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetComplaintByID_MalformedIDSkipsQuery(t *testing.T) {
	s, mock := setupMockDB(t)

	c, err := s.GetComplaintByID(context.Background(), "not-a-uuid")

	assert.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComplaint_DefaultsToPending(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectExec(`INSERT INTO "complaints"`).WillReturnResult(sqlmock.NewResult(1, 1))

	c := &models.Complaint{Source: models.SourceCounter, Description: "ถังขยะล้น", ReporterName: "Somchai", ReceivedBy: "Anan"}
	err := s.CreateComplaint(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, c.Status)
	assert.NotEmpty(t, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteComplaint(t *testing.T) {
	s, mock := setupMockDB(t)
	id := uuid.NewString()

	mock.ExpectExec(`DELETE FROM "complaints"`).WillReturnResult(sqlmock.NewResult(0, 1))
	deleted, err := s.DeleteComplaint(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectExec(`DELETE FROM "complaints"`).WillReturnResult(sqlmock.NewResult(0, 0))
	deleted, err = s.DeleteComplaint(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNotifiedAt(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectExec(`UPDATE "complaints" SET "notified_at"=`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateNotifiedAt(context.Background(), uuid.NewString(), time.Now())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListComplaints_Paginated(t *testing.T) {
	s, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "complaints" WHERE .*status = .*source = `).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
	mock.ExpectQuery(`SELECT \* FROM "complaints" WHERE .* ORDER BY created_at DESC LIMIT .* OFFSET `).
		WillReturnRows(sqlmock.NewRows(complaintColumns).
			AddRow(uuid.NewString(), "PHONE", "PENDING", "", "", "Somchai", "Anan", "", "d", "", "", "", "", nil, now, now))

	f := storage.ComplaintFilter{Status: models.StatusPending, Source: models.SourcePhone, Page: 2, Limit: 20}
	items, total, err := s.ListComplaints(context.Background(), f)

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(45), total)
	assert.Equal(t, int64(3), f.TotalPages(total))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListComplaints_Unpaginated(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "complaints" WHERE .*ILIKE.* ORDER BY created_at DESC$`).
		WillReturnRows(sqlmock.NewRows(complaintColumns))

	items, total, err := s.ListComplaints(context.Background(), storage.ComplaintFilter{Search: "ไฟ"})

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintFilter_Normalize(t *testing.T) {
	assert.Equal(t, storage.ComplaintFilter{}, storage.ComplaintFilter{}.Normalize())

	f := storage.ComplaintFilter{Page: -1, Limit: 1000}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.Limit)

	f = storage.ComplaintFilter{Page: 3}.Normalize()
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, int64(0), f.TotalPages(0))
	assert.Equal(t, int64(1), storage.ComplaintFilter{}.TotalPages(7))
}
