package notice

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupNoticeMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func noticeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "gym_id", "author_id", "title", "body", "pinned", "created_at", "updated_at"})
}

func TestCreateNotice(t *testing.T) {
	repo, mock, close := setupNoticeMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notices (gym_id, author_id, title, body, pinned)")).
		WithArgs(1, 5, "Holiday hours", "Closed on the 17th.", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

	notice := &Notice{GymID: 1, AuthorID: 5, Title: "Holiday hours", Body: "Closed on the 17th.", Pinned: true}
	err := repo.Create(context.Background(), notice)
	require.NoError(t, err)
	require.Equal(t, 1, notice.ID)
	require.Equal(t, now, notice.CreatedAt)
}

func TestGetNotice_CrossTenantHidden(t *testing.T) {
	repo, mock, close := setupNoticeMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM notices WHERE id = $1 AND gym_id = $2")).
		WithArgs(1, 2).
		WillReturnRows(noticeRows())

	_, err := repo.GetByID(context.Background(), 2, 1)
	require.ErrorIs(t, err, ErrNoticeNotFound)
}

func TestListNotices_PinnedFirst(t *testing.T) {
	repo, mock, close := setupNoticeMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY pinned DESC, created_at DESC")).
		WithArgs(1).
		WillReturnRows(noticeRows().
			AddRow(2, 1, 5, "Pinned", "stays on top", true, now.Add(-time.Hour), now).
			AddRow(3, 1, 5, "Fresh", "newest unpinned", false, now, now))

	notices, err := repo.ListByGym(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, notices, 2)
	require.True(t, notices[0].Pinned)
}

func TestUpdateNotice_PartialFields(t *testing.T) {
	repo, mock, close := setupNoticeMock(t)
	defer close()

	now := time.Now()
	pinned := false

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE notices")).
		WithArgs(nil, nil, pinned, 2, 1).
		WillReturnRows(noticeRows().AddRow(2, 1, 5, "Kept title", "kept body", false, now, now))

	notice, err := repo.Update(context.Background(), 1, 2, UpdateNoticeRequest{Pinned: &pinned})
	require.NoError(t, err)
	require.False(t, notice.Pinned)
	require.Equal(t, "Kept title", notice.Title)
}

func TestDeleteNotice_NotFound(t *testing.T) {
	repo, mock, close := setupNoticeMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notices WHERE id = $1 AND gym_id = $2")).
		WithArgs(99, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrNoticeNotFound)
}
