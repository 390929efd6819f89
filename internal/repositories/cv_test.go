package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/astrelya/cv-to-dc/internal/models"
)

func newMockRepo(t *testing.T) (CVRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewCVRepository(gdb), mock
}

func strPtr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "cvs"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	cv := &models.CV{OwnerID: "user-1", Title: "Ada", Status: models.StatusProcessing}
	require.NoError(t, repo.Create(context.Background(), cv))

	assert.NotEqual(t, uuid.Nil, cv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDLoadsOrderedGroups(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.MatchExpectationsInOrder(false)

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "cvs" WHERE`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "status", "schema_type", "processing_notes", "extraction_data", "created_at"}).
			AddRow(id.String(), "user-1", "Ada", "COMPLETED", "custom", "{Done}", `{"name":"Ada"}`, now))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "cv_personal_infos"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cv_id", "first_name"}).
			AddRow(uuid.New().String(), id.String(), "Ada"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "cv_profiles"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cv_id"}))
	mock.ExpectQuery(`SELECT \* FROM "cv_experiences" WHERE .* ORDER BY sort_order ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cv_id", "title", "sort_order"}).
			AddRow(uuid.New().String(), id.String(), "Engineer", 0).
			AddRow(uuid.New().String(), id.String(), "Intern", 1))
	mock.ExpectQuery(`SELECT \* FROM "cv_educations" WHERE .* ORDER BY sort_order ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cv_id", "degree", "sort_order"}))
	mock.ExpectQuery(`SELECT \* FROM "cv_skills" WHERE .* ORDER BY sort_order ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cv_id", "category", "name", "sort_order"}).
			AddRow(uuid.New().String(), id.String(), "Cloud", "AWS", 0))
	mock.ExpectQuery(`SELECT \* FROM "cv_languages" WHERE .* ORDER BY sort_order ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "cv_id", "name", "sort_order"}))

	cv, err := repo.FindByID(context.Background(), id, "user-1")
	require.NoError(t, err)

	assert.Equal(t, id, cv.ID)
	assert.Equal(t, "custom", cv.SchemaType)
	assert.Equal(t, []string{"Done"}, []string(cv.ProcessingNotes))
	assert.JSONEq(t, `{"name":"Ada"}`, string(cv.ExtractionData))
	require.NotNil(t, cv.PersonalInfo)
	assert.Equal(t, "Ada", *cv.PersonalInfo.FirstName)
	assert.Nil(t, cv.Profile)
	require.Len(t, cv.Experiences, 2)
	assert.Equal(t, "Engineer", cv.Experiences[0].Title)
	require.Len(t, cv.Skills, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "cvs" WHERE`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New(), "someone-else")
	assert.ErrorIs(t, err, ErrCVNotFound)
}

func TestFindAllByOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "cvs" WHERE owner_id = \$1 ORDER BY created_at DESC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title"}).
			AddRow(uuid.New().String(), "user-1", "Newest").
			AddRow(uuid.New().String(), "user-1", "Oldest"))

	cvs, err := repo.FindAllByOwner(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, cvs, 2)
	assert.Equal(t, "Newest", cvs[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func completion() *CompletionData {
	return &CompletionData{
		SchemaType:      "custom",
		ExtractionData:  datatypes.JSON(`{"name":"Ada Lovelace"}`),
		ExtractedText:   "Analyst",
		Confidence:      95,
		ProcessingNotes: []string{"ok"},
		Records: &models.RecordSet{
			PersonalInfo: &models.PersonalInfo{FirstName: strPtr("Ada")},
			Experiences: []models.Experience{
				{Title: "Engineer", Order: 0},
				{Title: "Intern", Order: 1},
			},
			Skills: []models.Skill{{Category: "Cloud", Name: "AWS", Level: "Intermédiaire"}},
		},
	}
}

func expectClear(mock sqlmock.Sqlmock) {
	for _, table := range []string{"cv_personal_infos", "cv_profiles", "cv_experiences", "cv_educations", "cv_skills", "cv_languages"} {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "` + table + `" WHERE cv_id = $1`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
}

func TestCompleteWritesEverythingInOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "cvs" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectClear(mock)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "cv_personal_infos"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "cv_experiences"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "cv_skills"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	data := completion()
	require.NoError(t, repo.Complete(context.Background(), id, data))

	assert.Equal(t, id, data.Records.PersonalInfo.CVID)
	for _, e := range data.Records.Experiences {
		assert.Equal(t, id, e.CVID)
		assert.NotEqual(t, uuid.Nil, e.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "cvs" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectClear(mock)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "cv_personal_infos"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "cv_experiences"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Complete(context.Background(), uuid.New(), completion())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save experiences")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteUnknownCV(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "cvs" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Complete(context.Background(), uuid.New(), completion())
	assert.ErrorIs(t, err, ErrCVNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkFailed(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "cvs" SET`)).
		WithArgs(sqlmock.AnyArg(), models.StatusFailed, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.MarkFailed(context.Background(), id, "Processing failed: boom"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "cvs" WHERE id = $1 AND owner_id = $2`)).
		WithArgs(id, "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.Delete(context.Background(), id, "user-1"))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "cvs"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	assert.ErrorIs(t, repo.Delete(context.Background(), id, "user-2"), ErrCVNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
