package services

import (
	"context"
	"errors"
	"testing"

	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/repositories/memory"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Admin enters a result, Jane logs in and sees it graded.
func TestResultScenario_StudentSeesGradedResult(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)
	jane := env.addStudent(t, "S002", "Jane Doe", "4821", nil, true)

	created, err := env.results.Create(ctx, admin, &dto.ResultRequest{
		StudentID: jane.ID,
		Term:      models.TermFirst,
		Session:   "2024/2025",
		Subjects: []dto.SubjectScoreRequest{
			{Name: "Math", Score: 72},
			{Name: "English", Score: 91},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 163.0, created.TotalScore)
	assert.Equal(t, 81.5, created.Average)

	student, err := env.auth.LoginStudent(ctx, "S002", "4821")
	require.NoError(t, err)

	view, err := env.portal.Results(ctx, student, "", "")
	require.NoError(t, err)
	require.Len(t, view.Results, 1)
	got := view.Results[0]
	require.Len(t, got.Subjects, 2)
	assert.Equal(t, models.GradeB, got.Subjects[0].Grade)
	assert.Equal(t, models.RemarkVeryGood, got.Subjects[0].Remark)
	assert.Equal(t, models.GradeAPlus, got.Subjects[1].Grade)
	assert.Equal(t, models.RemarkExcellent, got.Subjects[1].Remark)
	assert.Equal(t, 163.0, got.TotalScore)
	assert.Equal(t, 81.5, got.Average)
	assert.Equal(t, []string{"2024/2025"}, view.Sessions)

	logs := env.auditEntries(t)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionLogin, logs[0].Action)
	assert.Equal(t, models.ActionAddResult, logs[1].Action)
	assert.Equal(t, "Added result for First Term 2024/2025", logs[1].Description)
}

func TestResultService_UpdateRecomputes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)
	jane := env.addStudent(t, "S002", "Jane Doe", "4821", nil, true)

	req := &dto.ResultRequest{
		StudentID: jane.ID,
		Term:      models.TermSecond,
		Session:   "2024/2025",
		Subjects:  []dto.SubjectScoreRequest{{Name: "Math", Score: 40}},
	}
	created, err := env.results.Create(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, models.GradeF, created.Subjects[0].Grade)

	req.Subjects = []dto.SubjectScoreRequest{{Name: "Math", Score: 80}, {Name: "Art", Score: 60}, {Name: "PE", Score: 100}}
	updated, err := env.results.Update(ctx, admin, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 240.0, updated.TotalScore)
	assert.Equal(t, 80.0, updated.Average)
	assert.Equal(t, models.GradeA, updated.Subjects[0].Grade)

	stored, err := env.results.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, stored.Average)
	require.NotNil(t, stored.Student)
	assert.Equal(t, "S002", stored.Student.StudentID)

	other := env.addStudent(t, "S003", "John Roe", "1234", nil, true)
	req.StudentID = other.ID
	_, err = env.results.Update(ctx, admin, created.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestResultService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)

	_, err := env.results.Create(ctx, admin, &dto.ResultRequest{
		StudentID: "8b6f1c2e-4b1a-4c55-9d59-2f5a6f0c9e11",
		Term:      models.TermFirst,
		Session:   "2024/2025",
	})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	jane := env.addStudent(t, "S002", "Jane Doe", "4821", nil, true)
	_, err = env.results.Create(ctx, admin, &dto.ResultRequest{StudentID: jane.ID, Term: "Summer", Session: "2024/2025"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, env.auditEntries(t))
}

func TestResultService_AuditFailureLeavesNoResult(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)
	jane := env.addStudent(t, "S002", "Jane Doe", "4821", nil, true)
	env.store.FailOn(memory.OpAppendActivity, errors.New("disk full"))

	_, err := env.results.Create(ctx, admin, &dto.ResultRequest{
		StudentID: jane.ID,
		Term:      models.TermFirst,
		Session:   "2024/2025",
		Subjects:  []dto.SubjectScoreRequest{{Name: "Math", Score: 72}},
	})
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

	n, err := env.repos.ResultRepository.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResultService_DeleteAndPreview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)
	jane := env.addStudent(t, "S002", "Jane Doe", "4821", nil, true)
	created, err := env.results.Create(ctx, admin, &dto.ResultRequest{
		StudentID: jane.ID, Term: models.TermThird, Session: "2023/2024",
		Subjects: []dto.SubjectScoreRequest{{Name: "Math", Score: 55}},
	})
	require.NoError(t, err)

	require.NoError(t, env.results.Delete(ctx, admin, created.ID))
	_, err = env.results.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrResultNotFound)
	assert.ErrorIs(t, env.results.Delete(ctx, admin, created.ID), apperrors.ErrResultNotFound)

	preview := env.results.Preview(dto.ToSubjects([]dto.SubjectScoreRequest{{Name: "Math", Score: 59.5}}))
	assert.Equal(t, models.GradeD, preview.Subjects[0].Grade)
	assert.Equal(t, models.RemarkFair, preview.Subjects[0].Remark)
	assert.Equal(t, 59.5, preview.Average)

	empty := env.results.Preview(nil)
	assert.Zero(t, empty.TotalScore)
	assert.Zero(t, empty.Average)
}

func TestResultService_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)
	jane := env.addStudent(t, "S002", "Jane Doe", "4821", nil, true)
	john := env.addStudent(t, "S003", "John Roe", "1234", nil, true)
	for _, st := range []*models.Student{jane, john} {
		_, err := env.results.Create(ctx, admin, &dto.ResultRequest{
			StudentID: st.ID, Term: models.TermFirst, Session: "2024/2025",
			Subjects: []dto.SubjectScoreRequest{{Name: "Math", Score: 70}},
		})
		require.NoError(t, err)
	}

	list, err := env.results.List(ctx, ResultQuery{Search: "john"})
	require.NoError(t, err)
	require.Len(t, list.Results, 1)
	assert.Equal(t, john.ID, list.Results[0].StudentID)

	list, err = env.results.List(ctx, ResultQuery{StudentID: jane.ID})
	require.NoError(t, err)
	require.Len(t, list.Results, 1)

	_, err = env.results.List(ctx, ResultQuery{StudentID: "bogus"})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
