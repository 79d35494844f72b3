package services

import (
	"context"
	"errors"
	"testing"

	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/repositories/memory"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentService_CreateGeneratesPINAndAudits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)

	student, err := env.students.Create(ctx, admin, &dto.CreateStudentRequest{
		StudentID: " S002 ",
		FullName:  "Jane Doe",
		Email:     strPtr(" Jane@Example.com "),
		Class:     "JSS 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "S002", student.StudentID)
	assert.True(t, student.IsActive)
	assert.True(t, auth.IsValidPIN(student.PIN))
	require.NotNil(t, student.Email)
	assert.Equal(t, "jane@example.com", *student.Email)
	require.NotNil(t, student.CreatedBy)
	assert.Equal(t, admin.ID, *student.CreatedBy)

	logs := env.auditEntries(t)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionAddStudent, logs[0].Action)
	assert.Equal(t, "Added new student Jane Doe", logs[0].Description)
	assert.Equal(t, "S002", logs[0].Metadata["student_id"])

	_, err = env.students.Create(ctx, admin, &dto.CreateStudentRequest{StudentID: "S002", FullName: "Dup", Class: "JSS 1"})
	assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)
	assert.Len(t, env.auditEntries(t), 1)
}

func TestStudentService_CreateRollsBackWhenAuditFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)
	env.store.FailOn(memory.OpAppendActivity, errors.New("disk full"))

	_, err := env.students.Create(ctx, admin, &dto.CreateStudentRequest{StudentID: "S002", FullName: "Jane Doe", Class: "JSS 2"})
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

	n, err := env.repos.StudentRepository.Count(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStudentService_UpdateAndRegeneratePIN(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)
	jane := env.addStudent(t, "S002", "Jane Doe", "4821", nil, true)

	updated, err := env.students.Update(ctx, admin, jane.ID, &dto.UpdateStudentRequest{
		StudentID: "S002",
		FullName:  "Jane A. Doe",
		PIN:       "0042",
		Class:     "JSS 3",
		IsActive:  false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane A. Doe", updated.FullName)
	assert.Equal(t, "0042", updated.PIN)
	assert.False(t, updated.IsActive)

	pin, err := env.students.RegeneratePIN(ctx, admin, jane.ID)
	require.NoError(t, err)
	stored, err := env.students.Get(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, pin, stored.PIN)

	logs := env.auditEntries(t)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionResetPIN, logs[0].Action)
	assert.Equal(t, models.ActorAdmin, logs[0].ActorType)
	assert.Equal(t, models.ActionUpdateStudent, logs[1].Action)
}

func TestStudentService_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)

	_, err := env.students.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	err = env.students.Delete(ctx, admin, "8b6f1c2e-4b1a-4c55-9d59-2f5a6f0c9e11")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.Empty(t, env.auditEntries(t))
}

func TestStudentService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)
	jane := env.addStudent(t, "S002", "Jane Doe", "4821", nil, true)
	_, err := env.results.Create(ctx, admin, &dto.ResultRequest{
		StudentID: jane.ID,
		Term:      models.TermFirst,
		Session:   "2024/2025",
		Subjects:  []dto.SubjectScoreRequest{{Name: "Mathematics", Score: 72}},
	})
	require.NoError(t, err)

	require.NoError(t, env.students.Delete(ctx, admin, jane.ID))

	n, err := env.repos.ResultRepository.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	logs := env.auditEntries(t)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionDeleteStudent, logs[0].Action)
	assert.Equal(t, "Deleted student Jane Doe", logs[0].Description)
}

func TestStudentService_ListPaginates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, id := range []string{"S001", "S002", "S003"} {
		env.addStudent(t, id, "Student "+id, "1234", nil, true)
	}

	page, err := env.students.List(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Students, 1)
	assert.Equal(t, int64(3), page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	page, err = env.students.List(ctx, "s002", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Students, 1)
	assert.Equal(t, "S002", page.Students[0].StudentID)
}
