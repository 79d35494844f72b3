package services

import (
	"context"
	"testing"
	"time"

	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityService_ListFiltersAndLimits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)
	env.addStudent(t, "S002", "Jane Doe", "4821", nil, true)

	_, err := env.auth.LoginAdmin(ctx, "admin@school.edu", "pw")
	require.NoError(t, err)
	_, err = env.auth.LoginStudent(ctx, "S002", "4821")
	require.NoError(t, err)
	_, err = env.students.Create(ctx, admin, &dto.CreateStudentRequest{StudentID: "S003", FullName: "John Roe", Class: "JSS 1"})
	require.NoError(t, err)

	all, err := env.activity.List(ctx, dto.ActivityLogQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	require.Len(t, all.Logs, 3)
	assert.Equal(t, models.ActionAddStudent, all.Logs[0].Action)

	students, err := env.activity.List(ctx, dto.ActivityLogQuery{ActorType: models.ActorStudent})
	require.NoError(t, err)
	require.Len(t, students.Logs, 1)
	assert.Equal(t, "Student Jane Doe logged in", students.Logs[0].Description)

	searched, err := env.activity.List(ctx, dto.ActivityLogQuery{Search: "john"})
	require.NoError(t, err)
	require.Len(t, searched.Logs, 1)
	assert.Equal(t, models.ActionAddStudent, searched.Logs[0].Action)

	limited, err := env.activity.List(ctx, dto.ActivityLogQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited.Logs, 2)
	assert.Equal(t, int64(3), limited.Total)
}

func TestActivityService_Overview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	env.activity.now = func() time.Time { return now }

	admin := env.addAdmin(t, "admin@school.edu", "pw", true)
	jane := env.addStudent(t, "S002", "Jane Doe", "4821", nil, true)
	env.addStudent(t, "S003", "Old Boy", "1111", nil, false)

	env.store.SetClock(func() time.Time { return now.Add(-48 * time.Hour) })
	require.NoError(t, env.auditor.Record(ctx, admin, models.ActionLogin, "old", nil))
	env.store.SetClock(func() time.Time { return now.Add(-time.Hour) })
	_, err := env.results.Create(ctx, admin, &dto.ResultRequest{
		StudentID: jane.ID, Term: models.TermFirst, Session: "2024/2025",
		Subjects: []dto.SubjectScoreRequest{{Name: "Math", Score: 72}},
	})
	require.NoError(t, err)

	o, err := env.activity.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), o.TotalStudents)
	assert.Equal(t, int64(1), o.ActiveStudents)
	assert.Equal(t, int64(1), o.TotalResults)
	assert.Equal(t, int64(1), o.RecentActivity)
}
