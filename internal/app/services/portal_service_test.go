package services

import (
	"context"
	"testing"

	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortalService_FiltersAndCard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@school.edu", "pw", true)
	jane := env.addStudent(t, "S002", "Jane Doe", "4821", nil, true)
	john := env.addStudent(t, "S003", "John Roe", "1234", nil, true)

	create := func(st *models.Student, term models.Term, session string) *models.Result {
		r, err := env.results.Create(ctx, admin, &dto.ResultRequest{
			StudentID: st.ID, Term: term, Session: session,
			Subjects: []dto.SubjectScoreRequest{{Name: "Math", Score: 65}},
		})
		require.NoError(t, err)
		return r
	}
	create(jane, models.TermFirst, "2023/2024")
	janeSecond := create(jane, models.TermSecond, "2024/2025")
	johns := create(john, models.TermFirst, "2024/2025")

	view, err := env.portal.Results(ctx, jane, "", "")
	require.NoError(t, err)
	require.Len(t, view.Results, 2)
	assert.Equal(t, janeSecond.ID, view.Results[0].ID)
	assert.Equal(t, []string{"2024/2025", "2023/2024"}, view.Sessions)

	view, err = env.portal.Results(ctx, jane, models.TermFirst, "")
	require.NoError(t, err)
	require.Len(t, view.Results, 1)
	assert.Equal(t, "2023/2024", view.Results[0].Session)

	view, err = env.portal.Results(ctx, jane, "", "2024/2025")
	require.NoError(t, err)
	require.Len(t, view.Results, 1)

	card, err := env.portal.Card(ctx, jane, janeSecond.ID)
	require.NoError(t, err)
	assert.Equal(t, janeSecond.ID, card.Result.ID)
	assert.Equal(t, jane.ID, card.Student.ID)
	assert.Equal(t, models.DefaultPrimaryColor, card.Settings.PrimaryColor)
	assert.Equal(t, models.GradeC, card.Result.Subjects[0].Grade)

	_, err = env.portal.Card(ctx, jane, johns.ID)
	assert.ErrorIs(t, err, apperrors.ErrResultNotFound)

	_, err = env.portal.Card(ctx, jane, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrResultNotFound)
}
