package grading

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/resultportal/internal/app/models"
)

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score float64
		want  models.Grade
	}{
		{100, models.GradeAPlus},
		{90, models.GradeAPlus},
		{89.99, models.GradeA},
		{80, models.GradeA},
		{79.5, models.GradeB},
		{70, models.GradeB},
		{69.99, models.GradeC},
		{60, models.GradeC},
		{59, models.GradeD},
		{50, models.GradeD},
		{49.99, models.GradeF},
		{0, models.GradeF},
		{-5, models.GradeF},
		{150, models.GradeAPlus},
		{math.NaN(), models.GradeF},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFor(tt.score), "score %v", tt.score)
	}
}

func TestRemarkFor(t *testing.T) {
	tests := []struct {
		score float64
		want  models.Remark
	}{
		{95, models.RemarkExcellent},
		{80, models.RemarkExcellent},
		{79.99, models.RemarkVeryGood},
		{70, models.RemarkVeryGood},
		{60, models.RemarkGood},
		{50, models.RemarkFair},
		{49, models.RemarkPoor},
		{-1, models.RemarkPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RemarkFor(tt.score), "score %v", tt.score)
	}
}

func TestGradeAndRemarkAreMonotonic(t *testing.T) {
	rank := map[models.Grade]int{
		models.GradeF: 0, models.GradeD: 1, models.GradeC: 2,
		models.GradeB: 3, models.GradeA: 4, models.GradeAPlus: 5,
	}
	remarkRank := map[models.Remark]int{
		models.RemarkPoor: 0, models.RemarkFair: 1, models.RemarkGood: 2,
		models.RemarkVeryGood: 3, models.RemarkExcellent: 4,
	}
	for s := -10.0; s < 110; s += 0.25 {
		assert.LessOrEqual(t, rank[GradeFor(s)], rank[GradeFor(s+0.25)])
		assert.LessOrEqual(t, remarkRank[RemarkFor(s)], remarkRank[RemarkFor(s+0.25)])
	}
}

func TestRecompute(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Aggregate{}, Recompute(nil))
		assert.Equal(t, Aggregate{}, Recompute([]models.SubjectScore{}))
	})

	t.Run("sum and rounded average", func(t *testing.T) {
		agg := Recompute([]models.SubjectScore{{Score: 70}, {Score: 80}, {Score: 85}})
		assert.Equal(t, 235.0, agg.Total)
		assert.Equal(t, 78.33, agg.Average)
	})

	t.Run("non-numeric scores count as zero", func(t *testing.T) {
		agg := Recompute([]models.SubjectScore{{Score: 60}, {Score: math.NaN()}, {Score: math.Inf(1)}, {Score: 90}})
		assert.Equal(t, 150.0, agg.Total)
		assert.Equal(t, 37.5, agg.Average)
	})

	t.Run("average never exceeds two decimals", func(t *testing.T) {
		agg := Recompute([]models.SubjectScore{{Score: 10}, {Score: 10}, {Score: 11}})
		assert.Equal(t, 10.33, agg.Average)
		assert.Equal(t, agg.Average, Round2(agg.Average))
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 81.5, Round2(81.5))
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
}

func TestApply(t *testing.T) {
	result := &models.Result{
		Subjects: []models.SubjectScore{
			{Name: "Mathematics", Score: 72, Grade: "Z", Remark: "stale"},
			{Name: "English", Score: 91},
		},
		TotalScore: 999,
		Average:    999,
	}

	Apply(result)

	require.Len(t, result.Subjects, 2)
	assert.Equal(t, models.GradeB, result.Subjects[0].Grade)
	assert.Equal(t, models.RemarkVeryGood, result.Subjects[0].Remark)
	assert.Equal(t, models.GradeAPlus, result.Subjects[1].Grade)
	assert.Equal(t, models.RemarkExcellent, result.Subjects[1].Remark)
	assert.Equal(t, 163.0, result.TotalScore)
	assert.Equal(t, 81.5, result.Average)

	once := *result
	once.Subjects = append([]models.SubjectScore(nil), result.Subjects...)
	Apply(result)
	assert.Equal(t, once, *result)
}

func TestGradeDoesNotMutateInput(t *testing.T) {
	in := []models.SubjectScore{{Name: "Physics", Score: 55}}
	out := Grade(in)
	assert.Empty(t, in[0].Grade)
	assert.Equal(t, models.GradeD, out[0].Grade)
	assert.Equal(t, models.RemarkFair, out[0].Remark)
}
