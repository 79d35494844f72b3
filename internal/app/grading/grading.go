// Package grading derives letter grades, remarks and aggregates from raw subject scores.
// Every function is pure and total over float64 input.
package grading

import (
	"math"

	"github.com/scholaris/resultportal/internal/app/models"
)

type threshold[T any] struct {
	min   float64
	value T
}

// Ordered highest first; the first threshold the score reaches wins.
var gradeScale = []threshold[models.Grade]{
	{90, models.GradeAPlus},
	{80, models.GradeA},
	{70, models.GradeB},
	{60, models.GradeC},
	{50, models.GradeD},
}

var remarkScale = []threshold[models.Remark]{
	{80, models.RemarkExcellent},
	{70, models.RemarkVeryGood},
	{60, models.RemarkGood},
	{50, models.RemarkFair},
}

// Aggregate is the total and the two-decimal average of a set of subject scores
type Aggregate struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
}

func lookup[T any](scale []threshold[T], score float64, fallback T) T {
	for _, t := range scale {
		if score >= t.min {
			return t.value
		}
	}
	return fallback
}

// GradeFor maps a score to its letter grade. NaN falls through to F.
func GradeFor(score float64) models.Grade {
	return lookup(gradeScale, score, models.GradeF)
}

// RemarkFor maps a score to its remark. NaN falls through to Poor.
func RemarkFor(score float64) models.Remark {
	return lookup(remarkScale, score, models.RemarkPoor)
}

// scoreValue treats non-numeric scores as zero
func scoreValue(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return score
}

// Round2 rounds half away from zero to two decimal places
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Recompute sums the subject scores and averages them over the subject count.
// An empty list yields a zero aggregate.
func Recompute(subjects []models.SubjectScore) Aggregate {
	if len(subjects) == 0 {
		return Aggregate{}
	}
	var total float64
	for _, s := range subjects {
		total += scoreValue(s.Score)
	}
	return Aggregate{
		Total:   total,
		Average: Round2(total / float64(len(subjects))),
	}
}

// Grade returns a copy of subjects with grade and remark derived from each score
func Grade(subjects []models.SubjectScore) []models.SubjectScore {
	graded := make([]models.SubjectScore, len(subjects))
	for i, s := range subjects {
		graded[i] = models.SubjectScore{
			Name:   s.Name,
			Score:  s.Score,
			Grade:  GradeFor(s.Score),
			Remark: RemarkFor(s.Score),
		}
	}
	return graded
}

// Apply overwrites every derived field of r. Applying twice yields the same result.
func Apply(r *models.Result) {
	if r == nil {
		return
	}
	r.Subjects = Grade(r.Subjects)
	agg := Recompute(r.Subjects)
	r.TotalScore = agg.Total
	r.Average = agg.Average
}
