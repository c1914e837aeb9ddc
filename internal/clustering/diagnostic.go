package clustering

import (
	"fmt"

	"github.com/registra/records-api/internal/models"
)

// Report summarizes a clustering run for operator inspection.
type Report struct {
	StudentCount int
	Distribution map[string]int
	Warnings     []string
}

// Diagnose inspects feature spreads and cluster balance and flags the
// conditions that usually explain a degenerate clustering.
func Diagnose(students []models.StudentFeatures, assignments []models.ClusterAssignment) Report {
	report := Report{
		StudentCount: len(students),
		Distribution: make(map[string]int),
	}

	checkRange := func(name string, values []float64) {
		if len(values) == 0 {
			return
		}
		min, max := values[0], values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if max-min < 20 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s has a narrow range (%.1f to %.1f), clusters may not separate", name, min, max))
		}
	}

	attendance := make([]float64, len(students))
	scores := make([]float64, len(students))
	rates := make([]float64, len(students))
	for i, s := range students {
		attendance[i] = s.AttendancePercentage
		scores[i] = s.AverageScore
		rates[i] = s.SubmissionRate
	}
	checkRange("attendance_percentage", attendance)
	checkRange("average_score", scores)
	checkRange("submission_rate", rates)

	clusters := make(map[int]int)
	for _, a := range assignments {
		clusters[a.Cluster]++
		report.Distribution[a.ClusterLabel]++
	}

	if len(clusters) == 1 && len(assignments) > 1 {
		report.Warnings = append(report.Warnings, "all students fell into a single cluster")
	}
	for cluster, count := range clusters {
		if len(assignments) > 0 && float64(count)/float64(len(assignments)) > 0.8 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("cluster %d holds %d of %d students, distribution is heavily imbalanced", cluster, count, len(assignments)))
		}
	}

	return report
}
