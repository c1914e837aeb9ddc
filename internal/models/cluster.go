package models

// StudentFeatures is one row of the feature matrix sent to the clustering
// service. Status score encodes submission timeliness: 0 ontime, 1 late,
// 2 missing.
type StudentFeatures struct {
	StudentID            int64   `db:"student_id" json:"student_id"`
	AttendancePercentage float64 `db:"attendance_percentage" json:"attendance_percentage"`
	AverageScore         float64 `db:"average_score" json:"average_score"`
	SubmissionStatus     float64 `db:"average_submission_status_score" json:"average_submission_status_score"`
	SubmissionRate       float64 `db:"submission_rate" json:"submission_rate"`
}

// ClusterAssignment is one element of the clustering service response.
type ClusterAssignment struct {
	StudentID       int64   `json:"student_id"`
	Cluster         int     `json:"cluster"`
	ClusterLabel    string  `json:"cluster_label"`
	SilhouetteScore float64 `json:"silhouette_score"`
}
