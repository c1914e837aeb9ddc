package clustering

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

func sampleFeatures() []models.StudentFeatures {
	return []models.StudentFeatures{
		{StudentID: 1, AttendancePercentage: 95, AverageScore: 88, SubmissionStatus: 0.2, SubmissionRate: 100},
		{StudentID: 2, AttendancePercentage: 60, AverageScore: 42, SubmissionStatus: 1.4, SubmissionRate: 55},
	}
}

func TestAssignReturnsOneAssignmentPerStudent(t *testing.T) {
	var captured clusterRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/cluster", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		out := clusterResponse{Assignments: []models.ClusterAssignment{
			{StudentID: 1, Cluster: 0, ClusterLabel: "Excellent Performance", SilhouetteScore: 0.71},
			{StudentID: 2, Cluster: 2, ClusterLabel: "At Risk", SilhouetteScore: 0.71},
		}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	assignments, err := client.Assign(context.Background(), sampleFeatures())
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Len(t, captured.Students, 2)
	assert.Equal(t, "At Risk", assignments[1].ClusterLabel)
}

func TestAssignRejectsMismatchedResponseLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out := clusterResponse{Assignments: []models.ClusterAssignment{
			{StudentID: 1, Cluster: 0, ClusterLabel: "Good Performance"},
		}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.Assign(context.Background(), sampleFeatures())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "CLUSTERING_FAILED", appErr.Code)
}

func TestAssignSurfacesServiceErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "kmeans blew up", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.Assign(context.Background(), sampleFeatures())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}

func TestDiagnoseFlagsDegenerateRuns(t *testing.T) {
	students := []models.StudentFeatures{
		{StudentID: 1, AttendancePercentage: 75, AverageScore: 50, SubmissionRate: 100},
		{StudentID: 2, AttendancePercentage: 76, AverageScore: 51, SubmissionRate: 100},
		{StudentID: 3, AttendancePercentage: 74, AverageScore: 49, SubmissionRate: 100},
	}
	assignments := []models.ClusterAssignment{
		{StudentID: 1, Cluster: 0, ClusterLabel: "Good Performance"},
		{StudentID: 2, Cluster: 0, ClusterLabel: "Good Performance"},
		{StudentID: 3, Cluster: 0, ClusterLabel: "Good Performance"},
	}

	report := Diagnose(students, assignments)
	assert.Equal(t, 3, report.StudentCount)
	assert.Equal(t, 3, report.Distribution["Good Performance"])
	// narrow attendance, score and rate ranges plus a single dominant cluster
	assert.GreaterOrEqual(t, len(report.Warnings), 4)
}

func TestDiagnoseQuietOnHealthySpread(t *testing.T) {
	students := []models.StudentFeatures{
		{StudentID: 1, AttendancePercentage: 98, AverageScore: 92, SubmissionRate: 100},
		{StudentID: 2, AttendancePercentage: 70, AverageScore: 55, SubmissionRate: 60},
		{StudentID: 3, AttendancePercentage: 40, AverageScore: 30, SubmissionRate: 20},
	}
	assignments := []models.ClusterAssignment{
		{StudentID: 1, Cluster: 0, ClusterLabel: "Excellent Performance"},
		{StudentID: 2, Cluster: 1, ClusterLabel: "Needs Improvement"},
		{StudentID: 3, Cluster: 2, ClusterLabel: "At Risk"},
	}

	report := Diagnose(students, assignments)
	assert.Empty(t, report.Warnings)
}
