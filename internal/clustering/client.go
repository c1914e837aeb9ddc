package clustering

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
)

// Client talks to the external clustering service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type clusterRequest struct {
	Students []models.StudentFeatures `json:"students"`
}

type clusterResponse struct {
	Assignments []models.ClusterAssignment `json:"assignments"`
}

// Assign sends student feature vectors to the service and returns one
// assignment per student. The response must carry exactly as many
// assignments as students sent.
func (c *Client) Assign(ctx context.Context, students []models.StudentFeatures) ([]models.ClusterAssignment, error) {
	if len(students) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no students to cluster")
	}

	body, err := json.Marshal(clusterRequest{Students: students})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to encode cluster request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/cluster", bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to build cluster request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, "CLUSTERING_UNAVAILABLE", http.StatusBadGateway, "clustering service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("clustering service returned an error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", payload))
		return nil, appErrors.New("CLUSTERING_FAILED", http.StatusBadGateway,
			fmt.Sprintf("clustering service responded with status %d", resp.StatusCode))
	}

	var out clusterResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, appErrors.Wrap(err, "CLUSTERING_FAILED", http.StatusBadGateway, "failed to decode cluster response")
	}

	if len(out.Assignments) != len(students) {
		return nil, appErrors.New("CLUSTERING_FAILED", http.StatusBadGateway,
			fmt.Sprintf("clustering service returned %d assignments for %d students", len(out.Assignments), len(students)))
	}

	return out.Assignments, nil
}
