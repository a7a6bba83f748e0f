package reconciler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sahayak/internal/beneficiary"
)

// UploadTransport pushes pending records to the welfare portal. Upload must
// honor ctx cancellation; the reconciler aborts the run when it expires.
type UploadTransport interface {
	Upload(ctx context.Context, records []beneficiary.Record) error
}

// SimulatedTransport stands in for the portal during field pilots. It holds
// the upload for a configurable latency, long enough to exercise the progress
// UI on the device.
type SimulatedTransport struct {
	Latency time.Duration
}

func (t SimulatedTransport) Upload(ctx context.Context, _ []beneficiary.Record) error {
	timer := time.NewTimer(t.Latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PortalTransport posts the batch to the real portal endpoint as JSON.
type PortalTransport struct {
	URL    string
	Client *http.Client
}

func NewPortalTransport(url string) *PortalTransport {
	return &PortalTransport{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *PortalTransport) Upload(ctx context.Context, records []beneficiary.Record) error {
	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal upload batch: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("upload batch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("portal rejected batch: status %d", resp.StatusCode)
	}
	return nil
}
