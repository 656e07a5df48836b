package attestation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SignedArtifact is the collaborator's response to an issuance request.
type SignedArtifact struct {
	URLImage string `json:"url_image"`
}

// Signer issues one QR proof-of-signature artifact.
type Signer interface {
	IssueQR(ctx context.Context, izinID, stepKey, jadwalID string) (SignedArtifact, error)
}

// Client talks to the external signing collaborator over authenticated HTTP.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type issueRequest struct {
	JadwalID string `json:"id_jadwal"`
}

func (c *Client) IssueQR(ctx context.Context, izinID, stepKey, jadwalID string) (SignedArtifact, error) {
	body, err := json.Marshal(issueRequest{JadwalID: jadwalID})
	if err != nil {
		return SignedArtifact{}, err
	}
	url := fmt.Sprintf("%s/qr/%s/%s", c.BaseURL, izinID, stepKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return SignedArtifact{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return SignedArtifact{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SignedArtifact{}, fmt.Errorf("signing service returned %d", resp.StatusCode)
	}

	var art SignedArtifact
	if err := json.NewDecoder(resp.Body).Decode(&art); err != nil {
		return SignedArtifact{}, err
	}
	if art.URLImage == "" {
		return SignedArtifact{}, fmt.Errorf("signing service returned empty artifact")
	}
	return art, nil
}
