// Package automl is a thin REST client for the dataset and model-training
// endpoints of the AutoML Translation service: create a dataset, find one by
// display name, import a TSV corpus from Cloud Storage, and start training.
package automl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultBaseURL     = "https://automl.googleapis.com"
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
)

type Client struct {
	client   *http.Client
	baseURL  string
	project  string
	location string
}

// NewClient creates an authenticated client for one project/location.
// credentials may name a service-account JSON file; when empty, application
// default credentials are used.
func NewClient(ctx context.Context, credentials, project, location string) (*Client, error) {
	if project == "" {
		return nil, fmt.Errorf("project ID required")
	}
	if location == "" {
		location = "us-central1"
	}

	var ts oauth2.TokenSource
	if credentials != "" {
		data, err := os.ReadFile(credentials)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("parse credentials: %w", err)
		}
		ts = creds.TokenSource
	} else {
		var err error
		ts, err = google.DefaultTokenSource(ctx, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("obtain default credentials: %w", err)
		}
	}

	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = 60 * time.Second

	return &Client{
		client:   httpClient,
		baseURL:  defaultBaseURL,
		project:  project,
		location: location,
	}, nil
}

func (c *Client) parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", c.project, c.location)
}

// CreateDataset creates a translation dataset for the language pair and
// returns its descriptor.
func (c *Client) CreateDataset(ctx context.Context, displayName, sourceLang, targetLang string) (*Dataset, error) {
	body := map[string]interface{}{
		"displayName": displayName,
		"translationDatasetMetadata": TranslationDatasetMetadata{
			SourceLanguageCode: sourceLang,
			TargetLanguageCode: targetLang,
		},
	}

	var ds Dataset
	url := fmt.Sprintf("%s/v1/%s/datasets", c.baseURL, c.parent())
	if err := c.do(ctx, http.MethodPost, url, body, &ds); err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}
	return &ds, nil
}

// ListDatasets returns all datasets of the project location.
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	var resp struct {
		Datasets []Dataset `json:"datasets"`
	}
	url := fmt.Sprintf("%s/v1/%s/datasets", c.baseURL, c.parent())
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return resp.Datasets, nil
}

// FindDataset returns the dataset with the given display name, or an error
// when none exists.
func (c *Client) FindDataset(ctx context.Context, displayName string) (*Dataset, error) {
	datasets, err := c.ListDatasets(ctx)
	if err != nil {
		return nil, err
	}
	for _, ds := range datasets {
		if ds.DisplayName == displayName {
			return &ds, nil
		}
	}
	return nil, fmt.Errorf("dataset not found: %s", displayName)
}

// ImportData imports the TSV corpus at gcsURI into the dataset named by its
// full resource name. The returned operation completes asynchronously.
func (c *Client) ImportData(ctx context.Context, datasetName, gcsURI string) (*Operation, error) {
	body := map[string]interface{}{
		"inputConfig": map[string]interface{}{
			"gcsSource": map[string]interface{}{
				"inputUris": []string{gcsURI},
			},
		},
	}

	var op Operation
	url := fmt.Sprintf("%s/v1/%s:importData", c.baseURL, datasetName)
	if err := c.do(ctx, http.MethodPost, url, body, &op); err != nil {
		return nil, fmt.Errorf("import data: %w", err)
	}
	return &op, nil
}

// TrainModel starts training a custom model against the dataset. datasetID
// is the short ID, not the full resource name.
func (c *Client) TrainModel(ctx context.Context, datasetID, modelName string) (*Operation, error) {
	body := map[string]interface{}{
		"displayName":              modelName,
		"datasetId":                datasetID,
		"translationModelMetadata": map[string]interface{}{},
	}

	var op Operation
	url := fmt.Sprintf("%s/v1/%s/models", c.baseURL, c.parent())
	if err := c.do(ctx, http.MethodPost, url, body, &op); err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}
	return &op, nil
}

// do issues one JSON request and decodes the response into out.
func (c *Client) do(ctx context.Context, method, url string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
