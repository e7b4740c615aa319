package automl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(server *httptest.Server) *Client {
	return &Client{
		client:   server.Client(),
		baseURL:  server.URL,
		project:  "test-project",
		location: "us-central1",
	}
}

func TestClient_CreateDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		wantPath := "/v1/projects/test-project/locations/us-central1/datasets"
		if r.URL.Path != wantPath {
			t.Errorf("expected path %s, got %s", wantPath, r.URL.Path)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["displayName"] != "en_uk" {
			t.Errorf("expected displayName en_uk, got %v", body["displayName"])
		}

		json.NewEncoder(w).Encode(Dataset{
			Name:        "projects/test-project/locations/us-central1/datasets/TRL123",
			DisplayName: "en_uk",
		})
	}))
	defer server.Close()

	ds, err := testClient(server).CreateDataset(context.Background(), "en_uk", "en", "uk")
	if err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	if ds.DisplayName != "en_uk" {
		t.Errorf("expected display name en_uk, got %q", ds.DisplayName)
	}
}

func TestClient_CreateDataset_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("Forbidden"))
	}))
	defer server.Close()

	_, err := testClient(server).CreateDataset(context.Background(), "en_uk", "en", "uk")
	if err == nil {
		t.Error("expected error for non-OK status")
	}
}

func TestClient_FindDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"datasets": []Dataset{
				{Name: "projects/p/locations/l/datasets/TRL1", DisplayName: "de_fr"},
				{Name: "projects/p/locations/l/datasets/TRL2", DisplayName: "en_uk"},
			},
		})
	}))
	defer server.Close()

	ds, err := testClient(server).FindDataset(context.Background(), "en_uk")
	if err != nil {
		t.Fatalf("FindDataset failed: %v", err)
	}
	if ds.Name != "projects/p/locations/l/datasets/TRL2" {
		t.Errorf("unexpected dataset: %+v", ds)
	}
}

func TestClient_FindDataset_Missing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"datasets": []Dataset{}})
	}))
	defer server.Close()

	_, err := testClient(server).FindDataset(context.Background(), "en_uk")
	if err == nil {
		t.Error("expected error when dataset absent")
	}
}

func TestClient_ImportData(t *testing.T) {
	datasetName := "projects/test-project/locations/us-central1/datasets/TRL123"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/v1/" + datasetName + ":importData"
		if r.URL.Path != wantPath {
			t.Errorf("expected path %s, got %s", wantPath, r.URL.Path)
		}

		var body struct {
			InputConfig struct {
				GcsSource struct {
					InputUris []string `json:"inputUris"`
				} `json:"gcsSource"`
			} `json:"inputConfig"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(body.InputConfig.GcsSource.InputUris) != 1 ||
			body.InputConfig.GcsSource.InputUris[0] != "gs://bucket/corpus.tsv" {
			t.Errorf("unexpected input URIs: %v", body.InputConfig.GcsSource.InputUris)
		}

		json.NewEncoder(w).Encode(Operation{Name: "operations/op1"})
	}))
	defer server.Close()

	op, err := testClient(server).ImportData(context.Background(), datasetName, "gs://bucket/corpus.tsv")
	if err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}
	if op.Name != "operations/op1" {
		t.Errorf("unexpected operation: %+v", op)
	}
}

func TestClient_TrainModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/v1/projects/test-project/locations/us-central1/models"
		if r.URL.Path != wantPath {
			t.Errorf("expected path %s, got %s", wantPath, r.URL.Path)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["datasetId"] != "TRL123" {
			t.Errorf("expected datasetId TRL123, got %v", body["datasetId"])
		}

		json.NewEncoder(w).Encode(Operation{Name: "operations/op2"})
	}))
	defer server.Close()

	op, err := testClient(server).TrainModel(context.Background(), "TRL123", "en_uk_model")
	if err != nil {
		t.Fatalf("TrainModel failed: %v", err)
	}
	if op.Name != "operations/op2" {
		t.Errorf("unexpected operation: %+v", op)
	}
}

func TestNewClient_MissingProject(t *testing.T) {
	_, err := NewClient(context.Background(), "", "", "")
	if err == nil {
		t.Error("expected error when project ID missing")
	}
}
