// Package fetcher retrieves document objects from Cloud Storage and parses
// them into the block model.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/valpere/docalign/internal/document"
)

// ErrNotFound reports a missing object or bucket. Callers distinguish it
// from parse failures so a bad path skips the pair without aborting the run.
var ErrNotFound = errors.New("object not found")

type Fetcher struct {
	client *storage.Client
}

// New creates a Fetcher. credentials may be empty to use application
// default credentials.
func New(ctx context.Context, credentials string) (*Fetcher, error) {
	opts := []option.ClientOption{}
	if credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Fetcher{client: client}, nil
}

func (f *Fetcher) Close() error {
	return f.client.Close()
}

// Fetch reads the full content of one object.
func (f *Fetcher) Fetch(ctx context.Context, bucket, objectPath string) ([]byte, error) {
	r, err := f.client.Bucket(bucket).Object(objectPath).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, fmt.Errorf("%w: gs://%s/%s", ErrNotFound, bucket, objectPath)
		}
		return nil, fmt.Errorf("open gs://%s/%s: %w", bucket, objectPath, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", bucket, objectPath, err)
	}
	return data, nil
}

// FetchDocument fetches one object and parses it into a block sequence.
func (f *Fetcher) FetchDocument(ctx context.Context, bucket, objectPath string) (*document.Document, error) {
	data, err := f.Fetch(ctx, bucket, objectPath)
	if err != nil {
		return nil, err
	}

	doc, err := document.Parse(objectPath, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", objectPath, err)
	}
	return doc, nil
}
