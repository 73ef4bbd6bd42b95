package gcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/pdfsummarizer/internal/models"
	"google.golang.org/api/googleapi"
)

var ErrObjectTooLarge = errors.New("object exceeds size limit")

// ParseGCSURI splits gs://bucket/object into its parts.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", fmt.Errorf("not a gs:// URI: %q", uri)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("gs:// URI needs a bucket and an object: %q", uri)
	}
	return bucket, object, nil
}

// ObjectReader reads whole Cloud Storage objects up to a size cap.
type ObjectReader struct {
	client   *storage.Client
	maxBytes int64
}

func NewObjectReader(client *storage.Client, maxBytes int64) *ObjectReader {
	return &ObjectReader{client: client, maxBytes: maxBytes}
}

func (r *ObjectReader) ReadObject(ctx context.Context, bucket, object string) ([]byte, error) {
	gcsReader, err := r.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", bucket, object, classifyGCSError(err))
	}
	defer gcsReader.Close()

	if r.maxBytes > 0 && gcsReader.Attrs.Size > r.maxBytes {
		return nil, fmt.Errorf("gs://%s/%s is %d bytes: %w", bucket, object, gcsReader.Attrs.Size, ErrObjectTooLarge)
	}
	return readLimited(gcsReader, r.maxBytes)
}

func readLimited(rd io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(rd)
	}
	data, err := io.ReadAll(io.LimitReader(rd, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrObjectTooLarge
	}
	return data, nil
}

func classifyGCSError(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return err
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusForbidden || gerr.Code == http.StatusUnauthorized) {
		return fmt.Errorf("permission denied: %w", err)
	}
	return err
}

// LoadModelManifest reads and decodes the JSON model manifest at a gs:// URI.
func LoadModelManifest(ctx context.Context, reader *ObjectReader, uri string) (*models.ModelManifest, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}
	data, err := reader.ReadObject(ctx, bucket, object)
	if err != nil {
		return nil, err
	}
	return DecodeModelManifest(data)
}

func DecodeModelManifest(data []byte) (*models.ModelManifest, error) {
	var manifest models.ModelManifest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&manifest); err != nil {
		return nil, fmt.Errorf("failed to decode model manifest: %w", err)
	}
	if manifest.MaxInputTokens < 0 {
		return nil, fmt.Errorf("model manifest maxInputTokens must not be negative, got %d", manifest.MaxInputTokens)
	}
	return &manifest, nil
}
