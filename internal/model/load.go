package model

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/yaml.v3"
)

// ObjectGetter is the part of the S3 client the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Loader struct {
	// Region is used when the S3 client is created lazily.
	Region string
	// S3 overrides the client built from the default AWS config.
	S3 ObjectGetter
}

// Load reads the artifact at uri, which is either a local path or
// s3://bucket/key. An empty uri or a missing local file returns a nil
// Predictor and no error: the caller runs formula-only.
func (l *Loader) Load(ctx context.Context, uri string) (Predictor, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, nil
	}

	var (
		raw []byte
		err error
	)
	if strings.HasPrefix(uri, "s3://") {
		bucket, key, ok := parseS3URI(uri)
		if !ok {
			return nil, fmt.Errorf("malformed model uri %q, want s3://bucket/key", uri)
		}
		raw, err = l.fetchS3(ctx, bucket, key)
	} else {
		raw, err = os.ReadFile(uri)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", uri, err)
	}

	a, err := ParseArtifact(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", uri, err)
	}
	m, err := NewLinearModel(a)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ParseArtifact decodes a YAML (or JSON) artifact, rejecting unknown keys.
func ParseArtifact(raw []byte) (Artifact, error) {
	var a Artifact
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return Artifact{}, err
	}
	return a, nil
}

func (l *Loader) fetchS3(ctx context.Context, bucket, key string) ([]byte, error) {
	client := l.S3
	if client == nil {
		opts := []func(*config.LoadOptions) error{}
		if l.Region != "" {
			opts = append(opts, config.WithRegion(l.Region))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = s3.NewFromConfig(awsCfg)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func parseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
