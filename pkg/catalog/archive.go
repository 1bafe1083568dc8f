package catalog

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dd0wney/cluso-modelgraph/pkg/network"
)

// s3API is the slice of the S3 client the archiver needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver uploads packed networks to an S3 bucket.
type Archiver struct {
	client s3API
	bucket string
	prefix string
}

// NewArchiver builds an archiver from the ambient AWS configuration.
func NewArchiver(ctx context.Context, bucket, prefix, region string) (*Archiver, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &Archiver{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// NewArchiverWithClient builds an archiver around an existing client.
// Used by tests.
func NewArchiverWithClient(client s3API, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix}
}

// Upload packs a network and writes it to the bucket under
// <prefix>/<network-id>.json.sz. Returns the object key.
func (a *Archiver) Upload(ctx context.Context, n *network.Network) (string, error) {
	blob, err := network.Pack(n)
	if err != nil {
		return "", err
	}

	key := path.Join(a.prefix, n.ID+".json.sz")
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("archiving network %s: %w", n.ID, err)
	}
	return key, nil
}

// UploadAll archives each network in turn, returning the keys written.
func (a *Archiver) UploadAll(ctx context.Context, networks ...*network.Network) ([]string, error) {
	keys := make([]string, 0, len(networks))
	for _, n := range networks {
		key, err := a.Upload(ctx, n)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
