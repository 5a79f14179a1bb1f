package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/medisched/hospital-scheduler/internal/config"
)

// Archiver uploads generated reports to an S3 bucket so they outlive
// the API process.
type Archiver struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

func NewArchiver(cfg *config.Config) *Archiver {
	if !cfg.ReportArchiveEnabled() {
		return nil
	}

	client := s3.New(s3.Options{
		Region: cfg.AWSRegion,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		),
	})

	return &Archiver{
		client:    client,
		bucket:    cfg.ReportBucket,
		keyPrefix: cfg.ReportKeyPrefix,
	}
}

// Archive stores the CSV under <prefix>/<name>-<timestamp>.csv and
// returns the object key.
func (a *Archiver) Archive(ctx context.Context, name string, body []byte) (string, error) {
	if a == nil {
		return "", nil
	}

	key := fmt.Sprintf("%s/%s-%s.csv", a.keyPrefix, name, time.Now().UTC().Format("20060102-150405"))

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}
