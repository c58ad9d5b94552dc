package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"smartspend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrArchiveDisabled = errors.New("report archiving is not configured")

// s3PutObjectAPI is the slice of the S3 client the archiver needs.
type s3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type reportArchiver struct {
	client  s3PutObjectAPI
	bucket  string
	prefix  string
	breaker *CircuitBreaker
	metrics MetricsRecorderInterface
	logger  *slog.Logger
}

// NewReportArchiver builds an S3 archiver from the default AWS credential chain.
// Without a bucket it returns an archiver whose Enabled reports false.
func NewReportArchiver(ctx context.Context, cfg config.ReportsConfig, metrics MetricsRecorderInterface, logger *slog.Logger) (ReportArchiverInterface, error) {
	if cfg.S3Bucket == "" {
		return &reportArchiver{metrics: metrics, logger: logger}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newReportArchiverWithClient(s3.NewFromConfig(awsCfg), cfg, metrics, logger), nil
}

func newReportArchiverWithClient(client s3PutObjectAPI, cfg config.ReportsConfig, metrics MetricsRecorderInterface, logger *slog.Logger) *reportArchiver {
	return &reportArchiver{
		client:  client,
		bucket:  cfg.S3Bucket,
		prefix:  strings.Trim(cfg.S3Prefix, "/"),
		breaker: NewCircuitBreaker(DefaultCircuitBreakerConfig()),
		metrics: metrics,
		logger:  logger,
	}
}

func (a *reportArchiver) Enabled() bool {
	return a.client != nil && a.bucket != ""
}

// Archive uploads body under the configured prefix and returns its s3:// location.
func (a *reportArchiver) Archive(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if !a.Enabled() {
		return "", ErrArchiveDisabled
	}

	objectKey := path.Join(a.prefix, key)
	start := time.Now()

	err := a.breaker.Execute(func() error {
		_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(a.bucket),
			Key:           aws.String(objectKey),
			Body:          bytes.NewReader(body),
			ContentType:   aws.String(contentType),
			ContentLength: aws.Int64(int64(len(body))),
		})
		return err
	})
	if errors.Is(err, ErrCircuitBreakerOpen) {
		a.metrics.IncrementCounter("reports_archived", map[string]string{"status": "skipped"})
		return "", fmt.Errorf("s3 uploads paused after repeated failures: %w", err)
	}
	if err != nil {
		a.metrics.IncrementCounter("reports_archived", map[string]string{"status": "error"})
		return "", fmt.Errorf("failed to upload report to s3: %w", err)
	}

	a.metrics.IncrementCounter("reports_archived", map[string]string{"status": "success"})
	location := "s3://" + a.bucket + "/" + objectKey
	a.logger.Info("report archived", "location", location, "bytes", len(body), "duration_ms", time.Since(start).Milliseconds())

	return location, nil
}
