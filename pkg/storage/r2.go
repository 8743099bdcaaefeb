package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-backend/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goccy/go-json"
)

// objectPutter is the slice of the S3 client the receipt store needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Storage archives order receipts as JSON objects in a Cloudflare R2 bucket.
type R2Storage struct {
	client        objectPutter
	bucketName    string
	publicURL     string
	uploadTimeout time.Duration
}

func NewR2Storage(ctx context.Context, accountId, accessKey, secretKey, bucketName, publicURL string, uploadTimeout time.Duration) (*R2Storage, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountId))
		o.UsePathStyle = true
	})

	return newR2Storage(client, bucketName, publicURL, uploadTimeout), nil
}

func newR2Storage(client objectPutter, bucketName, publicURL string, uploadTimeout time.Duration) *R2Storage {
	return &R2Storage{
		client:        client,
		bucketName:    bucketName,
		publicURL:     strings.TrimSuffix(publicURL, "/"),
		uploadTimeout: uploadTimeout,
	}
}

// ReceiptKey is the object key for an order's receipt, partitioned by order date.
func ReceiptKey(order *domain.Order) string {
	created := order.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return fmt.Sprintf("receipts/%s/%s.json", created.UTC().Format("2006/01/02"), order.ID)
}

// SaveReceipt uploads the order snapshot and returns its public URL.
func (s *R2Storage) SaveReceipt(ctx context.Context, order *domain.Order) (string, error) {
	data, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("failed to marshal receipt: %w", err)
	}

	key := ReceiptKey(order)

	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	_, err = s.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"order-id":    order.ID,
			"customer-id": order.CustomerID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt to R2: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
