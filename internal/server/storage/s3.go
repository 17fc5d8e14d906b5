// Package storage stores user-uploaded images in an S3-compatible bucket
// (MinIO in development) and maps object keys to public URLs and back.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ottocollect/ottocollect/internal/common"
)

// PresignExpiry bounds how long a presigned upload URL stays valid.
const PresignExpiry = 15 * time.Minute

// ObjectAPI is the subset of *s3.Client the bucket uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Presigner is the subset of *s3.PresignClient the bucket uses.
type Presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Settings struct {
	AccessKey    string
	SecretKey    string
	Region       string
	Bucket       string
	BaseEndpoint string
	// PublicURL is the base every object URL starts with, bucket included.
	PublicURL string
}

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type Bucket struct {
	api       ObjectAPI
	presign   Presigner
	name      string
	publicURL string
}

// NewBucket builds an S3 client with static credentials against the
// configured endpoint.
func NewBucket(ctx context.Context, s Settings) (*Bucket, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return NewBucketWithClients(client, s3.NewPresignClient(client), s.Bucket, s.PublicURL), nil
}

func NewBucketWithClients(api ObjectAPI, presign Presigner, bucket, publicURL string) *Bucket {
	return &Bucket{api: api, presign: presign, name: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (b *Bucket) Name() string { return b.name }

// PublicURL returns the URL an object with the given key is served from.
func (b *Bucket) PublicURL(key string) string {
	return b.publicURL + "/" + strings.TrimLeft(key, "/")
}

// PathFromURL returns the object key behind a public URL. URLs that are not
// under the public base yield common.ErrOutsideStorage.
func (b *Bucket) PathFromURL(raw string) (string, error) {
	prefix := b.publicURL + "/"
	if !strings.HasPrefix(raw, prefix) {
		return "", common.ErrOutsideStorage
	}
	key := strings.TrimPrefix(raw, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	key, err := url.PathUnescape(key)
	if err != nil || key == "" {
		return "", common.ErrOutsideStorage
	}
	return key, nil
}

// Upload stores body under key and returns its public URL. body should be
// seekable so the SDK can sign the payload.
func (b *Bucket) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := b.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return b.PublicURL(key), nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	_, err := b.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// PresignUpload returns a URL a client can PUT the object to directly.
func (b *Bucket) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	req, err := b.presign.PresignPutObject(ctx, in, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, nil
}
