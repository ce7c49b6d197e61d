//go:build s3store
// +build s3store

// This file provides an S3-backed Store for deployments that want the
// address book shared across machines. It is excluded from regular builds
// because it requires AWS credentials at runtime.
//
// To enable it, build with -tags s3store and construct the store with an
// S3 client from aws-sdk-go-v2:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	store := contacts.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "contacts/")

package contacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store persists each contact as one JSON object under prefix+id.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates an S3-backed contact store. The prefix should end
// with a slash (e.g. "contacts/").
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) List(ctx context.Context, query string) ([]Contact, error) {
	var list []Contact
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing contacts: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			c, err := s.getKey(ctx, *obj.Key)
			if err != nil {
				return nil, err
			}
			list = append(list, c)
		}
	}
	sortContacts(list)
	return Filter(list, query), nil
}

func (s *S3Store) Get(ctx context.Context, id string) (Contact, error) {
	return s.getKey(ctx, s.prefix+id)
}

func (s *S3Store) Create(ctx context.Context, fields Fields) (Contact, error) {
	c := Contact{ID: newID(), CreatedAt: time.Now()}
	c.apply(fields)
	if err := s.put(ctx, c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func (s *S3Store) Update(ctx context.Context, id string, fields Fields) (Contact, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Contact{}, err
	}
	c.apply(fields)
	if err := s.put(ctx, c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func (s *S3Store) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + id),
	})
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}
	return nil
}

func (s *S3Store) getKey(ctx context.Context, key string) (Contact, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Contact{}, ErrNotFound
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return Contact{}, fmt.Errorf("reading contact: %w", err)
	}
	var c Contact
	if err := json.Unmarshal(data, &c); err != nil {
		return Contact{}, fmt.Errorf("decoding contact: %w", err)
	}
	return c, nil
}

func (s *S3Store) put(ctx context.Context, c Contact) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + c.ID),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("storing contact: %w", err)
	}
	return nil
}
