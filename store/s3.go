// Copyright 2023 Stashbin, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// deleteBatchSize is the most keys a single DeleteObjects call accepts
const deleteBatchSize = 1000

type s3Store struct {
	bucket string
	api    s3iface.S3API
}

// NewS3 returns an S3 storage interface
func NewS3(api s3iface.S3API, bucket string) Store {
	return &s3Store{
		bucket: bucket,
		api:    api,
	}
}

// SignPut returns a presigned URL for one PUT of the key. The signature
// covers the content type, so the bucket enforces the declared type
// without a round trip back to us.
func (s *s3Store) SignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	req, _ := s.api.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	req.SetContext(ctx)
	url, err := req.Presign(expiry)
	if err != nil {
		return "", fmt.Errorf("Failed to sign PUT %s/%s: %s", s.bucket, key, err)
	}
	return url, nil
}

// List contents of the Store, following pagination to the end
func (s *s3Store) List(ctx context.Context, prefix string) ([]Object, error) {
	var objects []Object
	err := s.api.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}, func(p *s3.ListObjectsV2Output, last bool) (shouldContinue bool) {
		for _, obj := range p.Contents {
			objects = append(objects, Object{
				Key:          aws.StringValue(obj.Key),
				Size:         aws.Int64Value(obj.Size),
				LastModified: aws.TimeValue(obj.LastModified),
			})
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to list store: %s", err)
	}
	return objects, nil
}

// Delete the given keys in batches. S3 reports deletes of nonexistent
// keys as successful, which keeps retries and overlapping sweeps safe.
func (s *s3Store) Delete(ctx context.Context, keys []string) (DeletionReport, error) {

	var report DeletionReport

	for start := 0; start < len(keys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		batch := keys[start:end]

		identifiers := make([]*s3.ObjectIdentifier, len(batch))
		for i, key := range batch {
			identifiers[i] = &s3.ObjectIdentifier{Key: aws.String(key)}
		}

		resp, err := s.api.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &s3.Delete{
				Objects: identifiers,
				Quiet:   aws.Bool(false),
			},
		})
		if err != nil {
			return report, fmt.Errorf("Failed to delete from store: %s", err)
		}

		for _, deleted := range resp.Deleted {
			report.Deleted = append(report.Deleted, aws.StringValue(deleted.Key))
		}
		for _, failed := range resp.Errors {
			report.Failed = append(report.Failed, DeletionError{
				Key:     aws.StringValue(failed.Key),
				Code:    aws.StringValue(failed.Code),
				Message: aws.StringValue(failed.Message),
			})
		}
	}
	return report, nil
}
