// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

// AWS S3 storage backend for treebank corpora.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"
)

type S3Backend struct {
	bucket     string
	region     string
	client     *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
}

// NewS3Backend constructs a new S3 backend based on the configured
// environment variables.
func NewS3Backend() (*S3Backend, error) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET must be configured for S3 usage")
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1" // Default region
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		log.WithError(err).Error("failed to load AWS configuration")
		return nil, err
	}

	client := s3.NewFromConfig(cfg)

	// Test bucket access
	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		log.WithError(err).WithField("bucket", bucket).Error("could not access configured S3 bucket")
		return nil, err
	}

	uploader := manager.NewUploader(client)
	downloader := manager.NewDownloader(client)

	return &S3Backend{
		bucket:     bucket,
		region:     region,
		client:     client,
		uploader:   uploader,
		downloader: downloader,
	}, nil
}

func (b *S3Backend) Name() string {
	return "AWS S3 (" + b.bucket + ")"
}

func (b *S3Backend) Persist(ctx context.Context, key string, p Persister) (int, int64, error) {
	// Create a pipe to stream data to S3
	pr, pw := io.Pipe()

	// Upload in a goroutine
	uploadDone := make(chan error, 1)
	go func() {
		defer close(uploadDone)

		input := &s3.PutObjectInput{
			Bucket:      aws.String(b.bucket),
			Key:         aws.String(key),
			Body:        pr,
			ContentType: aws.String("text/tab-separated-values"),
		}

		_, uploadErr := b.uploader.Upload(ctx, input)
		uploadDone <- uploadErr
	}()

	// Write data and count sentences/bytes
	counting := &countingWriter{w: pw}
	sentences, err := p(counting)
	pw.Close() // Close the write end of the pipe

	if err != nil {
		pr.CloseWithError(err) // Close read end with error
		<-uploadDone           // Wait for upload to finish
		log.WithError(err).WithField("key", key).Error("failed to write corpus for S3 upload")
		return sentences, counting.n, err
	}

	// Wait for upload to complete
	uploadErr := <-uploadDone
	if uploadErr != nil {
		log.WithError(uploadErr).WithField("key", key).Error("failed to upload to S3")
		return sentences, counting.n, uploadErr
	}

	return sentences, counting.n, nil
}

func (b *S3Backend) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	// Check if object exists first
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}

	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

func (b *S3Backend) Move(ctx context.Context, old, new string) error {
	// Copy object to new location
	_, err := b.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(b.bucket),
		Key:        aws.String(new),
		CopySource: aws.String(b.bucket + "/" + old),
	})
	if err != nil {
		return err
	}

	// Delete the old object
	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(old),
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"old": old,
			"new": new,
		}).Warn("failed to delete old object after move")
		// Don't return error as the copy succeeded
	}

	return nil
}
