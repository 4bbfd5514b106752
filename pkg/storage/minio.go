package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shashiranjanraj/devburger/config"
)

// minioDisk stores files in a MinIO bucket through the native client.
type minioDisk struct {
	client *minio.Client
	bucket string
}

func newMinioDisk(ctx context.Context) (*minioDisk, error) {
	client, err := minio.New(config.MinioEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(config.MinioAccessKey(), config.MinioSecretKey(), ""),
		Secure: config.MinioUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("storage/minio: client: %w", err)
	}

	d := &minioDisk{client: client, bucket: config.MinioBucket()}
	if err := d.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *minioDisk) ensureBucket(ctx context.Context) error {
	exists, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return fmt.Errorf("storage/minio: bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	if err := d.client.MakeBucket(ctx, d.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage/minio: make bucket: %w", err)
	}
	return nil
}

func (d *minioDisk) Put(ctx context.Context, p string, content []byte, contentType string) error {
	key, err := cleanKey(p)
	if err != nil {
		return err
	}
	_, err = d.client.PutObject(ctx, d.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storage/minio: put %s: %w", key, err)
	}
	return nil
}

func (d *minioDisk) GetStream(ctx context.Context, p string) (io.ReadCloser, error) {
	key, err := cleanKey(p)
	if err != nil {
		return nil, err
	}
	obj, err := d.client.GetObject(ctx, d.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage/minio: get %s: %w", key, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage/minio: stat %s: %w", key, err)
	}
	return obj, nil
}

func (d *minioDisk) Exists(ctx context.Context, p string) bool {
	key, err := cleanKey(p)
	if err != nil {
		return false
	}
	_, err = d.client.StatObject(ctx, d.bucket, key, minio.StatObjectOptions{})
	return err == nil
}

func (d *minioDisk) Delete(ctx context.Context, p string) error {
	key, err := cleanKey(p)
	if err != nil {
		return err
	}
	if err := d.client.RemoveObject(ctx, d.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage/minio: delete %s: %w", key, err)
	}
	return nil
}
