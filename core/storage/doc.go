// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client for the few operations the application needs:
// reading exported sheets, writing merge outputs and listing what a previous
// run left behind. Both AWS S3 and self-hosted MinIO work.
//
// The Client interface keeps the provider mockable (see core/storage/mocks).
// EnsureBucket, ReadObject and ListKeys are thin helpers over it.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, "exports/sheet.csv")
package storage
