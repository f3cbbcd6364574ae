package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yanqian/surf-forecast/internal/infra/blobstore"
	"github.com/yanqian/surf-forecast/internal/infra/config"
)

type blobWriter interface {
	Put(ctx context.Context, key string, data []byte) error
}

func newBlobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blobs",
		Short: "Manage raw forecast files",
	}

	var dir string
	push := &cobra.Command{
		Use:   "push",
		Short: "Upload a local directory of raw files to the configured S3 bucket",
		Long: `push walks --dir and uploads every file under its relative path. The
bucket comes from the service configuration (configs/config.yaml, CONFIG_PATH
and the BLOBS_S3_* variables).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := cmdLogger(cmd)
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.Blobs.S3Configured() {
				return errors.New("blobs.s3 is not configured")
			}
			s3 := cfg.Blobs.S3
			dst, err := blobstore.NewS3Storage(s3.Endpoint, s3.AccessKey, s3.SecretKey, s3.Bucket, s3.Region, logger)
			if err != nil {
				return err
			}
			src, err := blobstore.NewDirStorage(dir)
			if err != nil {
				return err
			}
			n, err := pushBlobs(cmd.Context(), src, dst, logger)
			if err != nil {
				return err
			}
			logger.Info("blobs pushed", "count", n, "bucket", s3.Bucket)
			return nil
		},
	}
	push.Flags().StringVar(&dir, "dir", "", "directory holding the raw forecast files")
	_ = push.MarkFlagRequired("dir")

	cmd.AddCommand(push)
	return cmd
}

func pushBlobs(ctx context.Context, src *blobstore.DirStorage, dst blobWriter, logger *slog.Logger) (int, error) {
	n := 0
	err := src.Walk(func(key string) error {
		data, err := src.ReadBlob(ctx, key)
		if err != nil {
			return err
		}
		if err := dst.Put(ctx, key, data); err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
		logger.Debug("blob pushed", "key", key, "bytes", len(data))
		n++
		return nil
	})
	return n, err
}
