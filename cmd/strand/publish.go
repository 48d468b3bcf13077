package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/strand-dev/strand/internal/config"
)

func publishCmd() *cobra.Command {
	var (
		dir    string
		bucket string
		region string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "publish [assets-dir]",
		Short: "Publish static assets to S3",
		Long: `Upload the static assets directory to an S3 bucket, e.g. to put
stylesheets and images behind a CDN.

Credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY,
and optionally AWS_SESSION_TOKEN. Bucket, region, and key prefix come
from strand.json's publish section unless overridden by flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}

			if bucket == "" {
				bucket = cfg.Publish.Bucket
			}
			if region == "" {
				region = cfg.Publish.Region
			}
			if prefix == "" {
				prefix = cfg.Publish.Prefix
			}
			if bucket == "" {
				return fmt.Errorf("no bucket configured (set publish.bucket or --bucket)")
			}
			if region == "" {
				return fmt.Errorf("no region configured (set publish.region or --region)")
			}

			assetsDir := cfg.Static.Dir
			if len(args) > 0 {
				assetsDir = args[0]
			}
			if assetsDir == "" {
				assetsDir = "public"
			}

			creds, err := envCredentials()
			if err != nil {
				return err
			}

			client := s3.New(s3.Options{
				Region:      region,
				Credentials: creds,
			})

			return uploadDir(cmd.Context(), client, assetsDir, bucket, prefix)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory containing strand.json")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Target S3 bucket")
	cmd.Flags().StringVar(&region, "region", "", "Bucket AWS region")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix within the bucket")

	return cmd
}

// envCredentials builds a static credentials provider from the environment.
func envCredentials() (aws.CredentialsProvider, error) {
	key := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if key == "" || secret == "" {
		return nil, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	session := os.Getenv("AWS_SESSION_TOKEN")

	return aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     key,
			SecretAccessKey: secret,
			SessionToken:    session,
			Source:          "environment",
		}, nil
	}), nil
}

// uploadDir walks dir and puts every regular file under prefix in bucket.
func uploadDir(ctx context.Context, client *s3.Client, dir, bucket, prefix string) error {
	count := 0

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := prefix + filepath.ToSlash(rel)

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        f,
			ContentType: aws.String(contentTypeFor(path)),
		})
		if err != nil {
			return fmt.Errorf("uploading %s: %w", rel, err)
		}

		info("uploaded %s", key)
		count++
		return nil
	})
	if err != nil {
		return err
	}

	success("published %d files to s3://%s/%s", count, bucket, prefix)
	return nil
}

// contentTypeFor guesses a Content-Type from the file extension.
func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
