package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

/*
設定ファイル・境界条件ファイルを開く。

    Args:
        ctx: context
        path: ローカルのパス、http(s) の URL、または s3://bucket/key

    Returns:
        読み込み用のストリーム（呼び出し側で Close すること）
*/
func openSource(ctx context.Context, path string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return openHTTP(ctx, path)
	case strings.HasPrefix(path, "s3://"):
		bucket, key, err := parseS3URI(path)
		if err != nil {
			return nil, err
		}
		return openS3(ctx, bucket, key)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to open %s", path)
		}
		return f, nil
	}
}

func openHTTP(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WithMessagef(err, "bad url %s", url)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to get %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("failed to get %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}

func openS3(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	L().Infof("Getting object s3://%s/%s", bucket, key)

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to load AWS config")
	}
	client := s3.NewFromConfig(cfg)

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to get object s3://%s/%s", bucket, key)
	}
	return resp.Body, nil
}

func parseS3URI(uri string) (string, string, error) {
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", errors.Errorf("bad s3 uri %q, want s3://bucket/key", uri)
	}
	return bucket, key, nil
}
