// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	data, _ := io.ReadAll(params.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Store_Put(t *testing.T) {
	client := &fakeS3{}
	store := newS3Store(client, "media", "https://cdn.pixelpulse.dev/", slog.Default())

	url, err := store.Put(context.Background(), "uploads/2026/10/a.png", "image/png", strings.NewReader("png"), 3)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.pixelpulse.dev/uploads/2026/10/a.png", url)
	assert.Equal(t, "media", aws.ToString(client.input.Bucket))
	assert.Equal(t, "uploads/2026/10/a.png", aws.ToString(client.input.Key))
	assert.Equal(t, "image/png", aws.ToString(client.input.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(client.input.ContentLength))
	assert.Equal(t, "png", client.body)
}

func TestS3Store_PutError(t *testing.T) {
	store := newS3Store(&fakeS3{err: errors.New("denied")}, "media", "https://cdn", slog.Default())

	_, err := store.Put(context.Background(), "k", "image/png", strings.NewReader(""), 0)

	assert.ErrorContains(t, err, "denied")
}

func TestNewS3Store_Disabled(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{}, slog.Default())
	assert.ErrorIs(t, err, ErrDisabled)
}
