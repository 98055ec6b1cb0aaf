package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emzola/bookswap/clients"
	"github.com/gabriel-vasile/mimetype"
)

// detectMimeType reads a multipart file fully and detects its content type.
// Reading into a buffer first avoids corrupting the multipart stream when the
// same bytes are uploaded afterwards.
func (s *service) detectMimeType(file multipart.File, fileHeader *multipart.FileHeader) ([]byte, *mimetype.MIME, error) {
	buffer := make([]byte, fileHeader.Size)
	_, err := file.Read(buffer)
	if err != nil {
		return nil, nil, err
	}
	mtype := mimetype.Detect(buffer)
	return buffer, mtype, nil
}

// mimePermitted checks a detected mime type against a list of permitted types.
func mimePermitted(mtype *mimetype.MIME, permitted ...string) bool {
	for _, p := range permitted {
		if mtype.Is(p) {
			return true
		}
	}
	return false
}

// uploadCoverToS3 saves a cover image to the configured bucket under a random
// key and returns its public URL.
func (s *service) uploadCoverToS3(buffer []byte, mtype *mimetype.MIME, fileHeader *multipart.FileHeader) (string, error) {
	s3Client, err := clients.NewS3Client(s.config)
	if err != nil {
		return "", err
	}
	randomBytes := make([]byte, 16)
	_, err = rand.Read(randomBytes)
	if err != nil {
		return "", err
	}
	key := "bookcovers/" + strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)) + filepath.Ext(fileHeader.Filename)
	uploader := manager.NewUploader(s3Client)
	_, err = uploader.Upload(context.TODO(), &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buffer),
		ContentLength: fileHeader.Size,
		ContentType:   aws.String(mtype.String()),
	})
	if err != nil {
		return "", err
	}
	return "https://" + s.config.S3.Bucket + ".s3." + s.config.S3.Region + ".amazonaws.com/" + key, nil
}

// background launches a function in a background goroutine, tracked by the
// application WaitGroup so shutdown can wait for it, and recovers from panics
// inside the goroutine.
func (s *service) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				s.logger.PrintError(fmt.Errorf("%s", err), nil)
			}
		}()
		fn()
	}()
}
