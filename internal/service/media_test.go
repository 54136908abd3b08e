package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogosphere/internal/model"
)

type fakeObjectStore struct {
	puts    map[string][]byte
	types   map[string]string
	deletes []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{puts: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjectStore) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.puts[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectStore) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func upload(data []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: "cover.png",
		Header:   textproto.MIMEHeader{},
		Size:     int64(len(data)),
	}
	if contentType != "" {
		header.Header.Set("Content-Type", contentType)
	}
	return memFile{bytes.NewReader(data)}, header
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMediaService_UploadThumbnail(t *testing.T) {
	// ARRANGE
	store := newFakeObjectStore()
	svc := newMediaService(store, "blog-media", "https://cdn.example.com/")
	file, header := upload(testPNG(t, 64, 48), "image/png")

	// ACT
	result, err := svc.UploadThumbnail(context.Background(), file, header)

	// ASSERT
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Key, "thumbnails/"))
	assert.True(t, strings.HasSuffix(result.Key, ".jpg"))
	assert.Equal(t, "https://cdn.example.com/"+result.Key, result.URL)
	assert.Equal(t, model.ContentTypeJPEG, store.types[result.Key])

	stored, err := imaging.Decode(bytes.NewReader(store.puts[result.Key]))
	require.NoError(t, err)
	assert.Equal(t, model.ThumbnailWidth, stored.Bounds().Dx())
	assert.Equal(t, model.ThumbnailHeight, stored.Bounds().Dy())
}

func TestMediaService_UploadThumbnail_DetectsContentType(t *testing.T) {
	store := newFakeObjectStore()
	svc := newMediaService(store, "blog-media", "https://cdn.example.com")
	file, header := upload(testPNG(t, 8, 8), "")

	_, err := svc.UploadThumbnail(context.Background(), file, header)

	assert.NoError(t, err)
}

func TestMediaService_UploadThumbnail_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		size        int64
		contentType string
		wantErr     error
	}{
		{name: "not an image", data: []byte("plain text"), contentType: "text/plain", wantErr: model.ErrInvalidImageType},
		{name: "corrupt png", data: []byte("\x89PNG\r\n\x1a\nbroken"), contentType: "image/png", wantErr: model.ErrInvalidImageType},
		{name: "too large", data: []byte("x"), size: model.MaxThumbnailSizeBytes + 1, contentType: "image/png", wantErr: model.ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeObjectStore()
			svc := newMediaService(store, "blog-media", "https://cdn.example.com")
			file, header := upload(tt.data, tt.contentType)
			if tt.size != 0 {
				header.Size = tt.size
			}

			_, err := svc.UploadThumbnail(context.Background(), file, header)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.puts)
		})
	}
}

func TestMediaService_DeleteObject(t *testing.T) {
	store := newFakeObjectStore()
	svc := newMediaService(store, "blog-media", "https://cdn.example.com")

	require.NoError(t, svc.DeleteObject(context.Background(), ""))
	require.NoError(t, svc.DeleteObject(context.Background(), "thumbnails/a.jpg"))

	assert.Equal(t, []string{"thumbnails/a.jpg"}, store.deletes)
}
