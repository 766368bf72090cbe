package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeBlobAPI is an in-memory stand-in for the S3 client, listing two keys
// per page to exercise continuation tokens.
type fakeBlobAPI struct {
	objects  map[string][]byte
	pageSize int
}

func newFakeBlobAPI() *fakeBlobAPI {
	return &fakeBlobAPI{objects: make(map[string][]byte), pageSize: 2}
}

func (f *fakeBlobAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*params.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBlobAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeBlobAPI) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for key := range f.objects {
		if params.Prefix == nil || strings.HasPrefix(key, *params.Prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if params.ContinuationToken != nil {
		start, _ = strconv.Atoi(*params.ContinuationToken)
	}
	end := start + f.pageSize
	if end > len(keys) {
		end = len(keys)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, key := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func TestBlobStoreUploadDownload(t *testing.T) {
	fake := newFakeBlobAPI()
	store := &BlobStore{api: fake, bucket: "youtube-comments"}
	dir := t.TempDir()

	source := filepath.Join(dir, "abc_comments.csv")
	if err := os.WriteFile(source, []byte("author,text,likeCount,publishedAt\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := store.Upload(context.Background(), "abc_comments.csv", source); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	// Overwrite-on-upload: a second upload replaces the blob.
	if err := os.WriteFile(source, []byte("replaced"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := store.Upload(context.Background(), "abc_comments.csv", source); err != nil {
		t.Fatalf("Second upload failed: %v", err)
	}
	if string(fake.objects["abc_comments.csv"]) != "replaced" {
		t.Errorf("blob content = %q, want overwritten value", fake.objects["abc_comments.csv"])
	}

	target := filepath.Join(dir, "nested", "dir", "abc_comments.csv")
	if err := store.Download(context.Background(), "abc_comments.csv", target); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != "replaced" {
		t.Errorf("downloaded content = %q", data)
	}
}

func TestBlobStoreDownloadMissing(t *testing.T) {
	store := &BlobStore{api: newFakeBlobAPI(), bucket: "youtube-comments"}

	err := store.Download(context.Background(), "missing.csv", filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("Download of missing blob succeeded, want error")
	}
}

func TestBlobStoreListFollowsContinuation(t *testing.T) {
	fake := newFakeBlobAPI()
	for _, key := range []string{"a_comments.csv", "b_comments.csv", "c_comments.csv", "d_metadata.csv", "e_comments.csv"} {
		fake.objects[key] = []byte("x")
	}
	store := &BlobStore{api: fake, bucket: "youtube-comments"}

	names, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	// Page size 2 forces three pages; all keys must come back.
	if len(names) != 5 {
		t.Errorf("got %d names, want 5: %v", len(names), names)
	}

	prefixed, err := store.List(context.Background(), "d_")
	if err != nil {
		t.Fatalf("List with prefix failed: %v", err)
	}
	if len(prefixed) != 1 || prefixed[0] != "d_metadata.csv" {
		t.Errorf("prefix listing = %v, want [d_metadata.csv]", prefixed)
	}
}

func TestParseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ConnectionSettings
		wantErr bool
	}{
		{
			name:  "Full string",
			input: "AccessKey=AKID;SecretKey=shhh;Region=us-east-1;Endpoint=https://blob.example.com",
			want: ConnectionSettings{
				AccessKey: "AKID",
				SecretKey: "shhh",
				Region:    "us-east-1",
				Endpoint:  "https://blob.example.com",
			},
		},
		{
			name:  "Case insensitive keys and stray semicolons",
			input: ";accesskey=AKID;SECRETKEY=shhh;",
			want:  ConnectionSettings{AccessKey: "AKID", SecretKey: "shhh"},
		},
		{
			name:    "Missing secret",
			input:   "AccessKey=AKID;Region=us-east-1",
			wantErr: true,
		},
		{
			name:    "Unknown key",
			input:   "AccessKey=AKID;SecretKey=shhh;Bucket=nope",
			wantErr: true,
		},
		{
			name:    "Malformed segment",
			input:   "AccessKey=AKID;garbage",
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConnectionString(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseConnectionString(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseConnectionString(%q) failed: %v", tt.input, err)
			}
			if *got != tt.want {
				t.Errorf("ParseConnectionString(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
