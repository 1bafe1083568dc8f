package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dd0wney/cluso-modelgraph/pkg/network"
)

type fakeS3 struct {
	objects map[string][]byte
	fail    bool
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.fail {
		return nil, errors.New("upload refused")
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[*params.Bucket+"/"+*params.Key] = body
	return &s3.PutObjectOutput{}, nil
}

func TestArchiver_Upload(t *testing.T) {
	fake := &fakeS3{}
	archiver := NewArchiverWithClient(fake, "models", "extracted")

	net := testNet(t, "Relu")
	key, err := archiver.Upload(context.Background(), net)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if key != "extracted/"+net.ID+".json.sz" {
		t.Errorf("Unexpected key: %s", key)
	}

	blob, ok := fake.objects["models/"+key]
	if !ok {
		t.Fatalf("Object not stored, have %v", fake.objects)
	}
	restored, err := network.Unpack(blob)
	if err != nil {
		t.Fatalf("Stored blob does not unpack: %v", err)
	}
	if restored.ID != net.ID {
		t.Errorf("Stored network changed: %s vs %s", restored.ID, net.ID)
	}
}

func TestArchiver_UploadAll(t *testing.T) {
	fake := &fakeS3{}
	archiver := NewArchiverWithClient(fake, "models", "")

	keys, err := archiver.UploadAll(context.Background(),
		testNet(t, "Relu"), testNet(t, "Sigmoid"))
	if err != nil {
		t.Fatalf("UploadAll failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("Expected 2 keys, got %d", len(keys))
	}
	if len(fake.objects) != 2 {
		t.Errorf("Expected 2 stored objects, got %d", len(fake.objects))
	}
}

func TestArchiver_UploadError(t *testing.T) {
	archiver := NewArchiverWithClient(&fakeS3{fail: true}, "models", "")

	if _, err := archiver.Upload(context.Background(), testNet(t, "Relu")); err == nil {
		t.Error("Expected error from failing client")
	}
}
