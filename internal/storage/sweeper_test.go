package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"glimpse/internal/models"
)

type deletedSourceStub struct {
	posts  []*models.Post
	purged []uint
}

func (s *deletedSourceStub) ListDeletedBefore(_ context.Context, _ time.Time) ([]*models.Post, error) {
	return s.posts, nil
}

func (s *deletedSourceStub) Purge(_ context.Context, id uint) error {
	s.purged = append(s.purged, id)
	return nil
}

type failingBlobStore struct {
	failKeys map[string]bool
	deleted  []string
}

func (s *failingBlobStore) Save(_ context.Context, _ io.Reader, _ int64, _ string) (string, error) {
	return "", errors.New("not used")
}

func (s *failingBlobStore) Delete(_ context.Context, key string) error {
	if s.failKeys[key] {
		return errors.New("backend unavailable")
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *failingBlobStore) URL(key string) string { return "/uploads/" + key }

func TestSweeperPurgesReleasedRows(t *testing.T) {
	source := &deletedSourceStub{
		posts: []*models.Post{
			{ID: 1, MediaPath: "a.jpg"},
			{ID: 2, MediaPath: "b.jpg"},
		},
	}
	blobs := &failingBlobStore{}

	sweeper := NewSweeper(source, blobs, time.Minute)
	sweeper.SweepOnce(context.Background())

	if len(blobs.deleted) != 2 {
		t.Fatalf("expected both blobs released, got %v", blobs.deleted)
	}
	if len(source.purged) != 2 {
		t.Fatalf("expected both rows purged, got %v", source.purged)
	}
}

func TestSweeperKeepsRowWhenBlobReleaseFails(t *testing.T) {
	source := &deletedSourceStub{
		posts: []*models.Post{
			{ID: 1, MediaPath: "stuck.jpg"},
			{ID: 2, MediaPath: "ok.jpg"},
		},
	}
	blobs := &failingBlobStore{failKeys: map[string]bool{"stuck.jpg": true}}

	sweeper := NewSweeper(source, blobs, time.Minute)
	sweeper.SweepOnce(context.Background())

	if len(source.purged) != 1 || source.purged[0] != 2 {
		t.Fatalf("expected only the released row purged, got %v", source.purged)
	}
}

func TestSweeperPurgesRowsWithoutMediaPath(t *testing.T) {
	source := &deletedSourceStub{
		posts: []*models.Post{{ID: 7}},
	}
	blobs := &failingBlobStore{}

	sweeper := NewSweeper(source, blobs, time.Minute)
	sweeper.SweepOnce(context.Background())

	if len(blobs.deleted) != 0 {
		t.Fatalf("no blob delete expected, got %v", blobs.deleted)
	}
	if len(source.purged) != 1 || source.purged[0] != 7 {
		t.Fatalf("expected row 7 purged, got %v", source.purged)
	}
}
