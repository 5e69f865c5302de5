package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkrasnov/markethub/backend/internal/models"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
)

type fakeUploadRepo struct {
	orphans []models.Upload
	deleted []uint
}

var _ repositories.UploadRepository = (*fakeUploadRepo)(nil)

func (f *fakeUploadRepo) CreateUpload(*models.Upload) error { return nil }
func (f *fakeUploadRepo) GetUploadByKey(string) (*models.Upload, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUploadRepo) GetUploadByURL(string) (*models.Upload, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUploadRepo) MarkAttached(uint) error { return nil }
func (f *fakeUploadRepo) ListOrphans(time.Time) ([]models.Upload, error) {
	return f.orphans, nil
}
func (f *fakeUploadRepo) DeleteUpload(id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeObjectStorage struct {
	removed   []string
	removeErr map[string]error
	staleTmp  []string
}

var _ ObjectStorage = (*fakeObjectStorage)(nil)

func (f *fakeObjectStorage) GrantUpload(context.Context, uint, string, int64) (*UploadGrant, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeObjectStorage) Promote(context.Context, uint, string) (string, string, error) {
	return "", "", errors.New("not implemented")
}
func (f *fakeObjectStorage) Remove(_ context.Context, key string) error {
	if err := f.removeErr[key]; err != nil {
		return err
	}
	f.removed = append(f.removed, key)
	return nil
}
func (f *fakeObjectStorage) StaleTemporaryKeys(context.Context, time.Time) ([]string, error) {
	return f.staleTmp, nil
}

func TestSweepDeletesStorageBeforeRow(t *testing.T) {
	repo := &fakeUploadRepo{orphans: []models.Upload{
		{ID: 1, Key: "tmp/9/a.jpg"},
		{ID: 2, Key: "tmp/9/b.jpg"},
	}}
	store := &fakeObjectStorage{}
	sweeper := NewSweeper(repo, store, time.Hour, 24*time.Hour)

	sweeper.Sweep(context.Background())

	require.Equal(t, []string{"tmp/9/a.jpg", "tmp/9/b.jpg"}, store.removed)
	require.Equal(t, []uint{1, 2}, repo.deleted)
}

func TestSweepKeepsRowWhenObjectRemovalFails(t *testing.T) {
	repo := &fakeUploadRepo{orphans: []models.Upload{
		{ID: 1, Key: "tmp/9/a.jpg"},
		{ID: 2, Key: "tmp/9/b.jpg"},
	}}
	store := &fakeObjectStorage{
		removeErr: map[string]error{"tmp/9/a.jpg": errors.New("storage down")},
	}
	sweeper := NewSweeper(repo, store, time.Hour, 24*time.Hour)

	sweeper.Sweep(context.Background())

	// The failed object's row survives so the next sweep retries it.
	require.Equal(t, []uint{2}, repo.deleted)
	require.Equal(t, []string{"tmp/9/b.jpg"}, store.removed)
}

func TestSweepRemovesStaleTemporaryObjects(t *testing.T) {
	// Granted but never finalized: no database row exists, only the
	// object in the temporary namespace.
	repo := &fakeUploadRepo{}
	store := &fakeObjectStorage{staleTmp: []string{"tmp/3/x.png", "tmp/4/y.jpg"}}
	sweeper := NewSweeper(repo, store, time.Hour, 24*time.Hour)

	sweeper.Sweep(context.Background())

	require.Equal(t, []string{"tmp/3/x.png", "tmp/4/y.jpg"}, store.removed)
	require.Empty(t, repo.deleted)
}
