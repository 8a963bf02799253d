package services

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"p9e.in/cqms/models"
)

func TestUploadInspectionFileRejectsExtension(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewFileService(db, store)

	for _, name := range []string{"malware.exe", "notes.txt", "archive.zip", "noextension"} {
		_, err := svc.UploadInspectionFile(context.Background(), 1, 0, name, strings.NewReader("x"))
		require.Error(t, err, name)
		assert.Equal(t, KindUnsupportedMedia, KindOf(err), name)
	}
}

func TestUploadInspectionFileAssociates(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewFileService(db, store)
	project := seedProject(t, db, store)

	inspection, err := NewInspectionService(db, store).Create(context.Background(), InspectionInput{
		ProjectID:      project.ID,
		Name:           "Footing rebar inspection",
		InspectionTime: nowJSONTime(),
		Location:       "Pier 3",
	})
	require.NoError(t, err)

	content := "%PDF-1.4 inspection checklist"
	result, err := svc.UploadInspectionFile(context.Background(), project.ID, inspection.ID,
		"checklist.pdf", strings.NewReader(content))
	require.NoError(t, err)
	assert.NotEmpty(t, result.FilePath)

	got, err := NewInspectionService(db, store).Get(context.Background(), inspection.ID)
	require.NoError(t, err)
	assert.Equal(t, result.FilePath, got.FilePath)

	filename, rc, err := svc.DownloadInspectionFile(context.Background(), inspection.ID)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Contains(t, filename, ".pdf")
}

func TestUploadInspectionFileMissingInspectionKeepsFile(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewFileService(db, store)
	project := seedProject(t, db, store)

	result, err := svc.UploadInspectionFile(context.Background(), project.ID, 999,
		"checklist.pdf", strings.NewReader("content"))
	require.NoError(t, err)

	_, statErr := os.Stat(result.FilePath)
	assert.NoError(t, statErr, "file stays stored even when the association misses")
}

func TestDownloadInspectionFileNotFound(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewFileService(db, store)
	project := seedProject(t, db, store)

	_, _, err := svc.DownloadInspectionFile(context.Background(), 999)
	assert.Equal(t, KindNotFound, KindOf(err))

	inspection, err := NewInspectionService(db, store).Create(context.Background(), InspectionInput{
		ProjectID:      project.ID,
		Name:           "Footing rebar inspection",
		InspectionTime: nowJSONTime(),
		Location:       "Pier 3",
	})
	require.NoError(t, err)

	// Record exists but never had a file uploaded.
	_, _, err = svc.DownloadInspectionFile(context.Background(), inspection.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUploadPhotoContentType(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewFileService(db, store)
	project := seedProject(t, db, store)

	_, err := svc.UploadPhoto(context.Background(), PhotoUploadInput{
		ProjectID:   project.ID,
		Filename:    "report.pdf",
		ContentType: "application/pdf",
	}, strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, KindUnsupportedMedia, KindOf(err))
	assert.EqualValues(t, 0, countRows(t, db, &models.Photo{}))
}

func TestUploadPhotoMissingProject(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewFileService(db, store)

	_, err := svc.UploadPhoto(context.Background(), PhotoUploadInput{
		ProjectID:   42,
		Filename:    "site.jpg",
		ContentType: "image/jpeg",
	}, strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.EqualValues(t, 0, countRows(t, db, &models.Photo{}))
}

func TestUploadPhotoRoundTrip(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewFileService(db, store)
	photos := NewPhotoService(db, store)
	project := seedProject(t, db, store)

	content := "jpeg-bytes"
	photo, err := svc.UploadPhoto(context.Background(), PhotoUploadInput{
		ProjectID:   project.ID,
		Filename:    "rebar.jpg",
		ContentType: "image/jpeg",
		Description: "rebar spacing at pier 3",
	}, strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "rebar.jpg", photo.Filename)
	assert.Equal(t, "rebar spacing at pier 3", photo.Description)

	filename, rc, err := photos.Download(context.Background(), photo.ID)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Equal(t, "rebar.jpg", filename)
}

func TestBulkUploadReportsPerItem(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewFileService(db, store)
	project := seedProject(t, db, store)

	items := []BulkItem{
		{
			Input: PhotoUploadInput{
				ProjectID:   project.ID,
				Filename:    "a.jpg",
				ContentType: "image/jpeg",
			},
			Reader: strings.NewReader("a"),
		},
		{
			Input: PhotoUploadInput{
				ProjectID:   project.ID,
				Filename:    "b.pdf",
				ContentType: "application/pdf",
			},
			Reader: strings.NewReader("b"),
		},
		{
			Input: PhotoUploadInput{
				ProjectID:   project.ID,
				Filename:    "c.png",
				ContentType: "image/png",
			},
			Reader: strings.NewReader("c"),
		},
	}

	results := svc.UploadPhotos(context.Background(), items)
	require.Len(t, results, 3)

	assert.True(t, results[0].OK)
	require.NotNil(t, results[0].Photo)

	assert.False(t, results[1].OK)
	assert.NotEmpty(t, results[1].Error)
	assert.Nil(t, results[1].Photo)

	assert.True(t, results[2].OK)

	assert.EqualValues(t, 2, countRows(t, db, &models.Photo{}))
}

func TestPhotoDeleteRemovesFile(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	files := NewFileService(db, store)
	photos := NewPhotoService(db, store)
	project := seedProject(t, db, store)

	photo, err := files.UploadPhoto(context.Background(), PhotoUploadInput{
		ProjectID:   project.ID,
		Filename:    "site.jpg",
		ContentType: "image/jpeg",
	}, strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, photos.Delete(context.Background(), photo.ID))

	_, statErr := os.Stat(photo.FilePath)
	assert.True(t, os.IsNotExist(statErr))
	assert.EqualValues(t, 0, countRows(t, db, &models.Photo{}))
}

func TestPhotoListFilters(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	files := NewFileService(db, store)
	photos := NewPhotoService(db, store)
	project := seedProject(t, db, store)

	inspection, err := NewInspectionService(db, store).Create(context.Background(), InspectionInput{
		ProjectID:      project.ID,
		Name:           "Footing rebar inspection",
		InspectionTime: nowJSONTime(),
		Location:       "Pier 3",
	})
	require.NoError(t, err)

	_, err = files.UploadPhoto(context.Background(), PhotoUploadInput{
		ProjectID:    project.ID,
		InspectionID: &inspection.ID,
		Filename:     "a.jpg",
		ContentType:  "image/jpeg",
	}, strings.NewReader("a"))
	require.NoError(t, err)

	_, err = files.UploadPhoto(context.Background(), PhotoUploadInput{
		ProjectID:   project.ID,
		Filename:    "b.jpg",
		ContentType: "image/jpeg",
	}, strings.NewReader("b"))
	require.NoError(t, err)

	all, err := photos.List(context.Background(), PhotoFilter{ProjectID: project.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := photos.List(context.Background(), PhotoFilter{InspectionID: inspection.ID})
	require.NoError(t, err)
	assert.Len(t, scoped, 1)
	assert.Equal(t, "a.jpg", scoped[0].Filename)
}
