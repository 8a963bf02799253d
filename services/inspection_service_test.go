package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"p9e.in/cqms/models"
)

func TestInspectionCreateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewInspectionService(db, store)
	project := seedProject(t, db, store)

	when := nowJSONTime()
	created, err := svc.Create(context.Background(), InspectionInput{
		ProjectID:      project.ID,
		Name:           "Footing rebar inspection",
		InspectionTime: when,
		Location:       "Pier 3",
		Passed:         true,
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Footing rebar inspection", got.Name)
	assert.True(t, got.Passed)
	assert.True(t, time.Time(got.InspectionTime).Equal(time.Time(when)))
	assert.Empty(t, got.FilePath)
}

func TestInspectionCreateMissingProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewInspectionService(db, newTestStore(t))

	_, err := svc.Create(context.Background(), InspectionInput{
		ProjectID:      42,
		Name:           "Footing rebar inspection",
		InspectionTime: nowJSONTime(),
		Location:       "Pier 3",
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.EqualValues(t, 0, countRows(t, db, &models.Inspection{}))
}

func TestInspectionCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewInspectionService(db, newTestStore(t))

	_, err := svc.Create(context.Background(), InspectionInput{ProjectID: 1})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Fields, "name")
	assert.Contains(t, svcErr.Fields, "inspection_time")
	assert.Contains(t, svcErr.Fields, "location")
}

func TestInspectionPartialUpdate(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewInspectionService(db, store)
	project := seedProject(t, db, store)

	created, err := svc.Create(context.Background(), InspectionInput{
		ProjectID:      project.ID,
		Name:           "Footing rebar inspection",
		InspectionTime: nowJSONTime(),
		Location:       "Pier 3",
	})
	require.NoError(t, err)

	passed := true
	updated, err := svc.Update(context.Background(), created.ID, InspectionPatch{Passed: &passed})
	require.NoError(t, err)
	assert.True(t, updated.Passed)
	assert.Equal(t, "Footing rebar inspection", updated.Name)
	require.NotNil(t, updated.UpdatedAt)
}

func TestInspectionDelete(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewInspectionService(db, store)
	project := seedProject(t, db, store)

	created, err := svc.Create(context.Background(), InspectionInput{
		ProjectID:      project.ID,
		Name:           "Footing rebar inspection",
		InspectionTime: nowJSONTime(),
		Location:       "Pier 3",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}
