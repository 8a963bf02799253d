package services

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"p9e.in/cqms/models"
)

func TestProjectCreateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, newTestStore(t))

	created, err := svc.Create(context.Background(), ProjectInput{
		Name:           "Harbor Expansion",
		ContractNumber: "CT-2024-042",
		Contractor:     "Pacific Marine Works",
		Location:       "East Harbor",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Nil(t, created.UpdatedAt, "updated_at must stay null until the first update")

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harbor Expansion", got.Name)
	assert.Equal(t, "CT-2024-042", got.ContractNumber)
	assert.Equal(t, "Pacific Marine Works", got.Contractor)
	assert.Equal(t, "East Harbor", got.Location)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestProjectCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, newTestStore(t))

	_, err := svc.Create(context.Background(), ProjectInput{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Fields, "name")
	assert.Contains(t, svcErr.Fields, "contract_number")
	assert.Contains(t, svcErr.Fields, "contractor")
	assert.Contains(t, svcErr.Fields, "location")

	assert.EqualValues(t, 0, countRows(t, db, &models.Project{}))
}

func TestProjectDuplicateContractNumber(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, newTestStore(t))

	in := ProjectInput{
		Name:           "Harbor Expansion",
		ContractNumber: "CT-2024-042",
		Contractor:     "Pacific Marine Works",
		Location:       "East Harbor",
	}
	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	in.Name = "Harbor Expansion Phase II"
	_, err = svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.EqualValues(t, 1, countRows(t, db, &models.Project{}))
}

func TestProjectPartialUpdate(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewProjectService(db, store)
	project := seedProject(t, db, store)

	contractor := "Northgate Construction"
	updated, err := svc.Update(context.Background(), project.ID, ProjectPatch{Contractor: &contractor})
	require.NoError(t, err)

	assert.Equal(t, "Northgate Construction", updated.Contractor)
	assert.Equal(t, project.Name, updated.Name)
	assert.Equal(t, project.ContractNumber, updated.ContractNumber)
	assert.Equal(t, project.Location, updated.Location)
	require.NotNil(t, updated.UpdatedAt)
}

func TestProjectUpdateNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, newTestStore(t))

	name := "anything"
	_, err := svc.Update(context.Background(), 999, ProjectPatch{Name: &name})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestProjectGetPreloadsRelations(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewProjectService(db, store)
	project := seedProject(t, db, store)
	item := seedContractItem(t, db, project.ID)

	_, err := NewQualityTestService(db).Create(context.Background(), QualityTestInput{
		ProjectID:      project.ID,
		ContractItemID: item.ID,
		Name:           "Concrete strength",
		TestItem:       "28-day compressive strength",
		TestSets:       3,
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Len(t, got.ContractItems, 1)
	assert.Len(t, got.Tests, 1)
}

func TestProjectDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewProjectService(db, store)
	files := NewFileService(db, store)

	project := seedProject(t, db, store)
	item := seedContractItem(t, db, project.ID)

	_, err := NewQualityTestService(db).Create(context.Background(), QualityTestInput{
		ProjectID:      project.ID,
		ContractItemID: item.ID,
		Name:           "Concrete strength",
		TestItem:       "28-day compressive strength",
		TestSets:       3,
	})
	require.NoError(t, err)

	inspection, err := NewInspectionService(db, store).Create(context.Background(), InspectionInput{
		ProjectID:      project.ID,
		Name:           "Footing rebar inspection",
		InspectionTime: nowJSONTime(),
		Location:       "Pier 3",
	})
	require.NoError(t, err)

	result, err := files.UploadInspectionFile(context.Background(), project.ID, inspection.ID,
		"checklist.pdf", strings.NewReader("%PDF-1.4 checklist"))
	require.NoError(t, err)

	photo, err := files.UploadPhoto(context.Background(), PhotoUploadInput{
		ProjectID:   project.ID,
		Filename:    "rebar.jpg",
		ContentType: "image/jpeg",
	}, strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), project.ID))

	assert.EqualValues(t, 0, countRows(t, db, &models.Project{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.ContractItem{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.QualityTest{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Inspection{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Photo{}))

	_, statErr := os.Stat(result.FilePath)
	assert.True(t, os.IsNotExist(statErr), "inspection file should be removed with the project")
	_, statErr = os.Stat(photo.FilePath)
	assert.True(t, os.IsNotExist(statErr), "photo file should be removed with the project")
}

func TestProjectDeleteNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, newTestStore(t))

	err := svc.Delete(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestProjectListWindow(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewProjectService(db, store)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), ProjectInput{
			Name:           "Project",
			ContractNumber: "CT-2024-10" + string(rune('0'+i)),
			Contractor:     "Contractor",
			Location:       "Site",
		})
		require.NoError(t, err)
	}

	page, err := svc.List(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.EqualValues(t, 2, page[0].ID)
	assert.EqualValues(t, 3, page[1].ID)
}
