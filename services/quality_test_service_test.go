package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"p9e.in/cqms/models"
)

func TestQualityTestCreateAndListByProject(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewQualityTestService(db)

	project := seedProject(t, db, store)
	item := seedContractItem(t, db, project.ID)

	created, err := svc.Create(context.Background(), QualityTestInput{
		ProjectID:      project.ID,
		ContractItemID: item.ID,
		Name:           "Concrete strength",
		TestItem:       "28-day compressive strength",
		TestSets:       3,
		TestResult:     "35.2 MPa, pass",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	tests, err := svc.ListByProject(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, created.ID, tests[0].ID)

	tests, err = svc.ListByContractItem(context.Background(), item.ID)
	require.NoError(t, err)
	require.Len(t, tests, 1)
}

func TestQualityTestCreateMissingProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewQualityTestService(db)

	_, err := svc.Create(context.Background(), QualityTestInput{
		ProjectID:      42,
		ContractItemID: 7,
		Name:           "Concrete strength",
		TestItem:       "28-day compressive strength",
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.EqualValues(t, 0, countRows(t, db, &models.QualityTest{}))
}

func TestQualityTestCreateMissingContractItem(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewQualityTestService(db)
	project := seedProject(t, db, store)

	_, err := svc.Create(context.Background(), QualityTestInput{
		ProjectID:      project.ID,
		ContractItemID: 999,
		Name:           "Concrete strength",
		TestItem:       "28-day compressive strength",
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.EqualValues(t, 0, countRows(t, db, &models.QualityTest{}))
}

func TestQualityTestPartialUpdate(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewQualityTestService(db)

	project := seedProject(t, db, store)
	item := seedContractItem(t, db, project.ID)
	created, err := svc.Create(context.Background(), QualityTestInput{
		ProjectID:      project.ID,
		ContractItemID: item.ID,
		Name:           "Concrete strength",
		TestItem:       "28-day compressive strength",
		TestSets:       3,
	})
	require.NoError(t, err)

	result := "38.1 MPa, pass"
	updated, err := svc.Update(context.Background(), created.ID, QualityTestPatch{TestResult: &result})
	require.NoError(t, err)
	assert.Equal(t, result, updated.TestResult)
	assert.Equal(t, "Concrete strength", updated.Name)
	assert.Equal(t, 3, updated.TestSets)
	require.NotNil(t, updated.UpdatedAt)

	negative := -1
	_, err = svc.Update(context.Background(), created.ID, QualityTestPatch{TestSets: &negative})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestQualityTestDelete(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewQualityTestService(db)

	project := seedProject(t, db, store)
	item := seedContractItem(t, db, project.ID)
	created, err := svc.Create(context.Background(), QualityTestInput{
		ProjectID:      project.ID,
		ContractItemID: item.ID,
		Name:           "Concrete strength",
		TestItem:       "28-day compressive strength",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	assert.Equal(t, KindNotFound, KindOf(err))

	err = svc.Delete(context.Background(), created.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}
