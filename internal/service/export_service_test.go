package service

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/RafcikJ/10x-memo/internal/models"
	"github.com/RafcikJ/10x-memo/internal/repository"
)

// Users with more lists than one repository page must still get a full export
func TestExportPagesThroughAllLists(t *testing.T) {
	db := newTestDB(t)
	listRepo := repository.NewListRepository(db)
	testRepo := repository.NewTestRepository(db)
	listService := NewListService(listRepo)

	svc := NewExportService(listRepo, testRepo)
	svc.pageSize = 2

	var firstListID int64
	for i := 1; i <= 5; i++ {
		created, err := listService.CreateList(
			testUserID, fmt.Sprintf("list %d", i), models.SourceManual, nil,
			newItems(fmt.Sprintf("Word %d", i)),
		)
		require.NoError(t, err)
		if i == 1 {
			firstListID = created.List.ID
		}
	}

	_, err := testRepo.RecordCompletion(firstListID, 1, 0, 1, 100, time.Now().UTC())
	require.NoError(t, err)

	outputPath := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, svc.ExportUserData(testUserID, outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	listRows, err := f.GetRows("Lists")
	require.NoError(t, err)
	assert.Len(t, listRows, 6, "header plus one row per list")

	itemRows, err := f.GetRows("Items")
	require.NoError(t, err)
	assert.Len(t, itemRows, 6, "header plus one row per item")

	testRows, err := f.GetRows("Tests")
	require.NoError(t, err)
	assert.Len(t, testRows, 2, "header plus the one recorded test")
}

func TestExportEmptyUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(repository.NewListRepository(db), repository.NewTestRepository(db))

	outputPath := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, svc.ExportUserData(testUserID, outputPath))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	listRows, err := f.GetRows("Lists")
	require.NoError(t, err)
	assert.Len(t, listRows, 1, "header only")
}
