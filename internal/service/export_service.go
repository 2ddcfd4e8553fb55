package service

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/RafcikJ/10x-memo/internal/models"
	"github.com/RafcikJ/10x-memo/internal/repository"
)

// ExportService writes a user's lists, items and test history to an Excel
// workbook, one sheet per concern. Used by the offline export tool.
type ExportService struct {
	listRepo *repository.ListRepository
	testRepo *repository.TestRepository

	// pageSize bounds each repository read while paging through all of a
	// user's lists; shrunk in tests
	pageSize int
}

// NewExportService creates a new export service
func NewExportService(listRepo *repository.ListRepository, testRepo *repository.TestRepository) *ExportService {
	return &ExportService{listRepo: listRepo, testRepo: testRepo, pageSize: 100}
}

// ExportUserData writes the user's data to outputPath as .xlsx
func (s *ExportService) ExportUserData(userID, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	listSheet := "Lists"
	f.SetSheetName("Sheet1", listSheet)
	writeRow(f, listSheet, 1, []interface{}{"ID", "Name", "Source", "Category", "Locked", "Last Score", "Last Tested", "Created"})

	itemSheet := "Items"
	if _, err := f.NewSheet(itemSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	writeRow(f, itemSheet, 1, []interface{}{"List ID", "List Name", "Position", "Display"})

	testSheet := "Tests"
	if _, err := f.NewSheet(testSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	writeRow(f, testSheet, 1, []interface{}{"List ID", "List Name", "Correct", "Wrong", "Items", "Score", "Completed"})

	listRow, itemRow, testRow := 2, 2, 2
	offset := 0
	for {
		lists, err := s.listRepo.GetUserLists(userID, s.pageSize, offset)
		if err != nil {
			return fmt.Errorf("failed to load lists: %w", err)
		}

		for i := range lists {
			if err := s.writeList(f, &lists[i], listSheet, itemSheet, testSheet, &listRow, &itemRow, &testRow); err != nil {
				return err
			}
		}

		// A short page means there is nothing left to fetch
		if len(lists) < s.pageSize {
			break
		}
		offset += s.pageSize
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (s *ExportService) writeList(f *excelize.File, list *models.WordList, listSheet, itemSheet, testSheet string, listRow, itemRow, testRow *int) error {
	category := ""
	if list.Category != nil {
		category = *list.Category
	}
	lastScore := ""
	if list.LastScore != nil {
		lastScore = fmt.Sprintf("%d", *list.LastScore)
	}
	lastTested := ""
	if list.LastTestedAt != nil {
		lastTested = list.LastTestedAt.Format(time.RFC3339)
	}

	writeRow(f, listSheet, *listRow, []interface{}{
		list.ID, list.Name, string(list.Source), category,
		list.IsLocked(), lastScore, lastTested,
		list.CreatedAt.Format(time.RFC3339),
	})
	*listRow++

	items, err := s.listRepo.GetListItems(list.ID)
	if err != nil {
		return fmt.Errorf("failed to load items for list %d: %w", list.ID, err)
	}
	for _, item := range items {
		writeRow(f, itemSheet, *itemRow, []interface{}{list.ID, list.Name, item.Position, item.Display})
		*itemRow++
	}

	tests, err := s.testRepo.GetListTests(list.ID)
	if err != nil {
		return fmt.Errorf("failed to load tests for list %d: %w", list.ID, err)
	}
	for _, t := range tests {
		writeRow(f, testSheet, *testRow, []interface{}{
			list.ID, list.Name, t.Correct, t.Wrong, t.ItemsCount, t.Score,
			t.CompletedAt.Format(time.RFC3339),
		})
		*testRow++
	}

	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return
	}
	_ = f.SetSheetRow(sheet, cell, &values)
}
