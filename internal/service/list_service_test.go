package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafcikJ/10x-memo/internal/database"
	"github.com/RafcikJ/10x-memo/internal/models"
	"github.com/RafcikJ/10x-memo/internal/repository"
)

func newItems(displays ...string) []NewItem {
	items := make([]NewItem, len(displays))
	for i, d := range displays {
		items[i] = NewItem{Position: i + 1, Display: d}
	}
	return items
}

func newListFixture(t *testing.T) (*ListService, *repository.TestRepository, *database.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewListService(repository.NewListRepository(db)), repository.NewTestRepository(db), db
}

func TestCreateListManual(t *testing.T) {
	svc, _, _ := newListFixture(t)

	created, err := svc.CreateList(testUserID, "My words", models.SourceManual, nil, newItems("Cat", "Dog", "Bird"))
	require.NoError(t, err)

	assert.Equal(t, "My words", created.List.Name)
	assert.Equal(t, models.SourceManual, created.List.Source)
	assert.False(t, created.List.IsLocked())
	require.Len(t, created.Items, 3)
	assert.Equal(t, 1, created.Items[0].Position)
	assert.Equal(t, "cat", created.Items[0].Normalized)
}

func TestCreateListValidation(t *testing.T) {
	svc, _, _ := newListFixture(t)
	animals := models.CategoryAnimals

	tests := []struct {
		name     string
		listName string
		source   models.ListSource
		category *string
		items    []NewItem
		field    string
	}{
		{"empty name", "  ", models.SourceManual, nil, newItems("Cat"), "name"},
		{"manual with category", "x", models.SourceManual, &animals, newItems("Cat"), "category"},
		{"ai without category", "x", models.SourceAI, nil, newItems("Cat"), "category"},
		{"unknown source", "x", models.ListSource("csv"), nil, newItems("Cat"), "source"},
		{"no items", "x", models.SourceManual, nil, nil, "items"},
		{"blank item", "x", models.SourceManual, nil, []NewItem{{Position: 1, Display: " "}}, "items"},
		{"duplicate positions", "x", models.SourceManual, nil, []NewItem{{Position: 1, Display: "Cat"}, {Position: 1, Display: "Dog"}}, "items"},
		{"gap in positions", "x", models.SourceManual, nil, []NewItem{{Position: 1, Display: "Cat"}, {Position: 3, Display: "Dog"}}, "items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateList(testUserID, tt.listName, tt.source, tt.category, tt.items)
			var vErr ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestListOwnershipScoping(t *testing.T) {
	svc, _, _ := newListFixture(t)

	created, err := svc.CreateList(testUserID, "mine", models.SourceManual, nil, newItems("Cat"))
	require.NoError(t, err)

	_, err = svc.GetList(created.List.ID, "3f6d5b1a-0000-4000-8000-000000000002")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestLockFreezesItemsButNotName(t *testing.T) {
	svc, testRepo, _ := newListFixture(t)

	created, err := svc.CreateList(testUserID, "locked soon", models.SourceManual, nil, newItems("Cat", "Dog", "Bird", "Fish", "Lion"))
	require.NoError(t, err)
	listID := created.List.ID

	// Completing the first test flips the one-way lock
	_, err = testRepo.RecordCompletion(listID, 4, 1, 5, 80, time.Now().UTC())
	require.NoError(t, err)

	list, err := svc.GetList(listID, testUserID)
	require.NoError(t, err)
	require.True(t, list.IsLocked())

	_, err = svc.AddItem(listID, testUserID, "Wolf")
	assert.ErrorIs(t, err, ErrListLocked)

	_, err = svc.UpdateItem(listID, created.Items[0].ID, testUserID, "Kitten")
	assert.ErrorIs(t, err, ErrListLocked)

	err = svc.DeleteItem(listID, created.Items[0].ID, testUserID)
	assert.ErrorIs(t, err, ErrListLocked)

	// Renaming and deleting the whole list stay allowed
	renamed, err := svc.RenameList(listID, testUserID, "still renameable")
	require.NoError(t, err)
	assert.Equal(t, "still renameable", renamed.Name)

	require.NoError(t, svc.DeleteList(listID, testUserID))
}

func TestDeleteItemRenumbersPositions(t *testing.T) {
	svc, _, db := newListFixture(t)
	listRepo := repository.NewListRepository(db)

	created, err := svc.CreateList(testUserID, "renumber", models.SourceManual, nil, newItems("Cat", "Dog", "Bird", "Fish"))
	require.NoError(t, err)
	listID := created.List.ID

	// Remove position 2; the tail shifts up to keep positions dense
	require.NoError(t, svc.DeleteItem(listID, created.Items[1].ID, testUserID))

	items, err := listRepo.GetListItems(listID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	wantDisplays := []string{"Cat", "Bird", "Fish"}
	for i, item := range items {
		assert.Equal(t, i+1, item.Position)
		assert.Equal(t, wantDisplays[i], item.Display)
	}
}

func TestAddItemAppendsAtNextPosition(t *testing.T) {
	svc, _, _ := newListFixture(t)

	created, err := svc.CreateList(testUserID, "grow", models.SourceManual, nil, newItems("Cat", "Dog"))
	require.NoError(t, err)

	item, err := svc.AddItem(created.List.ID, testUserID, "  Żółw  ")
	require.NoError(t, err)
	assert.Equal(t, 3, item.Position)
	assert.Equal(t, "Żółw", item.Display)
	assert.Equal(t, "zołw", Normalize("Żółw")) // folded and lowercased
}

func TestNormalizeFoldsDiacritics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cat", "cat"},
		{"  Café ", "cafe"},
		{"Über", "uber"},
		{"NIÑO", "nino"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}
