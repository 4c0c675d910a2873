package services

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/spendfolio/src/models"
)

func sampleResult() *models.CompileResult {
	return &models.CompileResult{
		RunID: "run-1",
		Records: []models.NormalizedRecord{
			{ID: "Chase__a.csv__0", Source: "Chase", Date: "01/15/2024", Item: "WHOLE FOODS", Amount: decimal.RequireFromString("-54.12"), Category: models.CategoryGroceries, Spender: "ME"},
			{ID: "Chase__a.csv__1", Source: "Chase", Date: "01/16/2024", Item: "SHELL", Amount: decimal.RequireFromString("-40"), Category: models.CategoryOther, Spender: "ME"},
		},
		FileErrors: []models.FileError{},
		FileCount:  1,
	}
}

func TestRunStore_SaveGetClear(t *testing.T) {
	t.Parallel()
	store := NewRunStore(NewRunCache(time.Minute))

	_, err := store.Get("s1")
	require.ErrorIs(t, err, ErrRunNotFound)

	store.Save("s1", sampleResult())
	got, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	assert.Len(t, got.Records, 2)

	_, err = store.Get("s2")
	assert.ErrorIs(t, err, ErrRunNotFound, "sessions are isolated")

	store.Clear("s1")
	_, err = store.Get("s1")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()
	store := NewRunStore(NewRunCache(time.Minute))
	store.Save("s1", sampleResult())

	first, err := store.Get("s1")
	require.NoError(t, err)
	first.Records[0].Category = models.CategoryTravel

	second, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryGroceries, second.Records[0].Category)
}

func TestRunStore_SaveReplacesPreviousRun(t *testing.T) {
	t.Parallel()
	store := NewRunStore(NewRunCache(time.Minute))
	store.Save("s1", sampleResult())
	store.Save("s1", &models.CompileResult{RunID: "run-2"})

	got, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.RunID)
	assert.NotNil(t, got.Records)
	assert.Empty(t, got.Records)
}

func TestRunStore_OverrideCategory(t *testing.T) {
	t.Parallel()
	store := NewRunStore(NewRunCache(time.Minute))
	store.Save("s1", sampleResult())

	rec, err := store.OverrideCategory("s1", "Chase__a.csv__1", "Transport")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTransport, rec.Category)

	got, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTransport, got.Records[1].Category)
	assert.Equal(t, "SHELL", got.Records[1].Item, "only the category changes")
	assert.True(t, decimal.RequireFromString("-40").Equal(got.Records[1].Amount))
	assert.Equal(t, models.CategoryGroceries, got.Records[0].Category)
}

func TestRunStore_OverrideCategoryErrors(t *testing.T) {
	t.Parallel()
	store := NewRunStore(NewRunCache(time.Minute))

	_, err := store.OverrideCategory("s1", "Chase__a.csv__0", "Transport")
	require.ErrorIs(t, err, ErrRunNotFound)

	store.Save("s1", sampleResult())

	_, err = store.OverrideCategory("s1", "Chase__a.csv__0", "transport")
	require.ErrorIs(t, err, ErrInvalidCategory, "names are case-sensitive")

	_, err = store.OverrideCategory("s1", "Chase__a.csv__9", "Transport")
	require.ErrorIs(t, err, ErrRecordNotFound)

	got, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryGroceries, got.Records[0].Category)
}

func TestRunStore_ConcurrentOverrides(t *testing.T) {
	t.Parallel()
	store := NewRunStore(NewRunCache(time.Minute))
	store.Save("s1", sampleResult())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "Chase__a.csv__0"
			if i%2 == 1 {
				id = "Chase__a.csv__1"
			}
			_, err := store.OverrideCategory("s1", id, "Bills")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.Get("s1")
	require.NoError(t, err)
	for _, r := range got.Records {
		assert.Equal(t, models.CategoryBills, r.Category)
	}
}
