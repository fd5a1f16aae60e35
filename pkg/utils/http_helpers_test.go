package utils

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderFilterFromQuery(t *testing.T) {
	t.Run("значения по умолчанию", func(t *testing.T) {
		filter := ParseOrderFilterFromQuery(url.Values{})
		assert.Equal(t, DefaultLimit, filter.Limit)
		assert.Equal(t, 1, filter.Page)
		assert.Empty(t, filter.Search)
		assert.Nil(t, filter.DateRange.From)
		assert.Nil(t, filter.DateRange.To)
	})

	t.Run("limit зажимается сверху", func(t *testing.T) {
		filter := ParseOrderFilterFromQuery(url.Values{"limit": {"500"}})
		assert.Equal(t, MaxLimit, filter.Limit)
	})

	t.Run("непригодные limit и page молча заменяются на умолчания", func(t *testing.T) {
		filter := ParseOrderFilterFromQuery(url.Values{"limit": {"abc"}, "page": {"-2"}})
		assert.Equal(t, DefaultLimit, filter.Limit)
		assert.Equal(t, 1, filter.Page)
	})

	t.Run("поиск и статус обрезаются от пробелов", func(t *testing.T) {
		filter := ParseOrderFilterFromQuery(url.Values{"search": {"  maria "}, "status": {" pending "}, "branch_id": {"SP001"}})
		assert.Equal(t, "maria", filter.Search)
		assert.Equal(t, "pending", filter.Status)
		assert.Equal(t, "SP001", filter.BranchID)
	})

	t.Run("date_to растягивается до конца дня", func(t *testing.T) {
		filter := ParseOrderFilterFromQuery(url.Values{"date_from": {"2026-08-01"}, "date_to": {"2026-08-15"}})
		require.NotNil(t, filter.DateRange.From)
		require.NotNil(t, filter.DateRange.To)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *filter.DateRange.From)

		to := *filter.DateRange.To
		assert.Equal(t, 15, to.Day())
		assert.Equal(t, 23, to.Hour())
		assert.Equal(t, 59, to.Minute())

		// Заказ, выпущенный днём последнего дня, попадает в диапазон.
		noon := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
		assert.False(t, noon.After(to))
	})

	t.Run("непригодная дата игнорируется", func(t *testing.T) {
		filter := ParseOrderFilterFromQuery(url.Values{"date_from": {"15/08/2026"}})
		assert.Nil(t, filter.DateRange.From)
	})
}

func TestEndOfDay(t *testing.T) {
	start := time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)
	end := EndOfDay(start)

	assert.Equal(t, start.Day(), end.Day())
	assert.True(t, end.After(start))
	assert.True(t, end.Before(time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, int(time.Second-time.Nanosecond), end.Nanosecond())
}
