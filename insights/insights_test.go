package insights

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agridash/dataset"
)

var (
	s = dataset.String
	i = dataset.Int
	f = dataset.Float
)

func cropTable() *dataset.Table {
	return dataset.MustNew([]string{"district", "crop", "year", "season", "yield_t_ha"}, [][]dataset.Value{
		{s("Mysuru"), s("Rice"), i(2019), s("Kharif"), f(2.0)},
		{s("Mysuru"), s("Rice"), i(2019), s("Rabi"), f(4.0)},
		{s("Mysuru"), s("Rice"), i(2020), s("Kharif"), f(3.0)},
		{s("Mandya"), s("Ragi"), i(2019), s("Kharif"), f(1.5)},
		{s("Mandya"), s("Rice"), i(2019), s("Kharif"), dataset.Null()},
		{dataset.Null(), s("Rice"), i(2019), s("Kharif"), f(9.9)},
	})
}

func rainTable() *dataset.Table {
	return dataset.MustNew([]string{"district", "year", "month", "rainfall_mm"}, [][]dataset.Value{
		{s("Mysuru"), i(2019), s("Jun"), f(100)},
		{s("Mysuru"), i(2019), s("Jul"), f(50.5)},
		{s("Mysuru"), i(2019), s("Aug"), dataset.Null()},
		{s("Mandya"), i(2019), s("Jun"), f(80)},
	})
}

func TestListDistinct(t *testing.T) {
	assert.Equal(t, []string{"Mandya", "Mysuru"}, ListDistinct(cropTable(), "district"))
	assert.Equal(t, []string{"Ragi", "Rice"}, ListDistinct(cropTable(), "crop"))
	assert.Equal(t, []string{}, ListDistinct(cropTable(), "soil"))
	assert.Equal(t, []string{}, ListDistinct(dataset.Empty(), "district"))
}

func TestAggregateYieldMeans(t *testing.T) {
	got, err := AggregateYield(cropTable(), []string{"Mysuru"}, []string{"Rice"}, []int{2019, 2020})
	require.NoError(t, err)

	assert.Equal(t, []string{"district", "crop", "year", "yield_t_ha"}, got.ColumnNames())
	require.Equal(t, 2, got.Len())
	assert.True(t, got.At(0, "year").Equal(i(2019)))
	assert.True(t, got.At(0, "yield_t_ha").Equal(f(3.0)))
	assert.True(t, got.At(1, "year").Equal(i(2020)))
	assert.True(t, got.At(1, "yield_t_ha").Equal(f(3.0)))
}

func TestAggregateYieldOrderingAndNulls(t *testing.T) {
	got, err := AggregateYield(cropTable(), []string{"Mysuru", "Mandya"}, []string{"Rice", "Ragi"}, []int{2019})
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())

	assert.Equal(t, "Mandya", got.At(0, "district").Text())
	assert.Equal(t, "Ragi", got.At(0, "crop").Text())
	assert.Equal(t, "Mandya", got.At(1, "district").Text())
	assert.Equal(t, "Rice", got.At(1, "crop").Text())
	assert.True(t, got.At(1, "yield_t_ha").IsNull())
	assert.Equal(t, "Mysuru", got.At(2, "district").Text())
}

func TestAggregateYieldEmptySelectors(t *testing.T) {
	got, err := AggregateYield(cropTable(), nil, []string{"Rice"}, []int{2019})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, 4, got.Width())

	got, err = AggregateYield(dataset.Empty(), []string{"Mysuru"}, []string{"Rice"}, []int{2019})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestAggregateYieldMissingColumn(t *testing.T) {
	noYield := dataset.MustNew([]string{"district", "crop", "year"}, [][]dataset.Value{
		{s("Mysuru"), s("Rice"), i(2019)},
	})
	_, err := AggregateYield(noYield, []string{"Mysuru"}, []string{"Rice"}, []int{2019})
	assert.True(t, errors.Is(err, dataset.ErrMissingColumn))
}

func TestCorrelate(t *testing.T) {
	got, err := Correlate(cropTable(), rainTable(), "Mysuru", "Rice")
	require.NoError(t, err)

	assert.Equal(t, []string{"district", "crop", "year", "season", "yield_t_ha", "total_rainfall_mm"}, got.ColumnNames())
	require.Equal(t, 3, got.Len(), "one output row per matching crop row")
	assert.True(t, got.At(0, "total_rainfall_mm").Equal(f(150.5)))
	assert.True(t, got.At(1, "total_rainfall_mm").Equal(f(150.5)))
	assert.True(t, got.At(2, "total_rainfall_mm").IsNull(), "no rainfall for 2020")
	assert.Equal(t, "Rabi", got.At(1, "season").Text())
}

func TestCorrelateNoMatches(t *testing.T) {
	got, err := Correlate(cropTable(), rainTable(), "Kodagu", "Coffee")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.True(t, got.Has("total_rainfall_mm"))

	got, err = Correlate(cropTable(), dataset.Empty(), "Mysuru", "Rice")
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())
	assert.True(t, got.At(0, "total_rainfall_mm").IsNull())

	got, err = Correlate(dataset.Empty(), rainTable(), "Mysuru", "Rice")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestCorrelateMissingRainfallColumn(t *testing.T) {
	bad := dataset.MustNew([]string{"district", "year"}, [][]dataset.Value{{s("Mysuru"), i(2019)}})
	_, err := Correlate(cropTable(), bad, "Mysuru", "Rice")
	assert.True(t, errors.Is(err, dataset.ErrMissingColumn))
}

func TestRainfallTable(t *testing.T) {
	got, err := RainfallTable(rainTable())
	require.NoError(t, err)
	assert.Equal(t, []string{"district", "year", "total_rainfall_mm"}, got.ColumnNames())
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "Mandya", got.At(0, "district").Text())
	assert.True(t, got.At(0, "total_rainfall_mm").Equal(f(80)))
	assert.True(t, got.At(1, "total_rainfall_mm").Equal(f(150.5)))
}

func TestAggregateYieldAveragesDuplicateYears(t *testing.T) {
	crops := dataset.MustNew([]string{"district", "crop", "year", "yield_t_ha"}, [][]dataset.Value{
		{s("Mysuru"), s("Rice"), i(2020), f(3.0)},
		{s("Mysuru"), s("Rice"), i(2020), f(5.0)},
		{s("Mysuru"), s("Rice"), i(2021), f(4.0)},
	})
	got, err := AggregateYield(crops, []string{"Mysuru"}, []string{"Rice"}, []int{2020, 2021})
	require.NoError(t, err)

	want := dataset.MustNew([]string{"district", "crop", "year", "yield_t_ha"}, [][]dataset.Value{
		{s("Mysuru"), s("Rice"), i(2020), f(4.0)},
		{s("Mysuru"), s("Rice"), i(2021), f(4.0)},
	})
	assert.True(t, want.Equal(got))
}

func TestCorrelateSuffixesCollidingTotals(t *testing.T) {
	crops := dataset.MustNew([]string{"district", "crop", "year", "total_rainfall_mm"}, [][]dataset.Value{
		{s("Mysuru"), s("Rice"), i(2019), f(1.0)},
	})
	got, err := Correlate(crops, rainTable(), "Mysuru", "Rice")
	require.NoError(t, err)

	assert.Equal(t, []string{"district", "crop", "year", "total_rainfall_mm_x", "total_rainfall_mm_y"}, got.ColumnNames())
	require.Equal(t, 1, got.Len())
	assert.True(t, got.At(0, "total_rainfall_mm_x").Equal(f(1.0)))
	assert.True(t, got.At(0, "total_rainfall_mm_y").Equal(f(150.5)))
}

func TestRainfallTableGapsSumToZero(t *testing.T) {
	rain := dataset.MustNew([]string{"district", "year", "rainfall_mm"}, [][]dataset.Value{
		{s("Hassan"), i(2021), dataset.Null()},
		{s("Hassan"), i(2022), f(12)},
		{s("Hassan"), dataset.Null(), f(99)},
	})
	got, err := RainfallTable(rain)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.True(t, got.At(0, "total_rainfall_mm").Equal(f(0)))
	assert.True(t, got.At(1, "total_rainfall_mm").Equal(f(12)))
}
