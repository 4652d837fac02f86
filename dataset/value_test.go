package dataset

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{"", Null()},
		{"   ", Null()},
		{"NaN", Null()},
		{"n/a", Null()},
		{"NULL", Null()},
		{"42", Int(42)},
		{" -7 ", Int(-7)},
		{"3.5", Float(3.5)},
		{"1e3", Float(1000)},
		{"Mysuru", String("Mysuru")},
		{"Kharif ", String("Kharif ")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Infer(tt.raw)
			assert.True(t, tt.want.Equal(got), "Infer(%q) = %#v, want %#v", tt.raw, got, tt.want)
		})
	}
}

func TestFromAny(t *testing.T) {
	assert.True(t, FromAny(nil).IsNull())
	assert.True(t, FromAny(int32(5)).Equal(Int(5)))
	assert.True(t, FromAny(uint8(9)).Equal(Int(9)))
	assert.True(t, FromAny(2.25).Equal(Float(2.25)))
	assert.True(t, FromAny(math.NaN()).IsNull())
	assert.True(t, FromAny([]byte("abc")).Equal(String("abc")))
	assert.True(t, FromAny(true).Equal(String("true")))
	assert.True(t, FromAny(json.Number("12")).Equal(Int(12)))
	assert.True(t, FromAny(json.Number("1.5")).Equal(Float(1.5)))
}

func TestValueNumbers(t *testing.T) {
	f, ok := Int(3).Float64()
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	i, ok := Float(2019).Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(2019), i)

	_, ok = Float(2019.5).Int64()
	assert.False(t, ok)

	_, ok = String("2019").Float64()
	assert.False(t, ok)
}

func TestValueJSON(t *testing.T) {
	b, err := json.Marshal([]Value{Null(), String("a"), Int(3), Float(2), Float(2.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `[null,"a",3,2.0,2.5]`, string(b))
	assert.Contains(t, string(b), "2.0")

	var got []Value
	require.NoError(t, json.Unmarshal(b, &got))
	require.Len(t, got, 5)
	assert.True(t, got[0].IsNull())
	assert.Equal(t, KindString, got[1].Kind())
	assert.Equal(t, KindInt, got[2].Kind())
	assert.Equal(t, KindFloat, got[4].Kind())
}
