package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Label(t *testing.T) {
	assert.Equal(t, "Kraft", Record{Code: "K", Description: "Kraft"}.Label())
	assert.Equal(t, "K", Record{Code: "K"}.Label())
}

func TestRecord_Same(t *testing.T) {
	a := Record{Code: "K", Description: "Kraft", Additional: []string{"x"}}
	b := Record{Code: "K", Description: "Kraft"}

	assert.True(t, a.Same(b))
	assert.False(t, a.Same(Record{Code: "K", Description: "Other"}))
}

func TestRecord_Matches(t *testing.T) {
	rec := Record{Code: "KP-001", Description: "Kraft Paper", Additional: []string{"Long", "80"}}

	assert.True(t, rec.Matches(""))
	assert.True(t, rec.Matches("kp-0"))
	assert.True(t, rec.Matches("kraft"))
	assert.True(t, rec.Matches("long"))
	assert.False(t, rec.Matches("duplex"))
}

func TestSet_Find(t *testing.T) {
	set := NewSet()
	set.Records[CategoryGrain] = []Record{{Code: "L", Description: "Long"}, {Code: "S", Description: "Short"}}

	rec, ok := set.Find(CategoryGrain, "S")
	assert.True(t, ok)
	assert.Equal(t, "Short", rec.Description)

	_, ok = set.Find(CategoryGrain, "")
	assert.False(t, ok)

	rec, ok = set.FindByDescription(CategoryGrain, "Long")
	assert.True(t, ok)
	assert.Equal(t, "L", rec.Code)

	assert.NoError(t, set.Failed(CategoryGrain))
	assert.NoError(t, Set{}.Failed(CategoryGrain))
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("sord_fhpgd_item")
	assert.True(t, ok)
	assert.Equal(t, CategoryItem, c)

	c, ok = ParseCategory("Burst Factors")
	assert.True(t, ok)
	assert.Equal(t, CategoryBF, c)
	assert.Equal(t, "burst factors", CategoryBF.Noun())

	_, ok = ParseCategory("nope")
	assert.False(t, ok)
}
