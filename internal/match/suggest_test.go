package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"pricecents", "totalcents", 5},
		{"straße", "strasse", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "fullname", Normalize("GetFullName"))
	assert.Equal(t, "fullname", Normalize("full_name"))
	assert.Equal(t, "fullname", Normalize("fullName"))
	assert.Equal(t, "active", Normalize("IsActive"))
	assert.Equal(t, "settle", Normalize("Settle"))
	assert.Equal(t, "get", Normalize("Get"))
	assert.Equal(t, "storeorder", Normalize("store.Order"))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("email", "GetEmail"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 0.8, Similarity("emal", "email"), 1e-9)
	assert.Less(t, Similarity("sku", "orderedAt"), DefaultThreshold)
}

func TestSuggest(t *testing.T) {
	candidates := []string{"fullName", "email", "address", "isActive", "emailAddress"}

	assert.Equal(t, []string{"email"}, Suggest("emal", candidates, 0))
	assert.Equal(t, []string{"address"}, Suggest("adress", candidates, 1))
	assert.Equal(t, []string{"fullName"}, Suggest("full_name", candidates, 3))
	assert.Empty(t, Suggest("zzz", candidates, 3))
	assert.Empty(t, Suggest("email", nil, 3))
}
