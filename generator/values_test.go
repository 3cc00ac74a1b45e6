package generator_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bean-forge/generator"
)

func TestValue_Conversions(t *testing.T) {
	v, err := generator.Value(generator.Constant(21.5), reflect.TypeFor[celsius]())
	require.NoError(t, err)
	assert.Equal(t, celsius(21.5), v.Interface())

	v, err = generator.Value(generator.Zero(), reflect.TypeFor[*int]())
	require.NoError(t, err)
	assert.True(t, v.IsNil())

	_, err = generator.Value(generator.Constant(65), reflect.TypeFor[string]())
	assert.Error(t, err, "integers are not turned into runes")

	v, err = generator.Value(generator.Constant(uuid.Nil), reflect.TypeFor[any]())
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[any](), v.Type())
}

func TestSequence(t *testing.T) {
	g := generator.Sequence(10, 5)

	var got []any
	for range 3 {
		v, err := g.Generate(reflect.TypeFor[int]())
		require.NoError(t, err)
		got = append(got, v)
	}

	assert.Equal(t, []any{10, 15, 20}, got)

	s := generator.StringSequence("user")
	a, _ := s.Generate(reflect.TypeFor[string]())
	b, _ := s.Generate(reflect.TypeFor[string]())
	assert.Equal(t, "user1", a)
	assert.Equal(t, "user2", b)
}

func TestEmptyCollection(t *testing.T) {
	g := generator.EmptyCollection()

	v, err := g.Generate(reflect.TypeFor[[]string]())
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)

	v, err = g.Generate(reflect.TypeFor[map[string]int]())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{}, v)

	_, err = g.Generate(reflect.TypeFor[int]())
	assert.Error(t, err)

	a, err := generator.EmptyArray().Generate(reflect.TypeFor[[3]int]())
	require.NoError(t, err)
	assert.Equal(t, [3]int{}, a)
}

func TestDelegate(t *testing.T) {
	r := generator.NewRegistry()
	generator.RegisterValueOf(r, 36.6)

	v, err := generator.Delegate(r, reflect.TypeFor[float64]()).Generate(reflect.TypeFor[celsius]())
	require.NoError(t, err)
	assert.Equal(t, celsius(36.6), v)
}

func TestRandomGenerators(t *testing.T) {
	f := generator.NewFaker(42)

	v, err := generator.RandomInt(f).Generate(reflect.TypeFor[int8]())
	require.NoError(t, err)
	assert.IsType(t, int8(0), v)

	_, err = generator.RandomInt(f).Generate(reflect.TypeFor[string]())
	assert.Error(t, err)

	v, err = generator.RandomFloat(f, 1, 2).Generate(reflect.TypeFor[celsius]())
	require.NoError(t, err)
	assert.IsType(t, celsius(0), v)
	assert.GreaterOrEqual(t, float64(v.(celsius)), 1.0)

	v, err = generator.RandomString(f, 8).Generate(reflect.TypeFor[string]())
	require.NoError(t, err)
	assert.Len(t, v, 8)

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	v, err = generator.RandomTime(f, start, end).Generate(reflect.TypeFor[time.Time]())
	require.NoError(t, err)
	assert.WithinRange(t, v.(time.Time), start, end)

	v, err = generator.UUIDString(f).Generate(reflect.TypeFor[string]())
	require.NoError(t, err)
	_, err = uuid.Parse(v.(string))
	assert.NoError(t, err)

	v, err = generator.AnyOf(f, "a", "b").Generate(reflect.TypeFor[string]())
	require.NoError(t, err)
	assert.True(t, strings.Contains("ab", v.(string)))

	_, err = generator.AnyOf(f).Generate(reflect.TypeFor[string]())
	assert.Error(t, err)
}
