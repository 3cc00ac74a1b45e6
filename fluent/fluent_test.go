package fluent_test

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bean-forge/beanerr"
	"bean-forge/builder"
	"bean-forge/fluent"
	"bean-forge/generator"
)

type Person struct {
	Name     string
	Age      int
	Nickname string
}

type Profile struct {
	Name  string
	Motto string
}

type PersonCommand struct {
	WithName      func(string) *PersonCommand
	WithAge       func() *PersonCommand
	WithNickname  func(generator.Generator) *PersonCommand
	GenerateValue func(...string) *PersonCommand
	Load          func(any, ...string) *PersonCommand
	Fill          func() *PersonCommand
	Construct     func() (*Person, error)
	Save          func(context.Context) (*Person, error)
	Err           func() error
}

func newBuilder() *builder.Builder {
	return builder.New().RegisterValue(reflect.TypeFor[int](), 42)
}

func TestBind_ConventionCommands(t *testing.T) {
	cmd, err := fluent.Bind[PersonCommand](builder.Start[Person](newBuilder()))
	require.NoError(t, err)

	p, err := cmd.WithName("Jan").WithAge().WithNickname(generator.Constant("JJ")).Construct()
	require.NoError(t, err)
	assert.Equal(t, &Person{Name: "Jan", Age: 42, Nickname: "JJ"}, p)
}

func TestBind_PassThrough(t *testing.T) {
	cmd, err := fluent.Bind[PersonCommand](builder.Start[Person](newBuilder()))
	require.NoError(t, err)

	p, err := cmd.Load(Person{Name: "Ann", Age: 7, Nickname: "A"}, "nickname").GenerateValue("age").Fill().Construct()
	require.NoError(t, err)
	assert.Equal(t, &Person{Name: "Ann", Age: 42, Nickname: "value"}, p)
}

func TestBind_SaveWithoutSaver(t *testing.T) {
	cmd, err := fluent.Bind[PersonCommand](builder.Start[Person](newBuilder()))
	require.NoError(t, err)

	p, err := cmd.Fill().Save(context.Background())
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, beanerr.IsUnsupportedOperation(err))
}

func TestBind_ErrorsStayInSession(t *testing.T) {
	type command struct {
		WithMissing func(int) *command
		Err         func() error
	}

	cmd, err := fluent.Bind[command](builder.Start[Person](newBuilder()))
	require.NoError(t, err)
	assert.ErrorIs(t, cmd.WithMissing(1).Err(), builder.ErrUnknownProperty)
}

func TestBind_CustomPrefixes(t *testing.T) {
	type command struct {
		SetName   func(string) *command
		Construct func() (any, error)
	}

	cmd, err := fluent.Bind[command](builder.Start[Person](newBuilder()), fluent.Prefixes("Set"))
	require.NoError(t, err)

	v, err := cmd.SetName("Jan").Construct()
	require.NoError(t, err)
	assert.Equal(t, &Person{Name: "Jan"}, v)

	_, err = fluent.Bind[command](builder.Start[Person](newBuilder()))
	assert.ErrorContains(t, err, "SetName")
}

func TestBind_InvalidCommandTypes(t *testing.T) {
	s := func() *builder.Session { return builder.Start[Person](newBuilder()) }

	type notFunc struct{ WithName string }

	type unmatched struct{ Finish func() }

	type wrongResult struct{ WithName func(string) string }

	type twoArgs struct{ WithName func(string, string) *twoArgs }

	type wrongArity struct{ WithValue func(string) *wrongArity }

	type wrongSession struct{ Fill func() *Person }

	_, err := fluent.Bind[notFunc](s())
	assert.ErrorContains(t, err, "not a func field")

	_, err = fluent.Bind[unmatched](s())
	assert.ErrorContains(t, err, "matches no session method")

	_, err = fluent.Bind[wrongResult](s())
	assert.ErrorContains(t, err, "must return")

	_, err = fluent.Bind[twoArgs](s())
	assert.ErrorContains(t, err, "at most one argument")

	_, err = fluent.Bind[wrongArity](s())
	assert.ErrorContains(t, err, "parameters")

	_, err = fluent.Bind[wrongSession](s())
	assert.ErrorContains(t, err, "result 0")

	_, err = fluent.Bind[int](s())
	assert.ErrorContains(t, err, "not a struct")
}

func TestBind_FollowsMapTo(t *testing.T) {
	type command struct {
		WithName  func(string) *command
		MapTo     func(reflect.Type) *command
		Fill      func() *command
		Construct func() (any, error)
	}

	cmd, err := fluent.Bind[command](builder.Start[Person](newBuilder()))
	require.NoError(t, err)

	v, err := cmd.WithName("Jan").MapTo(reflect.TypeFor[Profile]()).Fill().Construct()
	require.NoError(t, err)
	assert.Equal(t, &Profile{Name: "Jan", Motto: "value"}, v)
}

func TestAdapter_Call(t *testing.T) {
	a := fluent.NewAdapter(builder.Start[Person](newBuilder()))

	got, err := a.Call("WithName", "Jan")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = a.Call("WithAge")
	require.NoError(t, err)
	_, err = a.Call("WithNickname", generator.Constant("JJ"))
	require.NoError(t, err)
	_, err = a.Call("WithValue", "name", "Jan!")
	require.NoError(t, err)

	v, err := a.Call("Construct")
	require.NoError(t, err)
	assert.Equal(t, &Person{Name: "Jan!", Age: 42, Nickname: "JJ"}, v)

	_, err = a.Call("Err")
	require.NoError(t, err)

	_, err = a.Call("Fill")
	require.NoError(t, err)

	_, err = a.Call("Err")
	assert.ErrorIs(t, err, builder.ErrSessionFinalized)
}

func TestAdapter_CallErrors(t *testing.T) {
	a := fluent.NewAdapter(builder.Start[Person](newBuilder()))

	_, err := a.Call("Finish")
	assert.ErrorContains(t, err, "matches no session method")

	_, err = a.Call("WithName", "a", "b")
	assert.ErrorContains(t, err, "at most one argument")

	_, err = a.Call("WithValue", "name")
	assert.ErrorContains(t, err, "takes 2 arguments")

	_, err = a.Call("WithAge", "old")
	assert.Error(t, err)
	assert.ErrorIs(t, a.Session().Err(), err)
}

func TestAdapter_FollowsMapTo(t *testing.T) {
	a := fluent.NewAdapter(builder.Start[Person](newBuilder()))

	_, err := a.Call("WithName", "Jan")
	require.NoError(t, err)
	_, err = a.Call("MapTo", reflect.TypeFor[Profile]())
	require.NoError(t, err)
	_, err = a.Call("GenerateValue", "motto")
	require.NoError(t, err)

	v, err := a.Call("Build")
	require.NoError(t, err)
	assert.Equal(t, &Profile{Name: "Jan", Motto: "value"}, v)
}

func TestPropertyName(t *testing.T) {
	assert.Equal(t, "fullName", fluent.PropertyName("WithFullName", "With"))
	assert.Equal(t, "iD", fluent.PropertyName("WithID", "With"))
	assert.Equal(t, "name", fluent.PropertyName("Name", "With"))
}

// Stripping the prefix keeps everything after the first rune unchanged.
func TestPropertyName_Property(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("only the first rune is lower-cased", prop.ForAll(
		func(head rune, tail string) bool {
			name := fluent.PropertyName("With"+string(head)+tail, "With")

			return strings.HasPrefix(name, string(unicode.ToLower(head))) && strings.TrimPrefix(name, string(unicode.ToLower(head))) == tail
		},
		gen.AlphaUpperChar(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
