package beanerr_test

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bean-forge/beanerr"
)

type order struct{}

func TestErrorMessageCarriesContext(t *testing.T) {
	err := beanerr.NewInconsistentAccessor(reflect.TypeFor[order](), "status", "got PAID, want PENDING")

	assert.Equal(t,
		"beanerr: INCONSISTENT_ACCESSOR [beanerr_test.order] status: got PAID, want PENDING",
		err.Error())
}

func TestErrorMessageWithoutType(t *testing.T) {
	err := beanerr.New(beanerr.UnsupportedOperation, nil, "no saver")

	assert.Equal(t, "beanerr: UNSUPPORTED_OPERATION: no saver", err.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	err := beanerr.NewConstruction(reflect.TypeFor[order](), "constructor failed", io.ErrUnexpectedEOF)

	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), io.ErrUnexpectedEOF.Error())
}

func TestClassSentinels(t *testing.T) {
	typ := reflect.TypeFor[order]()

	cases := []struct {
		err   error
		is    func(error) bool
		class beanerr.Class
	}{
		{beanerr.NewResolution(typ), beanerr.IsResolution, beanerr.Resolution},
		{beanerr.NewConstruction(typ, "x", nil), beanerr.IsConstruction, beanerr.Construction},
		{beanerr.NewUnsupportedOperation(typ, "x"), beanerr.IsUnsupportedOperation, beanerr.UnsupportedOperation},
		{beanerr.NewInconsistentAccessor(typ, "p", "x"), beanerr.IsInconsistentAccessor, beanerr.InconsistentAccessor},
		{beanerr.NewGenerationUnsupported(typ, "p", nil), beanerr.IsGenerationUnsupported, beanerr.GenerationUnsupported},
	}

	for _, tc := range cases {
		t.Run(string(tc.class), func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)
			assert.True(t, tc.is(wrapped))

			class, ok := beanerr.ClassOf(wrapped)
			require.True(t, ok)
			assert.Equal(t, tc.class, class)
		})
	}
}

func TestGenerationUnsupportedWrapsResolution(t *testing.T) {
	typ := reflect.TypeFor[order]()
	err := beanerr.NewGenerationUnsupported(typ, "reader", beanerr.NewResolution(reflect.TypeFor[io.Reader]()))

	assert.True(t, beanerr.IsGenerationUnsupported(err))
	assert.True(t, beanerr.IsResolution(err))
	assert.False(t, beanerr.IsConstruction(err))
	assert.False(t, beanerr.IsResolution(nil))
	assert.False(t, errors.Is(err, beanerr.ErrInconsistentAccessor))
}

func TestForProperty(t *testing.T) {
	base := beanerr.NewResolution(reflect.TypeFor[order]())
	scoped := base.ForProperty("id")

	assert.Empty(t, base.Property)
	assert.Equal(t, "id", scoped.Property)
	assert.True(t, beanerr.IsResolution(scoped))
}
