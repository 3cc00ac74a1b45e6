package warehouse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bean-forge/builder"
	"bean-forge/construct"
	"bean-forge/introspect"
	"bean-forge/tester"
	"bean-forge/warehouse"
)

func newBuilder(t *testing.T, opts ...builder.Option) *builder.Builder {
	t.Helper()

	standIns := construct.NewStandIns()
	require.NoError(t, construct.BindTo[warehouse.Location, warehouse.Bin](standIns))

	b := builder.New(append(opts, builder.WithAbstractResolver(standIns))...)
	require.NoError(t, b.RegisterConstructor(warehouse.NewSite))

	return b
}

func TestBeans_AccessorsAreConsistent(t *testing.T) {
	tr := tester.New(tester.WithBuilder(newBuilder(t, builder.WithRandomValues(7))))

	catalog := introspect.NewCatalog(
		warehouse.Address{}, warehouse.Audit{}, warehouse.Bin{}, warehouse.Site{}, warehouse.Order{}, warehouse.OrderItem{},
	)

	n, err := tr.VerifyBeans(tester.PackageOf(catalog, warehouse.Order{}))
	require.NoError(t, err)
	assert.Equal(t, 5, n, "sites need a code")
}

func TestOrder_Fill(t *testing.T) {
	order, err := builder.Construct[warehouse.Order](builder.Start[warehouse.Order](newBuilder(t)).Fill())
	require.NoError(t, err)

	assert.Equal(t, "value", order.OrderNumber)
	assert.Equal(t, "A00-S00", order.GetLocation().String())
	require.NotNil(t, order.Site)
	assert.Equal(t, "value", order.Site.Code())
	require.NotNil(t, order.Audit, "promoted fields allocate the embedded pointer")
	require.NotNil(t, order.Items)
	assert.Empty(t, order.Items)
}
