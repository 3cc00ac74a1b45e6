package analyze

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	storePkg     = "bean-forge/store"
	warehousePkg = "bean-forge/warehouse"
)

func loadSamples(t *testing.T) *Graph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages(storePkg, warehousePkg)
	require.NoError(t, err)

	return graph
}

func names(props []PropertyInfo) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.Name
	}

	return out
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadSamples(t)

	assert.Contains(t, graph.Packages, storePkg)
	assert.Contains(t, graph.Packages, warehousePkg)

	assert.Contains(t, graph.Beans, TypeID{PkgPath: storePkg, Name: "Order"})
	assert.Contains(t, graph.Beans, TypeID{PkgPath: warehousePkg, Name: "Order"})

	// Only structs are beans.
	assert.NotContains(t, graph.Beans, TypeID{PkgPath: storePkg, Name: "OrderStatus"})
	assert.NotContains(t, graph.Beans, TypeID{PkgPath: warehousePkg, Name: "Location"})
}

func TestAnalyzer_FieldsAndAccessors(t *testing.T) {
	graph := loadSamples(t)

	customer := graph.GetBean(TypeID{PkgPath: storePkg, Name: "Customer"})
	require.NotNil(t, customer)

	assert.Equal(t, []string{"iD", "fullName", "address", "isActive", "email", "entityID"}, names(customer.Properties))

	id, ok := customer.Property("iD")
	require.True(t, ok)
	assert.Equal(t, SourceField, id.Source)
	assert.Equal(t, TypeID{PkgPath: storePkg, Name: "Entity"}, id.Declaring)
	assert.Equal(t, "ID", id.Field)

	email, ok := customer.Property("email")
	require.True(t, ok)
	assert.Equal(t, SourceAccessor, email.Source)
	assert.Equal(t, "GetEmail", email.Getter)
	assert.Equal(t, "SetEmail", email.Setter)
	assert.Equal(t, customer.ID, email.Declaring)
	assert.True(t, types.Identical(types.Typ[types.String], email.Type))

	entityID, ok := customer.Property("entityID")
	require.True(t, ok)
	assert.Equal(t, "EntityID", entityID.Getter)
	assert.Equal(t, TypeID{PkgPath: storePkg, Name: "Entity"}, entityID.Declaring)

	order := graph.GetBean(TypeID{PkgPath: storePkg, Name: "Order"})
	require.NotNil(t, order)

	_, ok = order.Property("totalCents")
	assert.False(t, ok, "a getter without setter is no property")

	c, ok := order.Property("customer")
	require.True(t, ok)
	assert.Equal(t, "*Customer", TypeString(c.Type, graph.Packages[storePkg].Types))
	assert.Equal(t, "*store.Customer", TypeString(c.Type, nil))
}

func TestAnalyzer_PromotedThroughPointer(t *testing.T) {
	graph := loadSamples(t)

	order := graph.GetBean(TypeID{PkgPath: warehousePkg, Name: "Order"})
	require.NotNil(t, order)

	assert.Equal(t,
		[]string{"createdAt", "updatedAt", "orderNumber", "site", "items", "shippedAt", "parent", "location", "weight"},
		names(order.Properties))

	created, _ := order.Property("createdAt")
	assert.Equal(t, TypeID{PkgPath: warehousePkg, Name: "Audit"}, created.Declaring)

	weight, _ := order.Property("weight")
	assert.Equal(t, "Weight", weight.Getter)
	assert.True(t, weight.Readable && weight.Writable)

	item := graph.GetBean(TypeID{PkgPath: warehousePkg, Name: "OrderItem"})
	require.NotNil(t, item)

	picked, ok := item.Property("picked")
	require.True(t, ok)
	assert.Equal(t, SourceAccessor, picked.Source, "accessors replace the field of the same name")
	assert.Equal(t, "IsPicked", picked.Getter)
}

func TestAnalyzer_Constructors(t *testing.T) {
	graph := loadSamples(t)

	customer := graph.GetBean(TypeID{PkgPath: storePkg, Name: "Customer"})
	require.Len(t, customer.Constructors, 1)
	assert.Equal(t, "NewCustomer", customer.Constructors[0].Name)
	assert.True(t, customer.Constructors[0].Pointer)
	assert.Len(t, customer.Constructors[0].Params, 1)
	assert.False(t, customer.NullaryConstructible())

	site := graph.GetBean(TypeID{PkgPath: warehousePkg, Name: "Site"})
	require.NotNil(t, site)
	assert.Len(t, site.Constructors, 1)

	_, ok := site.Property("code")
	assert.False(t, ok)

	assert.True(t, graph.GetBean(TypeID{PkgPath: storePkg, Name: "Product"}).NullaryConstructible())
}

func TestGraph_Lookup(t *testing.T) {
	graph := loadSamples(t)

	b, ok := graph.Lookup("store.Order")
	require.True(t, ok)
	assert.Equal(t, storePkg, b.ID.PkgPath)

	b, ok = graph.Lookup("bean-forge/warehouse.Order")
	require.True(t, ok)
	assert.Equal(t, warehousePkg, b.ID.PkgPath)

	_, ok = graph.Lookup("Order")
	assert.False(t, ok, "ambiguous")

	b, ok = graph.Lookup("Site")
	require.True(t, ok)
	assert.Equal(t, "Site", b.ID.Name)

	sorted := graph.Sorted()
	require.NotEmpty(t, sorted)
	assert.Equal(t, "Customer", sorted[0].ID.Name)
}

func TestAnalyzer_LoadErrors(t *testing.T) {
	_, err := NewAnalyzer().LoadPackages("bean-forge/does-not-exist")
	assert.Error(t, err)
}

func TestTypeID(t *testing.T) {
	id := TypeID{PkgPath: storePkg, Name: "Order"}
	assert.Equal(t, "bean-forge/store.Order", id.String())
	assert.Equal(t, "store.Order", id.Short())

	assert.Equal(t, "int", TypeID{Name: "int"}.String())
	assert.Equal(t, "int", TypeID{Name: "int"}.Short())
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "field", SourceField.String())
	assert.Equal(t, "accessor", SourceAccessor.String())
}
