package codegen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bean-forge/internal/analyze"
)

func generate(t *testing.T, beans ...*analyze.BeanInfo) []GeneratedFile {
	t.Helper()

	files, diags, err := NewGenerator(DefaultConfig()).Generate(beans)
	require.NoError(t, err)
	require.True(t, diags.IsValid())

	for _, f := range files {
		_, err := parser.ParseFile(token.NewFileSet(), f.Filename, f.Content, parser.AllErrors)
		require.NoError(t, err, "%s:\n%s", f.Filename, f.Content)
	}

	return files
}

func assertCode(t *testing.T, content []byte, patterns ...string) {
	t.Helper()

	for _, p := range patterns {
		assert.Regexp(t, regexp.MustCompile(p), string(content))
	}
}

func TestGenerator_Customer(t *testing.T) {
	graph, err := analyze.NewAnalyzer().LoadPackages("bean-forge/store")
	require.NoError(t, err)

	customer, ok := graph.Lookup("store.Customer")
	require.True(t, ok)

	files := generate(t, customer)
	require.Len(t, files, 1)
	assert.Equal(t, "customer_command.go", files[0].Filename)

	assertCode(t, files[0].Content,
		`^// Code generated by bean-forge; DO NOT EDIT\.`,
		`package fixtures`,
		`type CustomerCommand struct`,
		`WithFullName\s+func\(string\) \*CustomerCommand`,
		`GenerateFullName\s+func\(\) \*CustomerCommand`,
		`UseFullName\s+func\(generator\.Generator\) \*CustomerCommand`,
		`WithAddress\s+func\(\*string\) \*CustomerCommand`,
		`WithEmail\s+func\(string\) \*CustomerCommand`,
		`WithEntityID\s+func\(int64\) \*CustomerCommand`,
		`Load\s+func\(any, \.\.\.string\) \*CustomerCommand`,
		`Construct\s+func\(\) \(\*store\.Customer, error\)`,
		`Save\s+func\(context\.Context\) \(\*store\.Customer, error\)`,
		`Err\s+func\(\) error`,
		`func NewCustomerCommand\(b \*builder\.Builder\) \(\*CustomerCommand, error\)`,
		`fluent\.Bind\[CustomerCommand\]\(builder\.Start\[store\.Customer\]\(b\), fluent\.Prefixes\("With", "Generate", "Use"\)\)`,
	)
}

func TestGenerator_SameNameInTwoPackages(t *testing.T) {
	graph, err := analyze.NewAnalyzer().LoadPackages("bean-forge/store", "bean-forge/warehouse")
	require.NoError(t, err)

	storeOrder, ok := graph.Lookup("store.Order")
	require.True(t, ok)

	warehouseOrder, ok := graph.Lookup("warehouse.Order")
	require.True(t, ok)

	files := generate(t, storeOrder, warehouseOrder)
	require.Len(t, files, 2)
	assert.Equal(t, "store_order_command.go", files[0].Filename)
	assert.Equal(t, "warehouse_order_command.go", files[1].Filename)

	assertCode(t, files[0].Content,
		`type StoreOrderCommand struct`,
		`WithStatus\s+func\(store\.OrderStatus\) \*StoreOrderCommand`,
		`WithItems\s+func\(\[\]store\.OrderItem\) \*StoreOrderCommand`,
		`WithCustomer\s+func\(\*store\.Customer\) \*StoreOrderCommand`,
	)
	assertCode(t, files[1].Content,
		`WithShippedAt\s+func\(\*time\.Time\) \*WarehouseOrderCommand`,
		`WithLocation\s+func\(warehouse\.Location\) \*WarehouseOrderCommand`,
		`WithWeight\s+func\(float64\) \*WarehouseOrderCommand`,
		`WithCreatedAt\s+func\(time\.Time\) \*WarehouseOrderCommand`,
	)
}

func TestGenerator_SkippedProperties(t *testing.T) {
	graph, err := analyze.NewAnalyzer().InDir("testdata/beans").LoadPackages(".")
	require.NoError(t, err)

	gadget, ok := graph.Lookup("beans.Gadget")
	require.True(t, ok)

	files, diags, err := NewGenerator(Config{PackageName: "beans", PackagePath: gadget.ID.PkgPath}).Generate([]*analyze.BeanInfo{gadget})
	require.NoError(t, err)
	require.Len(t, files, 1)

	skipped := make(map[string]string)
	for _, w := range diags.Warnings {
		skipped[w.Property] = w.Code
	}

	assert.Equal(t, map[string]string{
		"value":  "name_clash",
		"hidden": "unsupported_type",
		"anon":   "unsupported_type",
		"rule":   "generator_valued",
	}, skipped)

	content := files[0].Content

	_, err = parser.ParseFile(token.NewFileSet(), "", content, parser.AllErrors)
	require.NoError(t, err)

	assertCode(t, content,
		`package beans`,
		`WithShape\s+func\(Shape\) \*GadgetCommand`,
		`WithAny\s+func\(any\) \*GadgetCommand`,
		`WithFeed\s+func\(<-chan int\) \*GadgetCommand`,
		`WithCallback\s+func\(func\(string, \.\.\.int\) \(bool, error\)\) \*GadgetCommand`,
		`WithGrid\s+func\(\[2\]\[\]map\[string\]\*int\) \*GadgetCommand`,
		`WithWeight\s+func\(float64\) \*GadgetCommand`,
		`Construct\s+func\(\) \(\*Gadget, error\)`,
	)
	assert.NotContains(t, string(content), "WithHidden")
	assert.NotContains(t, string(content), "WithValue")
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, WriteFiles([]GeneratedFile{{Filename: "a.go", Content: []byte("package a\n")}}, dir))

	data, err := os.ReadFile(filepath.Join(dir, "a.go"))
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(data))

	require.NoError(t, WriteFiles([]GeneratedFile{{Filename: "a.go", Content: []byte("package b\n")}}, dir))

	data, err = os.ReadFile(filepath.Join(dir, "a.go"))
	require.NoError(t, err)
	assert.Equal(t, "package b\n", string(data))

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, filePerm))
	assert.Error(t, WriteFiles(nil, filepath.Join(blocker, "sub")))
}
