package codegen

import (
	"bytes"
	"fmt"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/samber/lo"

	"bean-forge/builder"
	"bean-forge/internal/analyze"
	"bean-forge/internal/diagnostic"
	"bean-forge/introspect"
)

const (
	builderPkg   = "bean-forge/builder"
	fluentPkg    = "bean-forge/fluent"
	generatorPkg = "bean-forge/generator"
)

// Command field prefixes, in the order fluent tries them.
const (
	PrefixValue     = "With"
	PrefixGenerate  = "Generate"
	PrefixGenerator = "Use"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var sessionType = reflect.TypeFor[*builder.Session]()

// Config holds configuration for code generation.
type Config struct {
	// PackageName is the name of the generated package.
	PackageName string
	// PackagePath is the import path of the generated package. Types of
	// that package are referenced without qualifier.
	PackagePath string
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{PackageName: "fixtures"}
}

// Generator emits one command file per bean.
type Generator struct {
	config Config
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config Config) *Generator {
	if config.PackageName == "" {
		config.PackageName = DefaultConfig().PackageName
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "customer_command.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate renders commands for beans. Properties left out of a command are
// reported as warnings.
func (g *Generator) Generate(beans []*analyze.BeanInfo) ([]GeneratedFile, *diagnostic.Diagnostics, error) {
	diags := &diagnostic.Diagnostics{}
	names := commandNames(beans)
	files := make([]GeneratedFile, 0, len(beans))

	for _, bean := range beans {
		file, err := g.generateBean(bean, names[bean.ID], diags)
		if err != nil {
			return nil, diags, fmt.Errorf("generating %s: %w", bean.ID, err)
		}

		files = append(files, *file)
	}

	return files, diags, nil
}

// WriteFiles stores files in dir, creating it when missing. Existing command
// files are overwritten.
func WriteFiles(files []GeneratedFile, dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		path := filepath.Join(dir, file.Filename)
		if err := os.WriteFile(path, file.Content, filePerm); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	return nil
}

// commandNames prefixes the package name to bean names that occur in more
// than one package.
func commandNames(beans []*analyze.BeanInfo) map[analyze.TypeID]string {
	counts := lo.CountValuesBy(beans, func(b *analyze.BeanInfo) string { return b.ID.Name })
	out := make(map[analyze.TypeID]string, len(beans))

	for _, b := range beans {
		name := b.ID.Name
		if counts[name] > 1 {
			name = introspect.Capitalize(b.Named.Obj().Pkg().Name()) + name
		}

		out[b.ID] = name + "Command"
	}

	return out
}

func (g *Generator) generateBean(bean *analyze.BeanInfo, command string, diags *diagnostic.Diagnostics) (*GeneratedFile, error) {
	f := jen.NewFilePathName(g.config.PackagePath, g.config.PackageName)
	f.HeaderComment("Code generated by bean-forge; DO NOT EDIT.")
	f.ImportName(builderPkg, "builder")
	f.ImportName(fluentPkg, "fluent")
	f.ImportName(generatorPkg, "generator")

	beanType := jen.Qual(bean.ID.PkgPath, bean.ID.Name)
	self := func() *jen.Statement { return jen.Op("*").Id(command) }

	var fields []jen.Code

	for _, p := range bean.Writable() {
		t, err := typeCode(p.Type)
		if err != nil {
			diags.AddWarning("unsupported_type", err.Error(), bean.ID.Short(), p.Name)
			continue
		}

		if implementsGenerator(p.Type) {
			diags.AddWarning("generator_valued", "value would be taken for a generator", bean.ID.Short(), p.Name)
			continue
		}

		suffix := introspect.Capitalize(p.Name)
		if clash, ok := sessionClash(suffix); ok {
			diags.AddWarning("name_clash", "command "+clash+" is a session method", bean.ID.Short(), p.Name)
			continue
		}

		fields = append(fields,
			jen.Comment(fmt.Sprintf("%s property (%s).", p.Name, p.Source)),
			jen.Id(PrefixValue+suffix).Func().Params(t).Add(self()),
			jen.Id(PrefixGenerate+suffix).Func().Params().Add(self()),
			jen.Id(PrefixGenerator+suffix).Func().Params(jen.Qual(generatorPkg, "Generator")).Add(self()),
			jen.Line(),
		)
	}

	fields = append(fields,
		jen.Id("Load").Func().Params(jen.Any(), jen.Op("...").String()).Add(self()),
		jen.Id("GenerateValue").Func().Params(jen.Op("...").String()).Add(self()),
		jen.Id("Fill").Func().Params().Add(self()),
		jen.Id("Construct").Func().Params().Params(jen.Op("*").Add(beanType), jen.Error()),
		jen.Id("Save").Func().Params(jen.Qual("context", "Context")).Params(jen.Op("*").Add(beanType), jen.Error()),
		jen.Id("Err").Func().Params().Error(),
	)

	f.Commentf("%s builds %s values one property at a time.", command, bean.ID.Short())
	f.Type().Id(command).Struct(fields...)

	f.Commentf("New%s starts a %s session on b.", command, bean.ID.Name)
	f.Func().Id("New"+command).Params(jen.Id("b").Op("*").Qual(builderPkg, "Builder")).Params(self(), jen.Error()).Block(
		jen.Return(jen.Qual(fluentPkg, "Bind").Types(jen.Id(command)).Call(
			jen.Qual(builderPkg, "Start").Types(beanType).Call(jen.Id("b")),
			jen.Qual(fluentPkg, "Prefixes").Call(jen.Lit(PrefixValue), jen.Lit(PrefixGenerate), jen.Lit(PrefixGenerator)),
		)),
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering code: %w", err)
	}

	return &GeneratedFile{
		Filename: lo.SnakeCase(command) + ".go",
		Content:  buf.Bytes(),
	}, nil
}

// sessionClash returns the first command name for the property suffix that
// fluent would resolve to a Session method instead.
func sessionClash(suffix string) (string, bool) {
	for _, prefix := range []string{PrefixValue, PrefixGenerate, PrefixGenerator} {
		if _, ok := sessionType.MethodByName(prefix + suffix); ok {
			return prefix + suffix, true
		}
	}

	return "", false
}

// implementsGenerator reports whether t has a Generate(reflect.Type) (any,
// error) method. A command taking such a value dispatches as a generator.
func implementsGenerator(t types.Type) bool {
	for _, typ := range []types.Type{t, types.NewPointer(t)} {
		obj, _, _ := types.LookupFieldOrMethod(typ, true, nil, "Generate")

		fn, ok := obj.(*types.Func)
		if !ok {
			continue
		}

		sig := fn.Type().(*types.Signature)
		if sig.Params().Len() == 1 && strings.HasSuffix(sig.Params().At(0).Type().String(), "reflect.Type") {
			return true
		}
	}

	return false
}
