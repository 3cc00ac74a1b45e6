package config

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/charmbracelet/log"

	"bean-forge/builder"
	"bean-forge/introspect"
	"bean-forge/save"
)

// Logger returns a logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{Level: level, Prefix: "bean-forge"}), nil
}

// Options returns the builder options the config describes.
func (c *Config) Options() []builder.Option {
	var opts []builder.Option

	if c.Random {
		opts = append(opts, builder.WithRandomValues(c.Seed))
	}

	if c.CollectionSize != nil {
		opts = append(opts, builder.WithCollectionSize(*c.CollectionSize))
	}

	if c.MaxDepth != nil {
		opts = append(opts, builder.WithMaxDepth(*c.MaxDepth))
	}

	return opts
}

// Apply validates cfg and registers its skips, property values and name
// values on b. Nothing is registered when validation finds errors.
func Apply(cfg *Config, b *builder.Builder, catalog *introspect.Catalog) error {
	if err := Validate(cfg, catalog, b.Describer()).Err(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	for _, s := range cfg.Skip {
		t, desc := resolve(b, catalog, s.Type)
		for _, name := range s.Properties {
			b.Skip(t, canonical(desc, name))
		}
	}

	for _, p := range cfg.Properties {
		t, desc := resolve(b, catalog, p.Type)
		b.RegisterPropertyValue(t, canonical(desc, p.Property), p.Value)
	}

	for name, v := range cfg.Names {
		b.RegisterNameValue(name, v)
	}

	b.Logger().Debug("config applied",
		"skips", len(cfg.Skip), "properties", len(cfg.Properties), "names", len(cfg.Names))

	return nil
}

// resolve looks up a type that Validate already accepted.
func resolve(b *builder.Builder, catalog *introspect.Catalog, name string) (reflect.Type, *introspect.TypeDescriptor) {
	t, _ := catalog.Lookup(name)
	desc, _ := b.Describer().Describe(t)

	return t, desc
}

// canonical returns the declared spelling of a property name, which config
// files may write in any case.
func canonical(desc *introspect.TypeDescriptor, name string) string {
	if p, ok := desc.Property(name); ok {
		return p.Name
	}

	return name
}

// OpenSaver connects the SQL saver and creates its table. It returns nil
// when no DSN is configured; the driver must be linked into the program.
func (c *Config) OpenSaver(ctx context.Context, logger *log.Logger) (*save.SQL, error) {
	if c.Saver.DSN == "" {
		return nil, nil
	}

	s, err := save.OpenSQL(ctx, c.Saver.Driver, c.Saver.DSN, save.WithTable(c.Saver.Table), save.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	return s, nil
}
