// Package fluent puts typed builder interfaces over a builder.Session.
//
// A command type is a struct of func fields. Bind fills every field with a
// function that dispatches onto the session:
//
//	type PersonCommand struct {
//		WithName     func(string) *PersonCommand
//		WithAge      func() *PersonCommand
//		WithNickname func(generator.Generator) *PersonCommand
//		Fill         func() *PersonCommand
//		Construct    func() (*Person, error)
//	}
//
//	cmd, err := fluent.Bind[PersonCommand](builder.Start[Person](b))
//	p, err := cmd.WithName("Jan").Fill().Construct()
//
// A field named like a Session method calls that method. Any other field
// must start with a prefix ("With" unless configured through Prefixes):
// without arguments it queues the property for generation, with a
// generator.Generator it queues the property with that generator, with
// another value it sets the property.
package fluent
