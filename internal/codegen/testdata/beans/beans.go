package beans

import "reflect"

type secret struct{ n int }

type Shape interface{ Area() float64 }

// Rule looks like a generator.
type Rule struct{}

func (Rule) Generate(reflect.Type) (any, error) { return nil, nil }

type Gadget struct {
	Name     string
	Value    string
	Hidden   secret
	Anon     struct{ X int }
	Shape    Shape
	Any      any
	Feed     <-chan int
	Callback func(string, ...int) (bool, error)
	Grid     [2][]map[string]*int
	Rule     Rule

	weight float64
}

func (g *Gadget) GetWeight() float64  { return g.weight }
func (g *Gadget) SetWeight(w float64) { g.weight = w }
