package plan

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/robbyt/go-sigil/signature"
)

var anyType = reflect.TypeFor[any]()

type binding struct {
	param    signature.Descriptor
	mode     Mode
	supplied bool
	value    any
	// ref is a pointer to the caller's storage for aliased bindings.
	ref reflect.Value
	// shared marks an aliased slurpy whose value is a view of the caller's arguments.
	shared bool
}

func (b *binding) get() any {
	switch {
	case b.ref.IsValid():
		v := b.ref.Elem().Interface()
		if b.mode == ReadOnly {
			return cloneValue(v)
		}
		return v
	case b.mode == ReadOnly:
		return cloneValue(b.value)
	}
	return b.value
}

// Bindings holds the local names bound by one call. It is not safe for concurrent use.
type Bindings struct {
	order    []string
	vals     map[string]*binding
	args     []any
	invocant any
	hasInv   bool
}

func newBindings(args []any, size int) *Bindings {
	return &Bindings{
		order: make([]string, 0, size),
		vals:  make(map[string]*binding, size),
		args:  args,
	}
}

func (b *Bindings) add(name string, bnd *binding) {
	b.order = append(b.order, name)
	b.vals[name] = bnd
}

// lookup accepts a bare name or one in the form Descriptor.Display gives, with its named
// and reference markers and its sigil.
func (b *Bindings) lookup(name string) (*binding, bool) {
	if bnd, ok := b.vals[name]; ok {
		return bnd, true
	}
	name = strings.TrimPrefix(name, ":")
	name = strings.TrimPrefix(name, `\`)
	if name != "" && strings.ContainsRune("$@%", rune(name[0])) {
		name = name[1:]
	}
	bnd, ok := b.vals[name]
	return bnd, ok
}

// Get returns the value bound to name. Aliased bindings read through to the caller's
// storage; read-only bindings return a copy of collections.
func (b *Bindings) Get(name string) (any, bool) {
	bnd, ok := b.lookup(name)
	if !ok {
		return nil, false
	}
	return bnd.get(), true
}

// Set assigns to a binding. Aliased bindings write through to the caller.
func (b *Bindings) Set(name string, value any) error {
	bnd, ok := b.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBinding, name)
	}

	switch {
	case bnd.mode == ReadOnly:
		return fmt.Errorf("%w: %s", ErrReadOnlyBinding, bnd.param.Var())
	case bnd.ref.IsValid():
		target := bnd.ref.Elem()
		if value == nil {
			switch target.Kind() {
			case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
				target.SetZero()
				return nil
			}
			return fmt.Errorf("%w: nil to %s of type %s", ErrNotAssignable, bnd.param.Var(), target.Type())
		}
		rv := reflect.ValueOf(value)
		if !rv.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("%w: %T to %s of type %s", ErrNotAssignable, value, bnd.param.Var(), target.Type())
		}
		target.Set(rv)
	case bnd.shared:
		view, _ := bnd.value.([]any)
		src, ok := value.([]any)
		if !ok || len(src) != len(view) {
			return fmt.Errorf("%w: %s aliases %d arguments", ErrNotAssignable, bnd.param.Var(), len(view))
		}
		copy(view, src)
	default:
		bnd.value = value
	}
	return nil
}

// Ref returns the pointer behind an aliased binding.
func (b *Bindings) Ref(name string) (any, bool) {
	bnd, ok := b.lookup(name)
	if !ok || !bnd.ref.IsValid() {
		return nil, false
	}
	return bnd.ref.Interface(), true
}

// Supplied reports whether the caller passed a value for name, as opposed to it taking its
// default or being left unset.
func (b *Bindings) Supplied(name string) bool {
	bnd, ok := b.lookup(name)
	return ok && bnd.supplied
}

// Mode returns the binding mode of name.
func (b *Bindings) Mode(name string) (Mode, bool) {
	bnd, ok := b.lookup(name)
	if !ok {
		return Copy, false
	}
	return bnd.mode, true
}

// Names returns the bound names in binding order, the invocant first.
func (b *Bindings) Names() []string {
	return slices.Clone(b.order)
}

// Map returns every binding by name, as Get would return it.
func (b *Bindings) Map() map[string]any {
	out := make(map[string]any, len(b.order))
	for _, name := range b.order {
		out[name] = b.vals[name].get()
	}
	return out
}

// Args returns the arguments after the invocant, as passed.
func (b *Bindings) Args() []any {
	return slices.Clone(b.args)
}

// Invocant returns the invocant and whether the signature declares one.
func (b *Bindings) Invocant() (any, bool) {
	return b.invocant, b.hasInv
}

// cloneValue copies slices and maps one level deep. Other values are returned as is.
func cloneValue(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out.Interface()
	}
	return v
}

// freshRef returns a new *any holding v, for aliased parameters the caller did not supply.
func freshRef(v any) reflect.Value {
	ref := reflect.New(anyType)
	if v != nil {
		ref.Elem().Set(reflect.ValueOf(v))
	}
	return ref
}
