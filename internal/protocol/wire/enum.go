package wire

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"sync"
)

// EnumEntries maps the named entries of one dialect enum.
type EnumEntries[E ~uint32] map[E]string

var enumTables sync.Map

// Register makes t the table that JSON decoding of Enum[E] resolves
// against. Dialects register each table once at init.
func Register[E ~uint32](t EnumEntries[E]) EnumEntries[E] {
	enumTables.Store(reflect.TypeOf((*E)(nil)).Elem(), t)
	return t
}

func entriesFor[E ~uint32]() EnumEntries[E] {
	if t, ok := enumTables.Load(reflect.TypeOf((*E)(nil)).Elem()); ok {
		return t.(EnumEntries[E])
	}
	return nil
}

// Lookup finds an entry by name.
func (t EnumEntries[E]) Lookup(name string) (E, bool) {
	for e, n := range t {
		if n == name {
			return e, true
		}
	}
	return 0, false
}

// Enum holds a decoded enum value. Raw is always the value seen on the
// wire; Entry is only meaningful when Known is set.
type Enum[E ~uint32] struct {
	Raw   uint32
	Entry E
	Known bool
}

// Decode wraps raw, resolving it against the table. Unknown values are
// kept as-is.
func (t EnumEntries[E]) Decode(raw uint32) Enum[E] {
	e := E(raw)
	if _, ok := t[e]; ok {
		return Enum[E]{Raw: raw, Entry: e, Known: true}
	}
	return Enum[E]{Raw: raw}
}

// Of wraps a named entry.
func (t EnumEntries[E]) Of(e E) Enum[E] {
	_, ok := t[e]
	return Enum[E]{Raw: uint32(e), Entry: e, Known: ok}
}

// Name returns the entry name, or the decimal raw value when unknown.
func (t EnumEntries[E]) Name(v Enum[E]) string {
	if name, ok := t[E(v.Raw)]; ok {
		return name
	}
	return strconv.FormatUint(uint64(v.Raw), 10)
}

func (v Enum[E]) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw)
}

// UnmarshalJSON accepts the raw number or an entry name. Numbers are
// resolved against the registered table, so named values come back Known.
func (v *Enum[E]) UnmarshalJSON(b []byte) error {
	t := entriesFor[E]()
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		e, ok := t.Lookup(name)
		if !ok {
			return fmt.Errorf("wire: unknown enum entry %q", name)
		}
		*v = t.Of(e)
		return nil
	}
	var raw uint32
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*v = t.Decode(raw)
	return nil
}
