package blueprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Extra holds the members of a wire object that the typed model has no
// field for, in wire order. They are rendered back after the known fields.
type Extra []Field

// Get returns the first member called name.
func (e Extra) Get(name string) (json.RawMessage, bool) {
	return Condition{Fields: e}.Get(name)
}

var fieldNamesCache sync.Map // reflect.Type -> []string

// fieldNames lists the JSON member names of struct type t.
func fieldNames(t reflect.Type) []string {
	if v, ok := fieldNamesCache.Load(t); ok {
		return v.([]string)
	}
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if !f.IsExported() || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		names = append(names, name)
	}
	fieldNamesCache.Store(t, names)
	return names
}

// unmarshalObject decodes b into the struct v points to and stores the
// members v has no field for in extra. Member names match fields the way
// encoding/json matches them, ignoring case.
func unmarshalObject(b []byte, v any, extra *Extra) error {
	if err := json.Unmarshal(b, v); err != nil {
		return err
	}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	names := fieldNames(reflect.TypeOf(v).Elem())
	fields, err := readFields(b, func(name string) bool {
		for _, n := range names {
			if strings.EqualFold(n, name) {
				return true
			}
		}
		return false
	})
	if err != nil {
		return err
	}
	*extra = fields
	return nil
}

// marshalObject encodes the struct v and appends extra as further members.
func marshalObject(v any, extra Extra) ([]byte, error) {
	b, err := marshal(v, "")
	if err != nil || len(extra) == 0 {
		return b, err
	}
	if len(b) < 2 || b[len(b)-1] != '}' {
		return nil, fmt.Errorf("cannot attach extra fields to %s", b)
	}
	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	if len(b) > 2 {
		buf.WriteByte(',')
	}
	if err := writeFields(&buf, extra); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *BlueprintBook) UnmarshalJSON(data []byte) error {
	type plain BlueprintBook
	return unmarshalObject(data, (*plain)(b), &b.Extra)
}

func (b BlueprintBook) MarshalJSON() ([]byte, error) {
	type plain BlueprintBook
	return marshalObject(plain(b), b.Extra)
}

func (e *BookEntry) UnmarshalJSON(data []byte) error {
	type plain BookEntry
	return unmarshalObject(data, (*plain)(e), &e.Extra)
}

func (e BookEntry) MarshalJSON() ([]byte, error) {
	type plain BookEntry
	return marshalObject(plain(e), e.Extra)
}

func (b *Blueprint) UnmarshalJSON(data []byte) error {
	type plain Blueprint
	return unmarshalObject(data, (*plain)(b), &b.Extra)
}

func (b Blueprint) MarshalJSON() ([]byte, error) {
	type plain Blueprint
	return marshalObject(plain(b), b.Extra)
}

func (i *Icon) UnmarshalJSON(data []byte) error {
	type plain Icon
	return unmarshalObject(data, (*plain)(i), &i.Extra)
}

func (i Icon) MarshalJSON() ([]byte, error) {
	type plain Icon
	return marshalObject(plain(i), i.Extra)
}

func (s *SignalID) UnmarshalJSON(data []byte) error {
	type plain SignalID
	return unmarshalObject(data, (*plain)(s), &s.Extra)
}

func (s SignalID) MarshalJSON() ([]byte, error) {
	type plain SignalID
	return marshalObject(plain(s), s.Extra)
}

func (e *Entity) UnmarshalJSON(data []byte) error {
	type plain Entity
	return unmarshalObject(data, (*plain)(e), &e.Extra)
}

func (e Entity) MarshalJSON() ([]byte, error) {
	type plain Entity
	return marshalObject(plain(e), e.Extra)
}

func (p *Position) UnmarshalJSON(data []byte) error {
	type plain Position
	return unmarshalObject(data, (*plain)(p), &p.Extra)
}

func (p Position) MarshalJSON() ([]byte, error) {
	type plain Position
	return marshalObject(plain(p), p.Extra)
}

func (c *Color) UnmarshalJSON(data []byte) error {
	type plain Color
	return unmarshalObject(data, (*plain)(c), &c.Extra)
}

func (c Color) MarshalJSON() ([]byte, error) {
	type plain Color
	return marshalObject(plain(c), c.Extra)
}

func (t *Tile) UnmarshalJSON(data []byte) error {
	type plain Tile
	return unmarshalObject(data, (*plain)(t), &t.Extra)
}

func (t Tile) MarshalJSON() ([]byte, error) {
	type plain Tile
	return marshalObject(plain(t), t.Extra)
}

func (f *ItemFilter) UnmarshalJSON(data []byte) error {
	type plain ItemFilter
	return unmarshalObject(data, (*plain)(f), &f.Extra)
}

func (f ItemFilter) MarshalJSON() ([]byte, error) {
	type plain ItemFilter
	return marshalObject(plain(f), f.Extra)
}

func (i *Inventory) UnmarshalJSON(data []byte) error {
	type plain Inventory
	return unmarshalObject(data, (*plain)(i), &i.Extra)
}

func (i Inventory) MarshalJSON() ([]byte, error) {
	type plain Inventory
	return marshalObject(plain(i), i.Extra)
}

func (s *InfinitySettings) UnmarshalJSON(data []byte) error {
	type plain InfinitySettings
	return unmarshalObject(data, (*plain)(s), &s.Extra)
}

func (s InfinitySettings) MarshalJSON() ([]byte, error) {
	type plain InfinitySettings
	return marshalObject(plain(s), s.Extra)
}

func (f *InfinityFilter) UnmarshalJSON(data []byte) error {
	type plain InfinityFilter
	return unmarshalObject(data, (*plain)(f), &f.Extra)
}

func (f InfinityFilter) MarshalJSON() ([]byte, error) {
	type plain InfinityFilter
	return marshalObject(plain(f), f.Extra)
}

func (f *LogisticFilter) UnmarshalJSON(data []byte) error {
	type plain LogisticFilter
	return unmarshalObject(data, (*plain)(f), &f.Extra)
}

func (f LogisticFilter) MarshalJSON() ([]byte, error) {
	type plain LogisticFilter
	return marshalObject(plain(f), f.Extra)
}

func (p *SpeakerParameters) UnmarshalJSON(data []byte) error {
	type plain SpeakerParameters
	return unmarshalObject(data, (*plain)(p), &p.Extra)
}

func (p SpeakerParameters) MarshalJSON() ([]byte, error) {
	type plain SpeakerParameters
	return marshalObject(plain(p), p.Extra)
}

func (p *SpeakerAlertParameters) UnmarshalJSON(data []byte) error {
	type plain SpeakerAlertParameters
	return unmarshalObject(data, (*plain)(p), &p.Extra)
}

func (p SpeakerAlertParameters) MarshalJSON() ([]byte, error) {
	type plain SpeakerAlertParameters
	return marshalObject(plain(p), p.Extra)
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	type plain Schedule
	return unmarshalObject(data, (*plain)(s), &s.Extra)
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	type plain Schedule
	return marshalObject(plain(s), s.Extra)
}

func (r *ScheduleRecord) UnmarshalJSON(data []byte) error {
	type plain ScheduleRecord
	return unmarshalObject(data, (*plain)(r), &r.Extra)
}

func (r ScheduleRecord) MarshalJSON() ([]byte, error) {
	type plain ScheduleRecord
	return marshalObject(plain(r), r.Extra)
}

func (w *WaitCondition) UnmarshalJSON(data []byte) error {
	type plain WaitCondition
	return unmarshalObject(data, (*plain)(w), &w.Extra)
}

func (w WaitCondition) MarshalJSON() ([]byte, error) {
	type plain WaitCondition
	return marshalObject(plain(w), w.Extra)
}

func (c *Connection) UnmarshalJSON(data []byte) error {
	type plain Connection
	return unmarshalObject(data, (*plain)(c), &c.Extra)
}

func (c Connection) MarshalJSON() ([]byte, error) {
	type plain Connection
	return marshalObject(plain(c), c.Extra)
}

func (p *ConnectionPoint) UnmarshalJSON(data []byte) error {
	type plain ConnectionPoint
	return unmarshalObject(data, (*plain)(p), &p.Extra)
}

func (p ConnectionPoint) MarshalJSON() ([]byte, error) {
	type plain ConnectionPoint
	return marshalObject(plain(p), p.Extra)
}

func (d *ConnectionData) UnmarshalJSON(data []byte) error {
	type plain ConnectionData
	return unmarshalObject(data, (*plain)(d), &d.Extra)
}

func (d ConnectionData) MarshalJSON() ([]byte, error) {
	type plain ConnectionData
	return marshalObject(plain(d), d.Extra)
}
