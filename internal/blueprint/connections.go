package blueprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Connections maps circuit connector ids (1, 2, ...) to the wires attached
// there. The wire form is an object keyed by the decimal id.
type Connections map[int]Connection

func (c Connections) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	ids := make([]int, 0, len(c))
	for id := range c {
		if id <= 0 {
			return nil, fmt.Errorf("connector id %d is not positive", id)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(id))
		buf.WriteString(`":`)
		b, err := json.Marshal(c[id])
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Connections) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Connections, len(raw))
	for k, v := range raw {
		id, err := parseConnectorKey(k)
		if err != nil {
			return err
		}
		var conn Connection
		if err := json.Unmarshal(v, &conn); err != nil {
			return fmt.Errorf("connections %q: %w", k, err)
		}
		out[id] = conn
	}
	*c = out
	return nil
}

func sortedConnectorIDs(c Connections) []int {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// parseConnectorKey accepts canonical positive decimal keys only.
func parseConnectorKey(k string) (int, error) {
	if k == "" || k[0] < '1' || k[0] > '9' {
		return 0, fmt.Errorf("invalid connector key %q: want a positive integer", k)
	}
	id, err := strconv.Atoi(k)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid connector key %q: want a positive integer", k)
	}
	return id, nil
}
