package blueprint

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEnums_WireForms(t *testing.T) {
	cases := []struct {
		v    interface{ MarshalText() ([]byte, error) }
		wire string
	}{
		{SignalItem, "item"},
		{SignalVirtual, "virtual"},
		{IOInput, "input"},
		{PriorityRight, "right"},
		{FilterWhitelist, "whitelist"},
		{InfinityAtMost, "at-most"},
		{WaitRobotsInactive, "robots_inactive"},
		{WaitPassengerPresent, "passenger_present"},
		{CompareAnd, "and"},
		{ConnectorStorageTank, "StorageTank"},
		{ConnectorCombinatorInput, "CombinatorInput"},
	}
	for _, tc := range cases {
		b, err := tc.v.MarshalText()
		if err != nil {
			t.Fatalf("%v: %v", tc.v, err)
		}
		if string(b) != tc.wire {
			t.Fatalf("wire=%s want %s", b, tc.wire)
		}
	}
}

func TestEnums_RejectUnknown(t *testing.T) {
	var m InfinityFilterMode
	if err := json.Unmarshal([]byte(`"at_least"`), &m); err == nil || !strings.Contains(err.Error(), "infinity_filter_mode") {
		t.Fatalf("err=%v", err)
	}
	var c CircuitConnectorID
	if err := json.Unmarshal([]byte(`"combinatorOutput"`), &c); err == nil {
		t.Fatal("wire values are case sensitive")
	}
	if _, err := SignalType(0).MarshalText(); err == nil {
		t.Fatal("zero value has no wire form")
	}
}

func TestEnums_TablesAreBijective(t *testing.T) {
	check := func(name string, n int, wire func(i int) (string, error), parse func(s string) (int, error)) {
		t.Helper()
		seen := map[string]bool{}
		for i := 1; i <= n; i++ {
			w, err := wire(i)
			if err != nil {
				t.Fatalf("%s %d: %v", name, i, err)
			}
			if seen[w] {
				t.Fatalf("%s: duplicate wire %s", name, w)
			}
			seen[w] = true
			back, err := parse(w)
			if err != nil || back != i {
				t.Fatalf("%s: %s parsed back to %d (%v)", name, w, back, err)
			}
		}
		if got := len(EnumValues(name)); got != n {
			t.Fatalf("%s: schema lists %d values, want %d", name, got, n)
		}
	}
	check("wait_condition_type", 10,
		func(i int) (string, error) { b, err := WaitConditionType(i).MarshalText(); return string(b), err },
		func(s string) (int, error) { var v WaitConditionType; err := v.UnmarshalText([]byte(s)); return int(v), err })
	check("circuit_connector_id", 17,
		func(i int) (string, error) { b, err := CircuitConnectorID(i).MarshalText(); return string(b), err },
		func(s string) (int, error) { var v CircuitConnectorID; err := v.UnmarshalText([]byte(s)); return int(v), err })
	check("infinity_filter_mode", 3,
		func(i int) (string, error) { b, err := InfinityFilterMode(i).MarshalText(); return string(b), err },
		func(s string) (int, error) { var v InfinityFilterMode; err := v.UnmarshalText([]byte(s)); return int(v), err })
}

func TestSchemaJSON_CarriesEnums(t *testing.T) {
	src, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON: %v", err)
	}
	var doc struct {
		Defs map[string]struct {
			Enum []string `json:"enum"`
		} `json:"$defs"`
	}
	if err := json.Unmarshal(src, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, def := range []string{"signal_type", "io_type", "splitter_priority", "filter_mode",
		"infinity_filter_mode", "wait_condition_type", "compare_type", "circuit_connector_id"} {
		if len(doc.Defs[def].Enum) == 0 {
			t.Fatalf("$defs/%s has no enum", def)
		}
	}
}
