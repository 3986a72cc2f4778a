package blueprint

import (
	"fmt"
	"sort"
)

// enumTable is the single wire mapping for one enum type. MarshalText,
// UnmarshalText and the JSON Schema enum lists all read from it.
type enumTable[T comparable] struct {
	def      string
	toWire   map[T]string
	fromWire map[string]T
	order    []string
}

type enumPair[T comparable] struct {
	v    T
	wire string
}

func newEnumTable[T comparable](def string, pairs ...enumPair[T]) *enumTable[T] {
	t := &enumTable[T]{
		def:      def,
		toWire:   make(map[T]string, len(pairs)),
		fromWire: make(map[string]T, len(pairs)),
	}
	for _, p := range pairs {
		if _, dup := t.fromWire[p.wire]; dup {
			panic("blueprint: duplicate wire value " + p.wire + " in " + def)
		}
		t.toWire[p.v] = p.wire
		t.fromWire[p.wire] = p.v
		t.order = append(t.order, p.wire)
	}
	schemaEnums[def] = t.order
	return t
}

func (t *enumTable[T]) marshal(v T) ([]byte, error) {
	s, ok := t.toWire[v]
	if !ok {
		return nil, fmt.Errorf("invalid %s value %v", t.def, v)
	}
	return []byte(s), nil
}

func (t *enumTable[T]) unmarshal(b []byte, v *T) error {
	got, ok := t.fromWire[string(b)]
	if !ok {
		return fmt.Errorf("unknown %s %q", t.def, b)
	}
	*v = got
	return nil
}

func (t *enumTable[T]) String(v T) string {
	if s, ok := t.toWire[v]; ok {
		return s
	}
	return fmt.Sprintf("%s(%v)", t.def, v)
}

// schemaEnums holds the wire values of every enum keyed by its $defs name
// in blueprint.schema.json.
var schemaEnums = map[string][]string{}

// EnumValues returns the wire values of the named schema definition.
func EnumValues(def string) []string {
	out := append([]string(nil), schemaEnums[def]...)
	sort.Strings(out)
	return out
}

// SignalType is the kind of a circuit signal. Wire form: lowercase.
type SignalType uint8

const (
	SignalItem SignalType = iota + 1
	SignalFluid
	SignalVirtual
)

var signalTypes = newEnumTable("signal_type",
	enumPair[SignalType]{SignalItem, "item"},
	enumPair[SignalType]{SignalFluid, "fluid"},
	enumPair[SignalType]{SignalVirtual, "virtual"},
)

func (s SignalType) String() string                { return signalTypes.String(s) }
func (s SignalType) MarshalText() ([]byte, error)  { return signalTypes.marshal(s) }
func (s *SignalType) UnmarshalText(b []byte) error { return signalTypes.unmarshal(b, s) }

// IOType is the side of an underground belt or loader. Wire form: lowercase.
type IOType uint8

const (
	IOInput IOType = iota + 1
	IOOutput
)

var ioTypes = newEnumTable("io_type",
	enumPair[IOType]{IOInput, "input"},
	enumPair[IOType]{IOOutput, "output"},
)

func (t IOType) String() string                { return ioTypes.String(t) }
func (t IOType) MarshalText() ([]byte, error)  { return ioTypes.marshal(t) }
func (t *IOType) UnmarshalText(b []byte) error { return ioTypes.unmarshal(b, t) }

// SplitterPriority is a splitter input/output priority. Wire form: lowercase.
type SplitterPriority uint8

const (
	PriorityLeft SplitterPriority = iota + 1
	PriorityRight
)

var splitterPriorities = newEnumTable("splitter_priority",
	enumPair[SplitterPriority]{PriorityLeft, "left"},
	enumPair[SplitterPriority]{PriorityRight, "right"},
)

func (p SplitterPriority) String() string                { return splitterPriorities.String(p) }
func (p SplitterPriority) MarshalText() ([]byte, error)  { return splitterPriorities.marshal(p) }
func (p *SplitterPriority) UnmarshalText(b []byte) error { return splitterPriorities.unmarshal(b, p) }

// FilterMode is the filter inserter mode. Wire form: lowercase.
type FilterMode uint8

const (
	FilterWhitelist FilterMode = iota + 1
	FilterBlacklist
)

var filterModes = newEnumTable("filter_mode",
	enumPair[FilterMode]{FilterWhitelist, "whitelist"},
	enumPair[FilterMode]{FilterBlacklist, "blacklist"},
)

func (m FilterMode) String() string                { return filterModes.String(m) }
func (m FilterMode) MarshalText() ([]byte, error)  { return filterModes.marshal(m) }
func (m *FilterMode) UnmarshalText(b []byte) error { return filterModes.unmarshal(b, m) }

// InfinityFilterMode is the mode of an infinity container filter.
// Wire form: kebab-case.
type InfinityFilterMode uint8

const (
	InfinityAtLeast InfinityFilterMode = iota + 1
	InfinityAtMost
	InfinityExactly
)

var infinityFilterModes = newEnumTable("infinity_filter_mode",
	enumPair[InfinityFilterMode]{InfinityAtLeast, "at-least"},
	enumPair[InfinityFilterMode]{InfinityAtMost, "at-most"},
	enumPair[InfinityFilterMode]{InfinityExactly, "exactly"},
)

func (m InfinityFilterMode) String() string                { return infinityFilterModes.String(m) }
func (m InfinityFilterMode) MarshalText() ([]byte, error)  { return infinityFilterModes.marshal(m) }
func (m *InfinityFilterMode) UnmarshalText(b []byte) error { return infinityFilterModes.unmarshal(b, m) }

// WaitConditionType is the kind of a train wait condition. Wire form: snake_case.
type WaitConditionType uint8

const (
	WaitTime WaitConditionType = iota + 1
	WaitInactivity
	WaitFull
	WaitEmpty
	WaitItemCount
	WaitCircuit
	WaitRobotsInactive
	WaitFluidCount
	WaitPassengerPresent
	WaitPassengerNotPresent
)

var waitConditionTypes = newEnumTable("wait_condition_type",
	enumPair[WaitConditionType]{WaitTime, "time"},
	enumPair[WaitConditionType]{WaitInactivity, "inactivity"},
	enumPair[WaitConditionType]{WaitFull, "full"},
	enumPair[WaitConditionType]{WaitEmpty, "empty"},
	enumPair[WaitConditionType]{WaitItemCount, "item_count"},
	enumPair[WaitConditionType]{WaitCircuit, "circuit"},
	enumPair[WaitConditionType]{WaitRobotsInactive, "robots_inactive"},
	enumPair[WaitConditionType]{WaitFluidCount, "fluid_count"},
	enumPair[WaitConditionType]{WaitPassengerPresent, "passenger_present"},
	enumPair[WaitConditionType]{WaitPassengerNotPresent, "passenger_not_present"},
)

func (c WaitConditionType) String() string                { return waitConditionTypes.String(c) }
func (c WaitConditionType) MarshalText() ([]byte, error)  { return waitConditionTypes.marshal(c) }
func (c *WaitConditionType) UnmarshalText(b []byte) error { return waitConditionTypes.unmarshal(b, c) }

// CompareType combines a wait condition with the ones before it.
// Wire form: lowercase.
type CompareType uint8

const (
	CompareAnd CompareType = iota + 1
	CompareOr
)

var compareTypes = newEnumTable("compare_type",
	enumPair[CompareType]{CompareAnd, "and"},
	enumPair[CompareType]{CompareOr, "or"},
)

func (c CompareType) String() string                { return compareTypes.String(c) }
func (c CompareType) MarshalText() ([]byte, error)  { return compareTypes.marshal(c) }
func (c *CompareType) UnmarshalText(b []byte) error { return compareTypes.unmarshal(b, c) }

// CircuitConnectorID tags the kind of connector a wire lands on.
// Wire form: PascalCase.
type CircuitConnectorID uint8

const (
	ConnectorAccumulator CircuitConnectorID = iota + 1
	ConnectorConstantCombinator
	ConnectorContainer
	ConnectorLinkedContainer
	ConnectorProgrammableSpeaker
	ConnectorRailSignal
	ConnectorRailChainSignal
	ConnectorRoboport
	ConnectorStorageTank
	ConnectorWall
	ConnectorElectricPole
	ConnectorInserter
	ConnectorLamp
	ConnectorCombinatorInput
	ConnectorCombinatorOutput
	ConnectorOffshorePump
	ConnectorPump
)

var circuitConnectorIDs = newEnumTable("circuit_connector_id",
	enumPair[CircuitConnectorID]{ConnectorAccumulator, "Accumulator"},
	enumPair[CircuitConnectorID]{ConnectorConstantCombinator, "ConstantCombinator"},
	enumPair[CircuitConnectorID]{ConnectorContainer, "Container"},
	enumPair[CircuitConnectorID]{ConnectorLinkedContainer, "LinkedContainer"},
	enumPair[CircuitConnectorID]{ConnectorProgrammableSpeaker, "ProgrammableSpeaker"},
	enumPair[CircuitConnectorID]{ConnectorRailSignal, "RailSignal"},
	enumPair[CircuitConnectorID]{ConnectorRailChainSignal, "RailChainSignal"},
	enumPair[CircuitConnectorID]{ConnectorRoboport, "Roboport"},
	enumPair[CircuitConnectorID]{ConnectorStorageTank, "StorageTank"},
	enumPair[CircuitConnectorID]{ConnectorWall, "Wall"},
	enumPair[CircuitConnectorID]{ConnectorElectricPole, "ElectricPole"},
	enumPair[CircuitConnectorID]{ConnectorInserter, "Inserter"},
	enumPair[CircuitConnectorID]{ConnectorLamp, "Lamp"},
	enumPair[CircuitConnectorID]{ConnectorCombinatorInput, "CombinatorInput"},
	enumPair[CircuitConnectorID]{ConnectorCombinatorOutput, "CombinatorOutput"},
	enumPair[CircuitConnectorID]{ConnectorOffshorePump, "OffshorePump"},
	enumPair[CircuitConnectorID]{ConnectorPump, "Pump"},
)

func (c CircuitConnectorID) String() string                { return circuitConnectorIDs.String(c) }
func (c CircuitConnectorID) MarshalText() ([]byte, error)  { return circuitConnectorIDs.marshal(c) }
func (c *CircuitConnectorID) UnmarshalText(b []byte) error { return circuitConnectorIDs.unmarshal(b, c) }
