package blueprint

// Optional fields are pointers, nil slices or nil maps and are tagged
// omitzero: an absent wire field stays absent, an explicit zero or empty
// value survives a render. Members the model does not know end up in the
// Extra of their object and are rendered back.

// BlueprintBook is a book of blueprints (and nested books).
type BlueprintBook struct {
	Blueprints  []BookEntry `json:"blueprints,omitzero"`
	Item        string      `json:"item"`
	Label       *string     `json:"label,omitzero"`
	LabelColor  *Color      `json:"label_color,omitzero"`
	Description *string     `json:"description,omitzero"`
	ActiveIndex int         `json:"active_index"`
	Version     Version     `json:"version"`

	Extra Extra `json:"-"`
}

// BookEntry is one slot of a book. Exactly one of Blueprint and Book is set.
type BookEntry struct {
	Index     int            `json:"index"`
	Blueprint *Blueprint     `json:"blueprint,omitzero"`
	Book      *BlueprintBook `json:"blueprint_book,omitzero"`

	Extra Extra `json:"-"`
}

type Blueprint struct {
	Icons       []Icon     `json:"icons,omitzero"`
	Entities    []Entity   `json:"entities,omitzero"`
	Tiles       []Tile     `json:"tiles,omitzero"`
	Schedules   []Schedule `json:"schedules,omitzero"`
	Item        string     `json:"item"`
	Label       *string    `json:"label,omitzero"`
	LabelColor  *Color     `json:"label_color,omitzero"`
	Description *string    `json:"description,omitzero"`
	Version     Version    `json:"version"`

	Extra Extra `json:"-"`
}

type Icon struct {
	Signal SignalID `json:"signal"`
	Index  int      `json:"index"`

	Extra Extra `json:"-"`
}

type SignalID struct {
	Type SignalType `json:"type"`
	Name string     `json:"name"`

	Extra Extra `json:"-"`
}

// Direction is an entity direction in eighths of a turn (0 = north).
type Direction uint8

const (
	North Direction = 0
	East  Direction = 2
	South Direction = 4
	West  Direction = 6
)

// Entity is a placed structure. Only the fields that belong to its prototype
// are set.
type Entity struct {
	EntityNumber int      `json:"entity_number"`
	Name         string   `json:"name"`
	Position     Position `json:"position"`

	Direction   *Direction  `json:"direction,omitzero"`
	Orientation *float64    `json:"orientation,omitzero"`
	Connections Connections `json:"connections,omitzero"`
	// Neighbors are copper wire links to other entity numbers.
	Neighbors []int             `json:"neighbours,omitzero"`
	Items     map[string]uint32 `json:"items,omitzero"`

	Recipe           *string           `json:"recipe,omitzero"`
	Bar              *uint16           `json:"bar,omitzero"`
	Inventory        *Inventory        `json:"inventory,omitzero"`
	InfinitySettings *InfinitySettings `json:"infinity_settings,omitzero"`

	Type           *IOType           `json:"type,omitzero"`
	InputPriority  *SplitterPriority `json:"input_priority,omitzero"`
	OutputPriority *SplitterPriority `json:"output_priority,omitzero"`
	Filter         *string           `json:"filter,omitzero"`

	Filters           []ItemFilter `json:"filters,omitzero"`
	FilterMode        *FilterMode  `json:"filter_mode,omitzero"`
	OverrideStackSize *uint8       `json:"override_stack_size,omitzero"`
	DropPosition      *Position    `json:"drop_position,omitzero"`
	PickupPosition    *Position    `json:"pickup_position,omitzero"`

	RequestFilters     []LogisticFilter `json:"request_filters,omitzero"`
	RequestFromBuffers *bool            `json:"request_from_buffers,omitzero"`

	Parameters      *SpeakerParameters      `json:"parameters,omitzero"`
	AlertParameters *SpeakerAlertParameters `json:"alert_parameters,omitzero"`

	AutoLaunch *bool   `json:"auto_launch,omitzero"`
	Variation  *uint8  `json:"variation,omitzero"`
	Color      *Color  `json:"color,omitzero"`
	Station    *string `json:"station,omitzero"`

	Extra Extra `json:"-"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`

	Extra Extra `json:"-"`
}

// Color components are in 0..1. Alpha is optional on the wire.
type Color struct {
	R float64  `json:"r"`
	G float64  `json:"g"`
	B float64  `json:"b"`
	A *float64 `json:"a,omitzero"`

	Extra Extra `json:"-"`
}

type Tile struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`

	Extra Extra `json:"-"`
}

type ItemFilter struct {
	Index int    `json:"index"`
	Name  string `json:"name"`

	Extra Extra `json:"-"`
}

// Inventory is a cargo wagon inventory configuration.
type Inventory struct {
	Filters []ItemFilter `json:"filters,omitzero"`
	Bar     *uint16      `json:"bar,omitzero"`

	Extra Extra `json:"-"`
}

type InfinitySettings struct {
	RemoveUnfilteredItems bool             `json:"remove_unfiltered_items"`
	Filters               []InfinityFilter `json:"filters,omitzero"`

	Extra Extra `json:"-"`
}

type InfinityFilter struct {
	Name  string             `json:"name"`
	Count uint32             `json:"count"`
	Mode  InfinityFilterMode `json:"mode"`
	Index int                `json:"index"`

	Extra Extra `json:"-"`
}

// LogisticFilter is a request slot of a logistic container. Count is 0 for
// storage chests.
type LogisticFilter struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Count uint32 `json:"count"`

	Extra Extra `json:"-"`
}

type SpeakerParameters struct {
	PlaybackVolume   float64 `json:"playback_volume"`
	PlaybackGlobally bool    `json:"playback_globally"`
	AllowPolyphony   bool    `json:"allow_polyphony"`

	Extra Extra `json:"-"`
}

type SpeakerAlertParameters struct {
	ShowAlert    bool      `json:"show_alert"`
	ShowOnMap    bool      `json:"show_on_map"`
	IconSignalID *SignalID `json:"icon_signal_id,omitzero"`
	AlertMessage string    `json:"alert_message,omitzero"`

	Extra Extra `json:"-"`
}

// Schedule binds stop records to the locomotives (entity numbers) running it.
type Schedule struct {
	Records     []ScheduleRecord `json:"schedule"`
	Locomotives []int            `json:"locomotives"`

	Extra Extra `json:"-"`
}

type ScheduleRecord struct {
	Station        string          `json:"station"`
	WaitConditions []WaitCondition `json:"wait_conditions,omitzero"`

	Extra Extra `json:"-"`
}

type WaitCondition struct {
	Type        WaitConditionType `json:"type"`
	CompareType CompareType       `json:"compare_type"`
	Ticks       *uint32           `json:"ticks,omitzero"`
	Condition   *Condition        `json:"condition,omitzero"`

	Extra Extra `json:"-"`
}

// Connection holds the wires on connector 1 and, for combinators and the
// like, connector 2.
type Connection struct {
	First  *ConnectionPoint `json:"1,omitzero"`
	Second *ConnectionPoint `json:"2,omitzero"`

	Extra Extra `json:"-"`
}

type ConnectionPoint struct {
	Red   []ConnectionData `json:"red,omitzero"`
	Green []ConnectionData `json:"green,omitzero"`

	Extra Extra `json:"-"`
}

// ConnectionData points at another entity of the same blueprint.
type ConnectionData struct {
	EntityID  int                 `json:"entity_id"`
	CircuitID *CircuitConnectorID `json:"circuit_id,omitzero"`

	Extra Extra `json:"-"`
}
