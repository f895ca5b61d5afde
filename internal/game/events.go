package game

type EventType int

const (
	EventCrystalCollected EventType = iota
	EventRiftOpened
	EventRiftEntered
	EventRiftFaded
	EventLanded
	EventTookOff
	EventHarmonicLocked
	EventDissonance
	EventAscension
)

type Event struct {
	Type EventType
	Dim  int     // dimension payload where relevant
	Aux  float64 // generic scalar payload (frequency, charge, count)
}

type EventHandler func(Event)

// EventBus decouples gameplay outcomes from their audio and speech
// reactions. Single-threaded: emitted and handled on the simulation
// tick only.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
