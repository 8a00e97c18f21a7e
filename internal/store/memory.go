package store

import (
	"sync"

	"github.com/openboard/openboard/internal/board"
)

// Memory is the local replica. It backs the engine directly in tests and
// offline mode, and is embedded by the websocket store, which forwards every
// Apply to the room server after the optimistic local write.
type Memory struct {
	mu      sync.RWMutex
	state   *board.State
	others  map[string]Presence
	subs    map[int]func()
	nextSub int

	// sink, when set, receives every locally originated mutation after it
	// has been applied to the replica.
	sink func(Mutation)

	// presenceSink, when set, receives local presence updates.
	presenceSink func(Presence)
}

// NewMemory returns a store whose Read is pending until SetInitial is called.
func NewMemory() *Memory {
	return &Memory{
		others: make(map[string]Presence),
		subs:   make(map[int]func()),
	}
}

// SetInitial installs the room state received from the sync service (or the
// bootstrap layout) and wakes subscribers.
func (m *Memory) SetInitial(st *board.State) {
	m.mu.Lock()
	m.state = st.Clone()
	m.mu.Unlock()
	m.notify()
}

func (m *Memory) Read() (*board.State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return nil, false
	}
	return m.state, true
}

func (m *Memory) Apply(mut Mutation) {
	m.mu.Lock()
	if m.state == nil {
		m.mu.Unlock()
		return
	}
	applyMutation(m.state, mut)
	sink := m.sink
	m.mu.Unlock()

	if sink != nil {
		sink(mut)
	}
	m.notify()
}

// ApplyRemote applies a mutation that arrived from the sync service. It is
// not forwarded to the sink.
func (m *Memory) ApplyRemote(mut Mutation) {
	m.mu.Lock()
	if m.state == nil {
		m.mu.Unlock()
		return
	}
	applyMutation(m.state, mut)
	m.mu.Unlock()
	m.notify()
}

func applyMutation(st *board.State, mut Mutation) {
	if mut.Images != nil {
		st.Images = append([]board.PlacedImage(nil), (*mut.Images)...)
	}
	if mut.Shapes != nil {
		st.Shapes = make([]board.Shape, len(*mut.Shapes))
		for i, s := range *mut.Shapes {
			s.Points = append([]float64(nil), s.Points...)
			st.Shapes[i] = s
		}
	}
	if mut.Lines != nil {
		st.Lines = make([]board.Line, len(*mut.Lines))
		for i, l := range *mut.Lines {
			l.Points = append([]float64(nil), l.Points...)
			st.Lines[i] = l
		}
	}
}

func (m *Memory) SetPresence(p Presence) {
	m.mu.RLock()
	sink := m.presenceSink
	m.mu.RUnlock()
	if sink != nil {
		sink(p)
	}
}

// UpdateOther records a remote participant's presence.
func (m *Memory) UpdateOther(connectionID string, p Presence) {
	m.mu.Lock()
	m.others[connectionID] = p
	m.mu.Unlock()
	m.notify()
}

// RemoveOther drops a departed participant.
func (m *Memory) RemoveOther(connectionID string) {
	m.mu.Lock()
	delete(m.others, connectionID)
	m.mu.Unlock()
	m.notify()
}

func (m *Memory) Others() []Participant {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Participant, 0, len(m.others))
	for id, p := range m.others {
		out = append(out, Participant{ConnectionID: id, Presence: p})
	}
	return out
}

func (m *Memory) Subscribe(fn func()) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// SetSink routes locally originated mutations to the transport layer.
func (m *Memory) SetSink(fn func(Mutation)) {
	m.mu.Lock()
	m.sink = fn
	m.mu.Unlock()
}

// SetPresenceSink routes local presence updates to the transport layer.
func (m *Memory) SetPresenceSink(fn func(Presence)) {
	m.mu.Lock()
	m.presenceSink = fn
	m.mu.Unlock()
}

func (m *Memory) notify() {
	m.mu.RLock()
	fns := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
