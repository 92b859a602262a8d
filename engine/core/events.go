package core

import "sync"

type EventContext struct {
	Data struct {
		I64 [2]int64
		U64 [2]uint64
		F64 [2]float64

		I32 [4]int32
		U32 [4]uint32
		F32 [4]float32

		C [4]string
	}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// A DeleteEmptyParents pass finished.
	/* Context usage:
	 * u32 root = data.U32[0];
	 * u32 removed = data.U32[1];
	 * u32 skipped = data.U32[2];
	 * u32 renamed = data.U32[3];
	 */
	EVENT_CODE_HIERARCHY_PRUNED SystemEventCode = 0x01

	// Collision data of a procedural mesh is available.
	/* Context usage:
	 * u32 node = data.U32[0];
	 * u32 triangles = data.U32[1];
	 */
	EVENT_CODE_COLLISION_COOKED SystemEventCode = 0x02

	// A watched asset changed on disk and was evicted from the cache.
	/* Context usage:
	 * string path = data.C[0];
	 */
	EVENT_CODE_ASSET_CHANGED SystemEventCode = 0x03

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []*registeredEvent
}

// State structure.
type eventSystemState struct {
	mu sync.RWMutex
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES]eventCodeEntry
}

var onceEvent sync.Once
var eventState *eventSystemState = nil

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

func events() *eventSystemState {
	onceEvent.Do(func() {
		eventState = &eventSystemState{}
	})
	return eventState
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener A listener instance. Can be nil.
 * @param onEvent The callback to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if code < 0 || code >= MAX_MESSAGE_CODES || onEvent == nil {
		return false
	}
	s := events()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.registered[code].events {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	s.registered[code].events = append(s.registered[code].events, &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func EventUnregister(code SystemEventCode, listener interface{}) bool {
	if code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	s := events()
	s.mu.Lock()
	defer s.mu.Unlock()
	evs := s.registered[code].events
	for i, e := range evs {
		if e.listener == listener {
			s.registered[code].events = append(evs[:i:i], evs[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	s := events()
	s.mu.RLock()
	evs := append([]*registeredEvent(nil), s.registered[code].events...)
	s.mu.RUnlock()
	for _, e := range evs {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

// EventShutdown drops every registration.
func EventShutdown() error {
	s := events()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.registered {
		s.registered[i].events = nil
	}
	return nil
}
