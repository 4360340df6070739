package types

import (
	"sync"
)

// Map is a typed wrapper over sync.Map.
type Map[TKey comparable, TValue any] struct {
	m sync.Map
}

func (m *Map[TKey, TValue]) Load(key TKey) (value TValue, ok bool) {
	v, ok := m.m.Load(key)
	if !ok {
		return value, false
	}
	return v.(TValue), true
}

func (m *Map[TKey, TValue]) Store(key TKey, value TValue) {
	m.m.Store(key, value)
}

func (m *Map[TKey, TValue]) LoadOrStore(key TKey, value TValue) (actual TValue, loaded bool) {
	v, loaded := m.m.LoadOrStore(key, value)
	return v.(TValue), loaded
}

func (m *Map[TKey, TValue]) LoadAndDelete(key TKey) (value TValue, loaded bool) {
	v, loaded := m.m.LoadAndDelete(key)
	if !loaded {
		return value, false
	}
	return v.(TValue), true
}

func (m *Map[TKey, TValue]) Swap(key TKey, value TValue) (previous TValue, loaded bool) {
	v, loaded := m.m.Swap(key, value)
	if !loaded {
		return previous, false
	}
	return v.(TValue), true
}

// CompareAndDelete deletes the entry for key if its value is old.
// The value type must be comparable.
func (m *Map[TKey, TValue]) CompareAndDelete(key TKey, old TValue) (deleted bool) {
	return m.m.CompareAndDelete(key, old)
}

func (m *Map[TKey, TValue]) Delete(key TKey) {
	m.m.Delete(key)
}

func (m *Map[TKey, TValue]) Range(f func(key TKey, value TValue) bool) {
	m.m.Range(func(key, value any) bool {
		return f(key.(TKey), value.(TValue))
	})
}

func (m *Map[TKey, TValue]) Keys() (keys []TKey) {
	m.Range(func(key TKey, _ TValue) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (m *Map[TKey, TValue]) Values() (values []TValue) {
	m.Range(func(_ TKey, value TValue) bool {
		values = append(values, value)
		return true
	})
	return values
}

func (m *Map[TKey, TValue]) Len() (n int) {
	m.Range(func(TKey, TValue) bool {
		n++
		return true
	})
	return n
}

func (m *Map[TKey, TValue]) Clear() {
	m.m.Clear()
}
