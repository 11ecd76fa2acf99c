package store

import (
	"errors"
	"fmt"
	"sync"
)

// Limited enforces a total size budget across all records, counted as the
// sum of key and value lengths, the way a browser caps localStorage.
type Limited struct {
	Store
	max   int
	mu    sync.Mutex
	sizes map[string]int
}

// Limit wraps s with a budget of max bytes. A max of zero or less disables
// the limit and returns s unchanged.
func Limit(s Store, max int) Store {
	if max <= 0 {
		return s
	}
	return &Limited{Store: s, max: max, sizes: make(map[string]int)}
}

func (l *Limited) used() int {
	total := 0
	for _, n := range l.sizes {
		total += n
	}
	return total
}

// size returns the recorded size of key, consulting the backing store the
// first time the key is seen so pre-existing records count too.
func (l *Limited) size(key string) (int, error) {
	if n, ok := l.sizes[key]; ok {
		return n, nil
	}
	value, err := l.Store.Get(key)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n := len(key) + len(value)
	l.sizes[key] = n
	return n, nil
}

func (l *Limited) Get(key string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	value, err := l.Store.Get(key)
	if err == nil {
		l.sizes[key] = len(key) + len(value)
	}
	return value, err
}

func (l *Limited) Set(key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.size(key)
	if err != nil {
		return err
	}
	next := len(key) + len(value)
	if l.used()-current+next > l.max {
		return fmt.Errorf("set %s (%d bytes): %w", key, next, ErrQuotaExceeded)
	}
	if err := l.Store.Set(key, value); err != nil {
		return err
	}
	l.sizes[key] = next
	return nil
}

func (l *Limited) Remove(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.Store.Remove(key); err != nil {
		return err
	}
	delete(l.sizes, key)
	return nil
}
