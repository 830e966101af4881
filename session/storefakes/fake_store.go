package storefakes

import (
	"context"
	"sync"

	"github.com/NMHx2005/lms-frontend-sub000/session"
)

var _ session.Store = (*FakeStore)(nil)

// FakeStore is an in-memory session.Store that records how it was used and
// can be told to fail.
type FakeStore struct {
	values map[session.Key]string
	sets   map[session.Key]int
	clears int
	lock   sync.RWMutex

	GetErr   error
	SetErr   error
	ClearErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		values: make(map[session.Key]string),
		sets:   make(map[session.Key]int),
	}
}

// NewFakeStoreWithTokens returns a store already holding a session.
func NewFakeStoreWithTokens(accessToken, refreshToken string) *FakeStore {
	fs := NewFakeStore()
	if accessToken != "" {
		fs.values[session.KeyAccessToken] = accessToken
	}
	if refreshToken != "" {
		fs.values[session.KeyRefreshToken] = refreshToken
	}
	return fs
}

func (fs *FakeStore) Get(_ context.Context, key session.Key) (string, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.GetErr != nil {
		return "", fs.GetErr
	}
	return fs.values[key], nil
}

func (fs *FakeStore) Set(_ context.Context, key session.Key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.SetErr != nil {
		return fs.SetErr
	}
	fs.values[key] = value
	fs.sets[key]++
	return nil
}

func (fs *FakeStore) Clear(_ context.Context, keys ...session.Key) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.ClearErr != nil {
		return fs.ClearErr
	}
	for _, k := range keys {
		delete(fs.values, k)
	}
	fs.clears++
	return nil
}

// Value returns the stored value without going through Get's error hook.
func (fs *FakeStore) Value(key session.Key) string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.values[key]
}

// Has reports whether anything is stored under key.
func (fs *FakeStore) Has(key session.Key) bool {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	_, ok := fs.values[key]
	return ok
}

// SetCount is the number of successful Set calls for key.
func (fs *FakeStore) SetCount(key session.Key) int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.sets[key]
}

// ClearCount is the number of successful Clear calls.
func (fs *FakeStore) ClearCount() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.clears
}
