// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/desertthunder/vox/internal/audio"
	"github.com/desertthunder/vox/internal/shared"
)

var (
	_ audio.Capturer = (*FakeCapturer)(nil)
	_ audio.Player   = (*FakePlayer)(nil)
	_ audio.Sound    = (*FakeSound)(nil)
)

// FakeCapturer is a test double for [audio.Capturer] that produces in-memory clips.
type FakeCapturer struct {
	DenyPermission bool
	StartErr       error
	StopErr        error
	ReleaseErr     error

	Mode      audio.Mode
	Capturing bool
	Starts    int
	Released  []*audio.Clip

	next int
}

func (f *FakeCapturer) RequestPermission(ctx context.Context) error {
	if f.DenyPermission {
		return fmt.Errorf("%w: denied by test", shared.ErrPermissionDenied)
	}
	return nil
}

func (f *FakeCapturer) SetMode(ctx context.Context, mode audio.Mode) error {
	f.Mode = mode
	return nil
}

func (f *FakeCapturer) Start(ctx context.Context) error {
	if f.StartErr != nil {
		return f.StartErr
	}
	if f.Mode != audio.ModeRecord {
		return fmt.Errorf("%w: not in record mode", shared.ErrInvalidState)
	}
	f.Capturing = true
	f.Starts++
	return nil
}

func (f *FakeCapturer) Stop(ctx context.Context) (*audio.Clip, error) {
	if !f.Capturing {
		return nil, fmt.Errorf("%w: not capturing", shared.ErrInvalidState)
	}
	f.Capturing = false
	if f.StopErr != nil {
		return nil, f.StopErr
	}
	f.next++
	id := fmt.Sprintf("clip-%d", f.next)
	return audio.NewClip(id, "/fake/"+id+".wav"), nil
}

func (f *FakeCapturer) Release(clip *audio.Clip) error {
	f.Released = append(f.Released, clip)
	return f.ReleaseErr
}

// FakePlayer is a test double for [audio.Player]. Every loaded sound is kept in Sounds.
type FakePlayer struct {
	LoadErr error
	PlayErr error

	mu     sync.Mutex
	Sounds []*FakeSound
}

func (p *FakePlayer) Load(ctx context.Context, clip *audio.Clip) (audio.Sound, error) {
	if p.LoadErr != nil {
		return nil, p.LoadErr
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s := &FakeSound{
		id:      fmt.Sprintf("sound-%d", len(p.Sounds)+1),
		Clip:    clip,
		playErr: p.PlayErr,
		done:    make(chan struct{}),
	}
	p.Sounds = append(p.Sounds, s)
	return s, nil
}

// Active returns the sounds that are loaded and not yet unloaded.
func (p *FakePlayer) Active() []*FakeSound {
	p.mu.Lock()
	defer p.mu.Unlock()

	var active []*FakeSound
	for _, s := range p.Sounds {
		if !s.Unloaded() {
			active = append(active, s)
		}
	}
	return active
}

// FakeSound is a test double for [audio.Sound]; call Finish to simulate end of stream.
type FakeSound struct {
	id      string
	Clip    *audio.Clip
	playErr error

	mu       sync.Mutex
	playing  bool
	unloaded bool
	done     chan struct{}
	once     sync.Once
}

func (s *FakeSound) ID() string            { return s.id }
func (s *FakeSound) Done() <-chan struct{} { return s.done }

func (s *FakeSound) Play() error {
	if s.playErr != nil {
		return s.playErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = true
	return nil
}

// Finish simulates the audio subsystem reaching end of stream.
func (s *FakeSound) Finish() {
	s.mu.Lock()
	s.playing = false
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
}

func (s *FakeSound) Unload() error {
	s.mu.Lock()
	s.unloaded = true
	s.playing = false
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
	return nil
}

// Playing reports whether Play was called and neither Finish nor Unload followed.
func (s *FakeSound) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Unloaded reports whether Unload was called.
func (s *FakeSound) Unloaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unloaded
}

// FailingStore is a key-value store whose every operation returns Err.
type FailingStore struct {
	Err error
}

func (f *FailingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, f.Err
}

func (f *FailingStore) Set(ctx context.Context, key, value string) error { return f.Err }

func (f *FailingStore) Delete(ctx context.Context, key string) error { return f.Err }

// MemoryStore is an in-memory key-value store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]string{}}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// ErrWriteLimit is returned by [CountingWriter] once its budget is spent.
var ErrWriteLimit = errors.New("write limit exceeded")

// CountingWriter forwards the first N writes to a target and fails every later one.
type CountingWriter struct {
	Target io.Writer
	Writes int

	budget int
}

// FailAfter returns a [CountingWriter] that accepts n writes into target.
func FailAfter(n int, target io.Writer) *CountingWriter {
	return &CountingWriter{Target: target, budget: n}
}

func (w *CountingWriter) Write(p []byte) (int, error) {
	if w.Writes >= w.budget {
		return 0, ErrWriteLimit
	}
	w.Writes++
	return w.Target.Write(p)
}
