// Package store persists manually adjusted layouts per topology.
//
// All saved layouts live under a single key ([Key]) as a JSON array of
// [SavedTopology] records. Every mutation rewrites the whole array in one
// [kv.Store.Set] call, so readers never observe a partial update.
//
// # Lifecycle
//
// A record is created with gravity on the first time a topology is viewed.
// Turning gravity off snapshots every node position (rounded to whole units);
// turning it back on clears the snapshot. Dragging a node while gravity is off
// upserts that node's position as given.
//
// Stored data that cannot be decoded is treated as if nothing were saved and
// is overwritten by the next mutation.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topolayout/pkg/kv"
	"github.com/matzehuels/topolayout/pkg/layout/viewport"
	"github.com/matzehuels/topolayout/pkg/observability"
	"github.com/matzehuels/topolayout/pkg/topology"
)

// Key is the storage key holding every saved layout.
const Key = "savedTopologies"

// Entry is the saved position of one node.
type Entry struct {
	IP string  `json:"ip"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// SavedTopology is the persisted layout state of one topology.
type SavedTopology struct {
	ID      string  `json:"id"`
	Gravity bool    `json:"gravity"`
	IPs     []Entry `json:"ips"`
}

// Lookup returns the saved entry for ip.
func (t SavedTopology) Lookup(ip string) (Entry, bool) {
	i := slices.IndexFunc(t.IPs, func(e Entry) bool { return e.IP == ip })
	if i < 0 {
		return Entry{}, false
	}
	return t.IPs[i], true
}

func (t *SavedTopology) upsert(ip string, x, y float64) {
	i := slices.IndexFunc(t.IPs, func(e Entry) bool { return e.IP == ip })
	if i < 0 {
		t.IPs = append(t.IPs, Entry{IP: ip, X: x, Y: y})
		return
	}
	t.IPs[i].X, t.IPs[i].Y = x, y
}

// writeMu serialises read-modify-write cycles of stores in this process that
// share a backend.
var writeMu sync.Mutex

// Store loads and saves layouts for one topology at a time.
// It is not safe for concurrent use.
type Store struct {
	backend kv.Store
	logger  *log.Logger
	random  func() float64

	current *SavedTopology
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for warnings.
func WithLogger(l *log.Logger) Option { return func(s *Store) { s.logger = l } }

// WithRandom sets the source of placement positions for unsaved nodes.
// random must return values in [0, 1).
func WithRandom(random func() float64) Option { return func(s *Store) { s.random = random } }

// New returns a store over backend.
func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.random == nil {
		s.random = rand.Float64
	}
	return s
}

// Current returns the record loaded by the last Load, or nil.
func (s *Store) Current() *SavedTopology { return s.current }

// Load finds the record for topologyID, creating and persisting it with
// gravity on if none exists. It always returns a usable record; a non-nil
// error means the backend could not be read or written and the record only
// lives in memory.
func (s *Store) Load(ctx context.Context, topologyID string) (*SavedTopology, error) {
	writeMu.Lock()
	defer writeMu.Unlock()

	all, readErr := s.readAll(ctx)
	if i := slices.IndexFunc(all, func(t SavedTopology) bool { return t.ID == topologyID }); i >= 0 {
		rec := all[i]
		s.current = &rec
		observability.Store().OnLoad(ctx, topologyID, true)
		return s.current, nil
	}

	observability.Store().OnLoad(ctx, topologyID, false)
	s.current = &SavedTopology{ID: topologyID, Gravity: true, IPs: []Entry{}}
	if readErr != nil {
		return s.current, readErr
	}
	all = append(all, *s.current)
	return s.current, s.writeLocked(ctx, all)
}

// ApplyToLiveNodes positions nodes from saved. A node with a saved entry
// takes it; any other node gets a random position inside vp, which is
// appended to saved. The record is then persisted.
func (s *Store) ApplyToLiveNodes(ctx context.Context, nodes []*topology.Node, saved *SavedTopology, vp viewport.Viewport) error {
	for _, n := range nodes {
		if e, ok := saved.Lookup(n.ID); ok {
			n.X, n.Y = e.X, e.Y
			continue
		}
		n.X = math.Round(s.random() * vp.Width)
		n.Y = math.Round(s.random() * vp.Height)
		saved.IPs = append(saved.IPs, Entry{IP: n.ID, X: n.X, Y: n.Y})
	}
	return s.save(ctx, saved)
}

// RecordGravityToggle stores the gravity flag. Turning gravity off replaces
// the saved positions with a rounded snapshot of every node; turning it on
// clears them.
func (s *Store) RecordGravityToggle(ctx context.Context, nodes []*topology.Node, gravityOn bool) error {
	rec := s.record()
	rec.Gravity = gravityOn
	rec.IPs = make([]Entry, 0, len(nodes))
	if !gravityOn {
		for _, n := range nodes {
			rec.IPs = append(rec.IPs, Entry{IP: n.ID, X: math.Round(n.X), Y: math.Round(n.Y)})
		}
	}
	return s.save(ctx, rec)
}

// RecordDrag upserts the saved position of one node.
func (s *Store) RecordDrag(ctx context.Context, nodeID string, x, y float64) error {
	rec := s.record()
	rec.upsert(nodeID, x, y)
	return s.save(ctx, rec)
}

// List returns every saved record.
func (s *Store) List(ctx context.Context) ([]SavedTopology, error) {
	return s.readAll(ctx)
}

// Remove deletes the record for topologyID and reports whether it existed.
func (s *Store) Remove(ctx context.Context, topologyID string) (bool, error) {
	writeMu.Lock()
	defer writeMu.Unlock()

	all, err := s.readAll(ctx)
	if err != nil {
		return false, err
	}
	n := len(all)
	all = slices.DeleteFunc(all, func(t SavedTopology) bool { return t.ID == topologyID })
	if len(all) == n {
		return false, nil
	}
	if s.current != nil && s.current.ID == topologyID {
		s.current = nil
	}
	return true, s.writeLocked(ctx, all)
}

// Clear deletes every saved record.
func (s *Store) Clear(ctx context.Context) error {
	s.current = nil
	return s.backend.Delete(ctx, Key)
}

func (s *Store) record() *SavedTopology {
	if s.current == nil {
		s.current = &SavedTopology{Gravity: true, IPs: []Entry{}}
	}
	return s.current
}

// save merges rec into the stored set and writes it back.
func (s *Store) save(ctx context.Context, rec *SavedTopology) error {
	writeMu.Lock()
	defer writeMu.Unlock()

	all, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(all, func(t SavedTopology) bool { return t.ID == rec.ID }); i >= 0 {
		all[i] = *rec
	} else {
		all = append(all, *rec)
	}
	return s.writeLocked(ctx, all)
}

// readAll returns the stored set. Undecodable data reads as empty.
func (s *Store) readAll(ctx context.Context) ([]SavedTopology, error) {
	data, ok, err := s.backend.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("read saved layouts: %w", err)
	}
	if !ok || len(data) == 0 {
		return nil, nil
	}
	var all []SavedTopology
	if err := json.Unmarshal(data, &all); err != nil {
		s.logger.Warn("ignoring unreadable saved layouts", "key", Key, "error", err)
		observability.Store().OnCorrupt(ctx, err)
		return nil, nil
	}
	return all, nil
}

func (s *Store) writeLocked(ctx context.Context, all []SavedTopology) error {
	id := ""
	if s.current != nil {
		id = s.current.ID
	}
	data, err := json.Marshal(all)
	if err != nil {
		observability.Store().OnSave(ctx, id, 0, err)
		return fmt.Errorf("encode saved layouts: %w", err)
	}
	err = s.backend.Set(ctx, Key, data)
	observability.Store().OnSave(ctx, id, len(data), err)
	if err != nil {
		return fmt.Errorf("write saved layouts: %w", err)
	}
	return nil
}
