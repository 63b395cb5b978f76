package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/rotation-players/brackets"
	"github.com/Dosada05/rotation-players/courts"
	"github.com/Dosada05/rotation-players/models"
	"github.com/Dosada05/rotation-players/repositories"
	"github.com/Dosada05/rotation-players/storage"
	"github.com/google/uuid"
)

var errStoreDown = errors.New("store is down")

type fakeParticipantRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]models.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{nextID: 1, rows: make(map[int]models.Participant)}
}

func (r *fakeParticipantRepo) seed(names ...string) []int {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		p := &models.Participant{Name: name}
		_ = r.Create(context.Background(), p)
		ids = append(ids, p.ID)
	}
	return ids
}

func (r *fakeParticipantRepo) Create(_ context.Context, p *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Name == p.Name {
			return repositories.ErrParticipantNameConflict
		}
	}
	p.ID = r.nextID
	p.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.nextID++
	r.rows[p.ID] = *p
	return nil
}

func (r *fakeParticipantRepo) GetByID(_ context.Context, id int) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	return &p, nil
}

func (r *fakeParticipantRepo) List(_ context.Context) ([]*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Participant, 0, len(r.rows))
	for _, p := range r.rows {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeParticipantRepo) ListByIDs(_ context.Context, ids []int) ([]*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.rows[id]; ok {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) UpdateName(_ context.Context, id int, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.Name = name
	r.rows[id] = p
	return nil
}

func (r *fakeParticipantRepo) UpdateStats(_ context.Context, _ repositories.SQLExecutor, p *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[p.ID]; !ok {
		return repositories.ErrParticipantNotFound
	}
	r.rows[p.ID] = *p
	return nil
}

func (r *fakeParticipantRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrParticipantNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeParticipantRepo) get(id int) models.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id]
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []models.RatingHistoryEntry
}

func (r *fakeHistoryRepo) Append(_ context.Context, _ repositories.SQLExecutor, entries []models.RatingHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeHistoryRepo) ListByParticipant(_ context.Context, participantID int) ([]models.RatingHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.RatingHistoryEntry{}
	for _, e := range r.entries {
		if e.ParticipantID == participantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) ListLatest(_ context.Context) ([]models.RatingHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := make(map[int]models.RatingHistoryEntry)
	for _, e := range r.entries {
		latest[e.ParticipantID] = e
	}
	out := make([]models.RatingHistoryEntry, 0, len(latest))
	for _, e := range latest {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeHistoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]models.Session
	states    map[uuid.UUID]json.RawMessage
	failSaves bool
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[uuid.UUID]models.Session),
		states:   make(map[uuid.UUID]json.RawMessage),
	}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sessions {
		if existing.Name == s.Name {
			return repositories.ErrSessionNameConflict
		}
	}
	s.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.UpdatedAt = s.CreatedAt
	r.sessions[s.ID] = *s
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	s.PlayerIDs = slices.Clone(s.PlayerIDs)
	return &s, nil
}

func (r *fakeSessionRepo) List(_ context.Context) ([]*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		s := s
		out = append(out, &s)
	}
	return out, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return repositories.ErrSessionNotFound
	}
	r.sessions[s.ID] = *s
	return nil
}

func (r *fakeSessionRepo) SaveState(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID, state json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSaves {
		return errStoreDown
	}
	if _, ok := r.sessions[id]; !ok {
		return repositories.ErrSessionNotFound
	}
	r.states[id] = slices.Clone(state)
	return nil
}

func (r *fakeSessionRepo) LoadState(_ context.Context, id uuid.UUID) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return nil, repositories.ErrSessionNotFound
	}
	return r.states[id], nil
}

func (r *fakeSessionRepo) setFailSaves(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failSaves = v
}

type fakeResultRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []models.GameResult
}

func (r *fakeResultRepo) Create(_ context.Context, _ repositories.SQLExecutor, result *models.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	result.ID = r.nextID
	r.rows = append(r.rows, *result)
	return nil
}

func (r *fakeResultRepo) ListBySession(_ context.Context, sessionID string) ([]*models.GameResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.GameResult, 0)
	for _, row := range r.rows {
		if row.SessionID == sessionID {
			row := row
			out = append(out, &row)
		}
	}
	return out, nil
}

// fakeTx has no rollback; tests only use it on paths that succeed or fail
// before the first write.
type fakeTx struct{}

func (fakeTx) RunInTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type publishedEvent struct {
	Room    string
	Type    string
	Payload interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (n *fakeNotifier) Publish(roomID, eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{Room: roomID, Type: eventType, Payload: payload})
}

func (n *fakeNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

func (n *fakeNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, reader io.Reader) (*storage.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.fail {
		return nil, errStoreDown
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	if u.objects == nil {
		u.objects = make(map[string][]byte)
	}
	u.objects[key] = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://archive.test/" + key
}

// testClock is a settable time source.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

type sessionFixture struct {
	svc          *sessionService
	participants *fakeParticipantRepo
	history      *fakeHistoryRepo
	sessions     *fakeSessionRepo
	results      *fakeResultRepo
	notifier     *fakeNotifier
	uploader     *fakeUploader
	clock        *testClock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		participants: newFakeParticipantRepo(),
		history:      &fakeHistoryRepo{},
		sessions:     newFakeSessionRepo(),
		results:      &fakeResultRepo{},
		notifier:     &fakeNotifier{},
		uploader:     &fakeUploader{},
		clock:        &testClock{now: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)},
	}
	f.svc = f.newService()
	return f
}

// newService builds a service over the fixture's stores, as after a restart.
func (f *sessionFixture) newService() *sessionService {
	svc := NewSessionService(
		f.sessions,
		f.participants,
		f.history,
		f.results,
		fakeTx{},
		f.notifier,
		f.uploader,
		SessionDefaults{GameMinutes: 15, TournamentMinutes: 120},
		discardLogger(),
	).(*sessionService)
	svc.allocator = courts.NewAllocator(rand.New(rand.NewPCG(1, 2)))
	svc.generator = brackets.NewSingleEliminationGenerator(rand.New(rand.NewPCG(3, 4)))
	svc.now = f.clock.Now
	return svc
}
