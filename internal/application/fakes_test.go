package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	repo "github.com/oksasatya/job-tracker-api/internal/domain/repository"
)

// memStore backs the in-memory repositories. Repositories hand out copies
// so that services cannot mutate stored rows without calling Update.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	jobs   map[string]*entity.Job
	verify map[string]*entity.EmailVerificationToken
	resets map[string]*entity.PasswordResetToken
	clock  time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]*entity.User{},
		jobs:   map[string]*entity.Job{},
		verify: map[string]*entity.EmailVerificationToken{},
		resets: map[string]*entity.PasswordResetToken{},
		clock:  time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}
}

// tick advances the store clock so creation order is observable.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) snapshot() *memStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &memStore{
		users:  make(map[string]*entity.User, len(m.users)),
		jobs:   make(map[string]*entity.Job, len(m.jobs)),
		verify: make(map[string]*entity.EmailVerificationToken, len(m.verify)),
		resets: make(map[string]*entity.PasswordResetToken, len(m.resets)),
		clock:  m.clock,
	}
	for k, v := range m.users {
		cp := *v
		c.users[k] = &cp
	}
	for k, v := range m.jobs {
		cp := *v
		c.jobs[k] = &cp
	}
	for k, v := range m.verify {
		cp := *v
		c.verify[k] = &cp
	}
	for k, v := range m.resets {
		cp := *v
		c.resets[k] = &cp
	}
	return c
}

func (m *memStore) restore(from *memStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users, m.jobs, m.verify, m.resets = from.users, from.jobs, from.verify, from.resets
}

// fakeTx restores the store when fn fails.
type fakeTx struct {
	store     *memStore
	commits   int
	rollbacks int
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		t.rollbacks++
		return err
	}
	t.commits++
	return nil
}

type memUserRepo struct{ s *memStore }

func (r memUserRepo) liveUser(match func(*entity.User) bool) *entity.User {
	for _, u := range r.s.users {
		if !u.IsDeleted() && match(u) {
			return u
		}
	}
	return nil
}

func copyUser(u *entity.User) *entity.User {
	cp := *u
	return &cp
}

func (r memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.liveUser(func(x *entity.User) bool { return strings.EqualFold(x.Email, u.Email) }) != nil {
		return &repo.DuplicateError{Field: "email"}
	}
	if r.liveUser(func(x *entity.User) bool { return strings.EqualFold(x.Username, u.Username) }) != nil {
		return &repo.DuplicateError{Field: "username"}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.s.tick()
	r.s.users[u.ID] = copyUser(u)
	return nil
}

func (r memUserRepo) get(match func(*entity.User) bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u := r.liveUser(match); u != nil {
		return copyUser(u), nil
	}
	return nil, repo.ErrNotFound
}

func (r memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.get(func(u *entity.User) bool { return u.ID == id })
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.get(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.get(func(u *entity.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r memUserRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	u, err := r.get(func(u *entity.User) bool { return u.ID != excludeID && strings.EqualFold(u.Email, email) })
	return u != nil, ignoreNotFound(err)
}

func (r memUserRepo) ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error) {
	u, err := r.get(func(u *entity.User) bool { return u.ID != excludeID && strings.EqualFold(u.Username, username) })
	return u != nil, ignoreNotFound(err)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	return err
}

func (r memUserRepo) mutate(id string, fn func(u *entity.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.IsDeleted() {
		return repo.ErrNotFound
	}
	fn(u)
	return nil
}

func (r memUserRepo) Update(_ context.Context, u *entity.User) error {
	return r.mutate(u.ID, func(stored *entity.User) {
		now := r.s.clock
		u.UpdatedAt = &now
		*stored = *copyUser(u)
	})
}

func (r memUserRepo) SetVerified(_ context.Context, id string) error {
	return r.mutate(id, func(u *entity.User) { u.IsVerified = true })
}

func (r memUserRepo) UpdatePassword(_ context.Context, id, hash, actorID string) error {
	return r.mutate(id, func(u *entity.User) { u.Password, u.UpdatedBy = hash, actorID })
}

func (r memUserRepo) SoftDelete(_ context.Context, id, actorID string, at time.Time) error {
	return r.mutate(id, func(u *entity.User) { u.DeletedAt, u.DeletedBy = &at, actorID })
}

func (r memUserRepo) List(_ context.Context, role entity.Role) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.User{}
	for _, u := range r.s.users {
		if !u.IsDeleted() && (role == "" || u.Role == role) {
			out = append(out, copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memUserRepo) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	users, _ := r.List(ctx, role)
	return int64(len(users)), nil
}

type memJobRepo struct{ s *memStore }

func copyJob(j *entity.Job) *entity.Job {
	cp := *j
	return &cp
}

func (r memJobRepo) Create(_ context.Context, j *entity.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j.ID = uuid.NewString()
	j.CreatedAt = r.s.tick()
	r.s.jobs[j.ID] = copyJob(j)
	return nil
}

func (r memJobRepo) GetByID(_ context.Context, id string) (*entity.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok || j.IsDeleted() {
		return nil, repo.ErrNotFound
	}
	return copyJob(j), nil
}

func (r memJobRepo) Update(_ context.Context, j *entity.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.jobs[j.ID]
	if !ok || stored.IsDeleted() {
		return repo.ErrNotFound
	}
	r.s.jobs[j.ID] = copyJob(j)
	return nil
}

func (r memJobRepo) SoftDelete(_ context.Context, id, actorID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok || j.IsDeleted() {
		return repo.ErrNotFound
	}
	j.DeletedAt, j.DeletedBy = &at, actorID
	return nil
}

func (r memJobRepo) live(ownerID string) []*entity.Job {
	out := []*entity.Job{}
	for _, j := range r.s.jobs {
		if !j.IsDeleted() && (ownerID == "" || j.CreatedBy == ownerID) {
			out = append(out, copyJob(j))
		}
	}
	return out
}

func (r memJobRepo) List(_ context.Context, f repo.JobFilter) ([]*entity.Job, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	needle := strings.ToLower(f.Search)
	var hits []*entity.Job
	for _, j := range r.live(f.OwnerID) {
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.JobType != "" && j.JobType != f.JobType {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(j.Company), needle) &&
			!strings.Contains(strings.ToLower(j.Position), needle) &&
			!strings.Contains(strings.ToLower(j.JobLocation), needle) {
			continue
		}
		hits = append(hits, j)
	}
	less := func(a, b *entity.Job) bool { return a.CreatedAt.After(b.CreatedAt) }
	switch f.Sort {
	case repo.JobSortOldest:
		less = func(a, b *entity.Job) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case repo.JobSortAscending:
		less = func(a, b *entity.Job) bool { return a.Position < b.Position }
	case repo.JobSortDescending:
		less = func(a, b *entity.Job) bool { return a.Position > b.Position }
	case repo.JobSortTypeAZ:
		less = func(a, b *entity.Job) bool { return a.JobType < b.JobType }
	case repo.JobSortTypeZA:
		less = func(a, b *entity.Job) bool { return a.JobType > b.JobType }
	}
	sort.SliceStable(hits, func(i, j int) bool { return less(hits[i], hits[j]) })

	total := int64(len(hits))
	if f.Offset >= len(hits) {
		return []*entity.Job{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(hits) {
		end = len(hits)
	}
	return hits[f.Offset:end], total, nil
}

func (r memJobRepo) CountByStatus(_ context.Context, ownerID string) ([]entity.StatusCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[entity.JobStatus]int64{}
	for _, j := range r.live(ownerID) {
		counts[j.Status]++
	}
	out := []entity.StatusCount{}
	for st, n := range counts {
		out = append(out, entity.StatusCount{Status: st, Count: n})
	}
	return out, nil
}

func (r memJobRepo) CountByMonth(_ context.Context, ownerID string, months int) ([]entity.MonthCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[[2]int]int64{}
	for _, j := range r.live(ownerID) {
		counts[[2]int{j.CreatedAt.Year(), int(j.CreatedAt.Month())}]++
	}
	out := []entity.MonthCount{}
	for k, n := range counts {
		out = append(out, entity.MonthCount{Year: k[0], Month: k[1], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	if len(out) > months {
		out = out[:months]
	}
	return out, nil
}

type memVerifyRepo struct{ s *memStore }

func (r memVerifyRepo) Upsert(_ context.Context, t *entity.EmailVerificationToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *t
	r.s.verify[t.UserID] = &cp
	return nil
}

func (r memVerifyRepo) GetByUserID(_ context.Context, userID string) (*entity.EmailVerificationToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.verify[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memVerifyRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.verify, userID)
	return nil
}

func (r memVerifyRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, t := range r.s.verify {
		if t.Expired(now) {
			delete(r.s.verify, k)
			n++
		}
	}
	return n, nil
}

type memResetRepo struct{ s *memStore }

func (r memResetRepo) Create(_ context.Context, t *entity.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *t
	cp.ID = uuid.NewString()
	r.s.resets[t.Token] = &cp
	return nil
}

func (r memResetRepo) GetByToken(_ context.Context, token string) (*entity.PasswordResetToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.resets[token]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memResetRepo) DeleteByToken(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.resets, token)
	return nil
}

func (r memResetRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, t := range r.s.resets {
		if t.Expired(now) {
			delete(r.s.resets, k)
			n++
		}
	}
	return n, nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error)   { return "hashed:" + p, nil }
func (plainHasher) Compare(hash, plain string) bool { return hash == "hashed:"+plain }

type stubIssuer struct{}

func (stubIssuer) Issue(userID, _, _ string) (string, time.Time, error) {
	return "session-" + userID, time.Now().Add(time.Hour), nil
}

type sentMail struct {
	Kind   string
	Email  string
	Link   string
	Fields map[string]string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *recordingNotifier) add(m sentMail) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, m)
}

func (n *recordingNotifier) SendVerification(_, email, link string, _ time.Duration) {
	n.add(sentMail{Kind: "verify", Email: email, Link: link})
}
func (n *recordingNotifier) SendWelcome(_, email string) { n.add(sentMail{Kind: "welcome", Email: email}) }
func (n *recordingNotifier) SendPasswordReset(_, email, link string, _ time.Duration) {
	n.add(sentMail{Kind: "reset", Email: email, Link: link})
}
func (n *recordingNotifier) SendAdminNotice(event, _, email string, fields map[string]string) {
	n.add(sentMail{Kind: "admin:" + event, Email: email, Fields: fields})
}

func (n *recordingNotifier) byKind(kind string) []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMail
	for _, m := range n.sent {
		if m.Kind == kind || strings.HasPrefix(m.Kind, kind+":") {
			out = append(out, m)
		}
	}
	return out
}

type fakeImages struct {
	uploaded  []string
	deleted   []string
	deleteErr error
}

func (f *fakeImages) Upload(_ context.Context, ownerID, filename, _ string, r io.Reader) (string, string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", "", err
	}
	obj := "profiles/" + ownerID + "/" + filename
	f.uploaded = append(f.uploaded, obj)
	return "https://storage.googleapis.com/bucket/" + obj, obj, nil
}

func (f *fakeImages) Delete(_ context.Context, objectID string) error {
	f.deleted = append(f.deleted, objectID)
	return f.deleteErr
}

type fakeIndexer struct {
	indexed map[string]string
	removed []string
}

func (f *fakeIndexer) Index(_ context.Context, u *entity.User) error {
	if f.indexed == nil {
		f.indexed = map[string]string{}
	}
	f.indexed[u.ID] = u.Username
	return nil
}

func (f *fakeIndexer) Remove(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeIndexer) Search(_ context.Context, q string, _ int) ([]map[string]any, error) {
	var out []map[string]any
	for id, name := range f.indexed {
		if strings.Contains(name, q) {
			out = append(out, map[string]any{"id": id, "username": name})
		}
	}
	return out, nil
}

type harness struct {
	store    *memStore
	tx       *fakeTx
	notifier *recordingNotifier
	images   *fakeImages
	indexer  *fakeIndexer
	log      *test.Hook
	jobs     *JobService
	users    *UserService
	now      time.Time
}

func newHarness() *harness {
	store := newMemStore()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	h := &harness{
		store:    store,
		tx:       &fakeTx{store: store},
		notifier: &recordingNotifier{},
		images:   &fakeImages{},
		indexer:  &fakeIndexer{},
		log:      hook,
		now:      time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return h.now }

	h.jobs = NewJobService(memJobRepo{store}, h.tx, logger, "id")
	h.jobs.now = clock

	h.users = NewUserService(UserServiceDeps{
		Users:        memUserRepo{store},
		Jobs:         memJobRepo{store},
		VerifyTokens: memVerifyRepo{store},
		ResetTokens:  memResetRepo{store},
		Tx:           h.tx,
		Hasher:       plainHasher{},
		Tokens:       stubIssuer{},
		Notifier:     h.notifier,
		Images:       h.images,
		Indexer:      h.indexer,
		Logger:       logger,
	}, UserServiceConfig{
		BackendURL:     "https://api.example.com",
		FrontendURL:    "https://app.example.com",
		VerifyTokenTTL: time.Hour,
		ResetTokenTTL:  3 * time.Minute,
	})
	h.users.now = clock
	seq := 0
	h.users.genToken = func(int) (string, error) {
		seq++
		return fmt.Sprintf("tok%03d", seq), nil
	}
	return h
}
