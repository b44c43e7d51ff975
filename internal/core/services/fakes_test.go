package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

// In-memory fakes for the driven ports. They implement just enough semantics
// for the core services to be exercised without real infrastructure.

// --- notifications ---

type fakeNotificationRepo struct {
	mu      sync.Mutex
	saved   []*domain.Notification
	saveErr error
}

func (f *fakeNotificationRepo) Save(_ context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, n)
	return nil
}

func (f *fakeNotificationRepo) ListForRecipient(_ context.Context, userID string, limit int) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Notification
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].RecipientID == userID {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.saved {
		if n.RecipientID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) all() []*domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Notification(nil), f.saved...)
}

// --- presence ---

type fakeConn struct {
	id      string
	pushErr error

	mu     sync.Mutex
	pushed []*domain.Notification
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Push(n *domain.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pushErr != nil {
		return c.pushErr
	}
	c.pushed = append(c.pushed, n)
	return nil
}

func (c *fakeConn) pushCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pushed)
}

type fakePresence struct {
	mu      sync.Mutex
	handles map[string][]ports.Connection
}

func newFakePresence() *fakePresence {
	return &fakePresence{handles: make(map[string][]ports.Connection)}
}

func (p *fakePresence) Register(userID string, conn ports.Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handles[userID] = append(p.handles[userID], conn)
}

func (p *fakePresence) Unregister(userID string, conn ports.Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var kept []ports.Connection
	for _, c := range p.handles[userID] {
		if c.ID() != conn.ID() {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		delete(p.handles, userID)
	} else {
		p.handles[userID] = kept
	}
}

func (p *fakePresence) Lookup(userID string) []ports.Connection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.Connection(nil), p.handles[userID]...)
}

// --- event publisher ---

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (f *fakePublisher) record(subject string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	return nil
}

func (f *fakePublisher) PublishPostCreated(_ context.Context, _ *domain.Post) error {
	return f.record("post.created")
}

func (f *fakePublisher) PublishPostDeleted(_ context.Context, _ *domain.Post) error {
	return f.record("post.deleted")
}

func (f *fakePublisher) PublishNotificationCreated(_ context.Context, _ *domain.Notification) error {
	return f.record("notification.created")
}

func (f *fakePublisher) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.subjects...)
}

// --- notifier (for mutator tests) ---

type emitCall struct {
	recipient string
	sender    string
	kind      domain.NotificationKind
	postID    string
}

type fakeNotifier struct {
	mu    sync.Mutex
	emits []emitCall
}

func (f *fakeNotifier) Emit(_ context.Context, recipientID, senderID string, kind domain.NotificationKind, postID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, emitCall{recipient: recipientID, sender: senderID, kind: kind, postID: postID})
}

func (f *fakeNotifier) calls() []emitCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]emitCall(nil), f.emits...)
}

// --- posts ---

type fakePostRepo struct {
	mu       sync.Mutex
	posts    map[string]*domain.Post
	likes    map[string]map[string]bool // postID -> userID -> liked
	comments map[string][]*domain.Comment
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:    make(map[string]*domain.Post),
		likes:    make(map[string]map[string]bool),
		comments: make(map[string][]*domain.Comment),
	}
}

func (f *fakePostRepo) Save(_ context.Context, post *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) FindByID(_ context.Context, postID, viewerID string) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked(postID, viewerID)
}

func (f *fakePostRepo) viewLocked(postID, viewerID string) (*domain.Post, error) {
	p, ok := f.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	cp := *p
	cp.Author = &domain.UserSummary{ID: p.AuthorID}
	cp.LikeCount = len(f.likes[postID])
	cp.Liked = f.likes[postID][viewerID]
	return &cp, nil
}

func (f *fakePostRepo) ListAll(_ context.Context, viewerID string) ([]*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Post{}
	for id := range f.posts {
		p, _ := f.viewLocked(id, viewerID)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePostRepo) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]*domain.Post, error) {
	all, _ := f.ListAll(ctx, viewerID)
	out := []*domain.Post{}
	for _, p := range all {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) GetPosts(_ context.Context, postIDs []string, viewerID string) ([]*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Post{}
	for _, id := range postIDs {
		if p, err := f.viewLocked(id, viewerID); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) Delete(_ context.Context, postID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.posts, postID)
	delete(f.likes, postID)
	delete(f.comments, postID)
	return nil
}

func (f *fakePostRepo) ToggleLike(_ context.Context, postID, userID string) (bool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[postID]; !ok {
		return false, 0, domain.ErrPostNotFound
	}
	set, ok := f.likes[postID]
	if !ok {
		set = make(map[string]bool)
		f.likes[postID] = set
	}
	var liked bool
	if set[userID] {
		delete(set, userID)
	} else {
		set[userID] = true
		liked = true
	}
	return liked, len(set), nil
}

func (f *fakePostRepo) AddComment(_ context.Context, c *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.comments[c.PostID] = append(f.comments[c.PostID], &cp)
	return nil
}

func (f *fakePostRepo) GetComment(_ context.Context, postID, commentID string) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.comments[postID] {
		if c.ID == commentID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCommentNotFound
}

func (f *fakePostRepo) DeleteComment(_ context.Context, postID, commentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.comments[postID][:0]
	found := false
	for _, c := range f.comments[postID] {
		if c.ID == commentID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return domain.ErrCommentNotFound
	}
	f.comments[postID] = kept
	return nil
}

func (f *fakePostRepo) ListComments(_ context.Context, postID string) ([]*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Comment, 0, len(f.comments[postID]))
	for _, c := range f.comments[postID] {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakePostRepo) likeSet(postID string) map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.likes[postID]))
	for k, v := range f.likes[postID] {
		out[k] = v
	}
	return out
}

// --- graph ---

// fakeGraphRepo stores one directed edge per relation, like the real graph
// store: both sides of the pair derive from the same edge.
type fakeGraphRepo struct {
	mu    sync.Mutex
	edges map[string]map[string]bool // actor -> target
}

func newFakeGraphRepo() *fakeGraphRepo {
	return &fakeGraphRepo{edges: make(map[string]map[string]bool)}
}

func (f *fakeGraphRepo) EnsureSchema(context.Context) error { return nil }

func (f *fakeGraphRepo) CreateRelation(_ context.Context, actorID, targetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.edges[actorID] == nil {
		f.edges[actorID] = make(map[string]bool)
	}
	f.edges[actorID][targetID] = true
	return nil
}

func (f *fakeGraphRepo) DeleteRelation(_ context.Context, actorID, targetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.edges[actorID], targetID)
	return nil
}

func (f *fakeGraphRepo) IsFollowing(_ context.Context, actorID, targetID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edges[actorID][targetID], nil
}

func (f *fakeGraphRepo) Counts(_ context.Context, userID string) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var followers, following int64
	for actor, targets := range f.edges {
		for target, ok := range targets {
			if !ok {
				continue
			}
			if target == userID {
				followers++
			}
			if actor == userID {
				following++
			}
		}
	}
	return followers, following, nil
}

func (f *fakeGraphRepo) StreamFollowerIDs(_ context.Context, userID string, batchSize int, yield func([]string) error) error {
	f.mu.Lock()
	var ids []string
	for actor, targets := range f.edges {
		if targets[userID] {
			ids = append(ids, actor)
		}
	}
	f.mu.Unlock()
	sort.Strings(ids)

	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		if err := yield(ids[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	return f.Save(context.Background(), user)
}

func (f *fakeUserRepo) Search(_ context.Context, query string) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.User{}
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- feed ---

type fakeFeedRepo struct {
	mu        sync.Mutex
	timelines map[string][]*domain.FeedItem
	batches   []int
}

func newFakeFeedRepo() *fakeFeedRepo {
	return &fakeFeedRepo{timelines: make(map[string][]*domain.FeedItem)}
}

func (f *fakeFeedRepo) AddToTimelines(_ context.Context, userIDs []string, item *domain.FeedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, len(userIDs))
	for _, uid := range userIDs {
		f.timelines[uid] = append(f.timelines[uid], item)
	}
	return nil
}

func (f *fakeFeedRepo) RemoveFromTimelines(_ context.Context, userIDs []string, item *domain.FeedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, uid := range userIDs {
		kept := f.timelines[uid][:0]
		for _, it := range f.timelines[uid] {
			if it.PostID != item.PostID {
				kept = append(kept, it)
			}
		}
		f.timelines[uid] = kept
	}
	return nil
}

func (f *fakeFeedRepo) GetTimeline(_ context.Context, req domain.FeedRequest) ([]*domain.FeedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.FeedItem(nil), f.timelines[req.UserID]...), nil
}

// --- security ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(encodedHash, password string) error {
	if encodedHash == "hashed:"+password {
		return nil
	}
	return domain.ErrInvalidCredentials
}

type fakeTokens struct{}

func (fakeTokens) GenerateTokens(user *domain.User) (string, string, error) {
	return "acc-" + user.ID, "ref-" + user.ID, nil
}

func (fakeTokens) Validate(token string) (string, error) {
	if id, ok := strings.CutPrefix(token, "acc-"); ok {
		return id, nil
	}
	return "", domain.ErrInvalidToken
}
