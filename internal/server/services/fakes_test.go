package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/repositories/badges"
	"github.com/ottocollect/ottocollect/internal/server/repositories/banknotes"
	"github.com/ottocollect/ottocollect/internal/server/repositories/collection"
	"github.com/ottocollect/ottocollect/internal/server/repositories/countries"
	"github.com/ottocollect/ottocollect/internal/server/repositories/definitions"
	"github.com/ottocollect/ottocollect/internal/server/repositories/follows"
	"github.com/ottocollect/ottocollect/internal/server/repositories/marketplace"
	"github.com/ottocollect/ottocollect/internal/server/repositories/messages"
	"github.com/ottocollect/ottocollect/internal/server/repositories/notifications"
	"github.com/ottocollect/ottocollect/internal/server/repositories/posts"
	"github.com/ottocollect/ottocollect/internal/server/repositories/refreshtokens"
	"github.com/ottocollect/ottocollect/internal/server/repositories/users"
	"github.com/shopspring/decimal"
)

// The fakes embed the repository interface so each only implements what the
// tests touch; anything else panics on the nil embedded value.

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeManager struct {
	users         *fakeUsers
	refresh       *fakeRefresh
	definitions   *fakeDefinitions
	banknotes     *fakeBanknotes
	collection    *fakeCollection
	marketplace   *fakeMarketplace
	posts         *fakePosts
	messages      *fakeMessages
	notifications *fakeNotifications
	follows       *fakeFollows
	badges        *fakeBadges
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		users:         &fakeUsers{byID: map[string]*models.User{}},
		refresh:       &fakeRefresh{tokens: map[string]*models.RefreshToken{}},
		definitions:   &fakeDefinitions{},
		banknotes:     &fakeBanknotes{},
		collection:    &fakeCollection{items: map[string]*models.CollectionItem{}},
		marketplace:   &fakeMarketplace{byItem: map[string]*models.MarketplaceItem{}},
		posts:         &fakePosts{posts: map[string]*models.Post{}, comments: map[string]*models.Comment{}},
		messages:      &fakeMessages{},
		notifications: &fakeNotifications{},
		follows:       &fakeFollows{edges: map[[2]string]bool{}},
		badges:        &fakeBadges{held: map[string]map[string]bool{}},
	}
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) MigrationVersion(context.Context, *sql.DB) (int64, error) {
	return 0, nil
}
func (m *fakeManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
func (m *fakeManager) Countries(dbx.DBTX) countries.Repository         { return nil }
func (m *fakeManager) Definitions(dbx.DBTX) definitions.Repository     { return m.definitions }
func (m *fakeManager) Banknotes(dbx.DBTX) banknotes.Repository         { return m.banknotes }
func (m *fakeManager) Collection(dbx.DBTX) collection.Repository       { return m.collection }
func (m *fakeManager) Marketplace(dbx.DBTX) marketplace.Repository     { return m.marketplace }
func (m *fakeManager) Posts(dbx.DBTX) posts.Repository                 { return m.posts }
func (m *fakeManager) Messages(dbx.DBTX) messages.Repository           { return m.messages }
func (m *fakeManager) Notifications(dbx.DBTX) notifications.Repository { return m.notifications }
func (m *fakeManager) Follows(dbx.DBTX) follows.Repository             { return m.follows }
func (m *fakeManager) Badges(dbx.DBTX) badges.Repository               { return m.badges }

func (m *fakeManager) addUser(id, username, role string) *models.User {
	u := &models.User{ID: id, Email: username + "@example.com", Username: username, Role: role}
	m.users.byID[id] = u
	return u
}

// --- users ---

type fakeUsers struct {
	users.Repository
	byID      map[string]*models.User
	createErr error
	deleted   []string
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = "u" + string(rune('0'+len(f.byID)+1))
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id string, upd users.ProfileUpdate) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.About != nil {
		u.About = *upd.About
	}
	return u, nil
}

func (f *fakeUsers) SetRole(_ context.Context, id, role string) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUsers) AddPoints(_ context.Context, id string, delta int) (int, error) {
	u, ok := f.byID[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.Points += delta
	return u.Points, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// --- refresh tokens ---

type fakeRefresh struct {
	refreshtokens.Repository
	tokens       map[string]*models.RefreshToken
	deletedUsers []string
}

func (f *fakeRefresh) Create(_ context.Context, userID, token string, expiresAt time.Time) error {
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: expiresAt}
	return nil
}

func (f *fakeRefresh) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeRefresh) Delete(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefresh) DeleteByUser(_ context.Context, userID string) error {
	f.deletedUsers = append(f.deletedUsers, userID)
	return nil
}

func (f *fakeRefresh) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, t := range f.tokens {
		if t.Expires.Before(now) {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

// --- catalog ---

type fakeDefinitions struct {
	definitions.Repository
	defs []models.Definition
}

func (f *fakeDefinitions) List(_ context.Context, kind models.DefinitionKind, countryID string) ([]models.Definition, error) {
	var out []models.Definition
	for _, d := range f.defs {
		if d.Kind == kind && d.CountryID == countryID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeBanknotes struct {
	banknotes.Repository
	notes      []models.Banknote
	lastFilter models.BanknoteFilter
}

func (f *fakeBanknotes) List(_ context.Context, filter models.BanknoteFilter) ([]models.Banknote, error) {
	f.lastFilter = filter
	return f.notes, nil
}

func (f *fakeBanknotes) ImageFields(_ context.Context, id string) (models.Images, error) {
	for _, b := range f.notes {
		if b.ID == id {
			return b.Images, nil
		}
	}
	return models.Images{}, common.ErrorNotFound
}

// --- collection and marketplace ---

type fakeCollection struct {
	collection.Repository
	items   map[string]*models.CollectionItem
	created []*models.CollectionItem
	listed  []models.CollectionItem
	private bool
}

func (f *fakeCollection) ListByUser(_ context.Context, _, _ string, includePrivate bool) ([]models.CollectionItem, error) {
	f.private = includePrivate
	return f.listed, nil
}

func (f *fakeCollection) GetByID(_ context.Context, id string) (*models.CollectionItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeCollection) Create(_ context.Context, item *models.CollectionItem) (*models.CollectionItem, error) {
	item.ID = "ci-new"
	f.created = append(f.created, item)
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeCollection) Update(_ context.Context, item *models.CollectionItem) (*models.CollectionItem, error) {
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeCollection) SetForSale(_ context.Context, id string, forSale bool, price *decimal.Decimal) error {
	it, ok := f.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	it.IsForSale = forSale
	it.SalePrice = price
	return nil
}

func (f *fakeCollection) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

type fakeMarketplace struct {
	marketplace.Repository
	byItem     map[string]*models.MarketplaceItem
	lastStatus string
}

func (f *fakeMarketplace) List(_ context.Context, _, status string) ([]models.MarketplaceItem, error) {
	f.lastStatus = status
	return nil, nil
}

func (f *fakeMarketplace) find(id string) *models.MarketplaceItem {
	for _, l := range f.byItem {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (f *fakeMarketplace) GetByID(_ context.Context, id string) (*models.MarketplaceItem, error) {
	if l := f.find(id); l != nil {
		return l, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeMarketplace) Create(_ context.Context, m *models.MarketplaceItem) (*models.MarketplaceItem, error) {
	m.ID = "l-" + m.CollectionItemID
	f.byItem[m.CollectionItemID] = m
	return m, nil
}

func (f *fakeMarketplace) UpdateStatus(_ context.Context, id, status string) error {
	l := f.find(id)
	if l == nil {
		return common.ErrorNotFound
	}
	l.Status = status
	return nil
}

func (f *fakeMarketplace) Delete(_ context.Context, id string) error {
	l := f.find(id)
	if l == nil {
		return common.ErrorNotFound
	}
	delete(f.byItem, l.CollectionItemID)
	return nil
}

func (f *fakeMarketplace) DeleteByCollectionItem(_ context.Context, itemID string) error {
	delete(f.byItem, itemID)
	return nil
}

// --- community ---

type fakePosts struct {
	posts.Repository
	posts    map[string]*models.Post
	comments map[string]*models.Comment
}

func (f *fakePosts) GetByID(_ context.Context, board models.Board, id string) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok || p.Board != board {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (f *fakePosts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	p.ID = "p" + string(rune('0'+len(f.posts)+1))
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakePosts) Update(_ context.Context, p *models.Post) (*models.Post, error) {
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakePosts) Delete(_ context.Context, _ models.Board, id string) error {
	delete(f.posts, id)
	return nil
}

func (f *fakePosts) GetComment(_ context.Context, id string) (*models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakePosts) AddComment(_ context.Context, c *models.Comment) (*models.Comment, error) {
	c.ID = "c" + string(rune('0'+len(f.comments)+1))
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakePosts) DeleteComment(_ context.Context, id string) error {
	delete(f.comments, id)
	return nil
}

// --- social ---

type fakeMessages struct {
	messages.Repository
	created []*models.Message
}

func (f *fakeMessages) Create(_ context.Context, m *models.Message) (*models.Message, error) {
	m.ID = "m1"
	f.created = append(f.created, m)
	return m, nil
}

type fakeNotifications struct {
	notifications.Repository
	created []*models.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) (*models.Notification, error) {
	n.ID = "n" + string(rune('0'+len(f.created)+1))
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeNotifications) ofType(typ string) []*models.Notification {
	var out []*models.Notification
	for _, n := range f.created {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

type fakeFollows struct {
	follows.Repository
	edges map[[2]string]bool
}

func (f *fakeFollows) Follow(_ context.Context, a, b string) (bool, error) {
	if f.edges[[2]string{a, b}] {
		return false, nil
	}
	f.edges[[2]string{a, b}] = true
	return true, nil
}

type fakeBadges struct {
	badges.Repository
	all  []models.Badge
	held map[string]map[string]bool
}

func (f *fakeBadges) Unearned(_ context.Context, userID string, points int) ([]models.Badge, error) {
	var out []models.Badge
	for _, b := range f.all {
		if b.ThresholdPoints <= points && !f.held[userID][b.ID] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBadges) Award(_ context.Context, userID, badgeID string) (bool, error) {
	if f.held[userID] == nil {
		f.held[userID] = map[string]bool{}
	}
	if f.held[userID][badgeID] {
		return false, nil
	}
	f.held[userID][badgeID] = true
	return true, nil
}

// --- realtime ---

type published struct {
	stream string
	userID string
	data   any
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
}

func (p *fakePublisher) PublishNotification(userID string, data any) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{"notification", userID, data})
	return func() {}
}

func (p *fakePublisher) PublishMessage(userID string, data any) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{"message", userID, data})
	return func() {}
}

// env wires every service against one fake manager.
type env struct {
	db     *sql.DB
	mock   sqlmock.Sqlmock
	m      *fakeManager
	pub    *fakePublisher
	notes  *NotificationService
	points *PointsService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, mock := newSQLMockDB(t)
	m := newFakeManager()
	pub := &fakePublisher{}
	notes := NewNotificationService(db, m, pub, logging.Nop())
	return &env{
		db:     db,
		mock:   mock,
		m:      m,
		pub:    pub,
		notes:  notes,
		points: NewPointsService(db, m, notes, logging.Nop()),
	}
}
