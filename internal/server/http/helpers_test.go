package http

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/juju/clock/testclock"
	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/auth"
	"github.com/ottocollect/ottocollect/internal/server/config"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/realtime"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
	"github.com/ottocollect/ottocollect/internal/server/services"
	"github.com/ottocollect/ottocollect/internal/server/viewstate"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	db     *sql.DB
	mock   sqlmock.Sqlmock
	clock  *testclock.Clock
	views  *viewstate.Store
	store  *storeStub
}

// storeStub stands in for the S3 bucket.
type storeStub struct {
	deleted []string
	base    string
}

func (s *storeStub) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	return s.base + "/" + key, nil
}

func (s *storeStub) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *storeStub) PresignUpload(_ context.Context, key, _ string) (string, error) {
	return "https://s3.example/" + key + "?sig=1", nil
}

func (s *storeStub) PathFromURL(u string) (string, error) {
	if key, ok := strings.CutPrefix(u, s.base+"/"); ok {
		return key, nil
	}
	return "", common.ErrOutsideStorage
}

func newTestEnv(t *testing.T, tweak ...func(*Options)) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logging.Nop()
	clk := testclock.NewClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cfg := &config.Config{
		SecretKey:                    testSecret,
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 24 * time.Hour,
	}
	m := repomanager.NewPostgresRepositoryManager()
	hub := realtime.NewHub()
	store := &storeStub{base: "http://127.0.0.1:9000/banknote_images"}

	notes := services.NewNotificationService(db, m, hub, log)
	points := services.NewPointsService(db, m, notes, log)
	catalog := services.NewCatalogService(db, m, log)
	market := services.NewMarketplaceService(db, m, points, log)
	svc := Services{
		Users:         services.NewUserService(db, m, cfg, clk, log),
		Catalog:       catalog,
		Banknotes:     services.NewBanknoteService(db, m, catalog, log),
		Collection:    services.NewCollectionService(db, m, catalog, market, points, log),
		Marketplace:   market,
		Community:     services.NewCommunityService(db, m, points, notes, log),
		Messages:      services.NewMessageService(db, m, hub, notes, log),
		Notifications: notes,
		Follows:       services.NewFollowService(db, m, notes, log),
		Points:        points,
		Images:        services.NewImageService(db, m, store, log),
	}

	views := viewstate.NewStore(clk, viewstate.DefaultWindows(), log)
	opts := Options{
		SecretKey:      []byte(testSecret),
		SiteURL:        "https://ottocollect.example",
		RevealPageSize: 2,
		ViewState:      views,
		Socket:         realtime.NewSocket(hub, nil, log),
	}
	for _, fn := range tweak {
		fn(&opts)
	}

	return &testEnv{
		router: NewRouter(svc, opts, log),
		db:     db,
		mock:   mock,
		clock:  clk,
		views:  views,
		store:  store,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, role, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return tok
}

var userColumns = []string{"id", "email", "username", "password_hash", "role", "about", "avatar_url", "country_id", "points", "created_at"}

func userRow(id, role string) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).
		AddRow(id, id+"@example.com", "user_"+id, "hash", role, "", "", nil, 0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

var banknoteColumns = []string{
	"id", "country_id", "name", "extended_pick_number", "pick_number", "face_value",
	"gregorian_year", "islamic_year", "category", "type", "sultan_name", "description", "rarity",
	"front_picture", "back_picture", "front_picture_watermarked", "back_picture_watermarked",
	"front_picture_thumbnail", "back_picture_thumbnail", "is_approved", "created_at", "updated_at",
}

func banknoteRow(b models.Banknote) []driver.Value {
	return []driver.Value{b.ID, b.CountryID, b.Country, b.ExtendedPick, b.PickNumber, b.FaceValue,
		b.GregorianYear, b.IslamicYear, b.Category, b.Type, b.SultanName, b.Description, b.Rarity,
		b.Images.Front, b.Images.Back, b.Images.FrontWatermarked, b.Images.BackWatermarked,
		b.Images.FrontThumbnail, b.Images.BackThumbnail, b.IsApproved, b.CreatedAt, b.UpdatedAt}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
