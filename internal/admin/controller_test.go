package admin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrorder-vn/qrorder-client/internal/admin"
	"github.com/qrorder-vn/qrorder-client/internal/models"
	"github.com/qrorder-vn/qrorder-client/internal/qrtest"
	"github.com/qrorder-vn/qrorder-client/internal/rest"
	"github.com/qrorder-vn/qrorder-client/internal/session"
	"github.com/qrorder-vn/qrorder-client/pkg/logger"

	pkgerrors "github.com/qrorder-vn/qrorder-client/pkg/errors"
)

const waitFor = 2 * time.Second

var testLogger = logger.New(logger.Options{Level: zerolog.Disabled})

type fixture struct {
	server   *qrtest.Server
	ctrl     *admin.Controller
	refresh  atomic.Int64
	lastItem atomic.Value
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	server := qrtest.NewServer()
	t.Cleanup(server.Close)
	server.AddAccount("boss", qrtest.Account{Password: "secret", Role: "ROLE_ADMIN", StoreID: 1})

	f := &fixture{server: server}

	server.Mux.Get("/api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		f.refresh.Add(1)
		_ = json.NewEncoder(w).Encode([]models.User{{ID: 1, Username: "boss", Role: "ROLE_ADMIN"}})
	})
	server.Mux.Get("/api/admin/tables", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Table{{ID: 5, Name: "Bàn 5", Capacity: 4}})
	})
	server.Mux.Get("/api/admin/categories", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Category{{ID: 1, Name: "Phở"}})
	})
	server.Mux.Get("/api/admin/menu-items", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.MenuItem{{ID: 1, Name: "Phở bò", Price: decimal.NewFromInt(65000), CategoryID: 1}})
	})
	server.Mux.Get("/api/admin/store/settings", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.StoreSettings{BankID: "970436"})
	})
	server.Mux.Post("/api/admin/categories", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	server.Mux.Post("/api/admin/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		_ = json.NewEncoder(w).Encode(models.UploadResponse{URL: "https://cdn.example.com/" + header.Filename})
	})
	server.Mux.Post("/api/admin/menu-items", func(w http.ResponseWriter, r *http.Request) {
		var req models.MenuItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.lastItem.Store(req)
		w.WriteHeader(http.StatusCreated)
	})

	ctx := context.Background()
	client := rest.NewClient(server.APIBase(), waitFor)
	sess, err := session.Login(ctx, client, session.ViewAdmin, "boss", "secret")
	require.NoError(t, err)
	t.Cleanup(sess.Logout)

	ctrl, err := admin.NewController(sess, testLogger)
	require.NoError(t, err)
	f.ctrl = ctrl
	return f
}

func TestKitchenRoleCannotOpenAdminSession(t *testing.T) {
	server := qrtest.NewServer()
	t.Cleanup(server.Close)
	server.AddAccount("chef", qrtest.Account{Password: "secret", Role: "ROLE_KITCHEN", StoreID: 1})

	client := rest.NewClient(server.APIBase(), waitFor)
	_, err := session.Login(context.Background(), client, session.ViewAdmin, "chef", "secret")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
}

func TestRefreshLoadsWholeConsole(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Refresh(context.Background()))

	assert.Len(t, f.ctrl.Users(), 1)
	assert.Len(t, f.ctrl.Tables(), 1)
	assert.Len(t, f.ctrl.Categories(), 1)
	assert.Len(t, f.ctrl.MenuItems(), 1)
	assert.Equal(t, "970436", f.ctrl.Settings().BankID)
}

func TestRefreshIsAllOrNothing(t *testing.T) {
	server := qrtest.NewServer()
	t.Cleanup(server.Close)
	server.AddAccount("boss", qrtest.Account{Password: "secret", Role: "ROLE_ADMIN", StoreID: 1})
	server.Mux.Get("/api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.User{{ID: 1}})
	})
	server.Mux.Get("/api/admin/tables", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	server.Mux.Get("/api/admin/categories", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Category{})
	})
	server.Mux.Get("/api/admin/menu-items", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.MenuItem{})
	})
	server.Mux.Get("/api/admin/store/settings", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.StoreSettings{})
	})

	client := rest.NewClient(server.APIBase(), waitFor)
	sess, err := session.Login(context.Background(), client, session.ViewAdmin, "boss", "secret")
	require.NoError(t, err)
	t.Cleanup(sess.Logout)

	ctrl, err := admin.NewController(sess, testLogger)
	require.NoError(t, err)

	err = ctrl.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeFetchFailed, pkgerrors.CodeOf(err))
	assert.Empty(t, ctrl.Users())
}

func TestCreateCategoryValidatesBeforePosting(t *testing.T) {
	f := newFixture(t)
	err := f.ctrl.CreateCategory(context.Background(), models.CategoryRequest{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInvalidInput, pkgerrors.CodeOf(err))
	assert.Zero(t, f.refresh.Load())
}

func TestCreateCategoryRefreshesOnSuccess(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.CreateCategory(context.Background(), models.CategoryRequest{Name: "Cơm"}))
	assert.Equal(t, int64(1), f.refresh.Load())
	assert.Len(t, f.ctrl.Categories(), 1)
}

func TestSaveMenuItemUploadsImageFirst(t *testing.T) {
	f := newFixture(t)
	req := models.MenuItemRequest{Name: "Phở gà", Price: decimal.NewFromInt(60000), CategoryID: 1}

	require.NoError(t, f.ctrl.SaveMenuItem(context.Background(), 0, req, "pho-ga.jpg", strings.NewReader("jpegdata")))

	saved, ok := f.lastItem.Load().(models.MenuItemRequest)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/pho-ga.jpg", saved.ImageURL)
	assert.Equal(t, int64(1), f.refresh.Load())
}

func TestUserCreateEnforcesPasswordLength(t *testing.T) {
	f := newFixture(t)
	err := f.ctrl.CreateUser(context.Background(), models.UserCreateRequest{
		Username: "newbie",
		Password: "short",
		Role:     "ROLE_STAFF",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInvalidInput, pkgerrors.CodeOf(err))
}
