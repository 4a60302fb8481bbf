package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"appliance-manager/config"
	"appliance-manager/internal/auth"
	"appliance-manager/internal/db"
	"appliance-manager/internal/model"
	"appliance-manager/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDispatcher struct {
	mu  sync.Mutex
	ids []int64
}

func (d *fakeDispatcher) Dispatch(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, id)
	return true
}

type testApp struct {
	router   *gin.Engine
	store    store.Store
	sessions *auth.Sessions
	pool     *fakeDispatcher

	landlord  model.User
	other     model.User
	staff     model.User
	property  model.Property
	assigned  *model.UserProperty
	fridge    model.Appliance
	upgrade   model.Appliance
	oven      model.Appliance
	installed model.PropertyAppliance
}

const testPassword = "correct horse battery"

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	gormDB, err := db.Init(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})

	cfg := config.Default()
	cfg.Metrics.Enabled = true
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000

	sessions, err := auth.NewSessions("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	app := &testApp{store: store.NewGormStore(gormDB), sessions: sessions, pool: &fakeDispatcher{}}

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	app.landlord = model.User{Username: "landlord", FirstName: "Lana", LastName: "Lord", PasswordHash: hash, IsActive: true}
	app.other = model.User{Username: "other", PasswordHash: hash, IsActive: true}
	app.staff = model.User{Username: "staff", PasswordHash: hash, IsActive: true, IsStaff: true}
	for _, u := range []*model.User{&app.landlord, &app.other, &app.staff} {
		require.NoError(t, app.store.CreateUser(ctx, u))
	}

	app.property = model.Property{Name: "Maple Court", Address: "12 Maple St"}
	require.NoError(t, app.store.CreateProperty(ctx, &app.property))
	app.assigned, err = app.store.AssignProperty(ctx, app.landlord.ID, app.property.ID, time.Now())
	require.NoError(t, err)

	app.fridge = model.Appliance{
		Type: model.ApplianceRefrigerator, Brand: "Frost", Model: "F100",
		Cost: 1000, MatchingScore: 0.7, WarrantyDays: model.DefaultWarrantyDays,
		EfficiencyRating: model.EfficiencyGood, Image: "appliance_pictures/f100.png",
	}
	app.upgrade = model.Appliance{
		Type: model.ApplianceRefrigerator, Brand: "Frost", Model: "F900",
		Cost: 1800, MatchingScore: 0.9, WarrantyDays: 730,
		EfficiencyRating: model.EfficiencyHigh, Image: "appliance_pictures/f900.png",
	}
	app.oven = model.Appliance{
		Type: model.ApplianceOven, Brand: "Hearth", Model: "H2",
		Cost: 600, MatchingScore: 0.5, WarrantyDays: model.DefaultWarrantyDays,
		EfficiencyRating: model.EfficiencyModerate, Image: "appliance_pictures/h2.png",
	}
	for _, a := range []*model.Appliance{&app.fridge, &app.upgrade, &app.oven} {
		require.NoError(t, app.store.CreateAppliance(ctx, a))
	}

	app.installed = model.PropertyAppliance{
		PropertyID:   app.property.ID,
		ApplianceID:  app.fridge.ID,
		PurchaseDate: model.NewDate(time.Now()),
		Usage:        model.UsageMedium,
	}
	require.NoError(t, app.store.CreatePropertyAppliance(ctx, &app.installed))

	app.router, err = NewRouter(Deps{
		Store:    app.store,
		WebPush:  &webpush.Options{VAPIDPublicKey: "test-public-key"},
		Pool:     app.pool,
		Sessions: sessions,
		Config:   cfg,
		Log:      zap.NewNop(),
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return app
}

func (app *testApp) do(t *testing.T, req *http.Request, user *model.User) *httptest.ResponseRecorder {
	t.Helper()
	if user != nil {
		token, err := app.sessions.Issue(user.ID, user.IsStaff)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	var body struct {
		Status string              `json:"status"`
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	return body.Errors
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(time.DateOnly)
}

func TestHome_RedirectsAnonymous(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2F", w.Header().Get("Location"))
}

func TestHome_ListsAssignedProperties(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/", nil), &app.landlord)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Maple Court")
	assert.Contains(t, w.Body.String(), "Lana Lord")

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/", nil), &app.other)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Maple Court")
}

func TestPropertyView(t *testing.T) {
	app := newTestApp(t)
	path := "/properties/" + id(app.assigned.ID)

	w := app.do(t, httptest.NewRequest(http.MethodGet, path, nil), &app.landlord)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Frost F100")

	w = app.do(t, httptest.NewRequest(http.MethodGet, path, nil), &app.other)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, httptest.NewRequest(http.MethodGet, path, nil), &app.staff)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/properties/9999", nil), &app.landlord)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/properties/abc", nil), &app.landlord)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplianceView_ListsSameTypeCandidates(t *testing.T) {
	app := newTestApp(t)
	path := "/installations/" + id(app.property.ID) + "/" + id(app.fridge.ID) + "/"

	w := app.do(t, httptest.NewRequest(http.MethodGet, path, nil), &app.landlord)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Frost F900")
	assert.NotContains(t, body, "Hearth H2")
	assert.Less(t, strings.Index(body, "F900"), strings.LastIndex(body, "F100"),
		"higher matching score is listed first")
}

func TestExplore(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/explore/", nil), &app.other)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hearth H2")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/explore/", nil), &app.other)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
}

func TestProfile(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/profile/", nil), &app.landlord)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "landlord")
}

func TestGetMonthDates(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/get-month-dates/?year=2026&month=13", nil), &app.landlord)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/get-month-dates/?year=undefined&month=undefined", nil), &app.landlord)
	require.Equal(t, http.StatusOK, w.Code)
	var current struct {
		Dates        []json.RawMessage `json:"dates"`
		CurrentMonth string            `json:"current_month"`
		MonthName    string            `json:"month_name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.Equal(t, time.Now().Format("January 2006"), current.MonthName)
	assert.NotEmpty(t, current.Dates)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/get-month-dates/?year=2027&month=2", nil), &app.landlord)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.Equal(t, "2027-02-01", current.CurrentMonth)
	assert.Equal(t, "February 2027", current.MonthName)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/get-month-dates/?year=2027&month=2", nil), &app.landlord)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"), "month dates depend on today and must not be cached")
}

func TestHandler_ClockIsUTC(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, config.AuthConfig{}, nil, zap.NewNop())

	assert.Equal(t, time.UTC, h.now().Location())
	assert.Equal(t, time.UTC, h.today().Location())
	assert.Equal(t, time.Now().UTC().Format(time.DateOnly), h.today().Format(time.DateOnly))
}

func TestReplacementModal(t *testing.T) {
	app := newTestApp(t)
	path := "/installations/" + id(app.property.ID) + "/" + id(app.fridge.ID) + "/modal/"

	w := app.do(t, postForm(path, url.Values{"appliance_id": {id(app.upgrade.ID)}}), &app.landlord)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "#scheduleModal", w.Header().Get("HX-Target"))
	assert.Equal(t, "outerHTML", w.Header().Get("HX-Swap"))
	assert.Equal(t, "showModal", w.Header().Get("HX-Trigger-After-Swap"))
	assert.Contains(t, w.Body.String(), "Frost F900")

	w = app.do(t, postForm(path, url.Values{"appliance_id": {"9999"}}), &app.landlord)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, postForm(path, url.Values{"appliance_id": {id(app.upgrade.ID)}}), &app.other)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func scheduleForm(app *testApp, date string) url.Values {
	return url.Values{
		"property_appliance_id":    {id(app.installed.ID)},
		"replacement_appliance_id": {id(app.upgrade.ID)},
		"date":                     {date},
		"hour":                     {"10"},
		"minute":                   {"30"},
		"notifications_enabled":    {"on"},
		"tenant_email":             {"tenant@example.com"},
		"tenant_phone":             {"(555) 123-4567"},
	}
}

func TestReplacementSubmit_CreatesSchedule(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, postForm("/appliance_replacement_modal_submit/", scheduleForm(app, tomorrow())), &app.landlord)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Schedule created successfully!")

	schedules, err := app.store.ListSchedules(context.Background(), app.installed.ID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, 10, schedules[0].Hour)
	assert.Equal(t, 30, schedules[0].Minute)
	require.NotNil(t, schedules[0].TenantPhone)
	assert.Equal(t, "5551234567", *schedules[0].TenantPhone)
	assert.Equal(t, []int64{schedules[0].ID}, app.pool.ids)
}

func TestReplacementSubmit_Rejects(t *testing.T) {
	app := newTestApp(t)

	past := scheduleForm(app, time.Now().AddDate(0, 0, -1).Format(time.DateOnly))
	w := app.do(t, postForm("/appliance_replacement_modal_submit/", past), &app.landlord)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Cannot schedule for past dates"}, decodeErrors(t, w)["date"])

	bad := scheduleForm(app, tomorrow())
	bad.Set("hour", "24")
	bad.Set("tenant_phone", "12345")
	w = app.do(t, postForm("/appliance_replacement_modal_submit/", bad), &app.landlord)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	assert.Contains(t, errs, "hour")
	assert.Equal(t, []string{"Phone number must be at least 10 digits"}, errs["tenant_phone"])

	w = app.do(t, postForm("/appliance_replacement_modal_submit/", scheduleForm(app, tomorrow())), &app.other)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeErrors(t, w), "property_appliance_id")

	assert.Empty(t, app.pool.ids)
}

func TestAddApplianceModal(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, postForm("/properties/"+id(app.assigned.ID)+"/add-appliance/", nil), &app.landlord)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "#applianceAddModal", w.Header().Get("HX-Target"))
	assert.Equal(t, "showAddApplianceModal", w.Header().Get("HX-Trigger-After-Swap"))
	assert.Contains(t, w.Body.String(), "Hearth H2")
}

func TestAddApplianceSubmit(t *testing.T) {
	app := newTestApp(t)
	values := url.Values{
		"property":               {id(app.assigned.ID)},
		"appliance":              {id(app.oven.ID)},
		"actual_cost":            {"550"},
		"actual_warranty_period": {"730 00:00:00"},
		"usage":                  {string(model.UsageHigh)},
		"purchase_date":          {"2026-01-15"},
	}

	w := app.do(t, postForm("/add-appliance-submit/", values), &app.landlord)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "refreshApplianceList", w.Header().Get("HX-Trigger"))
	assert.Contains(t, w.Body.String(), "Hearth H2")
	assert.Contains(t, w.Body.String(), "550")

	installed, err := app.store.ListPropertyAppliances(context.Background(), app.property.ID)
	require.NoError(t, err)
	require.Len(t, installed, 2)
}

func TestAddApplianceSubmit_Rejects(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, postForm("/add-appliance-submit/", url.Values{
		"property":    {id(app.assigned.ID)},
		"appliance":   {id(app.oven.ID)},
		"actual_cost": {"-5"},
		"usage":       {"extreme"},
	}), &app.landlord)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	assert.Equal(t, []string{"Cost cannot be negative"}, errs["actual_cost"])
	assert.Equal(t, []string{"Invalid usage level"}, errs["usage"])

	w = app.do(t, postForm("/add-appliance-submit/", url.Values{
		"property":  {id(app.assigned.ID)},
		"appliance": {id(app.oven.ID)},
		"usage":     {string(model.UsageLow)},
	}), &app.other)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Invalid property"}, decodeErrors(t, w)["property"])
}

func TestDeletePropertyAppliance_RemovesSchedules(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	w := app.do(t, postForm("/appliance_replacement_modal_submit/", scheduleForm(app, tomorrow())), &app.landlord)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, postForm("/delete-property-appliance/"+id(app.installed.ID)+"/", nil), &app.other)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, postForm("/delete-property-appliance/"+id(app.installed.ID)+"/", nil), &app.landlord)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Property appliance deleted successfully!")

	schedules, err := app.store.ListSchedules(ctx, app.installed.ID)
	require.NoError(t, err)
	assert.Empty(t, schedules)

	w = app.do(t, postForm("/delete-property-appliance/"+id(app.installed.ID)+"/", nil), &app.landlord)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSchedule(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, postForm("/appliance_replacement_modal_submit/", scheduleForm(app, tomorrow())), &app.landlord)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, app.pool.ids, 1)
	path := "/delete-schedule/" + id(app.pool.ids[0]) + "/"

	w = app.do(t, postForm(path, nil), &app.landlord)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Schedule deleted successfully!")

	w = app.do(t, postForm(path, nil), &app.landlord)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginLogout(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/login?next=/explore/", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="/explore/"`)

	w = app.do(t, postForm("/login", url.Values{"username": {"landlord"}, "password": {"wrong"}}), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")

	w = app.do(t, postForm("/login", url.Values{
		"username": {"landlord"},
		"password": {testPassword},
		"next":     {"//evil.example"},
	}), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	claims, err := app.sessions.Parse(cookies[0].Value)
	require.NoError(t, err)
	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, app.landlord.ID, userID)

	user, err := app.store.GetUser(context.Background(), app.landlord.ID)
	require.NoError(t, err)
	assert.NotNil(t, user.LastLogin)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/login", nil), &app.landlord)
	assert.Equal(t, http.StatusFound, w.Code)

	broken := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("--x\r\nbroken"))
	broken.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w = app.do(t, broken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/logout/", nil), &app.landlord)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	require.Len(t, w.Result().Cookies(), 1)
	assert.Empty(t, w.Result().Cookies()[0].Value)
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                  "/",
		"/properties/3":     "/properties/3",
		"//evil.example":    "/",
		"/\\evil.example":   "/",
		"https://evil.test": "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeNext(in), in)
	}
}

func TestSubscriptions(t *testing.T) {
	app := newTestApp(t)
	endpoint := "https://push.example/send/abc"

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, postJSON(http.MethodPut, "/api/subscriptions", `{}`), &app.landlord)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := `{"endpoint":"` + endpoint + `","p256dh":"key","auth":"secret"}`
	w = app.do(t, postJSON(http.MethodPut, "/api/subscriptions", body), &app.landlord)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil), &app.landlord)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil), &app.other)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, postJSON(http.MethodDelete, "/api/subscriptions", `{"endpoint":"`+endpoint+`"}`), &app.landlord)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil), &app.landlord)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/api/vapid_public_key", nil), &app.landlord)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"test-public-key"}`, w.Body.String())
}

func TestAdmin(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/appliances", nil), &app.landlord)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/appliances", nil), &app.staff)
	require.Equal(t, http.StatusOK, w.Code)
	var appliances []model.Appliance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &appliances))
	assert.Len(t, appliances, 3)

	w = app.do(t, postJSON(http.MethodPost, "/api/admin/appliances", `{
		"appliance_type": "DISHWASHER", "brand": "Suds", "model": "S1", "cost": 450,
		"matching_score": 0.6, "efficiency_rating": "high", "image": "appliance_pictures/s1.png"
	}`), &app.staff)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Appliance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, model.DefaultWarrantyDays, created.WarrantyDays)

	w = app.do(t, postJSON(http.MethodPost, "/api/admin/appliances", `{"appliance_type":"BLENDER"}`), &app.staff)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeErrors(t, w), "appliance_type")

	w = app.do(t, httptest.NewRequest(http.MethodDelete, "/api/admin/appliances/"+id(created.ID), nil), &app.staff)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = app.do(t, httptest.NewRequest(http.MethodDelete, "/api/admin/appliances/"+id(created.ID), nil), &app.staff)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, postJSON(http.MethodPost, "/api/admin/properties", `{"name":"Birch House","address":"1 Birch Rd"}`), &app.staff)
	require.Equal(t, http.StatusCreated, w.Code)
	var property model.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &property))

	assign := `{"user_id":` + id(app.other.ID) + `,"property_id":` + id(property.ID) + `}`
	w = app.do(t, postJSON(http.MethodPost, "/api/admin/assignments", assign), &app.staff)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = app.do(t, postJSON(http.MethodPost, "/api/admin/assignments", assign), &app.staff)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, postJSON(http.MethodPost, "/api/admin/assignments", `{"user_id":9999,"property_id":`+id(property.ID)+`}`), &app.staff)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, httptest.NewRequest(http.MethodDelete, "/api/admin/properties/"+id(property.ID), nil), &app.staff)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "appliance_http_requests_total")
}

func TestNoRoute(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/nowhere", nil), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
