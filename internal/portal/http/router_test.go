package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	portalhttp "github.com/aussiebroadwan/hoaportal/internal/portal/http"
	"github.com/aussiebroadwan/hoaportal/internal/portal/service"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/hoaportal/pkg/cryptox"
	"github.com/aussiebroadwan/hoaportal/pkg/idx"
	"github.com/aussiebroadwan/hoaportal/pkg/jwtx"
	"github.com/aussiebroadwan/hoaportal/pkg/portalsdk"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"
)

const (
	adminEmail    = "admin@hoa.test"
	adminPassword = "admin-password"
	ownerPassword = "owner-password"
)

func TestMain(m *testing.M) {
	cryptox.SetPepper("router-test-pepper")
	os.Exit(m.Run())
}

type harness struct {
	t       *testing.T
	handler http.Handler
	ipSeq   atomic.Int64
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	const issuer = "https://hoa.test"
	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: issuer, NumKeys: 1})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	r := portalhttp.NewRouter(km.KeySet(), "test", st, slogx.Discard(), reg, "")
	r.IdentityService = &service.IdentityService{Store: st, Signer: km, Verifier: km.Verifier(), Issuer: issuer}
	r.UserService = &service.UserService{Store: st}
	r.PaymentService = &service.PaymentService{Store: st, Metrics: service.NewMetrics(reg)}
	r.AnnouncementService = &service.AnnouncementService{Store: st}
	r.MFAService = &service.MFAService{Store: st, Issuer: "HOA Portal"}
	r.ApplyRoutes()

	seeded, err := (&service.SeedService{Store: st}).SeedAdmin(context.Background(), service.AdminSeed{
		Email:    adminEmail,
		Password: adminPassword,
	})
	require.NoError(t, err)
	require.True(t, seeded)

	return &harness{t: t, handler: r}
}

// do sends a request from a fresh client address so rate limits only bite
// where a test asks for it through doFrom.
func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	n := h.ipSeq.Add(1)
	ip := fmt.Sprintf("10.%d.%d.%d", n>>16&0xff, n>>8&0xff, n&0xff)
	return h.doFrom(ip, method, path, token, body)
}

func (h *harness) doFrom(ip, method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(h.t, err)
		rdr = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("X-Forwarded-For", ip)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) portalsdk.ErrorResponse {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[portalsdk.ErrorResponse](t, rec)
	require.Equal(t, code, body.Error)
	return body
}

func (h *harness) login(email, password string) portalsdk.SessionResponse {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/v1/auth/login", "", portalsdk.LoginRequest{Email: email, Password: password})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[portalsdk.SessionResponse](h.t, rec)
}

func (h *harness) register(email string) portalsdk.SessionResponse {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/v1/auth/register", "", portalsdk.RegisterRequest{
		FirstName: "Pat",
		LastName:  "Owner",
		Email:     email,
		Password:  ownerPassword,
		Address:   "7 Mango Street",
	})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[portalsdk.SessionResponse](h.t, rec)
}

func (h *harness) submit(token string, req portalsdk.SubmitPaymentRequest) portalsdk.PaymentResponse {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/v1/payments", token, req)
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[portalsdk.PaymentResponse](h.t, rec)
}

func ptr[T any](v T) *T { return &v }

func monthlyDues() portalsdk.SubmitPaymentRequest {
	return portalsdk.SubmitPaymentRequest{
		Amount:   "500",
		Method:   "bank-transfer",
		Category: "monthly_dues",
		DueDate:  "2024-01-01",
	}
}

func TestSystemEndpoints(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[portalsdk.HealthResponse](t, rec).Status)

	rec = h.do(http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decode[portalsdk.HealthResponse](t, rec)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Signer)
	require.Equal(t, "test", ready.Version)

	rec = h.do(http.MethodGet, "/.well-known/jwks.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[portalsdk.JWKSResponse](t, rec).Keys, 1)

	rec = h.do(http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/v1/payments/{id}/status")
}

func TestRegisterLoginAndProfile(t *testing.T) {
	h := newHarness(t)

	reg := h.register("Owner@Example.com")
	require.NotEmpty(t, reg.AccessToken)
	require.Equal(t, "Bearer", reg.TokenType)
	require.Equal(t, "homeowner", reg.User.Role)
	require.Equal(t, "owner@example.com", reg.User.Email)

	rec := h.do(http.MethodGet, "/v1/me", reg.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, reg.User.ID, decode[portalsdk.UserResponse](t, rec).ID)

	rec = h.do(http.MethodPut, "/v1/me", reg.AccessToken, portalsdk.UpdateProfileRequest{
		UnitNumber: ptr("B-12"),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "B-12", decode[portalsdk.UserResponse](t, rec).UnitNumber)

	// duplicate email
	rec = h.do(http.MethodPost, "/v1/auth/register", "", portalsdk.RegisterRequest{
		FirstName: "Pat", LastName: "Again", Email: "owner@example.com", Password: ownerPassword, Address: "x",
	})
	requireError(t, rec, http.StatusConflict, portalsdk.ErrorCodeConflict)

	rec = h.do(http.MethodPost, "/v1/auth/login", "", portalsdk.LoginRequest{Email: "owner@example.com", Password: "nope"})
	requireError(t, rec, http.StatusUnauthorized, portalsdk.ErrorCodeUnauthenticated)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")

	requireError(t, h.do(http.MethodGet, "/v1/me", "", nil), http.StatusUnauthorized, portalsdk.ErrorCodeUnauthenticated)
	requireError(t, h.do(http.MethodGet, "/v1/me", "garbage", nil), http.StatusUnauthorized, portalsdk.ErrorCodeUnauthenticated)

	rec = h.do(http.MethodPost, "/v1/auth/register", "", portalsdk.RegisterRequest{Email: "not-an-email"})
	body := requireError(t, rec, http.StatusBadRequest, portalsdk.ErrorCodeValidation)
	require.Contains(t, body.Details, "email")
	require.Contains(t, body.Details, "first_name")
}

func TestPaymentScenarios(t *testing.T) {
	h := newHarness(t)
	owner := h.register("owner@example.com")
	admin := h.login(adminEmail, adminPassword)

	dues := h.submit(owner.AccessToken, monthlyDues())
	require.Equal(t, "pending", dues.Status)
	require.Equal(t, "500.00", dues.Amount)
	require.Equal(t, "2024-01-01", dues.DueDate)
	require.Nil(t, dues.RejectionReason)

	// members cannot adjudicate
	rec := h.do(http.MethodPut, "/v1/payments/"+dues.ID+"/status", owner.AccessToken,
		portalsdk.TransitionPaymentRequest{Status: "completed"})
	requireError(t, rec, http.StatusForbidden, portalsdk.ErrorCodeForbidden)

	rec = h.do(http.MethodPut, "/v1/payments/"+dues.ID+"/status", admin.AccessToken,
		portalsdk.TransitionPaymentRequest{Status: "completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[portalsdk.PaymentResponse](t, rec)
	require.Equal(t, "completed", approved.Status)
	require.Nil(t, approved.RejectionReason)

	// terminal
	rec = h.do(http.MethodPut, "/v1/payments/"+dues.ID+"/status", admin.AccessToken,
		portalsdk.TransitionPaymentRequest{Status: "failed"})
	requireError(t, rec, http.StatusConflict, portalsdk.ErrorCodeConflict)

	// original field names, amount as a string
	sticker := h.submit(owner.AccessToken, portalsdk.SubmitPaymentRequest{
		Amount:        "100",
		PaymentMethod: "gcash",
		PaymentPlan:   "sticker",
		DueDate:       "2024-02-01",
	})
	require.Equal(t, "mobile-wallet", sticker.Method)
	require.Equal(t, "sticker", sticker.Category)

	reason := "duplicate submission"
	rec = h.do(http.MethodPut, "/v1/payments/"+sticker.ID+"/status", admin.AccessToken,
		portalsdk.TransitionPaymentRequest{Status: "failed", RejectionReason: &reason})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rejected := decode[portalsdk.PaymentResponse](t, rec)
	require.Equal(t, "failed", rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	require.Equal(t, reason, *rejected.RejectionReason)

	rec = h.do(http.MethodGet, "/v1/payments", owner.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]portalsdk.PaymentResponse](t, rec), 2)

	requireError(t, h.do(http.MethodGet, "/v1/payments/all", owner.AccessToken, nil),
		http.StatusForbidden, portalsdk.ErrorCodeForbidden)

	rec = h.do(http.MethodGet, "/v1/payments/all", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[[]portalsdk.PaymentResponse](t, rec)
	require.Len(t, all, 2)
	for _, p := range all {
		require.NotNil(t, p.Owner)
		require.Equal(t, "owner@example.com", p.Owner.Email)
	}
}

func TestTransitionValidation(t *testing.T) {
	h := newHarness(t)
	owner := h.register("owner@example.com")
	admin := h.login(adminEmail, adminPassword)
	p := h.submit(owner.AccessToken, monthlyDues())

	reason := "why not"
	rec := h.do(http.MethodPut, "/v1/payments/"+p.ID+"/status", admin.AccessToken,
		portalsdk.TransitionPaymentRequest{Status: "completed", RejectionReason: &reason})
	body := requireError(t, rec, http.StatusBadRequest, portalsdk.ErrorCodeValidation)
	require.Contains(t, body.Details, "rejection_reason")

	rec = h.do(http.MethodPut, "/v1/payments/"+p.ID+"/status", admin.AccessToken,
		portalsdk.TransitionPaymentRequest{Status: "archived"})
	body = requireError(t, rec, http.StatusBadRequest, portalsdk.ErrorCodeValidation)
	require.Contains(t, body.Details, "status")

	rec = h.do(http.MethodPut, "/v1/payments/missing/status", admin.AccessToken,
		portalsdk.TransitionPaymentRequest{Status: "completed"})
	requireError(t, rec, http.StatusNotFound, portalsdk.ErrorCodeNotFound)

	// still pending after the rejected attempts
	rec = h.do(http.MethodGet, "/v1/payments/"+p.ID, owner.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "pending", decode[portalsdk.PaymentResponse](t, rec).Status)
}

func TestConcurrentAdjudication(t *testing.T) {
	h := newHarness(t)
	owner := h.register("owner@example.com")
	admin := h.login(adminEmail, adminPassword)
	p := h.submit(owner.AccessToken, monthlyDues())

	targets := []string{"completed", "failed"}
	codes := make([]int, len(targets))
	var wg sync.WaitGroup
	for i, status := range targets {
		wg.Go(func() {
			rec := h.do(http.MethodPut, "/v1/payments/"+p.ID+"/status", admin.AccessToken,
				portalsdk.TransitionPaymentRequest{Status: status})
			codes[i] = rec.Code
		})
	}
	wg.Wait()

	require.ElementsMatch(t, []int{http.StatusOK, http.StatusConflict}, codes)

	rec := h.do(http.MethodGet, "/v1/payments/"+p.ID, admin.AccessToken, nil)
	final := decode[portalsdk.PaymentResponse](t, rec)
	winner := targets[0]
	if codes[1] == http.StatusOK {
		winner = targets[1]
	}
	require.Equal(t, winner, final.Status)
}

func TestSubmitValidation(t *testing.T) {
	h := newHarness(t)
	owner := h.register("owner@example.com")

	tests := []struct {
		name  string
		body  any
		code  string
		field string
	}{
		{"zero amount", portalsdk.SubmitPaymentRequest{Amount: "0", Method: "bank-transfer", Category: "other", DueDate: "2024-01-01"}, portalsdk.ErrorCodeValidation, "amount"},
		{"bad amount", `{"amount":"1.234","method":"bank-transfer","category":"other","due_date":"2024-01-01"}`, portalsdk.ErrorCodeValidation, "amount"},
		{"non-numeric amount", `{"amount":"abc","method":"bank-transfer","category":"other","due_date":"2024-01-01"}`, portalsdk.ErrorCodeValidation, "amount"},
		{"boolean amount", `{"amount":true,"method":"bank-transfer","category":"other","due_date":"2024-01-01"}`, portalsdk.ErrorCodeValidation, "amount"},
		{"object amount", `{"amount":{"value":10},"method":"bank-transfer","category":"other","due_date":"2024-01-01"}`, portalsdk.ErrorCodeValidation, "amount"},
		{"bad date", portalsdk.SubmitPaymentRequest{Amount: "10", Method: "bank-transfer", Category: "other", DueDate: "tomorrow"}, portalsdk.ErrorCodeValidation, "due_date"},
		{"unknown method", portalsdk.SubmitPaymentRequest{Amount: "10", Method: "barter", Category: "other", DueDate: "2024-01-01"}, portalsdk.ErrorCodeValidation, "method"},
		{"malformed json", `{"amount":`, portalsdk.ErrorCodeInvalidRequest, ""},
		{"trailing data", `{"amount":"10"} {}`, portalsdk.ErrorCodeInvalidRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(http.MethodPost, "/v1/payments", owner.AccessToken, tt.body)
			body := requireError(t, rec, http.StatusBadRequest, tt.code)
			if tt.field != "" {
				require.Contains(t, body.Details, tt.field)
			}
		})
	}
}

func TestPaymentVisibility(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice@example.com")
	bob := h.register("bob@example.com")
	admin := h.login(adminEmail, adminPassword)

	p := h.submit(alice.AccessToken, monthlyDues())

	rec := h.do(http.MethodGet, "/v1/payments", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[[]portalsdk.PaymentResponse](t, rec))

	requireError(t, h.do(http.MethodGet, "/v1/payments/"+p.ID, bob.AccessToken, nil),
		http.StatusForbidden, portalsdk.ErrorCodeForbidden)

	rec = h.do(http.MethodGet, "/v1/payments/"+p.ID, admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	requireError(t, h.do(http.MethodGet, "/v1/payments/nope", admin.AccessToken, nil),
		http.StatusNotFound, portalsdk.ErrorCodeNotFound)

	// A member cannot tell a foreign claim from one that was never filed.
	unknown := idx.New().String()
	foreign := requireError(t, h.do(http.MethodGet, "/v1/payments/"+p.ID, bob.AccessToken, nil),
		http.StatusForbidden, portalsdk.ErrorCodeForbidden)
	missing := requireError(t, h.do(http.MethodGet, "/v1/payments/"+unknown, bob.AccessToken, nil),
		http.StatusForbidden, portalsdk.ErrorCodeForbidden)
	require.Equal(t, foreign, missing)
	requireError(t, h.do(http.MethodGet, "/v1/payments/"+unknown, admin.AccessToken, nil),
		http.StatusNotFound, portalsdk.ErrorCodeNotFound)

	rec = h.do(http.MethodGet, "/v1/payments/categories", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cats := decode[[]portalsdk.CategoryResponse](t, rec)
	require.Equal(t, "monthly_dues", cats[0].Category)
	require.Equal(t, "500.00", cats[0].SuggestedAmount)
}

func TestRoleChangeAppliesToExistingToken(t *testing.T) {
	h := newHarness(t)
	owner := h.register("owner@example.com")
	admin := h.login(adminEmail, adminPassword)

	requireError(t, h.do(http.MethodGet, "/v1/payments/all", owner.AccessToken, nil),
		http.StatusForbidden, portalsdk.ErrorCodeForbidden)

	rec := h.do(http.MethodPut, "/v1/admin/users/"+owner.User.ID, admin.AccessToken,
		portalsdk.AdminUpdateUserRequest{Role: ptr("admin")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "admin", decode[portalsdk.UserResponse](t, rec).Role)

	rec = h.do(http.MethodGet, "/v1/payments/all", owner.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPut, "/v1/admin/users/"+owner.User.ID, admin.AccessToken,
		portalsdk.AdminUpdateUserRequest{Role: ptr("treasurer")})
	require.Equal(t, http.StatusOK, rec.Code)
	requireError(t, h.do(http.MethodGet, "/v1/payments/all", owner.AccessToken, nil),
		http.StatusForbidden, portalsdk.ErrorCodeForbidden)
}

func TestAdminUserManagement(t *testing.T) {
	h := newHarness(t)
	admin := h.login(adminEmail, adminPassword)
	owner := h.register("owner@example.com")

	requireError(t, h.do(http.MethodGet, "/v1/admin/users", owner.AccessToken, nil),
		http.StatusForbidden, portalsdk.ErrorCodeForbidden)

	rec := h.do(http.MethodPost, "/v1/admin/users", admin.AccessToken, portalsdk.CreateUserRequest{
		RegisterRequest: portalsdk.RegisterRequest{
			FirstName: "Terry",
			LastName:  "Treasurer",
			Email:     "treasurer@example.com",
			Address:   "1 Hall Road",
		},
		Role: "treasurer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[portalsdk.CreateUserResponse](t, rec)
	require.Equal(t, "treasurer", created.User.Role)
	require.Len(t, created.GeneratedPassword, 16)

	treasurer := h.login("treasurer@example.com", created.GeneratedPassword)

	rec = h.do(http.MethodGet, "/v1/admin/users", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]portalsdk.UserResponse](t, rec), 3)

	// deleted member's token stops working
	rec = h.do(http.MethodDelete, "/v1/admin/users/"+created.User.ID, admin.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	requireError(t, h.do(http.MethodGet, "/v1/me", treasurer.AccessToken, nil),
		http.StatusUnauthorized, portalsdk.ErrorCodeUnauthenticated)

	// members with payments are kept
	h.submit(owner.AccessToken, monthlyDues())
	requireError(t, h.do(http.MethodDelete, "/v1/admin/users/"+owner.User.ID, admin.AccessToken, nil),
		http.StatusConflict, portalsdk.ErrorCodeConflict)

	// and so is the caller
	requireError(t, h.do(http.MethodDelete, "/v1/admin/users/"+admin.User.ID, admin.AccessToken, nil),
		http.StatusConflict, portalsdk.ErrorCodeConflict)

	requireError(t, h.do(http.MethodDelete, "/v1/admin/users/ghost", admin.AccessToken, nil),
		http.StatusNotFound, portalsdk.ErrorCodeNotFound)
}

func TestAnnouncements(t *testing.T) {
	h := newHarness(t)
	admin := h.login(adminEmail, adminPassword)
	owner := h.register("owner@example.com")

	requireError(t, h.do(http.MethodPost, "/v1/announcements", owner.AccessToken,
		portalsdk.AnnouncementRequest{Title: "Pool", Content: "Closed"}),
		http.StatusForbidden, portalsdk.ErrorCodeForbidden)

	rec := h.do(http.MethodPost, "/v1/announcements", admin.AccessToken,
		portalsdk.AnnouncementRequest{Title: "Pool", Content: "Closed for cleaning"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	a := decode[portalsdk.AnnouncementResponse](t, rec)
	require.Equal(t, "normal", a.Priority)
	require.NotNil(t, a.CreatedBy)
	require.Equal(t, admin.User.ID, *a.CreatedBy)

	rec = h.do(http.MethodPut, "/v1/announcements/"+a.ID, admin.AccessToken,
		portalsdk.AnnouncementRequest{Priority: "high"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[portalsdk.AnnouncementResponse](t, rec)
	require.Equal(t, "high", updated.Priority)
	require.Equal(t, "Pool", updated.Title)

	rec = h.do(http.MethodGet, "/v1/announcements", owner.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]portalsdk.AnnouncementResponse](t, rec), 1)

	require.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/v1/announcements/"+a.ID, admin.AccessToken, nil).Code)
	requireError(t, h.do(http.MethodDelete, "/v1/announcements/"+a.ID, admin.AccessToken, nil),
		http.StatusNotFound, portalsdk.ErrorCodeNotFound)
}

func TestMFALogin(t *testing.T) {
	h := newHarness(t)
	owner := h.register("owner@example.com")

	rec := h.do(http.MethodPost, "/v1/me/mfa/totp/enroll", owner.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	enroll := decode[portalsdk.TOTPEnrollResponse](t, rec)
	require.NotEmpty(t, enroll.Secret)
	require.Contains(t, enroll.URL, "otpauth://totp/")

	rec = h.do(http.MethodPost, "/v1/me/mfa/totp/verify", owner.AccessToken, portalsdk.TOTPCodeRequest{Code: "000000x"})
	requireError(t, rec, http.StatusBadRequest, portalsdk.ErrorCodeValidation)

	code, err := totp.GenerateCode(enroll.Secret, time.Now())
	require.NoError(t, err)
	rec = h.do(http.MethodPost, "/v1/me/mfa/totp/verify", owner.AccessToken, portalsdk.TOTPCodeRequest{Code: code})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = h.do(http.MethodGet, "/v1/me", owner.AccessToken, nil)
	require.True(t, decode[portalsdk.UserResponse](t, rec).MFAEnabled)

	// password alone no longer signs in
	rec = h.do(http.MethodPost, "/v1/auth/login", "", portalsdk.LoginRequest{Email: "owner@example.com", Password: ownerPassword})
	requireError(t, rec, http.StatusUnauthorized, portalsdk.ErrorCodeUnauthenticated)

	code, err = totp.GenerateCode(enroll.Secret, time.Now())
	require.NoError(t, err)
	rec = h.do(http.MethodPost, "/v1/auth/login", "", portalsdk.LoginRequest{
		Email: "owner@example.com", Password: ownerPassword, OTP: code,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLoginRateLimited(t *testing.T) {
	h := newHarness(t)

	req := portalsdk.LoginRequest{Email: "victim@example.com", Password: "guess"}
	for range 5 {
		rec := h.doFrom("203.0.113.7", http.MethodPost, "/v1/auth/login", "", req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := h.doFrom("203.0.113.7", http.MethodPost, "/v1/auth/login", "", req)
	requireError(t, rec, http.StatusTooManyRequests, portalsdk.ErrorCodeRateLimitExceeded)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// another account from the same address has its own bucket
	rec = h.doFrom("203.0.113.7", http.MethodPost, "/v1/auth/login", "",
		portalsdk.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsExposition(t *testing.T) {
	h := newHarness(t)
	owner := h.register("owner@example.com")
	h.submit(owner.AccessToken, monthlyDues())

	rec := h.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `portal_payments_submitted_total{category="monthly_dues"} 1`)
	require.Contains(t, body, `portal_http_requests_total{code="201",route="POST /v1/payments"} 1`)
}
