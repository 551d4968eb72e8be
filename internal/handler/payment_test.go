package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planit/backend/internal/domain"
)

func TestReportPayment_OK(t *testing.T) {
	user := testUser()
	tripID := uuid.New()

	h := newTestRouter(user, serverDeps{
		payments: &mockPaymentServicer{
			report: func(_ context.Context, userID uuid.UUID, payment domain.Payment) (domain.Payment, error) {
				assert.Equal(t, user.ID, userID)
				assert.Equal(t, tripID, payment.TripID)
				assert.Equal(t, int64(50000), payment.AmountCents)
				assert.Equal(t, domain.PayVenmo, payment.Method)
				assert.Equal(t, "BANDON-PAT", payment.Memo)
				payment.ID = uuid.New()
				payment.UserID = userID
				payment.Type = domain.PaymentTypeDeposit
				return payment, nil
			},
		},
	})

	body := `{"amount_cents":50000,"method":"venmo","identifier":"@pat-venmo","memo":"BANDON-PAT"}`
	req := httptest.NewRequest(http.MethodPost, "/api/trips/"+tripID.String()+"/payments", strings.NewReader(body))
	rec := doSignedIn(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount_cents":50000`)
	assert.Contains(t, rec.Body.String(), `"type":"deposit"`)
	assert.NotContains(t, rec.Body.String(), `"verified_at"`)
}

func TestReportPayment_ZeroAmount(t *testing.T) {
	h := newTestRouter(testUser(), serverDeps{
		payments: &mockPaymentServicer{
			report: func(_ context.Context, _ uuid.UUID, _ domain.Payment) (domain.Payment, error) {
				return domain.Payment{}, domain.ErrValidation
			},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/trips/"+uuid.NewString()+"/payments",
		strings.NewReader(`{"amount_cents":0,"method":"venmo"}`))
	rec := doSignedIn(h, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetPayment_PassesTypeQuery(t *testing.T) {
	user := testUser()
	tripID := uuid.New()

	h := newTestRouter(user, serverDeps{
		payments: &mockPaymentServicer{
			get: func(_ context.Context, userID, gotTripID uuid.UUID, paymentType string) (domain.Payment, error) {
				assert.Equal(t, user.ID, userID)
				assert.Equal(t, tripID, gotTripID)
				assert.Equal(t, "deposit", paymentType)
				return domain.Payment{ID: uuid.New(), TripID: gotTripID, UserID: userID, Type: paymentType, AmountCents: 50000, Method: domain.PayZelle}, nil
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/trips/"+tripID.String()+"/payments?type=deposit", nil)
	rec := doSignedIn(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"method":"zelle"`)
}

func TestGetPayment_NothingReportedIsNull(t *testing.T) {
	h := newTestRouter(testUser(), serverDeps{
		payments: &mockPaymentServicer{
			get: func(_ context.Context, _, _ uuid.UUID, _ string) (domain.Payment, error) {
				return domain.Payment{}, domain.ErrNotFound
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/trips/"+uuid.NewString()+"/payments", nil)
	rec := doSignedIn(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `null`, rec.Body.String())
}

func TestVerifyPayment_OK(t *testing.T) {
	user := testUser()
	paymentID := uuid.New()
	verifiedAt := time.Now().UTC()

	h := newTestRouter(user, serverDeps{
		payments: &mockPaymentServicer{
			verify: func(_ context.Context, adminID, gotPaymentID uuid.UUID) (domain.Payment, error) {
				assert.Equal(t, user.ID, adminID)
				assert.Equal(t, paymentID, gotPaymentID)
				return domain.Payment{
					ID:          gotPaymentID,
					Type:        domain.PaymentTypeDeposit,
					AmountCents: 50000,
					Method:      domain.PayVenmo,
					VerifiedAt:  &verifiedAt,
					VerifiedBy:  &adminID,
				}, nil
			},
		},
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/payments/"+paymentID.String()+"/verify", nil)
	rec := doSignedIn(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"verified_at"`)
	assert.Contains(t, rec.Body.String(), user.ID.String())
}

func TestVerifyPayment_NotTheOrganizer(t *testing.T) {
	h := newTestRouter(testUser(), serverDeps{
		payments: &mockPaymentServicer{
			verify: func(_ context.Context, _, _ uuid.UUID) (domain.Payment, error) {
				return domain.Payment{}, domain.ErrUnauthorized
			},
		},
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/payments/"+uuid.NewString()+"/verify", nil)
	rec := doSignedIn(h, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVerifyPayment_MalformedID(t *testing.T) {
	h := newTestRouter(testUser(), serverDeps{})

	req := httptest.NewRequest(http.MethodPatch, "/api/payments/not-a-uuid/verify", nil)
	rec := doSignedIn(h, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
