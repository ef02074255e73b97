package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/middleware"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/invoices"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/users"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/pagination"
)

type stubInvoiceService struct {
	invoice    *invoices.InvoiceDTO
	getErr     error
	markPaidBy string
	markErr    error
}

func (s *stubInvoiceService) Create(ctx context.Context, input invoices.CreateInvoiceInput) (*invoices.InvoiceDTO, error) {
	return s.invoice, nil
}

func (s *stubInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*invoices.InvoiceDTO, error) {
	return s.invoice, s.getErr
}

func (s *stubInvoiceService) GetByNumber(ctx context.Context, number string) (*invoices.InvoiceDTO, error) {
	return s.invoice, s.getErr
}

func (s *stubInvoiceService) GetByMerchant(ctx context.Context, merchantID uuid.UUID, params pagination.Params) ([]invoices.InvoiceDTO, int64, error) {
	if s.invoice == nil {
		return nil, 0, nil
	}
	return []invoices.InvoiceDTO{*s.invoice}, 1, nil
}

func (s *stubInvoiceService) MarkPaid(ctx context.Context, id, merchantID uuid.UUID, paidBy string) error {
	s.markPaidBy = paidBy
	return s.markErr
}

func (s *stubInvoiceService) Delete(ctx context.Context, id, merchantID uuid.UUID) error {
	return nil
}

type stubUserReader struct {
	user *users.UserDTO
	err  error
}

func (s *stubUserReader) GetUser(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return s.user, s.err
}

func markPaidRequest(t *testing.T, invoiceID, userID, merchantID uuid.UUID) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/invoice/"+invoiceID.String()+"/mark-paid", strings.NewReader("{}"))

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("guid", invoiceID.String())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithUserID(ctx, userID.String())
	ctx = middleware.WithMerchantID(ctx, merchantID.String())

	return req.WithContext(ctx)
}

func TestInvoiceMarkPaidRecordsPayerName(t *testing.T) {
	merchantID := uuid.New()
	userID := uuid.New()
	invoiceID := uuid.New()

	svc := &stubInvoiceService{invoice: &invoices.InvoiceDTO{
		ID:         invoiceID,
		Number:     "INV-000001",
		MerchantID: merchantID,
		Amount:     decimal.NewFromInt(100),
		CreatedAt:  time.Now().UTC(),
	}}
	reader := &stubUserReader{user: &users.UserDTO{
		ID:        userID,
		FirstName: "Maria",
		LastName:  "Santos",
	}}

	resp := httptest.NewRecorder()
	InvoiceMarkPaid(svc, reader, nil).ServeHTTP(resp, markPaidRequest(t, invoiceID, userID, merchantID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.markPaidBy != "Maria Santos" {
		t.Fatalf("expected payer name recorded, got %q", svc.markPaidBy)
	}
}

func TestInvoiceMarkPaidRefusesAlreadyPaid(t *testing.T) {
	merchantID := uuid.New()
	invoiceID := uuid.New()

	svc := &stubInvoiceService{invoice: &invoices.InvoiceDTO{
		ID:         invoiceID,
		MerchantID: merchantID,
		IsPaid:     true,
	}}

	resp := httptest.NewRecorder()
	InvoiceMarkPaid(svc, &stubUserReader{}, nil).ServeHTTP(resp, markPaidRequest(t, invoiceID, uuid.New(), merchantID))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 but got %d", resp.Code)
	}
	if svc.markPaidBy != "" {
		t.Fatal("MarkPaid must not be called for an already-paid invoice")
	}
}

func TestInvoiceMarkPaidHidesOtherMerchantsInvoices(t *testing.T) {
	invoiceID := uuid.New()

	svc := &stubInvoiceService{invoice: &invoices.InvoiceDTO{
		ID:         invoiceID,
		MerchantID: uuid.New(),
	}}

	resp := httptest.NewRecorder()
	InvoiceMarkPaid(svc, &stubUserReader{}, nil).ServeHTTP(resp, markPaidRequest(t, invoiceID, uuid.New(), uuid.New()))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 but got %d", resp.Code)
	}
}

func TestInvoiceMarkPaidRequiresMerchantContext(t *testing.T) {
	invoiceID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/invoice/"+invoiceID.String()+"/mark-paid", strings.NewReader("{}"))

	resp := httptest.NewRecorder()
	InvoiceMarkPaid(&stubInvoiceService{}, &stubUserReader{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 but got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if envelope.Error.Code != "FORBIDDEN" {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
}
