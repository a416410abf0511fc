package payment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/dcastro/payable/internal/importer"
	"github.com/dcastro/payable/internal/invoice"
)

type Handler struct {
	svc       *invoice.Service
	importSvc *importer.Service
}

func NewHandler(svc *invoice.Service, importSvc *importer.Service) *Handler {
	return &Handler{
		svc:       svc,
		importSvc: importSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(middleware.AllowContentType("application/json")).Post("/", h.apply)
	r.Post("/import", h.importRemit)
}

type applyPaymentRequest struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
}

type applyPaymentResponse struct {
	Outcome invoice.Outcome `json:"outcome"`
	Message string          `json:"message"`
	Invoice invoiceDTO      `json:"invoice"`
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	var req applyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Reference == "" {
		http.Error(w, "reference is required", http.StatusBadRequest)
		return
	}

	if !req.Amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	res, err := h.svc.ApplyPayment(r.Context(), invoice.PaymentParams{
		Reference: req.Reference,
		Amount:    req.Amount,
	})
	if err != nil {
		writePaymentError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := applyPaymentResponse{
		Outcome: res.Outcome,
		Message: res.Message,
		Invoice: toInvoiceDTO(res.Invoice),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writePaymentError maps the service's terminal errors to status codes.
// Rejection outcomes never reach here; they are normal responses.
func writePaymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, invoice.ErrNotFound):
		http.Error(w, "there is no invoice matching this payment", http.StatusNotFound)
	case errors.Is(err, invoice.ErrInvalidState):
		http.Error(w, "invoice is in an invalid state", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type importRowResponse struct {
	Reference string          `json:"reference"`
	Outcome   invoice.Outcome `json:"outcome,omitempty"`
	Message   string          `json:"message,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type importResponse struct {
	Applied int                 `json:"applied"`
	Rows    []importRowResponse `json:"rows"`
}

// importRemit applies a remittance CSV of payments row by row. Hard failures
// on one row are recorded and the batch continues; each row is its own
// payment-application call.
func (h *Handler) importRemit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		http.Error(w, "format field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := importResponse{
		Rows: make([]importRowResponse, 0, len(params)),
	}

	for _, p := range params {
		row := importRowResponse{Reference: p.Reference}

		res, err := h.svc.ApplyPayment(r.Context(), p)
		if err != nil {
			row.Error = err.Error()
		} else {
			row.Outcome = res.Outcome
			row.Message = res.Message

			if res.Outcome.Accepted() {
				resp.Applied++
			}
		}

		resp.Rows = append(resp.Rows, row)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
