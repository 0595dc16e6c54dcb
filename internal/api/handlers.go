package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wigapos/ledger/internal/ledger"
	"github.com/wigapos/ledger/internal/models"
	"github.com/wigapos/ledger/internal/report"
)

func collectionParam(r *http.Request) (models.Collection, error) {
	return models.ParseCollection(chi.URLParam(r, "collection"))
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.Invalid("id", "must be a positive integer")
	}
	return id, nil
}

// entryRequest is the wire form of a ledger entry. Monetary and quantity
// fields use the lenient amount type so empty form inputs coerce to zero.
type entryRequest struct {
	Date        string `json:"date"`
	PartyName   string `json:"party_name"`
	AccountName string `json:"account_name"`
	Description string `json:"description"`
	Qty         amount `json:"qty"`
	ReferenceNo string `json:"reference_no"`
	Debit       amount `json:"debit"`
	Credit      amount `json:"credit"`
	Currency    string `json:"currency"`
}

func (req entryRequest) toModel() models.LedgerEntry {
	return models.LedgerEntry{
		Date:        req.Date,
		PartyName:   req.PartyName,
		AccountName: req.AccountName,
		Description: req.Description,
		Quantity:    req.Qty.Decimal,
		ReferenceNo: req.ReferenceNo,
		Debit:       req.Debit.Decimal,
		Credit:      req.Credit.Decimal,
		Currency:    models.Currency(req.Currency),
	}
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	col, err := collectionParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := s.ledger.List(r.Context(), tenantFrom(r), col)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("order") == "desc" {
		entries = ledger.Reversed(entries)
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	col, err := collectionParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	saved, err := s.ledger.Create(r.Context(), tenantFrom(r), col, req.toModel())
	if err != nil {
		writeError(w, err)
		return
	}
	entriesWritten.WithLabelValues(string(col)).Inc()
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	col, err := collectionParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	entry, err := s.ledger.Get(r.Context(), tenantFrom(r), col, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	col, err := collectionParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	entry := req.toModel()
	entry.ID = id
	saved, err := s.ledger.Update(r.Context(), tenantFrom(r), col, entry)
	if err != nil {
		writeError(w, err)
		return
	}
	entriesWritten.WithLabelValues(string(col)).Inc()
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	col, err := collectionParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.ledger.Delete(r.Context(), tenantFrom(r), col, id); err != nil {
		writeError(w, err)
		return
	}
	entriesDeleted.WithLabelValues(string(col)).Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	col, err := collectionParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	totals, parties, err := s.ledger.Summary(r.Context(), tenantFrom(r), col)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"totals": totals, "parties": parties})
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	col, err := collectionParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	group, err := s.ledger.Group(r.Context(), tenantFrom(r), col, chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleGetRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Rates().Snapshot())
}

func (s *Server) handleSetRate(w http.ResponseWriter, r *http.Request) {
	currency, err := models.ParseCurrency(chi.URLParam(r, "currency"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Rate amount `json:"rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := s.ledger.Rates().Set(currency, req.Rate.Decimal); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.Rates().Snapshot())
}

func (s *Server) handleRescale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Debit   amount `json:"debit"`
		Credit  amount `json:"credit"`
		Balance amount `json:"balance"`
		From    string `json:"from"`
		To      string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	from, err := models.ParseCurrency(req.From)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := models.ParseCurrency(req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	draft := ledger.Draft{Debit: req.Debit.Decimal, Credit: req.Credit.Decimal, Balance: req.Balance.Decimal}
	rescaled, err := s.ledger.Rescale(draft, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rescaled)
}

// invoiceRequest is the wire form of a bill.
type invoiceRequest struct {
	InvoiceNo    string `json:"invoice_no"`
	CustomerName string `json:"customer_name"`
	Date         string `json:"date"`
	Items        []struct {
		ItemCode    string `json:"item_code"`
		Description string `json:"description"`
		Qty         amount `json:"qty"`
		Amount      amount `json:"amount"`
	} `json:"items"`
}

func (s *Server) handleSaveInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	inv := models.Invoice{
		InvoiceNo:    req.InvoiceNo,
		CustomerName: req.CustomerName,
		Date:         req.Date,
	}
	for _, it := range req.Items {
		inv.Items = append(inv.Items, models.LineItem{
			ItemCode:    it.ItemCode,
			Description: it.Description,
			Qty:         it.Qty.Decimal,
			Amount:      it.Amount.Decimal,
		})
	}
	saved, err := s.billing.Save(r.Context(), tenantFrom(r), inv)
	if err != nil {
		writeError(w, err)
		return
	}
	invoicesSaved.Inc()
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invs, err := s.billing.List(r.Context(), tenantFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoices": invs})
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	inv, err := s.billing.Get(r.Context(), tenantFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	inv, err := s.billing.Get(r.Context(), tenantFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	pdf, err := report.InvoicePDF(inv)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(inv)))
	w.Write(pdf)
}

func (s *Server) handleItemLookup(w http.ResponseWriter, r *http.Request) {
	item, err := s.billing.LookupItem(r.Context(), tenantFrom(r), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handlePartyNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.billing.PartyNames(r.Context(), tenantFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"names": names})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	user, err := s.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	token, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
