package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wigapos/ledger/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps the module's error kinds onto HTTP statuses: validation
// 400, not found 404, bad credentials 401, duplicates 409, everything else
// (storage I/O) 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err),
		errors.Is(err, models.ErrInvalidRate),
		errors.Is(err, models.ErrUnknownCurrency),
		errors.Is(err, models.ErrUnknownCollection):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, models.ErrInvalidCredential):
		writeJSON(w, http.StatusUnauthorized, errorBody(err.Error()))
	case errors.Is(err, models.ErrDuplicateUser):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// amount is a decimal that tolerates the loose numeric inputs the forms
// produce: JSON numbers, numeric strings, the empty string and null all
// decode; empty and null coerce to zero.
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		a.Decimal = decimal.Zero
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			a.Decimal = decimal.Zero
			return nil
		}
		d, err := decimal.NewFromString(str)
		if err != nil {
			return err
		}
		a.Decimal = d
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	a.Decimal = d
	return nil
}
