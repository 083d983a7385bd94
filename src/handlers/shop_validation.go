package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/marketrent/rentroll-server/src/models"
	"github.com/marketrent/rentroll-server/src/services"
)

// Amount is a non-negative money value. It unmarshals from a JSON number or a
// quoted numeric string, matching what clients of the old API sent.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("number %q is not finite", s)
	}
	*a = Amount(f)
	return nil
}

// RentPayload is one rent ledger entry as submitted by a client
type RentPayload struct {
	Month  *string `json:"month"`
	Amount *Amount `json:"amount"`
}

// ShopPayload is the client-submitted shop body for create and update.
// Pointer fields distinguish "absent" from "zero". There is deliberately no
// owner field: ownership always derives from the authenticated token.
type ShopPayload struct {
	Name    *string       `json:"name"`
	Keeper  *string       `json:"keeper"`
	Base    *Amount       `json:"base"`
	Advance *Amount       `json:"advance"`
	Start   *string       `json:"start"`
	Rents   []RentPayload `json:"rents"`
}

// FieldError describes a single validation violation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidateShopPayload checks every rule and reports all violations, not just
// the first. An empty result means the payload is acceptable. The input is
// never mutated and the store is never touched.
func ValidateShopPayload(p *ShopPayload) []FieldError {
	var errs []FieldError

	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, FieldError{"name", "invalid or missing name"})
	}
	if p.Keeper == nil || strings.TrimSpace(*p.Keeper) == "" {
		errs = append(errs, FieldError{"keeper", "invalid or missing keeper"})
	}
	if p.Base == nil || *p.Base < 0 {
		errs = append(errs, FieldError{"base", "invalid or missing base"})
	}
	if p.Advance == nil || *p.Advance < 0 {
		errs = append(errs, FieldError{"advance", "invalid or missing advance"})
	}
	if p.Start == nil {
		errs = append(errs, FieldError{"start", "invalid or missing start (YYYY-MM-DD)"})
	} else if _, err := models.ParseDate(*p.Start); err != nil {
		errs = append(errs, FieldError{"start", "invalid or missing start (YYYY-MM-DD)"})
	}

	for i, r := range p.Rents {
		if r.Month == nil || strings.TrimSpace(*r.Month) == "" {
			errs = append(errs, FieldError{fmt.Sprintf("rents[%d].month", i), "invalid"})
		}
		if r.Amount == nil || *r.Amount < 0 {
			errs = append(errs, FieldError{fmt.Sprintf("rents[%d].amount", i), "invalid"})
		}
	}

	return errs
}

// joinFieldErrors flattens violations into one human-readable message
func joinFieldErrors(errs []FieldError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}

// toShopInput converts a payload that passed validation into a normalized
// service input
func toShopInput(p *ShopPayload) services.ShopInput {
	start, _ := models.ParseDate(*p.Start)

	rents := make([]models.RentEntry, len(p.Rents))
	for i, r := range p.Rents {
		rents[i] = models.RentEntry{
			Month:  strings.TrimSpace(*r.Month),
			Amount: float64(*r.Amount),
		}
	}

	return services.ShopInput{
		Name:    strings.TrimSpace(*p.Name),
		Keeper:  strings.TrimSpace(*p.Keeper),
		Base:    float64(*p.Base),
		Advance: float64(*p.Advance),
		Start:   start,
		Rents:   rents,
	}
}
