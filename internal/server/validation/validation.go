// Package validation checks per-collection record payloads before they reach
// the sync engine. Only the documented fields are checked; unknown fields and
// the server-managed createdAt/updatedAt pass through untouched.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/dmitrijs2005/finsync/internal/common"
	"github.com/dmitrijs2005/finsync/internal/server/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// FieldError reports the first invalid field of an item.
type FieldError struct {
	Index  int
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("items[%d].%s: %s", e.Index, e.Field, e.Reason)
}

// Is makes every FieldError match common.ErrValidation.
func (e *FieldError) Is(target error) bool {
	return target == common.ErrValidation
}

type kind int

const (
	kindString kind = iota
	kindNumber
	kindPositive
	kindInt
	kindBool
	kindStringList
	kindCurrency
)

type field struct {
	name     string
	kind     kind
	required bool
	oneOf    []string
	def      any
}

func required(name string, k kind, oneOf ...string) field {
	return field{name: name, kind: k, required: true, oneOf: oneOf}
}

func optional(name string, k kind) field {
	return field{name: name, kind: k}
}

// withDefault sets the value stored when the field is absent.
func (f field) withDefault(v any) field {
	f.def = v
	return f
}

var schemas = map[models.Collection][]field{
	models.Transactions: {
		required("id", kindString),
		required("type", kindString, "income", "expense", "transfer"),
		required("amount", kindPositive),
		optional("currencyCode", kindCurrency).withDefault("USD"),
		optional("originalAmount", kindNumber),
		optional("exchangeRate", kindNumber),
		required("description", kindString),
		required("category", kindString),
		required("icon", kindString),
		required("date", kindInt),
		required("walletId", kindString),
		optional("note", kindString),
		optional("tags", kindStringList),
	},
	models.Wallets: {
		required("id", kindString),
		required("name", kindString),
		required("balance", kindNumber),
		required("type", kindString, "bank", "savings", "credit", "cash", "investment"),
		required("icon", kindString),
		required("color", kindString),
		optional("accountNumber", kindString),
		optional("bankName", kindString),
		optional("creditLimit", kindNumber),
		optional("isActive", kindBool).withDefault(true),
		optional("lastTransactionDate", kindInt),
		optional("isMonthlyRollover", kindBool).withDefault(false),
		optional("rolloverToWalletId", kindString),
		optional("lastRolloverAt", kindInt),
	},
	models.Budgets: {
		required("id", kindString),
		required("name", kindString),
		optional("spent", kindNumber).withDefault(int64(0)),
		required("limit", kindPositive),
		required("icon", kindString),
		required("color", kindString),
		required("period", kindString, "weekly", "monthly", "yearly"),
		required("category", kindString),
		required("startDate", kindInt),
		required("endDate", kindInt),
		optional("isActive", kindBool).withDefault(true),
		optional("alertThreshold", kindNumber),
		optional("includedCategories", kindStringList),
	},
}

// Validate checks one item against the schema of collection c.
func Validate(c models.Collection, item map[string]any) error {
	schema, ok := schemas[c]
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrUnknownCollection, c)
	}

	for _, f := range schema {
		v, present := item[f.name]
		if !present || v == nil {
			if f.required {
				return &FieldError{Field: f.name, Reason: "field required"}
			}
			continue
		}
		if reason := check(f, v); reason != "" {
			return &FieldError{Field: f.name, Reason: reason}
		}
	}
	return nil
}

// Normalize validates item and returns a copy with every absent defaulted
// field filled in. item itself is not modified.
func Normalize(c models.Collection, item map[string]any) (map[string]any, error) {
	if err := Validate(c, item); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(item))
	for k, v := range item {
		out[k] = v
	}
	for _, f := range schemas[c] {
		if f.def == nil {
			continue
		}
		if v, ok := out[f.name]; !ok || v == nil {
			out[f.name] = f.def
		}
	}
	return out, nil
}

// NormalizeItems normalizes every item and reports the first failure with
// its position in the batch.
func NormalizeItems(c models.Collection, items []map[string]any) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		n, err := Normalize(c, item)
		if err != nil {
			var fe *FieldError
			if errors.As(err, &fe) {
				fe.Index = i
			}
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func check(f field, v any) string {
	switch f.kind {
	case kindString:
		s, ok := v.(string)
		if !ok {
			return "must be a string"
		}
		if f.name == "id" && s == "" {
			return "must not be empty"
		}
		if len(f.oneOf) > 0 && !slices.Contains(f.oneOf, s) {
			return fmt.Sprintf("must be one of %v", f.oneOf)
		}
	case kindNumber:
		if _, ok := toDecimal(v); !ok {
			return "must be a number"
		}
	case kindPositive:
		d, ok := toDecimal(v)
		if !ok {
			return "must be a number"
		}
		if !d.IsPositive() {
			return "must be greater than 0"
		}
	case kindInt:
		d, ok := toDecimal(v)
		if !ok || !d.IsInteger() {
			return "must be an integer"
		}
	case kindBool:
		if _, ok := v.(bool); !ok {
			return "must be a boolean"
		}
	case kindStringList:
		if !isStringList(v) {
			return "must be a list of strings"
		}
	case kindCurrency:
		s, ok := v.(string)
		if !ok {
			return "must be a string"
		}
		if _, err := currency.ParseISO(s); err != nil {
			return "must be an ISO 4217 currency code"
		}
	}
	return ""
}

// toDecimal accepts JSON numbers and Go numeric kinds. Strings are not
// numbers even when they look like one.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		return toDecimal(float64(n))
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	default:
		return decimal.Zero, false
	}
}

func isStringList(v any) bool {
	switch list := v.(type) {
	case []string:
		return true
	case []any:
		for _, e := range list {
			if _, ok := e.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}
