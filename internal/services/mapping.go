package services

import (
	"upcache/internal/models"
	"upcache/internal/upbank"
)

// The API serialises attributes in camelCase while the cache stores
// snake_case documents. These converters carry every wire value across
// verbatim; nothing is re-derived.

func moneyFromAPI(m upbank.MoneyObject) models.MoneyObject {
	return models.MoneyObject{
		CurrencyCode:     m.CurrencyCode,
		Value:            m.Value,
		ValueInBaseUnits: m.ValueInBaseUnits,
	}
}

func moneyPtrFromAPI(m *upbank.MoneyObject) *models.MoneyObject {
	if m == nil {
		return nil
	}
	mapped := moneyFromAPI(*m)
	return &mapped
}

func holdInfoFromAPI(h *upbank.HoldInfo) *models.HoldInfo {
	if h == nil {
		return nil
	}
	return &models.HoldInfo{
		Amount:        moneyFromAPI(h.Amount),
		ForeignAmount: moneyPtrFromAPI(h.ForeignAmount),
	}
}

func roundUpFromAPI(r *upbank.RoundUp) *models.RoundUp {
	if r == nil {
		return nil
	}
	return &models.RoundUp{
		Amount:       moneyFromAPI(r.Amount),
		BoostPortion: moneyPtrFromAPI(r.BoostPortion),
	}
}

func cashbackFromAPI(c *upbank.Cashback) *models.Cashback {
	if c == nil {
		return nil
	}
	return &models.Cashback{
		Description: c.Description,
		Amount:      moneyFromAPI(c.Amount),
	}
}

func cardPurchaseMethodFromAPI(c *upbank.CardPurchaseMethod) *models.CardPurchaseMethod {
	if c == nil {
		return nil
	}
	return &models.CardPurchaseMethod{
		Method:           c.Method,
		CardNumberSuffix: c.CardNumberSuffix,
	}
}
