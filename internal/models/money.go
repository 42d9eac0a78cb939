package models

// MoneyObject represents an amount of money as returned by the Up API.
// Value is the human-readable rendering of ValueInBaseUnits under
// CurrencyCode; both are stored exactly as the API returned them and are
// never re-derived locally.
type MoneyObject struct {
	// ISO 4217 currency code.
	CurrencyCode string `json:"currency_code"`
	// Display value, e.g. "-12.50".
	Value string `json:"value"`
	// Amount in the smallest unit of the currency, e.g. cents for AUD.
	ValueInBaseUnits int64 `json:"value_in_base_units"`
}

// HoldInfo carries the amounts a transaction was held at. Present only if the
// transaction is, or ever was, in the HELD status.
type HoldInfo struct {
	Amount        MoneyObject  `json:"amount"`
	ForeignAmount *MoneyObject `json:"foreign_amount,omitempty"`
}

// RoundUp describes how a transaction was rounded up, if at all.
type RoundUp struct {
	Amount       MoneyObject  `json:"amount"`
	BoostPortion *MoneyObject `json:"boost_portion,omitempty"`
}

// Cashback describes an instant reimbursement applied to a transaction.
type Cashback struct {
	Description string      `json:"description"`
	Amount      MoneyObject `json:"amount"`
}

// CardPurchaseMethod describes the card interaction for a purchase.
type CardPurchaseMethod struct {
	Method           string  `json:"method"`
	CardNumberSuffix *string `json:"card_number_suffix,omitempty"`
}
