package intake

// DepositRequest is the request body for POST /deposits. Amount is in main
// currency units.
type DepositRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Mode          string  `json:"mode" validate:"required,oneof=wallet package"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,oneof=external walletBalance"`
	TxRef         string  `json:"txRef" validate:"required_if=PaymentMethod external"`
}

// WithdrawRequest is the request body for POST /withdrawals. Amount is the
// net payout; fees are deducted upstream.
type WithdrawRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
