package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"
)

// ===================================
// Payment simulation
// ===================================

type ProcessPaymentInput struct {
	Amount   actions.FlexString `json:"amount"`
	Currency string             `json:"currency"`
	Method   string             `json:"method"`
}

func ProcessPayment() actions.Action {
	return actions.New(ToolProcessPayment,
		"Process a payment with specified details.",
		[]actions.Param{
			{Name: "amount", Type: schema.Number, Desc: "The amount to be paid.", Required: true},
			{Name: "currency", Type: schema.String, Desc: "The currency in which the payment is made (e.g., 'USD', 'EUR', 'TZS').", Required: true},
			{Name: "method", Type: schema.String, Desc: "The payment method to use, e.g., 'credit card', 'bank transfer'.", Required: true},
		},
		func(_ context.Context, in ProcessPaymentInput) (any, error) {
			if in.Amount == "" {
				return nil, fmt.Errorf("amount is required")
			}
			return fmt.Sprintf("Payment of %s %s processed using %s.", in.Amount, in.Currency, in.Method), nil
		},
	)
}

type CheckPaymentStatusInput struct {
	TransactionID actions.FlexString `json:"transaction_id"`
}

func CheckPaymentStatus() actions.Action {
	return actions.New(ToolCheckPaymentStatus,
		"Check the status of a specific payment.",
		[]actions.Param{
			{Name: "transaction_id", Type: schema.String, Desc: "The transaction ID of the payment to check.", Required: true},
		},
		func(_ context.Context, in CheckPaymentStatusInput) (any, error) {
			if in.TransactionID == "" {
				return nil, fmt.Errorf("transaction_id is required")
			}
			return fmt.Sprintf("Payment status for transaction ID %s is: completed.", in.TransactionID), nil
		},
	)
}

var paymentInstructions = map[string]string{
	"credit card":   "Use your credit card number and CVV to complete the payment.",
	"bank transfer": "Transfer to our account at Bank XYZ, Account Number 123456789.",
	"mobile money":  "Send the amount via M-Pesa to Lipa Namba 555123 and share the confirmation code.",
}

type PaymentInstructionsInput struct {
	Method string `json:"method"`
}

func ProvidePaymentInstructions() actions.Action {
	return actions.New(ToolProvidePaymentInstructions,
		"Provide instructions for making a payment.",
		[]actions.Param{
			{Name: "method", Type: schema.String, Desc: "The method of payment, e.g., 'credit card', 'bank transfer', 'mobile money'.", Required: true},
		},
		func(_ context.Context, in PaymentInstructionsInput) (any, error) {
			if text, ok := paymentInstructions[strings.ToLower(strings.TrimSpace(in.Method))]; ok {
				return text, nil
			}
			return "No instructions available for this payment method.", nil
		},
	)
}
