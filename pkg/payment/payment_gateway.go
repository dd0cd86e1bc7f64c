package payment

import (
	"context"
	"fmt"
	"os"

	"foodify/domain"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

type (
	// PaymentGateway abstracts the payment provider so checkout logic can be
	// exercised against a fake in tests. Intent identifiers double as the
	// provider-side order id.
	PaymentGateway interface {
		// CreateIntent registers a pending payment for the given amount and
		// returns the intent id plus a hosted invoice URL for the customer.
		CreateIntent(ctx context.Context, amount float64, email string) (*domain.PaymentIntent, error)

		// ConfirmIntent asks the provider for the final verdict on an intent.
		// It reports true only when the provider has settled the payment.
		ConfirmIntent(ctx context.Context, intentID string) (bool, error)
	}

	midtransGateway struct {
		snapClient snap.Client
		coreClient coreapi.Client
	}
)

func NewMidtransGateway() PaymentGateway {
	serverKey := os.Getenv("SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("IS_PROD") == "true" {
		env = midtrans.Production
	}

	gateway := &midtransGateway{}
	gateway.snapClient.New(serverKey, env)
	gateway.coreClient.New(serverKey, env)
	return gateway
}

func (g *midtransGateway) CreateIntent(ctx context.Context, amount float64, email string) (*domain.PaymentIntent, error) {
	intentID := fmt.Sprintf("FOODIFY-%s", uuid.New().String())

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  intentID,
			GrossAmt: int64(amount),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: email,
		},
	}

	resp, err := g.snapClient.CreateTransaction(req)
	if err != nil {
		return nil, err
	}

	return &domain.PaymentIntent{
		ID:         intentID,
		Token:      resp.Token,
		InvoiceURL: resp.RedirectURL,
		Amount:     amount,
	}, nil
}

func (g *midtransGateway) ConfirmIntent(ctx context.Context, intentID string) (bool, error) {
	status, err := g.coreClient.CheckTransaction(intentID)
	if err != nil {
		return false, err
	}

	switch status.TransactionStatus {
	case "settlement":
		return true, nil
	case "capture":
		return status.FraudStatus == "accept", nil
	default:
		return false, nil
	}
}
