package payments

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// Checkout gera links de pagamento (Mercado Pago) para consultas
// particulares. Retornos e consultas de convênio nunca passam por aqui.
type Checkout struct {
	preferences preference.Client
}

func NewCheckout(accessToken string) (*Checkout, error) {
	if accessToken == "" {
		return nil, nil
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}

	return &Checkout{preferences: preference.NewClient(cfg)}, nil
}

// LinkFor cria uma preferência de pagamento para a consulta e devolve a URL
// de checkout.
func (c *Checkout) LinkFor(
	ctx context.Context,
	ap *models.Appointment,
	doctorName string,
	amount float64,
) (string, error) {

	resp, err := c.preferences.Create(ctx, preference.Request{
		ExternalReference: fmt.Sprintf("appointment-%d", ap.ID),
		Items: []preference.ItemRequest{
			{
				Title:       fmt.Sprintf("Consulta particular - %s", doctorName),
				Description: ap.Datetime.UTC().Format("02/01/2006 15:04"),
				Quantity:    1,
				UnitPrice:   amount,
			},
		},
	})
	if err != nil {
		return "", err
	}

	return resp.InitPoint, nil
}
