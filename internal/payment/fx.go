package payment

import (
	"go.uber.org/fx"

	"github.com/brandloom/brandloom/internal/payment/domain"
	"github.com/brandloom/brandloom/internal/payment/paystack"
	"github.com/brandloom/brandloom/internal/payment/service"
)

var Module = fx.Module("payment",
	fx.Provide(func(gateway *paystack.Gateway) domain.Gateway { return gateway }),
	fx.Provide(paystack.New),
	fx.Provide(service.New),
)
