package invoice

import (
	"github.com/brandloom/brandloom/internal/invoice/repository"
	"github.com/brandloom/brandloom/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
