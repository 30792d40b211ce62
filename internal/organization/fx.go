package organization

import (
	"go.uber.org/fx"

	"github.com/brandloom/brandloom/internal/organization/repository"
	"github.com/brandloom/brandloom/internal/organization/service"
)

var Module = fx.Module("organization",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
