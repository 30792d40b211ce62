package servicerequest

import (
	"go.uber.org/fx"

	"github.com/brandloom/brandloom/internal/servicerequest/repository"
	"github.com/brandloom/brandloom/internal/servicerequest/service"
)

var Module = fx.Module("servicerequest",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
