package catalog

import (
	"github.com/brandloom/brandloom/internal/catalog/repository"
	"github.com/brandloom/brandloom/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
