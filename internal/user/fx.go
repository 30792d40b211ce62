package user

import (
	"github.com/brandloom/brandloom/internal/user/repository"
	"github.com/brandloom/brandloom/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
