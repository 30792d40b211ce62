package milestone

import (
	"go.uber.org/fx"

	"github.com/brandloom/brandloom/internal/milestone/repository"
	"github.com/brandloom/brandloom/internal/milestone/service"
)

var Module = fx.Module("milestone",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
