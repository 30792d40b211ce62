package referral

import (
	"go.uber.org/fx"

	"github.com/brandloom/brandloom/internal/referral/repository"
	"github.com/brandloom/brandloom/internal/referral/service"
)

var Module = fx.Module("referral",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
