package conversation

import (
	"go.uber.org/fx"

	"github.com/brandloom/brandloom/internal/conversation/repository"
	"github.com/brandloom/brandloom/internal/conversation/service"
	"github.com/brandloom/brandloom/internal/conversation/ws"
)

var Module = fx.Module("conversation",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(ws.NewHub),
)
