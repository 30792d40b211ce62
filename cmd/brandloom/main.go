package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/brandloom/brandloom/internal/auth"
	"github.com/brandloom/brandloom/internal/catalog"
	"github.com/brandloom/brandloom/internal/config"
	"github.com/brandloom/brandloom/internal/conversation"
	"github.com/brandloom/brandloom/internal/invoice"
	"github.com/brandloom/brandloom/internal/locking"
	"github.com/brandloom/brandloom/internal/migration"
	"github.com/brandloom/brandloom/internal/milestone"
	"github.com/brandloom/brandloom/internal/observability"
	"github.com/brandloom/brandloom/internal/organization"
	"github.com/brandloom/brandloom/internal/payment"
	"github.com/brandloom/brandloom/internal/providers/email"
	"github.com/brandloom/brandloom/internal/providers/storage"
	"github.com/brandloom/brandloom/internal/referral"
	"github.com/brandloom/brandloom/internal/server"
	"github.com/brandloom/brandloom/internal/servicerequest"
	"github.com/brandloom/brandloom/internal/user"
	"github.com/brandloom/brandloom/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		auth.Module,
		locking.Module,
		migration.Module,

		user.Module,
		organization.Module,
		catalog.Module,
		servicerequest.Module,
		milestone.Module,
		invoice.Module,
		referral.Module,
		payment.Module,
		conversation.Module,

		email.Module,
		storage.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
