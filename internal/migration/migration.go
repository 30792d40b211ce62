package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	catalogdomain "github.com/brandloom/brandloom/internal/catalog/domain"
	conversationdomain "github.com/brandloom/brandloom/internal/conversation/domain"
	invoicedomain "github.com/brandloom/brandloom/internal/invoice/domain"
	milestonedomain "github.com/brandloom/brandloom/internal/milestone/domain"
	organizationdomain "github.com/brandloom/brandloom/internal/organization/domain"
	referraldomain "github.com/brandloom/brandloom/internal/referral/domain"
	requestdomain "github.com/brandloom/brandloom/internal/servicerequest/domain"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

// RunMigrations applies the embedded SQL migrations so the platform is usable
// out of the box: all tables plus the partial unique index that guarantees a
// referred email is completed at most once.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate is the fallback for non-postgres databases, where the SQL
// migration set does not apply. The partial unique index on completed
// referrals is postgres-only; elsewhere the pre-insert check is the only
// duplicate guard.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&userdomain.User{},
		&organizationdomain.Organization{},
		&organizationdomain.Contact{},
		&catalogdomain.Service{},
		&catalogdomain.Plan{},
		&catalogdomain.FAQ{},
		&requestdomain.ServiceRequest{},
		&milestonedomain.Milestone{},
		&invoicedomain.Invoice{},
		&referraldomain.Referral{},
		&conversationdomain.Conversation{},
		&conversationdomain.Message{},
	)
}
