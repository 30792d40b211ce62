package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, org *Organization) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Organization, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*Organization, error)
	Update(ctx context.Context, db *gorm.DB, org *Organization) error
	SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertContact(ctx context.Context, db *gorm.DB, contact *Contact) error
	FindContactByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Contact, error)
	FindAllContacts(ctx context.Context, db *gorm.DB) ([]*Contact, error)
	UpdateContact(ctx context.Context, db *gorm.DB, contact *Contact) error
	SoftDeleteContact(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
