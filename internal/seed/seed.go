package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	catalogdomain "github.com/brandloom/brandloom/internal/catalog/domain"
	userdomain "github.com/brandloom/brandloom/internal/user/domain"
)

const (
	defaultAdminName     = "Admin"
	defaultAdminEmail    = "admin@brandloom.io"
	defaultAdminPassword = "password123"
)

// EnsureAdmin seeds the default admin account for startup bootstrap. It is a
// no-op when the account already exists.
func EnsureAdmin(db *gorm.DB, node *snowflake.Node) (userdomain.User, error) {
	if db == nil {
		return userdomain.User{}, errors.New("seed database handle is required")
	}

	ctx := context.Background()

	var admin userdomain.User
	err := db.WithContext(ctx).Where("email = ?", defaultAdminEmail).First(&admin).Error
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return userdomain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return userdomain.User{}, err
	}

	admin = userdomain.User{
		ID:       node.Generate(),
		Name:     defaultAdminName,
		Email:    defaultAdminEmail,
		Role:     userdomain.RoleAdmin,
		Password: string(hash),
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return userdomain.User{}, err
	}
	return admin, nil
}

// EnsureCatalog seeds a starter service catalog owned by the admin account.
// It only runs against an empty catalog so operator edits are never clobbered.
func EnsureCatalog(db *gorm.DB, node *snowflake.Node, adminID snowflake.ID) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()

	var count int64
	if err := db.WithContext(ctx).Model(&catalogdomain.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, seed := range starterCatalog {
			service := catalogdomain.Service{
				ID:            node.Generate(),
				AdminID:       adminID,
				Title:         seed.title,
				HeroParagraph: seed.heroParagraph,
			}
			for _, plan := range seed.plans {
				service.Plans = append(service.Plans, catalogdomain.Plan{
					ID:          node.Generate(),
					ServiceID:   service.ID,
					Name:        plan.name,
					Price:       plan.price,
					Description: plan.description,
				})
			}
			if err := tx.Create(&service).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type catalogSeed struct {
	title         string
	heroParagraph string
	plans         []planSeed
}

type planSeed struct {
	name        string
	price       float64
	description string
}

var starterCatalog = []catalogSeed{
	{
		title:         "Digital Marketing Audit",
		heroParagraph: "Our comprehensive audit analyzes every channel of your digital presence to create a data-driven roadmap for success.",
		plans: []planSeed{
			{name: "Complete Digital Audit", price: 150000, description: "Website, SEO, social, paid ads and analytics review with competitor benchmarking."},
		},
	},
	{
		title:         "Digital Marketing Strategy",
		heroParagraph: "A bespoke digital marketing strategy that aligns your brand, budget and business goals for maximum impact.",
		plans: []planSeed{
			{name: "Custom Growth Strategy", price: 200000, description: "Market research, competitive analysis and a 3-12 month execution roadmap."},
		},
	},
	{
		title:         "Full Graphics Design Suite",
		heroParagraph: "From a memorable brand identity to stunning marketing materials, everything you need to make a powerful visual impact.",
		plans: []planSeed{
			{name: "Brand Identity Package", price: 120000, description: "Logo, brand guidelines and core stationery design."},
			{name: "Marketing Collateral Package", price: 180000, description: "Digital and print assets designed to your brand guidelines."},
		},
	},
}
