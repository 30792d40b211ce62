package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brandloom/brandloom/internal/organization/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("organization.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOrganizationRequest) (domain.Organization, error) {
	userID, err := parseID(req.UserID)
	if err != nil {
		return domain.Organization{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Organization{}, domain.ErrInvalidName
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Organization{}, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:                     s.genID.Generate(),
		UserID:                 userID,
		Name:                   name,
		Email:                  email,
		Address:                strings.TrimSpace(req.Address),
		Country:                strings.TrimSpace(req.Country),
		Industry:               strings.TrimSpace(req.Industry),
		RCNumber:               strings.TrimSpace(req.RCNumber),
		StaffSize:              strings.TrimSpace(req.StaffSize),
		Type:                   strings.TrimSpace(req.Type),
		LogoURL:                req.LogoURL,
		CertOfIncURL:           req.CertOfIncURL,
		MemOfAssocURL:          req.MemOfAssocURL,
		ProofOfAddressURL:      req.ProofOfAddressURL,
		CompanyStatusReportURL: req.CompanyStatusReportURL,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.repo.Insert(ctx, s.db, &org); err != nil {
		return domain.Organization{}, err
	}

	s.log.Info("organization created", zap.String("organization_id", org.ID.String()))
	return org, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Organization, error) {
	orgID, err := parseID(id)
	if err != nil {
		return domain.Organization{}, err
	}

	org, err := s.repo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return domain.Organization{}, err
	}
	if org == nil {
		return domain.Organization{}, domain.ErrNotFound
	}
	return *org, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Organization, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	orgs := make([]domain.Organization, 0, len(items))
	for _, item := range items {
		orgs = append(orgs, *item)
	}
	return orgs, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateOrganizationRequest) (domain.Organization, error) {
	orgID, err := parseID(req.ID)
	if err != nil {
		return domain.Organization{}, err
	}

	org, err := s.repo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return domain.Organization{}, err
	}
	if org == nil {
		return domain.Organization{}, domain.ErrNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		org.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		if !strings.Contains(email, "@") {
			return domain.Organization{}, domain.ErrInvalidEmail
		}
		org.Email = email
	}
	if address := strings.TrimSpace(req.Address); address != "" {
		org.Address = address
	}
	if country := strings.TrimSpace(req.Country); country != "" {
		org.Country = country
	}
	if industry := strings.TrimSpace(req.Industry); industry != "" {
		org.Industry = industry
	}
	if rc := strings.TrimSpace(req.RCNumber); rc != "" {
		org.RCNumber = rc
	}
	if size := strings.TrimSpace(req.StaffSize); size != "" {
		org.StaffSize = size
	}
	if typ := strings.TrimSpace(req.Type); typ != "" {
		org.Type = typ
	}
	if req.LogoURL != "" {
		org.LogoURL = req.LogoURL
	}
	org.UpdatedAt = time.Now().UTC()
	org.Contacts = nil

	if err := s.repo.Update(ctx, s.db, org); err != nil {
		return domain.Organization{}, err
	}
	return *org, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orgID, err := parseID(id)
	if err != nil {
		return err
	}

	org, err := s.repo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return err
	}
	if org == nil {
		return domain.ErrNotFound
	}

	return s.repo.SoftDelete(ctx, s.db, orgID)
}

func (s *Service) CreateContact(ctx context.Context, req domain.CreateContactRequest) (domain.Contact, error) {
	orgID, err := parseID(req.OrganizationID)
	if err != nil {
		return domain.Contact{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Contact{}, domain.ErrInvalidName
	}

	org, err := s.repo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return domain.Contact{}, err
	}
	if org == nil {
		return domain.Contact{}, domain.ErrNotFound
	}

	idURLs, err := marshalIDURLs(req.IDURLs)
	if err != nil {
		return domain.Contact{}, err
	}

	now := time.Now().UTC()
	contact := domain.Contact{
		ID:             s.genID.Generate(),
		OrganizationID: orgID,
		Name:           name,
		PfpURL:         req.PfpURL,
		IDURLs:         idURLs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.InsertContact(ctx, s.db, &contact); err != nil {
		return domain.Contact{}, err
	}
	return contact, nil
}

func (s *Service) GetContact(ctx context.Context, id string) (domain.Contact, error) {
	contactID, err := parseID(id)
	if err != nil {
		return domain.Contact{}, err
	}

	contact, err := s.repo.FindContactByID(ctx, s.db, contactID)
	if err != nil {
		return domain.Contact{}, err
	}
	if contact == nil {
		return domain.Contact{}, domain.ErrContactNotFound
	}
	return *contact, nil
}

func (s *Service) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	items, err := s.repo.FindAllContacts(ctx, s.db)
	if err != nil {
		return nil, err
	}

	contacts := make([]domain.Contact, 0, len(items))
	for _, item := range items {
		contacts = append(contacts, *item)
	}
	return contacts, nil
}

func (s *Service) UpdateContact(ctx context.Context, req domain.UpdateContactRequest) (domain.Contact, error) {
	contactID, err := parseID(req.ID)
	if err != nil {
		return domain.Contact{}, err
	}

	contact, err := s.repo.FindContactByID(ctx, s.db, contactID)
	if err != nil {
		return domain.Contact{}, err
	}
	if contact == nil {
		return domain.Contact{}, domain.ErrContactNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		contact.Name = name
	}
	if req.PfpURL != "" {
		contact.PfpURL = req.PfpURL
	}
	if len(req.IDURLs) > 0 {
		idURLs, err := marshalIDURLs(req.IDURLs)
		if err != nil {
			return domain.Contact{}, err
		}
		contact.IDURLs = idURLs
	}
	contact.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateContact(ctx, s.db, contact); err != nil {
		return domain.Contact{}, err
	}
	return *contact, nil
}

func (s *Service) DeleteContact(ctx context.Context, id string) error {
	contactID, err := parseID(id)
	if err != nil {
		return err
	}

	contact, err := s.repo.FindContactByID(ctx, s.db, contactID)
	if err != nil {
		return err
	}
	if contact == nil {
		return domain.ErrContactNotFound
	}

	return s.repo.SoftDeleteContact(ctx, s.db, contactID)
}

func marshalIDURLs(urls []string) (datatypes.JSON, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(urls)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
