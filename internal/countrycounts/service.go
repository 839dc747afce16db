package countrycounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wfjournal/wfj-backend/pkg/db/models"
	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
	"gorm.io/gorm"
)

// CountryCountDTO is the wire shape for one aggregate row.
type CountryCountDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	CntryCd   string    `json:"cntryCd"`
	Restr     int       `json:"restr"`
	Hm        int       `json:"hm"`
	Other     int       `json:"other"`
	Wishlist  int       `json:"wishlist"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromModel converts a persisted counter row into its wire shape.
func FromModel(row *models.CountryCount) *CountryCountDTO {
	if row == nil {
		return nil
	}
	return &CountryCountDTO{
		ID:        row.ID,
		UserID:    row.UserID,
		CntryCd:   row.CntryCd,
		Restr:     row.Restr,
		Hm:        row.Hm,
		Other:     row.Other,
		Wishlist:  row.Wishlist,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// Service exposes the read surface over aggregate counter rows. Writes go
// exclusively through the meal coordinator.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]CountryCountDTO, error)
	Get(ctx context.Context, userID uuid.UUID, cntryCd string) (*CountryCountDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds the country-count read service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("country count repository is required")
	}
	return &service{repo: repo}, nil
}

// List returns all counter rows for the user (at most one per country).
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]CountryCountDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list country counts")
	}
	dtos := make([]CountryCountDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

// Get returns the counter row for one country, 404 when absent.
func (s *service) Get(ctx context.Context, userID uuid.UUID, cntryCd string) (*CountryCountDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	code := strings.TrimSpace(cntryCd)
	if code == "" || len(code) > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cntryCd must be between 1 and 5 characters").
			WithDetails(map[string]string{"cntryCd": "must be between 1 and 5 characters"})
	}
	row, err := s.repo.FindByUserAndCountry(ctx, userID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no counts recorded for country %q", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load country count")
	}
	return FromModel(row), nil
}
