package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/service"
	"github.com/aussiebroadwan/petget/pkg/authsdk"
)

const dateLayout = time.DateOnly

func customerFromRequest(id string, req authsdk.CustomerRequest) domain.Customer {
	c := domain.Customer{
		ID:         id,
		Name:       req.Name,
		Document:   req.Document,
		Email:      req.Email,
		Phone:      req.Phone,
		Mobile:     req.Mobile,
		Address:    req.Address,
		District:   req.District,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Notes:      req.Notes,
		Active:     true,
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	return c
}

func customerResponse(c domain.Customer) authsdk.CustomerResponse {
	return authsdk.CustomerResponse{
		ID:         c.ID,
		TenantID:   c.TenantID,
		Name:       c.Name,
		Document:   c.Document,
		Email:      c.Email,
		Phone:      c.Phone,
		Mobile:     c.Mobile,
		Address:    c.Address,
		District:   c.District,
		City:       c.City,
		State:      c.State,
		PostalCode: c.PostalCode,
		Notes:      c.Notes,
		Active:     c.Active,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func customerResponses(cs []domain.Customer) []authsdk.CustomerResponse {
	out := make([]authsdk.CustomerResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, customerResponse(c))
	}
	return out
}

// petFromRequest converts req. Species and sex are validated by the service;
// only the date format is checked here.
func petFromRequest(id string, req authsdk.PetRequest) (domain.Pet, error) {
	p := domain.Pet{
		ID:         id,
		CustomerID: strings.TrimSpace(req.CustomerID),
		Name:       req.Name,
		Species:    domain.Species(req.Species),
		Breed:      req.Breed,
		Sex:        domain.Sex(req.Sex),
		WeightKg:   req.WeightKg,
		Color:      req.Color,
		Microchip:  req.Microchip,
		Pedigree:   req.Pedigree,
		Notes:      req.Notes,
		Active:     true,
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if req.BirthDate != "" {
		d, err := time.Parse(dateLayout, req.BirthDate)
		if err != nil {
			return domain.Pet{}, fmt.Errorf("%w: birthDate must be YYYY-MM-DD", service.ErrInvalidInput)
		}
		p.BirthDate = &d
	}
	return p, nil
}

func petResponse(p domain.Pet) authsdk.PetResponse {
	out := authsdk.PetResponse{
		ID:         p.ID,
		TenantID:   p.TenantID,
		CustomerID: p.CustomerID,
		Name:       p.Name,
		Species:    string(p.Species),
		Breed:      p.Breed,
		Sex:        string(p.Sex),
		WeightKg:   p.WeightKg,
		Color:      p.Color,
		Microchip:  p.Microchip,
		Pedigree:   p.Pedigree,
		Notes:      p.Notes,
		Active:     p.Active,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.BirthDate != nil {
		out.BirthDate = p.BirthDate.Format(dateLayout)
	}
	return out
}

func petResponses(ps []domain.Pet) []authsdk.PetResponse {
	out := make([]authsdk.PetResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, petResponse(p))
	}
	return out
}

func userSummary(p domain.PrincipalSummary) authsdk.UserSummary {
	return authsdk.UserSummary{
		ID:          p.ID,
		Name:        p.Name,
		Identity:    p.Identity,
		Role:        string(p.Role),
		TenantID:    p.TenantID,
		CompanyName: p.CompanyName,
		LastLogin:   p.LastLogin,
	}
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
