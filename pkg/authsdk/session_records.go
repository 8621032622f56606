package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListCustomers lists the customers of the session's tenant.
func (s *Session) ListCustomers(ctx context.Context, opts CustomerListOptions) (*CustomerListResponse, error) {
	q := url.Values{}
	if opts.Name != "" {
		q.Set("name", opts.Name)
	}
	if opts.ActiveOnly {
		q.Set("active", "true")
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}

	path := "/v1/customers"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out CustomerListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) GetCustomer(ctx context.Context, id string) (*CustomerResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var out CustomerResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCustomer registers a customer in the session's tenant.
func (s *Session) CreateCustomer(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/customers", body)
	if err != nil {
		return nil, err
	}

	var out CustomerResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateCustomer(ctx context.Context, id string, req CustomerRequest) (*CustomerResponse, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/v1/customers/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}

	var out CustomerResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCustomer removes a customer and all of its pets.
func (s *Session) DeleteCustomer(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/customers/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// CustomerOverview returns a customer together with its pets.
func (s *Session) CustomerOverview(ctx context.Context, id string) (*CustomerOverviewResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(id)+"/overview", nil)
	if err != nil {
		return nil, err
	}

	var out CustomerOverviewResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListPets(ctx context.Context, customerID string) (*PetListResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(customerID)+"/pets", nil)
	if err != nil {
		return nil, err
	}

	var out PetListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePet registers a pet for req.CustomerID.
func (s *Session) CreatePet(ctx context.Context, req PetRequest) (*PetResponse, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/pets", body)
	if err != nil {
		return nil, err
	}

	var out PetResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) GetPet(ctx context.Context, id string) (*PetResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/pets/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var out PetResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeletePet(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/pets/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) UpdatePet(ctx context.Context, id string, req PetRequest) (*PetResponse, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/v1/pets/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}

	var out PetResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
