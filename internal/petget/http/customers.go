package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/service"
	"github.com/aussiebroadwan/petget/pkg/authsdk"
	"github.com/aussiebroadwan/petget/pkg/httpx"
)

// CustomersHandler serves /v1/customers. Every route runs behind
// RequireTenant, so the service always sees a tenant.
type CustomersHandler struct {
	Customers *service.CustomerService
	Pets      *service.PetService
}

// HandleList godoc
//
//	@Summary		List customers
//	@Description	Lists the customers of the current tenant ordered by name.
//	@Tags			Customers
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Tenant-ID	header		string	true	"Tenant"
//	@Param			name		query		string	false	"Case-insensitive name filter"
//	@Param			active		query		bool	false	"Only active customers"
//	@Param			limit		query		int		false	"Page size (default 50, max 200)"
//	@Param			offset		query		int		false	"Page offset"
//	@Success		200			{object}	authsdk.CustomerListResponse
//	@Failure		400			{object}	authsdk.ErrorResponse
//	@Failure		401			{object}	authsdk.ErrorResponse
//	@Failure		403			{object}	authsdk.ErrorResponse
//	@Router			/v1/customers [get].
func (h *CustomersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := domain.CustomerFilter{Name: q.Get("name")}
	var err error
	if v := q.Get("active"); v != "" {
		if f.ActiveOnly, err = strconv.ParseBool(v); err != nil {
			badRequest(w, "active must be a boolean")
			return
		}
	}
	if v := q.Get("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil {
			badRequest(w, "limit must be an integer")
			return
		}
	}
	if v := q.Get("offset"); v != "" {
		if f.Offset, err = strconv.Atoi(v); err != nil {
			badRequest(w, "offset must be an integer")
			return
		}
	}

	f.Limit, f.Offset = service.ClampPage(f.Limit, f.Offset)

	customers, err := h.Customers.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.CustomerListResponse{
		Customers: customerResponses(customers),
		Limit:     f.Limit,
		Offset:    f.Offset,
	})
}

// HandleGet godoc
//
//	@Summary	Get a customer
//	@Tags		Customers
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Tenant-ID	header		string	true	"Tenant"
//	@Param		id			path		string	true	"Customer ID"
//	@Success	200			{object}	authsdk.CustomerResponse
//	@Failure	404			{object}	authsdk.ErrorResponse
//	@Router		/v1/customers/{id} [get].
func (h *CustomersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.Customers.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, customerResponse(c))
}

// HandleCreate godoc
//
//	@Summary		Create a customer
//	@Description	Registers an active customer in the current tenant. Email and document are unique per tenant.
//	@Tags			Customers
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Tenant-ID	header		string					true	"Tenant"
//	@Param			request		body		authsdk.CustomerRequest	true	"Customer"
//	@Success		201			{object}	authsdk.CustomerResponse
//	@Failure		400			{object}	authsdk.ErrorResponse
//	@Failure		409			{object}	authsdk.ErrorResponse	"Email or document already registered"
//	@Router			/v1/customers [post].
func (h *CustomersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, "request body must be a customer JSON object")
		return
	}

	c, err := h.Customers.Create(r.Context(), customerFromRequest("", req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, customerResponse(c))
}

// HandleUpdate godoc
//
//	@Summary	Update a customer
//	@Tags		Customers
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Tenant-ID	header		string					true	"Tenant"
//	@Param		id			path		string					true	"Customer ID"
//	@Param		request		body		authsdk.CustomerRequest	true	"Customer"
//	@Success	200			{object}	authsdk.CustomerResponse
//	@Failure	400			{object}	authsdk.ErrorResponse
//	@Failure	403			{object}	authsdk.ErrorResponse	"security_violation"
//	@Failure	404			{object}	authsdk.ErrorResponse
//	@Failure	409			{object}	authsdk.ErrorResponse
//	@Router		/v1/customers/{id} [put].
func (h *CustomersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.CustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, "request body must be a customer JSON object")
		return
	}

	c, err := h.Customers.Update(r.Context(), customerFromRequest(r.PathValue("id"), req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, customerResponse(c))
}

// HandleDelete godoc
//
//	@Summary		Delete a customer
//	@Description	Deletes a customer together with its pets.
//	@Tags			Customers
//	@Security		BearerAuth
//	@Param			X-Tenant-ID	header	string	true	"Tenant"
//	@Param			id			path	string	true	"Customer ID"
//	@Success		204
//	@Failure		404	{object}	authsdk.ErrorResponse
//	@Router			/v1/customers/{id} [delete].
func (h *CustomersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Customers.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleOverview godoc
//
//	@Summary	Customer with pets
//	@Tags		Customers
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Tenant-ID	header		string	true	"Tenant"
//	@Param		id			path		string	true	"Customer ID"
//	@Success	200			{object}	authsdk.CustomerOverviewResponse
//	@Failure	404			{object}	authsdk.ErrorResponse
//	@Router		/v1/customers/{id}/overview [get].
func (h *CustomersHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.Customers.Overview(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.CustomerOverviewResponse{
		Customer: customerResponse(ov.Customer),
		Pets:     petResponses(ov.Pets),
	})
}

// HandleListPets godoc
//
//	@Summary	List a customer's pets
//	@Tags		Pets
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Tenant-ID	header		string	true	"Tenant"
//	@Param		id			path		string	true	"Customer ID"
//	@Success	200			{object}	authsdk.PetListResponse
//	@Failure	404			{object}	authsdk.ErrorResponse
//	@Router		/v1/customers/{id}/pets [get].
func (h *CustomersHandler) HandleListPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.Pets.ListByCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.PetListResponse{Pets: petResponses(pets)})
}
