package http

import (
	"net/http"

	"github.com/aussiebroadwan/petget/internal/petget/service"
	"github.com/aussiebroadwan/petget/pkg/authsdk"
	"github.com/aussiebroadwan/petget/pkg/httpx"
)

type PetsHandler struct {
	Pets *service.PetService
}

// HandleCreate godoc
//
//	@Summary		Create a pet
//	@Description	Registers a pet for a customer of the current tenant.
//	@Tags			Pets
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Tenant-ID	header		string				true	"Tenant"
//	@Param			request		body		authsdk.PetRequest	true	"Pet"
//	@Success		201			{object}	authsdk.PetResponse
//	@Failure		400			{object}	authsdk.ErrorResponse	"Unknown species or sex, bad date"
//	@Failure		404			{object}	authsdk.ErrorResponse	"Owner customer not found in tenant"
//	@Router			/v1/pets [post].
func (h *PetsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.PetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, "request body must be a pet JSON object")
		return
	}

	p, err := petFromRequest("", req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.Pets.Create(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, petResponse(created))
}

// HandleGet godoc
//
//	@Summary	Get a pet
//	@Tags		Pets
//	@Produce	json
//	@Security	BearerAuth
//	@Param		X-Tenant-ID	header		string	true	"Tenant"
//	@Param		id			path		string	true	"Pet ID"
//	@Success	200			{object}	authsdk.PetResponse
//	@Failure	404			{object}	authsdk.ErrorResponse
//	@Router		/v1/pets/{id} [get].
func (h *PetsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Pets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, petResponse(p))
}

// HandleUpdate godoc
//
//	@Summary		Update a pet
//	@Description	Updates a pet. customerId may be omitted but cannot change.
//	@Tags			Pets
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Tenant-ID	header		string				true	"Tenant"
//	@Param			id			path		string				true	"Pet ID"
//	@Param			request		body		authsdk.PetRequest	true	"Pet"
//	@Success		200			{object}	authsdk.PetResponse
//	@Failure		400			{object}	authsdk.ErrorResponse
//	@Failure		404			{object}	authsdk.ErrorResponse
//	@Router			/v1/pets/{id} [put].
func (h *PetsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.PetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, "request body must be a pet JSON object")
		return
	}

	p, err := petFromRequest(r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.Pets.Update(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, petResponse(updated))
}

// HandleDelete godoc
//
//	@Summary	Delete a pet
//	@Tags		Pets
//	@Security	BearerAuth
//	@Param		X-Tenant-ID	header	string	true	"Tenant"
//	@Param		id			path	string	true	"Pet ID"
//	@Success	204
//	@Failure	404	{object}	authsdk.ErrorResponse
//	@Router		/v1/pets/{id} [delete].
func (h *PetsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Pets.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
