package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type OvertimeHandler interface {
	// Slips
	CreateSlip(w http.ResponseWriter, r *http.Request)
	GetSlip(w http.ResponseWriter, r *http.Request)
	ListSlips(w http.ResponseWriter, r *http.Request)
	UpdateSlip(w http.ResponseWriter, r *http.Request)
	DeleteSlip(w http.ResponseWriter, r *http.Request)

	// Pipeline stages
	GetFrequencyAndDates(w http.ResponseWriter, r *http.Request)
	FetchOvertime(w http.ResponseWriter, r *http.Request)
	SubmitSlip(w http.ResponseWriter, r *http.Request)
	CancelSlip(w http.ResponseWriter, r *http.Request)
	ListAdditionalSalaries(w http.ResponseWriter, r *http.Request)

	// Batch
	FilterEligibleEmployees(w http.ResponseWriter, r *http.Request)
	BatchCreate(w http.ResponseWriter, r *http.Request)
	BatchSubmit(w http.ResponseWriter, r *http.Request)

	// Types
	ListTypes(w http.ResponseWriter, r *http.Request)
	GetType(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.Service
}

func NewOvertimeHandler(overtimeService overtime.Service) OvertimeHandler {
	return &overtimeHandlerImpl{overtimeService: overtimeService}
}

// slipIDParam reads the {id} path parameter, answering 400 when it is not a UUID.
func slipIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid overtime slip ID", nil)
		return "", false
	}
	return id, true
}

// ========== SLIPS ==========

func (h *overtimeHandlerImpl) CreateSlip(w http.ResponseWriter, r *http.Request) {
	var req overtime.CreateSlipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.overtimeService.CreateSlip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime slip created", result)
}

func (h *overtimeHandlerImpl) GetSlip(w http.ResponseWriter, r *http.Request) {
	id, ok := slipIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.overtimeService.GetSlip(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) ListSlips(w http.ResponseWriter, r *http.Request) {
	filter := overtime.SlipFilter{
		Page:  1,
		Limit: 20,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if docStatusStr := r.URL.Query().Get("docstatus"); docStatusStr != "" {
		if docStatus, err := strconv.Atoi(docStatusStr); err == nil {
			filter.DocStatus = &docStatus
		}
	}
	if fromDate := r.URL.Query().Get("from_date"); fromDate != "" {
		filter.FromDate = &fromDate
	}
	if toDate := r.URL.Query().Get("to_date"); toDate != "" {
		filter.ToDate = &toDate
	}

	result, err := h.overtimeService.ListSlips(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := 0
	if result.Limit > 0 {
		totalPages = int((result.TotalCount + int64(result.Limit) - 1) / int64(result.Limit))
	}
	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}

func (h *overtimeHandlerImpl) UpdateSlip(w http.ResponseWriter, r *http.Request) {
	id, ok := slipIDParam(w, r)
	if !ok {
		return
	}

	var req overtime.UpdateSlipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.overtimeService.UpdateSlip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) DeleteSlip(w http.ResponseWriter, r *http.Request) {
	id, ok := slipIDParam(w, r)
	if !ok {
		return
	}

	if err := h.overtimeService.DeleteSlip(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime slip deleted successfully", nil)
}

// ========== PIPELINE ==========

func (h *overtimeHandlerImpl) GetFrequencyAndDates(w http.ResponseWriter, r *http.Request) {
	var req overtime.FrequencyAndDatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.overtimeService.GetFrequencyAndDates(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) FetchOvertime(w http.ResponseWriter, r *http.Request) {
	id, ok := slipIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.overtimeService.GetEmpAndOvertimeDetails(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) SubmitSlip(w http.ResponseWriter, r *http.Request) {
	id, ok := slipIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.overtimeService.SubmitSlip(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime slip submitted", result)
}

func (h *overtimeHandlerImpl) CancelSlip(w http.ResponseWriter, r *http.Request) {
	id, ok := slipIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.overtimeService.CancelSlip(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime slip cancelled", result)
}

func (h *overtimeHandlerImpl) ListAdditionalSalaries(w http.ResponseWriter, r *http.Request) {
	id, ok := slipIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.overtimeService.ListAdditionalSalaries(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== BATCH ==========

func (h *overtimeHandlerImpl) FilterEligibleEmployees(w http.ResponseWriter, r *http.Request) {
	var req overtime.EligibleEmployeesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.overtimeService.FilterEmployeesForOvertimeSlipCreation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string][]string{"employee_ids": result})
}

func (h *overtimeHandlerImpl) BatchCreate(w http.ResponseWriter, r *http.Request) {
	var req overtime.BatchCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.overtimeService.CreateOvertimeSlipsForEmployees(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) BatchSubmit(w http.ResponseWriter, r *http.Request) {
	var req overtime.BatchSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.overtimeService.SubmitOvertimeSlipsForEmployees(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== TYPES ==========

func (h *overtimeHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	result, err := h.overtimeService.ListTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) GetType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid overtime type ID", nil)
		return
	}

	result, err := h.overtimeService.GetType(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
