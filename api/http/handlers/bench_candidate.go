package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/consultancy/staffing/api/http/presenter"
	"github.com/consultancy/staffing/pkg/bench"
	"github.com/consultancy/staffing/pkg/candidate"
	"github.com/consultancy/staffing/pkg/storage/files"
)

// BenchCandidateHandler serves bench candidates and their document
// sub-resource.
type BenchCandidateHandler struct {
	useCase  bench.UseCase
	maxBytes int64
}

func NewBenchCandidateHandler(useCase bench.UseCase, maxBytes int64) *BenchCandidateHandler {
	return &BenchCandidateHandler{useCase: useCase, maxBytes: maxBytes}
}

type benchCandidateRequest struct {
	FullName             string   `json:"fullName"`
	VisaStatus           string   `json:"visaStatus"`
	City                 string   `json:"city"`
	State                string   `json:"state"`
	PrimarySkill         string   `json:"primarySkill"`
	ExperienceYears      int      `json:"experienceYears"`
	PhoneNumber          string   `json:"phoneNumber"`
	Email                string   `json:"email"`
	TargetRate           *float64 `json:"targetRate"`
	AssignedConsultantID *string  `json:"assignedConsultantId"`
	Notes                string   `json:"notes"`
}

func (req benchCandidateRequest) toEntity() (bench.BenchCandidate, error) {
	bc := bench.BenchCandidate{
		FullName:        req.FullName,
		VisaStatus:      candidate.VisaStatus(req.VisaStatus),
		City:            req.City,
		State:           req.State,
		PrimarySkill:    req.PrimarySkill,
		ExperienceYears: req.ExperienceYears,
		PhoneNumber:     req.PhoneNumber,
		Email:           req.Email,
		TargetRate:      req.TargetRate,
		Notes:           req.Notes,
	}
	if req.AssignedConsultantID != nil && strings.TrimSpace(*req.AssignedConsultantID) != "" {
		id, err := uuid.Parse(*req.AssignedConsultantID)
		if err != nil {
			return bench.BenchCandidate{}, errors.New("assignedConsultantId must be a UUID")
		}
		bc.AssignedConsultantID = &id
	}
	return bc, nil
}

type benchCandidateResponse struct {
	ID                     string    `json:"id"`
	FullName               string    `json:"fullName"`
	VisaStatus             string    `json:"visaStatus"`
	VisaStatusDisplay      string    `json:"visaStatusDisplay,omitempty"`
	City                   string    `json:"city"`
	State                  string    `json:"state"`
	PrimarySkill           string    `json:"primarySkill"`
	ExperienceYears        int       `json:"experienceYears"`
	PhoneNumber            string    `json:"phoneNumber,omitempty"`
	Email                  string    `json:"email,omitempty"`
	TargetRate             *float64  `json:"targetRate,omitempty"`
	AssignedConsultantID   *string   `json:"assignedConsultantId,omitempty"`
	AssignedConsultantName string    `json:"assignedConsultantName,omitempty"`
	Notes                  string    `json:"notes,omitempty"`
	ResumeFilename         string    `json:"resumeFilename,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
	CreatedByName          string    `json:"createdByName,omitempty"`
}

func toBenchCandidateResponse(bc bench.BenchCandidate) benchCandidateResponse {
	resp := benchCandidateResponse{
		ID:                     bc.ID.String(),
		FullName:               bc.FullName,
		VisaStatus:             string(bc.VisaStatus),
		VisaStatusDisplay:      bc.VisaStatus.DisplayName(),
		City:                   bc.City,
		State:                  bc.State,
		PrimarySkill:           bc.PrimarySkill,
		ExperienceYears:        bc.ExperienceYears,
		PhoneNumber:            bc.PhoneNumber,
		Email:                  bc.Email,
		TargetRate:             bc.TargetRate,
		AssignedConsultantName: bc.AssignedConsultantName,
		Notes:                  bc.Notes,
		ResumeFilename:         bc.ResumeFilename,
		CreatedAt:              bc.CreatedAt,
		UpdatedAt:              bc.UpdatedAt,
		CreatedByName:          bc.CreatedByName,
	}
	if bc.AssignedConsultantID != nil {
		s := bc.AssignedConsultantID.String()
		resp.AssignedConsultantID = &s
	}
	return resp
}

func toBenchCandidateResponses(bcs []bench.BenchCandidate) []benchCandidateResponse {
	out := make([]benchCandidateResponse, 0, len(bcs))
	for _, bc := range bcs {
		out = append(out, toBenchCandidateResponse(bc))
	}
	return out
}

type documentResponse struct {
	ID               string    `json:"id"`
	BenchCandidateID string    `json:"benchCandidateId"`
	OriginalFilename string    `json:"originalFilename"`
	FileSize         int64     `json:"fileSize"`
	ContentType      string    `json:"contentType,omitempty"`
	Type             string    `json:"documentType"`
	TypeDisplay      string    `json:"documentTypeDisplay,omitempty"`
	UploadedAt       time.Time `json:"uploadedAt"`
	UploadedByName   string    `json:"uploadedByName,omitempty"`
}

func toDocumentResponse(d bench.Document) documentResponse {
	return documentResponse{
		ID:               d.ID.String(),
		BenchCandidateID: d.BenchCandidateID.String(),
		OriginalFilename: d.OriginalFilename,
		FileSize:         d.FileSize,
		ContentType:      d.ContentType,
		Type:             string(d.Type),
		TypeDisplay:      d.Type.DisplayName(),
		UploadedAt:       d.UploadedAt,
		UploadedByName:   d.UploadedByName,
	}
}

func toDocumentResponses(ds []bench.Document) []documentResponse {
	out := make([]documentResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, toDocumentResponse(d))
	}
	return out
}

// parseBenchBody accepts plain JSON or a multipart form with the JSON under
// "data" and any number of files under "documents".
func (h *BenchCandidateHandler) parseBenchBody(c *fiber.Ctx) (bench.BenchCandidate, []candidate.Upload, error) {
	var req benchCandidateRequest
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		raw := c.FormValue("data")
		if raw == "" {
			return bench.BenchCandidate{}, nil, errors.New("multipart field 'data' is required")
		}
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return bench.BenchCandidate{}, nil, errors.New("invalid JSON in 'data' field")
		}
		ent, err := req.toEntity()
		if err != nil {
			return bench.BenchCandidate{}, nil, err
		}
		docs, err := formFiles(c, "documents", h.maxBytes)
		if err != nil {
			return bench.BenchCandidate{}, nil, err
		}
		return ent, docs, nil
	}
	if err := c.BodyParser(&req); err != nil {
		return bench.BenchCandidate{}, nil, errors.New("invalid JSON payload")
	}
	ent, err := req.toEntity()
	return ent, nil, err
}

// Create adds a bench candidate, optionally with initial documents.
// @Summary Create bench candidate
// @Tags    bench-candidates
// @Accept  json
// @Accept  multipart/form-data
// @Produce json
// @Param   input body benchCandidateRequest true "bench candidate payload"
// @Security BearerAuth
// @Success 201 {object} benchCandidateResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /bench-candidates [post]
func (h *BenchCandidateHandler) Create(c *fiber.Ctx) error {
	ent, docs, err := h.parseBenchBody(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	created, err := h.useCase.Create(c.Context(), ent, docs, currentUserID(c))
	if err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, toBenchCandidateResponse(created))
}

// Get returns one bench candidate.
// @Summary Get bench candidate
// @Tags    bench-candidates
// @Produce json
// @Param   id path string true "bench candidate id"
// @Security BearerAuth
// @Success 200 {object} benchCandidateResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /bench-candidates/{id} [get]
func (h *BenchCandidateHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid bench candidate id")
	}
	got, err := h.useCase.GetByID(c.Context(), id)
	if err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toBenchCandidateResponse(got))
}

// Update replaces a bench candidate's mutable fields; new documents may ride
// along in the same multipart form.
// @Summary Update bench candidate
// @Tags    bench-candidates
// @Accept  json
// @Accept  multipart/form-data
// @Produce json
// @Param   id path string true "bench candidate id"
// @Param   input body benchCandidateRequest true "bench candidate payload"
// @Security BearerAuth
// @Success 200 {object} benchCandidateResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /bench-candidates/{id} [put]
func (h *BenchCandidateHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid bench candidate id")
	}
	ent, docs, err := h.parseBenchBody(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	updated, err := h.useCase.Update(c.Context(), id, ent, docs)
	if err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toBenchCandidateResponse(updated))
}

// Delete removes a bench candidate, its document rows and backing files.
// @Summary Delete bench candidate
// @Tags    bench-candidates
// @Produce json
// @Param   id path string true "bench candidate id"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /bench-candidates/{id} [delete]
func (h *BenchCandidateHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid bench candidate id")
	}
	if err := h.useCase.Delete(c.Context(), id); err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "bench candidate deleted"})
}

// List returns a page of bench candidates.
// @Summary List bench candidates
// @Tags    bench-candidates
// @Produce json
// @Param   page query int false "zero-based page"
// @Param   size query int false "page size"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /bench-candidates [get]
func (h *BenchCandidateHandler) List(c *fiber.Ctx) error {
	p := parsePageParams(c)
	items, total, err := h.useCase.List(c.Context(), p.Limit(), p.Offset(), p.SortBy, p.SortDir)
	if err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toBenchCandidateResponses(items), p.Page, p.Size, total))
}

// Search filters bench candidates; all filters optional and conjunctive.
// @Summary Search bench candidates
// @Tags    bench-candidates
// @Produce json
// @Param   fullName query string false "name substring"
// @Param   visaStatus query string false "visa status tag"
// @Param   primarySkill query string false "skill substring"
// @Param   state query string false "state substring"
// @Param   assignedConsultantName query string false "consultant name substring"
// @Security BearerAuth
// @Success 200 {object} presenter.Page
// @Router  /bench-candidates/search [get]
func (h *BenchCandidateHandler) Search(c *fiber.Ctx) error {
	p := parsePageParams(c)
	f := bench.SearchFilter{
		FullName:               c.Query("fullName"),
		VisaStatus:             candidate.VisaStatus(c.Query("visaStatus")),
		PrimarySkill:           c.Query("primarySkill"),
		State:                  c.Query("state"),
		AssignedConsultantName: c.Query("assignedConsultantName"),
	}
	items, total, err := h.useCase.Search(c.Context(), f, p.Limit(), p.Offset())
	if err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusOK,
		presenter.NewPage(toBenchCandidateResponses(items), p.Page, p.Size, total))
}

// ByConsultant lists bench candidates assigned to one consultant.
// @Summary List bench candidates by consultant
// @Tags    bench-candidates
// @Produce json
// @Param   consultantId path string true "employee id"
// @Security BearerAuth
// @Success 200 {array} benchCandidateResponse
// @Router  /bench-candidates/consultant/{consultantId} [get]
func (h *BenchCandidateHandler) ByConsultant(c *fiber.Ctx) error {
	consultantID, err := uuid.Parse(c.Params("consultantId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid consultant id")
	}
	items, err := h.useCase.ListByConsultant(c.Context(), consultantID)
	if err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toBenchCandidateResponses(items))
}

// Recent lists the newest bench candidates.
// @Summary List recently added bench candidates
// @Tags    bench-candidates
// @Produce json
// @Param   limit query int false "max rows, default 10"
// @Security BearerAuth
// @Success 200 {array} benchCandidateResponse
// @Router  /bench-candidates/recent [get]
func (h *BenchCandidateHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	items, err := h.useCase.ListRecent(c.Context(), limit)
	if err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toBenchCandidateResponses(items))
}

// DownloadResume streams the legacy single resume attachment.
// @Summary Download bench candidate resume
// @Tags    bench-candidates
// @Produce application/octet-stream
// @Param   id path string true "bench candidate id"
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /bench-candidates/{id}/resume [get]
func (h *BenchCandidateHandler) DownloadResume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid bench candidate id")
	}
	data, filename, err := h.useCase.ResumeFile(c.Context(), id)
	if err != nil {
		return benchError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Status(http.StatusOK).Send(data)
}

type documentListResponse struct {
	Documents  []documentResponse `json:"documents"`
	Count      int64              `json:"count"`
	TotalBytes int64              `json:"totalBytes"`
}

// ListDocuments returns all documents of one bench candidate plus the count
// and combined size.
// @Summary List candidate documents
// @Tags    bench-candidates
// @Produce json
// @Param   id path string true "bench candidate id"
// @Security BearerAuth
// @Success 200 {object} documentListResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /bench-candidates/{id}/documents [get]
func (h *BenchCandidateHandler) ListDocuments(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid bench candidate id")
	}
	docs, err := h.useCase.Documents(c.Context(), id)
	if err != nil {
		return benchError(c, err)
	}
	count, totalBytes, err := h.useCase.DocumentSummary(c.Context(), id)
	if err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, documentListResponse{
		Documents:  toDocumentResponses(docs),
		Count:      count,
		TotalBytes: totalBytes,
	})
}

// UploadDocument attaches one file; its type is inferred from the filename.
// @Summary Upload candidate document
// @Tags    bench-candidates
// @Accept  multipart/form-data
// @Produce json
// @Param   id path string true "bench candidate id"
// @Param   file formData file true "document file"
// @Security BearerAuth
// @Success 201 {object} documentResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /bench-candidates/{id}/documents [post]
func (h *BenchCandidateHandler) UploadDocument(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid bench candidate id")
	}
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required")
	}
	up, err := uploadFromHeader(fh, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	doc, err := h.useCase.UploadDocument(c.Context(), id, up, currentUserID(c))
	if err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, toDocumentResponse(doc))
}

// UploadDocuments attaches several files in one request.
// @Summary Upload multiple candidate documents
// @Tags    bench-candidates
// @Accept  multipart/form-data
// @Produce json
// @Param   id path string true "bench candidate id"
// @Param   files formData file true "document files"
// @Security BearerAuth
// @Success 201 {array} documentResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /bench-candidates/{id}/documents/multiple [post]
func (h *BenchCandidateHandler) UploadDocuments(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid bench candidate id")
	}
	ups, err := formFiles(c, "files", h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	if len(ups) == 0 {
		return presenter.Error(c, http.StatusBadRequest, "files are required")
	}
	userID := currentUserID(c)
	docs := make([]documentResponse, 0, len(ups))
	for _, up := range ups {
		doc, err := h.useCase.UploadDocument(c.Context(), id, up, userID)
		if err != nil {
			return benchError(c, err)
		}
		docs = append(docs, toDocumentResponse(doc))
	}
	return presenter.JSON(c, http.StatusCreated, docs)
}

// GetDocument returns one document's metadata.
// @Summary Get candidate document info
// @Tags    bench-candidates
// @Produce json
// @Param   id path string true "bench candidate id"
// @Param   documentId path string true "document id"
// @Security BearerAuth
// @Success 200 {object} documentResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /bench-candidates/{id}/documents/{documentId}/info [get]
func (h *BenchCandidateHandler) GetDocument(c *fiber.Ctx) error {
	id, docID, err := parseDocumentIDs(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	doc, err := h.useCase.DocumentInfo(c.Context(), id, docID)
	if err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, toDocumentResponse(doc))
}

// DownloadDocument streams one document's bytes.
// @Summary Download candidate document
// @Tags    bench-candidates
// @Produce application/octet-stream
// @Param   id path string true "bench candidate id"
// @Param   documentId path string true "document id"
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /bench-candidates/{id}/documents/{documentId} [get]
func (h *BenchCandidateHandler) DownloadDocument(c *fiber.Ctx) error {
	id, docID, err := parseDocumentIDs(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	data, filename, err := h.useCase.DocumentFile(c.Context(), id, docID)
	if err != nil {
		return benchError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Status(http.StatusOK).Send(data)
}

// DeleteDocument removes one document row and its backing file.
// @Summary Delete candidate document
// @Tags    bench-candidates
// @Produce json
// @Param   id path string true "bench candidate id"
// @Param   documentId path string true "document id"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /bench-candidates/{id}/documents/{documentId} [delete]
func (h *BenchCandidateHandler) DeleteDocument(c *fiber.Ctx) error {
	id, docID, err := parseDocumentIDs(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	if err := h.useCase.DeleteDocument(c.Context(), id, docID); err != nil {
		return benchError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "document deleted"})
}

func parseDocumentIDs(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("invalid bench candidate id")
	}
	docID, err := uuid.Parse(c.Params("documentId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("invalid document id")
	}
	return id, docID, nil
}

func benchError(c *fiber.Ctx, err error) error {
	var verr candidate.ErrValidation
	switch {
	case errors.Is(err, bench.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "bench candidate not found")
	case errors.Is(err, bench.ErrDocumentNotFound), errors.Is(err, files.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "document not found")
	case errors.As(err, &verr):
		return presenter.Error(c, http.StatusBadRequest, verr.Error())
	default:
		return presenter.Error(c, http.StatusInternalServerError, "internal error")
	}
}
