package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"complaintdesk/backend/internal/blob"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// CreateComplaint handles staff intake. Multipart requests may attach
// "images"; JSON requests carry no files.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var in complaint.CreateInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	h.create(c, in)
}

// CreatePublicComplaint handles the public web form. The source is always
// LINE, so the form must carry the reporter's LINE user id and a photo.
func (h *Handler) CreatePublicComplaint(c *gin.Context) {
	var in complaint.CreateInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	in.Source = models.SourceLine
	in.ReporterName, in.ReceivedBy = "", ""
	h.create(c, in)
}

func (h *Handler) create(c *gin.Context, in complaint.CreateInput) {
	files, err := formFiles(c, "images")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	created, err := h.Complaints.Create(c.Request.Context(), in, files)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetComplaint returns one complaint.
func (h *Handler) GetComplaint(c *gin.Context) {
	found, err := h.Complaints.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListComplaints returns {items, totalPages} when page or limit is given,
// and the flat list otherwise.
func (h *Handler) ListComplaints(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	page, err := h.Complaints.List(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !page.Paginated {
		c.JSON(http.StatusOK, page.Items)
		return
	}
	c.JSON(http.StatusOK, page)
}

type queryError string

func (e queryError) Error() string { return string(e) }

func parseFilter(c *gin.Context) (storage.ComplaintFilter, error) {
	f := storage.ComplaintFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Status: models.Status(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		Source: models.Source(strings.ToUpper(strings.TrimSpace(c.Query("source")))),
	}
	var err error
	if f.Page, err = queryInt(c, "page"); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(c, "limit"); err != nil {
		return f, err
	}
	if f.From, err = queryDate(c, "from", false); err != nil {
		return f, err
	}
	if f.To, err = queryDate(c, "to", true); err != nil {
		return f, err
	}
	return f, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, queryError(key + " must be a non-negative integer")
	}
	return n, nil
}

// queryDate accepts RFC 3339 timestamps or plain dates. A plain "to" date
// covers the whole day.
func queryDate(c *gin.Context, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, queryError(key + " must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// UpdateComplaint applies a partial edit from JSON or a multipart form with
// replacement "imageBefore" and "imageAfter" files.
func (h *Handler) UpdateComplaint(c *gin.Context) {
	var (
		patch complaint.Patch
		img   complaint.ImagePatch
		err   error
	)
	if isMultipart(c) {
		if _, err = c.MultipartForm(); err != nil {
			badRequest(c, "invalid multipart form")
			return
		}
		patch = complaint.Patch{
			Description:     formString(c, "description"),
			Location:        formString(c, "location"),
			Phone:           formString(c, "phone"),
			ReporterName:    formString(c, "reporterName"),
			ReceivedBy:      formString(c, "receivedBy"),
			LineDisplayName: formString(c, "lineDisplayName"),
			KeepBefore:      formList(c, "keepImageBefore"),
			KeepAfter:       formList(c, "keepImageAfter"),
		}
		if img.Before, err = formFiles(c, "imageBefore"); err != nil {
			badRequest(c, err.Error())
			return
		}
		if img.After, err = formFiles(c, "imageAfter"); err != nil {
			badRequest(c, err.Error())
			return
		}
	} else if err = c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	updated, err := h.Complaints.Update(c.Request.Context(), c.Param("id"), patch, img)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteComplaint removes a complaint and its images.
func (h *Handler) DeleteComplaint(c *gin.Context) {
	deleted, err := h.Complaints.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

type deleteManyRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// DeleteManyComplaints removes several complaints.
func (h *Handler) DeleteManyComplaints(c *gin.Context) {
	var req deleteManyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ids is required")
		return
	}
	n, err := h.Complaints.DeleteMany(c.Request.Context(), req.IDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// RestoreComplaint recreates a deleted complaint from its snapshot.
func (h *Handler) RestoreComplaint(c *gin.Context) {
	var snap models.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		badRequest(c, "invalid snapshot")
		return
	}
	restored, err := h.Complaints.Restore(c.Request.Context(), snap)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, restored)
}

// RemindComplaint re-announces a pending complaint to the group.
func (h *Handler) RemindComplaint(c *gin.Context) {
	reminded, err := h.Complaints.Remind(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminded)
}

type resolveRequest struct {
	Message string   `json:"message" form:"message"`
	Keep    []string `json:"keepImages" form:"-"`
}

// ResolveComplaint marks a complaint DONE. Multipart requests may attach
// "imageAfter" files and list the existing ones to keep in "keepImages".
func (h *Handler) ResolveComplaint(c *gin.Context) {
	var (
		req   resolveRequest
		files []blob.File
		err   error
	)
	if isMultipart(c) {
		if err = c.ShouldBind(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		req.Keep = formList(c, "keepImages")
		if files, err = formFiles(c, "imageAfter"); err != nil {
			badRequest(c, err.Error())
			return
		}
	} else if err = c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resolved, err := h.Complaints.Resolve(c.Request.Context(), c.Param("id"), complaint.ResolveInput{
		Summary: req.Message,
		Keep:    req.Keep,
	}, files)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}
