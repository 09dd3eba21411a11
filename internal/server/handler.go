package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bula/internal/bula"
)

type handler struct {
	pipeline Pipeline
}

type processImageRequest struct {
	Data struct {
		ImageData string `json:"imageData"`
	} `json:"data"`
}

// getSummaryRequest accepts the mobile client's nomeMedicamento and the
// older medicineName key.
type getSummaryRequest struct {
	Data struct {
		NomeMedicamento string `json:"nomeMedicamento"`
		MedicineName    string `json:"medicineName"`
	} `json:"data"`
}

func (r getSummaryRequest) name() string {
	if r.Data.NomeMedicamento != "" {
		return r.Data.NomeMedicamento
	}
	return r.Data.MedicineName
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) processImage(c *gin.Context) {
	var req processImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.pipeline.ProcessImage(c.Request.Context(), req.Data.ImageData)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *handler) getSummary(c *gin.Context) {
	var req getSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.pipeline.GetSummary(c.Request.Context(), req.name())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// statusCode maps an error kind to its HTTP status.
func statusCode(kind bula.Kind) int {
	switch kind {
	case bula.KindInvalidArgument:
		return http.StatusBadRequest
	case bula.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	kind := bula.KindOf(err)
	c.JSON(statusCode(kind), errorBody(kind.String(), bula.PublicMessage(err)))
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, errorBody(bula.KindInvalidArgument.String(), "Corpo da requisição inválido."))
}

func errorBody(status, message string) gin.H {
	return gin.H{"error": gin.H{"status": status, "message": message}}
}
