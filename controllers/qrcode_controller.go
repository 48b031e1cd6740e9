package controllers

import (
	"net/http"
	"strconv"

	"rta-backend/pkg/resp"
	"rta-backend/services"

	"github.com/gin-gonic/gin"
)

type QRCodeRequest struct {
	Text    string             `json:"text"`
	Options services.QROptions `json:"options"`
}

type QRCodeController struct {
	QR *services.QRCodeService
}

func NewQRCodeController(qr *services.QRCodeService) *QRCodeController {
	return &QRCodeController{QR: qr}
}

// POST /api/qrcode
func (q *QRCodeController) Generate(c *gin.Context) {
	var req QRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	out, err := q.QR.DataURL(req.Text, req.Options)
	if err != nil {
		handleError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /api/qrcode?text=&width=
func (q *QRCodeController) Image(c *gin.Context) {
	var opts services.QROptions
	if w := c.Query("width"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			resp.BadRequest(c, "width must be an integer")
			return
		}
		opts.Width = n
	}
	opts.ErrorCorrectionLevel = c.Query("level")

	png, err := q.QR.PNG(c.Query("text"), opts)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, "image/png", png)
}
