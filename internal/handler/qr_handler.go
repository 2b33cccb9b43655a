package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"onevsone/voting/pkg/response"
)

type QRHandler struct {
	baseURL string
	size    int
}

func NewQRHandler(baseURL string, size int) *QRHandler {
	if size <= 0 {
		size = 256
	}
	return &QRHandler{baseURL: baseURL, size: size}
}

// Generate renders a PNG QR code encoding the voting entry URL for a token,
// for printing on handout cards.
func (h *QRHandler) Generate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "token query parameter is required")
		return
	}

	target := fmt.Sprintf("%s/voting?token=%s", h.baseURL, url.QueryEscape(token))
	png, err := qrcode.Encode(target, qrcode.Medium, h.size)
	if err != nil {
		response.InternalError(c, "failed to generate QR code")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
