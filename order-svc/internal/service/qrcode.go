package service

import (
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(code string) ([]byte, error)
}

// DefaultQRGenerator renders the waiter lookup link for an order code as a
// 256px PNG.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(code string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/waiter?code=%s", g.BaseURL, url.QueryEscape(code))
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
