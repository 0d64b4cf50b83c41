package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultQRGenerator encodes a link to a restaurant page.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Link(restaurantID int) string {
	return fmt.Sprintf("%s/stores/%d", g.BaseURL, restaurantID)
}

func (g DefaultQRGenerator) Generate(restaurantID int) ([]byte, error) {
	return qrcode.Encode(g.Link(restaurantID), qrcode.Medium, 256)
}
