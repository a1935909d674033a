package sale

import (
	"time"

	"github.com/reconbattery/pos/internal/money"
	"github.com/reconbattery/pos/internal/sale"
)

type saleResponse struct {
	ID       int64          `json:"id"`
	SaleDate time.Time      `json:"sale_date"`
	Subtotal string         `json:"subtotal"`
	Tax      string         `json:"tax"`
	Total    string         `json:"total"`
	Method   sale.Method    `json:"method"`
	Lines    []lineResponse `json:"lines,omitempty"`
}

type lineResponse struct {
	ID        int64  `json:"id"`
	Item      string `json:"item"`
	Qty       int    `json:"qty"`
	Price     string `json:"price"`
	LineTotal string `json:"line_total"`
}

func toResponse(rec *sale.Sale, lines []sale.Line) saleResponse {
	resp := saleResponse{
		ID:       rec.ID,
		SaleDate: rec.SaleDate,
		Subtotal: money.Format(rec.Subtotal),
		Tax:      money.Format(rec.Tax),
		Total:    money.Format(rec.Total),
		Method:   rec.Method,
	}

	for _, line := range lines {
		resp.Lines = append(resp.Lines, lineResponse{
			ID:        line.ID,
			Item:      line.Item,
			Qty:       line.Qty,
			Price:     money.Format(line.Price),
			LineTotal: money.Format(line.LineTotal),
		})
	}

	return resp
}

func toResponseList(sales []*sale.Sale) []saleResponse {
	resp := make([]saleResponse, len(sales))
	for i, rec := range sales {
		resp[i] = toResponse(rec, nil)
	}

	return resp
}
