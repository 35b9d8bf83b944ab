package httpapi

import (
	"context"
	"fmt"

	"cnpycalc/internal/usecase/convert"
)

// ConvertAdapter — тонкий адаптер: маппит httpapi.* <-> convert.* и вызывает use-case.
type ConvertAdapter struct {
	Svc *convert.Service
}

func (a *ConvertAdapter) Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error) {
	if a == nil || a.Svc == nil {
		return QuoteResponse{}, fmt.Errorf("service is not initialized")
	}

	out, err := a.Svc.Quote(ctx, convert.Request{
		Committee: req.Committee,
		Budget:    req.Budget,
		Mode:      req.Mode,
	})
	if err != nil {
		return QuoteResponse{}, err
	}

	orders := make([]OrderDTO, 0, len(out.Orders))
	for _, o := range out.Orders {
		orders = append(orders, OrderDTO{
			ID:       o.ID,
			Amount:   o.Amount,
			Price:    o.Price,
			Discount: o.Discount,
			Cost:     o.Cost,
			Savings:  o.Savings,
			Selected: o.Selected,
		})
	}

	return QuoteResponse{
		Committee:    out.Committee,
		Asset:        out.Asset,
		Mode:         string(out.Mode),
		Budget:       out.Budget,
		RefPrice:     out.RefPrice,
		Orders:       orders,
		TotalCost:    out.TotalCost,
		TotalSavings: out.TotalSavings,
		CnpyReceived: out.Received,
		Gap:          out.Gap,
		FullyFilled:  out.FullyFilled,
		Diagnostics:  out.Diagnostics,
		GeneratedAt:  out.GeneratedAt,
	}, nil
}

func (a *ConvertAdapter) Convert(ctx context.Context, req ConvertRequest) (ConvertResponse, error) {
	if a == nil || a.Svc == nil {
		return ConvertResponse{}, fmt.Errorf("service is not initialized")
	}

	rcpt, err := a.Svc.Submit(ctx, convert.SubmitRequest{
		Committee: req.Committee,
		Amount:    req.Amount,
		Budget:    req.Budget,
		Mode:      req.Mode,
	})
	if err != nil {
		return ConvertResponse{}, err
	}

	return ConvertResponse{
		ClientOrderID: rcpt.ClientOrderID,
		Status:        rcpt.Status,
		SubmittedAt:   rcpt.SubmittedAt.Format("15:04 02.01.2006"),
	}, nil
}

func (a *ConvertAdapter) Committees(ctx context.Context) ([]CommitteeDTO, error) {
	if a == nil || a.Svc == nil {
		return nil, fmt.Errorf("service is not initialized")
	}

	list, err := a.Svc.Committees(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CommitteeDTO, 0, len(list))
	for _, c := range list {
		out = append(out, CommitteeDTO{
			ID:         c.ID,
			Name:       c.Name,
			Asset:      c.Asset,
			RoundPrice: c.RoundPrice.InexactFloat64(),
			Open:       c.Open,
		})
	}
	return out, nil
}

func (a *ConvertAdapter) History(limit int) ([]HistoryItem, error) {
	if a == nil || a.Svc == nil {
		return nil, fmt.Errorf("service is not initialized")
	}

	recs, err := a.Svc.History(limit)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryItem, 0, len(recs))
	for _, r := range recs {
		out = append(out, HistoryItem{
			ClientOrderID: r.ClientOrderID,
			Committee:     r.Committee,
			Amount:        r.Amount,
			Budget:        r.Budget,
			Mode:          r.Mode,
			Status:        r.Status,
			CreatedAt:     r.CreatedAt.Format("15:04 02.01.2006"),
		})
	}
	return out, nil
}
