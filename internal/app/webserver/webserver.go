package webserver

import (
	"context"

	"cnpycalc/internal/infra/config"
	"cnpycalc/internal/infra/launchpadorders"
	"cnpycalc/internal/infra/orderstream"
	"cnpycalc/internal/infra/refprice"
	"cnpycalc/internal/infra/storage"
	"cnpycalc/internal/transport/httpapi"
	"cnpycalc/internal/usecase/convert"
)

// New собирает веб-стек по конфигу: REST-репозиторий борда, опциональный
// живой фид, опциональные источник цен и журнал, сервис конверсии и
// HTTP-сервер поверх адаптера. Вторым значением возвращается остановка
// фоновых частей.
func New(ctx context.Context, cfg *config.Config) (*httpapi.Server, func(), error) {
	httpRepo := launchpadorders.NewHTTPRepo(
		cfg.Launchpad.BaseURL,
		cfg.Launchpad.PageLimit,
		cfg.Launchpad.RatePerSec,
		cfg.Launchpad.Burst,
	)

	// Живой фид включается только когда задан и WS-адрес, и комитет.
	var repo convert.Repo = httpRepo
	stop := func() {}
	if cfg.Launchpad.WSURL != "" && cfg.Launchpad.Committee != "" {
		w := orderstream.NewWatcher(cfg.Launchpad.WSURL, cfg.Launchpad.Committee, httpRepo)
		_ = w.Start(ctx)
		repo = w
		stop = w.Stop
	}

	var prices convert.PriceSource
	if cfg.RefPrice.Enabled {
		prices = refprice.NewBinance(cfg.RefPrice.Quote)
	}

	var hist convert.History
	if cfg.Storage.DBPath != "" {
		st, err := storage.New(cfg.Storage.DBPath)
		if err != nil {
			stop()
			return nil, nil, err
		}
		hist = st
	}

	svc := convert.New(repo, prices, httpRepo, hist)
	return httpapi.New(cfg.HTTP.Addr, &httpapi.ConvertAdapter{Svc: svc}), stop, nil
}
