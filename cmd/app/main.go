package main

import (
	"context"
	"fmt"
	"os"

	"cnpycalc/internal/infra/config"
	"cnpycalc/internal/infra/launchpadorders"
	"cnpycalc/internal/infra/refprice"
	"cnpycalc/internal/transport/cli"
	"cnpycalc/internal/usecase/convert"
)

func main() {
	path := os.Getenv("CNPYCALC_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	repo := launchpadorders.NewHTTPRepo(
		cfg.Launchpad.BaseURL,
		cfg.Launchpad.PageLimit,
		cfg.Launchpad.RatePerSec,
		cfg.Launchpad.Burst,
	)

	var prices convert.PriceSource
	if cfg.RefPrice.Enabled {
		prices = refprice.NewBinance(cfg.RefPrice.Quote)
	}

	// В CLI история не ведётся: это разовый расчёт в терминале.
	svc := convert.New(repo, prices, repo, nil)
	pr := cli.NewCLIPresenter()

	ctx := context.Background()

	committees, err := svc.Committees(ctx)
	if err != nil {
		pr.Warnf("Не удалось получить список комитетов: %v\n", err)
	}

	params := cli.GetInteractiveParams(committees)

	quote, err := svc.Quote(ctx, convert.Request{
		Committee: params.Committee,
		Budget:    params.Budget,
		Mode:      params.Mode,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Ошибка выполнения: %v\n", err)
		os.Exit(1)
	}

	pr.ShowQuote(quote)

	if len(quote.Orders) == 0 || quote.Received <= 0 {
		return
	}
	if !cli.AskConfirm("\nОтправить заявку в лаунчпад?") {
		pr.Infof("Отправка отменена.\n")
		return
	}

	// Объём спрашиваем отдельно: борд мог измениться, поэтому в лаунчпад
	// уходит то, что подтвердил пользователь, а не итоги превью.
	amount := cli.AskAmount(quote.Received)
	if amount <= 0 {
		pr.Infof("Нулевой объём — отправлять нечего.\n")
		return
	}

	rcpt, err := svc.Submit(ctx, convert.SubmitRequest{
		Committee: params.Committee,
		Amount:    amount,
		Budget:    params.Budget,
		Mode:      params.Mode,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Ошибка отправки: %v\n", err)
		os.Exit(1)
	}
	pr.ShowReceipt(rcpt)
}
