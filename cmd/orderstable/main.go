package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	staticrepo "github.com/corray333/backend-labs/vendororders/internal/dal/repositories/order/static"
	"github.com/corray333/backend-labs/vendororders/internal/service/models/ordersview"
	"github.com/corray333/backend-labs/vendororders/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/vendororders/internal/transport/cli"
	"github.com/corray333/backend-labs/vendororders/pkg/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	flags := pflag.NewFlagSet("orderstable", pflag.ExitOnError)
	flags.String("search", "", "filter orders by event title or category")
	flags.Int("page", 0, "zero-based page to print")
	flags.String("seed", "", "JSON seed file, the embedded demo data when empty")
	flags.String("details", "", "print a single order instead of the table")
	flags.String("log-level", "warn", "log level")
	_ = flags.Parse(os.Args[1:])

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	viper.SetDefault("logger.format", "text")
	slog.SetDefault(slog.New(logger.NewHandler(&slog.HandlerOptions{
		Level: logger.ParseLevel(viper.GetString("log-level")),
	})))

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	repo, err := openSeed(viper.GetString("seed"))
	if err != nil {
		return err
	}

	svc := ordersvc.MustNewOrderService(ordersvc.WithRepository(repo))
	if err := svc.Refresh(ctx); err != nil {
		return err
	}

	if id := viper.GetString("details"); id != "" {
		o, err := svc.GetOrder(ctx, id)
		if err != nil {
			return err
		}

		return cli.RenderOrder(os.Stdout, o)
	}

	view, err := svc.GetView(ctx, ordersview.Params{
		Search: viper.GetString("search"),
		Page:   viper.GetInt("page"),
	})
	if err != nil {
		return err
	}

	return cli.RenderView(os.Stdout, view)
}

func openSeed(path string) (*staticrepo.Repository, error) {
	if path == "" {
		return staticrepo.MustNewRepository(""), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return staticrepo.NewRepository(f)
}
