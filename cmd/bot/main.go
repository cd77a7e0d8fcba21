package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	_ "github.com/tarakania/rpg-bot/internal/commands/account"
	_ "github.com/tarakania/rpg-bot/internal/commands/catalog"
	_ "github.com/tarakania/rpg-bot/internal/commands/core"
	_ "github.com/tarakania/rpg-bot/internal/commands/inventory"
	_ "github.com/tarakania/rpg-bot/internal/commands/misc"

	"github.com/tarakania/rpg-bot/internal/bot"
	"github.com/tarakania/rpg-bot/internal/command"
	"github.com/tarakania/rpg-bot/internal/config"
	"github.com/tarakania/rpg-bot/internal/converter"
	"github.com/tarakania/rpg-bot/internal/handler"
	"github.com/tarakania/rpg-bot/internal/ledger"
	"github.com/tarakania/rpg-bot/internal/logging"
	"github.com/tarakania/rpg-bot/internal/player"
	"github.com/tarakania/rpg-bot/internal/rpg"
	"github.com/tarakania/rpg-bot/internal/storage"
	"github.com/tarakania/rpg-bot/internal/updater"
	"github.com/tarakania/rpg-bot/internal/version"
	"github.com/tarakania/rpg-bot/pkg/retrylimit"
)

func main() {
	production := flag.Bool("production", false, "use the main bot token and hard-reset on updates")
	enableUpdater := flag.Bool("enable-updater", false, "run the GitHub webhook update server")
	enableNotifications := flag.Bool("enable-notifications", false, "announce restarts and boots in the update channel")
	flag.Parse()

	if err := run(*production, *enableUpdater, *enableNotifications); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(production, enableUpdater, enableNotifications bool) error {
	cfg, err := config.New(production)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFile)
	log.Info().Str("version", version.Version).Bool("production", production).
		Msgf("starting %s", version.AppName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	players, err := player.NewStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open player database: %w", err)
	}
	defer players.Close()

	catalogs, err := rpg.Load(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("load game catalogs: %w", err)
	}

	var responseStore ledger.Store
	if cfg.RedisAddr != "" {
		responseStore, err = ledger.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
	} else {
		log.Warn().Msg("no redis address configured, response ledger is in-memory")
		responseStore = ledger.NewMemoryStore()
	}
	defer responseStore.Close()

	converters := converter.NewDefault(log)
	registry := command.NewRegistry(cfg.CommandsDir, converters, log)
	prefixes := handler.NewPrefixTable(cfg.DefaultPrefix, store)

	cooldown := retrylimitCooldown()
	dispatcher := handler.New(
		registry, prefixes, players, catalogs,
		ledger.New(responseStore, log),
		cooldown, cfg.IsOwner, log,
	)

	var b *bot.Bot
	var onReady func(ctx context.Context)
	if enableNotifications {
		onReady = func(ctx context.Context) {
			b.Notify(ctx, updater.BootMessage(production))
		}
	}

	b, err = bot.New(cfg, registry, dispatcher, prefixes, onReady, log)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)

	if enableUpdater {
		var notify updater.NotifyFunc
		if enableNotifications {
			notify = b.Notify
		}
		webhook := updater.New(cfg.UpdaterAddr, cfg.WebhookSecret, production, notify, stop, log)
		group.Go(func() error { return webhook.Run(groupCtx) })
	}

	group.Go(func() error { return b.Run(groupCtx) })
	group.Go(func() error { return registry.Watch(groupCtx) })

	if err := group.Wait(); err != nil && !isShutdown(err) {
		return err
	}

	log.Info().Msg("exited cleanly")
	return nil
}

// one command per two seconds per user, bursting to three
func retrylimitCooldown() *retrylimit.KeyedLimiter {
	return retrylimit.NewKeyedLimiter(rate.Every(2*time.Second), 3)
}

func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled)
}
