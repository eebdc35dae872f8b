package harvest

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreamerjackson/mangacrawler/collect"
	"github.com/dreamerjackson/mangacrawler/engine"
	"github.com/dreamerjackson/mangacrawler/generator"
	"github.com/dreamerjackson/mangacrawler/limiter"
	"github.com/dreamerjackson/mangacrawler/log"
	"github.com/dreamerjackson/mangacrawler/pager"
	"github.com/dreamerjackson/mangacrawler/parse/topmanga"
	"github.com/dreamerjackson/mangacrawler/spider"
	"github.com/dreamerjackson/mangacrawler/sqldb"
	"github.com/dreamerjackson/mangacrawler/storage/snapshot"
	"github.com/dreamerjackson/mangacrawler/storage/sqlstorage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var HarvestCmd = &cobra.Command{
	Use:          "harvest",
	Short:        "harvest the top manga catalog into a snapshot file.",
	Long:         "harvest the top manga catalog into a snapshot file.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg)

		return Run(cfg)
	},
}

var (
	configPath string
	iterations int
	headless   bool
	pagination string
	renderer   string
	output     string
	minDelay   time.Duration
	maxDelay   time.Duration
)

func init() {
	HarvestCmd.Flags().StringVar(
		&configPath, "config", "config.toml", "set config file")

	HarvestCmd.Flags().IntVar(
		&iterations, "iterations", 10, "max number of listing pages")

	HarvestCmd.Flags().BoolVar(
		&headless, "headless", true, "run the browser without a window")

	HarvestCmd.Flags().StringVar(
		&pagination, "pagination", string(pager.OffsetType), "pagination strategy: offset or next")

	HarvestCmd.Flags().StringVar(
		&renderer, "fetcher", "browser", "renderer: browser or http")

	HarvestCmd.Flags().StringVarP(
		&output, "output", "o", "manga_data_new.json", "set snapshot file")

	HarvestCmd.Flags().DurationVar(
		&minDelay, "min-delay", 5*time.Second, "min politeness delay")

	HarvestCmd.Flags().DurationVar(
		&maxDelay, "max-delay", 15*time.Second, "max politeness delay")
}

// 命令行参数覆盖配置文件
func applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("iterations") {
		cfg.Harvest.Iterations = iterations
	}
	if flags.Changed("headless") {
		cfg.Fetcher.Headless = headless
	}
	if flags.Changed("pagination") {
		cfg.Harvest.Pagination = pager.Type(pagination)
	}
	if flags.Changed("fetcher") {
		cfg.Fetcher.Type = renderer
	}
	if flags.Changed("output") {
		cfg.Harvest.Snapshot = output
	}
	if flags.Changed("min-delay") {
		cfg.Politeness.MinDelay = minDelay
	}
	if flags.Changed("max-delay") {
		cfg.Politeness.MaxDelay = maxDelay
	}
}

func Run(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// log
	logger, closer, err := log.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closer.Close()

	if id, err := generator.RunID(generator.LocalIP()); err == nil {
		logger = logger.With(zap.String("run", id.String()))
	}
	zap.ReplaceGlobals(logger)
	logger.Info("log init end")

	parser := topmanga.New(topmanga.WithLogger(logger.Named("parser")))

	nav, err := NewNavigator(cfg, parser.NextPageSelector())
	if err != nil {
		return err
	}

	session, err := NewSession(cfg, logger.Named("fetcher"))
	if err != nil {
		return err
	}

	storage, err := NewStorage(cfg, logger.Named("sqlDB"))
	if err != nil {
		logger.Error("create sqlstorage failed", zap.Error(err))
		return err
	}

	politeness := limiter.NewPoliteness(cfg.Politeness.MinDelay, cfg.Politeness.MaxDelay)
	limits := append([]limiter.RateLimiter{politeness}, limiter.FromConfig(cfg.Politeness.Limits)...)

	h, err := engine.New(
		engine.WithSession(session),
		engine.WithNavigator(nav),
		engine.WithParser(parser),
		engine.WithStore(snapshot.New(
			snapshot.WithPath(cfg.Harvest.Snapshot),
			snapshot.WithLogger(logger.Named("snapshot")),
		)),
		engine.WithStorage(storage),
		engine.WithLimiter(limiter.Multi(limits...)),
		engine.WithLinkLimit(cfg.Harvest.PageSize),
		engine.WithIterations(cfg.Harvest.Iterations),
		engine.WithLogger(logger.Named("engine")),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := h.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("harvest done",
		zap.Int("pages", stats.Pages),
		zap.Int("inserted", stats.Inserted),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("failed", stats.Failed))

	return nil
}

func NewNavigator(cfg Config, nextSelector string) (spider.Navigator, error) {
	switch cfg.Harvest.Pagination {
	case pager.OffsetType, "":
		return pager.NewOffsetNavigator(cfg.Harvest.BaseURL, cfg.Harvest.PageSize, cfg.Harvest.Iterations), nil
	case pager.NextType:
		return pager.NewNextNavigator(cfg.Harvest.StartURL, nextSelector), nil
	}

	return nil, fmt.Errorf("unknown pagination %q", cfg.Harvest.Pagination)
}

func renderType(s string) (spider.RenderType, error) {
	switch s {
	case "browser", "":
		return spider.BrowserRenderType, nil
	case "http":
		return spider.HTTPRenderType, nil
	}

	return 0, fmt.Errorf("unknown fetcher type %q", s)
}

// NewSession 按配置选择渲染实现，会话在 Run 开始时才真正建立
func NewSession(cfg Config, logger *zap.Logger) (spider.SessionFunc, error) {
	t, err := renderType(cfg.Fetcher.Type)
	if err != nil {
		return nil, err
	}

	opts := []collect.Option{
		collect.WithLogger(logger),
		collect.WithTimeout(cfg.Fetcher.Timeout),
		collect.WithWaitTimeout(cfg.Fetcher.NextWait),
		collect.WithHeadless(cfg.Fetcher.Headless),
		collect.WithCookie(cfg.Fetcher.Cookie),
	}

	if len(cfg.Fetcher.Proxy) > 0 {
		p, err := collect.ParseProxies(cfg.Fetcher.Proxy...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, collect.WithProxies(p))
	}

	switch t {
	case spider.HTTPRenderType:
		return func(ctx context.Context) (spider.Renderer, error) {
			return collect.NewHTTPRender(opts...), nil
		}, nil

	default:
		return func(ctx context.Context) (spider.Renderer, error) {
			b, err := collect.NewBrowserRender(ctx, opts...)
			if err != nil {
				return nil, err
			}
			return b, nil
		}, nil
	}
}

func NewStorage(cfg Config, logger *zap.Logger) (spider.DataRepository, error) {
	switch cfg.Storage.Type {
	case "mysql", "sqlite":
		driver := sqldb.MySQL
		if cfg.Storage.Type == "sqlite" {
			driver = sqldb.SQLite
		}

		s, err := sqlstorage.New(
			sqlstorage.WithDriver(driver),
			sqlstorage.WithSQLURL(cfg.Storage.SQLURL),
			sqlstorage.WithLogger(logger),
			sqlstorage.WithBatchCount(cfg.Storage.BatchCount),
		)
		if err != nil {
			return nil, err
		}
		logger.Info("start sql storage", zap.String("driver", driver))

		return s, nil
	case "empty", "":
		return spider.EmptyDataRepository{}, nil
	}

	return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
}
