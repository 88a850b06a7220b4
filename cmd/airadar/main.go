package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ai-lab-radar/cmd/airadar/feeder"
	"ai-lab-radar/cmd/airadar/llm"
	"ai-lab-radar/cmd/airadar/services"
	"ai-lab-radar/cmd/internal/httpclient"
	"ai-lab-radar/cmd/internal/logger"
	"ai-lab-radar/config"
	"ai-lab-radar/repositories"
)

const LOG_LEVEL_ENV = "LOG_LEVEL"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(run).ExecuteContext(ctx); err != nil {
		logger.ErrorWithFields("radar run failed", logger.Fields{"error": err.Error()})
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand(runFn func(ctx context.Context, opts services.RunOptions) error) *cobra.Command {
	var opts services.RunOptions

	cmd := &cobra.Command{
		Use:           "airadar",
		Short:         "Fetch recent AI news and write an HTML report",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFn(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Cached, "cached", "c", false, "use "+repositories.SNAPSHOT_FILE+" instead of fetching articles")
	cmd.Flags().BoolVarP(&opts.NoLLM, "no-llm", "n", false, "render articles directly without calling the language model")
	return cmd
}

func run(ctx context.Context, opts services.RunOptions) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, err := config.Load(wd)
	if err != nil {
		return err
	}
	logger.Init(LOG_LEVEL_ENV, cfg.Logging.Level)
	logger.SetRunID(uuid.NewString())

	source, err := feeder.New(cfg.Source, httpclient.New(httpclient.Config{Timeout: cfg.Source.Timeout()}))
	if err != nil {
		return err
	}

	modelHTTP := httpclient.New(httpclient.Config{Timeout: cfg.Model.Timeout()})
	newModel := func(provider, model string) (llm.ChatModel, error) {
		return llm.New(provider, model, llm.WithHTTPClient(modelHTTP))
	}

	svc := services.NewRadarService(
		cfg,
		source,
		repositories.NewArticleRepository(repositories.SNAPSHOT_FILE),
		repositories.NewReportRepository(repositories.REPORT_FILE),
		newModel,
	)
	return svc.Run(ctx, opts)
}
