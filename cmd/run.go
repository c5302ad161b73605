package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/odudnyk/cvscout/internal/logger"
	"github.com/odudnyk/cvscout/internal/resume"
	"github.com/odudnyk/cvscout/internal/source"
	"github.com/odudnyk/cvscout/internal/storage"
)

const (
	PromptBothSites  = "both"
	PromptRelevance  = "By relevance"
	PromptSalary     = "By salary"
	PromptExperience = "By experience"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one interactive search from the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("no-filters", "n", false, "skip the filter chain and keep every scraped resume")
	runCmd.Flags().BoolP("from-db", "b", false, "print the stored shortlist without scraping")

	viper.BindPFlag("no-filters", runCmd.Flags().Lookup("no-filters"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cvscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	store, err := storage.Open(config.Database, logger)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err))
	}
	defer store.Close()

	if cmd.Flag("from-db").Value.String() == "true" {
		printStored(store, config.TopN, logger)
		return
	}

	p, err := newPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	sites, err := chooseSites(config)
	if err != nil {
		logger.Fatal("choosing a site", zap.Error(err))
	}

	narrow := !viper.GetBool("no-filters")

	all := &resume.Resumes{}
	for _, site := range sites {
		found, err := p.scrape(ctx, site, narrow)
		if err != nil {
			logger.Fatal("scraping failed", zap.String("site", site), zap.Error(err))
		}
		logger.Info("site scraped", zap.String("site", site), zap.Int("resumes", found.Len()))
		all.Append(found.Items...)
	}

	if all.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes found"))
		return
	}

	top := sortChosen(all, config.TopN, logger)

	if err := store.Save(all, config.TopN); err != nil {
		logger.Fatal("saving the shortlist", zap.Error(err))
	}

	for _, r := range top.Items {
		fmt.Println(resume.Format(r))
	}
}

// chooseSites resolves the sites to scrape: the configured source when set,
// an interactive prompt otherwise.
func chooseSites(config *Config) ([]string, error) {
	site := config.Source
	if site == "" {
		prompt := promptui.Select{
			Label: "Choose a site to scrape",
			Items: append(source.Sites(), PromptBothSites),
		}

		var err error
		if _, site, err = prompt.Run(); err != nil {
			return nil, err
		}
	}

	if site == PromptBothSites {
		return source.Sites(), nil
	}
	return []string{site}, nil
}

// sortChosen asks for the sort order and returns the cut shortlist. Rank
// drops invalid records and gives the relevance order.
func sortChosen(all *resume.Resumes, topN int, logger *zap.Logger) *resume.Resumes {
	prompt := promptui.Select{
		Label: fmt.Sprintf("Found %d resumes. Sort order?", all.Len()),
		Items: []string{PromptRelevance, PromptSalary, PromptExperience},
	}

	_, order, err := prompt.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	top := all.Rank(-1)
	switch order {
	case PromptSalary:
		top.SortBySalary()
	case PromptExperience:
		top.SortByExperience()
	}
	if topN > 0 && top.Len() > topN {
		top.Items = top.Items[:topN]
	}
	return top
}

func printStored(store *storage.Store, topN int, logger *zap.Logger) {
	stored, err := store.Top(topN)
	if err != nil {
		logger.Fatal("loading the shortlist", zap.Error(err))
	}

	if stored.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "stored shortlist is empty"))
		return
	}

	for _, r := range stored.Items {
		fmt.Println(resume.Format(r))
	}
}
