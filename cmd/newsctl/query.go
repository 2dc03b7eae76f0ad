// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/newsbridge/internal/app"
	"github.com/taibuivan/newsbridge/internal/core/news"
	"github.com/taibuivan/newsbridge/internal/platform/constants"
)

var (
	flagPage      int
	flagJSON      bool
	headlinesFlag news.HeadlinesInput
	searchFlag    news.SearchInput
)

var resolveCmd = &cobra.Command{
	Use:       "resolve {language|country|source} NAME",
	Short:     "Translate a display name into the code the news API expects",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"language", "country", "source"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, application *app.App) error {
			kind, name := args[0], args[1]

			var (
				code string
				err  error
			)
			switch kind {
			case "language":
				code, err = application.Reference.ResolveLanguage(ctx, name)
			case "country":
				code, err = application.Reference.ResolveCountry(ctx, name)
			case "source":
				source, sourceErr := application.Reference.ResolveSource(ctx, name)
				code, err = source.ID, sourceErr
			default:
				return fmt.Errorf("unknown kind %q: expected language, country or source", kind)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		})
	},
}

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Fetch top headlines by country, category, sources or keyword",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, application *app.App) error {
			page, err := application.News.Headlines(ctx, headlinesFlag, flagPage)
			if err != nil {
				return err
			}
			return printArticles(cmd.OutOrStdout(), page)
		})
	},
}

var everythingCmd = &cobra.Command{
	Use:   "everything",
	Short: "Search every indexed article",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, application *app.App) error {
			page, err := application.News.Search(ctx, searchFlag, flagPage)
			if err != nil {
				return err
			}
			return printArticles(cmd.OutOrStdout(), page)
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{headlinesCmd, everythingCmd} {
		cmd.Flags().IntVar(&flagPage, "page", 1, fmt.Sprintf("result page (1-%d)", constants.MaxNewsPage))
		cmd.Flags().BoolVar(&flagJSON, "json", false, "print the raw article page as JSON")
	}

	headlines := headlinesCmd.Flags()
	headlines.StringVar(&headlinesFlag.Country, "country", "", `country name, e.g. "Canada"`)
	headlines.StringVar(&headlinesFlag.Category, "category", "", `category name, e.g. "Technology"`)
	headlines.StringVar(&headlinesFlag.Sources, "sources", "", "comma-separated source names")
	headlines.StringVar(&headlinesFlag.Query, "query", "", "keywords")

	search := everythingCmd.Flags()
	search.StringVar(&searchFlag.Query, "query", "", "keywords anywhere in the article")
	search.StringVar(&searchFlag.TitleSearch, "title", "", "keywords in the title only")
	search.StringVar(&searchFlag.Sources, "sources", "", "comma-separated source names")
	search.StringVar(&searchFlag.Domains, "domains", "", "comma-separated domains to include")
	search.StringVar(&searchFlag.ExcludeDomains, "exclude-domains", "", "comma-separated domains to exclude")
	search.StringVar(&searchFlag.FromDate, "from", "", `earliest date, e.g. "October 1 2026"`)
	search.StringVar(&searchFlag.ToDate, "to", "", `latest date, e.g. "October 19 2026"`)
	search.StringVar(&searchFlag.Language, "language", "", `language name, e.g. "English"`)
	search.StringVar(&searchFlag.SortBy, "sort-by", "", "relevancy, popularity or publishedAt")
}

func printArticles(writer io.Writer, page *news.ArticlePage) error {
	if flagJSON {
		return printJSON(writer, page)
	}

	table := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(table, "PUBLISHED\tSOURCE\tTITLE\n")
	for _, article := range page.Articles {
		fmt.Fprintf(table, "%s\t%s\t%s\n", article.PublishedAt.Format("2006-01-02 15:04"), article.Source.Name, article.Title)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(writer, "\n%d of %d results\n", len(page.Articles), page.TotalResults)
	return nil
}
