package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matchdayhq/matchday/pkg/search"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 0, 0)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	snippetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Margin(0, 0, 0, 2)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search posts, comments, teams and players from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "query",
				Usage: "Search query",
			},
			&cli.StringFlag{
				Name:  "scope",
				Usage: "Result scope (all, posts, comments, teams, players)",
				Value: "all",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort order for content results (latest, views, likes)",
				Value: "latest",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results per kind",
				Value: 10,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runSearch(ctx, c.String("config"), c.String("query"), c.String("scope"), c.String("sort"), c.Int("limit"))
		},
	}
}

func runSearch(ctx context.Context, configPath, query, scope, sortKey string, limit int) error {
	cfg, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()

	rules, err := rulesFromConfig(cfg)
	if err != nil {
		return err
	}

	searcher := search.NewSearcher(st, rules)
	router := search.NewRouter(searcher)

	resp := router.Search(ctx, search.Query{
		Text:  query,
		Scope: search.ParseScope(scope),
		Sort:  search.ParseSortKey(sortKey),
		Limit: limit,
	})

	if resp.TotalCount == 0 {
		fmt.Println(noDataStyle.Render("No results found"))
		return nil
	}

	caser := cases.Title(language.English)

	if len(resp.Posts) > 0 {
		fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%d)", caser.String("posts"), resp.PostTotal)))
		for _, p := range resp.Posts {
			fmt.Println(titleStyle.Render(p.Title))
			fmt.Println(metaStyle.Render(fmt.Sprintf("%s · %s · %d views · %d likes · %s",
				p.BoardName, p.AuthorName, p.Views, p.Likes, p.CreatedAt.Format("2006-01-02"))))
			if p.Snippet != "" {
				fmt.Println(snippetStyle.Render(p.Snippet))
			}
		}
	}

	if len(resp.Comments) > 0 {
		fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%d)", caser.String("comments"), resp.CommentTotal)))
		for _, c := range resp.Comments {
			fmt.Println(titleStyle.Render("Re: " + c.PostTitle))
			fmt.Println(metaStyle.Render(fmt.Sprintf("%s · %d likes · %s",
				c.AuthorName, c.Likes, c.CreatedAt.Format("2006-01-02"))))
			if c.Snippet != "" {
				fmt.Println(snippetStyle.Render(c.Snippet))
			}
		}
	}

	if len(resp.Teams) > 0 {
		fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%d)", caser.String("teams"), resp.TeamTotal)))
		for _, t := range resp.Teams {
			line := t.DisplayName
			if t.DisplayName != t.Name {
				line += " (" + t.Name + ")"
			}
			fmt.Println(titleStyle.Render(line))
			var meta []string
			if t.Country != "" {
				meta = append(meta, t.Country)
			}
			if t.Venue != "" {
				meta = append(meta, t.Venue)
			}
			if t.CurrentPosition != nil {
				meta = append(meta, fmt.Sprintf("position %d", *t.CurrentPosition))
			}
			if len(meta) > 0 {
				fmt.Println(metaStyle.Render(strings.Join(meta, " · ")))
			}
		}
	}

	if len(resp.Players) > 0 {
		fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%d)", caser.String("players"), resp.PlayerTotal)))
		for _, p := range resp.Players {
			line := p.DisplayName
			if p.DisplayName != p.Name {
				line += " (" + p.Name + ")"
			}
			fmt.Println(titleStyle.Render(line))
			var meta []string
			if p.TeamName != "" {
				meta = append(meta, p.TeamName)
			}
			if p.Position != "" {
				meta = append(meta, p.Position)
			}
			if p.Nationality != "" {
				meta = append(meta, p.Nationality)
			}
			if len(meta) > 0 {
				fmt.Println(metaStyle.Render(strings.Join(meta, " · ")))
			}
		}
	}

	fmt.Printf("\nTotal: %d results\n", resp.TotalCount)
	return nil
}
