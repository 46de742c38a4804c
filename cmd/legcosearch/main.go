package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/letmevibethatforyou/legcosearch"
	"github.com/letmevibethatforyou/legcosearch/meetings"
	"github.com/letmevibethatforyou/legcosearch/odata"
)

const defaultTimeout = 30 * time.Second

func main() {
	app := &cli.App{
		Name:  "legcosearch",
		Usage: "Query the Hong Kong Legislative Council open data APIs",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Timeout for the upstream request",
				EnvVars: []string{"LEGCO_TIMEOUT"},
				Value:   defaultTimeout,
			},
			&cli.StringFlag{
				Name:    "user-agent",
				Usage:   "Identifying User-Agent header sent upstream",
				EnvVars: []string{"LEGCO_USER_AGENT"},
			},
		},
		Commands: []*cli.Command{
			votingCommand(),
			billsCommand(),
			questionsCommand(),
			hansardCommand(),
			meetingsCommand(),
			toolsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// pageFlags are the pagination and format flags shared by the OData-backed
// commands.
func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "top",
			Usage: "Number of records to return (1-1000)",
			Value: legcosearch.DefaultTop,
		},
		&cli.IntFlag{
			Name:  "skip",
			Usage: "Number of records to skip",
			Value: 0,
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Reply format: json or xml",
			Value: "json",
		},
	}
}

func pageFromFlags(c *cli.Context) legcosearch.Page {
	return legcosearch.Page{
		Top:    c.Int("top"),
		Skip:   c.Int("skip"),
		Format: legcosearch.Format(c.String("format")),
	}
}

func votingCommand() *cli.Command {
	return &cli.Command{
		Name:  "voting",
		Usage: "Search voting results from Council and committee meetings",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "meeting-type", Usage: "Meeting type, e.g. 'Council Meeting'"},
			&cli.StringFlag{Name: "start-date", Usage: "Start date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "end-date", Usage: "End date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "member", Usage: "Member name (partial match)"},
			&cli.StringFlag{Name: "motion", Usage: "Keywords in motion text"},
			&cli.IntFlag{Name: "term", Usage: "Legislative Council term number"},
		}, pageFlags()...),
		Action: func(c *cli.Context) error {
			return runSearch(c, legcosearch.VotingRequest{
				MeetingType:    c.String("meeting-type"),
				StartDate:      c.String("start-date"),
				EndDate:        c.String("end-date"),
				MemberName:     c.String("member"),
				MotionKeywords: c.String("motion"),
				TermNo:         c.Int("term"),
				Page:           pageFromFlags(c),
			})
		},
	}
}

func billsCommand() *cli.Command {
	return &cli.Command{
		Name:  "bills",
		Usage: "Search bills from the bills database",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "Keywords in bill titles"},
			&cli.IntFlag{Name: "gazette-year", Usage: "Year the bill was gazetted"},
			&cli.StringFlag{Name: "gazette-start-date", Usage: "Gazette start date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "gazette-end-date", Usage: "Gazette end date (YYYY-MM-DD)"},
		}, pageFlags()...),
		Action: func(c *cli.Context) error {
			return runSearch(c, legcosearch.BillsRequest{
				TitleKeywords:    c.String("title"),
				GazetteYear:      c.Int("gazette-year"),
				GazetteStartDate: c.String("gazette-start-date"),
				GazetteEndDate:   c.String("gazette-end-date"),
				Page:             pageFromFlags(c),
			})
		},
	}
}

func questionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "questions",
		Usage: "Search questions raised at Council meetings",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "type", Usage: "Question type: oral or written", Value: "oral"},
			&cli.StringFlag{Name: "subject", Usage: "Keywords in question subjects"},
			&cli.StringFlag{Name: "member", Usage: "Name of the asking member (partial match)"},
			&cli.StringFlag{Name: "meeting-date", Usage: "Meeting date (YYYY-MM-DD)"},
			&cli.IntFlag{Name: "year", Usage: "Meeting year"},
		}, pageFlags()...),
		Action: func(c *cli.Context) error {
			return runSearch(c, legcosearch.QuestionsRequest{
				QuestionType:    c.String("type"),
				SubjectKeywords: c.String("subject"),
				MemberName:      c.String("member"),
				MeetingDate:     c.String("meeting-date"),
				Year:            c.Int("year"),
				Page:            pageFromFlags(c),
			})
		},
	}
}

func hansardCommand() *cli.Command {
	return &cli.Command{
		Name:  "hansard",
		Usage: "Search the Hansard official records of proceedings",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "type", Usage: "Record type: hansard, questions, bills, motions or voting", Value: "hansard"},
			&cli.StringFlag{Name: "subject", Usage: "Keywords in record subjects"},
			&cli.StringFlag{Name: "speaker", Usage: "Speaker name (exact match)"},
			&cli.StringFlag{Name: "meeting-date", Usage: "Meeting date (YYYY-MM-DD)"},
			&cli.IntFlag{Name: "year", Usage: "Meeting year"},
			&cli.StringFlag{Name: "question-type", Usage: "For questions: Oral, Written or Urgent"},
		}, pageFlags()...),
		Action: func(c *cli.Context) error {
			return runSearch(c, legcosearch.HansardRequest{
				HansardType:     c.String("type"),
				SubjectKeywords: c.String("subject"),
				Speaker:         c.String("speaker"),
				MeetingDate:     c.String("meeting-date"),
				Year:            c.Int("year"),
				QuestionType:    c.String("question-type"),
				Page:            pageFromFlags(c),
			})
		},
	}
}

func meetingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "meetings",
		Usage: "List Council meeting summaries scraped from the LegCo website",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Usage: "Keep only meetings in this year"},
			&cli.StringFlag{Name: "date", Usage: "Keep only the meeting on this date (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context

			opts := []meetings.Option{}
			if ua := c.String("user-agent"); ua != "" {
				opts = append(opts, meetings.WithUserAgent(ua))
			}
			scraper := meetings.NewScraper(opts...)

			req := legcosearch.MeetingSummaryRequest{
				Year: c.Int("year"),
				Date: c.String("date"),
			}

			slog.InfoContext(ctx, "fetching meeting summaries",
				"year", req.Year,
				"date", req.Date,
			)

			summaries, err := scraper.Fetch(ctx, req)
			if err != nil {
				return fmt.Errorf("meeting summaries failed: %w", err)
			}
			return printJSON(map[string]any{"meetings": summaries})
		},
	}
}

func toolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "List the registered search operations",
		Action: func(c *cli.Context) error {
			type tool struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			}
			tools := make([]tool, 0, len(legcosearch.Operations()))
			for _, op := range legcosearch.Operations() {
				tools = append(tools, tool{Name: op.Name, Description: op.Description})
			}
			return printJSON(tools)
		},
	}
}

func runSearch(c *cli.Context, req legcosearch.Request) error {
	ctx := c.Context

	timeout := c.Duration("timeout")
	if timeout <= 0 {
		slog.WarnContext(ctx, "timeout must be positive; using default", "timeout", timeout, "default", defaultTimeout)
		timeout = defaultTimeout
	}

	opts := []odata.Option{odata.WithTimeout(timeout)}
	if ua := c.String("user-agent"); ua != "" {
		opts = append(opts, odata.WithUserAgent(ua))
	}

	client := odata.NewClient(opts...)
	defer client.CloseIdleConnections()

	searcher := odata.NewSearcher(client)

	slog.InfoContext(ctx, "executing search",
		"operation", c.Command.Name,
		"timeout", timeout,
	)

	result, err := searcher.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return printJSON(result)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
