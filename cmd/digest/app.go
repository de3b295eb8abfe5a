package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"doc-digest/internal/app"
	"doc-digest/internal/summarizer"
)

type builder func(c *cli.Context) (app.Deps, error)

func newApp(build builder, in io.Reader, out io.Writer) *cli.App {
	questionFlags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "ask",
			Aliases: []string{"q"},
			Usage:   "question to answer from the document (repeatable)",
		},
		&cli.BoolFlag{
			Name:    "interactive",
			Aliases: []string{"i"},
			Usage:   "read questions from stdin until EOF or \"exit\"",
		},
	}

	return &cli.App{
		Name:      "digest",
		Usage:     "summarize a web page or PDF and ask questions about it",
		Reader:    in,
		Writer:    out,
		ErrWriter: os.Stderr,
		// main owns the exit code; the default handler calls os.Exit.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
				Usage:   "debug, info, warn or error; logs go to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "url",
				Usage:     "summarize a web page",
				ArgsUsage: "<URL>",
				Flags:     questionFlags,
				Action: summarizeAction(build, in, out, func(c *cli.Context, core *summarizer.Core, arg string) (string, string, error) {
					summary, retained := core.SummarizeWebsite(c.Context, arg)
					return summary, retained, nil
				}),
			},
			{
				Name:      "pdf",
				Usage:     "summarize a PDF file",
				ArgsUsage: "<FILE>",
				Flags:     questionFlags,
				Action: summarizeAction(build, in, out, func(c *cli.Context, core *summarizer.Core, arg string) (string, string, error) {
					data, err := os.ReadFile(arg)
					if err != nil {
						return "", "", err
					}
					summary, retained := core.SummarizePDF(c.Context, data)
					return summary, retained, nil
				}),
			},
			{
				Name:  "cache",
				Usage: "manage the result cache",
				Subcommands: []*cli.Command{
					{
						Name:   "purge",
						Usage:  "delete every cached summary and answer",
						Action: purgeAction(build, out),
					},
				},
			},
		},
	}
}

type summarizeFunc func(c *cli.Context, core *summarizer.Core, arg string) (summary, retained string, err error)

func summarizeAction(build builder, in io.Reader, out io.Writer, run summarizeFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit(fmt.Sprintf("usage: %s %s %s", c.App.Name, c.Command.Name, c.Command.ArgsUsage), 2)
		}
		deps, err := build(c)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to build dependencies: %v", err), 1)
		}
		defer deps.Close()
		core := summarizer.NewCore(deps.Summarizer)

		summary, retained, err := run(c, core, c.Args().First())
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Fprintf(out, "Summary:\n%s\n", summary)
		// A successful summarize always retains some context.
		if retained == "" {
			return cli.Exit("", 1)
		}

		for _, q := range c.StringSlice("ask") {
			writeAnswer(out, q, core.AnswerQuestion(c.Context, q, retained))
		}
		if c.Bool("interactive") {
			return askLoop(c, core, retained, in, out)
		}
		return nil
	}
}

func askLoop(c *cli.Context, core *summarizer.Core, retained string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, "\nQuestion> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		q := scanner.Text()
		switch strings.ToLower(strings.TrimSpace(q)) {
		case "exit", "quit":
			return nil
		}
		if err := c.Context.Err(); err != nil {
			return err
		}
		writeAnswer(out, q, core.AnswerQuestion(c.Context, q, retained))
	}
}

func writeAnswer(out io.Writer, question, answer string) {
	fmt.Fprintf(out, "\nQ: %s\nAnswer:\n%s\n", strings.TrimSpace(question), answer)
}

func purgeAction(build builder, out io.Writer) cli.ActionFunc {
	return func(c *cli.Context) error {
		deps, err := build(c)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to build dependencies: %v", err), 1)
		}
		defer deps.Close()

		n, err := deps.Cache.Purge(c.Context)
		if err != nil {
			return cli.Exit(fmt.Sprintf("purge failed: %v", err), 1)
		}
		fmt.Fprintf(out, "removed %d cached results\n", n)
		return nil
	}
}
