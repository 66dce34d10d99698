package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cmu-l3/metagen/cmds"
	"github.com/cmu-l3/metagen/generators"
	"github.com/cmu-l3/metagen/logs"
	"github.com/cmu-l3/metagen/modes"
	"github.com/cmu-l3/metagen/searches"
	"github.com/reusee/dscope"
	"golang.org/x/term"
)

var (
	specFlag = cmds.Var[string]("-spec")
	nFlag    = cmds.Var[int]("-n")
)

var strategy = "tree"

func init() {
	cmds.Define("tree", cmds.Func(func() {
		strategy = "tree"
	}).Desc("tree search with REBASE expansion"))
	cmds.Define("best-of", cmds.Func(func() {
		strategy = "best-of"
	}).Desc("best of n independent samples"))
	cmds.Define("mbr", cmds.Func(func() {
		strategy = "mbr"
	}).Desc("minimum Bayes risk decoding"))
	cmds.Define("repair", cmds.Func(func() {
		strategy = "repair"
	}).Desc("single-chain self-repair"))
}

func main() {
	cmds.Execute(os.Args[1:])
	ctx := context.Background()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	scope.Call(func(
		logger logs.Logger,
		newSearch searches.NewSearch,
		width searches.ExpansionWidth,
	) {
		task := readTask()

		search, err := newSearch()
		ce(err)

		n := *nFlag
		if n == 0 {
			n = int(width)
		}

		logger.InfoContext(ctx, "search",
			"strategy", strategy,
			"model", search.Generator.Args().Model,
		)

		var result searches.Result
		switch strategy {
		case "tree":
			result, err = search.Tree(ctx, task)
		case "best-of":
			result, err = search.BestOf(ctx, task, n)
		case "mbr":
			result, err = search.MBR(ctx, task, n)
		case "repair":
			result, err = search.Repair(ctx, task)
		}
		ce(err)

		logger.InfoContext(ctx, "search finished",
			"solved", result.Solved,
			"iterations", result.Iterations,
			"score", result.Best.Score,
		)

		// the trajectory goes to the log, the program to stdout
		if result.Best.State != nil {
			for i, content := range result.Best.State.Contents() {
				for _, part := range content.Parts {
					if text, ok := part.(generators.Text); ok {
						logger.DebugContext(ctx, "trajectory turn",
							"index", i,
							"role", content.Role,
							"text", string(text),
						)
					}
				}
			}
		}

		fmt.Println(result.Best.Program)

		if !result.Solved {
			os.Exit(1)
		}
	})
}

func readTask() string {
	if *specFlag != "" {
		content, err := os.ReadFile(*specFlag)
		ce(err)
		return string(content)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		content, err := io.ReadAll(os.Stdin)
		ce(err)
		return string(content)
	}
	fmt.Fprintln(os.Stderr, "no task: pass -spec <file> or pipe the specification to stdin")
	os.Exit(1)
	return ""
}

func ce(err error) {
	if err != nil {
		panic(err)
	}
}
