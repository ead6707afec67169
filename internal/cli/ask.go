package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"licensing-map/internal/agent"
	"licensing-map/internal/catalogstore"
)

// RunAsk handles the 'ask' command. Without an agent it prints the
// unavailable message instead of failing.
func RunAsk(ctx context.Context, st *catalogstore.Store, a *agent.Agent, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	question := fs.String("question", "", "The licensing question to ask (required)")
	bundleList := fs.String("bundles", "", "Comma-separated bundle ids to use as context (default: every bundle)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	q := strings.TrimSpace(*question)
	if q == "" && fs.NArg() > 0 {
		q = strings.Join(fs.Args(), " ")
	}
	if q == "" {
		fs.Usage()
		return fmt.Errorf("error: --question flag is required")
	}

	bundles := st.Bundles()
	if *bundleList != "" {
		bundles = selectBundles(st, *bundleList)
	}

	fmt.Println(a.Ask(ctx, q, agent.PlanContext(bundles)))
	return nil
}
