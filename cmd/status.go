package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	statusadapter "github.com/bnema/acs/internal/adapters/render/status"
	"github.com/bnema/acs/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const statusQueryConcurrency = 4

type statusResult struct {
	Address string         `json:"address"`
	Port    int            `json:"port"`
	Outcome domain.Outcome `json:"outcome"`
}

func newStatusCmd(loadApp appLoader) *cobra.Command {
	var (
		port   int
		asJSON bool
	)

	statusCmd := &cobra.Command{
		Use:   "status <address>...",
		Short: "Query the public status of one or more Minecraft servers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if port < 0 || port > 65535 {
				return fmt.Errorf("invalid --port %d", port)
			}

			app, err := loadApp(cmd)
			if err != nil {
				return err
			}

			results := make([]statusResult, len(args))
			query := func(ctx context.Context, report func(address string)) error {
				group, groupCtx := errgroup.WithContext(ctx)
				group.SetLimit(statusQueryConcurrency)
				for i, address := range args {
					group.Go(func() error {
						results[i] = statusResult{
							Address: address,
							Port:    effectivePort(port),
							Outcome: app.status.Query(groupCtx, address, port),
						}
						report(address)
						return nil
					})
				}
				return group.Wait()
			}

			if asJSON {
				if err := query(cmd.Context(), func(string) {}); err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			if err := runStatusProgress(cmd.Context(), cmd.ErrOrStderr(), args, query); err != nil {
				return err
			}

			checkedAt := app.now()
			entries := make([]statusadapter.Entry, 0, len(results))
			for _, result := range results {
				entries = append(entries, statusadapter.Entry{
					Address:   result.Address,
					Port:      result.Port,
					Outcome:   result.Outcome,
					CheckedAt: checkedAt,
				})
			}

			rendered, err := app.statusRenderer(entries, statusadapter.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	statusCmd.Flags().IntVar(&port, "port", domain.DefaultStatusPort, "query port")
	statusCmd.Flags().BoolVar(&asJSON, "json", false, "print outcomes as JSON")

	return statusCmd
}

func effectivePort(port int) int {
	if port <= 0 {
		return domain.DefaultStatusPort
	}
	return port
}
