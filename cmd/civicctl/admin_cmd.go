package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/service"
)

func newWatchCmd(a *app) *cobra.Command {
	var statusFilter, categoryFilter string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live admin dashboard: stream report events until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireRole(true); err != nil {
				return err
			}

			if addr := a.cfg.MetricsAddr; addr != "" {
				go func() {
					mux := http.NewServeMux()
					mux.Handle("/metrics", promhttp.Handler())
					if err := http.ListenAndServe(addr, mux); err != nil {
						a.log.Warn().Err(err).Str("addr", addr).Msg("metrics endpoint failed")
					}
				}()
				a.log.Info().Str("addr", addr).Msg("serving metrics")
			}

			dash := service.NewDashboard(a.gw, a.dialer, a.session.Current(), a.log)
			dash.SetStatusFilter(statusFilter)
			dash.SetCategoryFilter(categoryFilter)

			err := dash.Start(cmd.Context(), func(ev domain.LiveEvent) {
				switch ev.Type {
				case domain.EventReportDeleted:
					fmt.Printf("deleted  #%s\n", ev.ReportID)
				case domain.EventReportCreated:
					fmt.Print("created  ")
					printReportLine(ev.Report)
				case domain.EventReportUpdated:
					fmt.Print("updated  ")
					printReportLine(ev.Report)
				}
			})
			if err != nil {
				return err
			}
			defer dash.Stop()

			printDashboard(dash)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			fmt.Println("\nStopping watch.")
			return nil
		},
	}
	cmd.Flags().StringVar(&statusFilter, "status", service.FilterAll, "filter by status (all, new, acknowledged, in_progress, resolved)")
	cmd.Flags().StringVar(&categoryFilter, "category", service.FilterAll, "filter by category (all or a category name)")
	return cmd
}

func printDashboard(dash *service.Dashboard) {
	stats := dash.Stats()
	fmt.Printf("Total: %d   New: %d   In Progress: %d   Resolved: %d\n",
		stats.Total, stats.New, stats.InProgress, stats.Resolved)
	for _, r := range dash.Filtered() {
		printReportLine(&r)
	}
	fmt.Println("--- watching for live updates (Ctrl-C to stop) ---")
}

func newAssignCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <report-id> <department-id>",
		Short: "Assign a report to a department",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(true); err != nil {
				return err
			}
			deptID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("department id must be a number (known: 2=%s, 3=%s, 4=%s)",
					domain.DepartmentName(2), domain.DepartmentName(3), domain.DepartmentName(4))
			}
			dash := service.NewDashboard(a.gw, a.dialer, a.session.Current(), a.log)
			if err := dash.Assign(cmd.Context(), args[0], deptID); err != nil {
				return err
			}
			fmt.Printf("Assigned #%s to %s\n", args[0], domain.DepartmentName(deptID))
			return nil
		},
	}
	return cmd
}

func newSetStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <report-id> <status>",
		Short: "Set a report's status directly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(true); err != nil {
				return err
			}
			dash := service.NewDashboard(a.gw, a.dialer, a.session.Current(), a.log)
			if err := dash.SetStatus(cmd.Context(), args[0], domain.ReportStatus(args[1])); err != nil {
				return err
			}
			fmt.Printf("Status of #%s set to %s\n", args[0], args[1])
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <report-id>",
		Short: "Delete a report (cannot be undone)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(true); err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("refusing to delete without --yes")
			}
			dash := service.NewDashboard(a.gw, a.dialer, a.session.Current(), a.log)
			if err := dash.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted #%s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
