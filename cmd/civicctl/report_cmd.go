package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/ports"
	"github.com/civiclens/portal-client/internal/core/service"
)

func newSubmitCmd(a *app) *cobra.Command {
	var title, description, category, photoPath string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new complaint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := ports.SubmitReportInput{
				Title:       title,
				Description: description,
				Category:    domain.Category(category),
			}
			if photoPath != "" {
				content, err := os.ReadFile(photoPath)
				if err != nil {
					return fmt.Errorf("read photo: %w", err)
				}
				in.Photo = &ports.PhotoAttachment{Filename: filepath.Base(photoPath), Content: content}
			}

			svc := service.NewSubmitService(a.gw, a.locator, a.log)
			report, err := svc.Submit(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Report submitted successfully! ID: %s\n", report.ID)
			fmt.Println("Use this ID to track your complaint status.")
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "complaint title")
	cmd.Flags().StringVar(&description, "description", "", "details of the issue")
	cmd.Flags().StringVar(&category, "category", string(domain.CategoryPothole), "issue category")
	cmd.Flags().StringVar(&photoPath, "photo", "", "path to a photo of the issue")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <report-id>",
		Short: "Track a complaint by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(false); err != nil {
				return err
			}
			view := service.NewStatusView(a.gw, a.session.Current(), a.log)
			report, err := view.Lookup(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s", service.LookupMessage(err))
			}
			printReportDetail(report)
			if voted := view.VotedLevel(); voted != nil {
				fmt.Printf("Your urgency vote: %d\n", *voted)
			}
			return nil
		},
	}
}

func newVoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <report-id> <level>",
		Short: "Vote on a complaint's urgency (1-5)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireRole(false); err != nil {
				return err
			}
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("level must be a number between 1 and 5")
			}

			view := service.NewStatusView(a.gw, a.session.Current(), a.log)
			if _, err := view.Lookup(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("%s", service.LookupMessage(err))
			}
			if !view.CanVote(level) {
				voted := view.VotedLevel()
				if voted != nil && *voted != level {
					return fmt.Errorf("you already voted level %d on this report", *voted)
				}
				return fmt.Errorf("cannot vote level %d", level)
			}

			report, err := view.Vote(cmd.Context(), level)
			if err != nil {
				return err
			}
			fmt.Printf("Vote recorded. Urgency now %s (%.1f/5.0 from %d votes)\n",
				domain.UrgencyLabel(report.UrgencyScore), report.UrgencyScore, report.UrgencyVotes)
			return nil
		},
	}
}

func newReportsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List recent reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireRole(false); err != nil {
				return err
			}
			view := service.NewStatusView(a.gw, a.session.Current(), a.log)
			reports, err := view.ListAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", service.LookupMessage(err))
			}
			for _, r := range reports {
				printReportLine(&r)
			}
			fmt.Printf("%d reports\n", len(reports))
			return nil
		},
	}
	return cmd
}

func printReportLine(r *domain.Report) {
	assigned := ""
	if r.AssignedTo != nil {
		assigned = "  → " + domain.DepartmentName(*r.AssignedTo)
	}
	fmt.Printf("#%s  [%-12s]  %-11s  %s  (%s)%s\n",
		r.ID, r.Status, r.Category, r.Title, domain.UrgencyLabel(r.UrgencyScore), assigned)
}

func printReportDetail(r *domain.Report) {
	fmt.Printf("#%s — %s\n", r.ID, r.Title)
	if r.Description != "" {
		fmt.Println(r.Description)
	}
	fmt.Printf("Category: %s    Status: %s\n", r.Category, r.Status)
	fmt.Printf("Urgency:  %s", domain.UrgencyLabel(r.UrgencyScore))
	if r.UrgencyVotes > 0 {
		fmt.Printf(" (%.1f/5.0 from %d votes)", r.UrgencyScore, r.UrgencyVotes)
	}
	fmt.Println()
	if r.Location != nil {
		fmt.Printf("Location: %.4f, %.4f\n", r.Location.Lat, r.Location.Lng)
	}
	if r.PhotoURL != "" {
		fmt.Println("Photo:   ", r.PhotoURL)
	}
	fmt.Println("\nTimeline:")
	for _, step := range service.Timeline(r) {
		if step.Detail != "" {
			fmt.Printf("  • %s — %s\n", step.Label, step.Detail)
		} else {
			fmt.Printf("  • %s\n", step.Label)
		}
	}
}
