package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/promptops/steward"
	"github.com/promptops/steward/service/approval"
	approvalfs "github.com/promptops/steward/service/approval/fs"
)

type flags struct {
	location string
	list     bool
	show     string
	approve  string
	reject   string
	notes    string
}

func main() {
	options := &flags{}
	cmd := &cobra.Command{
		Use:          "approver",
		Short:        "Review and decide pending prompt-update requests",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), options)
		},
	}
	cmd.Flags().StringVar(&options.location, "location", "", "approval store location (default approval_requests)")
	cmd.Flags().BoolVarP(&options.list, "list", "l", false, "list pending requests")
	cmd.Flags().StringVar(&options.show, "show", "", "show the full request with this id")
	cmd.Flags().StringVarP(&options.approve, "approve", "a", "", "approve the request with this id")
	cmd.Flags().StringVarP(&options.reject, "reject", "r", "", "reject the request with this id")
	cmd.Flags().StringVarP(&options.notes, "notes", "n", "", "reviewer notes recorded with the decision")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, options *flags) error {
	_ = godotenv.Load()
	location := options.location
	if location == "" {
		location = os.Getenv("STEWARD_APPROVAL_LOCATION")
	}
	if location == "" {
		location = steward.DefaultApprovalLocation
	}
	store, err := approvalfs.New(location)
	if err != nil {
		return err
	}

	switch {
	case options.show != "":
		return show(ctx, store, options.show)
	case options.approve != "":
		return decide(ctx, store, options.approve, approval.StatusApproved, options.notes)
	case options.reject != "":
		return decide(ctx, store, options.reject, approval.StatusRejected, options.notes)
	default:
		return list(ctx, store)
	}
}

func list(ctx context.Context, store approval.Service) error {
	pending, err := store.ListPending(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("No pending approval requests.")
		return nil
	}
	fmt.Printf("%d pending request(s):\n\n", len(pending))
	for i, request := range pending {
		fmt.Printf("%d. %s\n", i+1, request.ID)
		fmt.Printf("   Action:  %s\n", request.Action)
		if reason, ok := request.Args["reason"].(string); ok {
			fmt.Printf("   Reason:  %s\n", reason)
		}
		if prompt, ok := request.Args["prompt_text"].(string); ok {
			fmt.Printf("   Prompt:  %s\n", preview(prompt, 50))
		}
		fmt.Printf("   Created: %s\n\n", request.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func show(ctx context.Context, store approval.Service, id string) error {
	request, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("ID:        %s\n", request.ID)
	fmt.Printf("Action:    %s\n", request.Action)
	fmt.Printf("Status:    %s\n", request.Status)
	fmt.Printf("Processed: %v\n", request.Processed)
	if request.Notes != "" {
		fmt.Printf("Notes:     %s\n", request.Notes)
	}
	fmt.Printf("Created:   %s\n", request.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated:   %s\n", request.UpdatedAt.Format("2006-01-02 15:04:05"))
	if reason, ok := request.Args["reason"].(string); ok {
		fmt.Printf("Reason:    %s\n", reason)
	}
	if prompt, ok := request.Args["prompt_text"].(string); ok {
		fmt.Printf("\nProposed prompt:\n%s\n", prompt)
	}
	return nil
}

func decide(ctx context.Context, store approval.Service, id string, status approval.Status, notes string) error {
	request, err := store.Decide(ctx, id, status, notes)
	if err != nil {
		return err
	}
	fmt.Printf("Request %s %s.\n", request.ID, request.Status)
	if status == approval.StatusApproved {
		fmt.Println("The update will be executed on the next steward run.")
	}
	return nil
}

func preview(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
