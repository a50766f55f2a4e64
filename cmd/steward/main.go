package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/promptops/steward"
	"github.com/promptops/steward/runtime/orchestrator"
)

type flags struct {
	goal       string
	configURL  string
	prompt     string
	promptFile string
	trace      string
	debug      bool
	resume     bool
}

func main() {
	options := &flags{}
	cmd := &cobra.Command{
		Use:   "steward",
		Short: "Goal-driven prompt stewardship over a conversation backend",
		Long: `Steward takes a free-text goal, inspects recent conversations, evaluates
response quality and, when the scores warrant it, files a prompt-update
request that a human approves or rejects with the approver tool.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), options)
		},
	}
	cmd.Flags().StringVarP(&options.goal, "goal", "g", "", "goal to execute; omit for an interactive session")
	cmd.Flags().StringVarP(&options.configURL, "config", "c", "", "YAML configuration location")
	cmd.Flags().StringVar(&options.prompt, "prompt", "", "prompt text proposed in update requests")
	cmd.Flags().StringVar(&options.promptFile, "prompt-file", "", "file holding the proposed prompt text")
	cmd.Flags().StringVar(&options.trace, "trace", "", "write spans to this file")
	cmd.Flags().BoolVar(&options.debug, "debug", false, "include decision details in the output")
	cmd.Flags().BoolVar(&options.resume, "resume", false, "only execute approved pending updates, then exit")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, options *flags) error {
	_ = godotenv.Load()

	config, err := loadConfig(ctx, options)
	if err != nil {
		return err
	}
	promptText, err := loadPrompt(ctx, options)
	if err != nil {
		return err
	}

	var orchestratorOptions []orchestrator.Option
	if promptText != "" {
		orchestratorOptions = append(orchestratorOptions, orchestrator.WithPromptText(promptText))
	}
	if options.debug {
		orchestratorOptions = append(orchestratorOptions, orchestrator.WithDebug(true))
	}
	service, err := steward.New(
		steward.WithConfig(config),
		steward.WithOrchestratorOptions(orchestratorOptions...),
	)
	if err != nil {
		return err
	}

	if options.resume {
		lines, err := service.ProcessApproved(ctx)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			fmt.Println("No approved updates waiting.")
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	}
	if options.goal != "" {
		return execute(ctx, service, options.goal)
	}
	return interact(ctx, service)
}

func loadConfig(ctx context.Context, options *flags) (*steward.Config, error) {
	if options.configURL == "" {
		config := steward.DefaultConfig()
		if options.trace != "" {
			config.Tracing = steward.TracingConfig{Enabled: true, OutputFile: options.trace}
		}
		return config, nil
	}
	config, err := steward.LoadConfig(ctx, options.configURL)
	if err != nil {
		return nil, err
	}
	if options.trace != "" {
		config.Tracing = steward.TracingConfig{Enabled: true, OutputFile: options.trace}
	}
	return config, nil
}

func loadPrompt(ctx context.Context, options *flags) (string, error) {
	if options.promptFile == "" {
		return options.prompt, nil
	}
	data, err := afs.New().DownloadWithURL(ctx, options.promptFile)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", options.promptFile, err)
	}
	return string(data), nil
}

func execute(ctx context.Context, service *steward.Service, goal string) error {
	outcome := service.Execute(ctx, goal)
	for _, line := range outcome.Transcript {
		fmt.Println(line)
	}
	fmt.Printf("Status: %s\n", outcome.Status)
	if outcome.Status == orchestrator.StatusWaitingApproval {
		fmt.Printf("Approve with: approver --approve %s\n", outcome.ApprovalID)
	}
	return outcome.Err
}

func interact(ctx context.Context, service *steward.Service) error {
	fmt.Println("Enter a goal (or 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		goal := strings.TrimSpace(scanner.Text())
		switch goal {
		case "":
			continue
		case "quit", "exit":
			return nil
		}
		if err := execute(ctx, service, goal); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}
