// Command wizard is the terminal front end for the report API: it walks the
// multi-step input form, submits a generation task, polls it to completion,
// and saves the finished PDF into the current directory.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"account-research-report/internal/client"
	"account-research-report/internal/config"
	"account-research-report/internal/models"
	"account-research-report/internal/poller"
	"account-research-report/internal/profile"
	"account-research-report/internal/viewer"
	"account-research-report/internal/wizard"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	in := bufio.NewScanner(os.Stdin)
	apiClient := client.New(cfg.Client.ServerURL)

	profiles, err := profile.DefaultStore()
	if err != nil {
		log.Fatalf("Failed to resolve profile store: %v", err)
	}

	taskID, err := runWizard(ctx, in, apiClient)
	if err != nil {
		log.Fatalf("Submission failed: %v", err)
	}
	fmt.Printf("\nTask created: %s\n", taskID)

	// Profile gate: polling stays blocked until a requester profile exists
	if !profiles.Exists() {
		if err := captureProfile(in, profiles); err != nil {
			log.Fatalf("Failed to capture profile: %v", err)
		}
	}

	p := poller.New(apiClient, profiles, taskID,
		poller.WithInterval(cfg.Client.PollInterval),
		poller.WithOnCompleted(func(id string) {
			fmt.Printf("\nReport ready for task %s\n", id)
		}),
		poller.WithOnFailed(func(msg string) {
			fmt.Printf("\n%s\n", msg)
		}),
	)

	fmt.Println("Waiting for the report...")
	go func() {
		// Progress feedback rides on the same snapshots the poller acts on
		ticker := time.NewTicker(cfg.Client.PollInterval)
		defer ticker.Stop()
		var lastStage poller.Stage
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if p.State().Terminal() {
				return
			}
			if st := p.Stage(); st != lastStage {
				fmt.Printf("  %s...\n", st)
				lastStage = st
			}
		}
	}()

	finalState, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("Polling interrupted: %v", err)
	}
	if finalState != poller.StateCompleted {
		os.Exit(1)
	}

	v := viewer.New(apiClient, taskID)
	defer v.Close()
	if err := v.Load(ctx); err != nil {
		log.Fatalf("Failed to fetch report: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Failed to resolve working directory: %v", err)
	}
	path, err := v.SaveTo(cwd)
	if err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}
	fmt.Printf("Saved %s\n", path)
}

// runWizard walks the three form steps and submits the draft
func runWizard(ctx context.Context, in *bufio.Scanner, apiClient *client.Client) (string, error) {
	w := wizard.New()

	for {
		switch w.Step() {
		case wizard.StepTargetCompany:
			w.SetTargetCompany(prompt(in, "Target company name"))
			if msg := w.FieldError(wizard.FieldTargetCompany); msg != "" {
				fmt.Println(msg)
				continue
			}
		case wizard.StepAboutYou:
			w.SetUserCompany(prompt(in, "Your company name"))
			if msg := w.FieldError(wizard.FieldUserCompany); msg != "" {
				fmt.Println(msg)
				continue
			}
		case wizard.StepOptions:
			w.SetLanguage(chooseLanguage(in))
			if msg := w.FieldError(wizard.FieldLanguage); msg != "" {
				fmt.Println(msg)
				continue
			}
			w.SetSections(chooseSections(in))
			if msg := w.FieldError(wizard.FieldSections); msg != "" {
				fmt.Println(msg)
				continue
			}
			return submit(ctx, w, apiClient)
		}

		if err := w.Next(); err != nil {
			fmt.Println(err)
		}
	}
}

func submit(ctx context.Context, w *wizard.Wizard, apiClient *client.Client) (string, error) {
	var taskID string
	err := w.Submit(ctx, func(ctx context.Context, input models.GenerateRequest) error {
		id, err := apiClient.CreateTask(ctx, input)
		if err != nil {
			return err
		}
		taskID = id
		return nil
	})
	return taskID, err
}

func captureProfile(in *bufio.Scanner, store *profile.Store) error {
	fmt.Println("\nBefore tracking your report, tell us who you are.")
	for {
		p := &models.RequesterProfile{
			Name:        prompt(in, "Your name"),
			Email:       prompt(in, "Email"),
			Designation: prompt(in, "Designation"),
		}
		if err := store.Save(p); err != nil {
			fmt.Println(err)
			continue
		}
		return nil
	}
}

func chooseLanguage(in *bufio.Scanner) string {
	fmt.Println("Available languages:")
	for i, lang := range models.AvailableLanguages {
		fmt.Printf("  %d: %s\n", i+1, lang)
	}
	raw := prompt(in, fmt.Sprintf("Language (1-%d, empty for %s)", len(models.AvailableLanguages), models.DefaultLanguage))
	if raw == "" {
		return models.DefaultLanguage
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 1 || idx > len(models.AvailableLanguages) {
		return raw // maybe they typed the language name; validation decides
	}
	return models.AvailableLanguages[idx-1]
}

func chooseSections(in *bufio.Scanner) []string {
	fmt.Println("Report sections:")
	for i, s := range models.SectionOrder {
		fmt.Printf("  %d: %s\n", i+1, s.Title)
	}
	raw := prompt(in, "Sections (comma-separated numbers, empty for all)")
	if raw == "" {
		return []string{}
	}

	var ids []string
	for _, part := range strings.Split(raw, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || idx < 1 || idx > len(models.SectionOrder) {
			// Hand the raw token to validation so the error is field-level
			ids = append(ids, strings.TrimSpace(part))
			continue
		}
		ids = append(ids, models.SectionOrder[idx-1].ID)
	}
	return ids
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Printf("%s: ", label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}
