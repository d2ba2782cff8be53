package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"datasync/core/channel"
	"datasync/feature/contacts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for sync contacts command
	completionMode  string
	continueOnError bool
	twoWay          bool
	yesConfirm      bool
)

// syncCmd is the parent command for one-shot synchronization runs.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a synchronization once and exit",
}

// contactsSyncCmd synchronizes contacts once.
var contactsSyncCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Synchronize contacts between object storage and the database",
	Long: `Synchronize contacts between object storage and the database.

Remote contacts missing locally are created, linked local contacts take the remote name.
With --two-way, unlinked local contacts are published to the bucket.

Examples:
  # One-way run with configured settings
  sync contacts

  # Publish local contacts too (asks for confirmation)
  sync contacts --two-way

  # Keep going when single items fail
  sync contacts --continue-on-error --completion none`,
	RunE: runContactsSync,
}

func init() {
	syncCmd.AddCommand(contactsSyncCmd)

	contactsSyncCmd.Flags().StringVar(&completionMode, "completion", "", "Override completion mode (none, each, batch)")
	contactsSyncCmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Count faulting actions as failed instead of aborting")
	contactsSyncCmd.Flags().BoolVar(&twoWay, "two-way", false, "Publish unlinked local contacts to the bucket")
	contactsSyncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm writes to the bucket (non-interactive)")

	RootCmd.AddCommand(syncCmd)
}

func runContactsSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	l := rt.logger
	defer l.Sync()

	if completionMode != "" {
		rt.cfg.Sync.Completion = completionMode
	}
	if continueOnError {
		rt.cfg.Sync.ContinueOnDispatchError = true
	}

	contactsCfg := rt.cfg.Contacts
	if twoWay {
		contactsCfg.TwoWay = true
	}
	if contactsCfg.TwoWay && !confirmRemoteWrites() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	svc, err := rt.contactsService(contactsCfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	svc.Channel().OnMatched(func(m contacts.Match) {
		l.Debug("Matched contacts", zap.Stringer("match", m))
	})

	l.Info("Starting contact synchronization",
		zap.String("completion", channel.ParseCompletion(rt.cfg.Sync.Completion).String()),
		zap.Bool("two_way", contactsCfg.TwoWay))

	stats, ran, err := svc.Synchronize(ctx)
	if err != nil {
		return fmt.Errorf("contact synchronization failed: %w", err)
	}
	if !ran {
		l.Warn("A synchronization is already running")
		return nil
	}

	printSyncReport(l, stats)
	return nil
}

// printSyncReport prints the counters of a finished run using logger.
func printSyncReport(l *zap.Logger, stats channel.Stats) {
	l.Info("Synchronization report",
		zap.String("run_id", stats.RunID),
		zap.Int("processed", stats.ItemsProcessed),
		zap.Int("synchronized", stats.ItemsSynchronized),
		zap.Int("failed", stats.ItemsFailed),
		zap.Duration("duration", stats.Duration()),
	)
}

// confirmRemoteWrites asks before writing to the bucket.
func confirmRemoteWrites() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Two-way mode writes to the bucket. Type 'yes' to continue: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
