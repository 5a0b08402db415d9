package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/legalpulse/internal/app"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

func parseID(kind, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", kind, s, err)
	}
	return id, nil
}

// embed command
var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Maintain contract embeddings",
}

var embedSyncCmd = &cobra.Command{
	Use:   "sync [contract-id]",
	Short: "Embed changed contracts, or one contract",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *app.Container) error {
			if len(args) == 1 {
				id, err := parseID("contract", args[0])
				if err != nil {
					return err
				}
				res, err := c.Embedding.SyncByID(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d chunks)\n", id, res.Outcome, res.Chunks)
				return nil
			}

			sum, err := c.Embedding.SyncPending(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "embedded %d contracts (%d chunks), %d unchanged, %d skipped, %d errors\n",
				sum.Embedded, sum.Chunks, sum.Unchanged, sum.Skipped, sum.Errors)
			return nil
		})
	},
}

var embedRemoveCmd = &cobra.Command{
	Use:   "remove <contract-id>",
	Short: "Delete all chunks of a contract from the vector index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("contract", args[0])
		if err != nil {
			return err
		}
		return withContainer(func(ctx context.Context, c *app.Container) error {
			if err := c.Embedding.RemoveContract(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed chunks of %s\n", id)
			return nil
		})
	},
}

// queue command
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect and repair the notification queue",
}

var queueStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show event counts by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *app.Container) error {
			st, err := c.Queue.Stats(ctx)
			if err != nil {
				return err
			}
			w := newTable(cmd)
			fmt.Fprintln(w, "QUEUED\tPROCESSING\tSENT\tFAILED\tTOTAL")
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\n", st.Queued, st.Processing, st.Sent, st.Failed, st.Total)
			return w.Flush()
		})
	},
}

var queuePendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List queued events of one digest mode grouped by user",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		return withContainer(func(ctx context.Context, c *app.Container) error {
			batches, err := c.Queue.Pending(ctx, domain.DigestMode(mode))
			if err != nil {
				return err
			}
			w := newTable(cmd)
			fmt.Fprintln(w, "USER	EVENTS	OLDEST	KINDS")
			for _, b := range batches {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", b.UserID, len(b.Events), oldestQueued(b), eventKinds(b))
			}
			return w.Flush()
		})
	},
}

func oldestQueued(b domain.UserBatch) string {
	if len(b.Events) == 0 {
		return "-"
	}
	return b.Events[0].QueuedAt.UTC().Format(time.RFC3339)
}

func eventKinds(b domain.UserBatch) string {
	var laws, status int
	for _, ev := range b.Events {
		if ev.SubjectType == domain.SubjectTypeLawAlert {
			laws++
		} else {
			status++
		}
	}
	return fmt.Sprintf("%d law, %d status", laws, status)
}

var queueRetryCmd = &cobra.Command{
	Use:   "retry-failed",
	Short: "Return failed events to the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *app.Container) error {
			n, err := c.Queue.RetryFailed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requeued %d failed events\n", n)
			return nil
		})
	},
}

var queueResetCmd = &cobra.Command{
	Use:   "reset-stale",
	Short: "Return events stuck in processing to the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		return withContainer(func(ctx context.Context, c *app.Container) error {
			n, err := c.Queue.ResetStale(ctx, olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %d stale events\n", n)
			return nil
		})
	},
}

// contract command
var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Manual contract lifecycle operations",
}

var contractHistoryCmd = &cobra.Command{
	Use:   "history <contract-id>",
	Short: "Show a contract's status history, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("contract", args[0])
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		return withContainer(func(ctx context.Context, c *app.Container) error {
			recs, err := c.Lifecycle.History(ctx, id, limit)
			if err != nil {
				return err
			}
			w := newTable(cmd)
			fmt.Fprintln(w, "AT\tFROM\tTO\tREASON\tEXPIRY\tNOTES")
			for _, r := range recs {
				notes := ""
				if r.Notes != nil {
					notes = *r.Notes
				}
				expiry := "-"
				if r.NewExpiry != nil {
					expiry = r.NewExpiry.Format(time.DateOnly)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.CreatedAt.UTC().Format(time.RFC3339), r.OldStatus, r.NewStatus, r.Reason, expiry, notes)
			}
			return w.Flush()
		})
	},
}

var contractSetStatusCmd = &cobra.Command{
	Use:   "set-status <contract-id> <status>",
	Short: "Set a contract's status by hand (aktiv, bald_ablaufend, abgelaufen, gekündigt)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("contract", args[0])
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")
		return withContainer(func(ctx context.Context, c *app.Container) error {
			changed, err := c.Lifecycle.UpdateStatus(ctx, id, domain.ContractStatus(args[1]), notes)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), "status unchanged")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", id, args[1])
			return nil
		})
	},
}

// settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change a user's notification settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show effective notification settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("user", args[0])
		if err != nil {
			return err
		}
		return withContainer(func(ctx context.Context, c *app.Container) error {
			st, err := c.Settings.Get(ctx, id)
			if err != nil {
				return err
			}
			printSettings(cmd, st)
			return nil
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <user-id>",
	Short: "Change notification settings; unset flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("user", args[0])
		if err != nil {
			return err
		}

		var patch domain.SettingsPatch
		flags := cmd.Flags()
		if flags.Changed("enabled") {
			v, _ := flags.GetBool("enabled")
			patch.Enabled = &v
		}
		if flags.Changed("threshold") {
			v, _ := flags.GetFloat64("threshold")
			patch.SimilarityThreshold = &v
		}
		if flags.Changed("categories") {
			v, _ := flags.GetStringSlice("categories")
			patch.Categories = &v
		}
		if flags.Changed("digest-mode") {
			v, _ := flags.GetString("digest-mode")
			mode := domain.DigestMode(v)
			patch.DigestMode = &mode
		}
		if flags.Changed("email") {
			v, _ := flags.GetBool("email")
			patch.EmailNotifications = &v
		}

		return withContainer(func(ctx context.Context, c *app.Container) error {
			st, err := c.Settings.Update(ctx, id, patch)
			if err != nil {
				return err
			}
			printSettings(cmd, st)
			return nil
		})
	},
}

var settingsUnsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <token>",
	Short: "Turn off email notifications using a signed unsubscribe token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(ctx context.Context, c *app.Container) error {
			id, err := c.Settings.Unsubscribe(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "email notifications off for %s\n", id)
			return nil
		})
	},
}

func printSettings(cmd *cobra.Command, st domain.NotificationSettings) {
	w := newTable(cmd)
	fmt.Fprintf(w, "user\t%s\n", st.UserID)
	fmt.Fprintf(w, "enabled\t%t\n", st.Enabled)
	fmt.Fprintf(w, "threshold\t%.2f\n", st.SimilarityThreshold)
	categories := "(all)"
	if len(st.Categories) > 0 {
		categories = strings.Join(st.Categories, ", ")
	}
	fmt.Fprintf(w, "categories\t%s\n", categories)
	fmt.Fprintf(w, "digest mode\t%s\n", st.DigestMode)
	fmt.Fprintf(w, "email\t%t\n", st.EmailNotifications)
	_ = w.Flush()
}

func init() {
	embedCmd.AddCommand(embedSyncCmd)
	embedCmd.AddCommand(embedRemoveCmd)

	queueCmd.AddCommand(queueStatsCmd)
	queueCmd.AddCommand(queuePendingCmd)
	queuePendingCmd.Flags().String("mode", string(domain.DigestModeDaily), "Digest mode: instant, daily or weekly")
	queueCmd.AddCommand(queueRetryCmd)
	queueCmd.AddCommand(queueResetCmd)
	queueResetCmd.Flags().Duration("older-than", 0, "claim age after which an event counts as stale (default: queue.stale_after)")

	contractCmd.AddCommand(contractHistoryCmd)
	contractHistoryCmd.Flags().IntP("limit", "n", 50, "Maximum number of records to show")
	contractCmd.AddCommand(contractSetStatusCmd)
	contractSetStatusCmd.Flags().String("notes", "", "Free-text note stored with the history record")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsSetCmd.Flags().Bool("enabled", true, "Receive law alerts at all")
	settingsSetCmd.Flags().Float64("threshold", 0.70, "Minimum similarity score in (0, 1]")
	settingsSetCmd.Flags().StringSlice("categories", nil, "Allowed legal areas; empty allows all")
	settingsSetCmd.Flags().String("digest-mode", "daily", "instant, daily or weekly")
	settingsSetCmd.Flags().Bool("email", true, "Send notifications by email")
	settingsCmd.AddCommand(settingsUnsubscribeCmd)
}
