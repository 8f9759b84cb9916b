package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/skychimp/newsletter-service/internal/database"
	"github.com/skychimp/newsletter-service/internal/database/repository"
	"github.com/skychimp/newsletter-service/internal/mailer"
	"github.com/skychimp/newsletter-service/internal/scheduler"
	"github.com/skychimp/newsletter-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// deliverer is the part of DeliveryService the command needs
type deliverer interface {
	SendMailToClients(newsletterID uint) error
}

// parseIDs converts the command arguments into newsletter IDs
func parseIDs(args []string) ([]uint, error) {
	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid newsletter id %q", arg)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// runSend sends each newsletter in order. The first failure aborts the rest
// of the batch.
func runSend(d deliverer, out io.Writer, ids []uint) error {
	for _, id := range ids {
		if err := d.SendMailToClients(id); err != nil {
			return fmt.Errorf("newsletter %d: %w", id, err)
		}
		fmt.Fprintf(out, "Successfully sent newsletter %d\n", id)
	}
	return nil
}

func main() {
	root := &cobra.Command{
		Use:   "sendnewsletter <id> [id...]",
		Short: "Send one or more newsletters immediately, bypassing their schedule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			if err := godotenv.Load(); err != nil {
				log.Println("No .env file found, using environment variables")
			}

			db, err := database.InitDB()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			sender, err := mailer.NewSMTPSenderFromEnv()
			if err != nil {
				return fmt.Errorf("failed to configure SMTP sender: %w", err)
			}

			newsletterRepo := repository.NewNewsletterRepository(db)
			logRepo := repository.NewNewsletterLogRepository(db)

			// No job registration happens here, the scheduler stays empty
			sched := scheduler.NewTimerScheduler()
			defer sched.Stop()

			delivery := services.NewDeliveryService(newsletterRepo, logRepo, sched, sender, nil)
			return runSend(delivery, cmd.OutOrStdout(), ids)
		},
		SilenceUsage: true,
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
